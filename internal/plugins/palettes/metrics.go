package palettes

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricPalettesCreated counts palettes created from a color selection.
var MetricPalettesCreated = promauto.NewCounter(prometheus.CounterOpts{
	Name: "devpalette_palettes_created_total",
	Help: "Palettes created from a color selection.",
})
