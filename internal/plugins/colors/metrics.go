package colors

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricColorsSaved counts colors written to collections, by source
// ("manual" for a single hex, "generated" for batch saves, "import").
var MetricColorsSaved = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "devpalette_colors_saved_total",
	Help: "Colors saved to user collections.",
}, []string{"source"})
