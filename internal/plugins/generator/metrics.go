package generator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricGenerated counts colors produced by the engine, by mode.
var MetricGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "devpalette_generated_colors_total",
	Help: "Colors generated, by generation mode.",
}, []string{"mode"})
