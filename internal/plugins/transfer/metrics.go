package transfer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricArchives counts export archive uploads by outcome.
var MetricArchives = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "devpalette_export_archives_total",
	Help: "Export archive uploads, by outcome.",
}, []string{"outcome"})
