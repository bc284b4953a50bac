package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricLogins counts login attempts by outcome: success,
// invalid_credentials, two_factor_required, invalid_two_factor.
var MetricLogins = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "devpalette_logins_total",
	Help: "Total login attempts by outcome",
}, []string{"outcome"})
