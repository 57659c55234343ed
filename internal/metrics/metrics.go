// Package metrics exposes Prometheus instrumentation for Openlatch.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ValidationAttempts counts every access evaluation by credential
	// method ("code"/"tag") and result ("granted"/"denied").
	ValidationAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "openlatch_validation_attempts_total",
			Help: "Total access validation attempts by credential method and result.",
		},
		[]string{"method", "result"},
	)

	// ValidationDenied counts denied evaluations by decision reason.
	ValidationDenied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "openlatch_validation_denied_total",
			Help: "Denied access validation attempts by reason.",
		},
		[]string{"reason"},
	)
)

// ObserveValidation records one evaluation outcome.
func ObserveValidation(method string, granted bool, reason string) {
	result := "granted"
	if !granted {
		result = "denied"
		ValidationDenied.WithLabelValues(reason).Inc()
	}
	ValidationAttempts.WithLabelValues(method, result).Inc()
}
