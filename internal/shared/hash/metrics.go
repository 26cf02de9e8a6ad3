package hash

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Operation and outcome label values.
const (
	OperationHash         = "hash"
	OperationVerify       = "verify"
	OperationNeedsUpgrade = "needs_upgrade"

	OutcomeSuccess   = "success"
	OutcomeNeeded    = "needed"
	OutcomeMatch     = "match"
	OutcomeMismatch  = "mismatch"
	OutcomeMalformed = "malformed"
	OutcomeUnknown   = "unknown_algorithm"
	OutcomeError     = "error"
)

// unresolvedStrategy is the strategy label used when the id could not be
// resolved, so arbitrary stored ids do not become label values.
const unresolvedStrategy = "unresolved"

// Operations counts delegated hash operations.
// Use RegisterMetrics to register this with a Prometheus registry.
var Operations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "passhash_operations_total",
		Help: "Total number of delegated password hash operations",
	},
	[]string{"strategy", "operation", "outcome"},
)

// OperationDuration observes how long the resolved driver took.
// Use RegisterMetrics to register this with a Prometheus registry.
var OperationDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "passhash_operation_duration_seconds",
		Help:    "Password hash driver duration in seconds",
		Buckets: []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5},
	},
	[]string{"strategy", "operation"},
)

// RegisterMetrics registers hash package metrics with the given Prometheus registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(Operations)
	reg.MustRegister(OperationDuration)
}

func recordOperation(strategy Strategy, operation, outcome string) {
	Operations.WithLabelValues(string(strategy), operation, outcome).Inc()
}

func recordDuration(strategy Strategy, operation string, start time.Time) {
	OperationDuration.WithLabelValues(string(strategy), operation).Observe(time.Since(start).Seconds())
}
