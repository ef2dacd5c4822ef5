package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		eligibilityChecksTotal,
		eligibilityBlockedReasons,
		eligibilityDetectionFailures,
	)
}

var (
	eligibilityChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eligibility_checks_total",
			Help: "Eligibility evaluations by outcome (eligible/ineligible).",
		},
		[]string{"outcome"},
	)

	eligibilityBlockedReasons = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "eligibility_blocked_reasons",
			Help:    "Distribution of the number of blocking reasons per negative decision.",
			Buckets: []float64{1, 2, 3, 4},
		},
	)

	eligibilityDetectionFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "eligibility_detection_failures_total",
			Help: "Evaluations that failed closed because a signal could not be gathered.",
		},
	)
)

// ObserveEligibility records one completed evaluation.
func ObserveEligibility(canActivate bool, reasonCount int) {
	outcome := "eligible"
	if !canActivate {
		outcome = "ineligible"
		eligibilityBlockedReasons.Observe(float64(reasonCount))
	}
	eligibilityChecksTotal.WithLabelValues(outcome).Inc()
}

// IncDetectionFailure counts an evaluation that failed closed because a
// signal (location or a collaborator call) could not be gathered.
func IncDetectionFailure() {
	eligibilityDetectionFailures.Inc()
}
