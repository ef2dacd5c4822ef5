package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		activationsCreatedTotal,
		activationsRejectedTotal,
		activationsPurgedTotal,
	)
}

var (
	activationsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "activations_created_total",
			Help: "Privilege activations successfully created.",
		},
	)

	activationsRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "activations_rejected_total",
			Help: "Activation requests rejected by the fresh re-validation.",
		},
	)

	activationsPurgedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "activations_purged_total",
			Help: "Old activation records removed by the retention sweep.",
		},
	)
)

func IncActivationsCreated() { activationsCreatedTotal.Inc() }

func IncActivationsRejected() { activationsRejectedTotal.Inc() }

func AddActivationsPurged(n int64) { activationsPurgedTotal.Add(float64(n)) }
