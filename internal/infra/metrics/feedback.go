package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		feedbackRatings,
		feedbackPointsAwarded,
	)
}

var (
	feedbackRatings = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feedback_ratings",
			Help:    "Distribution of submitted feedback ratings.",
			Buckets: []float64{1, 2, 3, 4, 5},
		},
	)

	feedbackPointsAwarded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "feedback_points_awarded_total",
			Help: "Sum of loyalty points credited through feedback.",
		},
	)
)

func ObserveFeedback(rating, points int) {
	feedbackRatings.Observe(float64(rating))
	feedbackPointsAwarded.Add(float64(points))
}
