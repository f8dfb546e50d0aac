package features

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	FeatureBuildDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "churn_feature_build_seconds",
		Help:    "Wall time of one feature matrix build.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	})

	UsersFeaturized = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "churn_users_featurized_total",
		Help: "Users for which a feature vector was produced.",
	})
)

func init() {
	prometheus.MustRegister(FeatureBuildDuration, UsersFeaturized)
}
