package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	PredictDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "churn_predict_latency_seconds",
		Help:    "Latency of churn prediction endpoint",
		Buckets: prometheus.DefBuckets,
	})

	PredictTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "churn_predict_total",
		Help: "Total churn predictions served",
	})

	SummaryTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "churn_summary_requests_total",
		Help: "Total summary readbacks served",
	})
)

func Init() {
	prometheus.MustRegister(PredictDuration, PredictTotal, SummaryTotal)
}
