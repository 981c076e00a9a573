package server

import "github.com/prometheus/client_golang/prometheus"

const namespace = "repoeval"

type metrics struct {
	evaluations     *prometheus.CounterVec
	fetchFailures   *prometheus.CounterVec
	scores          prometheus.Histogram
	requestDuration *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Completed evaluations by level.",
		}, []string{"level"}),
		fetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_failures_total",
			Help:      "Snapshot fetches that failed, by kind.",
		}, []string{"kind"}),
		scores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "overall_score",
			Help:      "Distribution of overall scores.",
			Buckets:   prometheus.LinearBuckets(10, 10, 10),
		}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "code"}),
	}
	reg.MustRegister(m.evaluations, m.fetchFailures, m.scores, m.requestDuration)
	return m
}
