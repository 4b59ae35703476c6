package stats

import "github.com/prometheus/client_golang/prometheus"

const (
	outcomeMatched   = "matched"
	outcomeUnmatched = "unmatched"
)

type metrics struct {
	recognitions *prometheus.CounterVec
	latency      prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		recognitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gestura",
			Name:      "recognitions_total",
			Help:      "Recognition attempts by outcome.",
		}, []string{"outcome"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "gestura",
			Name:      "recognition_latency_ms",
			Help:      "Engine-side recognition latency in milliseconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
	if reg != nil {
		reg.MustRegister(m.recognitions, m.latency)
	}
	return m
}

func (m *metrics) observe(success bool, latencyMs float64) {
	outcome := outcomeUnmatched
	if success {
		outcome = outcomeMatched
	}
	m.recognitions.WithLabelValues(outcome).Inc()
	m.latency.Observe(latencyMs)
}
