package engine

import "github.com/prometheus/client_golang/prometheus"

const metricsNamespace = "amm_engine"

// Metrics holds the engine's prometheus instruments.
type Metrics struct {
	operationsTotal      *prometheus.CounterVec
	custodyFailuresTotal *prometheus.CounterVec
	operationDuration    *prometheus.HistogramVec
}

// NewMetrics constructs and registers the engine's metrics on the given
// registerer.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		operationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "operations_total",
			Help:      "Pool operations by type and outcome.",
		}, []string{"op", "outcome"}),
		custodyFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "custody_failures_total",
			Help:      "Custody transfer failures by operation.",
		}, []string{"op"}),
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of pool operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}
	registry.MustRegister(m.operationsTotal, m.custodyFailuresTotal, m.operationDuration)
	return m
}

func (m *Metrics) observe(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.operationsTotal.WithLabelValues(op, outcome).Inc()
}
