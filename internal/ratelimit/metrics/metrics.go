package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Checks         *prometheus.CounterVec
	FallbackChecks prometheus.Counter
	CircuitOpen    prometheus.Gauge
}

func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Checks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pnr_ratelimit_checks_total",
			Help: "Total rate limit checks by outcome",
		}, []string{"result"}), // result: "allowed", "denied", "error"
		FallbackChecks: factory.NewCounter(prometheus.CounterOpts{
			Name: "pnr_ratelimit_fallback_checks_total",
			Help: "Total rate limit checks answered by the in-memory fallback",
		}),
		CircuitOpen: factory.NewGauge(prometheus.GaugeOpts{
			Name: "pnr_ratelimit_circuit_open",
			Help: "Current circuit breaker state (0=closed/healthy, 1=open/degraded)",
		}),
	}
}

func (m *Metrics) IncrementCheck(result string) {
	if m != nil {
		m.Checks.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) IncrementFallback() {
	if m != nil {
		m.FallbackChecks.Inc()
	}
}

func (m *Metrics) SetCircuitOpen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.CircuitOpen.Set(1)
	} else {
		m.CircuitOpen.Set(0)
	}
}
