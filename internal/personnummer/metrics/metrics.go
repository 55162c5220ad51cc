package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for personnummer validation.
type Metrics struct {
	// Outcomes by result ("valid"/"invalid") and reason code
	Validations *prometheus.CounterVec

	ValidationDuration prometheus.Histogram

	BatchSize prometheus.Histogram
}

// New creates a Metrics instance registered on the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Validations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pnr_validations_total",
			Help: "Total validations by result and failure reason",
		}, []string{"result", "reason"}),

		ValidationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pnr_validation_duration_seconds",
			Help:    "Duration of a single identifier validation",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		}),

		BatchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pnr_batch_size",
			Help:    "Number of items per batch validation request",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
		}),
	}
}

// IncrementValidation records one verdict. An empty reason means valid.
func (m *Metrics) IncrementValidation(reason string) {
	if m == nil {
		return
	}
	result := "invalid"
	if reason == "" {
		result = "valid"
	}
	m.Validations.WithLabelValues(result, reason).Inc()
}

func (m *Metrics) ObserveValidationDuration(d time.Duration) {
	if m != nil {
		m.ValidationDuration.Observe(d.Seconds())
	}
}

func (m *Metrics) ObserveBatchSize(n int) {
	if m != nil {
		m.BatchSize.Observe(float64(n))
	}
}
