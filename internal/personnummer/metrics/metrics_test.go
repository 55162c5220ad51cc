package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestIncrementValidation(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry())

	m.IncrementValidation("")
	m.IncrementValidation("invalid_checksum")
	m.IncrementValidation("invalid_checksum")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.Validations.WithLabelValues("valid", "")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.Validations.WithLabelValues("invalid", "invalid_checksum")))
}

func TestObservers(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegisterer(reg)

	m.ObserveValidationDuration(time.Millisecond)
	m.ObserveBatchSize(3)

	count, err := testutil.GatherAndCount(reg, "pnr_validation_duration_seconds", "pnr_batch_size")
	assert.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementValidation("")
		m.ObserveValidationDuration(time.Millisecond)
		m.ObserveBatchSize(1)
	})
}
