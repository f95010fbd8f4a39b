package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestInitMetrics 重复调用不会panic（promauto重复注册会panic）
func TestInitMetrics(t *testing.T) {
	InitMetrics()
	InitMetrics()

	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, HTTPRequestDuration)
	assert.NotNil(t, HTTPRequestsInProgress)
	assert.NotNil(t, LoginAttemptsTotal)
	assert.NotNil(t, CircuitBreakerState)
}

func TestCounterVec(t *testing.T) {
	InitMetrics()

	ok := map[string]string{"result": "success"}
	before := getCounterVecValue(t, LoginAttemptsTotal, ok)

	IncCounterVec(LoginAttemptsTotal, ok)
	IncCounterVec(LoginAttemptsTotal, ok)
	IncCounterVec(LoginAttemptsTotal, map[string]string{"result": "inactive"})

	assert.Equal(t, before+2, getCounterVecValue(t, LoginAttemptsTotal, ok))
}

func TestGauge(t *testing.T) {
	InitMetrics()

	IncGauge(HTTPRequestsInProgress)
	IncGauge(HTTPRequestsInProgress)
	DecGauge(HTTPRequestsInProgress)

	m := &dto.Metric{}
	require.NoError(t, HTTPRequestsInProgress.Write(m))
	assert.Equal(t, float64(1), m.GetGauge().GetValue())
	DecGauge(HTTPRequestsInProgress)
}

func TestHistogramVec(t *testing.T) {
	InitMetrics()

	labels := map[string]string{"method": "GET", "path": "/api/books"}
	ObserveHistogramVec(HTTPRequestDuration, labels, 0.05)
	ObserveHistogramVec(HTTPRequestDuration, labels, 0.2)

	m := &dto.Metric{}
	obs, err := HTTPRequestDuration.GetMetricWith(labels)
	require.NoError(t, err)
	require.NoError(t, obs.(prometheus.Metric).Write(m))
	assert.GreaterOrEqual(t, m.GetHistogram().GetSampleCount(), uint64(2))
}

func TestNilSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		IncCounter(nil)
		IncCounterVec(nil, nil)
		IncGauge(nil)
		SetGaugeVec(nil, nil, 1)
		ObserveHistogramVec(nil, nil, 1)
	})
}

func getCounterVecValue(t *testing.T, cv *prometheus.CounterVec, labels map[string]string) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, cv.With(labels).Write(m))
	return m.GetCounter().GetValue()
}
