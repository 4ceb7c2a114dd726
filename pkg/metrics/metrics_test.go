package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheus_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPrometheus(PrometheusConfig{Registerer: reg})
	require.NoError(t, err)

	rec.Observe("findAll", "users", OutcomeMiss)
	rec.Observe("findAll", "users", OutcomeHit)
	rec.Observe("findAll", "users", OutcomeHit)
	rec.Observe("count", "users", OutcomeLookupError)

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.requests.WithLabelValues("findAll", "users", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.requests.WithLabelValues("findAll", "users", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.requests.WithLabelValues("count", "users", "lookup_error")))
	assert.Equal(t, 3, testutil.CollectAndCount(rec.requests))
}

func TestPrometheus_ObservePayload(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPrometheus(PrometheusConfig{Registerer: reg, Namespace: "test"})
	require.NoError(t, err)

	rec.ObservePayload("findOne", "users", 120)
	rec.ObservePayload("findOne", "users", 4000)

	assert.Equal(t, 1, testutil.CollectAndCount(rec.payload))

	families, err := reg.Gather()
	require.NoError(t, err)

	var names []string
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	assert.Contains(t, names, "test_payload_bytes")
}

func TestPrometheus_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()

	first, err := NewPrometheus(PrometheusConfig{Registerer: reg})
	require.NoError(t, err)
	second, err := NewPrometheus(PrometheusConfig{Registerer: reg})
	require.NoError(t, err)

	first.Observe("count", "users", OutcomeMiss)
	second.Observe("count", "users", OutcomeMiss)

	assert.Equal(t, 2.0, testutil.ToFloat64(first.requests.WithLabelValues("count", "users", "miss")))
}

func TestNop(t *testing.T) {
	var rec Recorder = Nop{}
	rec.Observe("findAll", "users", OutcomeHit)
	rec.ObservePayload("findAll", "users", 10)
}
