// Package metrics records model cache outcomes.
package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome classifies how a cached call was served.
type Outcome string

const (
	OutcomeHit         Outcome = "hit"
	OutcomeMiss        Outcome = "miss"
	OutcomeBypass      Outcome = "bypass"
	OutcomeRejected    Outcome = "rejected"
	OutcomeLookupError Outcome = "lookup_error"
	OutcomeStoreError  Outcome = "store_error"
	OutcomeEncodeError Outcome = "encode_error"
	OutcomeDecodeError Outcome = "decode_error"
)

// Recorder receives cache outcomes and stored payload sizes.
type Recorder interface {
	Observe(operation, table string, outcome Outcome)
	ObservePayload(operation, table string, bytes int)
}

// Nop discards everything.
type Nop struct{}

func (Nop) Observe(string, string, Outcome) {}

func (Nop) ObservePayload(string, string, int) {}

// PrometheusConfig configures the Prometheus recorder.
type PrometheusConfig struct {
	// Registerer receives the collectors; defaults to prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer
	// Namespace prefixes metric names; defaults to "modelcache".
	Namespace string
	// ConstLabels are applied to every metric.
	ConstLabels prometheus.Labels
	// SizeBuckets are the payload histogram buckets in bytes.
	SizeBuckets []float64
}

// Prometheus records outcomes as
// <namespace>_requests_total{operation,table,outcome} and payload sizes as
// <namespace>_payload_bytes{operation,table}.
type Prometheus struct {
	requests *prometheus.CounterVec
	payload  *prometheus.HistogramVec
}

// NewPrometheus creates the collectors and registers them. Collectors that
// are already registered with the same descriptor are reused.
func NewPrometheus(cfg PrometheusConfig) (*Prometheus, error) {
	reg := cfg.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "modelcache"
	}
	buckets := cfg.SizeBuckets
	if buckets == nil {
		buckets = []float64{64, 256, 1024, 4096, 16384, 65536, 262144, 1048576}
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   namespace,
		Name:        "requests_total",
		Help:        "Total number of cached model reads by outcome",
		ConstLabels: cfg.ConstLabels,
	}, []string{"operation", "table", "outcome"})

	payload := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   namespace,
		Name:        "payload_bytes",
		Help:        "Size of payloads written to the cache backend",
		ConstLabels: cfg.ConstLabels,
		Buckets:     buckets,
	}, []string{"operation", "table"})

	var err error
	if requests, err = register(reg, requests); err != nil {
		return nil, err
	}
	if payload, err = register(reg, payload); err != nil {
		return nil, err
	}

	return &Prometheus{requests: requests, payload: payload}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("metrics: register collector: %w", err)
	}
	return c, nil
}

func (p *Prometheus) Observe(operation, table string, outcome Outcome) {
	p.requests.WithLabelValues(operation, table, string(outcome)).Inc()
}

func (p *Prometheus) ObservePayload(operation, table string, bytes int) {
	p.payload.WithLabelValues(operation, table).Observe(float64(bytes))
}

var (
	_ Recorder = Nop{}
	_ Recorder = (*Prometheus)(nil)
)
