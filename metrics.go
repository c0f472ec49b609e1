package jwtkit

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	statusSuccess = "success"
	statusError   = "error"
	statusValid   = "valid"
	statusInvalid = "invalid"

	// unsupportedLabel replaces unknown algorithm names so label
	// cardinality stays bounded.
	unsupportedLabel = "unsupported"
)

// Metrics holds the Prometheus collectors for token operations. It owns its
// registry so several engines or tests never collide on registration.
type Metrics struct {
	signTotal      *prometheus.CounterVec
	verifyTotal    *prometheus.CounterVec
	decodeTotal    *prometheus.CounterVec
	signDuration   *prometheus.HistogramVec
	verifyDuration *prometheus.HistogramVec
	registry       *prometheus.Registry
}

// NewMetrics creates a new Metrics instance. namespace defaults to "jwtkit".
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "jwtkit"
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
	}

	m.signTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sign_total",
			Help:      "Total number of sign operations",
		},
		[]string{"status", "algorithm"},
	)

	m.verifyTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verify_total",
			Help:      "Total number of verify operations",
		},
		[]string{"status", "algorithm"},
	)

	m.decodeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decode_total",
			Help:      "Total number of decode operations",
		},
		[]string{"status"},
	)

	durationBuckets := []float64{
		.00005, .0001, .00025, .0005, .001,
		.0025, .005, .01, .025, .05, .1,
	}

	m.signDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sign_duration_seconds",
			Help:      "Sign duration in seconds",
			Buckets:   durationBuckets,
		},
		[]string{"status", "algorithm"},
	)

	m.verifyDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "verify_duration_seconds",
			Help:      "Verify duration in seconds",
			Buckets:   durationBuckets,
		},
		[]string{"status", "algorithm"},
	)

	m.registry.MustRegister(
		m.signTotal,
		m.verifyTotal,
		m.decodeTotal,
		m.signDuration,
		m.verifyDuration,
	)

	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordSign records a completed sign call.
func (m *Metrics) RecordSign(alg Algorithm, err error, duration time.Duration) {
	if m == nil {
		return
	}
	status := statusSuccess
	if err != nil {
		status = statusError
	}
	label := algorithmLabel(alg)
	m.signTotal.WithLabelValues(status, label).Inc()
	m.signDuration.WithLabelValues(status, label).Observe(duration.Seconds())
}

// RecordVerify records a completed verify call.
func (m *Metrics) RecordVerify(alg Algorithm, valid bool, duration time.Duration) {
	if m == nil {
		return
	}
	status := statusInvalid
	if valid {
		status = statusValid
	}
	label := algorithmLabel(alg)
	m.verifyTotal.WithLabelValues(status, label).Inc()
	m.verifyDuration.WithLabelValues(status, label).Observe(duration.Seconds())
}

// RecordDecode records a completed decode call.
func (m *Metrics) RecordDecode(err error) {
	if m == nil {
		return
	}
	status := statusSuccess
	if err != nil {
		status = statusError
	}
	m.decodeTotal.WithLabelValues(status).Inc()
}

func algorithmLabel(alg Algorithm) string {
	if !alg.Supported() {
		return unsupportedLabel
	}
	return string(alg)
}
