package jwtkit

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterValue reads a counter from m's registry. algorithm is ignored for
// metrics without that label.
func counterValue(t *testing.T, m *Metrics, name, status, algorithm string) float64 {
	t.Helper()

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() != name || family.GetType() != dto.MetricType_COUNTER {
			continue
		}
		for _, metric := range family.GetMetric() {
			labels := make(map[string]string)
			for _, pair := range metric.GetLabel() {
				labels[pair.GetName()] = pair.GetValue()
			}
			if labels["status"] != status {
				continue
			}
			if alg, ok := labels["algorithm"]; ok && alg != algorithm {
				continue
			}
			return metric.GetCounter().GetValue()
		}
	}
	return 0
}

func TestMetricsRecordOperations(t *testing.T) {
	m := NewMetrics("")
	e := newTestEngine(t, Config{Metrics: m})

	token, err := e.Sign(Payload{Subject: "m"}, testSecret, HS256)
	require.NoError(t, err)
	_, err = e.Sign(Payload{}, testSecret, "none")
	require.Error(t, err)

	assert.True(t, e.Verify(token, testSecret, HS256).Valid)
	assert.False(t, e.Verify(token, "wrong-secret-but-long-enough-0123456789", HS256).Valid)
	assert.False(t, e.Verify("garbage", testSecret, HS256).Valid)

	_, err = e.Decode(token)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.signTotal.WithLabelValues(statusSuccess, "HS256")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.signTotal.WithLabelValues(statusError, unsupportedLabel)))

	assert.Equal(t, 1.0, counterValue(t, m, "jwtkit_verify_total", statusValid, "HS256"))
	assert.Equal(t, 2.0, counterValue(t, m, "jwtkit_verify_total", statusInvalid, "HS256"))

	// two successful decodes from Verify plus the explicit one
	assert.Equal(t, 3.0, counterValue(t, m, "jwtkit_decode_total", statusSuccess, ""))
	assert.Equal(t, 1.0, counterValue(t, m, "jwtkit_decode_total", statusError, ""))

	assert.Equal(t, 2, testutil.CollectAndCount(m.signDuration))
	assert.Equal(t, 2, testutil.CollectAndCount(m.verifyDuration))
}

func TestMetricsNamespace(t *testing.T) {
	m := NewMetrics("tool")
	m.RecordDecode(nil)

	expected := `
# HELP tool_decode_total Total number of decode operations
# TYPE tool_decode_total counter
tool_decode_total{status="success"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "tool_decode_total"))
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordSign(HS256, nil, time.Millisecond)
		m.RecordVerify(HS256, true, time.Millisecond)
		m.RecordDecode(nil)
	})
}

func TestAlgorithmLabel(t *testing.T) {
	assert.Equal(t, "ES384", algorithmLabel(ES384))
	assert.Equal(t, unsupportedLabel, algorithmLabel("none"))
	assert.Equal(t, unsupportedLabel, algorithmLabel("a-very-long-attacker-controlled-value"))
}
