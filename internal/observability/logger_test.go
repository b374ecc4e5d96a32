package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSONByDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "info", "")

	logger.Debug("hidden")
	logger.Info("grid computed", "cells", 7315)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "grid computed", record["msg"])
	assert.Equal(t, float64(7315), record["cells"])
}

func TestNewLogger_TextAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "WARN", "text")

	logger.Info("hidden")
	logger.Warn("geocode failed", "address", "Невский 1")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "geocode failed")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("ERROR"))
	assert.Equal(t, slog.LevelInfo, parseLevel("bogus"))
}

func TestNewMetricsForTesting_Independent(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.GridComputations.Inc()
	a.GeocodeRequests.WithLabelValues("success").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.GridComputations))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.GridComputations))
	assert.Equal(t, 1.0, testutil.ToFloat64(a.GeocodeRequests.WithLabelValues("success")))
}
