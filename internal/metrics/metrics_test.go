package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"codeberg.org/mutker/fleetmon/internal/errors"
	"codeberg.org/mutker/fleetmon/internal/logger"
	"codeberg.org/mutker/fleetmon/internal/status"
	"codeberg.org/mutker/fleetmon/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEnabled(t *testing.T) *service {
	t.Helper()

	c, err := NewService(Config{Enabled: true, Namespace: "fleetmon"}, logger.Nop())
	require.NoError(t, err)
	require.True(t, c.Enabled())

	s, ok := c.(*service)
	require.True(t, ok)
	return s
}

func TestNewServiceDisabledReturnsNoop(t *testing.T) {
	c, err := NewService(DefaultConfig(), logger.Nop())
	require.NoError(t, err)
	assert.False(t, c.Enabled())

	assert.NotPanics(t, func() {
		c.ObserveSnapshot(telemetry.Snapshot{VehicleID: "1"})
		c.ObserveReading("1", telemetry.FuelLevel, 50, status.Status{})
		c.ObserveSeries(telemetry.FuelLevel, "live", 31)
		c.ObserveSeriesFailure(telemetry.FuelLevel)
	})

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewServiceInvalidConfig(t *testing.T) {
	_, err := NewService(Config{Enabled: true}, logger.Nop())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidConfig))
	assert.True(t, errors.HasCode(err, ErrInvalidNamespace))
}

func TestCollectorCounts(t *testing.T) {
	s := newEnabled(t)

	s.ObserveSnapshot(telemetry.Snapshot{VehicleID: "7", TakenAt: time.Now()})
	s.ObserveSnapshot(telemetry.Snapshot{VehicleID: "7", TakenAt: time.Now()})

	attention := status.Status{Band: status.BandAttention}
	s.ObserveReading("7", telemetry.EngineTemperature, 118, attention)
	s.ObserveReading("7", telemetry.EngineTemperature, 121, attention)
	s.ObserveSeries(telemetry.EngineTemperature, "live", 31)
	s.ObserveSeries(telemetry.EngineTemperature, "live", 31)
	s.ObserveSeriesFailure(telemetry.RoadSpeed)

	assert.Equal(t, 2.0, testutil.ToFloat64(s.snapshots.WithLabelValues("7")))
	assert.Equal(t, 2.0, testutil.ToFloat64(s.classifications.WithLabelValues("engine_temp", "attention")))
	assert.Equal(t, 121.0, testutil.ToFloat64(s.readings.WithLabelValues("7", "engine_temp")))
	assert.Equal(t, 62.0, testutil.ToFloat64(s.seriesPoints.WithLabelValues("engine_temp", "live")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.seriesFailures.WithLabelValues("speed")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	s := newEnabled(t)
	s.ObserveReading("1", telemetry.FuelLevel, 68, status.Status{Band: status.BandMedium})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `fleetmon_classifications_total{band="medium",metric="fuel_level"} 1`)
	assert.Contains(t, string(body), `fleetmon_reading_value{metric="fuel_level",vehicle="1"} 68`)
}
