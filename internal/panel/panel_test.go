package panel

import (
	"bytes"
	"context"
	stderrors "errors"
	"math"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"codeberg.org/mutker/fleetmon/internal/errors"
	"codeberg.org/mutker/fleetmon/internal/logger"
	"codeberg.org/mutker/fleetmon/internal/metrics"
	"codeberg.org/mutker/fleetmon/internal/series"
	"codeberg.org/mutker/fleetmon/internal/status"
	"codeberg.org/mutker/fleetmon/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

type stubSource struct {
	snap telemetry.Snapshot
	err  error
}

func (s *stubSource) Snapshot(_ context.Context, vehicleID string) (telemetry.Snapshot, error) {
	if s.err != nil {
		return telemetry.Snapshot{}, s.err
	}
	snap := s.snap
	snap.VehicleID = vehicleID
	return snap, nil
}

func healthySnapshot() telemetry.Snapshot {
	return telemetry.Snapshot{
		TakenAt:                 fixedNow,
		EngineSpeed:             1500,
		RoadSpeed:               65,
		FuelLevel:               68,
		EngineTemperature:       92,
		OilPressure:             45,
		BatteryVoltage:          13.6,
		AirPressure:             90,
		ExhaustTemperature:      380,
		CoolantLevel:            85,
		AdBlueLevel:             60,
		TurboBoost:              22,
		TransmissionTemperature: 75,
	}
}

func newSynthesizer() *series.Synthesizer {
	return series.NewSynthesizer(series.Config{
		RandSource: rand.NewSource(1),
		Clock:      func() time.Time { return fixedNow },
	})
}

func newBuilder(t *testing.T, src telemetry.Source, opts ...func(*Options)) *Builder {
	t.Helper()

	o := Options{
		Registry:    telemetry.DefaultRegistry(),
		Source:      src,
		Synthesizer: newSynthesizer(),
		Profile:     series.Live,
	}
	for _, fn := range opts {
		fn(&o)
	}

	b, err := NewBuilder(o)
	require.NoError(t, err)
	return b
}

func TestNewBuilderRequiresDependencies(t *testing.T) {
	full := Options{
		Registry:    telemetry.DefaultRegistry(),
		Source:      &stubSource{},
		Synthesizer: newSynthesizer(),
		Profile:     series.Live,
	}

	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"missing registry", func(o *Options) { o.Registry = nil }},
		{"missing source", func(o *Options) { o.Source = nil }},
		{"missing synthesizer", func(o *Options) { o.Synthesizer = nil }},
		{"missing profile", func(o *Options) { o.Profile = series.Profile{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := full
			tt.mutate(&o)

			_, err := NewBuilder(o)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrInvalidConfig))
		})
	}
}

func TestBuildHealthyPanel(t *testing.T) {
	b := newBuilder(t, &stubSource{snap: healthySnapshot()})

	p, err := b.Build(context.Background(), "7")
	require.NoError(t, err)

	assert.Equal(t, "7", p.VehicleID)
	assert.Equal(t, fixedNow, p.TakenAt)
	assert.Equal(t, "live", p.Profile)

	reg := telemetry.DefaultRegistry()
	require.Len(t, p.Metrics, reg.Len())
	for i, id := range reg.IDs() {
		row := p.Metrics[i]
		assert.Equal(t, id, row.Descriptor.ID)
		assert.Empty(t, row.SeriesError)
		assert.Equal(t, series.Live.Points+1, row.Series.Len())
		assert.Equal(t, row.Value, row.Series.Center)
	}

	fuel := p.Metrics[2]
	require.Equal(t, telemetry.FuelLevel, fuel.Descriptor.ID)
	assert.Equal(t, 68.0, fuel.Value)
	assert.Equal(t, status.BandMedium, fuel.Status.Band)
	assert.InDelta(t, 68.0, fuel.Indicator.Fill, 1e-9)
	assert.True(t, fuel.Indicator.Healthy)
}

func TestBuildDegradesFailedSeries(t *testing.T) {
	snap := healthySnapshot()
	snap.EngineTemperature = -5

	var buf bytes.Buffer
	collector, err := metrics.NewService(metrics.Config{Enabled: true, Namespace: "fleetmon"}, logger.Nop())
	require.NoError(t, err)

	b := newBuilder(t, &stubSource{snap: snap}, func(o *Options) {
		o.Logger = logger.New(&buf)
		o.Metrics = collector
	})

	p, err := b.Build(context.Background(), "3")
	require.NoError(t, err)
	require.Len(t, p.Metrics, telemetry.DefaultRegistry().Len())

	temp := p.Metrics[3]
	require.Equal(t, telemetry.EngineTemperature, temp.Descriptor.ID)
	assert.NotEmpty(t, temp.SeriesError)
	assert.Zero(t, temp.Series.Len())
	assert.Equal(t, -5.0, temp.Series.Center)
	assert.True(t, temp.Status.OutOfRange)

	attention := p.Attention()
	require.NotEmpty(t, attention)
	assert.Equal(t, telemetry.EngineTemperature, attention[0].Descriptor.ID)

	// The rest of the panel is intact.
	assert.Equal(t, series.Live.Points+1, p.Metrics[2].Series.Len())

	assert.Contains(t, buf.String(), "Failed to synthesize series")
	assert.Contains(t, buf.String(), "metric=engine_temp")
}

func TestBuildRecordsMetrics(t *testing.T) {
	collector, err := metrics.NewService(metrics.Config{Enabled: true, Namespace: "fleetmon"}, logger.Nop())
	require.NoError(t, err)

	b := newBuilder(t, &stubSource{snap: healthySnapshot()}, func(o *Options) {
		o.Metrics = collector
		o.Profile = series.Daily
	})

	_, err = b.Build(context.Background(), "9")
	require.NoError(t, err)

	body := scrape(t, collector)
	assert.Contains(t, body, `fleetmon_snapshots_total{vehicle="9"} 1`)
	assert.Contains(t, body, `fleetmon_reading_value{metric="fuel_level",vehicle="9"} 68`)
	assert.Contains(t, body, `fleetmon_series_points_total{metric="rpm",profile="daily"} 31`)
	assert.NotContains(t, body, "fleetmon_series_failures_total{")
}

func TestBuildErrors(t *testing.T) {
	t.Run("empty vehicle", func(t *testing.T) {
		b := newBuilder(t, &stubSource{snap: healthySnapshot()})

		_, err := b.Build(context.Background(), " ")
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrInvalidArgument))
	})

	t.Run("plain source error", func(t *testing.T) {
		b := newBuilder(t, &stubSource{err: stderrors.New("link down")})

		_, err := b.Build(context.Background(), "1")
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrSourceUnavailable))
		assert.Contains(t, err.Error(), "link down")
	})

	t.Run("coded source error passes through", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		b := newBuilder(t, telemetry.NewSimulatedSource(telemetry.SimulatedConfig{
			RandSource: rand.NewSource(1),
		}))

		_, err := b.Build(ctx, "1")
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrTimeout))
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("classification error aborts", func(t *testing.T) {
		reg := telemetry.MustRegistry(telemetry.Descriptor{
			ID: telemetry.FuelLevel, Name: "Fuel", Unit: "%", Min: 0, Max: 100, Variance: 5,
		})
		snap := healthySnapshot()
		snap.FuelLevel = math.NaN()

		b := newBuilder(t, &stubSource{snap: snap}, func(o *Options) { o.Registry = reg })

		_, err := b.Build(context.Background(), "1")
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrInvalidArgument))
	})
}

func TestBuildWithSimulatedSource(t *testing.T) {
	src := telemetry.NewSimulatedSource(telemetry.SimulatedConfig{
		RandSource: rand.NewSource(42),
		Clock:      func() time.Time { return fixedNow },
	})
	b := newBuilder(t, src, func(o *Options) { o.Profile = series.Hourly })

	p, err := b.Build(context.Background(), "12")
	require.NoError(t, err)

	for _, row := range p.Metrics {
		assert.Empty(t, row.SeriesError, row.Descriptor.ID)
		assert.Equal(t, series.Hourly.Points+1, row.Series.Len())
		assert.GreaterOrEqual(t, row.Indicator.Fill, 5.0)
		assert.LessOrEqual(t, row.Indicator.Fill, 100.0)
	}
}

func scrape(t *testing.T, c metrics.Collector) string {
	t.Helper()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}
