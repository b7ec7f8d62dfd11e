package panel

import (
	"context"
	"testing"
	"time"

	"codeberg.org/mutker/fleetmon/internal/errors"
	"codeberg.org/mutker/fleetmon/internal/logger"
	"codeberg.org/mutker/fleetmon/internal/metrics"
	"codeberg.org/mutker/fleetmon/internal/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFleetBuildsDailyKPIs(t *testing.T) {
	collector, err := metrics.NewService(metrics.Config{Enabled: true, Namespace: "fleetmon"}, logger.Nop())
	require.NoError(t, err)

	// the vehicle profile does not change the fleet view
	b := newBuilder(t, &stubSource{snap: healthySnapshot()}, func(o *Options) {
		o.Metrics = collector
		o.Profile = series.Live
	})

	f, err := b.Fleet(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "daily", f.Profile)
	assert.Equal(t, fixedNow, f.TakenAt)
	require.Len(t, f.KPIs, len(series.FleetKPIs))
	for i, ks := range f.KPIs {
		assert.Equal(t, series.FleetKPIs[i].ID, ks.KPI.ID)
		require.Len(t, ks.Series.Points, series.Daily.Points+1)
		assert.Equal(t, fixedNow.Add(-30*24*time.Hour), ks.Series.Points[0].At)
	}

	body := scrape(t, collector)
	assert.Contains(t, body, `fleetmon_series_points_total{metric="mileage",profile="daily"} 31`)
}

func TestFleetCancelled(t *testing.T) {
	b := newBuilder(t, &stubSource{snap: healthySnapshot()})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.Fleet(ctx)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrTimeout))
	assert.True(t, errors.Is(err, context.Canceled))
}
