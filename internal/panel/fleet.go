package panel

import (
	"context"
	"time"

	"codeberg.org/mutker/fleetmon/internal/errors"
	"codeberg.org/mutker/fleetmon/internal/series"
	"codeberg.org/mutker/fleetmon/internal/telemetry"
)

// Fleet is the analytics view: a month of daily history per fleet KPI.
type Fleet struct {
	TakenAt time.Time          `json:"taken_at"`
	Profile string             `json:"profile"`
	KPIs    []series.KPISeries `json:"kpis"`
}

// Fleet renders the fleet KPI trends. They do not depend on the vehicle
// profile; they are always daily.
func (b *Builder) Fleet(ctx context.Context) (Fleet, error) {
	if err := ctx.Err(); err != nil {
		return Fleet{}, errors.New().Wrap(ErrOperationTimeout, err)
	}

	kpis, err := b.synthesizer.ForKPIs(series.FleetKPIs)
	if err != nil {
		return Fleet{}, err
	}

	f := Fleet{Profile: series.Daily.Name, KPIs: kpis}
	for _, ks := range kpis {
		b.metrics.ObserveSeries(telemetry.MetricID(ks.KPI.ID), series.Daily.Name, ks.Series.Len())
		if n := ks.Series.Len(); n > 0 {
			f.TakenAt = ks.Series.Points[n-1].At
		}
	}

	b.log.Debug().Int("kpis", len(f.KPIs)).Msg("Fleet view built")

	return f, nil
}
