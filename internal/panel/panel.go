// Package panel assembles the per-vehicle telemetry view: the current
// reading of every metric, its status band, its gauge and its trend.
package panel

import (
	"context"
	"strings"
	"time"

	"codeberg.org/mutker/fleetmon/internal/errors"
	"codeberg.org/mutker/fleetmon/internal/logger"
	"codeberg.org/mutker/fleetmon/internal/metrics"
	"codeberg.org/mutker/fleetmon/internal/series"
	"codeberg.org/mutker/fleetmon/internal/status"
	"codeberg.org/mutker/fleetmon/internal/telemetry"
)

// MetricPanel is one row of a vehicle panel.
type MetricPanel struct {
	Descriptor telemetry.Descriptor `json:"descriptor"`
	Value      float64              `json:"value"`
	Status     status.Status        `json:"status"`
	Indicator  status.Indicator     `json:"indicator"`
	Series     series.Series        `json:"series"`
	// SeriesError is set when the trend could not be synthesized; Series
	// is empty in that case.
	SeriesError string `json:"series_error,omitempty"`
}

// Panel is the full view of one vehicle at one instant.
type Panel struct {
	VehicleID string        `json:"vehicle_id"`
	TakenAt   time.Time     `json:"taken_at"`
	Profile   string        `json:"profile"`
	Metrics   []MetricPanel `json:"metrics"`
}

// Attention returns the rows that are red or out of range.
func (p Panel) Attention() []MetricPanel {
	var out []MetricPanel
	for _, m := range p.Metrics {
		if m.Status.Color == status.ColorRed || m.Status.OutOfRange {
			out = append(out, m)
		}
	}
	return out
}

type Options struct {
	Registry    *telemetry.Registry
	Source      telemetry.Source
	Synthesizer *series.Synthesizer
	Profile     series.Profile
	// Metrics and Logger are optional.
	Metrics metrics.Collector
	Logger  logger.Logger
}

type Builder struct {
	registry    *telemetry.Registry
	source      telemetry.Source
	synthesizer *series.Synthesizer
	profile     series.Profile
	metrics     metrics.Collector
	log         logger.Logger
}

func NewBuilder(opts Options) (*Builder, error) {
	errFactory := errors.New()

	switch {
	case opts.Registry == nil || opts.Registry.Len() == 0:
		return nil, errFactory.WithData(ErrInvalidOptions, "registry is required")
	case opts.Source == nil:
		return nil, errFactory.WithData(ErrInvalidOptions, "source is required")
	case opts.Synthesizer == nil:
		return nil, errFactory.WithData(ErrInvalidOptions, "synthesizer is required")
	case opts.Profile.Name == "":
		return nil, errFactory.WithData(ErrInvalidOptions, "profile is required")
	}

	b := &Builder{
		registry:    opts.Registry,
		source:      opts.Source,
		synthesizer: opts.Synthesizer,
		profile:     opts.Profile,
		metrics:     opts.Metrics,
		log:         opts.Logger,
	}
	if b.log == nil {
		b.log = logger.Nop()
	}
	if b.metrics == nil {
		collector, err := metrics.NewService(metrics.DefaultConfig(), b.log)
		if err != nil {
			return nil, err
		}
		b.metrics = collector
	}

	return b, nil
}

// Build pulls a snapshot for vehicleID and renders its panel.
func (b *Builder) Build(ctx context.Context, vehicleID string) (Panel, error) {
	errFactory := errors.New()

	if strings.TrimSpace(vehicleID) == "" {
		return Panel{}, errFactory.WithData(ErrInvalidVehicle, "vehicle id must not be empty")
	}

	snap, err := b.source.Snapshot(ctx, vehicleID)
	if err != nil {
		if _, ok := errors.CodeOf(err); ok {
			return Panel{}, err
		}
		return Panel{}, errFactory.Wrap(ErrSourceUnavailable, err)
	}
	b.metrics.ObserveSnapshot(snap)

	readings, err := status.Report(b.registry, snap)
	if err != nil {
		return Panel{}, err
	}

	p := Panel{
		VehicleID: snap.VehicleID,
		TakenAt:   snap.TakenAt,
		Profile:   b.profile.Name,
		Metrics:   make([]MetricPanel, 0, len(readings)),
	}

	for _, r := range readings {
		id := r.Descriptor.ID
		b.metrics.ObserveReading(snap.VehicleID, id, r.Value, r.Status)

		row := MetricPanel{
			Descriptor: r.Descriptor,
			Value:      r.Value,
			Status:     r.Status,
			Indicator:  r.Indicator,
			Series:     series.Series{Points: []series.Point{}, Center: r.Value},
		}

		sr, err := b.synthesizer.ForMetric(r.Descriptor, r.Value, b.profile)
		if err != nil {
			b.metrics.ObserveSeriesFailure(id)
			b.log.Warn().
				Str("vehicle", snap.VehicleID).
				Str("metric", string(id)).
				Err(err).
				Msg("Failed to synthesize series")
			row.SeriesError = err.Error()
		} else {
			b.metrics.ObserveSeries(id, b.profile.Name, sr.Len())
			row.Series = sr
		}

		p.Metrics = append(p.Metrics, row)
	}

	b.log.Debug().
		Str("vehicle", p.VehicleID).
		Int("metrics", len(p.Metrics)).
		Int("attention", len(p.Attention())).
		Msg("Panel built")

	return p, nil
}
