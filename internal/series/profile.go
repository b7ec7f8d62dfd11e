package series

import (
	"fmt"
	"time"

	"codeberg.org/mutker/fleetmon/internal/errors"
	"codeberg.org/mutker/fleetmon/internal/telemetry"
)

// Profile describes one chart flavour: how many points, how far apart and
// how much noise for a given metric.
type Profile struct {
	Name    string
	Points  int
	Cadence time.Duration
	Format  LabelFormatter
	// Variance picks the noise magnitude for a metric. Nil means the
	// descriptor's own Variance.
	Variance func(telemetry.Descriptor) float64
}

const hourlyVariance = 20

var (
	// Live matches the telemetry tab: the last hour in two-minute steps.
	Live = Profile{
		Name:    "live",
		Points:  30,
		Cadence: 2 * time.Minute,
		Format:  ClockLabel,
	}

	// Hourly matches the expanded metrics table: one day in hourly steps.
	Hourly = Profile{
		Name:     "hourly",
		Points:   24,
		Cadence:  time.Hour,
		Format:   ClockLabel,
		Variance: func(telemetry.Descriptor) float64 { return hourlyVariance },
	}

	// Daily matches the analytics tab: one month in daily steps.
	Daily = Profile{
		Name:    "daily",
		Points:  30,
		Cadence: 24 * time.Hour,
		Format:  DayLabel,
	}
)

// ProfileNames lists the built-in profile names.
func ProfileNames() []string {
	return []string{Live.Name, Hourly.Name, Daily.Name}
}

// ProfileByName resolves a built-in profile.
func ProfileByName(name string) (Profile, error) {
	switch name {
	case Live.Name:
		return Live, nil
	case Hourly.Name:
		return Hourly, nil
	case Daily.Name:
		return Daily, nil
	}

	return Profile{}, errors.New().WithData(ErrUnknownProfile, fmt.Sprintf("unknown profile %q", name))
}

func (p Profile) varianceFor(d telemetry.Descriptor) float64 {
	if p.Variance == nil {
		return d.Variance
	}
	return p.Variance(d)
}

// ForMetric synthesizes the history for one metric under profile p.
func (s *Synthesizer) ForMetric(d telemetry.Descriptor, current float64, p Profile) (Series, error) {
	return s.Synthesize(current, p.varianceFor(d), p.Points, p.Cadence, p.Format)
}
