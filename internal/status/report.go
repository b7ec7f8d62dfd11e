package status

import (
	"fmt"

	"codeberg.org/mutker/fleetmon/internal/errors"
	"codeberg.org/mutker/fleetmon/internal/telemetry"
)

// Reading is one classified metric of a snapshot.
type Reading struct {
	Descriptor telemetry.Descriptor `json:"descriptor"`
	Value      float64              `json:"value"`
	Status     Status               `json:"status"`
	Indicator  Indicator            `json:"indicator"`
}

// Report classifies every registry metric of snap, in registry order.
func Report(reg *telemetry.Registry, snap telemetry.Snapshot) ([]Reading, error) {
	errFactory := errors.New()

	out := make([]Reading, 0, reg.Len())
	for _, d := range reg.Descriptors() {
		value, ok := snap.Value(d.ID)
		if !ok {
			return nil, errFactory.WithData(ErrMissingMetric,
				fmt.Sprintf("snapshot has no reading for %s", d.ID))
		}

		st, err := Classify(value, d)
		if err != nil {
			return nil, err
		}
		ind, err := Gauge(value, d)
		if err != nil {
			return nil, err
		}

		out = append(out, Reading{Descriptor: d, Value: value, Status: st, Indicator: ind})
	}

	return out, nil
}

// Attention returns the readings whose band calls for a look: low forward
// metrics, attention-band reverse metrics and anything out of range.
func Attention(readings []Reading) []Reading {
	var out []Reading
	for _, r := range readings {
		if r.Status.Color == ColorRed || r.Status.OutOfRange {
			out = append(out, r)
		}
	}
	return out
}
