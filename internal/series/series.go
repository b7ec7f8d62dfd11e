package series

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"codeberg.org/mutker/fleetmon/internal/errors"
)

// Point is one synthetic reading on a trend chart.
type Point struct {
	At    time.Time `json:"at"`
	Label string    `json:"label"`
	Value float64   `json:"value"`
}

// Series is an ordered history, oldest first. Center is the current value
// the chart draws as a marker line; it is not necessarily the last point.
type Series struct {
	Points []Point `json:"points"`
	Center float64 `json:"center"`
}

// Len returns the number of points.
func (s Series) Len() int {
	return len(s.Points)
}

// Values returns the point values in order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Value
	}
	return out
}

// Labels returns the point labels in order.
func (s Series) Labels() []string {
	out := make([]string, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Label
	}
	return out
}

// LabelFormatter renders a point timestamp as an axis label.
type LabelFormatter func(time.Time) string

// ClockLabel renders HH:MM.
func ClockLabel(t time.Time) string {
	return t.Format("15:04")
}

// DayLabel renders DD.MM.
func DayLabel(t time.Time) string {
	return t.Format("02.01")
}

// MaxPoints bounds the history length of a single series.
const MaxPoints = 10000

type Config struct {
	RandSource rand.Source
	Clock      func() time.Time
}

// Synthesizer fabricates plausible chart history around a current value.
// It is safe for concurrent use.
type Synthesizer struct {
	mu  sync.Mutex
	rnd *rand.Rand
	now func() time.Time
}

func NewSynthesizer(cfg Config) *Synthesizer {
	source := cfg.RandSource
	if source == nil {
		source = rand.NewSource(time.Now().UnixNano())
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Synthesizer{
		rnd: rand.New(source),
		now: clock,
	}
}

// Synthesize returns points+1 values, oldest first, spaced by cadence and
// ending at the current time. Each value is current plus uniform noise in
// [-variance/2, variance/2), clamped at zero.
func (s *Synthesizer) Synthesize(
	current, variance float64, points int, cadence time.Duration, format LabelFormatter,
) (Series, error) {
	if err := validate(current, variance, points, cadence); err != nil {
		return Series{}, err
	}
	if format == nil {
		format = ClockLabel
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	out := make([]Point, 0, points+1)
	for i := points; i >= 0; i-- {
		at := now.Add(-time.Duration(i) * cadence)
		variation := (s.rnd.Float64() - 0.5) * variance
		out = append(out, Point{
			At:    at,
			Label: format(at),
			Value: math.Max(0, current+variation),
		})
	}

	return Series{Points: out, Center: current}, nil
}

func validate(current, variance float64, points int, cadence time.Duration) error {
	errFactory := errors.New()

	switch {
	case math.IsNaN(current) || math.IsInf(current, 0):
		return errFactory.WithData(ErrInvalidArgument, "current value must be finite")
	case current < 0:
		return errFactory.WithData(ErrInvalidArgument,
			fmt.Sprintf("current value %g must not be negative", current))
	case math.IsNaN(variance) || math.IsInf(variance, 0) || variance < 0:
		return errFactory.WithData(ErrInvalidArgument,
			fmt.Sprintf("variance %g must be a non-negative number", variance))
	case points < 1:
		return errFactory.WithData(ErrInvalidArgument,
			fmt.Sprintf("point count %d must be at least 1", points))
	case points > MaxPoints:
		return errFactory.WithData(ErrInvalidArgument,
			fmt.Sprintf("point count %d exceeds %d", points, MaxPoints))
	case cadence <= 0:
		return errFactory.WithData(ErrInvalidArgument,
			fmt.Sprintf("cadence %s must be positive", cadence))
	case int64(points) > math.MaxInt64/int64(cadence):
		return errFactory.WithData(ErrInvalidArgument,
			fmt.Sprintf("%d points of %s overflow the time span", points, cadence))
	}

	return nil
}
