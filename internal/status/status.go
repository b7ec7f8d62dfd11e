package status

import (
	"fmt"
	"math"

	"codeberg.org/mutker/fleetmon/internal/errors"
	"codeberg.org/mutker/fleetmon/internal/telemetry"
)

const (
	lowerThreshold = 0.3
	upperThreshold = 0.7

	minIndicatorFill = 5
	maxIndicatorFill = 100
)

// Band is the ordinal health band of a reading. Forward metrics use
// Low/Medium/High, reverse metrics use Good/Fair/Attention.
type Band int

const (
	BandLow Band = iota
	BandMedium
	BandHigh
	BandGood
	BandFair
	BandAttention
)

func (b Band) String() string {
	switch b {
	case BandLow:
		return "low"
	case BandMedium:
		return "medium"
	case BandHigh:
		return "high"
	case BandGood:
		return "good"
	case BandFair:
		return "fair"
	case BandAttention:
		return "attention"
	default:
		return fmt.Sprintf("band(%d)", int(b))
	}
}

func (b Band) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *Band) UnmarshalText(text []byte) error {
	for candidate := BandLow; candidate <= BandAttention; candidate++ {
		if candidate.String() == string(text) {
			*b = candidate
			return nil
		}
	}

	return errors.New().WithData(ErrInvalidValue, fmt.Sprintf("unknown band %q", text))
}

// Color is the semantic display color of a band.
type Color string

const (
	ColorRed    Color = "red"
	ColorYellow Color = "yellow"
	ColorGreen  Color = "green"
)

type presentation struct {
	label string
	color Color
}

var bandPresentation = map[Band]presentation{
	BandLow:       {"Низкий", ColorRed},
	BandMedium:    {"Средний", ColorYellow},
	BandHigh:      {"Высокий", ColorGreen},
	BandGood:      {"Отлично", ColorGreen},
	BandFair:      {"Хорошо", ColorYellow},
	BandAttention: {"Внимание", ColorRed},
}

// Status is the classification of one reading.
//
// Percentage is the position of the reading inside [min, max] and is not
// clamped: readings outside the range still land in the extreme band, and
// OutOfRange is set so callers can tell a likely sensor fault from a very
// high normal reading.
type Status struct {
	Band       Band    `json:"band"`
	Label      string  `json:"label"`
	Color      Color   `json:"color"`
	Percentage float64 `json:"percentage"`
	OutOfRange bool    `json:"out_of_range"`
}

// Classify bands value against the descriptor's range.
func Classify(value float64, d telemetry.Descriptor) (Status, error) {
	return ClassifyRange(value, d.Min, d.Max, d.Reverse)
}

// ClassifyRange bands value against [minValue, maxValue]. With reverse set
// lower values are better.
func ClassifyRange(value, minValue, maxValue float64, reverse bool) (Status, error) {
	pct, err := percentage(value, minValue, maxValue)
	if err != nil {
		return Status{}, err
	}

	band := bandFor(pct, reverse)
	p := bandPresentation[band]

	return Status{
		Band:       band,
		Label:      p.label,
		Color:      p.color,
		Percentage: pct,
		OutOfRange: pct < 0 || pct > 1,
	}, nil
}

func bandFor(pct float64, reverse bool) Band {
	switch {
	case pct < lowerThreshold:
		if reverse {
			return BandGood
		}
		return BandLow
	case pct < upperThreshold:
		if reverse {
			return BandFair
		}
		return BandMedium
	default:
		if reverse {
			return BandAttention
		}
		return BandHigh
	}
}

func percentage(value, minValue, maxValue float64) (float64, error) {
	errFactory := errors.New()

	if !isFinite(minValue) || !isFinite(maxValue) {
		return 0, errFactory.WithData(ErrInvalidRange, "range bounds must be finite")
	}
	if minValue >= maxValue {
		return 0, errFactory.WithData(ErrInvalidRange,
			fmt.Sprintf("min %g must be below max %g", minValue, maxValue))
	}
	if math.IsNaN(value) {
		return 0, errFactory.WithData(ErrInvalidValue, "reading is NaN")
	}

	return (value - minValue) / (maxValue - minValue), nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Indicator is the small gauge bar drawn next to a reading.
type Indicator struct {
	// Fill is the bar width in percent, kept within [5, 100] so an empty
	// reading still shows a sliver.
	Fill    float64 `json:"fill"`
	Healthy bool    `json:"healthy"`
}

// Gauge computes the indicator for value.
func Gauge(value float64, d telemetry.Descriptor) (Indicator, error) {
	pct, err := percentage(value, d.Min, d.Max)
	if err != nil {
		return Indicator{}, err
	}

	healthy := pct > lowerThreshold
	if d.Reverse {
		healthy = pct < upperThreshold
	}

	return Indicator{
		Fill:    math.Max(minIndicatorFill, math.Min(maxIndicatorFill, pct*100)),
		Healthy: healthy,
	}, nil
}
