package telemetry

import (
	"fmt"
	"math"

	"codeberg.org/mutker/fleetmon/internal/errors"
)

// MetricID identifies one scalar telemetry metric.
type MetricID string

const (
	EngineSpeed             MetricID = "rpm"
	RoadSpeed               MetricID = "speed"
	FuelLevel               MetricID = "fuel_level"
	EngineTemperature       MetricID = "engine_temp"
	OilPressure             MetricID = "oil_pressure"
	BatteryVoltage          MetricID = "battery_voltage"
	AirPressure             MetricID = "air_pressure"
	ExhaustTemperature      MetricID = "exhaust_temp"
	CoolantLevel            MetricID = "coolant_level"
	AdBlueLevel             MetricID = "adblue_level"
	TurboBoost              MetricID = "turbo_boost"
	TransmissionTemperature MetricID = "transmission_temp"
)

// Descriptor is the static registry entry for a metric.
//
// Reverse marks metrics where lower raw values are better, such as
// temperatures. Variance is the default noise magnitude used when a chart
// history is synthesized for the metric.
type Descriptor struct {
	ID       MetricID `json:"id"`
	Name     string   `json:"name"`
	Unit     string   `json:"unit"`
	Min      float64  `json:"min"`
	Max      float64  `json:"max"`
	Reverse  bool     `json:"reverse"`
	Variance float64  `json:"variance"`
}

// Validate checks the descriptor invariants: a non-empty ID, finite bounds
// with Min < Max and a non-negative Variance.
func (d Descriptor) Validate() error {
	errFactory := errors.New()

	if d.ID == "" {
		return errFactory.WithData(ErrInvalidDescriptor, "metric id is empty")
	}
	if !isFinite(d.Min) || !isFinite(d.Max) {
		return errFactory.WithData(ErrInvalidDescriptor,
			fmt.Sprintf("metric %s: bounds must be finite", d.ID))
	}
	if d.Min >= d.Max {
		return errFactory.WithData(ErrInvalidDescriptor,
			fmt.Sprintf("metric %s: min %g must be below max %g", d.ID, d.Min, d.Max))
	}
	if !isFinite(d.Variance) || d.Variance < 0 {
		return errFactory.WithData(ErrInvalidDescriptor,
			fmt.Sprintf("metric %s: variance %g must be non-negative", d.ID, d.Variance))
	}

	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
