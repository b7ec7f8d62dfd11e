package telemetry

import "time"

// Snapshot holds the current readings for one vehicle. It is a value type:
// build it once, pass it by value, never modify it.
type Snapshot struct {
	VehicleID string    `json:"vehicle_id"`
	TakenAt   time.Time `json:"taken_at"`

	EngineSpeed             float64 `json:"rpm"`
	RoadSpeed               float64 `json:"speed"`
	FuelLevel               float64 `json:"fuel_level"`
	EngineTemperature       float64 `json:"engine_temp"`
	OilPressure             float64 `json:"oil_pressure"`
	BatteryVoltage          float64 `json:"battery_voltage"`
	AirPressure             float64 `json:"air_pressure"`
	ExhaustTemperature      float64 `json:"exhaust_temp"`
	CoolantLevel            float64 `json:"coolant_level"`
	AdBlueLevel             float64 `json:"adblue_level"`
	TurboBoost              float64 `json:"turbo_boost"`
	TransmissionTemperature float64 `json:"transmission_temp"`
}

// Value returns the reading for id, or false if the snapshot has no
// field for that metric.
func (s Snapshot) Value(id MetricID) (float64, bool) {
	switch id {
	case EngineSpeed:
		return s.EngineSpeed, true
	case RoadSpeed:
		return s.RoadSpeed, true
	case FuelLevel:
		return s.FuelLevel, true
	case EngineTemperature:
		return s.EngineTemperature, true
	case OilPressure:
		return s.OilPressure, true
	case BatteryVoltage:
		return s.BatteryVoltage, true
	case AirPressure:
		return s.AirPressure, true
	case ExhaustTemperature:
		return s.ExhaustTemperature, true
	case CoolantLevel:
		return s.CoolantLevel, true
	case AdBlueLevel:
		return s.AdBlueLevel, true
	case TurboBoost:
		return s.TurboBoost, true
	case TransmissionTemperature:
		return s.TransmissionTemperature, true
	default:
		return 0, false
	}
}
