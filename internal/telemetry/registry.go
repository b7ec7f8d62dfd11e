package telemetry

import (
	"fmt"

	"codeberg.org/mutker/fleetmon/internal/errors"
)

// Registry is an ordered, immutable set of metric descriptors.
type Registry struct {
	order []MetricID
	byID  map[MetricID]Descriptor
}

// NewRegistry validates every descriptor and builds a registry preserving
// the given order. Duplicate IDs are rejected.
func NewRegistry(descriptors ...Descriptor) (*Registry, error) {
	errFactory := errors.New()

	r := &Registry{
		order: make([]MetricID, 0, len(descriptors)),
		byID:  make(map[MetricID]Descriptor, len(descriptors)),
	}

	for _, d := range descriptors {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.byID[d.ID]; dup {
			return nil, errFactory.WithData(ErrDuplicateMetric,
				fmt.Sprintf("metric %s registered twice", d.ID))
		}
		r.order = append(r.order, d.ID)
		r.byID[d.ID] = d
	}

	return r, nil
}

// MustRegistry is like NewRegistry but panics on error. It is meant for
// static tables known at compile time.
func MustRegistry(descriptors ...Descriptor) *Registry {
	r, err := NewRegistry(descriptors...)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the descriptor for id.
func (r *Registry) Lookup(id MetricID) (Descriptor, bool) {
	d, ok := r.byID[id]
	return d, ok
}

// Descriptors returns a copy of all descriptors in registration order.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// IDs returns the metric IDs in registration order.
func (r *Registry) IDs() []MetricID {
	out := make([]MetricID, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Registry) Len() int {
	return len(r.order)
}

var defaultRegistry = MustRegistry(
	Descriptor{ID: EngineSpeed, Name: "Обороты двигателя", Unit: "об/мин", Min: 600, Max: 2500, Variance: 200},
	Descriptor{ID: RoadSpeed, Name: "Скорость", Unit: "км/ч", Min: 0, Max: 120, Variance: 15},
	Descriptor{ID: FuelLevel, Name: "Уровень топлива", Unit: "%", Min: 0, Max: 100, Variance: 5},
	Descriptor{ID: EngineTemperature, Name: "Температура двигателя", Unit: "°C", Min: 60, Max: 120, Reverse: true, Variance: 15},
	Descriptor{ID: OilPressure, Name: "Давление масла", Unit: "бар", Min: 20, Max: 60, Variance: 8},
	Descriptor{ID: BatteryVoltage, Name: "Напряжение АКБ", Unit: "В", Min: 11, Max: 15, Variance: 0.5},
	Descriptor{ID: AirPressure, Name: "Давление воздуха", Unit: "PSI", Min: 60, Max: 120, Variance: 10},
	Descriptor{ID: ExhaustTemperature, Name: "Температура выхлопа", Unit: "°C", Min: 200, Max: 600, Reverse: true, Variance: 50},
	Descriptor{ID: CoolantLevel, Name: "Уровень охлаждающей жидкости", Unit: "%", Min: 0, Max: 100, Variance: 5},
	Descriptor{ID: AdBlueLevel, Name: "Уровень AdBlue", Unit: "%", Min: 0, Max: 100, Variance: 5},
	Descriptor{ID: TurboBoost, Name: "Давление турбонаддува", Unit: "PSI", Min: 5, Max: 45, Variance: 5},
	Descriptor{ID: TransmissionTemperature, Name: "Температура КПП", Unit: "°C", Min: 60, Max: 120, Reverse: true, Variance: 10},
)

// DefaultRegistry returns the built-in registry of truck metrics.
func DefaultRegistry() *Registry {
	return defaultRegistry
}
