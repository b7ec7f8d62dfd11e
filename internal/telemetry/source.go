package telemetry

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"codeberg.org/mutker/fleetmon/internal/errors"
)

// Source supplies the current snapshot for a vehicle. The simulated source
// stands in for a live telemetry feed.
type Source interface {
	Snapshot(ctx context.Context, vehicleID string) (Snapshot, error)
}

type SimulatedConfig struct {
	RandSource rand.Source
	Clock      func() time.Time
}

// SimulatedSource draws every reading uniformly from a plausible band for a
// working truck.
type SimulatedSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
	now func() time.Time
}

func NewSimulatedSource(cfg SimulatedConfig) *SimulatedSource {
	source := cfg.RandSource
	if source == nil {
		source = rand.NewSource(time.Now().UnixNano())
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	return &SimulatedSource{
		rnd: rand.New(source),
		now: clock,
	}
}

func (s *SimulatedSource) Snapshot(ctx context.Context, vehicleID string) (Snapshot, error) {
	errFactory := errors.New()

	if vehicleID == "" {
		return Snapshot{}, errFactory.WithData(ErrInvalidVehicle, "vehicle id is empty")
	}

	select {
	case <-ctx.Done():
		return Snapshot{}, errFactory.Wrap(ErrOperationTimeout, ctx.Err())
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		VehicleID:               vehicleID,
		TakenAt:                 s.now(),
		EngineSpeed:             s.whole(2000, 800),
		RoadSpeed:               s.whole(80, 20),
		FuelLevel:               s.whole(100, 0),
		EngineTemperature:       s.whole(30, 80),
		OilPressure:             s.whole(50, 30),
		BatteryVoltage:          12.5 + s.rnd.Float64()*2,
		AirPressure:             s.whole(20, 80),
		ExhaustTemperature:      s.whole(200, 300),
		CoolantLevel:            s.whole(100, 0),
		AdBlueLevel:             s.whole(100, 0),
		TurboBoost:              s.whole(30, 10),
		TransmissionTemperature: s.whole(40, 60),
	}, nil
}

// whole returns floor(u*span)+offset for u drawn from [0, 1).
func (s *SimulatedSource) whole(span, offset float64) float64 {
	return math.Floor(s.rnd.Float64()*span) + offset
}

var _ Source = (*SimulatedSource)(nil)
