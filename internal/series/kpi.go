package series

import (
	"fmt"

	"codeberg.org/mutker/fleetmon/internal/errors"
)

// KPI is a fleet-wide indicator charted over the Daily profile.
type KPI struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Unit     string  `json:"unit"`
	Baseline float64 `json:"baseline"`
	Variance float64 `json:"variance"`
}

// FleetKPIs are the indicators shown on the analytics view.
var FleetKPIs = []KPI{
	{ID: "fuel_consumption", Name: "Fuel consumption", Unit: "l/100km", Baseline: 25, Variance: 4},
	{ID: "efficiency", Name: "Driving efficiency", Unit: "%", Baseline: 85, Variance: 15},
	{ID: "mileage", Name: "Daily mileage", Unit: "km", Baseline: 450, Variance: 100},
}

type KPISeries struct {
	KPI    KPI    `json:"kpi"`
	Series Series `json:"series"`
}

// ForKPIs synthesizes a month of daily history for each KPI, in order.
func (s *Synthesizer) ForKPIs(kpis []KPI) ([]KPISeries, error) {
	errFactory := errors.New()

	out := make([]KPISeries, 0, len(kpis))
	for _, k := range kpis {
		sr, err := s.Synthesize(k.Baseline, k.Variance, Daily.Points, Daily.Cadence, Daily.Format)
		if err != nil {
			return nil, errFactory.Wrap(ErrInvalidArgument, err).
				WithMessage(fmt.Sprintf("synthesize %s", k.ID))
		}
		out = append(out, KPISeries{KPI: k, Series: sr})
	}

	return out, nil
}
