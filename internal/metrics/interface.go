package metrics

import (
	"net/http"

	"codeberg.org/mutker/fleetmon/internal/status"
	"codeberg.org/mutker/fleetmon/internal/telemetry"
)

// Collector records what the core computed for each rendered panel.
type Collector interface {
	ObserveSnapshot(snap telemetry.Snapshot)
	ObserveReading(vehicleID string, metric telemetry.MetricID, value float64, st status.Status)
	ObserveSeries(metric telemetry.MetricID, profile string, points int)
	ObserveSeriesFailure(metric telemetry.MetricID)
	// Handler serves the collected metrics in Prometheus text format.
	Handler() http.Handler
	Enabled() bool
}
