package metrics

import (
	"net/http"

	"codeberg.org/mutker/fleetmon/internal/errors"
	"codeberg.org/mutker/fleetmon/internal/logger"
	"codeberg.org/mutker/fleetmon/internal/status"
	"codeberg.org/mutker/fleetmon/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type service struct {
	registry *prometheus.Registry

	snapshots       *prometheus.CounterVec
	classifications *prometheus.CounterVec
	readings        *prometheus.GaugeVec
	seriesPoints    *prometheus.CounterVec
	seriesFailures  *prometheus.CounterVec
}

// No-op implementation
type noopCollector struct{}

// NewService returns a Prometheus-backed collector, or a no-op collector
// when metrics are disabled.
func NewService(cfg Config, log logger.Logger) (Collector, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	if !cfg.Enabled {
		log.Debug().Msg("Metrics collection disabled, using no-op collector")
		return &noopCollector{}, nil
	}

	s := &service{
		registry: prometheus.NewRegistry(),
		snapshots: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "snapshots_total",
			Help:      "Telemetry snapshots taken per vehicle.",
		}, []string{"vehicle"}),
		classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "classifications_total",
			Help:      "Readings classified per metric and band.",
		}, []string{"metric", "band"}),
		readings: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Name:      "reading_value",
			Help:      "Latest reading per vehicle and metric.",
		}, []string{"vehicle", "metric"}),
		seriesPoints: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "series_points_total",
			Help:      "Synthetic chart points generated per metric and profile.",
		}, []string{"metric", "profile"}),
		seriesFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "series_failures_total",
			Help:      "Chart series that could not be synthesized.",
		}, []string{"metric"}),
	}

	for _, c := range []prometheus.Collector{
		s.snapshots, s.classifications, s.readings, s.seriesPoints, s.seriesFailures,
	} {
		if err := s.registry.Register(c); err != nil {
			return nil, errFactory.Wrap(ErrRegister, err)
		}
	}

	log.Debug().
		Str("namespace", cfg.Namespace).
		Msg("Metrics service initialized successfully")

	return s, nil
}

func (s *service) ObserveSnapshot(snap telemetry.Snapshot) {
	s.snapshots.WithLabelValues(snap.VehicleID).Inc()
}

func (s *service) ObserveReading(vehicleID string, metric telemetry.MetricID, value float64, st status.Status) {
	s.classifications.WithLabelValues(string(metric), st.Band.String()).Inc()
	s.readings.WithLabelValues(vehicleID, string(metric)).Set(value)
}

func (s *service) ObserveSeries(metric telemetry.MetricID, profile string, points int) {
	s.seriesPoints.WithLabelValues(string(metric), profile).Add(float64(points))
}

func (s *service) ObserveSeriesFailure(metric telemetry.MetricID) {
	s.seriesFailures.WithLabelValues(string(metric)).Inc()
}

func (s *service) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry})
}

func (*service) Enabled() bool {
	return true
}

func (*noopCollector) ObserveSnapshot(_ telemetry.Snapshot) {}

func (*noopCollector) ObserveReading(_ string, _ telemetry.MetricID, _ float64, _ status.Status) {}

func (*noopCollector) ObserveSeries(_ telemetry.MetricID, _ string, _ int) {}

func (*noopCollector) ObserveSeriesFailure(_ telemetry.MetricID) {}

func (*noopCollector) Handler() http.Handler {
	return http.NotFoundHandler()
}

func (*noopCollector) Enabled() bool {
	return false
}
