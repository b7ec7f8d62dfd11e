package main

import (
	"context"
	"encoding/json"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/mutker/fleetmon/internal/config"
	"codeberg.org/mutker/fleetmon/internal/errors"
	"codeberg.org/mutker/fleetmon/internal/logger"
	"codeberg.org/mutker/fleetmon/internal/metrics"
	"codeberg.org/mutker/fleetmon/internal/panel"
	"codeberg.org/mutker/fleetmon/internal/pid"
	"codeberg.org/mutker/fleetmon/internal/series"
	"codeberg.org/mutker/fleetmon/internal/status"
	"codeberg.org/mutker/fleetmon/internal/telemetry"
)

const envFile = ".env"

type app struct {
	cfg     *config.Config
	builder *panel.Builder
	server  *metrics.Server
	pidFile *pid.File
	out     io.Writer

	ownsPID bool
}

func main() {
	// replaced by run once the configured level is known
	logger.InitTo(os.Stderr, logger.InfoLevel, logger.IsService())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fatal(err)
	}
}

// fatal logs a start-up failure and exits with status 1.
func fatal(err error) {
	var coded errors.Error
	if errors.As(err, &coded) {
		logger.FatalWithCode(coded).Msg("Failed to start")
		return
	}
	logger.Fatal().Err(err).Msg("Failed to start")
}

// run wires the components from args and drives the render loop until ctx
// is cancelled, or renders once with --once.
func run(ctx context.Context, args []string, out io.Writer) error {
	var opts []config.Option
	if _, err := os.Stat(envFile); err == nil {
		opts = append(opts, config.WithEnvFile(envFile))
	}

	cfg, err := config.Load(args, opts...)
	if err != nil {
		return err
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	if cfg.JSON {
		// stdout carries the panels
		logger.InitTo(os.Stderr, level, logger.IsService())
	} else {
		logger.Init(level, logger.IsService())
	}
	logger.Debug().
		Dur("interval", cfg.Interval).
		Strs("vehicles", cfg.Vehicles).
		Str("profile", cfg.Profile).
		Msg("Config loaded")

	a, err := newApp(cfg, out)
	if err != nil {
		return err
	}
	defer a.cleanup()

	if cfg.Once {
		for _, id := range cfg.Vehicles {
			if err := a.render(ctx, id); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			}
		}
		if cfg.Fleet {
			if err := a.renderFleet(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
		}
		return nil
	}

	if err := a.pidFile.Write(); err != nil {
		return err
	}
	a.ownsPID = true

	return a.loop(ctx)
}

func newApp(cfg *config.Config, out io.Writer) (*app, error) {
	log := logger.Default()

	profile, err := series.ProfileByName(cfg.Profile)
	if err != nil {
		return nil, err
	}

	collector, err := metrics.NewService(metrics.Config{
		Enabled:   cfg.Metrics,
		Namespace: "fleetmon",
	}, log)
	if err != nil {
		return nil, err
	}

	var source, synth rand.Source
	if cfg.Seed != 0 {
		// Separate streams so the series do not shift when the source
		// draws a different number of values.
		source = rand.NewSource(cfg.Seed)
		synth = rand.NewSource(cfg.Seed + 1)
	}

	builder, err := panel.NewBuilder(panel.Options{
		Registry:    telemetry.DefaultRegistry(),
		Source:      telemetry.NewSimulatedSource(telemetry.SimulatedConfig{RandSource: source}),
		Synthesizer: series.NewSynthesizer(series.Config{RandSource: synth}),
		Profile:     profile,
		Metrics:     collector,
		Logger:      log,
	})
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		builder: builder,
		pidFile: pid.New(cfg.PIDDir),
		out:     out,
	}

	if collector.Enabled() {
		a.server = metrics.NewServer(cfg.MetricsAddr, collector, log)
		if err := a.server.Start(); err != nil {
			return nil, err
		}
	}

	return a, nil
}

func (a *app) loop(ctx context.Context) error {
	ticker := time.NewTicker(a.cfg.Interval)
	defer ticker.Stop()

	logger.Info().
		Dur("interval", a.cfg.Interval).
		Int("vehicles", len(a.cfg.Vehicles)).
		Msg("Monitoring fleet...")

	a.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			a.tick(ctx)
		}
	}
}

// tick renders every vehicle once. Failures are logged and the loop goes on.
func (a *app) tick(ctx context.Context) {
	for _, id := range a.cfg.Vehicles {
		if ctx.Err() != nil {
			return
		}
		if err := a.render(ctx, id); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			logError(err, id)
		}
	}

	if a.cfg.Fleet {
		if err := a.renderFleet(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logError(err, "")
		}
	}
}

func (a *app) render(ctx context.Context, vehicleID string) error {
	p, err := a.builder.Build(ctx, vehicleID)
	if err != nil {
		return err
	}

	if a.cfg.JSON {
		if err := json.NewEncoder(a.out).Encode(p); err != nil {
			return errors.New().Wrap(errors.ErrRender, err)
		}
		return nil
	}

	logPanel(p)
	return nil
}

func (a *app) renderFleet(ctx context.Context) error {
	f, err := a.builder.Fleet(ctx)
	if err != nil {
		return err
	}

	if a.cfg.JSON {
		if err := json.NewEncoder(a.out).Encode(f); err != nil {
			return errors.New().Wrap(errors.ErrRender, err)
		}
		return nil
	}

	for _, ks := range f.KPIs {
		values := ks.Series.Values()
		logger.Info().
			Str("kpi", ks.KPI.ID).
			Float64("latest", values[len(values)-1]).
			Float64("baseline", ks.KPI.Baseline).
			Str("unit", ks.KPI.Unit).
			Int("points", len(values)).
			Msg(ks.KPI.Name)
	}
	return nil
}

func logPanel(p panel.Panel) {
	for _, m := range p.Metrics {
		event := logger.Info()
		if m.Status.Color == status.ColorRed || m.Status.OutOfRange {
			event = logger.Warn()
		}

		event.
			Str("vehicle", p.VehicleID).
			Str("metric", string(m.Descriptor.ID)).
			Float64("value", m.Value).
			Str("unit", m.Descriptor.Unit).
			Str("status", m.Status.Label).
			Float64("fill", m.Indicator.Fill).
			Bool("out_of_range", m.Status.OutOfRange).
			Int("points", m.Series.Len()).
			Msg(m.Descriptor.Name)
	}

	logger.Debug().
		Str("vehicle", p.VehicleID).
		Time("taken_at", p.TakenAt).
		Int("attention", len(p.Attention())).
		Msg("Panel rendered")
}

func logError(err error, vehicleID string) {
	var coded errors.Error
	if errors.As(err, &coded) {
		logger.ErrorWithCode(coded).Str("vehicle", vehicleID).Msg("Failed to render panel")
		return
	}
	logger.Error().Err(err).Str("vehicle", vehicleID).Msg("Failed to render panel")
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}

func (a *app) cleanup() {
	if a.server != nil {
		if err := a.server.Shutdown(context.Background()); err != nil {
			logError(err, "")
		}
	}
	if a.ownsPID {
		if err := a.pidFile.Remove(); err != nil {
			logError(err, "")
		}
	}
	logger.Info().Msg("Exiting...")
}
