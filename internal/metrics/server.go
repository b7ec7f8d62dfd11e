package metrics

import (
	"context"
	"net"
	"net/http"
	"time"

	"codeberg.org/mutker/fleetmon/internal/errors"
	"codeberg.org/mutker/fleetmon/internal/logger"
	"github.com/go-chi/chi/v5"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Server exposes a Collector over HTTP.
type Server struct {
	srv *http.Server
	log logger.Logger
}

// NewServer routes GET /metrics to the collector and GET /healthz to a
// liveness probe.
func NewServer(addr string, c Collector, log logger.Logger) *Server {
	router := chi.NewRouter()
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	router.Method(http.MethodGet, "/metrics", c.Handler())

	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: readHeaderTimeout,
		},
		log: log,
	}
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Start binds the listen address and serves in the background. Errors after
// a successful bind are logged.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return errors.New().Wrap(errors.ErrMetricsServer, err)
	}

	s.log.Info().Str("addr", ln.Addr().String()).Msg("Serving metrics")

	go func() {
		if err := s.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.log.ErrorWithCode(errors.New().Wrap(errors.ErrMetricsServer, err)).Send()
		}
	}()

	return nil
}

// Shutdown stops the server, waiting at most shutdownTimeout for in-flight
// scrapes.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return errors.New().Wrap(errors.ErrMetricsServer, err)
	}

	return nil
}
