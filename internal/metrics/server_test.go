package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"codeberg.org/mutker/fleetmon/internal/errors"
	"codeberg.org/mutker/fleetmon/internal/logger"
	"codeberg.org/mutker/fleetmon/internal/status"
	"codeberg.org/mutker/fleetmon/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerRoutes(t *testing.T) {
	s := newEnabled(t)
	s.ObserveReading("2", telemetry.OilPressure, 45, status.Status{Band: status.BandMedium})

	srv := NewServer(":0", s, logger.Nop())

	tests := []struct {
		method string
		path   string
		code   int
		body   string
	}{
		{http.MethodGet, "/healthz", http.StatusOK, "ok"},
		{http.MethodGet, "/metrics", http.StatusOK, `fleetmon_reading_value{metric="oil_pressure",vehicle="2"} 45`},
		{http.MethodPost, "/metrics", http.StatusMethodNotAllowed, ""},
		{http.MethodGet, "/panels", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.code, rec.Code)
			if tt.body != "" {
				assert.Contains(t, rec.Body.String(), tt.body)
			}
		})
	}
}

func TestServerStartAndShutdown(t *testing.T) {
	srv := NewServer("127.0.0.1:0", newEnabled(t), logger.Nop())

	require.NoError(t, srv.Start())
	require.NoError(t, srv.Shutdown(context.Background()))
}

func TestServerStartBadAddress(t *testing.T) {
	srv := NewServer("not-an-address", newEnabled(t), logger.Nop())

	err := srv.Start()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrMetricsServer))
}
