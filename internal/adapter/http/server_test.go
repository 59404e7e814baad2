package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	httpadapter "github.com/couchcryptid/city-weather-charts/internal/adapter/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReadiness struct {
	err error
}

func (s *stubReadiness) CheckReadiness(_ context.Context) error { return s.err }

func serveRequest(readyErr error, target string) *httptest.ResponseRecorder {
	srv := httpadapter.NewServer(":0", &stubReadiness{err: readyErr}, slog.Default())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealthz(t *testing.T) {
	rec := serveRequest(nil, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "city-weather-charts", body["service"])
}

func TestReadyz_ReadyAfterBatch(t *testing.T) {
	rec := serveRequest(nil, "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyz_NotReadyBeforeFirstBatch(t *testing.T) {
	rec := serveRequest(errors.New("pipeline has not completed a batch yet"), "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Contains(t, body["error"], "batch")
}

func TestMetricsEndpoint(t *testing.T) {
	rec := serveRequest(nil, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
