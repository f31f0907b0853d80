package httpapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eduvet/internal/verification"
	"eduvet/internal/verification/handler"
	"eduvet/internal/verification/store"
	"eduvet/pkg/testutil"
)

type noopService struct{}

func (noopService) Verify(context.Context, verification.ProviderApplication) (store.Run, error) {
	return store.Run{}, nil
}

func (noopService) GetRun(context.Context, string) (store.Run, error) {
	return store.Run{}, nil
}

func (noopService) ListRuns(context.Context, int) ([]store.Run, error) {
	return nil, nil
}

func newTestRouter(opts ...Option) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(logger, handler.New(noopService{}, logger), opts...)
}

func getHealthz(router http.Handler) *httptest.ResponseRecorder {
	return testutil.DoRequest(router, httptest.NewRequest(http.MethodGet, "/healthz", nil))
}

func TestHealthzOKWithoutChecks(t *testing.T) {
	rec := getHealthz(newTestRouter())

	require.Equal(t, http.StatusOK, rec.Code)
	body := *testutil.UnmarshalResponse[map[string]string](t, rec)
	assert.Equal(t, "ok", body["status"])
}

func TestHealthzReportsHealthyDependency(t *testing.T) {
	router := newTestRouter(WithHealthCheck("redis", func(context.Context) error {
		return nil
	}))

	rec := getHealthz(router)

	require.Equal(t, http.StatusOK, rec.Code)
	body := *testutil.UnmarshalResponse[map[string]string](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "ok", body["redis"])
}

func TestHealthzDegradedWhenDependencyFails(t *testing.T) {
	router := newTestRouter(WithHealthCheck("redis", func(context.Context) error {
		return errors.New("connection refused")
	}))

	rec := getHealthz(router)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := *testutil.UnmarshalResponse[map[string]string](t, rec)
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, "unavailable", body["redis"])
}
