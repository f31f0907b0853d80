// Package httpapi assembles the service's HTTP surface: verification
// endpoints, health, and Prometheus metrics.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"eduvet/internal/verification/handler"
	"eduvet/pkg/platform/httputil"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck probes one backing dependency for the health endpoint.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Option customises the router.
type Option func(*options)

type options struct {
	healthChecks []HealthCheck
}

// WithHealthCheck registers a dependency probe on /healthz. The endpoint
// reports degraded with a 503 when any registered probe fails.
func WithHealthCheck(name string, check func(ctx context.Context) error) Option {
	return func(o *options) {
		o.healthChecks = append(o.healthChecks, HealthCheck{Name: name, Check: check})
	}
}

// New wires all public endpoints.
func New(logger *slog.Logger, verification *handler.Handler, opts ...Option) http.Handler {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(2 * time.Minute))
	r.Use(requestLogger(logger))

	r.Get("/healthz", healthHandler(logger, o.healthChecks))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	verification.Register(r)

	return r
}

// healthHandler probes each registered dependency and reports per-component
// status. Any failure turns the response into a 503.
func healthHandler(logger *slog.Logger, checks []HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		status := http.StatusOK
		body := map[string]string{"status": "ok"}
		for _, hc := range checks {
			if err := hc.Check(ctx); err != nil {
				logger.WarnContext(ctx, "health check failed",
					"component", hc.Name,
					"error", err,
				)
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				body[hc.Name] = "unavailable"
				continue
			}
			body[hc.Name] = "ok"
		}
		httputil.WriteJSON(w, status, body)
	}
}

// requestLogger logs one line per request with status and latency.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/healthz" || r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			logger.InfoContext(r.Context(), "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
