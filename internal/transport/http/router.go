// Package httptransport assembles the HTTP surface: middleware stack,
// vertical handler registration, health and metrics endpoints. Business
// logic stays in the services; this layer only routes.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	decisionhandler "aerox/internal/decision/handler"
	negotiationhandler "aerox/internal/negotiation/handler"
	"aerox/internal/platform/middleware"
	"aerox/pkg/platform/httputil"
)

// HealthChecker reports readiness of one backing dependency.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Deps carries everything the router mounts.
type Deps struct {
	Decision    *decisionhandler.Handler
	Negotiation *negotiationhandler.Handler
	Logger      *slog.Logger

	// Optional dependency health checks, keyed by name. Nil-valued entries
	// are skipped.
	Health map[string]HealthChecker

	// RequestTimeout bounds each request; zero means 30s.
	RequestTimeout time.Duration
}

// NewRouter wires all public endpoints.
func NewRouter(deps Deps) http.Handler {
	timeout := deps.RequestTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Timeout(timeout))
	r.Use(middleware.ContentTypeJSON)

	r.Get("/healthz", healthHandler(deps.Health))
	r.Handle("/metrics", promhttp.Handler())

	deps.Decision.Register(r)
	deps.Negotiation.Register(r)
	return r
}

func healthHandler(checks map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		body := map[string]string{"status": "ok"}
		for name, check := range checks {
			if check == nil {
				continue
			}
			if err := check.Health(ctx); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				body[name] = err.Error()
			} else {
				body[name] = "ok"
			}
		}
		httputil.WriteJSON(w, status, body)
	}
}
