// Package handler wires the booking decision endpoints to the decision
// service.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"aerox/internal/decision/models"
	"aerox/internal/platform/config"
	"aerox/pkg/platform/httputil"
	"aerox/pkg/requestcontext"
)

// Service defines the decision operations the handler needs.
type Service interface {
	ProcessBooking(ctx context.Context, booking models.BookingRequest) (models.Decision, error)
}

// Handler serves the booking decision endpoints.
type Handler struct {
	service Service
	policy  config.Policy
	logger  *slog.Logger
}

// New constructs a decision handler with its dependencies.
func New(service Service, policy config.Policy, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		policy:  policy,
		logger:  logger,
	}
}

// Register mounts decision endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/booking/process", h.HandleProcessBooking)
	r.Get("/api/scenarios", h.HandleScenarios)
	r.Get("/api/config", h.HandleConfig)
}

// HandleProcessBooking handles POST /api/booking/process.
func (h *Handler) HandleProcessBooking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[ProcessRequest](w, r, h.logger)
	if !ok {
		return
	}

	decision, err := h.service.ProcessBooking(ctx, req.Booking())
	if err != nil {
		h.logger.ErrorContext(ctx, "booking processing failed",
			"request_id", requestID,
			"company_id", req.CompanyID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "booking processed",
		"request_id", requestID,
		"company_id", req.CompanyID,
		"decision", decision.Outcome,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, decision)
}

// HandleScenarios handles GET /api/scenarios.
func (h *Handler) HandleScenarios(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, demoScenarios())
}

// HandleConfig handles GET /api/config: the active thresholds and risk
// constraints, read-only.
func (h *Handler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"decision_matrix": map[string]float64{
			"block_intent_threshold":     h.policy.DecisionMatrix.BlockIntentThreshold,
			"approve_intent_threshold":   h.policy.DecisionMatrix.ApproveIntentThreshold,
			"approve_capacity_threshold": h.policy.DecisionMatrix.ApproveCapacityThreshold,
		},
		"risk_constraints": map[string]float64{
			"max_expected_loss": h.policy.RiskConstraints.MaxExpectedLoss,
			"lgd":               h.policy.RiskConstraints.LGD,
		},
	})
}
