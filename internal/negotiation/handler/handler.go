// Package handler wires the negotiation endpoints to the negotiation
// engine.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"aerox/internal/decision/models"
	"aerox/internal/negotiation"
	"aerox/pkg/platform/httputil"
	"aerox/pkg/requestcontext"
)

// Engine defines the negotiation operations the handler needs.
type Engine interface {
	Open(ctx context.Context, booking models.BookingRequest, scores models.RiskScores, initialOptions []models.CreditOption) (*negotiation.Session, error)
	Round(ctx context.Context, sessionID, customerMessage string) (negotiation.RoundResult, error)
	Reset(ctx context.Context, sessionID string) error
}

// Handler serves the negotiation endpoints.
type Handler struct {
	engine Engine
	logger *slog.Logger
}

// New constructs a negotiation handler with its dependencies.
func New(engine Engine, logger *slog.Logger) *Handler {
	return &Handler{engine: engine, logger: logger}
}

// Register mounts negotiation endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/negotiate", h.HandleNegotiate)
	r.Post("/api/negotiate/reset", h.HandleReset)
}

// HandleNegotiate handles POST /api/negotiate: one round of negotiation.
// The first call for a conversation opens the session from the decision
// context carried in the body.
func (h *Handler) HandleNegotiate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[NegotiateRequest](w, r, h.logger)
	if !ok {
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		session, err := h.engine.Open(ctx, *req.BookingRequest, *req.MLScores, req.InitialOptions)
		if err != nil {
			h.logger.ErrorContext(ctx, "open negotiation session failed",
				"request_id", requestID,
				"company_id", req.BookingRequest.CompanyID,
				"error", err,
			)
			httputil.WriteError(w, err)
			return
		}
		sessionID = session.SessionID
	}

	result, err := h.engine.Round(ctx, sessionID, req.UserMessage)
	if err != nil {
		h.logger.WarnContext(ctx, "negotiation round rejected",
			"request_id", requestID,
			"session_id", sessionID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "negotiation round served",
		"request_id", requestID,
		"session_id", sessionID,
		"round", result.RoundNumber,
		"escalated", result.Escalated,
	)
	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandleReset handles POST /api/negotiate/reset: clears session state for
// a new conversation.
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.DecodeAndPrepare[ResetRequest](w, r, h.logger)
	if !ok {
		return
	}

	if err := h.engine.Reset(ctx, req.SessionID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "negotiation session cleared",
	})
}
