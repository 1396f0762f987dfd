package handler

import (
	"strings"

	"aerox/internal/decision/models"
	dErrors "aerox/pkg/domain-errors"
)

// NegotiateRequest is the HTTP request body for POST /api/negotiate.
// The first round omits session_id and carries the originating decision
// context; later rounds reference the session by id only.
type NegotiateRequest struct {
	SessionID      string                 `json:"session_id,omitempty"`
	UserMessage    string                 `json:"user_message"`
	BookingRequest *models.BookingRequest `json:"booking_request,omitempty"`
	MLScores       *models.RiskScores     `json:"ml_scores,omitempty"`
	InitialOptions []models.CreditOption  `json:"initial_options,omitempty"`
}

// Validate validates the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *NegotiateRequest) Validate() error {
	r.UserMessage = strings.TrimSpace(r.UserMessage)
	if r.UserMessage == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "user_message is required")
	}

	if r.SessionID != "" {
		return nil
	}
	if r.BookingRequest == nil {
		return dErrors.New(dErrors.CodeInvalidInput, "booking_request is required to open a session")
	}
	if err := r.BookingRequest.Validate(); err != nil {
		return err
	}
	if r.MLScores == nil {
		return dErrors.New(dErrors.CodeInvalidInput, "ml_scores is required to open a session")
	}
	return r.MLScores.Validate()
}

// ResetRequest is the HTTP request body for POST /api/negotiate/reset.
type ResetRequest struct {
	SessionID string `json:"session_id"`
}

// Validate validates the request.
func (r *ResetRequest) Validate() error {
	r.SessionID = strings.TrimSpace(r.SessionID)
	if r.SessionID == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "session_id is required")
	}
	return nil
}
