// Package ports defines the collaborator contracts consumed by the
// decision pipeline. The scorer and narrator are external systems: both
// may fail or return malformed data, and every structured value they
// return is re-validated by the core before use.
package ports

import (
	"context"

	"aerox/internal/decision/models"
	"aerox/internal/platform/config"
)

// Scorer returns fraud/capacity/default probabilities for a company. On
// failure the orchestrator falls back to a conservative default score set
// rather than aborting the request.
type Scorer interface {
	Score(ctx context.Context, companyID string) (models.RiskScores, error)
}

// DecisionContext is everything the narrator needs to compose the
// customer-facing message for a negotiable offer set.
type DecisionContext struct {
	Booking    models.BookingRequest
	Scores     models.RiskScores
	Analysis   models.FinancialAnalysis
	Assessment models.RiskAssessment
	Options    []models.CreditOption
}

// NegotiationContext is everything the narrator needs to propose a
// counter-offer for one negotiation round.
type NegotiationContext struct {
	Booking         models.BookingRequest
	Scores          models.RiskScores
	Constraints     config.RiskConstraints
	InitialOptions  []models.CreditOption
	Transcript      []models.Turn
	RoundNumber     int
	CustomerMessage string
}

// CounterProposal is the narrator's suggestion for one round. Offer may be
// nil when the narrator has no structured suggestion; EscalateHint is
// advisory only — the engine decides escalation itself.
type CounterProposal struct {
	ResponseText string
	Offer        *models.Offer
	EscalateHint bool
}

// Narrator turns structured decisions into human-readable messages and
// proposes negotiation counters. It is never a source of trusted numbers,
// only of presentation text and suggestions.
type Narrator interface {
	// Assess produces the qualitative risk narrative for a yellow-flag
	// decision.
	Assess(ctx context.Context, booking models.BookingRequest, scores models.RiskScores) (models.RiskAssessment, error)

	// ComposeMessage writes the customer-facing offer message.
	ComposeMessage(ctx context.Context, dc DecisionContext) (models.CustomerMessage, error)

	// ProposeCounter suggests a response and structured offer for a
	// negotiation round.
	ProposeCounter(ctx context.Context, nc NegotiationContext) (CounterProposal, error)
}

// AuditPublisher emits decision and negotiation events for downstream
// consumers. Implementations must not block the decision path on broker
// trouble.
type AuditPublisher interface {
	Emit(ctx context.Context, event AuditEvent) error
}

// AuditEvent is one auditable fact about the pipeline.
type AuditEvent struct {
	Action    string         `json:"action"`
	CompanyID string         `json:"company_id,omitempty"`
	SessionID string         `json:"session_id,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}
