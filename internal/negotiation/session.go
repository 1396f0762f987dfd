// Package negotiation implements the bounded counter-offer protocol that
// follows a negotiable credit decision. A session lives for at most three
// rounds; every structured offer, whether proposed by the narrator or
// built by the deterministic fallback, is re-verified against the
// expected-loss budget before it is returned to the customer.
package negotiation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"aerox/internal/decision/models"
)

// MaxRounds is the hard ceiling on negotiation rounds per session.
const MaxRounds = 3

// Session is the per-conversation negotiation state. RoundNumber is the
// round the next customer message will be processed as; it never exceeds
// MaxRounds. Once Escalated is set the session is terminal.
type Session struct {
	SessionID      string                `json:"session_id"`
	Booking        models.BookingRequest `json:"booking"`
	Scores         models.RiskScores     `json:"scores"`
	InitialOptions []models.CreditOption `json:"initial_options"`
	Transcript     []models.Turn         `json:"transcript"`
	RoundNumber    int                   `json:"round_number"`
	Escalated      bool                  `json:"escalated"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// NewSession opens a session at round 1, seeded with the options that were
// offered in the originating decision.
func NewSession(booking models.BookingRequest, scores models.RiskScores, initialOptions []models.CreditOption) *Session {
	now := time.Now().UTC()
	return &Session{
		SessionID:      uuid.NewString(),
		Booking:        booking,
		Scores:         scores,
		InitialOptions: initialOptions,
		RoundNumber:    1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// SessionStore persists negotiation sessions. Implementations live in the
// store subpackage; Get returns sentinel.ErrNotFound for unknown ids.
type SessionStore interface {
	Save(ctx context.Context, session *Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}
