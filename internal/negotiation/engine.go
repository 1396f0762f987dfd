package negotiation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"aerox/internal/decision/compliance"
	"aerox/internal/decision/exposure"
	"aerox/internal/decision/models"
	"aerox/internal/decision/ports"
	"aerox/internal/negotiation/metrics"
	"aerox/internal/platform/config"
	"aerox/pkg/platform/sentinel"
)

const (
	// Settlement window used by the deterministic fallback offer.
	fallbackSettlementDays = 10

	// The fallback never asks for more than half the booking upfront.
	fallbackUpfrontCap = 0.5
)

// RoundResult is the outcome of one negotiation round.
type RoundResult struct {
	SessionID    string        `json:"session_id"`
	RoundNumber  int           `json:"round_number"`
	ResponseText string        `json:"response"`
	Offer        *models.Offer `json:"offer,omitempty"`
	ExpectedLoss *float64      `json:"expected_loss,omitempty"`
	Escalated    bool          `json:"escalate"`
}

// Engine drives the negotiation state machine. Rounds for the same session
// are serialized; concurrent sessions proceed independently.
type Engine struct {
	store           SessionStore
	narrator        ports.Narrator
	audit           ports.AuditPublisher
	constraints     config.RiskConstraints
	narratorTimeout time.Duration
	logger          *slog.Logger
	metrics         *metrics.Metrics

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithMetrics attaches round/escalation counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// NewEngine builds the negotiation engine. The narrator timeout bounds the
// external call so the deterministic fallback stays the fast path.
func NewEngine(
	store SessionStore,
	narrator ports.Narrator,
	audit ports.AuditPublisher,
	constraints config.RiskConstraints,
	narratorTimeout time.Duration,
	logger *slog.Logger,
	opts ...Option,
) *Engine {
	e := &Engine{
		store:           store,
		narrator:        narrator,
		audit:           audit,
		constraints:     constraints,
		narratorTimeout: narratorTimeout,
		logger:          logger,
		locks:           make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Open creates a session seeded with the decision's offered options and
// returns it.
func (e *Engine) Open(ctx context.Context, booking models.BookingRequest, scores models.RiskScores, initialOptions []models.CreditOption) (*Session, error) {
	session := NewSession(booking, scores, initialOptions)
	if err := e.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	e.emit(ctx, "negotiation_opened", session, map[string]any{
		"options_count": len(initialOptions),
	})
	return session, nil
}

// Round processes one customer message against a session. Escalated
// sessions reject further rounds with sentinel.ErrSessionEscalated.
func (e *Engine) Round(ctx context.Context, sessionID, customerMessage string) (RoundResult, error) {
	ctx, span := otel.Tracer("negotiation").Start(ctx, "negotiation.Round",
		trace.WithAttributes(attribute.String("session_id", sessionID)))
	defer span.End()

	lock := e.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := e.store.Get(ctx, sessionID)
	if err != nil {
		return RoundResult{}, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	if session.Escalated {
		return RoundResult{}, fmt.Errorf("session %s: %w", sessionID, sentinel.ErrSessionEscalated)
	}

	round := session.RoundNumber
	span.SetAttributes(attribute.Int("round", round))

	response, offer, el, usedFallback := e.counterOffer(ctx, session, customerMessage)
	if usedFallback && e.metrics != nil {
		e.metrics.IncrementNarratorFallbacks()
	}

	if offer == nil && round >= MaxRounds {
		return e.escalate(ctx, session, customerMessage)
	}

	if offer == nil {
		// No budget-clearing structure this round but rounds remain: respond
		// without an offer and let the customer try different terms.
		response = fmt.Sprintf(
			"I couldn't find terms this round that fit both your request and our risk limits. "+
				"We have %d round(s) left - could you share how much you could pay upfront, or how quickly you could settle?",
			MaxRounds-round)
	}

	session.Transcript = append(session.Transcript,
		models.Turn{Role: "customer", Content: customerMessage},
		models.Turn{Role: "agent", Content: response},
	)
	if session.RoundNumber < MaxRounds {
		session.RoundNumber++
	}
	session.UpdatedAt = time.Now().UTC()
	if err := e.store.Save(ctx, session); err != nil {
		return RoundResult{}, fmt.Errorf("save session: %w", err)
	}

	result := RoundResult{
		SessionID:    session.SessionID,
		RoundNumber:  round,
		ResponseText: response,
		Offer:        offer,
	}
	if offer != nil {
		result.ExpectedLoss = &el
	}

	outcome := "resolved"
	if offer == nil {
		outcome = "no_offer"
	}
	if e.metrics != nil {
		e.metrics.ObserveRound(outcome)
	}
	e.emit(ctx, "negotiation_round", session, map[string]any{
		"round":   round,
		"outcome": outcome,
	})
	e.logger.InfoContext(ctx, "negotiation round",
		"session_id", session.SessionID,
		"round", round,
		"outcome", outcome,
		"fallback", usedFallback,
	)
	return result, nil
}

// Reset clears session state so a conversation can start over.
func (e *Engine) Reset(ctx context.Context, sessionID string) error {
	lock := e.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	if err := e.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	e.emit(ctx, "negotiation_reset", &Session{SessionID: sessionID}, nil)
	return nil
}

// counterOffer runs the narrator-first, fallback-second candidate search.
// Returns a nil offer only when neither path produced a budget-clearing
// structure. Narrator failures are absorbed here, never surfaced.
func (e *Engine) counterOffer(ctx context.Context, session *Session, customerMessage string) (response string, offer *models.Offer, el float64, usedFallback bool) {
	nctx, cancel := context.WithTimeout(ctx, e.narratorTimeout)
	defer cancel()

	proposal, err := e.narrator.ProposeCounter(nctx, ports.NegotiationContext{
		Booking:         session.Booking,
		Scores:          session.Scores,
		Constraints:     e.constraints,
		InitialOptions:  session.InitialOptions,
		Transcript:      session.Transcript,
		RoundNumber:     session.RoundNumber,
		CustomerMessage: customerMessage,
	})
	switch {
	case err != nil:
		e.logger.WarnContext(ctx, "narrator counter failed",
			"session_id", session.SessionID, "error", err)
	case proposal.EscalateHint:
		// The hint disqualifies the suggested offer, nothing more:
		// escalation itself is decided by the round counter, not the
		// narrator. The deterministic fallback still gets its shot.
		e.logger.InfoContext(ctx, "narrator hinted escalation",
			"session_id", session.SessionID, "round", session.RoundNumber)
	case proposal.Offer != nil:
		recomputed := e.offerExpectedLoss(session, *proposal.Offer)
		verr := compliance.ValidateOffer(*proposal.Offer, recomputed, e.constraints.MaxExpectedLoss)
		if verr == nil {
			return proposal.ResponseText, proposal.Offer, recomputed, false
		}
		e.logger.WarnContext(ctx, "narrator offer failed verification",
			"session_id", session.SessionID, "error", verr)
	}

	response, offer, el = e.fallbackOffer(session)
	return response, offer, el, true
}

// fallbackOffer builds the deterministic counter: a 10-day settlement with
// the upfront solved analytically against the budget, capped at half the
// booking amount. When even the capped upfront cannot clear the budget the
// offer is withheld.
func (e *Engine) fallbackOffer(session *Session) (string, *models.Offer, float64) {
	booking := session.Booking
	totalExposure := exposure.AtDefault(booking.CurrentOutstanding, booking.BookingAmount, 0)
	pd10 := (session.Scores.PD7d + session.Scores.PD14d) / 2
	maxEL := e.constraints.MaxExpectedLoss
	lgd := e.constraints.LGD

	var upfront float64
	if pd10*lgd > 0 {
		upfront = totalExposure - maxEL/(pd10*lgd)
	}
	upfront = max(0, min(booking.BookingAmount*fallbackUpfrontCap, upfront))

	el := exposure.ExpectedLoss(pd10, totalExposure-upfront, lgd)
	if el > maxEL {
		return "", nil, 0
	}

	offer := &models.Offer{
		UpfrontAmount:  upfront,
		SettlementDays: fallbackSettlementDays,
		ApprovedAmount: booking.BookingAmount,
	}
	response := fmt.Sprintf(
		"I understand. How about %.0f upfront with %d-day settlement? "+
			"This keeps the expected loss at %.2f (%.3f x %.0f x %.2f = %.2f), within our %.0f limit.",
		upfront, fallbackSettlementDays, el, pd10, totalExposure-upfront, lgd, el, maxEL)
	return response, offer, el
}

// offerExpectedLoss recomputes the expected loss for an externally
// proposed offer. The default probability is taken at the nearest horizon
// at or beyond the settlement window, erring conservative for windows past
// 30 days.
func (e *Engine) offerExpectedLoss(session *Session, offer models.Offer) float64 {
	var pd float64
	switch {
	case offer.SettlementDays <= 7:
		pd = session.Scores.PD7d
	case offer.SettlementDays <= 14:
		pd = session.Scores.PD14d
	default:
		pd = session.Scores.PD30d
	}
	booking := session.Booking
	ead := exposure.AtDefault(booking.CurrentOutstanding, booking.BookingAmount, offer.UpfrontAmount)
	return exposure.ExpectedLoss(pd, ead, e.constraints.LGD)
}

// escalate marks the session terminal and returns the fixed escalation
// response.
func (e *Engine) escalate(ctx context.Context, session *Session, customerMessage string) (RoundResult, error) {
	reference := escalationReference(session.Booking.CompanyID, time.Now().UTC())
	response := fmt.Sprintf(
		"I've tried multiple combinations but can't find one that fits both your needs and our risk limits. "+
			"I'm escalating this to our senior credit team for manual review. They'll contact you within 2 hours. "+
			"Reference: %s", reference)

	session.Escalated = true
	session.Transcript = append(session.Transcript,
		models.Turn{Role: "customer", Content: customerMessage},
		models.Turn{Role: "agent", Content: response},
	)
	session.UpdatedAt = time.Now().UTC()
	if err := e.store.Save(ctx, session); err != nil {
		return RoundResult{}, fmt.Errorf("save session: %w", err)
	}

	if e.metrics != nil {
		e.metrics.ObserveRound("escalated")
		e.metrics.IncrementEscalations()
	}
	e.emit(ctx, "negotiation_escalated", session, map[string]any{
		"round":     session.RoundNumber,
		"reference": reference,
	})
	e.logger.InfoContext(ctx, "negotiation escalated",
		"session_id", session.SessionID,
		"company_id", session.Booking.CompanyID,
		"reference", reference,
	)
	return RoundResult{
		SessionID:    session.SessionID,
		RoundNumber:  session.RoundNumber,
		ResponseText: response,
		Escalated:    true,
	}, nil
}

// escalationReference is the ticket id quoted to the customer: date plus
// the company id suffix.
func escalationReference(companyID string, at time.Time) string {
	suffix := companyID
	if len(suffix) > 4 {
		suffix = suffix[len(suffix)-4:]
	}
	return fmt.Sprintf("AEROX-%s-%s", at.Format("2006-01-02"), suffix)
}

func (e *Engine) emit(ctx context.Context, action string, session *Session, details map[string]any) {
	if e.audit == nil {
		return
	}
	if err := e.audit.Emit(ctx, ports.AuditEvent{
		Action:    action,
		CompanyID: session.Booking.CompanyID,
		SessionID: session.SessionID,
		Details:   details,
	}); err != nil {
		e.logger.WarnContext(ctx, "audit emit failed", "action", action, "error", err)
	}
}

func (e *Engine) sessionLock(sessionID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[sessionID] = lock
	}
	return lock
}
