// Package decision composes the risk gate, exposure arithmetic, options
// generator and compliance validator into the end-to-end booking decision
// policy. Collaborator failures (scorer, narrator) are recovered locally
// with fallbacks and never surface as pipeline failures; policy outcomes
// like "no options possible" are valid decisions, not errors.
package decision

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"aerox/internal/decision/compliance"
	"aerox/internal/decision/exposure"
	"aerox/internal/decision/gate"
	"aerox/internal/decision/metrics"
	"aerox/internal/decision/models"
	"aerox/internal/decision/options"
	"aerox/internal/decision/ports"
	"aerox/internal/narrator"
	"aerox/internal/platform/config"
	"aerox/internal/scoring"
)

// Standard settlement window applied to auto-approved bookings.
const standardSettlementDays = 30

// Service is the decision orchestrator.
type Service struct {
	scorer   ports.Scorer
	narrator ports.Narrator
	audit    ports.AuditPublisher
	policy   config.Policy
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics attaches decision counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// NewService builds the orchestrator. Policy is loaded once at startup and
// treated as immutable for the life of the process.
func NewService(
	scorer ports.Scorer,
	narr ports.Narrator,
	audit ports.AuditPublisher,
	policy config.Policy,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		scorer:   scorer,
		narrator: narr,
		audit:    audit,
		policy:   policy,
		logger:   logger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// ProcessBooking runs the full decision policy for one booking request.
// Only malformed input yields an error; every scored request produces a
// terminal decision.
func (s *Service) ProcessBooking(ctx context.Context, booking models.BookingRequest) (models.Decision, error) {
	ctx, span := otel.Tracer("decision").Start(ctx, "decision.ProcessBooking",
		trace.WithAttributes(attribute.String("company_id", booking.CompanyID)))
	defer span.End()

	if err := booking.Validate(); err != nil {
		return models.Decision{}, err
	}

	scores, err := s.scorer.Score(ctx, booking.CompanyID)
	if err != nil {
		s.logger.WarnContext(ctx, "scorer unavailable, using conservative scores",
			"company_id", booking.CompanyID, "error", err)
		scores = scoring.Conservative()
		if s.metrics != nil {
			s.metrics.IncrementScorerFallbacks()
		}
	}

	// The gate's own recomputation takes precedence over whatever category
	// the scorer embedded.
	category := gate.Categorize(scores.IntentScore, scores.CapacityScore, s.policy.DecisionMatrix)
	scores.RiskCategory = category
	span.SetAttributes(attribute.String("risk_category", category.String()))

	var decision models.Decision
	switch category {
	case models.CategoryGreen:
		decision = s.approve(booking, scores)
	case models.CategoryRed:
		decision = s.block(booking, scores, s.redReason(scores))
	default:
		decision = s.negotiable(ctx, booking, scores)
	}

	if s.metrics != nil {
		s.metrics.ObserveDecision(string(decision.Outcome), category.String())
	}
	s.emit(ctx, booking.CompanyID, decision)
	s.logger.InfoContext(ctx, "booking decided",
		"company_id", booking.CompanyID,
		"decision", decision.Outcome,
		"risk_category", category,
		"booking_amount", booking.BookingAmount,
	)
	return decision, nil
}

func (s *Service) approve(booking models.BookingRequest, scores models.RiskScores) models.Decision {
	return models.Decision{
		Outcome:        models.OutcomeApproved,
		RiskCategory:   models.CategoryGreen,
		Scores:         scores,
		Booking:        booking,
		ApprovedAmount: booking.BookingAmount,
		SettlementDays: standardSettlementDays,
		Reason:         "low fraud risk and strong repayment capacity",
	}
}

func (s *Service) block(booking models.BookingRequest, scores models.RiskScores, reason string) models.Decision {
	return models.Decision{
		Outcome:      models.OutcomeBlocked,
		RiskCategory: scores.RiskCategory,
		Scores:       scores,
		Booking:      booking,
		Reason:       reason,
	}
}

// redReason itemizes which thresholds fired, joined for transparency.
func (s *Service) redReason(scores models.RiskScores) string {
	matrix := s.policy.DecisionMatrix
	var parts []string
	if scores.IntentScore >= matrix.BlockIntentThreshold {
		parts = append(parts, fmt.Sprintf("High intent score (%.2f)", scores.IntentScore))
	}
	if scores.CapacityScore < matrix.ApproveCapacityThreshold {
		parts = append(parts, fmt.Sprintf("Low capacity score (%.2f)", scores.CapacityScore))
	}
	if len(parts) == 0 {
		parts = append(parts, "risk thresholds exceeded")
	}
	return strings.Join(parts, "; ")
}

// negotiable runs the yellow-flag pipeline: analyze exposure, generate
// options, re-validate them, then hand off to the narrator for messaging.
func (s *Service) negotiable(ctx context.Context, booking models.BookingRequest, scores models.RiskScores) models.Decision {
	constraints := s.policy.RiskConstraints
	analysis := exposure.Analyze(booking, scores, constraints)

	assessment := s.assess(ctx, booking, scores)

	opts := options.Generate(options.Input{
		TotalExposure:   analysis.TotalExposure,
		Outstanding:     booking.CurrentOutstanding,
		BookingAmount:   booking.BookingAmount,
		PD7d:            scores.PD7d,
		PD14d:           scores.PD14d,
		PD30d:           scores.PD30d,
		LGD:             constraints.LGD,
		MaxExpectedLoss: constraints.MaxExpectedLoss,
	})
	if s.metrics != nil {
		s.metrics.ObserveOptionsCount(len(opts))
	}
	if len(opts) == 0 {
		d := s.block(booking, scores, "no options satisfy risk constraints")
		d.FinancialAnalysis = &analysis
		d.RiskAssessment = &assessment
		return d
	}

	validation := compliance.Validate(opts, constraints.MaxExpectedLoss)
	if !validation.Compliant {
		// A generator defect, not customer data trouble. Block without
		// attempting repair and keep the itemized violations visible.
		if s.metrics != nil {
			s.metrics.IncrementViolations(len(validation.Violations))
		}
		s.logger.ErrorContext(ctx, "generated options failed compliance validation",
			"company_id", booking.CompanyID, "violations", validation.Violations)
		d := s.block(booking, scores, "generated options failed compliance validation")
		d.FinancialAnalysis = &analysis
		d.RiskAssessment = &assessment
		d.Validation = &validation
		return d
	}

	message := s.compose(ctx, ports.DecisionContext{
		Booking:    booking,
		Scores:     scores,
		Analysis:   analysis,
		Assessment: assessment,
		Options:    opts,
	})

	return models.Decision{
		Outcome:           models.OutcomeNegotiate,
		RiskCategory:      models.CategoryYellow,
		Scores:            scores,
		Booking:           booking,
		FinancialAnalysis: &analysis,
		RiskAssessment:    &assessment,
		Options:           opts,
		Validation:        &validation,
		Message:           &message,
	}
}

func (s *Service) assess(ctx context.Context, booking models.BookingRequest, scores models.RiskScores) models.RiskAssessment {
	assessment, err := s.narrator.Assess(ctx, booking, scores)
	if err != nil {
		s.logger.WarnContext(ctx, "narrator assessment failed, using template",
			"company_id", booking.CompanyID, "error", err)
		if s.metrics != nil {
			s.metrics.IncrementNarratorFallbacks()
		}
		return narrator.FallbackAssessment(scores)
	}
	return assessment
}

func (s *Service) compose(ctx context.Context, dc ports.DecisionContext) models.CustomerMessage {
	message, err := s.narrator.ComposeMessage(ctx, dc)
	if err != nil {
		s.logger.WarnContext(ctx, "narrator message failed, using template",
			"company_id", dc.Booking.CompanyID, "error", err)
		if s.metrics != nil {
			s.metrics.IncrementNarratorFallbacks()
		}
		return narrator.FallbackMessage(dc)
	}
	return message
}

func (s *Service) emit(ctx context.Context, companyID string, decision models.Decision) {
	if s.audit == nil {
		return
	}
	details := map[string]any{
		"decision":      string(decision.Outcome),
		"risk_category": decision.RiskCategory.String(),
	}
	if decision.Reason != "" {
		details["reason"] = decision.Reason
	}
	if len(decision.Options) > 0 {
		details["options_count"] = len(decision.Options)
	}
	if err := s.audit.Emit(ctx, ports.AuditEvent{
		Action:    "booking_decision",
		CompanyID: companyID,
		Details:   details,
	}); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "action", "booking_decision", "error", err)
	}
}
