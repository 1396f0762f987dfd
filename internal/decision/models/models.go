// Package models defines the value types flowing through the credit
// decision pipeline. Everything here is immutable once constructed;
// validation happens at the boundary instead of silent clamping.
package models

import (
	dErrors "aerox/pkg/domain-errors"
)

// RiskCategory is the three-way gate classification.
type RiskCategory string

const (
	CategoryGreen  RiskCategory = "green"
	CategoryYellow RiskCategory = "yellow"
	CategoryRed    RiskCategory = "red"
)

// IsValid checks if the category is one of the supported enum values.
func (c RiskCategory) IsValid() bool {
	switch c {
	case CategoryGreen, CategoryYellow, CategoryRed:
		return true
	}
	return false
}

// String returns the string representation.
func (c RiskCategory) String() string {
	return string(c)
}

// Outcome is the terminal decision for a booking request.
type Outcome string

const (
	OutcomeApproved  Outcome = "APPROVED"
	OutcomeBlocked   Outcome = "BLOCKED"
	OutcomeNegotiate Outcome = "NEGOTIATE"
)

// OptionKind identifies the structure of a credit option.
type OptionKind string

const (
	KindShortenedSettlement OptionKind = "shortened_settlement"
	KindUpfrontPayment      OptionKind = "upfront_payment"
	KindPartialApproval     OptionKind = "partial_approval"
)

// IsValid checks if the kind is one of the supported enum values.
func (k OptionKind) IsValid() bool {
	switch k {
	case KindShortenedSettlement, KindUpfrontPayment, KindPartialApproval:
		return true
	}
	return false
}

// BookingRequest identifies a company and a proposed transaction.
// Immutable once submitted to the engine.
type BookingRequest struct {
	CompanyID          string  `json:"company_id"`
	CompanyName        string  `json:"company_name"`
	BookingAmount      float64 `json:"booking_amount"`
	CurrentOutstanding float64 `json:"current_outstanding"`
	CreditLimit        float64 `json:"credit_limit"`
	Route              string  `json:"route"`
	BookingDate        string  `json:"booking_date"`
}

// Validate rejects malformed requests before they reach the gate.
func (b BookingRequest) Validate() error {
	if b.CompanyID == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "company_id is required")
	}
	if b.BookingAmount <= 0 {
		return dErrors.Newf(dErrors.CodeInvalidInput, "booking_amount must be positive, got %v", b.BookingAmount)
	}
	if b.CurrentOutstanding < 0 {
		return dErrors.Newf(dErrors.CodeInvalidInput, "current_outstanding must be non-negative, got %v", b.CurrentOutstanding)
	}
	if b.CreditLimit < 0 {
		return dErrors.Newf(dErrors.CodeInvalidInput, "credit_limit must be non-negative, got %v", b.CreditLimit)
	}
	return nil
}

// RiskScores is the scorer output for one company. Horizon default
// probabilities are assumed non-decreasing by callers; the engine does not
// enforce that.
type RiskScores struct {
	IntentScore   float64      `json:"intent_score"`
	CapacityScore float64      `json:"capacity_score"`
	PD7d          float64      `json:"pd_7d"`
	PD14d         float64      `json:"pd_14d"`
	PD30d         float64      `json:"pd_30d"`
	RiskCategory  RiskCategory `json:"risk_category"`
}

// Validate rejects scores outside [0,1]. The embedded risk category is not
// validated here because the gate recomputes it anyway.
func (s RiskScores) Validate() error {
	checks := []struct {
		name  string
		value float64
	}{
		{"intent_score", s.IntentScore},
		{"capacity_score", s.CapacityScore},
		{"pd_7d", s.PD7d},
		{"pd_14d", s.PD14d},
		{"pd_30d", s.PD30d},
	}
	for _, c := range checks {
		if c.value < 0 || c.value > 1 {
			return dErrors.Newf(dErrors.CodeInvalidInput, "%s must be in [0,1], got %v", c.name, c.value)
		}
	}
	return nil
}

// FinancialAnalysis is the derived exposure snapshot for a request.
// TotalExposure is computed exactly as defined with zero upfront for the
// baseline; only ExceedsBy carries a documented max(0, ...) clamp.
type FinancialAnalysis struct {
	TotalExposure        float64 `json:"total_exposure"`
	BaselineExpectedLoss float64 `json:"baseline_expected_loss"`
	ExceedsRiskAppetite  bool    `json:"exceeds_risk_appetite"`
	ExceedsBy            float64 `json:"exceeds_by"`
}

// CreditOption is one candidate settlement structure. Options are value
// objects produced fresh per request; never mutated after creation, only
// filtered and sorted.
type CreditOption struct {
	OptionID       string     `json:"option_id"`
	Kind           OptionKind `json:"kind"`
	SettlementDays int        `json:"settlement_days"`
	UpfrontAmount  float64    `json:"upfront_amount"`
	ApprovedAmount float64    `json:"approved_amount"`
	ExpectedLoss   float64    `json:"expected_loss"`
	FrictionScore  float64    `json:"friction_score"`
	Description    string     `json:"description"`
}

// ValidationResult reports the compliance validator's verdict.
type ValidationResult struct {
	Compliant    bool     `json:"compliant"`
	Violations   []string `json:"violations"`
	OptionsCount int      `json:"options_count"`
}

// Offer is the structured part of a negotiation counter-offer. Numbers in
// an Offer are never trusted until the engine recomputes the expected loss.
type Offer struct {
	UpfrontAmount  float64 `json:"upfront_amount"`
	SettlementDays int     `json:"settlement_days"`
	ApprovedAmount float64 `json:"approved_amount"`
}

// Turn is one exchange in a negotiation transcript.
type Turn struct {
	Role    string `json:"role"` // "customer" or "agent"
	Content string `json:"content"`
}

// RiskAssessment is the narrator's qualitative read on a company, shown to
// analysts alongside yellow-flag decisions.
type RiskAssessment struct {
	RiskSummary       string   `json:"risk_summary"`
	KeyRiskFactors    []string `json:"key_risk_factors"`
	MitigatingFactors []string `json:"mitigating_factors"`
	Recommendation    string   `json:"recommendation"`
}

// CustomerMessage is the customer-facing presentation of a negotiable
// offer set.
type CustomerMessage struct {
	Subject    string   `json:"subject"`
	Body       string   `json:"body"`
	CTAButtons []string `json:"cta_buttons"`
}

// Decision is the full record returned for a processed booking request.
// Optional sections are nil when the path that produces them did not run.
type Decision struct {
	Outcome           Outcome            `json:"decision"`
	RiskCategory      RiskCategory       `json:"risk_category"`
	Scores            RiskScores         `json:"scores"`
	Booking           BookingRequest     `json:"booking_request"`
	ApprovedAmount    float64            `json:"approved_amount,omitempty"`
	SettlementDays    int                `json:"settlement_days,omitempty"`
	Reason            string             `json:"reason,omitempty"`
	FinancialAnalysis *FinancialAnalysis `json:"financial_analysis,omitempty"`
	RiskAssessment    *RiskAssessment    `json:"risk_assessment,omitempty"`
	Options           []CreditOption     `json:"options,omitempty"`
	Validation        *ValidationResult  `json:"validation,omitempty"`
	Message           *CustomerMessage   `json:"message,omitempty"`
}
