// Package compliance re-checks generated credit options against the
// expected-loss budget and structural constraints. It is a second,
// independent gate: it knows nothing about how an option was derived and
// must be able to reject options it did not itself create, so a defect in
// the generator can never silently reach a customer.
package compliance

import (
	"fmt"

	"aerox/internal/decision/models"
)

// Settlement window bounds for any offered structure.
const (
	MinSettlementDays = 7
	MaxSettlementDays = 90
)

// Validate re-derives compliance for every option: expected loss within
// budget, upfront not exceeding the approved amount, settlement window in
// range. Violations are itemized in option order.
func Validate(opts []models.CreditOption, maxExpectedLoss float64) models.ValidationResult {
	var violations []string

	for _, opt := range opts {
		if opt.ExpectedLoss > maxExpectedLoss {
			violations = append(violations, fmt.Sprintf(
				"option %s: expected loss %.2f exceeds %.2f", opt.OptionID, opt.ExpectedLoss, maxExpectedLoss))
		}
		if opt.UpfrontAmount < 0 {
			violations = append(violations, fmt.Sprintf(
				"option %s: upfront %.0f is negative", opt.OptionID, opt.UpfrontAmount))
		}
		if opt.UpfrontAmount > opt.ApprovedAmount {
			violations = append(violations, fmt.Sprintf(
				"option %s: upfront %.0f exceeds approved %.0f", opt.OptionID, opt.UpfrontAmount, opt.ApprovedAmount))
		}
		if opt.SettlementDays < MinSettlementDays || opt.SettlementDays > MaxSettlementDays {
			violations = append(violations, fmt.Sprintf(
				"option %s: settlement days %d out of range [%d, %d]",
				opt.OptionID, opt.SettlementDays, MinSettlementDays, MaxSettlementDays))
		}
	}

	return models.ValidationResult{
		Compliant:    len(violations) == 0,
		Violations:   violations,
		OptionsCount: len(opts),
	}
}

// ValidateOffer applies the same structural checks to a single negotiation
// offer whose expected loss has already been independently recomputed.
func ValidateOffer(offer models.Offer, recomputedEL, maxExpectedLoss float64) error {
	if recomputedEL > maxExpectedLoss {
		return fmt.Errorf("expected loss %.2f exceeds budget %.2f", recomputedEL, maxExpectedLoss)
	}
	if offer.UpfrontAmount < 0 {
		return fmt.Errorf("upfront %.0f is negative", offer.UpfrontAmount)
	}
	if offer.UpfrontAmount > offer.ApprovedAmount {
		return fmt.Errorf("upfront %.0f exceeds approved %.0f", offer.UpfrontAmount, offer.ApprovedAmount)
	}
	if offer.SettlementDays < MinSettlementDays || offer.SettlementDays > MaxSettlementDays {
		return fmt.Errorf("settlement days %d out of range [%d, %d]",
			offer.SettlementDays, MinSettlementDays, MaxSettlementDays)
	}
	return nil
}
