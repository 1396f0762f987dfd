// Package exposure implements the Basel-style exposure arithmetic:
// exposure-at-default and expected loss. Functions here are total and
// side-effect-free; range validation of inputs is a compliance concern,
// not a calculator concern, so the package stays reusable in isolation.
package exposure

import (
	"aerox/internal/decision/models"
	"aerox/internal/platform/config"
)

// AtDefault computes exposure-at-default: outstanding + booking − upfront.
// No clamping is applied; passing an upfront exceeding the sum yields a
// negative exposure, which is a caller error surfaced upstream.
func AtDefault(outstanding, bookingAmount, upfront float64) float64 {
	return outstanding + bookingAmount - upfront
}

// ExpectedLoss computes EL = PD × EAD × LGD.
func ExpectedLoss(pd, ead, lgd float64) float64 {
	return pd * ead * lgd
}

// Analyze derives the baseline financial snapshot for a booking: full
// exposure with zero upfront, 30-day expected loss, and how far it
// overshoots the risk appetite. ExceedsBy carries the one documented
// max(0, ...) clamp.
func Analyze(booking models.BookingRequest, scores models.RiskScores, constraints config.RiskConstraints) models.FinancialAnalysis {
	totalExposure := AtDefault(booking.CurrentOutstanding, booking.BookingAmount, 0)
	baselineEL := ExpectedLoss(scores.PD30d, totalExposure, constraints.LGD)

	exceedsBy := baselineEL - constraints.MaxExpectedLoss
	if exceedsBy < 0 {
		exceedsBy = 0
	}

	return models.FinancialAnalysis{
		TotalExposure:        totalExposure,
		BaselineExpectedLoss: baselineEL,
		ExceedsRiskAppetite:  baselineEL > constraints.MaxExpectedLoss,
		ExceedsBy:            exceedsBy,
	}
}
