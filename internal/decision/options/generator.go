// Package options deterministically generates alternative credit-term
// structures that individually satisfy the expected-loss budget. An empty
// result is a normal terminal outcome meaning "no offer possible; block",
// not an error.
package options

import (
	"fmt"
	"math"
	"sort"

	"aerox/internal/decision/exposure"
	"aerox/internal/decision/models"
)

// Friction weights per option kind. Lower friction ranks first: it is the
// easiest structure for the customer to accept.
const (
	frictionShortened = 4.0
	frictionUpfront   = 7.0
	frictionPartial   = 8.0
)

// UpfrontAdmissionCap bounds the upfront construction to "reasonable"
// requirements before clamping: candidates needing more than this multiple
// of the booking amount are rejected outright. Kept as a tunable rather
// than tightened to 1.0.
const UpfrontAdmissionCap = 1.2

// partialFractions are tried in order; the first fraction that clears the
// budget wins (prefer the least reduction), then the search stops.
var partialFractions = []float64{0.5, 0.4, 0.3, 0.2}

// Settlement windows per construction.
const (
	shortenedSettlementDays = 7
	partialSettlementDays   = 14
	upfrontSettlementDays   = 30
)

// Input carries everything the generator needs. TotalExposure must equal
// Outstanding + BookingAmount for the constructions to be consistent.
type Input struct {
	TotalExposure   float64
	Outstanding     float64
	BookingAmount   float64
	PD7d            float64
	PD14d           float64
	PD30d           float64
	LGD             float64
	MaxExpectedLoss float64
}

// Generate proposes up to three credit options, each independently within
// the expected-loss budget, sorted ascending by friction score with
// ordinal labels assigned after the sort.
func Generate(in Input) []models.CreditOption {
	var opts []models.CreditOption

	if opt, ok := shortenedSettlement(in); ok {
		opts = append(opts, opt)
	}
	if opt, ok := upfrontPayment(in); ok {
		opts = append(opts, opt)
	}
	if opt, ok := partialApproval(in); ok {
		opts = append(opts, opt)
	}

	sort.SliceStable(opts, func(i, j int) bool {
		return opts[i].FrictionScore < opts[j].FrictionScore
	})
	if len(opts) > 3 {
		opts = opts[:3]
	}

	labels := []string{"A", "B", "C"}
	for i := range opts {
		opts[i].OptionID = labels[i]
	}
	return opts
}

// shortenedSettlement uses the 7-day default probability against the full
// exposure with zero upfront.
func shortenedSettlement(in Input) (models.CreditOption, bool) {
	el := exposure.ExpectedLoss(in.PD7d, in.TotalExposure, in.LGD)
	if el > in.MaxExpectedLoss {
		return models.CreditOption{}, false
	}
	return models.CreditOption{
		Kind:           models.KindShortenedSettlement,
		SettlementDays: shortenedSettlementDays,
		UpfrontAmount:  0,
		ApprovedAmount: in.BookingAmount,
		ExpectedLoss:   round2(el),
		FrictionScore:  frictionShortened,
		Description:    fmt.Sprintf("Settle within %d days", shortenedSettlementDays),
	}, true
}

// upfrontPayment solves for the minimum upfront that brings the 30-day
// expected loss exactly to the budget:
//
//	pd30 × (exposure − upfront) × lgd ≤ maxEL
//	upfront = exposure − maxEL/(pd30 × lgd)
//
// Admitted only when the required upfront lies in (0, cap×booking) before
// clamping to the booking amount, and the clamped construction still clears
// the budget: a requirement above the booking amount gets clamped, which
// leaves residual exposure on the outstanding balance alone.
func upfrontPayment(in Input) (models.CreditOption, bool) {
	if in.PD30d <= 0 {
		return models.CreditOption{}, false
	}
	required := in.TotalExposure - in.MaxExpectedLoss/(in.PD30d*in.LGD)
	if required <= 0 || required >= in.BookingAmount*UpfrontAdmissionCap {
		return models.CreditOption{}, false
	}
	clamped := required > in.BookingAmount
	if clamped {
		required = in.BookingAmount
	}
	el := exposure.ExpectedLoss(in.PD30d, in.TotalExposure-required, in.LGD)
	// Unclamped solves sit exactly on the budget by construction; only the
	// clamped case can breach it.
	if clamped && el > in.MaxExpectedLoss {
		return models.CreditOption{}, false
	}
	// Round to whole currency units; re-clamp so the rounded figure can
	// never exceed a fractional booking amount.
	rounded := math.Round(required)
	if rounded > in.BookingAmount {
		rounded = in.BookingAmount
	}
	return models.CreditOption{
		Kind:           models.KindUpfrontPayment,
		SettlementDays: upfrontSettlementDays,
		UpfrontAmount:  rounded,
		ApprovedAmount: in.BookingAmount,
		ExpectedLoss:   round2(el),
		FrictionScore:  frictionUpfront,
		Description: fmt.Sprintf("Pay %.0f upfront, %.0f in %d days",
			rounded, in.BookingAmount-rounded, upfrontSettlementDays),
	}, true
}

// partialApproval reduces the approved amount to a fraction of the
// requested booking, using the 14-day default probability against the
// reduced exposure. The first clearing fraction wins; friction grows as
// the retained fraction shrinks.
func partialApproval(in Input) (models.CreditOption, bool) {
	for _, pct := range partialFractions {
		partialBooking := in.BookingAmount * pct
		partialExposure := in.Outstanding + partialBooking
		el := exposure.ExpectedLoss(in.PD14d, partialExposure, in.LGD)
		if el > in.MaxExpectedLoss {
			continue
		}
		return models.CreditOption{
			Kind:           models.KindPartialApproval,
			SettlementDays: partialSettlementDays,
			UpfrontAmount:  0,
			ApprovedAmount: math.Round(partialBooking),
			ExpectedLoss:   round2(el),
			FrictionScore:  frictionPartial + (1-pct)*2,
			Description: fmt.Sprintf("Approve %.0f with %d-day settlement",
				math.Round(partialBooking), partialSettlementDays),
		}, true
	}
	return models.CreditOption{}, false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
