package handler

import (
	"context"

	"aerox/internal/decision/models"
	"aerox/internal/scoring"
)

// Scenario is one pre-built demo scenario exposed by GET /api/scenarios.
type Scenario struct {
	ID             string                `json:"id"`
	Label          string                `json:"label"`
	Booking        models.BookingRequest `json:"booking"`
	ExpectedScores models.RiskScores     `json:"expected_scores"`
	Description    string                `json:"description"`
}

// ScenariosResponse is the body of GET /api/scenarios.
type ScenariosResponse struct {
	Scenarios           []Scenario `json:"scenarios"`
	NegotiationMessages []string   `json:"negotiation_messages"`
}

// demoScenarios are the three canned walkthroughs, one per risk category.
// Scores match what the static scorer returns for these company ids.
func demoScenarios() ScenariosResponse {
	ctx := context.Background()
	static := scoring.NewStatic()
	green, _ := static.Score(ctx, scoring.GreenCompanyID)
	yellow, _ := static.Score(ctx, scoring.YellowCompanyID)
	red, _ := static.Score(ctx, scoring.RedCompanyID)

	return ScenariosResponse{
		Scenarios: []Scenario{
			{
				ID:    "green",
				Label: "Low Risk (Auto-Approve)",
				Booking: models.BookingRequest{
					CompanyID:          scoring.GreenCompanyID,
					CompanyName:        "LowRisk Travels",
					BookingAmount:      30000,
					CurrentOutstanding: 20000,
					CreditLimit:        100000,
					Route:              "Mumbai-Singapore",
					BookingDate:        "2026-02-15",
				},
				ExpectedScores: green,
				Description:    "Established agency with strong credit - should auto-approve",
			},
			{
				ID:    "yellow",
				Label: "Medium Risk (Negotiate)",
				Booking: models.BookingRequest{
					CompanyID:          scoring.YellowCompanyID,
					CompanyName:        "MediumRisk Agency",
					BookingAmount:      50000,
					CurrentOutstanding: 45000,
					CreditLimit:        80000,
					Route:              "Chennai-Dubai",
					BookingDate:        "2026-02-15",
				},
				ExpectedScores: yellow,
				Description:    "Moderate risk agency - triggers negotiation with 3 options",
			},
			{
				ID:    "red",
				Label: "High Risk (Block)",
				Booking: models.BookingRequest{
					CompanyID:          scoring.RedCompanyID,
					CompanyName:        "HighRisk Agency",
					BookingAmount:      100000,
					CurrentOutstanding: 150000,
					CreditLimit:        120000,
					Route:              "Delhi-London",
					BookingDate:        "2026-02-15",
				},
				ExpectedScores: red,
				Description:    "High fraud intent - should be hard blocked",
			},
		},
		NegotiationMessages: []string{
			"Can't do 7 days, and 25K upfront is too much.",
			"What about 15,000 upfront with 20 days?",
			"This doesn't work for us, can you do better?",
		},
	}
}
