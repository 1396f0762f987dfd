package narrator_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aerox/internal/decision/models"
	"aerox/internal/decision/ports"
	"aerox/internal/narrator"
	"aerox/internal/platform/config"
	"aerox/pkg/platform/sentinel"
)

func gatewayConfig(url string) config.NarratorConfig {
	return config.NarratorConfig{BaseURL: url, Timeout: 2 * time.Second}
}

func yellowScores() models.RiskScores {
	return models.RiskScores{
		IntentScore: 0.32, CapacityScore: 0.55,
		PD7d: 0.02, PD14d: 0.08, PD30d: 0.15,
		RiskCategory: models.CategoryYellow,
	}
}

func TestLLMAssess(t *testing.T) {
	ctx := context.Background()
	booking := models.BookingRequest{CompanyID: "IN-TRV-000567", BookingAmount: 50000}

	t.Run("decodes gateway assessment", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/assess", r.URL.Path)
			_, _ = w.Write([]byte(`{
				"risk_summary": "Moderate fraud risk with thin capacity.",
				"key_risk_factors": ["rising utilization"],
				"mitigating_factors": ["long relationship"],
				"recommendation": "Shorten settlement."
			}`))
		}))
		defer srv.Close()

		n := narrator.NewLLM(gatewayConfig(srv.URL))
		got, err := n.Assess(ctx, booking, yellowScores())
		require.NoError(t, err)
		assert.Equal(t, "Moderate fraud risk with thin capacity.", got.RiskSummary)
		assert.Equal(t, []string{"rising utilization"}, got.KeyRiskFactors)
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"risk_summary": "ok", "confidence": 0.9}`))
		}))
		defer srv.Close()

		n := narrator.NewLLM(gatewayConfig(srv.URL))
		_, err := n.Assess(ctx, booking, yellowScores())
		assert.Error(t, err)
	})

	t.Run("rejects empty summary", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"risk_summary": ""}`))
		}))
		defer srv.Close()

		n := narrator.NewLLM(gatewayConfig(srv.URL))
		_, err := n.Assess(ctx, booking, yellowScores())
		assert.Error(t, err)
	})

	t.Run("gateway error maps to unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		n := narrator.NewLLM(gatewayConfig(srv.URL))
		_, err := n.Assess(ctx, booking, yellowScores())
		assert.ErrorIs(t, err, sentinel.ErrUnavailable)
	})

	t.Run("repeated failures open the circuit", func(t *testing.T) {
		var hits int
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		n := narrator.NewLLM(gatewayConfig(srv.URL))
		for i := 0; i < 8; i++ {
			_, err := n.Assess(ctx, booking, yellowScores())
			assert.ErrorIs(t, err, sentinel.ErrUnavailable)
		}
		// After the breaker opens only occasional probe calls reach the
		// gateway.
		assert.Less(t, hits, 8)
	})
}

func TestLLMProposeCounter(t *testing.T) {
	ctx := context.Background()
	nc := ports.NegotiationContext{
		Booking:     models.BookingRequest{CompanyID: "IN-TRV-000567", BookingAmount: 50000},
		Scores:      yellowScores(),
		RoundNumber: 2,
	}

	t.Run("decodes offer suggestion", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/counter", r.URL.Path)
			_, _ = w.Write([]byte(`{
				"response": "We can meet you at a 10-day settlement.",
				"offer": {"upfront_amount": 20000, "settlement_days": 10, "approved_amount": 50000},
				"escalate": false
			}`))
		}))
		defer srv.Close()

		n := narrator.NewLLM(gatewayConfig(srv.URL))
		got, err := n.ProposeCounter(ctx, nc)
		require.NoError(t, err)
		require.NotNil(t, got.Offer)
		assert.Equal(t, 10, got.Offer.SettlementDays)
		assert.False(t, got.EscalateHint)
	})

	t.Run("nil offer is allowed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"response": "Let me check with the team.", "offer": null, "escalate": true}`))
		}))
		defer srv.Close()

		n := narrator.NewLLM(gatewayConfig(srv.URL))
		got, err := n.ProposeCounter(ctx, nc)
		require.NoError(t, err)
		assert.Nil(t, got.Offer)
		assert.True(t, got.EscalateHint)
	})

	t.Run("rejects empty response text", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"response": ""}`))
		}))
		defer srv.Close()

		n := narrator.NewLLM(gatewayConfig(srv.URL))
		_, err := n.ProposeCounter(ctx, nc)
		assert.Error(t, err)
	})
}

func TestDisabled(t *testing.T) {
	ctx := context.Background()
	var n narrator.Disabled

	_, err := n.Assess(ctx, models.BookingRequest{}, models.RiskScores{})
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
	_, err = n.ComposeMessage(ctx, ports.DecisionContext{})
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
	_, err = n.ProposeCounter(ctx, ports.NegotiationContext{})
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
}

func TestFallbackAssessment(t *testing.T) {
	t.Run("low intent good capacity", func(t *testing.T) {
		got := narrator.FallbackAssessment(models.RiskScores{IntentScore: 0.15, CapacityScore: 0.85})
		assert.Contains(t, got.RiskSummary, "low fraud risk")
		assert.Contains(t, got.RiskSummary, "good credit quality")
		assert.NotEmpty(t, got.Recommendation)
	})

	t.Run("yellow scores read as low fraud moderate capacity", func(t *testing.T) {
		// Intent below 0.4 renders as low fraud risk even when the overall
		// decision is yellow; capacity at or under 0.6 reads as moderate.
		got := narrator.FallbackAssessment(yellowScores())
		assert.Contains(t, got.RiskSummary, "low fraud risk")
		assert.Contains(t, got.RiskSummary, "moderate credit quality")
		assert.NotEmpty(t, got.KeyRiskFactors)
	})

	t.Run("moderate everything", func(t *testing.T) {
		got := narrator.FallbackAssessment(models.RiskScores{IntentScore: 0.48, CapacityScore: 0.55})
		assert.Contains(t, got.RiskSummary, "moderate fraud risk")
		assert.Contains(t, got.RiskSummary, "moderate credit quality")
		assert.NotEmpty(t, got.KeyRiskFactors)
	})
}

func TestFallbackMessage(t *testing.T) {
	dc := ports.DecisionContext{
		Booking: models.BookingRequest{
			CompanyID:     "IN-TRV-000567",
			CompanyName:   "Skyway Travels",
			BookingAmount: 50000,
			Route:         "DEL-BOM",
		},
		Options: []models.CreditOption{
			{OptionID: "A", Kind: models.KindShortenedSettlement, SettlementDays: 7, ApprovedAmount: 50000, Description: "Settle within 7 days"},
			{OptionID: "B", Kind: models.KindUpfrontPayment, SettlementDays: 30, UpfrontAmount: 20000, ApprovedAmount: 50000, Description: "Pay upfront, settle in 30 days"},
			{OptionID: "C", Kind: models.KindPartialApproval, SettlementDays: 14, ApprovedAmount: 25000, Description: "Partial approval"},
		},
	}

	msg := narrator.FallbackMessage(dc)
	assert.Equal(t, "Credit Options for ₹50,000 Booking", msg.Subject)
	assert.Contains(t, msg.Body, "Hi Skyway Travels")
	assert.Contains(t, msg.Body, "Option A")
	assert.Contains(t, msg.Body, "Option B")
	assert.Contains(t, msg.Body, "Option C")
	assert.Contains(t, msg.Body, "DEL-BOM")
	assert.Equal(t, []string{"Select A", "Select B", "Select C", "Support"}, msg.CTAButtons)

	t.Run("falls back to company id without a name", func(t *testing.T) {
		anon := dc
		anon.Booking.CompanyName = ""
		msg := narrator.FallbackMessage(anon)
		assert.Contains(t, msg.Body, "Hi IN-TRV-000567")
	})
}
