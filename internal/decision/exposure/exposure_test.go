package exposure_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"aerox/internal/decision/exposure"
	"aerox/internal/decision/models"
	"aerox/internal/platform/config"
)

func TestAtDefault(t *testing.T) {
	tests := []struct {
		name        string
		outstanding float64
		booking     float64
		upfront     float64
		want        float64
	}{
		{"no upfront", 45000, 50000, 0, 95000},
		{"with upfront", 45000, 50000, 20000, 75000},
		{"zero everything", 0, 0, 0, 0},
		{"upfront equals total", 10000, 5000, 15000, 0},
		{"caller error: upfront exceeds total goes negative", 100, 100, 500, -300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := exposure.AtDefault(tt.outstanding, tt.booking, tt.upfront)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpectedLoss(t *testing.T) {
	tests := []struct {
		name string
		pd   float64
		ead  float64
		lgd  float64
		want float64
	}{
		{"baseline scenario", 0.15, 95000, 0.70, 9975},
		{"zero pd", 0, 95000, 0.70, 0},
		{"zero exposure", 0.15, 0, 0.70, 0},
		{"full lgd", 0.10, 10000, 1.0, 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := exposure.ExpectedLoss(tt.pd, tt.ead, tt.lgd)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestAnalyze(t *testing.T) {
	constraints := config.RiskConstraints{MaxExpectedLoss: 5000, LGD: 0.70}

	t.Run("exceeds risk appetite", func(t *testing.T) {
		booking := models.BookingRequest{
			CompanyID:          "IN-TRV-000567",
			BookingAmount:      50000,
			CurrentOutstanding: 45000,
			CreditLimit:        80000,
		}
		scores := models.RiskScores{PD30d: 0.15}

		fa := exposure.Analyze(booking, scores, constraints)

		assert.Equal(t, 95000.0, fa.TotalExposure)
		assert.InDelta(t, 9975.0, fa.BaselineExpectedLoss, 1e-9)
		assert.True(t, fa.ExceedsRiskAppetite)
		assert.InDelta(t, 4975.0, fa.ExceedsBy, 1e-9)
	})

	t.Run("within risk appetite clamps exceeds_by to zero", func(t *testing.T) {
		booking := models.BookingRequest{
			CompanyID:          "IN-TRV-000123",
			BookingAmount:      30000,
			CurrentOutstanding: 20000,
			CreditLimit:        100000,
		}
		scores := models.RiskScores{PD30d: 0.03}

		fa := exposure.Analyze(booking, scores, constraints)

		assert.Equal(t, 50000.0, fa.TotalExposure)
		assert.InDelta(t, 1050.0, fa.BaselineExpectedLoss, 1e-9)
		assert.False(t, fa.ExceedsRiskAppetite)
		assert.Zero(t, fa.ExceedsBy)
	})
}
