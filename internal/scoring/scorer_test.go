package scoring_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aerox/internal/decision/models"
	"aerox/internal/platform/config"
	"aerox/internal/scoring"
	"aerox/pkg/platform/sentinel"
)

func TestHTTPScorer(t *testing.T) {
	ctx := context.Background()

	t.Run("decodes valid scores", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/score/IN-TRV-000567", r.URL.Path)
			_ = json.NewEncoder(w).Encode(models.RiskScores{
				IntentScore: 0.32, CapacityScore: 0.55,
				PD7d: 0.02, PD14d: 0.08, PD30d: 0.15,
				RiskCategory: models.CategoryYellow,
			})
		}))
		defer srv.Close()

		scorer := scoring.NewHTTPScorer(config.ScorerConfig{BaseURL: srv.URL})
		scores, err := scorer.Score(ctx, "IN-TRV-000567")
		require.NoError(t, err)
		assert.Equal(t, 0.32, scores.IntentScore)
		assert.Equal(t, 0.15, scores.PD30d)
	})

	t.Run("unknown company maps to not found", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		scorer := scoring.NewHTTPScorer(config.ScorerConfig{BaseURL: srv.URL})
		_, err := scorer.Score(ctx, "IN-TRV-XXXXXX")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("server error maps to unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		scorer := scoring.NewHTTPScorer(config.ScorerConfig{BaseURL: srv.URL})
		_, err := scorer.Score(ctx, "IN-TRV-000567")
		assert.ErrorIs(t, err, sentinel.ErrUnavailable)
	})

	t.Run("out-of-range scores are rejected", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"intent_score": 1.4, "capacity_score": 0.5}`))
		}))
		defer srv.Close()

		scorer := scoring.NewHTTPScorer(config.ScorerConfig{BaseURL: srv.URL})
		_, err := scorer.Score(ctx, "IN-TRV-000567")
		assert.Error(t, err)
	})
}

func TestStatic(t *testing.T) {
	ctx := context.Background()
	scorer := scoring.NewStatic()

	tests := []struct {
		companyID string
		category  models.RiskCategory
	}{
		{scoring.GreenCompanyID, models.CategoryGreen},
		{scoring.YellowCompanyID, models.CategoryYellow},
		{scoring.RedCompanyID, models.CategoryRed},
		{"IN-TRV-555555", models.CategoryYellow},
	}
	for _, tt := range tests {
		scores, err := scorer.Score(ctx, tt.companyID)
		require.NoError(t, err)
		assert.Equal(t, tt.category, scores.RiskCategory, "company %s", tt.companyID)
		assert.NoError(t, scores.Validate())
	}
}

func TestConservative(t *testing.T) {
	scores := scoring.Conservative()
	assert.NoError(t, scores.Validate())
	// Must stay below the default block threshold so a scorer outage does
	// not hard block every booking.
	assert.Less(t, scores.IntentScore, config.DefaultPolicy().DecisionMatrix.BlockIntentThreshold)
}
