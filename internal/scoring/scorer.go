// Package scoring adapts the external ML scoring service to the decision
// pipeline's Scorer port. When no service is configured the static scorer
// serves the canned demo scenarios; when the service fails the
// orchestrator substitutes the conservative default set.
package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"aerox/internal/decision/models"
	"aerox/internal/platform/config"
	"aerox/pkg/platform/sentinel"
)

// HTTPScorer calls the scoring service over HTTP.
type HTTPScorer struct {
	baseURL string
	client  *http.Client
}

// NewHTTPScorer builds a scorer against the configured base URL.
func NewHTTPScorer(cfg config.ScorerConfig) *HTTPScorer {
	return &HTTPScorer{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

// Score fetches scores for one company. Unknown companies map to
// sentinel.ErrNotFound, transport trouble to sentinel.ErrUnavailable.
func (s *HTTPScorer) Score(ctx context.Context, companyID string) (models.RiskScores, error) {
	endpoint := fmt.Sprintf("%s/score/%s", s.baseURL, url.PathEscape(companyID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return models.RiskScores{}, fmt.Errorf("build score request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return models.RiskScores{}, fmt.Errorf("score request: %w", sentinel.ErrUnavailable)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return models.RiskScores{}, fmt.Errorf("company %s: %w", companyID, sentinel.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return models.RiskScores{}, fmt.Errorf("scorer returned %d: %w", resp.StatusCode, sentinel.ErrUnavailable)
	}

	var scores models.RiskScores
	if err := json.NewDecoder(resp.Body).Decode(&scores); err != nil {
		return models.RiskScores{}, fmt.Errorf("decode scores: %w", err)
	}
	if err := scores.Validate(); err != nil {
		return models.RiskScores{}, fmt.Errorf("scorer returned out-of-range scores: %w", err)
	}
	return scores, nil
}

// Static serves canned scores for the demo scenario companies and a
// moderate default for everyone else. Used when no scoring service is
// configured.
type Static struct{}

func NewStatic() *Static {
	return &Static{}
}

// Canned scenario companies.
const (
	GreenCompanyID  = "IN-TRV-000123"
	YellowCompanyID = "IN-TRV-000567"
	RedCompanyID    = "IN-TRV-000999"
)

func (s *Static) Score(_ context.Context, companyID string) (models.RiskScores, error) {
	switch companyID {
	case GreenCompanyID:
		return models.RiskScores{
			IntentScore: 0.15, CapacityScore: 0.85,
			PD7d: 0.005, PD14d: 0.01, PD30d: 0.03,
			RiskCategory: models.CategoryGreen,
		}, nil
	case RedCompanyID:
		return models.RiskScores{
			IntentScore: 0.85, CapacityScore: 0.25,
			PD7d: 0.25, PD14d: 0.40, PD30d: 0.60,
			RiskCategory: models.CategoryRed,
		}, nil
	default:
		// Moderate-risk profile matching the yellow demo scenario.
		return models.RiskScores{
			IntentScore: 0.32, CapacityScore: 0.55,
			PD7d: 0.02, PD14d: 0.08, PD30d: 0.15,
			RiskCategory: models.CategoryYellow,
		}, nil
	}
}

// Conservative is the default score set substituted when the scorer is
// unavailable: risky enough to force the negotiation path and tight
// options, but below the block threshold so a scorer outage does not hard
// block every customer.
func Conservative() models.RiskScores {
	return models.RiskScores{
		IntentScore:   0.50,
		CapacityScore: 0.30,
		PD7d:          0.10,
		PD14d:         0.20,
		PD30d:         0.35,
		RiskCategory:  models.CategoryYellow,
	}
}
