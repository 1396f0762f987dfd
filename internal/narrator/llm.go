// Package narrator adapts the external language-model gateway to the
// Narrator port. The gateway produces presentation text and negotiation
// suggestions only; every structured number it returns is re-verified by
// the core before use. Responses are decoded strictly: unknown fields or
// missing required fields fail the call, which routes the pipeline onto
// its deterministic fallbacks.
package narrator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"

	"aerox/internal/decision/models"
	"aerox/internal/decision/ports"
	"aerox/internal/platform/config"
	"aerox/pkg/platform/circuit"
	"aerox/pkg/platform/sentinel"
)

// LLM calls the narrator gateway over HTTP with a bounded timeout. The
// timeout is deliberately short: the deterministic fallback must stay the
// fast path when the gateway misbehaves. A circuit breaker short-circuits
// calls while the gateway is failing so rounds do not block on a dead
// upstream.
type LLM struct {
	baseURL string
	client  *http.Client
	breaker *circuit.Breaker
	skipped atomic.Int64
}

// Every probeInterval-th call is attempted while the circuit is open so a
// recovered gateway can close it again.
const probeInterval = 5

// NewLLM builds a narrator against the configured gateway.
func NewLLM(cfg config.NarratorConfig) *LLM {
	return &LLM{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
		breaker: circuit.New("narrator-gateway"),
	}
}

type assessRequest struct {
	Booking models.BookingRequest `json:"booking"`
	Scores  models.RiskScores     `json:"scores"`
}

// Assess asks the gateway for the qualitative risk narrative.
func (n *LLM) Assess(ctx context.Context, booking models.BookingRequest, scores models.RiskScores) (models.RiskAssessment, error) {
	var out models.RiskAssessment
	if err := n.post(ctx, "/v1/assess", assessRequest{Booking: booking, Scores: scores}, &out); err != nil {
		return models.RiskAssessment{}, err
	}
	if out.RiskSummary == "" {
		return models.RiskAssessment{}, fmt.Errorf("narrator assessment missing risk summary")
	}
	return out, nil
}

type composeRequest struct {
	Booking    models.BookingRequest    `json:"booking"`
	Scores     models.RiskScores        `json:"scores"`
	Analysis   models.FinancialAnalysis `json:"financial_analysis"`
	Assessment models.RiskAssessment    `json:"risk_assessment"`
	Options    []models.CreditOption    `json:"options"`
}

// ComposeMessage asks the gateway for the customer-facing offer message.
func (n *LLM) ComposeMessage(ctx context.Context, dc ports.DecisionContext) (models.CustomerMessage, error) {
	req := composeRequest{
		Booking:    dc.Booking,
		Scores:     dc.Scores,
		Analysis:   dc.Analysis,
		Assessment: dc.Assessment,
		Options:    dc.Options,
	}
	var out models.CustomerMessage
	if err := n.post(ctx, "/v1/compose", req, &out); err != nil {
		return models.CustomerMessage{}, err
	}
	if out.Body == "" {
		return models.CustomerMessage{}, fmt.Errorf("narrator message missing body")
	}
	return out, nil
}

type counterRequest struct {
	Booking         models.BookingRequest  `json:"booking"`
	Scores          models.RiskScores      `json:"scores"`
	MaxExpectedLoss float64                `json:"max_expected_loss"`
	LGD             float64                `json:"lgd"`
	InitialOptions  []models.CreditOption  `json:"initial_options"`
	Transcript      []models.Turn          `json:"transcript"`
	RoundNumber     int                    `json:"round_number"`
	CustomerMessage string                 `json:"customer_message"`
}

type counterResponse struct {
	Response string        `json:"response"`
	Offer    *models.Offer `json:"offer"`
	Escalate bool          `json:"escalate"`
}

// ProposeCounter asks the gateway for a negotiation counter proposal.
// The returned offer, if any, is a suggestion only.
func (n *LLM) ProposeCounter(ctx context.Context, nc ports.NegotiationContext) (ports.CounterProposal, error) {
	req := counterRequest{
		Booking:         nc.Booking,
		Scores:          nc.Scores,
		MaxExpectedLoss: nc.Constraints.MaxExpectedLoss,
		LGD:             nc.Constraints.LGD,
		InitialOptions:  nc.InitialOptions,
		Transcript:      nc.Transcript,
		RoundNumber:     nc.RoundNumber,
		CustomerMessage: nc.CustomerMessage,
	}
	var out counterResponse
	if err := n.post(ctx, "/v1/counter", req, &out); err != nil {
		return ports.CounterProposal{}, err
	}
	if out.Response == "" {
		return ports.CounterProposal{}, fmt.Errorf("narrator counter missing response text")
	}
	return ports.CounterProposal{
		ResponseText: out.Response,
		Offer:        out.Offer,
		EscalateHint: out.Escalate,
	}, nil
}

func (n *LLM) post(ctx context.Context, path string, payload, out any) error {
	if n.breaker.IsOpen() && n.skipped.Add(1)%probeInterval != 0 {
		return fmt.Errorf("narrator circuit open: %w", sentinel.ErrUnavailable)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal narrator request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build narrator request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.breaker.RecordFailure()
		return fmt.Errorf("narrator request: %w", sentinel.ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		n.breaker.RecordFailure()
		return fmt.Errorf("narrator returned %d: %w", resp.StatusCode, sentinel.ErrUnavailable)
	}

	dec := json.NewDecoder(resp.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode narrator response: %w", err)
	}
	n.breaker.RecordSuccess()
	return nil
}

// Disabled is the narrator used when no gateway is configured: every call
// reports unavailability so callers exercise their fallbacks.
type Disabled struct{}

func (Disabled) Assess(context.Context, models.BookingRequest, models.RiskScores) (models.RiskAssessment, error) {
	return models.RiskAssessment{}, sentinel.ErrUnavailable
}

func (Disabled) ComposeMessage(context.Context, ports.DecisionContext) (models.CustomerMessage, error) {
	return models.CustomerMessage{}, sentinel.ErrUnavailable
}

func (Disabled) ProposeCounter(context.Context, ports.NegotiationContext) (ports.CounterProposal, error) {
	return ports.CounterProposal{}, sentinel.ErrUnavailable
}
