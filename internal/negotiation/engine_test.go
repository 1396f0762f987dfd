package negotiation_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"aerox/internal/decision/mocks"
	"aerox/internal/decision/models"
	"aerox/internal/decision/ports"
	"aerox/internal/negotiation"
	"aerox/internal/negotiation/store"
	"aerox/internal/platform/config"
	"aerox/internal/platform/logger"
	"aerox/pkg/platform/sentinel"
)

type EngineSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	narrator *mocks.MockNarrator
	audit    *mocks.MockAuditPublisher
	engine   *negotiation.Engine
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.narrator = mocks.NewMockNarrator(s.ctrl)
	s.audit = mocks.NewMockAuditPublisher(s.ctrl)
	s.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	s.engine = negotiation.NewEngine(
		store.NewMemory(),
		s.narrator,
		s.audit,
		config.RiskConstraints{MaxExpectedLoss: 5000, LGD: 0.70},
		100*time.Millisecond,
		logger.New(),
	)
}

func yellowBooking() models.BookingRequest {
	return models.BookingRequest{
		CompanyID:          "IN-TRV-000567",
		CompanyName:        "Skyway Travels",
		BookingAmount:      50000,
		CurrentOutstanding: 45000,
		CreditLimit:        80000,
		Route:              "DEL-BOM",
	}
}

func yellowScores() models.RiskScores {
	return models.RiskScores{
		IntentScore: 0.32, CapacityScore: 0.55,
		PD7d: 0.02, PD14d: 0.08, PD30d: 0.15,
		RiskCategory: models.CategoryYellow,
	}
}

// redScores make even the capped fallback upfront blow the budget, so no
// round can produce a valid offer.
func redScores() models.RiskScores {
	return models.RiskScores{
		IntentScore: 0.85, CapacityScore: 0.25,
		PD7d: 0.25, PD14d: 0.40, PD30d: 0.60,
		RiskCategory: models.CategoryRed,
	}
}

func (s *EngineSuite) openSession(scores models.RiskScores) *negotiation.Session {
	session, err := s.engine.Open(context.Background(), yellowBooking(), scores, []models.CreditOption{
		{OptionID: "A", Kind: models.KindShortenedSettlement, SettlementDays: 7, ApprovedAmount: 50000},
	})
	s.Require().NoError(err)
	s.Require().Equal(1, session.RoundNumber)
	return session
}

// ============================================================================
// Narrator path
// ============================================================================

func (s *EngineSuite) TestVerifiedNarratorOfferIsReturned() {
	session := s.openSession(yellowScores())

	// 7-day offer with most of the exposure paid upfront: EL = 0.02 x 50000
	// x 0.70 = 700, well under budget.
	offer := &models.Offer{UpfrontAmount: 45000, SettlementDays: 7, ApprovedAmount: 50000}
	s.narrator.EXPECT().ProposeCounter(gomock.Any(), gomock.Any()).Return(ports.CounterProposal{
		ResponseText: "We can settle in 7 days with most of it upfront.",
		Offer:        offer,
	}, nil)

	result, err := s.engine.Round(context.Background(), session.SessionID, "Can you do 7 days?")
	s.Require().NoError(err)
	s.Equal(1, result.RoundNumber)
	s.Require().NotNil(result.Offer)
	s.Equal(45000.0, result.Offer.UpfrontAmount)
	s.Require().NotNil(result.ExpectedLoss)
	s.InDelta(700.0, *result.ExpectedLoss, 0.01)
	s.False(result.Escalated)
}

func (s *EngineSuite) TestOverBudgetNarratorOfferFallsBack() {
	session := s.openSession(yellowScores())

	// 30-day zero-upfront offer: EL = 0.15 x 95000 x 0.70 = 9975 > 5000.
	s.narrator.EXPECT().ProposeCounter(gomock.Any(), gomock.Any()).Return(ports.CounterProposal{
		ResponseText: "Sure, no upfront needed!",
		Offer:        &models.Offer{UpfrontAmount: 0, SettlementDays: 30, ApprovedAmount: 50000},
	}, nil)

	result, err := s.engine.Round(context.Background(), session.SessionID, "No upfront please")
	s.Require().NoError(err)
	s.Require().NotNil(result.Offer, "fallback must produce an offer")
	s.Equal(10, result.Offer.SettlementDays)
	s.NotEqual("Sure, no upfront needed!", result.ResponseText)
	// pd10 = (0.02+0.08)/2 = 0.05; required upfront is negative, so zero.
	s.Equal(0.0, result.Offer.UpfrontAmount)
	s.Require().NotNil(result.ExpectedLoss)
	s.InDelta(3325.0, *result.ExpectedLoss, 0.01)
}

func (s *EngineSuite) TestNarratorErrorFallsBack() {
	session := s.openSession(yellowScores())

	s.narrator.EXPECT().ProposeCounter(gomock.Any(), gomock.Any()).
		Return(ports.CounterProposal{}, errors.New("gateway timeout"))

	result, err := s.engine.Round(context.Background(), session.SessionID, "Help me out here")
	s.Require().NoError(err, "narrator failure must never surface to the customer")
	s.Require().NotNil(result.Offer)
	s.Equal(10, result.Offer.SettlementDays)
	s.Equal(50000.0, result.Offer.ApprovedAmount)
}

func (s *EngineSuite) TestStructurallyInvalidNarratorOfferFallsBack() {
	session := s.openSession(yellowScores())

	// Upfront above the approved amount: structurally invalid even though
	// the expected loss would clear the budget.
	s.narrator.EXPECT().ProposeCounter(gomock.Any(), gomock.Any()).Return(ports.CounterProposal{
		ResponseText: "Pay it all and then some.",
		Offer:        &models.Offer{UpfrontAmount: 60000, SettlementDays: 7, ApprovedAmount: 50000},
	}, nil)

	result, err := s.engine.Round(context.Background(), session.SessionID, "ok")
	s.Require().NoError(err)
	s.Require().NotNil(result.Offer)
	s.Equal(10, result.Offer.SettlementDays)
}

func (s *EngineSuite) TestEscalationHintDisqualifiesNarratorOffer() {
	session := s.openSession(yellowScores())

	// The suggested offer would verify on its own, but the hint withdraws
	// it. Escalation stays with the round counter, so with rounds left the
	// customer still gets the deterministic counter.
	s.narrator.EXPECT().ProposeCounter(gomock.Any(), gomock.Any()).Return(ports.CounterProposal{
		ResponseText: "This is going nowhere.",
		Offer:        &models.Offer{UpfrontAmount: 45000, SettlementDays: 7, ApprovedAmount: 50000},
		EscalateHint: true,
	}, nil)

	result, err := s.engine.Round(context.Background(), session.SessionID, "final answer")
	s.Require().NoError(err)
	s.False(result.Escalated, "hint alone must not escalate")
	s.Require().NotNil(result.Offer)
	s.Equal(10, result.Offer.SettlementDays, "fallback replaces the hinted offer")
	s.NotEqual("This is going nowhere.", result.ResponseText)
}

// ============================================================================
// Rounds and transcript
// ============================================================================

func (s *EngineSuite) TestRoundsIncrementAndTranscriptGrows() {
	session := s.openSession(yellowScores())

	s.narrator.EXPECT().ProposeCounter(gomock.Any(), gomock.Any()).
		Return(ports.CounterProposal{}, errors.New("down")).Times(2)

	first, err := s.engine.Round(context.Background(), session.SessionID, "round one")
	s.Require().NoError(err)
	s.Equal(1, first.RoundNumber)

	second, err := s.engine.Round(context.Background(), session.SessionID, "round two")
	s.Require().NoError(err)
	s.Equal(2, second.RoundNumber)
}

func (s *EngineSuite) TestRoundNumberNeverExceedsCeiling() {
	session := s.openSession(yellowScores())

	s.narrator.EXPECT().ProposeCounter(gomock.Any(), gomock.Any()).
		Return(ports.CounterProposal{}, errors.New("down")).Times(4)

	for i := 0; i < 4; i++ {
		result, err := s.engine.Round(context.Background(), session.SessionID, "again")
		s.Require().NoError(err)
		s.LessOrEqual(result.RoundNumber, negotiation.MaxRounds)
		s.False(result.Escalated, "valid fallback offers must not escalate")
	}
}

// ============================================================================
// Escalation
// ============================================================================

func (s *EngineSuite) TestEscalatesWhenNoOfferPossibleAtFinalRound() {
	session := s.openSession(redScores())

	s.narrator.EXPECT().ProposeCounter(gomock.Any(), gomock.Any()).
		Return(ports.CounterProposal{}, errors.New("down")).Times(3)

	var result negotiation.RoundResult
	var err error
	for i := 0; i < 3; i++ {
		result, err = s.engine.Round(context.Background(), session.SessionID, "try again")
		s.Require().NoError(err)
	}

	s.True(result.Escalated)
	s.Nil(result.Offer)
	s.Nil(result.ExpectedLoss)
	s.Contains(result.ResponseText, "manual review")
	s.Contains(result.ResponseText, "Reference: AEROX-")
	s.Contains(result.ResponseText, "0567", "reference cites the company id suffix")
}

func (s *EngineSuite) TestEscalatedSessionRejectsFurtherRounds() {
	session := s.openSession(redScores())

	s.narrator.EXPECT().ProposeCounter(gomock.Any(), gomock.Any()).
		Return(ports.CounterProposal{}, errors.New("down")).Times(3)

	for i := 0; i < 3; i++ {
		_, err := s.engine.Round(context.Background(), session.SessionID, "try again")
		s.Require().NoError(err)
	}

	// No further narrator calls expected: the terminal check fires first.
	_, err := s.engine.Round(context.Background(), session.SessionID, "one more?")
	s.ErrorIs(err, sentinel.ErrSessionEscalated)
}

// ============================================================================
// Reset and lifecycle
// ============================================================================

func (s *EngineSuite) TestResetClearsSession() {
	session := s.openSession(yellowScores())

	s.Require().NoError(s.engine.Reset(context.Background(), session.SessionID))

	_, err := s.engine.Round(context.Background(), session.SessionID, "hello?")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *EngineSuite) TestUnknownSessionIsNotFound() {
	_, err := s.engine.Round(context.Background(), "no-such-session", "hello?")
	s.ErrorIs(err, sentinel.ErrNotFound)
}
