package store_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aerox/internal/decision/models"
	"aerox/internal/negotiation"
	"aerox/internal/negotiation/store"
	"aerox/pkg/platform/sentinel"
)

func newTestSession() *negotiation.Session {
	return negotiation.NewSession(
		models.BookingRequest{
			CompanyID:          "IN-TRV-000567",
			CompanyName:        "Skyway Travels",
			BookingAmount:      50000,
			CurrentOutstanding: 45000,
			CreditLimit:        80000,
		},
		models.RiskScores{IntentScore: 0.32, CapacityScore: 0.55, PD7d: 0.02, PD14d: 0.08, PD30d: 0.15},
		[]models.CreditOption{{OptionID: "A", Kind: models.KindShortenedSettlement, SettlementDays: 7}},
	)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("save and get round-trips", func(t *testing.T) {
		s := store.NewMemory()
		session := newTestSession()
		require.NoError(t, s.Save(ctx, session))

		got, err := s.Get(ctx, session.SessionID)
		require.NoError(t, err)
		assert.Equal(t, session.SessionID, got.SessionID)
		assert.Equal(t, 1, got.RoundNumber)
		assert.Len(t, got.InitialOptions, 1)
	})

	t.Run("unknown session maps to not found", func(t *testing.T) {
		s := store.NewMemory()
		_, err := s.Get(ctx, "missing")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("get returns a copy", func(t *testing.T) {
		s := store.NewMemory()
		session := newTestSession()
		require.NoError(t, s.Save(ctx, session))

		first, err := s.Get(ctx, session.SessionID)
		require.NoError(t, err)
		first.RoundNumber = 99

		second, err := s.Get(ctx, session.SessionID)
		require.NoError(t, err)
		assert.Equal(t, 1, second.RoundNumber)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		s := store.NewMemory()
		session := newTestSession()
		require.NoError(t, s.Save(ctx, session))
		require.NoError(t, s.Delete(ctx, session.SessionID))
		require.NoError(t, s.Delete(ctx, session.SessionID))

		_, err := s.Get(ctx, session.SessionID)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("concurrent saves do not race", func(t *testing.T) {
		s := store.NewMemory()
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				session := newTestSession()
				assert.NoError(t, s.Save(ctx, session))
				_, err := s.Get(ctx, session.SessionID)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()
	})
}
