//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/domain/giftcard"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/pkg/clock"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/pkg/errs"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/usecase/commands"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGiftcardFixture(t *testing.T, issuedCents int64) (*fakeStore, *clock.MockClock, commands.GiftcardCommands, *giftcard.Giftcard) {
	t.Helper()
	store := newStore()
	card, err := builder.NewGiftcardBuilder().WithIssued(issuedCents).WithNow(baseNow).BuildDomain()
	require.NoError(t, err)
	store.addCard(card)

	clk := newMockClock()
	svc := commands.NewGiftcardCommands(&fakeUoW{store: store}, clk, testBookingConfig())
	return store, clk, svc, card
}

func TestCreateHold(t *testing.T) {
	ctx := context.Background()

	t.Run("claims part of the spendable balance", func(t *testing.T) {
		_, _, svc, card := newGiftcardFixture(t, 10000)

		result, err := svc.CreateHold(ctx, commands.CreateHoldParams{Code: card.Code(), AmountCents: 4000})

		require.NoError(t, err)
		assert.Equal(t, card.ID(), result.GiftcardID)
		assert.Equal(t, int64(4000), result.AmountCents)
		assert.Equal(t, int64(6000), result.SpendableCents)
		assert.Equal(t, baseNow.Add(30*time.Minute), result.ExpiresAt)
	})

	t.Run("cannot exceed the spendable balance", func(t *testing.T) {
		_, _, svc, card := newGiftcardFixture(t, 10000)
		_, err := svc.CreateHold(ctx, commands.CreateHoldParams{Code: card.Code(), AmountCents: 8000})
		require.NoError(t, err)

		_, err = svc.CreateHold(ctx, commands.CreateHoldParams{Code: card.Code(), AmountCents: 3000})

		require.ErrorIs(t, err, errs.ErrInsufficientBalance)
	})

	t.Run("non-positive amounts are rejected", func(t *testing.T) {
		_, _, svc, card := newGiftcardFixture(t, 10000)

		_, err := svc.CreateHold(ctx, commands.CreateHoldParams{Code: card.Code(), AmountCents: 0})

		require.ErrorIs(t, err, errs.ErrInsufficientBalance)
	})

	t.Run("unknown code is reported", func(t *testing.T) {
		_, _, svc, _ := newGiftcardFixture(t, 10000)

		_, err := svc.CreateHold(ctx, commands.CreateHoldParams{Code: "NO-SUCH-CARD", AmountCents: 1000})

		require.ErrorIs(t, err, errs.ErrGiftcardNotFound)
	})

	t.Run("expired holds free the balance for new ones", func(t *testing.T) {
		_, clk, svc, card := newGiftcardFixture(t, 10000)
		_, err := svc.CreateHold(ctx, commands.CreateHoldParams{Code: card.Code(), AmountCents: 10000})
		require.NoError(t, err)

		clk.Add(31 * time.Minute)
		result, err := svc.CreateHold(ctx, commands.CreateHoldParams{Code: card.Code(), AmountCents: 10000})

		require.NoError(t, err)
		assert.Equal(t, int64(10000), result.AmountCents)
		assert.Equal(t, giftcard.HoldExpired, card.Holds()[0].Status)
	})
}

func TestReleaseHold(t *testing.T) {
	ctx := context.Background()

	t.Run("release returns the amount to the balance", func(t *testing.T) {
		_, _, svc, card := newGiftcardFixture(t, 10000)
		result, err := svc.CreateHold(ctx, commands.CreateHoldParams{Code: card.Code(), AmountCents: 4000})
		require.NoError(t, err)

		require.NoError(t, svc.ReleaseHold(ctx, result.HoldID))

		assert.Equal(t, int64(10000), card.SpendableCents(baseNow))

		// Releasing again stays quiet.
		require.NoError(t, svc.ReleaseHold(ctx, result.HoldID))
	})

	t.Run("a consumed hold is left untouched", func(t *testing.T) {
		_, _, svc, card := newGiftcardFixture(t, 10000)
		result, err := svc.CreateHold(ctx, commands.CreateHoldParams{Code: card.Code(), AmountCents: 4000})
		require.NoError(t, err)
		_, _, err = card.ConsumeHold(result.HoldID, uuid.New(), baseNow)
		require.NoError(t, err)

		require.NoError(t, svc.ReleaseHold(ctx, result.HoldID))

		assert.Equal(t, giftcard.HoldConsumed, card.Holds()[0].Status)
		assert.Equal(t, int64(6000), card.BalanceCents())
	})

	t.Run("unknown hold is reported", func(t *testing.T) {
		_, _, svc, _ := newGiftcardFixture(t, 10000)

		err := svc.ReleaseHold(ctx, uuid.New())

		require.ErrorIs(t, err, errs.ErrGiftcardNotFound)
	})
}
