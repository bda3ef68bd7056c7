//go:build unit

package giftcard_test

import (
	"testing"
	"time"

	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/domain/giftcard"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	now     = time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	holdTTL = 30 * time.Minute
)

func newCard(t *testing.T, issuedCents int64) *giftcard.Giftcard {
	t.Helper()
	card, err := builder.NewGiftcardBuilder().WithIssued(issuedCents).WithNow(now).BuildDomain()
	require.NoError(t, err)
	return card
}

func TestNewGiftcard(t *testing.T) {
	t.Run("issues a positive balance", func(t *testing.T) {
		card := newCard(t, 10000)

		assert.Equal(t, int64(10000), card.IssuedCents())
		assert.Equal(t, int64(10000), card.BalanceCents())
		assert.Equal(t, int64(10000), card.SpendableCents(now))
	})

	t.Run("non-positive amounts are rejected", func(t *testing.T) {
		_, err := giftcard.NewGiftcard("GIFT", 0, now)
		require.ErrorIs(t, err, giftcard.ErrInvalidAmount)

		_, err = giftcard.NewGiftcard("GIFT", -100, now)
		require.ErrorIs(t, err, giftcard.ErrInvalidAmount)
	})
}

func TestCreateHold(t *testing.T) {
	t.Run("hold reduces spendable but not balance", func(t *testing.T) {
		card := newCard(t, 10000)

		hold, err := card.CreateHold(3000, now, holdTTL)

		require.NoError(t, err)
		assert.Equal(t, int64(3000), hold.AmountCents)
		assert.Equal(t, giftcard.HoldActive, hold.Status)
		assert.Equal(t, now.Add(holdTTL), hold.ExpiresAt)
		assert.Equal(t, int64(10000), card.BalanceCents())
		assert.Equal(t, int64(7000), card.SpendableCents(now))
	})

	t.Run("holds cannot oversubscribe the spendable balance", func(t *testing.T) {
		card := newCard(t, 10000)
		_, err := card.CreateHold(8000, now, holdTTL)
		require.NoError(t, err)

		_, err = card.CreateHold(3000, now, holdTTL)

		require.ErrorIs(t, err, giftcard.ErrInsufficientBalance)
	})

	t.Run("non-positive hold amount is rejected", func(t *testing.T) {
		card := newCard(t, 10000)

		_, err := card.CreateHold(0, now, holdTTL)

		require.ErrorIs(t, err, giftcard.ErrInvalidAmount)
	})

	t.Run("due holds are expired before the balance check", func(t *testing.T) {
		card := newCard(t, 10000)
		_, err := card.CreateHold(10000, now, holdTTL)
		require.NoError(t, err)

		later := now.Add(holdTTL + time.Minute)
		hold, err := card.CreateHold(10000, later, holdTTL)

		require.NoError(t, err)
		assert.Equal(t, int64(10000), hold.AmountCents)
	})
}

func TestExpireDueHolds(t *testing.T) {
	card := newCard(t, 10000)
	hold, err := card.CreateHold(4000, now, holdTTL)
	require.NoError(t, err)

	later := now.Add(holdTTL + time.Minute)
	expired := card.ExpireDueHolds(later)

	require.Len(t, expired, 1)
	assert.Equal(t, hold.ID, expired[0])
	assert.Equal(t, int64(10000), card.SpendableCents(later))

	// Idempotent: a second sweep touches nothing.
	assert.Empty(t, card.ExpireDueHolds(later))
}

func TestAttachHold(t *testing.T) {
	bookingID := uuid.New()

	t.Run("binds an active hold to its booking", func(t *testing.T) {
		card := newCard(t, 10000)
		hold, err := card.CreateHold(3000, now, holdTTL)
		require.NoError(t, err)

		require.NoError(t, card.AttachHold(hold.ID, bookingID, now))

		// Re-attaching the same booking is a no-op.
		require.NoError(t, card.AttachHold(hold.ID, bookingID, now))

		// A different booking cannot steal the hold.
		err = card.AttachHold(hold.ID, uuid.New(), now)
		require.ErrorIs(t, err, giftcard.ErrHoldAlreadyAttached)
	})

	t.Run("expired hold cannot be attached", func(t *testing.T) {
		card := newCard(t, 10000)
		hold, err := card.CreateHold(3000, now, holdTTL)
		require.NoError(t, err)

		err = card.AttachHold(hold.ID, bookingID, now.Add(holdTTL+time.Minute))

		require.ErrorIs(t, err, giftcard.ErrHoldExpired)
	})

	t.Run("unknown hold is reported", func(t *testing.T) {
		card := newCard(t, 10000)

		err := card.AttachHold(uuid.New(), bookingID, now)

		require.ErrorIs(t, err, giftcard.ErrHoldNotFound)
	})
}

func TestConsumeHold(t *testing.T) {
	bookingID := uuid.New()

	t.Run("consumption converts the hold into a redemption", func(t *testing.T) {
		card := newCard(t, 10000)
		hold, err := card.CreateHold(3000, now, holdTTL)
		require.NoError(t, err)
		require.NoError(t, card.AttachHold(hold.ID, bookingID, now))

		redemption, consumedNow, err := card.ConsumeHold(hold.ID, bookingID, now)

		require.NoError(t, err)
		assert.True(t, consumedNow)
		assert.Equal(t, int64(3000), redemption.AmountCents)
		assert.Equal(t, bookingID, redemption.BookingID)
		assert.Equal(t, int64(7000), card.BalanceCents())
		assert.Equal(t, int64(7000), card.SpendableCents(now))
		require.Len(t, card.Redemptions(), 1)
	})

	t.Run("replay for the same booking is a silent no-op", func(t *testing.T) {
		card := newCard(t, 10000)
		hold, err := card.CreateHold(3000, now, holdTTL)
		require.NoError(t, err)
		first, consumedNow, err := card.ConsumeHold(hold.ID, bookingID, now)
		require.NoError(t, err)
		require.True(t, consumedNow)

		replay, consumedNow, err := card.ConsumeHold(hold.ID, bookingID, now)

		require.NoError(t, err)
		assert.False(t, consumedNow)
		assert.Equal(t, first.ID, replay.ID)
		require.Len(t, card.Redemptions(), 1)
		assert.Equal(t, int64(7000), card.BalanceCents())
	})

	t.Run("a different booking cannot consume the hold", func(t *testing.T) {
		card := newCard(t, 10000)
		hold, err := card.CreateHold(3000, now, holdTTL)
		require.NoError(t, err)
		require.NoError(t, card.AttachHold(hold.ID, bookingID, now))

		_, _, err = card.ConsumeHold(hold.ID, uuid.New(), now)

		require.ErrorIs(t, err, giftcard.ErrHoldBookingMismatch)
	})

	t.Run("expired hold cannot be consumed", func(t *testing.T) {
		card := newCard(t, 10000)
		hold, err := card.CreateHold(3000, now, holdTTL)
		require.NoError(t, err)

		_, _, err = card.ConsumeHold(hold.ID, bookingID, now.Add(holdTTL+time.Minute))

		require.ErrorIs(t, err, giftcard.ErrHoldExpired)
	})

	t.Run("unknown hold is reported", func(t *testing.T) {
		card := newCard(t, 10000)

		_, _, err := card.ConsumeHold(uuid.New(), bookingID, now)

		require.ErrorIs(t, err, giftcard.ErrHoldNotFound)
	})
}

func TestReleaseHold(t *testing.T) {
	bookingID := uuid.New()

	t.Run("release returns the amount to the spendable balance", func(t *testing.T) {
		card := newCard(t, 10000)
		hold, err := card.CreateHold(3000, now, holdTTL)
		require.NoError(t, err)

		require.NoError(t, card.ReleaseHold(hold.ID, now))

		assert.Equal(t, int64(10000), card.SpendableCents(now))

		// Releasing again is safe.
		require.NoError(t, card.ReleaseHold(hold.ID, now))
	})

	t.Run("a consumed hold stays consumed", func(t *testing.T) {
		card := newCard(t, 10000)
		hold, err := card.CreateHold(3000, now, holdTTL)
		require.NoError(t, err)
		_, _, err = card.ConsumeHold(hold.ID, bookingID, now)
		require.NoError(t, err)

		err = card.ReleaseHold(hold.ID, now)

		require.ErrorIs(t, err, giftcard.ErrHoldNotActive)
		assert.Equal(t, int64(7000), card.BalanceCents())
	})

	t.Run("unknown hold is reported", func(t *testing.T) {
		card := newCard(t, 10000)

		err := card.ReleaseHold(uuid.New(), now)

		require.ErrorIs(t, err, giftcard.ErrHoldNotFound)
	})
}

func TestConservation(t *testing.T) {
	// Active holds plus consumed redemptions never exceed the issued amount,
	// whatever order holds are created, released and consumed in.
	card := newCard(t, 10000)

	holdA, err := card.CreateHold(6000, now, holdTTL)
	require.NoError(t, err)
	holdB, err := card.CreateHold(4000, now, holdTTL)
	require.NoError(t, err)

	_, _, err = card.ConsumeHold(holdA.ID, uuid.New(), now)
	require.NoError(t, err)
	require.NoError(t, card.ReleaseHold(holdB.ID, now))

	assert.Equal(t, int64(4000), card.BalanceCents())
	assert.Equal(t, int64(4000), card.SpendableCents(now))
	assert.LessOrEqual(t, card.ConsumedCents()+card.ActiveHoldCents(now), card.IssuedCents())
}
