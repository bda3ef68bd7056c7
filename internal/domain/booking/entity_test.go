//go:build unit

package booking_test

import (
	"testing"
	"time"

	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/domain/booking"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/domain/schedule"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCase struct {
	name   string
	mutate func(*builder.BookingBuilder)
	errIs  error
}

func TestNewBooking(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		actual, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, booking.StatusDraft, actual.Status())
		assert.False(t, actual.IsPaid())
		assert.Nil(t, actual.ExpiresAt())
		assert.Equal(t, int64(4500), actual.PendingBalanceCents())
	})

	t.Run("mode validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "flexible mode ok",
				mutate: func(b *builder.BookingBuilder) { b.WithMode(booking.ModeFlexible) },
			},
			{
				name:   "monthly mode ok",
				mutate: func(b *builder.BookingBuilder) { b.WithMode(booking.ModeMonthly) },
			},
			{
				name:   "unknown mode rejected",
				mutate: func(b *builder.BookingBuilder) { b.WithMode("weekly") },
				errIs:  booking.ErrInvalidMode,
			},
		})
	})

	t.Run("customer validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "name only ok",
				mutate: func(b *builder.BookingBuilder) { b.WithCustomer("Maria Perez", "") },
			},
			{
				name:   "email only ok",
				mutate: func(b *builder.BookingBuilder) { b.WithCustomer("", "maria@example.com") },
			},
			{
				name:   "neither name nor email rejected",
				mutate: func(b *builder.BookingBuilder) { b.WithCustomer("  ", "") },
				errIs:  booking.ErrCustomerRequired,
			},
		})
	})

	t.Run("price and slot validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "zero price ok",
				mutate: func(b *builder.BookingBuilder) { b.WithPrice(0) },
			},
			{
				name:   "negative price rejected",
				mutate: func(b *builder.BookingBuilder) { b.WithPrice(-1) },
				errIs:  booking.ErrNegativePrice,
			},
			{
				name:   "empty slot list ok",
				mutate: func(b *builder.BookingBuilder) { b.WithoutSlots() },
			},
			{
				name: "malformed slot date rejected",
				mutate: func(b *builder.BookingBuilder) {
					b.WithSlots([]booking.SlotRef{{Date: "03/10/2025", Time: "10:00"}})
				},
				errIs: schedule.ErrInvalidDate,
			},
		})
	})
}

func TestBookingLifecycle(t *testing.T) {
	now := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

	t.Run("pre-reserve stamps the expiry", func(t *testing.T) {
		entity, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)

		expiresAt := now.Add(24 * time.Hour)
		require.NoError(t, entity.PreReserve(expiresAt, now))

		assert.Equal(t, booking.StatusPreReserved, entity.Status())
		require.NotNil(t, entity.ExpiresAt())
		assert.Equal(t, expiresAt, *entity.ExpiresAt())
	})

	t.Run("pre-reserve twice is rejected", func(t *testing.T) {
		entity, err := builder.NewBookingBuilder().BuildPreReserved()
		require.NoError(t, err)

		err = entity.PreReserve(now.Add(time.Hour), now)

		require.ErrorIs(t, err, booking.ErrNotDraft)
	})

	t.Run("payments only land on a live booking", func(t *testing.T) {
		entity, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)

		err = entity.AppendPayment(cashPayment(4500), now)

		require.ErrorIs(t, err, booking.ErrNotPreReserved)
	})

	t.Run("confirm without payments is rejected", func(t *testing.T) {
		entity, err := builder.NewBookingBuilder().BuildPreReserved()
		require.NoError(t, err)

		err = entity.ConfirmPaid(now)

		require.ErrorIs(t, err, booking.ErrNoPayments)
	})

	t.Run("full payment confirms the booking", func(t *testing.T) {
		entity, err := builder.NewBookingBuilder().BuildPreReserved()
		require.NoError(t, err)

		require.NoError(t, entity.AppendPayment(cashPayment(4500), now))
		require.NoError(t, entity.ConfirmPaid(now))

		assert.Equal(t, booking.StatusPaid, entity.Status())
		assert.True(t, entity.IsPaid())
		assert.Equal(t, int64(0), entity.PendingBalanceCents())

		// Confirming again is a no-op.
		require.NoError(t, entity.ConfirmPaid(now))
	})

	t.Run("payment validation", func(t *testing.T) {
		entity, err := builder.NewBookingBuilder().BuildPreReserved()
		require.NoError(t, err)

		require.ErrorIs(t, entity.AppendPayment(cashPayment(0), now), booking.ErrInvalidAmount)
		require.ErrorIs(t, entity.AppendPayment(cashPayment(-100), now), booking.ErrInvalidAmount)

		bad := cashPayment(100)
		bad.Method = "bitcoin"
		require.ErrorIs(t, entity.AppendPayment(bad, now), booking.ErrInvalidMethod)
	})

	t.Run("gift card payments track the redeemed total", func(t *testing.T) {
		entity, err := builder.NewBookingBuilder().BuildPreReserved()
		require.NoError(t, err)

		gift := cashPayment(2000)
		gift.Method = booking.MethodGiftcard
		require.NoError(t, entity.AppendPayment(gift, now))

		assert.Equal(t, int64(2000), entity.GiftcardRedeemedCents())

		_, err = entity.RemovePayment(gift.ID, "staff correction", now)
		require.NoError(t, err)
		assert.Equal(t, int64(0), entity.GiftcardRedeemedCents())
	})

	t.Run("removing a payment reverts paid to pre-reserved", func(t *testing.T) {
		entity, err := builder.NewBookingBuilder().BuildPreReserved()
		require.NoError(t, err)
		payment := cashPayment(4500)
		require.NoError(t, entity.AppendPayment(payment, now))
		require.NoError(t, entity.ConfirmPaid(now))

		removed, err := entity.RemovePayment(payment.ID, "charged twice", now)

		require.NoError(t, err)
		assert.Equal(t, payment.ID, removed.ID)
		assert.Equal(t, booking.StatusPreReserved, entity.Status())
		assert.False(t, entity.IsPaid())
		assert.Equal(t, int64(4500), entity.PendingBalanceCents())
	})

	t.Run("payment removal is audited", func(t *testing.T) {
		entity, err := builder.NewBookingBuilder().BuildPreReserved()
		require.NoError(t, err)
		payment := cashPayment(4500)
		require.NoError(t, entity.AppendPayment(payment, now))

		_, err = entity.RemovePayment(payment.ID, "  ", now)
		require.ErrorIs(t, err, booking.ErrNoReason)

		_, err = entity.RemovePayment(uuid.New(), "unknown id", now)
		require.ErrorIs(t, err, booking.ErrPaymentMissing)
	})

	t.Run("expiry is due-gated and idempotent", func(t *testing.T) {
		entity, err := builder.NewBookingBuilder().BuildPreReserved()
		require.NoError(t, err)

		require.ErrorIs(t, entity.Expire(now), booking.ErrNotDue)

		later := now.Add(25 * time.Hour)
		require.NoError(t, entity.Expire(later))
		assert.Equal(t, booking.StatusExpired, entity.Status())

		// Lazy expiry and the sweeper may race; the second hit is a no-op.
		require.NoError(t, entity.Expire(later))
	})

	t.Run("paid bookings never expire", func(t *testing.T) {
		entity, err := builder.NewBookingBuilder().BuildPreReserved()
		require.NoError(t, err)
		require.NoError(t, entity.AppendPayment(cashPayment(4500), now))
		require.NoError(t, entity.ConfirmPaid(now))

		err = entity.Expire(now.Add(48 * time.Hour))

		require.ErrorIs(t, err, booking.ErrNotPreReserved)
		assert.False(t, entity.IsDue(now.Add(48*time.Hour)))
	})

	t.Run("a recorded payment blocks automatic expiry", func(t *testing.T) {
		entity, err := builder.NewBookingBuilder().BuildPreReserved()
		require.NoError(t, err)
		require.NoError(t, entity.AppendPayment(cashPayment(2000), now))

		later := now.Add(25 * time.Hour)
		assert.False(t, entity.IsDue(later))
		require.ErrorIs(t, entity.Expire(later), booking.ErrNotDue)
		assert.Equal(t, booking.StatusPreReserved, entity.Status())
		assert.True(t, entity.ConsumesCapacity(later))
	})

	t.Run("cancellation requires a reason", func(t *testing.T) {
		entity, err := builder.NewBookingBuilder().BuildPreReserved()
		require.NoError(t, err)

		require.ErrorIs(t, entity.Cancel("", now), booking.ErrNoReason)

		require.NoError(t, entity.Cancel("customer request", now))
		assert.Equal(t, booking.StatusCancelled, entity.Status())
		require.NotNil(t, entity.CancelReason())
		assert.Equal(t, "customer request", *entity.CancelReason())

		require.ErrorIs(t, entity.Cancel("again", now), booking.ErrTerminalState)
	})

	t.Run("a hold attaches exactly once", func(t *testing.T) {
		entity, err := builder.NewBookingBuilder().BuildPreReserved()
		require.NoError(t, err)

		holdID := uuid.New()
		require.NoError(t, entity.AttachGiftcardHold(holdID, now))
		require.NotNil(t, entity.GiftcardHoldID())
		assert.Equal(t, holdID, *entity.GiftcardHoldID())

		err = entity.AttachGiftcardHold(uuid.New(), now)
		require.ErrorIs(t, err, booking.ErrHoldAlreadyAttached)
	})

	t.Run("capacity consumption follows the lifecycle", func(t *testing.T) {
		entity, err := builder.NewBookingBuilder().BuildPreReserved()
		require.NoError(t, err)

		assert.True(t, entity.ConsumesCapacity(now))
		assert.False(t, entity.ConsumesCapacity(now.Add(25*time.Hour))) // due, not yet swept

		require.NoError(t, entity.AppendPayment(cashPayment(4500), now))
		require.NoError(t, entity.ConfirmPaid(now))
		assert.True(t, entity.ConsumesCapacity(now.Add(48*time.Hour)))
	})
}

func cashPayment(amountCents int64) booking.PaymentDetail {
	return booking.PaymentDetail{
		ID:          uuid.New(),
		AmountCents: amountCents,
		Method:      booking.MethodCash,
		ReceivedAt:  time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC),
	}
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			actual, err := builder.NewBookingBuilder().With(c.mutate).BuildDomain()

			if c.errIs == nil {
				require.NotNil(t, actual)
				require.NoError(t, err)
			} else {
				require.Nil(t, actual)
				require.Error(t, err)
				require.ErrorIs(t, err, c.errIs)
			}
		})
	}
}
