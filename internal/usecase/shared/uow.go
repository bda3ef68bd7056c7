package shared

import (
	"context"
	"time"

	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/domain/booking"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/domain/giftcard"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/domain/schedule"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, reads CommandReads) error) error
	// CommandReads: direct access to command reads outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Bookings() BookingRepository
	Giftcards() GiftcardRepository
	Notifications() NotificationRepository
	Reads() CommandReads
	// LockSlots serializes capacity check-then-act per slot identity for the
	// duration of the transaction. Keys are locked in sorted order to avoid
	// deadlocks between competing submissions.
	LockSlots(ctx context.Context, keys []schedule.SlotKey) error
}

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) error
	// GetForUpdate loads the full aggregate with its row locked until the
	// surrounding transaction ends.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	// UpdateState persists status, paid flag, gift card linkage, cancel
	// reason and expiry. Payments are mutated through their own methods.
	UpdateState(ctx context.Context, b *booking.Booking) error
	InsertPayment(ctx context.Context, bookingID uuid.UUID, p booking.PaymentDetail) error
	// DeletePayment removes a payment record and writes the audit trail row
	// carrying the mandatory reason.
	DeletePayment(ctx context.Context, bookingID, paymentID uuid.UUID, reason string) error
	// SweepDue conditionally expires due pre-reservations and reports what
	// it touched; safe to run concurrently with live bookings.
	SweepDue(ctx context.Context, now time.Time, limit int) ([]ExpiredBooking, error)
}

type GiftcardRepository interface {
	// GetByCodeForUpdate loads the card with holds and redemptions, the
	// card row locked: hold creation/consumption is serialized per card.
	GetByCodeForUpdate(ctx context.Context, code string) (*giftcard.Giftcard, error)
	GetByHoldForUpdate(ctx context.Context, holdID uuid.UUID) (*giftcard.Giftcard, error)
	InsertHold(ctx context.Context, h giftcard.Hold) error
	UpdateHold(ctx context.Context, h giftcard.Hold) error
	InsertRedemption(ctx context.Context, r giftcard.Redemption) error
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error
}

type ExpiredBooking struct {
	BookingID      uuid.UUID
	GiftcardHoldID *uuid.UUID
}
