package booking

import (
	"errors"
	"strings"
	"time"

	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/domain/product"

	"github.com/google/uuid"
)

var (
	ErrInvalidMode         = errors.New("invalid booking mode")
	ErrNegativePrice       = errors.New("price cannot be negative")
	ErrCustomerRequired    = errors.New("customer name or email required")
	ErrNotDraft            = errors.New("booking already left draft state")
	ErrNotPreReserved      = errors.New("booking is not pre-reserved")
	ErrTerminalState       = errors.New("booking is in a terminal state")
	ErrHoldAlreadyAttached = errors.New("a gift card hold is already attached")
	ErrNoPayments          = errors.New("cannot confirm without a payment")
	ErrInvalidAmount       = errors.New("payment amount must be positive")
	ErrInvalidMethod       = errors.New("invalid payment method")
	ErrPaymentMissing      = errors.New("payment detail not found")
	ErrNoReason            = errors.New("a reason is required")
	ErrNotDue              = errors.New("booking has not reached its expiry")
)

// Booking owns its slot list; slots are never shared across bookings except
// through the capacity units they consume. An empty slot list is the
// date-to-be-coordinated case and consumes nothing.
type Booking struct {
	id                    uuid.UUID
	bookingCode           string
	productID             uuid.UUID
	productKind           product.Kind
	mode                  Mode
	slots                 []SlotRef
	customer              CustomerInfo
	status                Status
	isPaid                bool
	priceCents            int64
	payments              []PaymentDetail
	giftcardHoldID        *uuid.UUID
	giftcardRedeemedCents int64
	acceptedNoRefund      bool
	cancelReason          *string
	createdAt             time.Time
	updatedAt             time.Time
	expiresAt             *time.Time
}

func NewBooking(
	code string,
	productID uuid.UUID,
	productKind product.Kind,
	mode Mode,
	slots []SlotRef,
	customer CustomerInfo,
	priceCents int64,
	acceptedNoRefund bool,
	now time.Time,
) (*Booking, error) {
	if !mode.IsValid() {
		return nil, ErrInvalidMode
	}
	if priceCents < 0 {
		return nil, ErrNegativePrice
	}
	if strings.TrimSpace(customer.Name) == "" && strings.TrimSpace(customer.Email) == "" {
		return nil, ErrCustomerRequired
	}
	for _, slot := range slots {
		if err := slot.Validate(); err != nil {
			return nil, err
		}
	}

	return &Booking{
		id:               uuid.New(),
		bookingCode:      code,
		productID:        productID,
		productKind:      productKind,
		mode:             mode,
		slots:            slots,
		customer:         customer,
		status:           StatusDraft,
		priceCents:       priceCents,
		acceptedNoRefund: acceptedNoRefund,
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

func Reconstruct(
	id uuid.UUID,
	code string,
	productID uuid.UUID,
	productKind product.Kind,
	mode Mode,
	slots []SlotRef,
	customer CustomerInfo,
	status Status,
	isPaid bool,
	priceCents int64,
	payments []PaymentDetail,
	giftcardHoldID *uuid.UUID,
	giftcardRedeemedCents int64,
	acceptedNoRefund bool,
	cancelReason *string,
	createdAt, updatedAt time.Time,
	expiresAt *time.Time,
) *Booking {
	return &Booking{
		id:                    id,
		bookingCode:           code,
		productID:             productID,
		productKind:           productKind,
		mode:                  mode,
		slots:                 slots,
		customer:              customer,
		status:                status,
		isPaid:                isPaid,
		priceCents:            priceCents,
		payments:              payments,
		giftcardHoldID:        giftcardHoldID,
		giftcardRedeemedCents: giftcardRedeemedCents,
		acceptedNoRefund:      acceptedNoRefund,
		cancelReason:          cancelReason,
		createdAt:             createdAt,
		updatedAt:             updatedAt,
		expiresAt:             expiresAt,
	}
}

// PreReserve moves draft → pre_reserved and stamps the expiry that protects
// slot capacity from abandoned carts.
func (b *Booking) PreReserve(expiresAt time.Time, now time.Time) error {
	if b.status != StatusDraft {
		return ErrNotDraft
	}
	b.status = StatusPreReserved
	b.expiresAt = &expiresAt
	b.updatedAt = now
	return nil
}

func (b *Booking) AttachGiftcardHold(holdID uuid.UUID, now time.Time) error {
	if b.status.IsTerminal() {
		return ErrTerminalState
	}
	if b.giftcardHoldID != nil {
		return ErrHoldAlreadyAttached
	}
	id := holdID
	b.giftcardHoldID = &id
	b.updatedAt = now
	return nil
}

func (b *Booking) AppendPayment(p PaymentDetail, now time.Time) error {
	if b.status != StatusPreReserved && b.status != StatusPaid {
		if b.status.IsTerminal() {
			return ErrTerminalState
		}
		return ErrNotPreReserved
	}
	if p.AmountCents <= 0 {
		return ErrInvalidAmount
	}
	if !p.Method.IsValid() {
		return ErrInvalidMethod
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	b.payments = append(b.payments, p)
	if p.Method == MethodGiftcard {
		b.giftcardRedeemedCents += p.AmountCents
	}
	b.updatedAt = now
	return nil
}

// ConfirmPaid flips the booking to paid. The gift-card hold consumption, if
// any, happens in the same transaction as this transition.
func (b *Booking) ConfirmPaid(now time.Time) error {
	if b.status == StatusPaid {
		return nil
	}
	if b.status != StatusPreReserved {
		return ErrNotPreReserved
	}
	if len(b.payments) == 0 {
		return ErrNoPayments
	}
	b.status = StatusPaid
	b.isPaid = true
	b.updatedAt = now
	return nil
}

// RemovePayment deletes a payment record. Audited: the reason is mandatory
// and travels with the mutation. Removing enough payments from a paid
// booking reverts it to pre_reserved.
func (b *Booking) RemovePayment(paymentID uuid.UUID, reason string, now time.Time) (PaymentDetail, error) {
	if strings.TrimSpace(reason) == "" {
		return PaymentDetail{}, ErrNoReason
	}
	if b.status == StatusExpired || b.status == StatusCancelled {
		return PaymentDetail{}, ErrTerminalState
	}
	for i, p := range b.payments {
		if p.ID != paymentID {
			continue
		}
		b.payments = append(b.payments[:i], b.payments[i+1:]...)
		if p.Method == MethodGiftcard {
			b.giftcardRedeemedCents -= p.AmountCents
		}
		if b.status == StatusPaid && b.PendingBalanceCents() > 0 {
			b.status = StatusPreReserved
			b.isPaid = false
		}
		b.updatedAt = now
		return p, nil
	}
	return PaymentDetail{}, ErrPaymentMissing
}

// Expire moves a due pre_reserved booking to expired. Idempotent: expiring
// an already-expired booking is a no-op so lazy expiry and the sweeper can
// race safely.
func (b *Booking) Expire(now time.Time) error {
	if b.status == StatusExpired {
		return nil
	}
	if b.status != StatusPreReserved {
		return ErrNotPreReserved
	}
	if !b.IsDue(now) {
		return ErrNotDue
	}
	b.status = StatusExpired
	b.updatedAt = now
	return nil
}

func (b *Booking) Cancel(reason string, now time.Time) error {
	if strings.TrimSpace(reason) == "" {
		return ErrNoReason
	}
	if b.status.IsTerminal() {
		return ErrTerminalState
	}
	b.status = StatusCancelled
	b.cancelReason = &reason
	b.updatedAt = now
	return nil
}

// IsDue reports whether a pre-reservation may be reclaimed: past its expiry
// with no payment on record. Once any payment lands the booking is staff
// territory and is never expired automatically, even when a removal reverted
// it to pre_reserved after the original TTL lapsed.
func (b *Booking) IsDue(now time.Time) bool {
	return b.status == StatusPreReserved && len(b.payments) == 0 &&
		b.expiresAt != nil && now.After(*b.expiresAt)
}

func (b *Booking) PaidTotalCents() int64 {
	var total int64
	for _, p := range b.payments {
		total += p.AmountCents
	}
	return total
}

func (b *Booking) PendingBalanceCents() int64 {
	pending := b.priceCents - b.PaidTotalCents()
	if pending < 0 {
		return 0
	}
	return pending
}

// ConsumesCapacity reports whether this booking currently counts against
// slot capacity: paid, or pending but not yet expired.
func (b *Booking) ConsumesCapacity(now time.Time) bool {
	switch b.status {
	case StatusPaid:
		return true
	case StatusPreReserved:
		return !b.IsDue(now)
	default:
		return false
	}
}

func (b *Booking) ID() uuid.UUID                { return b.id }
func (b *Booking) BookingCode() string          { return b.bookingCode }
func (b *Booking) ProductID() uuid.UUID         { return b.productID }
func (b *Booking) ProductKind() product.Kind    { return b.productKind }
func (b *Booking) Mode() Mode                   { return b.mode }
func (b *Booking) Slots() []SlotRef             { return b.slots }
func (b *Booking) Customer() CustomerInfo       { return b.customer }
func (b *Booking) Status() Status               { return b.status }
func (b *Booking) IsPaid() bool                 { return b.isPaid }
func (b *Booking) PriceCents() int64            { return b.priceCents }
func (b *Booking) Payments() []PaymentDetail    { return b.payments }
func (b *Booking) GiftcardHoldID() *uuid.UUID   { return b.giftcardHoldID }
func (b *Booking) GiftcardRedeemedCents() int64 { return b.giftcardRedeemedCents }
func (b *Booking) AcceptedNoRefund() bool       { return b.acceptedNoRefund }
func (b *Booking) CancelReason() *string        { return b.cancelReason }
func (b *Booking) CreatedAt() time.Time         { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time         { return b.updatedAt }
func (b *Booking) ExpiresAt() *time.Time        { return b.expiresAt }
