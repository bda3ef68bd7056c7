package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)

type EnrichedSlotView struct {
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	InstructorID uuid.UUID `json:"instructor_id"`
	Technique    string    `json:"technique,omitempty"`
	PaidCount    int       `json:"paid_bookings_count"`
	TotalCount   int       `json:"total_bookings_count"`
	MaxCapacity  int       `json:"max_capacity"`
	Available    int       `json:"available"`
	IsAvailable  bool      `json:"is_available"`
}

// AvailabilityResult carries the enriched slots plus the fail-closed marker:
// when the ledger could not be loaded every slot renders as fully booked and
// Degraded is true so the caller can retry later.
type AvailabilityResult struct {
	Slots    []EnrichedSlotView `json:"slots"`
	Degraded bool               `json:"degraded"`
}

type SlotView struct {
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	InstructorID uuid.UUID `json:"instructorId"`
}

type PaymentView struct {
	ID                  uuid.UUID  `json:"id"`
	AmountCents         int64      `json:"amount_cents"`
	Method              string     `json:"method"`
	ReceivedAt          time.Time  `json:"received_at"`
	GiftcardID          *uuid.UUID `json:"giftcard_id,omitempty"`
	GiftcardAmountCents *int64     `json:"giftcard_amount_cents,omitempty"`
}

type BookingView struct {
	ID                    uuid.UUID     `json:"id"`
	BookingCode           string        `json:"booking_code"`
	ProductID             uuid.UUID     `json:"product_id"`
	ProductKind           string        `json:"product_kind"`
	Mode                  string        `json:"mode"`
	Slots                 []SlotView    `json:"slots"`
	CustomerName          string        `json:"customer_name"`
	CustomerEmail         string        `json:"customer_email"`
	Status                string        `json:"status"`
	IsPaid                bool          `json:"is_paid"`
	PriceCents            int64         `json:"price_cents"`
	PendingBalanceCents   int64         `json:"pending_balance_cents"`
	Payments              []PaymentView `json:"payments"`
	GiftcardHoldID        *uuid.UUID    `json:"giftcard_hold_id,omitempty"`
	GiftcardRedeemedCents int64         `json:"giftcard_redeemed_cents"`
	AcceptedNoRefund      bool          `json:"accepted_no_refund"`
	CreatedAt             time.Time     `json:"created_at"`
	ExpiresAt             *time.Time    `json:"expires_at,omitempty"`
}

type GiftcardView struct {
	ID             uuid.UUID `json:"id"`
	Code           string    `json:"code"`
	IssuedCents    int64     `json:"issued_cents"`
	BalanceCents   int64     `json:"balance_cents"`
	SpendableCents int64     `json:"spendable_cents"`
}

type RecurringRuleView struct {
	ID           uuid.UUID `json:"id"`
	DayOfWeek    int       `json:"day_of_week"`
	Time         string    `json:"time"`
	InstructorID uuid.UUID `json:"instructor_id"`
	Capacity     int       `json:"capacity"`
	Technique    string    `json:"technique,omitempty"`
}

type OverrideView struct {
	Date           string         `json:"date"`
	Blocked        bool           `json:"blocked"`
	CapacityByTime map[string]int `json:"capacity_by_time,omitempty"`
}
