// Package giftcard models a gift card's balance, its short-lived holds and
// its permanent redemptions. The conservation invariant is enforced here:
// active holds plus consumed redemptions never exceed the issued amount.
package giftcard

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidAmount       = errors.New("hold amount must be positive")
	ErrInsufficientBalance = errors.New("amount exceeds spendable balance")
	ErrHoldNotFound        = errors.New("hold not found")
	ErrHoldExpired         = errors.New("hold has expired")
	ErrHoldNotActive       = errors.New("hold is not active")
	ErrHoldBookingMismatch = errors.New("hold belongs to a different booking")
	ErrHoldAlreadyAttached = errors.New("hold is already attached to a booking")
	ErrConservationBreach  = errors.New("gift card conservation invariant breached")
)

type HoldStatus string

const (
	HoldActive   HoldStatus = "active"
	HoldConsumed HoldStatus = "consumed"
	HoldReleased HoldStatus = "released"
	HoldExpired  HoldStatus = "expired"
)

// Hold is a short-lived claim against the card's balance, created before
// checkout completes. BookingID is nil until a booking submission attaches
// the hold.
type Hold struct {
	ID          uuid.UUID
	GiftcardID  uuid.UUID
	AmountCents int64
	BookingID   *uuid.UUID
	Status      HoldStatus
	CreatedAt   time.Time
	ExpiresAt   time.Time
	ConsumedAt  *time.Time
}

func (h Hold) IsActive(now time.Time) bool {
	return h.Status == HoldActive && !now.After(h.ExpiresAt)
}

// Redemption is the permanent record a consumed hold becomes.
type Redemption struct {
	ID          uuid.UUID
	GiftcardID  uuid.UUID
	HoldID      uuid.UUID
	BookingID   uuid.UUID
	AmountCents int64
	RedeemedAt  time.Time
}

type Giftcard struct {
	id          uuid.UUID
	code        string
	issuedCents int64
	holds       []Hold
	redemptions []Redemption
	createdAt   time.Time
}

func NewGiftcard(code string, issuedCents int64, now time.Time) (*Giftcard, error) {
	if issuedCents <= 0 {
		return nil, ErrInvalidAmount
	}
	return &Giftcard{
		id:          uuid.New(),
		code:        code,
		issuedCents: issuedCents,
		createdAt:   now,
	}, nil
}

func Reconstruct(id uuid.UUID, code string, issuedCents int64, holds []Hold, redemptions []Redemption, createdAt time.Time) *Giftcard {
	return &Giftcard{
		id:          id,
		code:        code,
		issuedCents: issuedCents,
		holds:       holds,
		redemptions: redemptions,
		createdAt:   createdAt,
	}
}

func (g *Giftcard) ConsumedCents() int64 {
	var total int64
	for _, r := range g.redemptions {
		total += r.AmountCents
	}
	return total
}

func (g *Giftcard) ActiveHoldCents(now time.Time) int64 {
	var total int64
	for _, h := range g.holds {
		if h.IsActive(now) {
			total += h.AmountCents
		}
	}
	return total
}

// BalanceCents is issued minus consumed; holds do not reduce the balance
// until consumed, they only reduce what is spendable.
func (g *Giftcard) BalanceCents() int64 {
	return g.issuedCents - g.ConsumedCents()
}

func (g *Giftcard) SpendableCents(now time.Time) int64 {
	return g.issuedCents - g.ConsumedCents() - g.ActiveHoldCents(now)
}

// ExpireDueHolds lazily flips active holds past their expiry. Idempotent and
// safe to run concurrently with live flows; returns the ids it touched.
func (g *Giftcard) ExpireDueHolds(now time.Time) []uuid.UUID {
	var expired []uuid.UUID
	for i := range g.holds {
		h := &g.holds[i]
		if h.Status == HoldActive && now.After(h.ExpiresAt) {
			h.Status = HoldExpired
			expired = append(expired, h.ID)
		}
	}
	return expired
}

// CreateHold claims amountCents for ttl. Fails when the amount exceeds the
// spendable balance (issued - consumed - other active holds).
func (g *Giftcard) CreateHold(amountCents int64, now time.Time, ttl time.Duration) (Hold, error) {
	g.ExpireDueHolds(now)

	if amountCents <= 0 {
		return Hold{}, ErrInvalidAmount
	}
	if amountCents > g.SpendableCents(now) {
		return Hold{}, ErrInsufficientBalance
	}

	hold := Hold{
		ID:          uuid.New(),
		GiftcardID:  g.id,
		AmountCents: amountCents,
		Status:      HoldActive,
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}
	g.holds = append(g.holds, hold)
	return hold, nil
}

// AttachHold binds an active hold to the booking that will consume it.
// Attaching the same booking twice is a no-op.
func (g *Giftcard) AttachHold(holdID, bookingID uuid.UUID, now time.Time) error {
	h := g.findHold(holdID)
	if h == nil {
		return ErrHoldNotFound
	}
	if h.BookingID != nil {
		if *h.BookingID == bookingID {
			return nil
		}
		return ErrHoldAlreadyAttached
	}
	if !h.IsActive(now) {
		if h.Status == HoldActive || h.Status == HoldExpired {
			return ErrHoldExpired
		}
		return ErrHoldNotActive
	}
	id := bookingID
	h.BookingID = &id
	return nil
}

// ConsumeHold converts a hold into a permanent redemption, exactly once.
// Consuming an already-consumed hold for the same booking is a no-op
// success; for a different booking it is an error. consumedNow is false on
// the idempotent replay.
func (g *Giftcard) ConsumeHold(holdID, bookingID uuid.UUID, now time.Time) (Redemption, bool, error) {
	h := g.findHold(holdID)
	if h == nil {
		return Redemption{}, false, ErrHoldNotFound
	}

	if h.Status == HoldConsumed {
		for _, r := range g.redemptions {
			if r.HoldID == holdID {
				if r.BookingID == bookingID {
					return r, false, nil
				}
				return Redemption{}, false, ErrHoldBookingMismatch
			}
		}
		return Redemption{}, false, ErrConservationBreach
	}

	if h.Status == HoldExpired || (h.Status == HoldActive && now.After(h.ExpiresAt)) {
		h.Status = HoldExpired
		return Redemption{}, false, ErrHoldExpired
	}
	if h.Status != HoldActive {
		return Redemption{}, false, ErrHoldNotActive
	}
	if h.BookingID != nil && *h.BookingID != bookingID {
		return Redemption{}, false, ErrHoldBookingMismatch
	}

	h.Status = HoldConsumed
	consumedAt := now
	h.ConsumedAt = &consumedAt

	redemption := Redemption{
		ID:          uuid.New(),
		GiftcardID:  g.id,
		HoldID:      holdID,
		BookingID:   bookingID,
		AmountCents: h.AmountCents,
		RedeemedAt:  now,
	}
	g.redemptions = append(g.redemptions, redemption)

	if g.ConsumedCents()+g.ActiveHoldCents(now) > g.issuedCents {
		return Redemption{}, false, ErrConservationBreach
	}
	return redemption, true, nil
}

// ReleaseHold returns a hold's amount to the spendable balance. Safe to call
// multiple times; releasing a consumed hold is the only error case.
func (g *Giftcard) ReleaseHold(holdID uuid.UUID, now time.Time) error {
	h := g.findHold(holdID)
	if h == nil {
		return ErrHoldNotFound
	}
	switch h.Status {
	case HoldReleased, HoldExpired:
		return nil
	case HoldConsumed:
		return ErrHoldNotActive
	case HoldActive:
		h.Status = HoldReleased
		return nil
	default:
		return ErrHoldNotActive
	}
}

func (g *Giftcard) findHold(holdID uuid.UUID) *Hold {
	for i := range g.holds {
		if g.holds[i].ID == holdID {
			return &g.holds[i]
		}
	}
	return nil
}

func (g *Giftcard) ID() uuid.UUID             { return g.id }
func (g *Giftcard) Code() string              { return g.code }
func (g *Giftcard) IssuedCents() int64        { return g.issuedCents }
func (g *Giftcard) Holds() []Hold             { return g.holds }
func (g *Giftcard) Redemptions() []Redemption { return g.redemptions }
func (g *Giftcard) CreatedAt() time.Time      { return g.createdAt }
