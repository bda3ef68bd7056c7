//go:build unit || e2e

package builder

import (
	"time"

	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/domain/booking"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/domain/product"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	Code             string
	ProductID        uuid.UUID
	ProductKind      product.Kind
	Mode             booking.Mode
	Slots            []booking.SlotRef
	CustomerName     string
	CustomerEmail    string
	CustomerPhone    string
	PriceCents       int64
	AcceptedNoRefund bool
	Now              time.Time
	PreReserveTTL    time.Duration
}

func NewBookingBuilder() *BookingBuilder {
	return &BookingBuilder{
		Code:        "K7PMQ2RD",
		ProductID:   uuid.New(),
		ProductKind: product.KindSingleClass,
		Mode:        booking.ModeFlexible,
		Slots: []booking.SlotRef{
			{Date: "2025-03-10", Time: "10:00", InstructorID: uuid.New()},
		},
		CustomerName:  "Maria Perez",
		CustomerEmail: "maria@example.com",
		PriceCents:    4500,
		Now:           time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC),
		PreReserveTTL: 24 * time.Hour,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *BookingBuilder) BuildDomain() (*booking.Booking, error) {
	return booking.NewBooking(
		b.Code,
		b.ProductID,
		b.ProductKind,
		b.Mode,
		b.Slots,
		booking.CustomerInfo{Name: b.CustomerName, Email: b.CustomerEmail, Phone: b.CustomerPhone},
		b.PriceCents,
		b.AcceptedNoRefund,
		b.Now,
	)
}

// BuildPreReserved builds the booking and moves it to pre_reserved with the
// builder's TTL, the state most lifecycle tests start from.
func (b *BookingBuilder) BuildPreReserved() (*booking.Booking, error) {
	entity, err := b.BuildDomain()
	if err != nil {
		return nil, err
	}
	if err := entity.PreReserve(b.Now.Add(b.PreReserveTTL), b.Now); err != nil {
		return nil, err
	}
	return entity, nil
}

// Fluent builder methods
func (b *BookingBuilder) WithMode(mode booking.Mode) *BookingBuilder {
	b.Mode = mode
	return b
}

func (b *BookingBuilder) WithKind(kind product.Kind) *BookingBuilder {
	b.ProductKind = kind
	return b
}

func (b *BookingBuilder) WithSlots(slots []booking.SlotRef) *BookingBuilder {
	b.Slots = slots
	return b
}

func (b *BookingBuilder) WithoutSlots() *BookingBuilder {
	b.Slots = nil
	return b
}

func (b *BookingBuilder) WithCustomer(name, email string) *BookingBuilder {
	b.CustomerName = name
	b.CustomerEmail = email
	return b
}

func (b *BookingBuilder) WithPrice(cents int64) *BookingBuilder {
	b.PriceCents = cents
	return b
}

func (b *BookingBuilder) WithNoRefundAccepted() *BookingBuilder {
	b.AcceptedNoRefund = true
	return b
}

func (b *BookingBuilder) WithNow(now time.Time) *BookingBuilder {
	b.Now = now
	return b
}

func (b *BookingBuilder) WithPreReserveTTL(ttl time.Duration) *BookingBuilder {
	b.PreReserveTTL = ttl
	return b
}
