package booking

import (
	"time"

	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/domain/schedule"

	"github.com/google/uuid"
)

// Mode is chosen once per booking and immutable afterward.
type Mode string

const (
	// ModeFlexible: N distinct slots freely chosen inside a rolling window
	// anchored to the first pick.
	ModeFlexible Mode = "flexible"
	// ModeMonthly: 4 consecutive same-weekday/time slots, all-or-nothing.
	ModeMonthly Mode = "monthly"
)

func (m Mode) IsValid() bool {
	switch m {
	case ModeFlexible, ModeMonthly:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusDraft       Status = "draft"
	StatusPreReserved Status = "pre_reserved"
	StatusPaid        Status = "paid"
	StatusExpired     Status = "expired"
	StatusCancelled   Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPreReserved, StatusPaid, StatusExpired, StatusCancelled:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	switch s {
	case StatusPaid, StatusExpired, StatusCancelled:
		return true
	default:
		return false
	}
}

// SlotRef is the persisted shape of one owned slot. Dates are UTC calendar
// dates so client and server agree on the no-refund boundary.
type SlotRef struct {
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	InstructorID uuid.UUID `json:"instructorId"`
}

func (r SlotRef) Key(technique schedule.Technique) schedule.SlotKey {
	return schedule.SlotKey{Date: r.Date, Time: r.Time, Technique: technique}
}

func (r SlotRef) StartAt() (time.Time, error) {
	return schedule.StartAt(r.Date, r.Time)
}

func (r SlotRef) Validate() error {
	if err := schedule.ValidateDate(r.Date); err != nil {
		return err
	}
	return schedule.ValidateTime(r.Time)
}

type PaymentMethod string

const (
	MethodCash     PaymentMethod = "cash"
	MethodTransfer PaymentMethod = "transfer"
	MethodCard     PaymentMethod = "card"
	MethodGiftcard PaymentMethod = "giftcard"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodCash, MethodTransfer, MethodCard, MethodGiftcard:
		return true
	default:
		return false
	}
}

// PaymentDetail is an append-only record inside a Booking. Deletion is an
// explicit, audited action; there are no silent overwrites.
type PaymentDetail struct {
	ID                  uuid.UUID
	AmountCents         int64
	Method              PaymentMethod
	ReceivedAt          time.Time
	GiftcardID          *uuid.UUID
	GiftcardAmountCents *int64
}

type CustomerInfo struct {
	Name  string
	Email string
	Phone string
}
