// Package product models the closed set of sellable class variants. The
// original catalog grew by duck-typed string checks scattered across the
// flows; here every capability is an exhaustive switch over Kind so adding a
// variant is a compile-time exercise.
package product

import (
	"errors"

	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/domain/schedule"

	"github.com/google/uuid"
)

var (
	ErrUnknownKind        = errors.New("unknown product kind")
	ErrInvalidPrice       = errors.New("price cannot be negative")
	ErrInvalidSessions    = errors.New("session count must be positive")
	ErrInvalidUnitSize    = errors.New("unit size must be positive")
	ErrUnitSizeNotAllowed = errors.New("unit size only applies to group experiences")
)

type Kind string

const (
	KindSingleClass     Kind = "single_class"
	KindClassPackage    Kind = "class_package"
	KindSubscription    Kind = "subscription"
	KindGroupExperience Kind = "group_experience"
)

func (k Kind) IsValid() bool {
	switch k {
	case KindSingleClass, KindClassPackage, KindSubscription, KindGroupExperience:
		return true
	default:
		return false
	}
}

// Subscriptions always cover 4 consecutive weeks.
const subscriptionSessions = 4

type Product struct {
	id           uuid.UUID
	name         string
	kind         Kind
	priceCents   int64
	sessionCount int
	unitSize     int
	technique    schedule.Technique
}

func NewProduct(id uuid.UUID, name string, kind Kind, priceCents int64, sessionCount, unitSize int, technique schedule.Technique) (*Product, error) {
	if !kind.IsValid() {
		return nil, ErrUnknownKind
	}
	if priceCents < 0 {
		return nil, ErrInvalidPrice
	}

	switch kind {
	case KindSingleClass, KindGroupExperience:
		sessionCount = 1
	case KindSubscription:
		sessionCount = subscriptionSessions
	case KindClassPackage:
		if sessionCount <= 0 {
			return nil, ErrInvalidSessions
		}
	}

	switch kind {
	case KindGroupExperience:
		if unitSize <= 0 {
			return nil, ErrInvalidUnitSize
		}
	case KindSingleClass, KindClassPackage, KindSubscription:
		if unitSize > 1 {
			return nil, ErrUnitSizeNotAllowed
		}
		unitSize = 1
	}

	return &Product{
		id:           id,
		name:         name,
		kind:         kind,
		priceCents:   priceCents,
		sessionCount: sessionCount,
		unitSize:     unitSize,
		technique:    technique,
	}, nil
}

func (p *Product) ID() uuid.UUID                 { return p.id }
func (p *Product) Name() string                  { return p.name }
func (p *Product) Kind() Kind                    { return p.kind }
func (p *Product) PriceCents() int64             { return p.priceCents }
func (p *Product) Technique() schedule.Technique { return p.technique }

// SessionCount is how many distinct slots a booking of this product owns.
func (p *Product) SessionCount() int {
	return p.sessionCount
}

// CapacityUnitSize is the number of seats one enrollment unit consumes.
// A couple's experience consumes one unit of floor(capacity/unitSize)
// regardless of how many individual seats the room has.
func (p *Product) CapacityUnitSize() int {
	switch p.kind {
	case KindGroupExperience:
		return p.unitSize
	case KindSingleClass, KindClassPackage, KindSubscription:
		return 1
	default:
		return 1
	}
}

func (p *Product) SupportsMonthlyMode() bool {
	switch p.kind {
	case KindSubscription:
		return true
	case KindSingleClass, KindClassPackage, KindGroupExperience:
		return false
	default:
		return false
	}
}

func (p *Product) SupportsFlexibleMode() bool {
	switch p.kind {
	case KindSingleClass, KindClassPackage, KindGroupExperience:
		return true
	case KindSubscription:
		return false
	default:
		return false
	}
}

// AllowsDeferredSlots reports whether a booking may be created with an empty
// slot list while the customer coordinates a date. Deferred bookings consume
// no capacity until slots are attached.
func (p *Product) AllowsDeferredSlots() bool {
	switch p.kind {
	case KindGroupExperience:
		return true
	case KindSingleClass, KindClassPackage, KindSubscription:
		return false
	default:
		return false
	}
}
