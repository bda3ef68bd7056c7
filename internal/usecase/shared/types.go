package shared

import (
	"context"
	"time"

	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/domain/availability"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/domain/product"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/domain/schedule"

	"github.com/google/uuid"
)

// CommandReads are the validation reads the write side needs. Tx.Reads()
// returns the same interface bound to the transaction, so the availability
// recheck before a booking insert sees the locked, current ledger.
type CommandReads interface {
	ProductByID(ctx context.Context, id uuid.UUID) (*ProductSnapshot, error)
	Schedule(ctx context.Context) (*ScheduleSnapshot, error)
	Ledger(ctx context.Context, q LedgerQuery) ([]availability.LedgerEntry, error)
	BookingIDByCode(ctx context.Context, code string) (uuid.UUID, error)
}

// ProductSnapshot is the minimal read model for command validation.
type ProductSnapshot struct {
	ID           uuid.UUID
	Name         string
	Kind         string
	PriceCents   int64
	SessionCount int
	UnitSize     int
	Technique    schedule.Technique
}

// ToDomain rebuilds the closed product variant, rejecting unknown kinds.
func (s *ProductSnapshot) ToDomain() (*product.Product, error) {
	return product.NewProduct(s.ID, s.Name, product.Kind(s.Kind), s.PriceCents, s.SessionCount, s.UnitSize, s.Technique)
}

type ScheduleSnapshot struct {
	Rules     []schedule.RecurringRule
	Overrides []schedule.Override
}

// LedgerQuery scopes a consumption read. Keys narrows to specific slots (the
// submission recheck); FromDate/ToDate bound a display range. Now feeds the
// lazy-expiry cutoff: pre-reservations past their expiry no longer count.
type LedgerQuery struct {
	Now       time.Time
	FromDate  string
	ToDate    string
	Technique schedule.Technique
	Keys      []schedule.SlotKey
}
