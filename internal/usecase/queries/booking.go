package queries

import (
	"context"

	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/infra"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/pkg/errs"

	"github.com/google/uuid"
)

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindByCode(ctx context.Context, code string) (*BookingView, error)
}

type BookingQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	// GetByCode backs the "resume saved booking" flow. The client-held code
	// is treated purely as a lookup key; everything about the booking is
	// re-derived server-side.
	GetByCode(ctx context.Context, code string) (*BookingView, error)
}

type bookingQueriesImpl struct {
	store BookingReadStore
}

func NewBookingQueries(store BookingReadStore) BookingQueries {
	return &bookingQueriesImpl{store: store}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	view, err := q.store.FindByID(ctx, id)
	return view, mapBookingReadErr(err)
}

func (q *bookingQueriesImpl) GetByCode(ctx context.Context, code string) (*BookingView, error) {
	view, err := q.store.FindByCode(ctx, code)
	return view, mapBookingReadErr(err)
}

func mapBookingReadErr(err error) error {
	switch {
	case err == nil:
		return nil
	case infra.IsKind(err, infra.KindNotFound):
		return errs.ErrBookingNotFound
	default:
		return errs.Mark(err, errs.ErrTransientStore)
	}
}
