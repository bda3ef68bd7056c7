package queries

import (
	"context"
	"time"

	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/infra"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/pkg/clock"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/pkg/errs"
)

type GiftcardReadStore interface {
	FindByCode(ctx context.Context, code string, now time.Time) (*GiftcardView, error)
}

// GiftcardQueries exposes a card's balance split into balance (issued minus
// consumed) and spendable (balance minus active holds).
type GiftcardQueries interface {
	GetByCode(ctx context.Context, code string) (*GiftcardView, error)
}

type giftcardQueriesImpl struct {
	store GiftcardReadStore
	clock clock.Clock
}

func NewGiftcardQueries(store GiftcardReadStore, clk clock.Clock) GiftcardQueries {
	return &giftcardQueriesImpl{store: store, clock: clk}
}

func (q *giftcardQueriesImpl) GetByCode(ctx context.Context, code string) (*GiftcardView, error) {
	view, err := q.store.FindByCode(ctx, code, q.clock.Now())
	switch {
	case err == nil:
		return view, nil
	case infra.IsKind(err, infra.KindNotFound):
		return nil, errs.ErrGiftcardNotFound
	default:
		return nil, errs.Mark(err, errs.ErrTransientStore)
	}
}
