//go:build unit

package queries_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/infra"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/pkg/clock"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/pkg/errs"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGiftcardStore struct {
	view    *queries.GiftcardView
	err     error
	gotNow  time.Time
	gotCode string
}

func (s *stubGiftcardStore) FindByCode(_ context.Context, code string, now time.Time) (*queries.GiftcardView, error) {
	s.gotCode = code
	s.gotNow = now
	return s.view, s.err
}

func TestGiftcardQueries(t *testing.T) {
	ctx := context.Background()

	t.Run("balance view passes through with the current cutoff", func(t *testing.T) {
		view := &queries.GiftcardView{
			ID:             uuid.New(),
			Code:           "GIFT-2025-0001",
			IssuedCents:    10000,
			BalanceCents:   7000,
			SpendableCents: 4000,
		}
		store := &stubGiftcardStore{view: view}
		svc := queries.NewGiftcardQueries(store, clock.NewMockClock(baseNow))

		got, err := svc.GetByCode(ctx, view.Code)

		require.NoError(t, err)
		assert.Equal(t, view, got)
		assert.Equal(t, view.Code, store.gotCode)
		assert.Equal(t, baseNow, store.gotNow) // hold expiry is judged against now
	})

	t.Run("missing card maps to the not-found sentinel", func(t *testing.T) {
		store := &stubGiftcardStore{err: infra.WrapRepoErr("gift card not found", errors.New("no rows"), infra.KindNotFound)}
		svc := queries.NewGiftcardQueries(store, clock.NewMockClock(baseNow))

		_, err := svc.GetByCode(ctx, "NO-SUCH-CARD")

		require.ErrorIs(t, err, errs.ErrGiftcardNotFound)
	})

	t.Run("store failures surface as transient", func(t *testing.T) {
		store := &stubGiftcardStore{err: infra.WrapRepoErr("query failed", errors.New("connection refused"))}
		svc := queries.NewGiftcardQueries(store, clock.NewMockClock(baseNow))

		_, err := svc.GetByCode(ctx, "GIFT-2025-0001")

		require.ErrorIs(t, err, errs.ErrTransientStore)
	})
}
