package readstore

import (
	"context"
	"errors"
	"time"

	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/infra"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/infra/db"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/usecase/queries"

	"github.com/jackc/pgx/v5"
)

type GiftcardReadStore struct {
	db db.DBTX
}

func NewGiftcardReadStore(dbtx db.DBTX) *GiftcardReadStore {
	return &GiftcardReadStore{db: dbtx}
}

// FindByCode computes the balance and spendable amount in one query; the
// expiry cutoff mirrors the domain rule so a stale active hold never hides
// spendable money.
func (s *GiftcardReadStore) FindByCode(ctx context.Context, code string, now time.Time) (*queries.GiftcardView, error) {
	const query = `
		SELECT g.id, g.code, g.issued_cents,
		       g.issued_cents - COALESCE((
		           SELECT SUM(r.amount_cents) FROM giftcard_redemptions r WHERE r.giftcard_id = g.id
		       ), 0) AS balance_cents,
		       g.issued_cents - COALESCE((
		           SELECT SUM(r.amount_cents) FROM giftcard_redemptions r WHERE r.giftcard_id = g.id
		       ), 0) - COALESCE((
		           SELECT SUM(h.amount_cents) FROM giftcard_holds h
		           WHERE h.giftcard_id = g.id AND h.status = 'active' AND h.expires_at >= $2
		       ), 0) AS spendable_cents
		FROM giftcards g WHERE g.code = $1`

	var view queries.GiftcardView
	err := s.db.QueryRow(ctx, query, code, now).Scan(
		&view.ID, &view.Code, &view.IssuedCents, &view.BalanceCents, &view.SpendableCents,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("gift card not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find gift card by code", err)
	}
	return &view, nil
}
