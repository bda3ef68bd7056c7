package readstore

import (
	"context"
	"errors"

	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/domain/schedule"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/infra"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/infra/db"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ProductReadStore struct {
	db db.DBTX
}

func NewProductReadStore(dbtx db.DBTX) *ProductReadStore {
	return &ProductReadStore{db: dbtx}
}

func (s *ProductReadStore) FindByID(ctx context.Context, id uuid.UUID) (*shared.ProductSnapshot, error) {
	const query = `
		SELECT id, name, kind, price_cents, session_count, unit_size, technique
		FROM products WHERE id = $1`

	var (
		snap      shared.ProductSnapshot
		technique string
	)
	err := s.db.QueryRow(ctx, query, id).Scan(
		&snap.ID, &snap.Name, &snap.Kind, &snap.PriceCents,
		&snap.SessionCount, &snap.UnitSize, &technique,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("product not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find product by ID", err)
	}
	snap.Technique = schedule.Technique(technique)
	return &snap, nil
}
