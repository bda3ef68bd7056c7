package repository

import (
	"context"
	"errors"
	"time"

	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/domain/giftcard"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/infra"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/infra/db"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/infra/repository/converter"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// GiftcardRepository serializes all balance arithmetic on the card row lock:
// both lookup variants lock giftcards FOR UPDATE before holds or redemptions
// are read.
type GiftcardRepository struct {
	db db.DBTX
}

func NewGiftcardRepository(dbtx db.DBTX) *GiftcardRepository {
	return &GiftcardRepository{db: dbtx}
}

func (r *GiftcardRepository) GetByCodeForUpdate(ctx context.Context, code string) (*giftcard.Giftcard, error) {
	const query = `
		SELECT id, code, issued_cents, created_at
		FROM giftcards WHERE code = $1 FOR UPDATE`
	return r.lockAndLoad(ctx, query, code)
}

func (r *GiftcardRepository) GetByHoldForUpdate(ctx context.Context, holdID uuid.UUID) (*giftcard.Giftcard, error) {
	const query = `
		SELECT g.id, g.code, g.issued_cents, g.created_at
		FROM giftcards g
		JOIN giftcard_holds h ON h.giftcard_id = g.id
		WHERE h.id = $1
		FOR UPDATE OF g`
	return r.lockAndLoad(ctx, query, holdID)
}

func (r *GiftcardRepository) InsertHold(ctx context.Context, h giftcard.Hold) error {
	const query = `
		INSERT INTO giftcard_holds (
			id, giftcard_id, amount_cents, booking_id, status,
			created_at, expires_at, consumed_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`

	_, err := r.db.Exec(ctx, query,
		h.ID, h.GiftcardID, h.AmountCents, converter.UUIDPtrToPg(h.BookingID), string(h.Status),
		h.CreatedAt, h.ExpiresAt, converter.TimePtrToPg(h.ConsumedAt),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to insert gift card hold", err)
	}
	return nil
}

func (r *GiftcardRepository) UpdateHold(ctx context.Context, h giftcard.Hold) error {
	const query = `
		UPDATE giftcard_holds
		SET booking_id = $2, status = $3, consumed_at = $4
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		h.ID, converter.UUIDPtrToPg(h.BookingID), string(h.Status), converter.TimePtrToPg(h.ConsumedAt),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update gift card hold", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("gift card hold not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *GiftcardRepository) InsertRedemption(ctx context.Context, red giftcard.Redemption) error {
	const query = `
		INSERT INTO giftcard_redemptions (
			id, giftcard_id, hold_id, booking_id, amount_cents, redeemed_at
		) VALUES ($1,$2,$3,$4,$5,$6)`

	_, err := r.db.Exec(ctx, query,
		red.ID, red.GiftcardID, red.HoldID, red.BookingID, red.AmountCents, red.RedeemedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("hold already redeemed", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to insert redemption", err)
	}
	return nil
}

func (r *GiftcardRepository) lockAndLoad(ctx context.Context, query string, arg any) (*giftcard.Giftcard, error) {
	var (
		id          uuid.UUID
		code        string
		issuedCents int64
		createdAt   time.Time
	)
	err := r.db.QueryRow(ctx, query, arg).Scan(&id, &code, &issuedCents, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("gift card not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find gift card", err)
	}

	holds, err := r.loadHolds(ctx, id)
	if err != nil {
		return nil, err
	}
	redemptions, err := r.loadRedemptions(ctx, id)
	if err != nil {
		return nil, err
	}
	return giftcard.Reconstruct(id, code, issuedCents, holds, redemptions, createdAt), nil
}

func (r *GiftcardRepository) loadHolds(ctx context.Context, giftcardID uuid.UUID) ([]giftcard.Hold, error) {
	const query = `
		SELECT id, giftcard_id, amount_cents, booking_id, status, created_at, expires_at, consumed_at
		FROM giftcard_holds WHERE giftcard_id = $1
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, giftcardID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load gift card holds", err)
	}
	defer rows.Close()

	var holds []giftcard.Hold
	for rows.Next() {
		var (
			h          giftcard.Hold
			bookingID  pgtype.UUID
			status     string
			consumedAt pgtype.Timestamptz
		)
		if err := rows.Scan(&h.ID, &h.GiftcardID, &h.AmountCents, &bookingID, &status, &h.CreatedAt, &h.ExpiresAt, &consumedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan gift card hold", err)
		}
		h.BookingID = converter.PgToUUIDPtr(bookingID)
		h.Status = giftcard.HoldStatus(status)
		h.ConsumedAt = converter.PgToTimePtr(consumedAt)
		holds = append(holds, h)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read gift card holds", err)
	}
	return holds, nil
}

func (r *GiftcardRepository) loadRedemptions(ctx context.Context, giftcardID uuid.UUID) ([]giftcard.Redemption, error) {
	const query = `
		SELECT id, giftcard_id, hold_id, booking_id, amount_cents, redeemed_at
		FROM giftcard_redemptions WHERE giftcard_id = $1
		ORDER BY redeemed_at`

	rows, err := r.db.Query(ctx, query, giftcardID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load redemptions", err)
	}
	defer rows.Close()

	var redemptions []giftcard.Redemption
	for rows.Next() {
		var red giftcard.Redemption
		if err := rows.Scan(&red.ID, &red.GiftcardID, &red.HoldID, &red.BookingID, &red.AmountCents, &red.RedeemedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan redemption", err)
		}
		redemptions = append(redemptions, red)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read redemptions", err)
	}
	return redemptions, nil
}
