package readstore

import (
	"context"
	"errors"

	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/infra"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/infra/db"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/infra/repository/converter"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: dbtx}
}

func (s *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	return s.findBy(ctx, `WHERE id = $1`, id)
}

func (s *BookingReadStore) FindByCode(ctx context.Context, code string) (*queries.BookingView, error) {
	return s.findBy(ctx, `WHERE booking_code = $1`, code)
}

// IDByCode resolves the client-held resume code to a booking id without
// loading the full view.
func (s *BookingReadStore) IDByCode(ctx context.Context, code string) (uuid.UUID, error) {
	const query = `SELECT id FROM bookings WHERE booking_code = $1`

	var id uuid.UUID
	if err := s.db.QueryRow(ctx, query, code).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return uuid.Nil, infra.WrapRepoErr("failed to find booking by code", err)
	}
	return id, nil
}

func (s *BookingReadStore) findBy(ctx context.Context, where string, arg any) (*queries.BookingView, error) {
	query := `
		SELECT id, booking_code, product_id, product_kind, mode,
		       customer_name, customer_email,
		       status, is_paid, price_cents,
		       giftcard_hold_id, giftcard_redeemed_cents, accepted_no_refund,
		       created_at, expires_at
		FROM bookings ` + where

	var (
		view      queries.BookingView
		holdID    pgtype.UUID
		expiresAt pgtype.Timestamptz
	)
	err := s.db.QueryRow(ctx, query, arg).Scan(
		&view.ID, &view.BookingCode, &view.ProductID, &view.ProductKind, &view.Mode,
		&view.CustomerName, &view.CustomerEmail,
		&view.Status, &view.IsPaid, &view.PriceCents,
		&holdID, &view.GiftcardRedeemedCents, &view.AcceptedNoRefund,
		&view.CreatedAt, &expiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}
	view.GiftcardHoldID = converter.PgToUUIDPtr(holdID)
	view.ExpiresAt = converter.PgToTimePtr(expiresAt)

	if err := s.attachSlots(ctx, &view); err != nil {
		return nil, err
	}
	if err := s.attachPayments(ctx, &view); err != nil {
		return nil, err
	}

	view.PendingBalanceCents = view.PriceCents
	for _, p := range view.Payments {
		view.PendingBalanceCents -= p.AmountCents
	}
	if view.PendingBalanceCents < 0 {
		view.PendingBalanceCents = 0
	}
	return &view, nil
}

func (s *BookingReadStore) attachSlots(ctx context.Context, view *queries.BookingView) error {
	const query = `
		SELECT slot_date, slot_time, instructor_id
		FROM booking_slots WHERE booking_id = $1
		ORDER BY slot_date, slot_time`

	rows, err := s.db.Query(ctx, query, view.ID)
	if err != nil {
		return infra.WrapRepoErr("failed to load booking slots", err)
	}
	defer rows.Close()

	for rows.Next() {
		var slot queries.SlotView
		if err := rows.Scan(&slot.Date, &slot.Time, &slot.InstructorID); err != nil {
			return infra.WrapRepoErr("failed to scan booking slot", err)
		}
		view.Slots = append(view.Slots, slot)
	}
	if err := rows.Err(); err != nil {
		return infra.WrapRepoErr("failed to read booking slots", err)
	}
	return nil
}

func (s *BookingReadStore) attachPayments(ctx context.Context, view *queries.BookingView) error {
	const query = `
		SELECT id, amount_cents, method, received_at, giftcard_id, giftcard_amount_cents
		FROM payment_details WHERE booking_id = $1
		ORDER BY received_at`

	rows, err := s.db.Query(ctx, query, view.ID)
	if err != nil {
		return infra.WrapRepoErr("failed to load payment details", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			p          queries.PaymentView
			giftcardID pgtype.UUID
			giftAmount pgtype.Int8
		)
		if err := rows.Scan(&p.ID, &p.AmountCents, &p.Method, &p.ReceivedAt, &giftcardID, &giftAmount); err != nil {
			return infra.WrapRepoErr("failed to scan payment detail", err)
		}
		p.GiftcardID = converter.PgToUUIDPtr(giftcardID)
		p.GiftcardAmountCents = converter.PgToInt64Ptr(giftAmount)
		view.Payments = append(view.Payments, p)
	}
	if err := rows.Err(); err != nil {
		return infra.WrapRepoErr("failed to read payment details", err)
	}
	return nil
}
