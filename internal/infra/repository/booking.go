package repository

import (
	"context"
	"errors"
	"time"

	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/domain/booking"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/domain/product"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/infra"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/infra/db"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/infra/repository/converter"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(dbtx db.DBTX) *BookingRepository {
	return &BookingRepository{db: dbtx}
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	const insertBooking = `
		INSERT INTO bookings (
			id, booking_code, product_id, product_kind, mode,
			customer_name, customer_email, customer_phone,
			status, is_paid, price_cents,
			giftcard_hold_id, giftcard_redeemed_cents, accepted_no_refund,
			cancel_reason, created_at, updated_at, expires_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`

	customer := b.Customer()
	_, err := r.db.Exec(ctx, insertBooking,
		b.ID(), b.BookingCode(), b.ProductID(), string(b.ProductKind()), string(b.Mode()),
		customer.Name, customer.Email, customer.Phone,
		string(b.Status()), b.IsPaid(), b.PriceCents(),
		converter.UUIDPtrToPg(b.GiftcardHoldID()), b.GiftcardRedeemedCents(), b.AcceptedNoRefund(),
		converter.TextPtrToPg(b.CancelReason()), b.CreatedAt(), b.UpdatedAt(),
		converter.TimePtrToPg(b.ExpiresAt()),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("booking code already exists", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create booking", err)
	}

	// Technique is denormalized onto the slot rows so the consumption ledger
	// never needs the product join at read time.
	const insertSlot = `
		INSERT INTO booking_slots (booking_id, slot_date, slot_time, instructor_id, technique)
		SELECT $1, $2, $3, $4, technique FROM products WHERE id = $5`

	for _, slot := range b.Slots() {
		if _, err := r.db.Exec(ctx, insertSlot, b.ID(), slot.Date, slot.Time, slot.InstructorID, b.ProductID()); err != nil {
			return infra.WrapRepoErr("failed to create booking slot", err)
		}
	}
	return nil
}

func (r *BookingRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	const query = `
		SELECT id, booking_code, product_id, product_kind, mode,
		       customer_name, customer_email, customer_phone,
		       status, is_paid, price_cents,
		       giftcard_hold_id, giftcard_redeemed_cents, accepted_no_refund,
		       cancel_reason, created_at, updated_at, expires_at
		FROM bookings WHERE id = $1 FOR UPDATE`

	var (
		row       bookingRow
		holdID    pgtype.UUID
		reason    pgtype.Text
		expiresAt pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&row.ID, &row.BookingCode, &row.ProductID, &row.ProductKind, &row.Mode,
		&row.CustomerName, &row.CustomerEmail, &row.CustomerPhone,
		&row.Status, &row.IsPaid, &row.PriceCents,
		&holdID, &row.GiftcardRedeemedCents, &row.AcceptedNoRefund,
		&reason, &row.CreatedAt, &row.UpdatedAt, &expiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}
	row.GiftcardHoldID = converter.PgToUUIDPtr(holdID)
	row.CancelReason = converter.PgToTextPtr(reason)
	row.ExpiresAt = converter.PgToTimePtr(expiresAt)

	slots, err := r.loadSlots(ctx, id)
	if err != nil {
		return nil, err
	}
	payments, err := r.loadPayments(ctx, id)
	if err != nil {
		return nil, err
	}

	return booking.Reconstruct(
		row.ID, row.BookingCode, row.ProductID, product.Kind(row.ProductKind), booking.Mode(row.Mode),
		slots,
		booking.CustomerInfo{Name: row.CustomerName, Email: row.CustomerEmail, Phone: row.CustomerPhone},
		booking.Status(row.Status), row.IsPaid, row.PriceCents,
		payments, row.GiftcardHoldID, row.GiftcardRedeemedCents, row.AcceptedNoRefund,
		row.CancelReason, row.CreatedAt, row.UpdatedAt, row.ExpiresAt,
	), nil
}

func (r *BookingRepository) UpdateState(ctx context.Context, b *booking.Booking) error {
	const query = `
		UPDATE bookings
		SET status = $2, is_paid = $3,
		    giftcard_hold_id = $4, giftcard_redeemed_cents = $5,
		    cancel_reason = $6, updated_at = $7, expires_at = $8
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		b.ID(), string(b.Status()), b.IsPaid(),
		converter.UUIDPtrToPg(b.GiftcardHoldID()), b.GiftcardRedeemedCents(),
		converter.TextPtrToPg(b.CancelReason()), b.UpdatedAt(),
		converter.TimePtrToPg(b.ExpiresAt()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking state", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *BookingRepository) InsertPayment(ctx context.Context, bookingID uuid.UUID, p booking.PaymentDetail) error {
	const query = `
		INSERT INTO payment_details (
			id, booking_id, amount_cents, method, received_at,
			giftcard_id, giftcard_amount_cents
		) VALUES ($1,$2,$3,$4,$5,$6,$7)`

	_, err := r.db.Exec(ctx, query,
		p.ID, bookingID, p.AmountCents, string(p.Method), p.ReceivedAt,
		converter.UUIDPtrToPg(p.GiftcardID), converter.Int64PtrToPg(p.GiftcardAmountCents),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to insert payment detail", err)
	}
	return nil
}

func (r *BookingRepository) DeletePayment(ctx context.Context, bookingID, paymentID uuid.UUID, reason string) error {
	// The audit row is written first so the mandatory reason and the removed
	// amounts survive the delete.
	const audit = `
		INSERT INTO payment_audit (id, booking_id, payment_id, amount_cents, method, reason, deleted_at)
		SELECT gen_random_uuid(), booking_id, id, amount_cents, method, $3, now()
		FROM payment_details WHERE id = $2 AND booking_id = $1`

	tag, err := r.db.Exec(ctx, audit, bookingID, paymentID, reason)
	if err != nil {
		return infra.WrapRepoErr("failed to write payment audit", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("payment detail not found", nil, infra.KindNotFound)
	}

	const del = `DELETE FROM payment_details WHERE id = $2 AND booking_id = $1`
	if _, err := r.db.Exec(ctx, del, bookingID, paymentID); err != nil {
		return infra.WrapRepoErr("failed to delete payment detail", err)
	}
	return nil
}

func (r *BookingRepository) SweepDue(ctx context.Context, now time.Time, limit int) ([]shared.ExpiredBooking, error) {
	// SKIP LOCKED keeps the sweeper from stalling behind live bookings; a row
	// another transaction holds will be picked up on the next pass. Bookings
	// with any recorded payment are never reclaimed, mirroring Booking.IsDue.
	const query = `
		UPDATE bookings
		SET status = 'expired', updated_at = $1
		WHERE id IN (
			SELECT id FROM bookings
			WHERE status = 'pre_reserved' AND expires_at IS NOT NULL AND expires_at < $1
			  AND NOT EXISTS (SELECT 1 FROM payment_details pd WHERE pd.booking_id = bookings.id)
			ORDER BY expires_at
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, giftcard_hold_id`

	rows, err := r.db.Query(ctx, query, now, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to sweep due bookings", err)
	}
	defer rows.Close()

	var expired []shared.ExpiredBooking
	for rows.Next() {
		var (
			e      shared.ExpiredBooking
			holdID pgtype.UUID
		)
		if err := rows.Scan(&e.BookingID, &holdID); err != nil {
			return nil, infra.WrapRepoErr("failed to scan swept booking", err)
		}
		e.GiftcardHoldID = converter.PgToUUIDPtr(holdID)
		expired = append(expired, e)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read swept bookings", err)
	}
	return expired, nil
}

type bookingRow struct {
	ID                    uuid.UUID
	BookingCode           string
	ProductID             uuid.UUID
	ProductKind           string
	Mode                  string
	CustomerName          string
	CustomerEmail         string
	CustomerPhone         string
	Status                string
	IsPaid                bool
	PriceCents            int64
	GiftcardHoldID        *uuid.UUID
	GiftcardRedeemedCents int64
	AcceptedNoRefund      bool
	CancelReason          *string
	CreatedAt             time.Time
	UpdatedAt             time.Time
	ExpiresAt             *time.Time
}

func (r *BookingRepository) loadSlots(ctx context.Context, bookingID uuid.UUID) ([]booking.SlotRef, error) {
	const query = `
		SELECT slot_date, slot_time, instructor_id
		FROM booking_slots WHERE booking_id = $1
		ORDER BY slot_date, slot_time`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load booking slots", err)
	}
	defer rows.Close()

	var slots []booking.SlotRef
	for rows.Next() {
		var s booking.SlotRef
		if err := rows.Scan(&s.Date, &s.Time, &s.InstructorID); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking slot", err)
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read booking slots", err)
	}
	return slots, nil
}

func (r *BookingRepository) loadPayments(ctx context.Context, bookingID uuid.UUID) ([]booking.PaymentDetail, error) {
	const query = `
		SELECT id, amount_cents, method, received_at, giftcard_id, giftcard_amount_cents
		FROM payment_details WHERE booking_id = $1
		ORDER BY received_at`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load payment details", err)
	}
	defer rows.Close()

	var payments []booking.PaymentDetail
	for rows.Next() {
		var (
			p          booking.PaymentDetail
			method     string
			giftcardID pgtype.UUID
			giftAmount pgtype.Int8
		)
		if err := rows.Scan(&p.ID, &p.AmountCents, &method, &p.ReceivedAt, &giftcardID, &giftAmount); err != nil {
			return nil, infra.WrapRepoErr("failed to scan payment detail", err)
		}
		p.Method = booking.PaymentMethod(method)
		p.GiftcardID = converter.PgToUUIDPtr(giftcardID)
		p.GiftcardAmountCents = converter.PgToInt64Ptr(giftAmount)
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read payment details", err)
	}
	return payments, nil
}
