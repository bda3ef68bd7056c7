package readstore

import (
	"context"
	"strconv"

	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/domain/availability"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/domain/schedule"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/infra"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/infra/db"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/usecase/shared"
)

// LedgerReadStore projects live bookings into per-slot consumption entries.
// Only paid bookings and live pre-reservations count; due rows are excluded
// by the expiry cutoff whether or not the sweeper has reached them. A
// pre-reservation with a recorded payment stays live past its expiry because
// the sweeper never reclaims it.
type LedgerReadStore struct {
	db db.DBTX
}

func NewLedgerReadStore(dbtx db.DBTX) *LedgerReadStore {
	return &LedgerReadStore{db: dbtx}
}

func (s *LedgerReadStore) Load(ctx context.Context, q shared.LedgerQuery) ([]availability.LedgerEntry, error) {
	// Each booking consumes one enrollment unit per owned slot; a couple on
	// a pair product is one unit, not two seats.
	query := `
		SELECT bs.slot_date, bs.slot_time, bs.technique, b.status = 'paid', 1
		FROM booking_slots bs
		JOIN bookings b ON b.id = bs.booking_id
		WHERE (b.status = 'paid'
		   OR (b.status = 'pre_reserved'
		       AND (b.expires_at IS NULL OR b.expires_at > $1
		            OR EXISTS (SELECT 1 FROM payment_details pd WHERE pd.booking_id = b.id))))`
	args := []any{q.Now}

	if q.Technique != "" {
		args = append(args, string(q.Technique))
		query += ` AND bs.technique = $2`
	}
	switch {
	case len(q.Keys) > 0:
		idents := make([]string, len(q.Keys))
		for i, key := range q.Keys {
			idents[i] = key.Date + "|" + key.Time
		}
		args = append(args, idents)
		query += ` AND bs.slot_date || '|' || bs.slot_time = ANY($` + argn(len(args)) + `)`
	case q.FromDate != "":
		args = append(args, q.FromDate)
		query += ` AND bs.slot_date >= $` + argn(len(args))
		if q.ToDate != "" {
			args = append(args, q.ToDate)
			query += ` AND bs.slot_date < $` + argn(len(args))
		}
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load consumption ledger", err)
	}
	defer rows.Close()

	var entries []availability.LedgerEntry
	for rows.Next() {
		var (
			entry     availability.LedgerEntry
			technique string
		)
		if err := rows.Scan(&entry.Key.Date, &entry.Key.Time, &technique, &entry.Paid, &entry.Units); err != nil {
			return nil, infra.WrapRepoErr("failed to scan ledger entry", err)
		}
		entry.Key.Technique = schedule.Technique(technique)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read consumption ledger", err)
	}
	return entries, nil
}

func argn(n int) string {
	return strconv.Itoa(n)
}
