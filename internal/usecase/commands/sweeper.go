package commands

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/pkg/clock"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/pkg/config"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/usecase/shared"
)

// ExpirySweeper is the periodic safety net behind lazy expiry. Live flows
// already skip due pre-reservations; the sweeper persists those transitions
// and releases the gift-card holds they pinned.
type ExpirySweeper interface {
	SweepOnce(ctx context.Context) (int, error)
}

type expirySweeperImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
	cfg   config.BookingConfig
}

func NewExpirySweeper(uow shared.UnitOfWork, clk clock.Clock, cfg config.BookingConfig) ExpirySweeper {
	return &expirySweeperImpl{uow: uow, clock: clk, cfg: cfg}
}

func (s *expirySweeperImpl) SweepOnce(ctx context.Context) (int, error) {
	now := s.clock.Now()

	var swept int
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		expired, err := tx.Bookings().SweepDue(ctx, now, s.cfg.SweepBatchSize)
		if err != nil {
			return wrapStoreErr(err)
		}

		for _, e := range expired {
			if e.GiftcardHoldID != nil {
				if relErr := releaseHoldInTx(ctx, tx, *e.GiftcardHoldID, now); relErr != nil {
					return relErr
				}
			}

			payload, _ := json.Marshal(map[string]any{
				"booking_id": e.BookingID,
				"type":       "pre_reservation_expired",
			})
			if jobErr := tx.Notifications().CreateJob(ctx, "email", "pre_reservation_expired", payload, now); jobErr != nil {
				return wrapStoreErr(jobErr)
			}
		}

		swept = len(expired)
		return nil
	})
	if err != nil {
		return 0, err
	}

	if swept > 0 {
		slog.Info("expired due pre-reservations", "count", swept)
	}
	return swept, nil
}
