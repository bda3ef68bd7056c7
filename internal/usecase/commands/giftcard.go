package commands

import (
	"context"
	"time"

	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/pkg/clock"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/pkg/config"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateHoldParams struct {
	Code        string
	AmountCents int64
}

type HoldResult struct {
	HoldID         uuid.UUID
	GiftcardID     uuid.UUID
	AmountCents    int64
	SpendableCents int64
	ExpiresAt      time.Time
}

type GiftcardCommands interface {
	// CreateHold claims part of a card's balance ahead of checkout. The card
	// row is locked for the duration, so two concurrent holds can never
	// oversubscribe the spendable balance.
	CreateHold(ctx context.Context, params CreateHoldParams) (*HoldResult, error)
	ReleaseHold(ctx context.Context, holdID uuid.UUID) error
}

type giftcardCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
	cfg   config.BookingConfig
}

func NewGiftcardCommands(uow shared.UnitOfWork, clk clock.Clock, cfg config.BookingConfig) GiftcardCommands {
	return &giftcardCommandsImpl{uow: uow, clock: clk, cfg: cfg}
}

func (c *giftcardCommandsImpl) CreateHold(ctx context.Context, params CreateHoldParams) (*HoldResult, error) {
	now := c.clock.Now()

	var result *HoldResult
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		card, err := tx.Giftcards().GetByCodeForUpdate(ctx, params.Code)
		if err != nil {
			return mapGiftcardLookupErr(err)
		}

		for _, expiredID := range card.ExpireDueHolds(now) {
			if updErr := tx.Giftcards().UpdateHold(ctx, *findHold(card, expiredID)); updErr != nil {
				return wrapStoreErr(updErr)
			}
		}

		hold, holdErr := card.CreateHold(params.AmountCents, now, c.cfg.GiftcardHoldTTL)
		if holdErr != nil {
			return mapHoldErr(holdErr)
		}
		if insErr := tx.Giftcards().InsertHold(ctx, hold); insErr != nil {
			return wrapStoreErr(insErr)
		}

		result = &HoldResult{
			HoldID:         hold.ID,
			GiftcardID:     card.ID(),
			AmountCents:    hold.AmountCents,
			SpendableCents: card.SpendableCents(now),
			ExpiresAt:      hold.ExpiresAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *giftcardCommandsImpl) ReleaseHold(ctx context.Context, holdID uuid.UUID) error {
	now := c.clock.Now()
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return releaseHoldInTx(ctx, tx, holdID, now)
	})
}
