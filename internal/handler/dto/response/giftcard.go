package response

import (
	"time"

	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/usecase/commands"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/usecase/queries"

	"github.com/google/uuid"
)

type GiftcardResponse struct {
	ID             uuid.UUID `json:"id"`
	Code           string    `json:"code"`
	IssuedCents    int64     `json:"issuedCents"`
	BalanceCents   int64     `json:"balanceCents"`
	SpendableCents int64     `json:"spendableCents"`
}

func FromGiftcardView(view *queries.GiftcardView) *GiftcardResponse {
	return &GiftcardResponse{
		ID:             view.ID,
		Code:           view.Code,
		IssuedCents:    view.IssuedCents,
		BalanceCents:   view.BalanceCents,
		SpendableCents: view.SpendableCents,
	}
}

type HoldResponse struct {
	HoldID         uuid.UUID `json:"holdId"`
	GiftcardID     uuid.UUID `json:"giftcardId"`
	AmountCents    int64     `json:"amountCents"`
	SpendableCents int64     `json:"spendableCents"`
	ExpiresAt      time.Time `json:"expiresAt"`
}

func FromHoldResult(result *commands.HoldResult) *HoldResponse {
	return &HoldResponse{
		HoldID:         result.HoldID,
		GiftcardID:     result.GiftcardID,
		AmountCents:    result.AmountCents,
		SpendableCents: result.SpendableCents,
		ExpiresAt:      result.ExpiresAt,
	}
}
