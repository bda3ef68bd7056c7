package request

import (
	"strings"

	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/usecase/commands"
)

type CreateHoldRequest struct {
	Code        string `json:"code" binding:"required"`
	AmountCents int64  `json:"amount_cents" binding:"required,gt=0"`
}

func (r CreateHoldRequest) ToParams() commands.CreateHoldParams {
	return commands.CreateHoldParams{
		Code:        strings.TrimSpace(r.Code),
		AmountCents: r.AmountCents,
	}
}
