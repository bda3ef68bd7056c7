package request

import (
	"strings"
	"time"

	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/domain/booking"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/usecase/commands"

	"github.com/google/uuid"
)

type SlotRefRequest struct {
	Date         string    `json:"date" binding:"required"`
	Time         string    `json:"time" binding:"required"`
	InstructorID uuid.UUID `json:"instructorId" binding:"required"`
}

type ValidateSelectionRequest struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Mode      string           `json:"mode" binding:"required"`
	Slots     []SlotRefRequest `json:"slots"`
}

func (r ValidateSelectionRequest) ToParams() commands.ValidateSelectionParams {
	return commands.ValidateSelectionParams{
		ProductID: r.ProductID,
		Mode:      booking.Mode(r.Mode),
		Slots:     toSlotRefs(r.Slots),
	}
}

type CustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

type SubmitBookingRequest struct {
	ProductID        uuid.UUID        `json:"product_id" binding:"required"`
	Mode             string           `json:"mode" binding:"required"`
	Slots            []SlotRefRequest `json:"slots"`
	Customer         CustomerRequest  `json:"customer" binding:"required"`
	GiftcardCode     *string          `json:"giftcard_code,omitempty"`
	GiftcardHoldID   *uuid.UUID       `json:"giftcard_hold_id,omitempty"`
	AcceptedNoRefund bool             `json:"accepted_no_refund"`
}

func (r SubmitBookingRequest) ToParams() commands.SubmitBookingParams {
	return commands.SubmitBookingParams{
		ProductID: r.ProductID,
		Mode:      booking.Mode(r.Mode),
		Slots:     toSlotRefs(r.Slots),
		Customer: booking.CustomerInfo{
			Name:  strings.TrimSpace(r.Customer.Name),
			Email: strings.TrimSpace(r.Customer.Email),
			Phone: strings.TrimSpace(r.Customer.Phone),
		},
		GiftcardCode:     r.GetGiftcardCode(),
		GiftcardHoldID:   r.GiftcardHoldID,
		AcceptedNoRefund: r.AcceptedNoRefund,
	}
}

func (r SubmitBookingRequest) GetGiftcardCode() *string {
	if r.GiftcardCode == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*r.GiftcardCode)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

type PaymentRequest struct {
	AmountCents int64      `json:"amount_cents" binding:"required,gt=0"`
	Method      string     `json:"method" binding:"required"`
	ReceivedAt  *time.Time `json:"received_at,omitempty"`
}

type ConfirmPaymentRequest struct {
	Payments []PaymentRequest `json:"payments" binding:"required,min=1,dive"`
}

func (r ConfirmPaymentRequest) ToInputs() []commands.PaymentInput {
	inputs := make([]commands.PaymentInput, len(r.Payments))
	for i, p := range r.Payments {
		inputs[i] = commands.PaymentInput{
			AmountCents: p.AmountCents,
			Method:      booking.PaymentMethod(p.Method),
		}
		if p.ReceivedAt != nil {
			inputs[i].ReceivedAt = *p.ReceivedAt
		}
	}
	return inputs
}

type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type DeletePaymentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func toSlotRefs(reqs []SlotRefRequest) []booking.SlotRef {
	refs := make([]booking.SlotRef, len(reqs))
	for i, s := range reqs {
		refs[i] = booking.SlotRef{
			Date:         s.Date,
			Time:         s.Time,
			InstructorID: s.InstructorID,
		}
	}
	return refs
}
