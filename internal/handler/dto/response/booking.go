package response

import (
	"time"

	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/usecase/commands"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type SlotResponse struct {
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	InstructorID uuid.UUID `json:"instructorId"`
}

type PaymentResponse struct {
	ID                  uuid.UUID  `json:"id"`
	AmountCents         int64      `json:"amountCents"`
	Method              string     `json:"method"`
	ReceivedAt          time.Time  `json:"receivedAt"`
	GiftcardID          *uuid.UUID `json:"giftcardId,omitempty"`
	GiftcardAmountCents *int64     `json:"giftcardAmountCents,omitempty"`
}

type BookingResponse struct {
	ID                    uuid.UUID         `json:"id"`
	BookingCode           string            `json:"bookingCode"`
	ProductID             uuid.UUID         `json:"productId"`
	ProductKind           string            `json:"productKind"`
	Mode                  string            `json:"mode"`
	Slots                 []SlotResponse    `json:"slots"`
	CustomerName          string            `json:"customerName"`
	CustomerEmail         string            `json:"customerEmail"`
	Status                string            `json:"status"`
	IsPaid                bool              `json:"isPaid"`
	PriceCents            int64             `json:"priceCents"`
	PendingBalanceCents   int64             `json:"pendingBalanceCents"`
	Payments              []PaymentResponse `json:"payments"`
	GiftcardHoldID        *uuid.UUID        `json:"giftcardHoldId,omitempty"`
	GiftcardRedeemedCents int64             `json:"giftcardRedeemedCents"`
	AcceptedNoRefund      bool              `json:"acceptedNoRefund"`
	CreatedAt             time.Time         `json:"createdAt"`
	ExpiresAt             *time.Time        `json:"expiresAt,omitempty"`
}

// FromBookingView maps the read model field-for-field; copier matches on
// name so the nested slot and payment slices come along.
func FromBookingView(view *queries.BookingView) (*BookingResponse, error) {
	var resp BookingResponse
	if err := copier.Copy(&resp, view); err != nil {
		return nil, err
	}
	return &resp, nil
}

type SubmitBookingResponse struct {
	BookingID           uuid.UUID `json:"bookingId"`
	BookingCode         string    `json:"bookingCode"`
	PendingBalanceCents int64     `json:"pendingBalanceCents"`
	RequiresNoRefundAck bool      `json:"requiresNoRefundAck"`
	ExpiresAt           time.Time `json:"expiresAt"`
}

func FromSubmitResult(result *commands.SubmitBookingResult) *SubmitBookingResponse {
	return &SubmitBookingResponse{
		BookingID:           result.BookingID,
		BookingCode:         result.BookingCode,
		PendingBalanceCents: result.PendingBalanceCents,
		RequiresNoRefundAck: result.RequiresNoRefundAck,
		ExpiresAt:           result.ExpiresAt,
	}
}
