package errs

import "errors"

// Sentinel errors shared by the usecase layers. Handlers translate these
// into HTTP statuses; nothing below this layer is allowed to collapse them
// into a generic failure.
var (
	// Lookup errors
	ErrProductNotFound  = errors.New("product not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrGiftcardNotFound = errors.New("gift card not found")
	ErrPaymentNotFound  = errors.New("payment detail not found")

	// Selection / validation errors
	ErrValidation      = errors.New("validation error")
	ErrSlotUnavailable = errors.New("slot no longer available")
	ErrOutsideWindow   = errors.New("slot outside eligibility window")
	ErrModeNotAllowed  = errors.New("booking mode not supported by product")

	// Capacity races
	ErrCapacityConflict = errors.New("capacity conflict")

	// Gift card hold races
	ErrHoldExpired         = errors.New("gift card hold expired")
	ErrHoldAlreadyConsumed = errors.New("gift card hold already consumed")
	ErrInsufficientBalance = errors.New("insufficient gift card balance")

	// Policy errors
	ErrPolicyViolation = errors.New("no-refund acknowledgement required")
	ErrReasonRequired  = errors.New("reason required")

	// Booking lifecycle errors
	ErrBookingExpired    = errors.New("booking expired")
	ErrBookingNotPaid    = errors.New("booking is not paid")
	ErrInvalidTransition = errors.New("invalid booking state transition")

	// Store errors
	ErrTransientStore  = errors.New("transient store error")
	ErrInvariantBreach = errors.New("invariant breach")
)
