package booking

import "time"

// DefaultNoRefundHorizon is the boundary inside which a booking can no
// longer be refunded or rescheduled.
const DefaultNoRefundHorizon = 48 * time.Hour

// RequiresNoRefundAcceptance reports whether any chosen slot starts less
// than horizon from now. Pure function of (slots, now, horizon): it is
// recomputed at the summary step and again at submission, because the
// server-side acceptance flag is authoritative, never the UI state.
// Slots that already started are inside the boundary by definition.
func RequiresNoRefundAcceptance(slots []SlotRef, now time.Time, horizon time.Duration) (bool, error) {
	if horizon <= 0 {
		horizon = DefaultNoRefundHorizon
	}
	for _, slot := range slots {
		start, err := slot.StartAt()
		if err != nil {
			return false, err
		}
		if start.Sub(now) < horizon {
			return true, nil
		}
	}
	return false, nil
}
