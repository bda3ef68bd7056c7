package booking

import (
	"fmt"
	"time"

	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/domain/schedule"
)

// Selection models the interactive pick set the checkout wizard builds up.
// The eligibility window is always derived from the earliest remaining pick,
// so removing the anchor re-anchors to the next earliest pick and removing
// the last pick clears the window. Picks outside the current window are
// rejected at add time, never silently dropped.
type Selection struct {
	windowDays int
	picks      []SlotRef
}

func NewSelection(windowDays int) *Selection {
	return &Selection{windowDays: windowDays}
}

func (s *Selection) Add(ref SlotRef) error {
	if err := ref.Validate(); err != nil {
		return err
	}
	for _, existing := range s.picks {
		if existing.Date == ref.Date && existing.Time == ref.Time {
			return fmt.Errorf("slot %s %s: %w", ref.Date, ref.Time, ErrDuplicateSlot)
		}
	}

	// A pick earlier than the current anchor would re-anchor the window
	// backward, so the whole tentative set has to fit the re-derived window,
	// not just the new pick. The window is measured in calendar days.
	tentative := append(append([]SlotRef{}, s.picks...), ref)
	windowEnd, err := windowEndDate(earliestDate(tentative), s.windowDays)
	if err != nil {
		return err
	}
	for _, pick := range tentative {
		if pick.Date > windowEnd {
			return fmt.Errorf("slot %s %s: %w", ref.Date, ref.Time, ErrOutsideWindow)
		}
	}

	s.picks = tentative
	return nil
}

func (s *Selection) Remove(ref SlotRef) bool {
	for i, existing := range s.picks {
		if existing.Date == ref.Date && existing.Time == ref.Time {
			s.picks = append(s.picks[:i], s.picks[i+1:]...)
			return true
		}
	}
	return false
}

// Window returns the current eligibility window, anchored to midnight of the
// earliest pick's date. ok is false when no picks remain.
func (s *Selection) Window() (start, end time.Time, ok bool) {
	if len(s.picks) == 0 {
		return time.Time{}, time.Time{}, false
	}
	anchor, err := time.ParseInLocation(schedule.DateLayout, earliestDate(s.picks), time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return anchor, anchor.AddDate(0, 0, s.windowDays), true
}

func (s *Selection) Picks() []SlotRef {
	out := make([]SlotRef, len(s.picks))
	copy(out, s.picks)
	return out
}

func (s *Selection) Len() int {
	return len(s.picks)
}
