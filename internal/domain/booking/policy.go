package booking

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/domain/availability"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/domain/schedule"
)

var (
	ErrWrongSlotCount  = errors.New("wrong number of slots for package")
	ErrDuplicateSlot   = errors.New("duplicate slot in selection")
	ErrUnknownSlot     = errors.New("slot does not exist in the schedule")
	ErrSlotFull        = errors.New("slot is full")
	ErrOutsideWindow   = errors.New("slot outside the eligibility window")
	ErrBrokenCadence   = errors.New("monthly slots must be exactly 7 days apart at the same time")
	ErrMixedInstructor = errors.New("monthly slots must keep the same instructor")
)

// monthlyWeeks is the number of consecutive weekly occurrences a monthly
// commitment covers, anchor included.
const monthlyWeeks = 4

// ValidateFlexibleSelection checks a flexible-mode pick set: exactly
// `required` distinct slots, all existing and currently available, all inside
// [anchor, anchor+windowDays] where the anchor is the earliest pick. The
// window is measured in calendar days, so any class time on the final window
// day is still eligible. The window re-anchors implicitly: it is always
// derived from the earliest slot of whatever set remains.
func ValidateFlexibleSelection(
	picks []SlotRef,
	required int,
	windowDays int,
	technique schedule.Technique,
	idx map[schedule.SlotKey]availability.EnrichedSlot,
) error {
	if len(picks) != required {
		return fmt.Errorf("expected %d slots, got %d: %w", required, len(picks), ErrWrongSlotCount)
	}
	if err := checkDistinct(picks, technique); err != nil {
		return err
	}

	windowEnd, err := windowEndDate(earliestDate(picks), windowDays)
	if err != nil {
		return err
	}

	for _, pick := range picks {
		if pick.Date > windowEnd {
			return fmt.Errorf("slot %s %s: %w", pick.Date, pick.Time, ErrOutsideWindow)
		}
		if err := checkAvailable(pick, technique, idx); err != nil {
			return err
		}
	}
	return nil
}

// ExpandMonthlySelection normalizes a monthly-mode pick set to its full four
// weeks. A single pick is treated as the anchor and weeks 2-4 are derived by
// adding 7, 14 and 21 days, preserving time and instructor. A full set of
// four is verified against that exact cadence.
func ExpandMonthlySelection(picks []SlotRef) ([]SlotRef, error) {
	switch len(picks) {
	case 1:
		return deriveMonthly(picks[0])
	case monthlyWeeks:
		sorted := make([]SlotRef, len(picks))
		copy(sorted, picks)
		sort.Slice(sorted, func(a, b int) bool { return sorted[a].Date < sorted[b].Date })

		expected, err := deriveMonthly(sorted[0])
		if err != nil {
			return nil, err
		}
		for i, pick := range sorted {
			if pick.Date != expected[i].Date || pick.Time != expected[i].Time {
				return nil, ErrBrokenCadence
			}
			if pick.InstructorID != expected[i].InstructorID {
				return nil, ErrMixedInstructor
			}
		}
		return expected, nil
	default:
		return nil, fmt.Errorf("monthly mode expects 1 anchor or %d slots, got %d: %w", monthlyWeeks, len(picks), ErrWrongSlotCount)
	}
}

// ValidateMonthlySelection checks the expanded four-week set all-or-nothing:
// if any derived week is missing from the schedule or full, the whole
// selection is rejected and no partial booking may be created.
func ValidateMonthlySelection(
	expanded []SlotRef,
	technique schedule.Technique,
	idx map[schedule.SlotKey]availability.EnrichedSlot,
) error {
	for _, pick := range expanded {
		if err := checkAvailable(pick, technique, idx); err != nil {
			return err
		}
	}
	return nil
}

func deriveMonthly(anchor SlotRef) ([]SlotRef, error) {
	start, err := anchor.StartAt()
	if err != nil {
		return nil, err
	}
	derived := make([]SlotRef, monthlyWeeks)
	for week := 0; week < monthlyWeeks; week++ {
		derived[week] = SlotRef{
			Date:         start.AddDate(0, 0, 7*week).Format(schedule.DateLayout),
			Time:         anchor.Time,
			InstructorID: anchor.InstructorID,
		}
	}
	return derived, nil
}

func checkDistinct(picks []SlotRef, technique schedule.Technique) error {
	seen := make(map[schedule.SlotKey]struct{}, len(picks))
	for _, pick := range picks {
		key := pick.Key(technique)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("slot %s %s: %w", pick.Date, pick.Time, ErrDuplicateSlot)
		}
		seen[key] = struct{}{}
	}
	return nil
}

func checkAvailable(pick SlotRef, technique schedule.Technique, idx map[schedule.SlotKey]availability.EnrichedSlot) error {
	slot, ok := idx[pick.Key(technique)]
	if !ok {
		return fmt.Errorf("slot %s %s: %w", pick.Date, pick.Time, ErrUnknownSlot)
	}
	if !slot.IsAvailable {
		return fmt.Errorf("slot %s %s: %w", pick.Date, pick.Time, ErrSlotFull)
	}
	return nil
}

// earliestDate relies on YYYY-MM-DD ordering lexicographically.
func earliestDate(picks []SlotRef) string {
	earliest := ""
	for _, pick := range picks {
		if earliest == "" || pick.Date < earliest {
			earliest = pick.Date
		}
	}
	return earliest
}

// windowEndDate returns the last calendar day still inside the window.
func windowEndDate(anchorDate string, windowDays int) (string, error) {
	anchor, err := time.ParseInLocation(schedule.DateLayout, anchorDate, time.UTC)
	if err != nil {
		return "", schedule.ErrInvalidDate
	}
	return anchor.AddDate(0, 0, windowDays).Format(schedule.DateLayout), nil
}
