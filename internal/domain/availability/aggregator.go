// Package availability enriches generated slots with live booking counts.
package availability

import (
	"errors"
	"fmt"

	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/domain/schedule"
)

// ErrNegativeAvailability signals a computed available count below zero.
// That is a ledger logic bug, never a legitimate state; callers must abort
// loudly instead of clamping.
var ErrNegativeAvailability = errors.New("negative availability computed")

// LedgerEntry is one booking's consumption of a slot, expressed in
// enrollment units (a couple counts as one unit, not two seats).
type LedgerEntry struct {
	Key   schedule.SlotKey
	Paid  bool
	Units int
}

type EnrichedSlot struct {
	schedule.Slot

	// Counts are in consumption units. TotalUnits includes unpaid but
	// unexpired pre-reservations so a slot that is spoken for is not
	// promised twice.
	PaidUnits   int
	TotalUnits  int
	MaxUnits    int
	Available   int
	IsAvailable bool
}

// Enrich computes per-slot consumption from the ledger. unitSize transforms
// seat capacity into units: maxUnits = floor(capacity/unitSize), rounding
// down so a fractional unit is never sold.
func Enrich(slots []schedule.Slot, ledger []LedgerEntry, unitSize int) ([]EnrichedSlot, error) {
	if unitSize <= 0 {
		unitSize = 1
	}

	paid := make(map[schedule.SlotKey]int)
	total := make(map[schedule.SlotKey]int)
	for _, entry := range ledger {
		total[entry.Key] += entry.Units
		if entry.Paid {
			paid[entry.Key] += entry.Units
		}
	}

	enriched := make([]EnrichedSlot, len(slots))
	for i, slot := range slots {
		key := slot.Key()
		maxUnits := slot.Capacity / unitSize
		available := maxUnits - total[key]
		if available < 0 {
			return nil, fmt.Errorf("slot %s: %w", key, ErrNegativeAvailability)
		}
		enriched[i] = EnrichedSlot{
			Slot:        slot,
			PaidUnits:   paid[key],
			TotalUnits:  total[key],
			MaxUnits:    maxUnits,
			Available:   available,
			IsAvailable: available > 0,
		}
	}
	return enriched, nil
}

// FailClosed renders every slot as fully booked. Used when the ledger cannot
// be loaded: better to under-promise than to oversell on stale data.
func FailClosed(slots []schedule.Slot, unitSize int) []EnrichedSlot {
	if unitSize <= 0 {
		unitSize = 1
	}
	enriched := make([]EnrichedSlot, len(slots))
	for i, slot := range slots {
		maxUnits := slot.Capacity / unitSize
		enriched[i] = EnrichedSlot{
			Slot:        slot,
			PaidUnits:   maxUnits,
			TotalUnits:  maxUnits,
			MaxUnits:    maxUnits,
			Available:   0,
			IsAvailable: false,
		}
	}
	return enriched
}

// Index builds a lookup by slot identity for selection validation.
func Index(slots []EnrichedSlot) map[schedule.SlotKey]EnrichedSlot {
	idx := make(map[schedule.SlotKey]EnrichedSlot, len(slots))
	for _, slot := range slots {
		idx[slot.Slot.Key()] = slot
	}
	return idx
}
