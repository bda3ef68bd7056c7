//go:build unit

package availability_test

import (
	"testing"

	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/domain/availability"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/domain/schedule"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var instructor = uuid.New()

func wheelSlot(date, timeStr string, capacity int) schedule.Slot {
	return schedule.Slot{
		Date:         date,
		Time:         timeStr,
		InstructorID: instructor,
		Technique:    schedule.TechniquePottersWheel,
		Capacity:     capacity,
	}
}

func entry(slot schedule.Slot, paid bool) availability.LedgerEntry {
	return availability.LedgerEntry{Key: slot.Key(), Paid: paid, Units: 1}
}

func TestEnrich(t *testing.T) {
	t.Run("counts paid and pending consumption per slot", func(t *testing.T) {
		slot := wheelSlot("2025-03-03", "10:00", 8)
		ledger := []availability.LedgerEntry{
			entry(slot, true),
			entry(slot, true),
			entry(slot, false),
		}

		enriched, err := availability.Enrich([]schedule.Slot{slot}, ledger, 1)

		require.NoError(t, err)
		require.Len(t, enriched, 1)
		assert.Equal(t, 2, enriched[0].PaidUnits)
		assert.Equal(t, 3, enriched[0].TotalUnits)
		assert.Equal(t, 8, enriched[0].MaxUnits)
		assert.Equal(t, 5, enriched[0].Available)
		assert.True(t, enriched[0].IsAvailable)
	})

	t.Run("pair unit size halves the sellable units", func(t *testing.T) {
		slot := wheelSlot("2025-03-03", "10:00", 8)
		ledger := []availability.LedgerEntry{entry(slot, true)}

		enriched, err := availability.Enrich([]schedule.Slot{slot}, ledger, 2)

		require.NoError(t, err)
		assert.Equal(t, 4, enriched[0].MaxUnits)
		assert.Equal(t, 3, enriched[0].Available)
	})

	t.Run("fractional unit is never sold", func(t *testing.T) {
		slot := wheelSlot("2025-03-03", "10:00", 7)

		enriched, err := availability.Enrich([]schedule.Slot{slot}, nil, 2)

		require.NoError(t, err)
		assert.Equal(t, 3, enriched[0].MaxUnits)
	})

	t.Run("non-positive unit size is treated as one", func(t *testing.T) {
		slot := wheelSlot("2025-03-03", "10:00", 5)

		enriched, err := availability.Enrich([]schedule.Slot{slot}, nil, 0)

		require.NoError(t, err)
		assert.Equal(t, 5, enriched[0].MaxUnits)
	})

	t.Run("fully consumed slot is unavailable but not negative", func(t *testing.T) {
		slot := wheelSlot("2025-03-03", "10:00", 2)
		ledger := []availability.LedgerEntry{entry(slot, true), entry(slot, false)}

		enriched, err := availability.Enrich([]schedule.Slot{slot}, ledger, 1)

		require.NoError(t, err)
		assert.Equal(t, 0, enriched[0].Available)
		assert.False(t, enriched[0].IsAvailable)
	})

	t.Run("oversold slot aborts instead of clamping", func(t *testing.T) {
		slot := wheelSlot("2025-03-03", "10:00", 1)
		ledger := []availability.LedgerEntry{entry(slot, true), entry(slot, true)}

		_, err := availability.Enrich([]schedule.Slot{slot}, ledger, 1)

		require.Error(t, err)
		require.ErrorIs(t, err, availability.ErrNegativeAvailability)
	})

	t.Run("ledger entries for other slots do not bleed over", func(t *testing.T) {
		slotA := wheelSlot("2025-03-03", "10:00", 4)
		slotB := wheelSlot("2025-03-03", "13:00", 4)
		ledger := []availability.LedgerEntry{entry(slotB, true)}

		enriched, err := availability.Enrich([]schedule.Slot{slotA, slotB}, ledger, 1)

		require.NoError(t, err)
		assert.Equal(t, 4, enriched[0].Available)
		assert.Equal(t, 3, enriched[1].Available)
	})
}

func TestFailClosed(t *testing.T) {
	slots := []schedule.Slot{
		wheelSlot("2025-03-03", "10:00", 8),
		wheelSlot("2025-03-04", "13:00", 6),
	}

	closed := availability.FailClosed(slots, 2)

	require.Len(t, closed, 2)
	for _, slot := range closed {
		assert.Equal(t, 0, slot.Available)
		assert.False(t, slot.IsAvailable)
		assert.Equal(t, slot.MaxUnits, slot.TotalUnits)
	}
	assert.Equal(t, 4, closed[0].MaxUnits)
	assert.Equal(t, 3, closed[1].MaxUnits)
}

func TestIndex(t *testing.T) {
	slot := wheelSlot("2025-03-03", "10:00", 8)
	enriched, err := availability.Enrich([]schedule.Slot{slot}, nil, 1)
	require.NoError(t, err)

	idx := availability.Index(enriched)

	got, ok := idx[slot.Key()]
	require.True(t, ok)
	assert.Equal(t, 8, got.Available)

	_, missing := idx[schedule.SlotKey{Date: "2025-03-04", Time: "10:00", Technique: schedule.TechniquePottersWheel}]
	assert.False(t, missing)
}
