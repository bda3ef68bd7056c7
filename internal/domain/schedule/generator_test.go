//go:build unit

package schedule_test

import (
	"testing"
	"time"

	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/domain/schedule"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	monday      = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	instructorA = uuid.New()
	instructorB = uuid.New()
)

func mondayRule(timeStr string, capacity int) schedule.RecurringRule {
	return schedule.RecurringRule{
		ID:           uuid.New(),
		DayOfWeek:    time.Monday,
		Time:         timeStr,
		InstructorID: instructorA,
		Capacity:     capacity,
		Technique:    schedule.TechniquePottersWheel,
	}
}

func TestGenerateSlots(t *testing.T) {
	t.Run("weekly rule emits only on its weekday", func(t *testing.T) {
		rules := []schedule.RecurringRule{mondayRule("10:00", 8)}

		slots := schedule.GenerateSlots(rules, nil, monday, 14)

		require.Len(t, slots, 2)
		assert.Equal(t, "2025-03-03", slots[0].Date)
		assert.Equal(t, "2025-03-10", slots[1].Date)
		assert.Equal(t, "10:00", slots[0].Time)
		assert.Equal(t, 8, slots[0].Capacity)
		assert.Equal(t, schedule.TechniquePottersWheel, slots[0].Technique)
	})

	t.Run("zero capacity slot still renders", func(t *testing.T) {
		rules := []schedule.RecurringRule{mondayRule("10:00", 0)}

		slots := schedule.GenerateSlots(rules, nil, monday, 7)

		require.Len(t, slots, 1)
		assert.Equal(t, 0, slots[0].Capacity)
	})

	t.Run("blocked date suppresses rules and extra slots", func(t *testing.T) {
		rules := []schedule.RecurringRule{mondayRule("10:00", 8)}
		overrides := []schedule.Override{{
			Date:    "2025-03-03",
			Blocked: true,
			ExtraSlots: []schedule.ExtraSlot{
				{Time: "15:00", InstructorID: instructorB, Capacity: 4, Technique: schedule.TechniqueHandMolding},
			},
		}}

		slots := schedule.GenerateSlots(rules, overrides, monday, 14)

		require.Len(t, slots, 1)
		assert.Equal(t, "2025-03-10", slots[0].Date)
	})

	t.Run("capacity override wins for its time only", func(t *testing.T) {
		rules := []schedule.RecurringRule{mondayRule("10:00", 8), mondayRule("13:00", 8)}
		overrides := []schedule.Override{{
			Date:           "2025-03-03",
			CapacityByTime: map[string]int{"10:00": 2},
		}}

		slots := schedule.GenerateSlots(rules, overrides, monday, 14)

		require.Len(t, slots, 4)
		assert.Equal(t, 2, slots[0].Capacity) // 03-03 10:00 adjusted
		assert.Equal(t, 8, slots[1].Capacity) // 03-03 13:00 untouched
		assert.Equal(t, 8, slots[2].Capacity) // next week untouched
		assert.Equal(t, 8, slots[3].Capacity)
	})

	t.Run("extra slots merge into the day sorted by time", func(t *testing.T) {
		rules := []schedule.RecurringRule{mondayRule("13:00", 8)}
		overrides := []schedule.Override{{
			Date: "2025-03-03",
			ExtraSlots: []schedule.ExtraSlot{
				{Time: "09:30", InstructorID: instructorB, Capacity: 4, Technique: schedule.TechniqueIntroductory},
			},
		}}

		slots := schedule.GenerateSlots(rules, overrides, monday, 7)

		require.Len(t, slots, 2)
		assert.Equal(t, "09:30", slots[0].Time)
		assert.Equal(t, instructorB, slots[0].InstructorID)
		assert.Equal(t, "13:00", slots[1].Time)
	})

	t.Run("mid-day window start still includes the whole first day", func(t *testing.T) {
		rules := []schedule.RecurringRule{mondayRule("10:00", 8)}
		evening := time.Date(2025, 3, 3, 18, 30, 0, 0, time.UTC)

		slots := schedule.GenerateSlots(rules, nil, evening, 1)

		require.Len(t, slots, 1)
		assert.Equal(t, "2025-03-03", slots[0].Date)
	})

	t.Run("same inputs yield identical output", func(t *testing.T) {
		rules := []schedule.RecurringRule{mondayRule("10:00", 8), mondayRule("13:00", 6)}
		overrides := []schedule.Override{{Date: "2025-03-10", CapacityByTime: map[string]int{"13:00": 3}}}

		first := schedule.GenerateSlots(rules, overrides, monday, 21)
		second := schedule.GenerateSlots(rules, overrides, monday, 21)

		assert.Equal(t, first, second)
	})
}
