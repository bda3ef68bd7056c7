package schedule

import (
	"sort"
	"time"
)

// GenerateSlots produces the concrete slots for every day in
// [windowStart, windowStart+windowDays). Pure: the same rules, overrides and
// window always yield identical output, so callers may regenerate freely
// instead of caching.
//
// A rule with capacity 0 still emits its slot so a cancelled-but-visible
// class can render; availability resolves to false for it downstream. A
// blocked date emits nothing, including its extra slots. Capacity overrides
// win over the rule default.
func GenerateSlots(rules []RecurringRule, overrides []Override, windowStart time.Time, windowDays int) []Slot {
	byDate := make(map[string]Override, len(overrides))
	for _, ov := range overrides {
		byDate[ov.Date] = ov
	}

	day := time.Date(windowStart.Year(), windowStart.Month(), windowStart.Day(), 0, 0, 0, 0, time.UTC)

	var slots []Slot
	for i := 0; i < windowDays; i++ {
		date := day.AddDate(0, 0, i)
		dateStr := date.Format(DateLayout)

		ov, hasOverride := byDate[dateStr]
		if hasOverride && ov.Blocked {
			continue
		}

		var daySlots []Slot
		for _, rule := range rules {
			if rule.DayOfWeek != date.Weekday() {
				continue
			}
			capacity := rule.Capacity
			if hasOverride {
				if adjusted, ok := ov.CapacityByTime[rule.Time]; ok {
					capacity = adjusted
				}
			}
			daySlots = append(daySlots, Slot{
				Date:         dateStr,
				Time:         rule.Time,
				InstructorID: rule.InstructorID,
				Technique:    rule.Technique,
				Capacity:     capacity,
			})
		}

		if hasOverride {
			for _, extra := range ov.ExtraSlots {
				daySlots = append(daySlots, Slot{
					Date:         dateStr,
					Time:         extra.Time,
					InstructorID: extra.InstructorID,
					Technique:    extra.Technique,
					Capacity:     extra.Capacity,
				})
			}
		}

		sort.Slice(daySlots, func(a, b int) bool {
			return daySlots[a].Time < daySlots[b].Time
		})
		slots = append(slots, daySlots...)
	}

	return slots
}
