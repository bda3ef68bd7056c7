package readstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/domain/schedule"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/infra"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/infra/db"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/usecase/queries"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/usecase/shared"

	"github.com/google/uuid"
)

// ScheduleReadStore loads the weekly rules and date overrides. The same rows
// back both the command-side snapshot (domain types, fed to the generator)
// and the staff-facing list views.
type ScheduleReadStore struct {
	db db.DBTX
}

func NewScheduleReadStore(dbtx db.DBTX) *ScheduleReadStore {
	return &ScheduleReadStore{db: dbtx}
}

func (s *ScheduleReadStore) Load(ctx context.Context) (*shared.ScheduleSnapshot, error) {
	rules, err := s.loadRules(ctx)
	if err != nil {
		return nil, err
	}
	overrides, err := s.loadOverrides(ctx)
	if err != nil {
		return nil, err
	}
	return &shared.ScheduleSnapshot{Rules: rules, Overrides: overrides}, nil
}

func (s *ScheduleReadStore) ListRules(ctx context.Context) ([]queries.RecurringRuleView, error) {
	rules, err := s.loadRules(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]queries.RecurringRuleView, len(rules))
	for i, r := range rules {
		views[i] = queries.RecurringRuleView{
			ID:           r.ID,
			DayOfWeek:    int(r.DayOfWeek),
			Time:         r.Time,
			InstructorID: r.InstructorID,
			Capacity:     r.Capacity,
			Technique:    string(r.Technique),
		}
	}
	return views, nil
}

func (s *ScheduleReadStore) ListOverrides(ctx context.Context) ([]queries.OverrideView, error) {
	overrides, err := s.loadOverrides(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]queries.OverrideView, len(overrides))
	for i, o := range overrides {
		views[i] = queries.OverrideView{
			Date:           o.Date,
			Blocked:        o.Blocked,
			CapacityByTime: o.CapacityByTime,
		}
	}
	return views, nil
}

func (s *ScheduleReadStore) loadRules(ctx context.Context) ([]schedule.RecurringRule, error) {
	const query = `
		SELECT id, day_of_week, time_of_day, instructor_id, capacity, technique
		FROM recurring_rules
		ORDER BY day_of_week, time_of_day`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load recurring rules", err)
	}
	defer rows.Close()

	var rules []schedule.RecurringRule
	for rows.Next() {
		var (
			r         schedule.RecurringRule
			day       int
			technique string
		)
		if err := rows.Scan(&r.ID, &day, &r.Time, &r.InstructorID, &r.Capacity, &technique); err != nil {
			return nil, infra.WrapRepoErr("failed to scan recurring rule", err)
		}
		r.DayOfWeek = time.Weekday(day)
		r.Technique = schedule.Technique(technique)
		rules = append(rules, r)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read recurring rules", err)
	}
	return rules, nil
}

func (s *ScheduleReadStore) loadOverrides(ctx context.Context) ([]schedule.Override, error) {
	const query = `
		SELECT date, blocked, capacity_by_time, extra_slots
		FROM schedule_overrides
		ORDER BY date`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load schedule overrides", err)
	}
	defer rows.Close()

	var overrides []schedule.Override
	for rows.Next() {
		var (
			o            schedule.Override
			capacityJSON []byte
			extrasJSON   []byte
		)
		if err := rows.Scan(&o.Date, &o.Blocked, &capacityJSON, &extrasJSON); err != nil {
			return nil, infra.WrapRepoErr("failed to scan schedule override", err)
		}
		if len(capacityJSON) > 0 {
			if err := json.Unmarshal(capacityJSON, &o.CapacityByTime); err != nil {
				return nil, infra.WrapRepoErr("failed to decode capacity overrides", err)
			}
		}
		if len(extrasJSON) > 0 {
			var extras []extraSlotRow
			if err := json.Unmarshal(extrasJSON, &extras); err != nil {
				return nil, infra.WrapRepoErr("failed to decode extra slots", err)
			}
			for _, e := range extras {
				o.ExtraSlots = append(o.ExtraSlots, schedule.ExtraSlot{
					Time:         e.Time,
					InstructorID: e.InstructorID,
					Capacity:     e.Capacity,
					Technique:    schedule.Technique(e.Technique),
				})
			}
		}
		overrides = append(overrides, o)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read schedule overrides", err)
	}
	return overrides, nil
}

type extraSlotRow struct {
	Time         string    `json:"time"`
	InstructorID uuid.UUID `json:"instructor_id"`
	Capacity     int       `json:"capacity"`
	Technique    string    `json:"technique"`
}
