package queries

import (
	"context"

	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/pkg/errs"
)

// ScheduleReadStore is the staff-facing read boundary over the weekly rules
// and their per-date overrides.
type ScheduleReadStore interface {
	ListRules(ctx context.Context) ([]RecurringRuleView, error)
	ListOverrides(ctx context.Context) ([]OverrideView, error)
}

type ScheduleQueries interface {
	ListRules(ctx context.Context) ([]RecurringRuleView, error)
	ListOverrides(ctx context.Context) ([]OverrideView, error)
}

type scheduleQueriesImpl struct {
	store ScheduleReadStore
}

func NewScheduleQueries(store ScheduleReadStore) ScheduleQueries {
	return &scheduleQueriesImpl{store: store}
}

func (q *scheduleQueriesImpl) ListRules(ctx context.Context) ([]RecurringRuleView, error) {
	views, err := q.store.ListRules(ctx)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrTransientStore)
	}
	return views, nil
}

func (q *scheduleQueriesImpl) ListOverrides(ctx context.Context) ([]OverrideView, error) {
	views, err := q.store.ListOverrides(ctx)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrTransientStore)
	}
	return views, nil
}
