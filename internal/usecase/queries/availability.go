package queries

import (
	"context"
	"log/slog"
	"time"

	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/domain/availability"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/domain/schedule"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/infra"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/pkg/clock"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/pkg/config"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/pkg/errs"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/usecase/shared"

	"github.com/google/uuid"
)

type AvailabilityQueries interface {
	// ListAvailableSlots runs the generator → aggregator pipeline over the
	// live ledger. When the ledger cannot be loaded it fails closed: every
	// slot renders fully booked and the result is marked Degraded so the
	// caller retries instead of overselling.
	ListAvailableSlots(ctx context.Context, productID uuid.UUID, from string, days int) (*AvailabilityResult, error)
}

type availabilityQueriesImpl struct {
	reads shared.CommandReads
	clock clock.Clock
	cfg   config.BookingConfig
}

func NewAvailabilityQueries(reads shared.CommandReads, clk clock.Clock, cfg config.BookingConfig) AvailabilityQueries {
	return &availabilityQueriesImpl{reads: reads, clock: clk, cfg: cfg}
}

func (q *availabilityQueriesImpl) ListAvailableSlots(ctx context.Context, productID uuid.UUID, from string, days int) (*AvailabilityResult, error) {
	snapshot, err := q.reads.ProductByID(ctx, productID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrProductNotFound
		}
		return nil, errs.Mark(err, errs.ErrTransientStore)
	}
	prod, err := snapshot.ToDomain()
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}

	now := q.clock.Now()
	windowStart := now
	if from != "" {
		parsed, parseErr := time.ParseInLocation(schedule.DateLayout, from, time.UTC)
		if parseErr != nil {
			return nil, errs.Mark(parseErr, errs.ErrValidation)
		}
		windowStart = parsed
	}
	if days <= 0 || days > q.cfg.HorizonDays {
		days = q.cfg.HorizonDays
	}

	sched, err := q.reads.Schedule(ctx)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrTransientStore)
	}

	slots := schedule.GenerateSlots(sched.Rules, sched.Overrides, windowStart, days)
	slots = filterTechnique(slots, prod.Technique())

	toDate := windowStart.AddDate(0, 0, days).Format(schedule.DateLayout)
	ledger, err := q.reads.Ledger(ctx, shared.LedgerQuery{
		Now:       now,
		FromDate:  windowStart.Format(schedule.DateLayout),
		ToDate:    toDate,
		Technique: prod.Technique(),
	})
	if err != nil {
		slog.Warn("ledger load failed, failing closed", "error", err.Error())
		closed := availability.FailClosed(slots, prod.CapacityUnitSize())
		return &AvailabilityResult{Slots: toSlotViews(closed), Degraded: true}, nil
	}

	enriched, err := availability.Enrich(slots, ledger, prod.CapacityUnitSize())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvariantBreach)
	}

	return &AvailabilityResult{Slots: toSlotViews(enriched)}, nil
}

func filterTechnique(slots []schedule.Slot, technique schedule.Technique) []schedule.Slot {
	if technique == "" {
		return slots
	}
	filtered := slots[:0:0]
	for _, slot := range slots {
		if slot.Technique == technique {
			filtered = append(filtered, slot)
		}
	}
	return filtered
}

func toSlotViews(enriched []availability.EnrichedSlot) []EnrichedSlotView {
	views := make([]EnrichedSlotView, len(enriched))
	for i, slot := range enriched {
		views[i] = EnrichedSlotView{
			Date:         slot.Date,
			Time:         slot.Time,
			InstructorID: slot.InstructorID,
			Technique:    string(slot.Technique),
			PaidCount:    slot.PaidUnits,
			TotalCount:   slot.TotalUnits,
			MaxCapacity:  slot.MaxUnits,
			Available:    slot.Available,
			IsAvailable:  slot.IsAvailable,
		}
	}
	return views
}
