package commands

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/domain/availability"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/domain/booking"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/domain/giftcard"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/domain/product"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/domain/schedule"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/infra"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/pkg/bookingcode"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/pkg/clock"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/pkg/config"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/pkg/errs"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/usecase/shared"

	"github.com/google/uuid"
)

type ValidateSelectionParams struct {
	ProductID uuid.UUID
	Mode      booking.Mode
	Slots     []booking.SlotRef
}

type SubmitBookingParams struct {
	ProductID        uuid.UUID
	Mode             booking.Mode
	Slots            []booking.SlotRef
	Customer         booking.CustomerInfo
	GiftcardCode     *string
	GiftcardHoldID   *uuid.UUID
	AcceptedNoRefund bool
}

type SubmitBookingResult struct {
	BookingID           uuid.UUID
	BookingCode         string
	PendingBalanceCents int64
	RequiresNoRefundAck bool
	ExpiresAt           time.Time
}

type PaymentInput struct {
	AmountCents int64
	Method      booking.PaymentMethod
	ReceivedAt  time.Time
}

type BookingCommands interface {
	// ValidateSelection checks a candidate pick set at selection time. The
	// same checks run again inside the submission transaction, because time
	// passes between browsing and confirming.
	ValidateSelection(ctx context.Context, params ValidateSelectionParams) error
	SubmitBooking(ctx context.Context, params SubmitBookingParams) (*SubmitBookingResult, error)
	ConfirmPayment(ctx context.Context, bookingID uuid.UUID, payments []PaymentInput) error
	CancelBooking(ctx context.Context, bookingID uuid.UUID, reason string) error
	DeletePaymentDetail(ctx context.Context, bookingID, paymentID uuid.UUID, reason string) error
}

type bookingCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
	cfg   config.BookingConfig
}

func NewBookingCommands(uow shared.UnitOfWork, clk clock.Clock, cfg config.BookingConfig) BookingCommands {
	return &bookingCommandsImpl{uow: uow, clock: clk, cfg: cfg}
}

func (c *bookingCommandsImpl) ValidateSelection(ctx context.Context, params ValidateSelectionParams) error {
	prod, err := c.loadProduct(ctx, c.uow.CommandReads(), params.ProductID)
	if err != nil {
		return err
	}

	_, err = c.checkSelection(ctx, c.uow.CommandReads(), prod, params.Mode, params.Slots, false)
	return err
}

func (c *bookingCommandsImpl) SubmitBooking(ctx context.Context, params SubmitBookingParams) (*SubmitBookingResult, error) {
	prod, err := c.loadProduct(ctx, c.uow.CommandReads(), params.ProductID)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()

	flagged, err := booking.RequiresNoRefundAcceptance(params.Slots, now, time.Duration(c.cfg.NoRefundHorizonHours)*time.Hour)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}
	if flagged && !params.AcceptedNoRefund {
		return nil, errs.ErrPolicyViolation
	}

	code, err := bookingcode.Generate()
	if err != nil {
		return nil, err
	}

	var result *SubmitBookingResult
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// Opportunistic expiry: abandoned pre-reservations stop counting
		// before capacity is re-checked.
		if _, sweepErr := tx.Bookings().SweepDue(ctx, now, c.cfg.SweepBatchSize); sweepErr != nil {
			return wrapStoreErr(sweepErr)
		}

		expanded, selErr := c.checkSelectionTx(ctx, tx, prod, params.Mode, params.Slots)
		if selErr != nil {
			return selErr
		}

		entity, newErr := booking.NewBooking(
			code,
			prod.ID(),
			prod.Kind(),
			params.Mode,
			expanded,
			params.Customer,
			prod.PriceCents(),
			params.AcceptedNoRefund,
			now,
		)
		if newErr != nil {
			return errs.Mark(newErr, errs.ErrValidation)
		}
		if preErr := entity.PreReserve(now.Add(c.cfg.PreReservationTTL), now); preErr != nil {
			return errs.Mark(preErr, errs.ErrInvalidTransition)
		}

		heldCents, holdErr := c.attachGiftcard(ctx, tx, entity, params, now)
		if holdErr != nil {
			return holdErr
		}

		if createErr := tx.Bookings().Create(ctx, entity); createErr != nil {
			if infra.IsKind(createErr, infra.KindSerialization) {
				return errs.Mark(createErr, errs.ErrCapacityConflict)
			}
			return wrapStoreErr(createErr)
		}

		result = &SubmitBookingResult{
			BookingID:           entity.ID(),
			BookingCode:         entity.BookingCode(),
			PendingBalanceCents: maxInt64(entity.PendingBalanceCents()-heldCents, 0),
			RequiresNoRefundAck: flagged,
			ExpiresAt:           *entity.ExpiresAt(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *bookingCommandsImpl) ConfirmPayment(ctx context.Context, bookingID uuid.UUID, payments []PaymentInput) error {
	if len(payments) == 0 {
		return errs.Mark(errors.New("at least one payment is required"), errs.ErrValidation)
	}
	now := c.clock.Now()

	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := c.bookingForUpdate(ctx, tx, bookingID)
		if err != nil {
			return err
		}

		// Lazy expiry: touching a due booking transitions it before anything
		// else happens to it.
		if entity.IsDue(now) {
			if expErr := c.expireWithHold(ctx, tx, entity, now); expErr != nil {
				return expErr
			}
			return errs.ErrBookingExpired
		}

		for _, input := range payments {
			receivedAt := input.ReceivedAt
			if receivedAt.IsZero() {
				receivedAt = now
			}
			detail := booking.PaymentDetail{
				ID:          uuid.New(),
				AmountCents: input.AmountCents,
				Method:      input.Method,
				ReceivedAt:  receivedAt,
			}
			if appendErr := entity.AppendPayment(detail, now); appendErr != nil {
				return errs.Mark(appendErr, errs.ErrValidation)
			}
			if insErr := tx.Bookings().InsertPayment(ctx, entity.ID(), detail); insErr != nil {
				return wrapStoreErr(insErr)
			}
		}

		// The gift-card hold is consumed atomically with the paid
		// transition: both inside this transaction or neither.
		if holdID := entity.GiftcardHoldID(); holdID != nil {
			if err := c.consumeHold(ctx, tx, entity, *holdID, now); err != nil {
				return err
			}
		}

		if confErr := entity.ConfirmPaid(now); confErr != nil {
			return errs.Mark(confErr, errs.ErrInvalidTransition)
		}
		if updErr := tx.Bookings().UpdateState(ctx, entity); updErr != nil {
			return wrapStoreErr(updErr)
		}

		payload, _ := json.Marshal(map[string]any{
			"booking_id":   entity.ID(),
			"booking_code": entity.BookingCode(),
			"type":         "booking_confirmed",
		})
		if jobErr := tx.Notifications().CreateJob(ctx, "email", "booking_confirmed", payload, now); jobErr != nil {
			return wrapStoreErr(jobErr)
		}
		return nil
	})
}

func (c *bookingCommandsImpl) CancelBooking(ctx context.Context, bookingID uuid.UUID, reason string) error {
	now := c.clock.Now()
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := c.bookingForUpdate(ctx, tx, bookingID)
		if err != nil {
			return err
		}

		if cancelErr := entity.Cancel(reason, now); cancelErr != nil {
			if errors.Is(cancelErr, booking.ErrNoReason) {
				return errs.Mark(cancelErr, errs.ErrReasonRequired)
			}
			return errs.Mark(cancelErr, errs.ErrInvalidTransition)
		}

		if holdID := entity.GiftcardHoldID(); holdID != nil {
			if relErr := releaseHoldInTx(ctx, tx, *holdID, now); relErr != nil {
				return relErr
			}
		}

		if updErr := tx.Bookings().UpdateState(ctx, entity); updErr != nil {
			return wrapStoreErr(updErr)
		}
		return nil
	})
}

func (c *bookingCommandsImpl) DeletePaymentDetail(ctx context.Context, bookingID, paymentID uuid.UUID, reason string) error {
	now := c.clock.Now()
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := c.bookingForUpdate(ctx, tx, bookingID)
		if err != nil {
			return err
		}

		if _, remErr := entity.RemovePayment(paymentID, reason, now); remErr != nil {
			switch {
			case errors.Is(remErr, booking.ErrNoReason):
				return errs.Mark(remErr, errs.ErrReasonRequired)
			case errors.Is(remErr, booking.ErrPaymentMissing):
				return errs.Mark(remErr, errs.ErrPaymentNotFound)
			default:
				return errs.Mark(remErr, errs.ErrInvalidTransition)
			}
		}

		if delErr := tx.Bookings().DeletePayment(ctx, bookingID, paymentID, reason); delErr != nil {
			return wrapStoreErr(delErr)
		}
		if updErr := tx.Bookings().UpdateState(ctx, entity); updErr != nil {
			return wrapStoreErr(updErr)
		}
		return nil
	})
}

// checkSelectionTx locks the candidate slots, then re-validates the
// selection against the in-transaction ledger so the capacity decision is
// never stale by the time the booking row lands.
func (c *bookingCommandsImpl) checkSelectionTx(ctx context.Context, tx shared.Tx, prod *product.Product, mode booking.Mode, picks []booking.SlotRef) ([]booking.SlotRef, error) {
	expanded, err := expandSelection(mode, picks)
	if err != nil {
		return nil, err
	}
	if len(expanded) > 0 {
		keys := slotKeys(expanded, prod.Technique())
		if lockErr := tx.LockSlots(ctx, keys); lockErr != nil {
			return nil, wrapStoreErr(lockErr)
		}
	}
	return c.checkSelection(ctx, tx.Reads(), prod, mode, picks, true)
}

// checkSelection validates mode support, pick shape, window policy and
// availability. atSubmission switches the availability failure kind from
// "pick something else" to the capacity-race conflict.
func (c *bookingCommandsImpl) checkSelection(ctx context.Context, reads shared.CommandReads, prod *product.Product, mode booking.Mode, picks []booking.SlotRef, atSubmission bool) ([]booking.SlotRef, error) {
	if !mode.IsValid() {
		return nil, errs.Mark(booking.ErrInvalidMode, errs.ErrValidation)
	}
	if mode == booking.ModeMonthly && !prod.SupportsMonthlyMode() {
		return nil, errs.ErrModeNotAllowed
	}
	if mode == booking.ModeFlexible && !prod.SupportsFlexibleMode() {
		return nil, errs.ErrModeNotAllowed
	}

	if len(picks) == 0 {
		// Date-to-be-coordinated: allowed only for products that defer
		// slots; consumes no capacity until slots are attached.
		if prod.AllowsDeferredSlots() {
			return nil, nil
		}
		return nil, errs.Mark(booking.ErrWrongSlotCount, errs.ErrValidation)
	}

	for _, pick := range picks {
		if err := pick.Validate(); err != nil {
			return nil, errs.Mark(err, errs.ErrValidation)
		}
	}

	expanded, err := expandSelection(mode, picks)
	if err != nil {
		return nil, err
	}

	idx, err := c.enrichedIndex(ctx, reads, prod, expanded)
	if err != nil {
		return nil, err
	}

	switch mode {
	case booking.ModeFlexible:
		err = booking.ValidateFlexibleSelection(picks, prod.SessionCount(), c.cfg.FlexibleWindowDays, prod.Technique(), idx)
	case booking.ModeMonthly:
		err = booking.ValidateMonthlySelection(expanded, prod.Technique(), idx)
	}
	if err != nil {
		return nil, mapPolicyErr(err, atSubmission)
	}
	return expanded, nil
}

func (c *bookingCommandsImpl) enrichedIndex(ctx context.Context, reads shared.CommandReads, prod *product.Product, refs []booking.SlotRef) (map[schedule.SlotKey]availability.EnrichedSlot, error) {
	sched, err := reads.Schedule(ctx)
	if err != nil {
		return nil, wrapStoreErr(err)
	}

	now := c.clock.Now()
	slots := schedule.GenerateSlots(sched.Rules, sched.Overrides, now, c.cfg.HorizonDays)
	slots = filterTechnique(slots, prod.Technique())

	keys := slotKeys(refs, prod.Technique())
	ledger, err := reads.Ledger(ctx, shared.LedgerQuery{Now: now, Keys: keys, Technique: prod.Technique()})
	if err != nil {
		// Fail closed: without the ledger no slot may be promised.
		return nil, errs.Mark(err, errs.ErrTransientStore)
	}

	enriched, err := availability.Enrich(slots, ledger, prod.CapacityUnitSize())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvariantBreach)
	}
	return availability.Index(enriched), nil
}

func (c *bookingCommandsImpl) attachGiftcard(ctx context.Context, tx shared.Tx, entity *booking.Booking, params SubmitBookingParams, now time.Time) (int64, error) {
	switch {
	case params.GiftcardHoldID != nil:
		card, err := tx.Giftcards().GetByHoldForUpdate(ctx, *params.GiftcardHoldID)
		if err != nil {
			return 0, mapGiftcardLookupErr(err)
		}
		if attachErr := card.AttachHold(*params.GiftcardHoldID, entity.ID(), now); attachErr != nil {
			return 0, mapHoldErr(attachErr)
		}
		hold := findHold(card, *params.GiftcardHoldID)
		if updErr := tx.Giftcards().UpdateHold(ctx, *hold); updErr != nil {
			return 0, wrapStoreErr(updErr)
		}
		if bindErr := entity.AttachGiftcardHold(hold.ID, now); bindErr != nil {
			return 0, errs.Mark(bindErr, errs.ErrValidation)
		}
		return hold.AmountCents, nil

	case params.GiftcardCode != nil:
		card, err := tx.Giftcards().GetByCodeForUpdate(ctx, *params.GiftcardCode)
		if err != nil {
			return 0, mapGiftcardLookupErr(err)
		}
		for _, expiredID := range card.ExpireDueHolds(now) {
			if updErr := tx.Giftcards().UpdateHold(ctx, *findHold(card, expiredID)); updErr != nil {
				return 0, wrapStoreErr(updErr)
			}
		}

		amount := minInt64(card.SpendableCents(now), entity.PriceCents())
		hold, holdErr := card.CreateHold(amount, now, c.cfg.GiftcardHoldTTL)
		if holdErr != nil {
			return 0, mapHoldErr(holdErr)
		}
		if attachErr := card.AttachHold(hold.ID, entity.ID(), now); attachErr != nil {
			return 0, mapHoldErr(attachErr)
		}
		if insErr := tx.Giftcards().InsertHold(ctx, *findHold(card, hold.ID)); insErr != nil {
			return 0, wrapStoreErr(insErr)
		}
		if bindErr := entity.AttachGiftcardHold(hold.ID, now); bindErr != nil {
			return 0, errs.Mark(bindErr, errs.ErrValidation)
		}
		return hold.AmountCents, nil

	default:
		return 0, nil
	}
}

func (c *bookingCommandsImpl) consumeHold(ctx context.Context, tx shared.Tx, entity *booking.Booking, holdID uuid.UUID, now time.Time) error {
	card, err := tx.Giftcards().GetByHoldForUpdate(ctx, holdID)
	if err != nil {
		return mapGiftcardLookupErr(err)
	}

	redemption, consumedNow, err := card.ConsumeHold(holdID, entity.ID(), now)
	if err != nil {
		return mapHoldErr(err)
	}
	if !consumedNow {
		return nil
	}

	if updErr := tx.Giftcards().UpdateHold(ctx, *findHold(card, holdID)); updErr != nil {
		return wrapStoreErr(updErr)
	}
	if insErr := tx.Giftcards().InsertRedemption(ctx, redemption); insErr != nil {
		return wrapStoreErr(insErr)
	}

	detail := booking.PaymentDetail{
		ID:                  uuid.New(),
		AmountCents:         redemption.AmountCents,
		Method:              booking.MethodGiftcard,
		ReceivedAt:          now,
		GiftcardID:          &redemption.GiftcardID,
		GiftcardAmountCents: &redemption.AmountCents,
	}
	if appendErr := entity.AppendPayment(detail, now); appendErr != nil {
		return errs.Mark(appendErr, errs.ErrValidation)
	}
	if insErr := tx.Bookings().InsertPayment(ctx, entity.ID(), detail); insErr != nil {
		return wrapStoreErr(insErr)
	}
	return nil
}

func releaseHoldInTx(ctx context.Context, tx shared.Tx, holdID uuid.UUID, now time.Time) error {
	card, err := tx.Giftcards().GetByHoldForUpdate(ctx, holdID)
	if err != nil {
		return mapGiftcardLookupErr(err)
	}
	if relErr := card.ReleaseHold(holdID, now); relErr != nil {
		// A consumed hold stays consumed; everything else is idempotent.
		if errors.Is(relErr, giftcard.ErrHoldNotActive) {
			return nil
		}
		return mapHoldErr(relErr)
	}
	return wrapStoreErrNil(tx.Giftcards().UpdateHold(ctx, *findHold(card, holdID)))
}

func (c *bookingCommandsImpl) expireWithHold(ctx context.Context, tx shared.Tx, entity *booking.Booking, now time.Time) error {
	if expErr := entity.Expire(now); expErr != nil {
		return errs.Mark(expErr, errs.ErrInvalidTransition)
	}
	if holdID := entity.GiftcardHoldID(); holdID != nil {
		if relErr := releaseHoldInTx(ctx, tx, *holdID, now); relErr != nil {
			return relErr
		}
	}
	return wrapStoreErrNil(tx.Bookings().UpdateState(ctx, entity))
}

func (c *bookingCommandsImpl) loadProduct(ctx context.Context, reads shared.CommandReads, productID uuid.UUID) (*product.Product, error) {
	snapshot, err := reads.ProductByID(ctx, productID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrProductNotFound
		}
		return nil, wrapStoreErr(err)
	}
	prod, err := snapshot.ToDomain()
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}
	return prod, nil
}

func (c *bookingCommandsImpl) bookingForUpdate(ctx context.Context, tx shared.Tx, bookingID uuid.UUID) (*booking.Booking, error) {
	entity, err := tx.Bookings().GetForUpdate(ctx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrBookingNotFound
		}
		return nil, wrapStoreErr(err)
	}
	return entity, nil
}

func expandSelection(mode booking.Mode, picks []booking.SlotRef) ([]booking.SlotRef, error) {
	if mode != booking.ModeMonthly {
		return picks, nil
	}
	expanded, err := booking.ExpandMonthlySelection(picks)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}
	return expanded, nil
}

func mapPolicyErr(err error, atSubmission bool) error {
	switch {
	case errors.Is(err, booking.ErrSlotFull), errors.Is(err, booking.ErrUnknownSlot):
		if atSubmission {
			return errs.Mark(err, errs.ErrCapacityConflict)
		}
		return errs.Mark(err, errs.ErrSlotUnavailable)
	case errors.Is(err, booking.ErrOutsideWindow):
		return errs.Mark(err, errs.ErrOutsideWindow)
	default:
		return errs.Mark(err, errs.ErrValidation)
	}
}

func mapGiftcardLookupErr(err error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return errs.ErrGiftcardNotFound
	}
	return wrapStoreErr(err)
}

func mapHoldErr(err error) error {
	switch {
	case errors.Is(err, giftcard.ErrInsufficientBalance), errors.Is(err, giftcard.ErrInvalidAmount):
		return errs.Mark(err, errs.ErrInsufficientBalance)
	case errors.Is(err, giftcard.ErrHoldExpired):
		return errs.Mark(err, errs.ErrHoldExpired)
	case errors.Is(err, giftcard.ErrHoldBookingMismatch), errors.Is(err, giftcard.ErrHoldAlreadyAttached):
		return errs.Mark(err, errs.ErrHoldAlreadyConsumed)
	case errors.Is(err, giftcard.ErrConservationBreach):
		return errs.Mark(err, errs.ErrInvariantBreach)
	case errors.Is(err, giftcard.ErrHoldNotFound):
		return errs.ErrGiftcardNotFound
	default:
		return errs.Mark(err, errs.ErrValidation)
	}
}

func wrapStoreErr(err error) error {
	return errs.Mark(err, errs.ErrTransientStore)
}

func wrapStoreErrNil(err error) error {
	if err == nil {
		return nil
	}
	return wrapStoreErr(err)
}

func slotKeys(refs []booking.SlotRef, technique schedule.Technique) []schedule.SlotKey {
	keys := make([]schedule.SlotKey, len(refs))
	for i, ref := range refs {
		keys[i] = ref.Key(technique)
	}
	sort.Slice(keys, func(a, b int) bool {
		if keys[a].Date != keys[b].Date {
			return keys[a].Date < keys[b].Date
		}
		return keys[a].Time < keys[b].Time
	})
	return keys
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

func findHold(card *giftcard.Giftcard, holdID uuid.UUID) *giftcard.Hold {
	holds := card.Holds()
	for i := range holds {
		if holds[i].ID == holdID {
			return &holds[i]
		}
	}
	return nil
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
