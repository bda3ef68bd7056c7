//go:build unit

package commands_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/domain/availability"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/domain/booking"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/domain/giftcard"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/domain/schedule"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/infra"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/pkg/clock"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/pkg/config"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/usecase/shared"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var (
	baseNow      = time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	instructorID = uuid.New()
	wheel        = schedule.TechniquePottersWheel
	molding      = schedule.TechniqueHandMolding
)

var errNoRows = errors.New("no rows in result set")

// fakeStore is the in-memory backing for the unit-of-work fake. The mutex
// plays the role of the per-slot advisory locks: each Within call owns the
// whole store for its duration, so concurrent submissions are serialized the
// same way competing transactions are.
type fakeStore struct {
	mu        sync.Mutex
	products  map[uuid.UUID]shared.ProductSnapshot
	rules     []schedule.RecurringRule
	overrides []schedule.Override
	bookings  map[uuid.UUID]*booking.Booking
	cards     map[uuid.UUID]*giftcard.Giftcard
	jobs      []notificationJob
	audits    []string
	ledgerErr error
}

type notificationJob struct {
	kind  string
	topic string
}

func newStore() *fakeStore {
	return &fakeStore{
		products: make(map[uuid.UUID]shared.ProductSnapshot),
		bookings: make(map[uuid.UUID]*booking.Booking),
		cards:    make(map[uuid.UUID]*giftcard.Giftcard),
	}
}

func (s *fakeStore) addProduct(kind string, priceCents int64, sessions, unitSize int, technique schedule.Technique) uuid.UUID {
	id := uuid.New()
	s.products[id] = shared.ProductSnapshot{
		ID:           id,
		Name:         "Test " + kind,
		Kind:         kind,
		PriceCents:   priceCents,
		SessionCount: sessions,
		UnitSize:     unitSize,
		Technique:    technique,
	}
	return id
}

func (s *fakeStore) addMondayRule(timeStr string, capacity int, technique schedule.Technique) {
	s.rules = append(s.rules, schedule.RecurringRule{
		ID:           uuid.New(),
		DayOfWeek:    time.Monday,
		Time:         timeStr,
		InstructorID: instructorID,
		Capacity:     capacity,
		Technique:    technique,
	})
}

func (s *fakeStore) addCard(card *giftcard.Giftcard) {
	s.cards[card.ID()] = card
}

func (s *fakeStore) jobTopics() []string {
	topics := make([]string, len(s.jobs))
	for i, job := range s.jobs {
		topics[i] = job.topic
	}
	return topics
}

// seedPreReserved plants a live pre-reservation directly in the store.
func seedPreReserved(t *testing.T, s *fakeStore, productID uuid.UUID, priceCents int64, slots []booking.SlotRef, ttl time.Duration) *booking.Booking {
	t.Helper()
	entity, err := builder.NewBookingBuilder().
		With(func(b *builder.BookingBuilder) {
			b.ProductID = productID
			b.Slots = slots
			b.PriceCents = priceCents
			b.Now = baseNow
			b.PreReserveTTL = ttl
		}).
		BuildPreReserved()
	require.NoError(t, err)
	s.bookings[entity.ID()] = entity
	return entity
}

func seedPaid(t *testing.T, s *fakeStore, productID uuid.UUID, priceCents int64, slots []booking.SlotRef) *booking.Booking {
	t.Helper()
	entity := seedPreReserved(t, s, productID, priceCents, slots, 24*time.Hour)
	payment := booking.PaymentDetail{ID: uuid.New(), AmountCents: priceCents, Method: booking.MethodCash, ReceivedAt: baseNow}
	require.NoError(t, entity.AppendPayment(payment, baseNow))
	require.NoError(t, entity.ConfirmPaid(baseNow))
	return entity
}

func slotAt(date, timeStr string) booking.SlotRef {
	return booking.SlotRef{Date: date, Time: timeStr, InstructorID: instructorID}
}

func testBookingConfig() config.BookingConfig {
	return config.NewTestConfig().Booking
}

func newMockClock() *clock.MockClock {
	return clock.NewMockClock(baseNow)
}

func notFound(what string) error {
	return infra.WrapRepoErr(what+" not found", errNoRows, infra.KindNotFound)
}

// --- unit of work ---

type fakeUoW struct {
	store *fakeStore
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	return fn(ctx, &fakeTx{store: u.store})
}

func (u *fakeUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, reads shared.CommandReads) error) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	return fn(ctx, &fakeReads{store: u.store})
}

func (u *fakeUoW) CommandReads() shared.CommandReads {
	return &fakeReads{store: u.store}
}

type fakeTx struct {
	store *fakeStore
}

func (t *fakeTx) Bookings() shared.BookingRepository { return &fakeBookingRepo{store: t.store} }
func (t *fakeTx) Giftcards() shared.GiftcardRepository { return &fakeGiftcardRepo{store: t.store} }
func (t *fakeTx) Notifications() shared.NotificationRepository {
	return &fakeNotificationRepo{store: t.store}
}
func (t *fakeTx) Reads() shared.CommandReads { return &fakeReads{store: t.store} }

func (t *fakeTx) LockSlots(_ context.Context, _ []schedule.SlotKey) error {
	// The store mutex already serializes the whole transaction.
	return nil
}

// --- repositories ---

type fakeBookingRepo struct {
	store *fakeStore
}

func (r *fakeBookingRepo) Create(_ context.Context, b *booking.Booking) error {
	if _, exists := r.store.bookings[b.ID()]; exists {
		return infra.WrapRepoErr("booking already exists", errNoRows, infra.KindDuplicateKey)
	}
	r.store.bookings[b.ID()] = b
	return nil
}

func (r *fakeBookingRepo) GetForUpdate(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	b, ok := r.store.bookings[id]
	if !ok {
		return nil, notFound("booking")
	}
	return b, nil
}

func (r *fakeBookingRepo) UpdateState(_ context.Context, b *booking.Booking) error {
	if _, ok := r.store.bookings[b.ID()]; !ok {
		return notFound("booking")
	}
	return nil
}

func (r *fakeBookingRepo) InsertPayment(_ context.Context, bookingID uuid.UUID, _ booking.PaymentDetail) error {
	if _, ok := r.store.bookings[bookingID]; !ok {
		return notFound("booking")
	}
	return nil
}

func (r *fakeBookingRepo) DeletePayment(_ context.Context, bookingID, _ uuid.UUID, reason string) error {
	if _, ok := r.store.bookings[bookingID]; !ok {
		return notFound("booking")
	}
	r.store.audits = append(r.store.audits, reason)
	return nil
}

func (r *fakeBookingRepo) SweepDue(_ context.Context, now time.Time, limit int) ([]shared.ExpiredBooking, error) {
	var swept []shared.ExpiredBooking
	for _, b := range r.store.bookings {
		if len(swept) >= limit {
			break
		}
		if !b.IsDue(now) {
			continue
		}
		holdID := b.GiftcardHoldID()
		if err := b.Expire(now); err != nil {
			return nil, infra.WrapRepoErr("failed to expire booking", err)
		}
		swept = append(swept, shared.ExpiredBooking{BookingID: b.ID(), GiftcardHoldID: holdID})
	}
	return swept, nil
}

type fakeGiftcardRepo struct {
	store *fakeStore
}

func (r *fakeGiftcardRepo) GetByCodeForUpdate(_ context.Context, code string) (*giftcard.Giftcard, error) {
	for _, card := range r.store.cards {
		if card.Code() == code {
			return card, nil
		}
	}
	return nil, notFound("gift card")
}

func (r *fakeGiftcardRepo) GetByHoldForUpdate(_ context.Context, holdID uuid.UUID) (*giftcard.Giftcard, error) {
	for _, card := range r.store.cards {
		for _, hold := range card.Holds() {
			if hold.ID == holdID {
				return card, nil
			}
		}
	}
	return nil, notFound("gift card")
}

func (r *fakeGiftcardRepo) InsertHold(_ context.Context, _ giftcard.Hold) error { return nil }
func (r *fakeGiftcardRepo) UpdateHold(_ context.Context, _ giftcard.Hold) error { return nil }
func (r *fakeGiftcardRepo) InsertRedemption(_ context.Context, _ giftcard.Redemption) error {
	return nil
}

type fakeNotificationRepo struct {
	store *fakeStore
}

func (r *fakeNotificationRepo) CreateJob(_ context.Context, kind, topic string, _ []byte, _ time.Time) error {
	r.store.jobs = append(r.store.jobs, notificationJob{kind: kind, topic: topic})
	return nil
}

// --- command reads ---

type fakeReads struct {
	store *fakeStore
}

func (r *fakeReads) ProductByID(_ context.Context, id uuid.UUID) (*shared.ProductSnapshot, error) {
	snap, ok := r.store.products[id]
	if !ok {
		return nil, notFound("product")
	}
	return &snap, nil
}

func (r *fakeReads) Schedule(_ context.Context) (*shared.ScheduleSnapshot, error) {
	return &shared.ScheduleSnapshot{Rules: r.store.rules, Overrides: r.store.overrides}, nil
}

func (r *fakeReads) Ledger(_ context.Context, q shared.LedgerQuery) ([]availability.LedgerEntry, error) {
	if r.store.ledgerErr != nil {
		return nil, r.store.ledgerErr
	}
	var entries []availability.LedgerEntry
	for _, b := range r.store.bookings {
		if !b.ConsumesCapacity(q.Now) {
			continue
		}
		prod, ok := r.store.products[b.ProductID()]
		if !ok {
			continue
		}
		for _, ref := range b.Slots() {
			key := ref.Key(prod.Technique)
			if q.Technique != "" && key.Technique != q.Technique {
				continue
			}
			if len(q.Keys) > 0 {
				if !containsSlot(q.Keys, key) {
					continue
				}
			} else if q.FromDate != "" {
				if key.Date < q.FromDate {
					continue
				}
				if q.ToDate != "" && key.Date >= q.ToDate {
					continue
				}
			}
			entries = append(entries, availability.LedgerEntry{
				Key:   key,
				Paid:  b.Status() == booking.StatusPaid,
				Units: 1,
			})
		}
	}
	return entries, nil
}

func (r *fakeReads) BookingIDByCode(_ context.Context, code string) (uuid.UUID, error) {
	for _, b := range r.store.bookings {
		if b.BookingCode() == code {
			return b.ID(), nil
		}
	}
	return uuid.Nil, notFound("booking")
}

func containsSlot(keys []schedule.SlotKey, key schedule.SlotKey) bool {
	for _, k := range keys {
		if k.Date == key.Date && k.Time == key.Time {
			return true
		}
	}
	return false
}
