package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidDate     = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidTime     = errors.New("invalid time, expected HH:mm")
	ErrInvalidCapacity = errors.New("capacity cannot be negative")
)

// Dates are UTC calendar dates and times are wall-clock "HH:mm" strings,
// matching the persisted booking shape. A slot's instant is only materialized
// when a policy needs one (see StartAt).
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type Technique string

const (
	TechniquePottersWheel Technique = "potters_wheel"
	TechniqueHandMolding  Technique = "hand_molding"
	TechniqueIntroductory Technique = "introductory"
)

// RecurringRule is the weekly template a staff member maintains. Immutable
// once a term starts; customers never touch these.
type RecurringRule struct {
	ID           uuid.UUID
	DayOfWeek    time.Weekday
	Time         string
	InstructorID uuid.UUID
	Capacity     int
	Technique    Technique
}

func NewRecurringRule(id uuid.UUID, day time.Weekday, timeStr string, instructorID uuid.UUID, capacity int, technique Technique) (RecurringRule, error) {
	if err := ValidateTime(timeStr); err != nil {
		return RecurringRule{}, err
	}
	if capacity < 0 {
		return RecurringRule{}, ErrInvalidCapacity
	}
	return RecurringRule{
		ID:           id,
		DayOfWeek:    day,
		Time:         timeStr,
		InstructorID: instructorID,
		Capacity:     capacity,
		Technique:    technique,
	}, nil
}

// Override is keyed by date and always wins over the weekly rule. It can
// block a whole date, adjust per-slot capacity, or inject one-off slots
// outside the weekly pattern.
type Override struct {
	Date           string
	Blocked        bool
	CapacityByTime map[string]int
	ExtraSlots     []ExtraSlot
}

type ExtraSlot struct {
	Time         string
	InstructorID uuid.UUID
	Capacity     int
	Technique    Technique
}

// Slot is one concrete occurrence derived from a rule and a calendar date.
// Never mutated after generation; recomputed on demand.
type Slot struct {
	Date         string
	Time         string
	InstructorID uuid.UUID
	Technique    Technique
	Capacity     int
}

// SlotKey is the slot's identity: (date, time[, technique]).
type SlotKey struct {
	Date      string
	Time      string
	Technique Technique
}

func (s Slot) Key() SlotKey {
	return SlotKey{Date: s.Date, Time: s.Time, Technique: s.Technique}
}

func (k SlotKey) String() string {
	if k.Technique == "" {
		return k.Date + " " + k.Time
	}
	return fmt.Sprintf("%s %s (%s)", k.Date, k.Time, k.Technique)
}

// StartAt resolves the slot's start instant in UTC.
func (s Slot) StartAt() (time.Time, error) {
	return StartAt(s.Date, s.Time)
}

func StartAt(date, timeStr string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+timeStr, time.UTC)
	if err != nil {
		return time.Time{}, ErrInvalidTime
	}
	return t, nil
}

func ValidateDate(date string) error {
	if _, err := time.ParseInLocation(DateLayout, date, time.UTC); err != nil {
		return ErrInvalidDate
	}
	return nil
}

func ValidateTime(timeStr string) error {
	if _, err := time.Parse(TimeLayout, timeStr); err != nil {
		return ErrInvalidTime
	}
	return nil
}
