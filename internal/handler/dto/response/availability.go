package response

import (
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/usecase/queries"

	"github.com/google/uuid"
)

type EnrichedSlotResponse struct {
	Date              string    `json:"date"`
	Time              string    `json:"time"`
	InstructorID      uuid.UUID `json:"instructorId"`
	Technique         string    `json:"technique,omitempty"`
	PaidBookingsCount int       `json:"paidBookingsCount"`
	TotalBookings     int       `json:"totalBookingsCount"`
	MaxCapacity       int       `json:"maxCapacity"`
	Available         int       `json:"available"`
	IsAvailable       bool      `json:"isAvailable"`
}

type AvailabilityResponse struct {
	Slots    []EnrichedSlotResponse `json:"slots"`
	Degraded bool                   `json:"degraded"`
}

func FromAvailabilityResult(result *queries.AvailabilityResult) *AvailabilityResponse {
	slots := make([]EnrichedSlotResponse, len(result.Slots))
	for i, s := range result.Slots {
		slots[i] = EnrichedSlotResponse{
			Date:              s.Date,
			Time:              s.Time,
			InstructorID:      s.InstructorID,
			Technique:         s.Technique,
			PaidBookingsCount: s.PaidCount,
			TotalBookings:     s.TotalCount,
			MaxCapacity:       s.MaxCapacity,
			Available:         s.Available,
			IsAvailable:       s.IsAvailable,
		}
	}
	return &AvailabilityResponse{Slots: slots, Degraded: result.Degraded}
}
