package response

import (
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/usecase/queries"

	"github.com/google/uuid"
)

type RecurringRuleResponse struct {
	ID           uuid.UUID `json:"id"`
	DayOfWeek    int       `json:"dayOfWeek"`
	Time         string    `json:"time"`
	InstructorID uuid.UUID `json:"instructorId"`
	Capacity     int       `json:"capacity"`
	Technique    string    `json:"technique,omitempty"`
}

type OverrideResponse struct {
	Date           string         `json:"date"`
	Blocked        bool           `json:"blocked"`
	CapacityByTime map[string]int `json:"capacityByTime,omitempty"`
}

func FromRuleViews(views []queries.RecurringRuleView) []RecurringRuleResponse {
	resp := make([]RecurringRuleResponse, len(views))
	for i, v := range views {
		resp[i] = RecurringRuleResponse{
			ID:           v.ID,
			DayOfWeek:    v.DayOfWeek,
			Time:         v.Time,
			InstructorID: v.InstructorID,
			Capacity:     v.Capacity,
			Technique:    v.Technique,
		}
	}
	return resp
}

func FromOverrideViews(views []queries.OverrideView) []OverrideResponse {
	resp := make([]OverrideResponse, len(views))
	for i, v := range views {
		resp[i] = OverrideResponse{
			Date:           v.Date,
			Blocked:        v.Blocked,
			CapacityByTime: v.CapacityByTime,
		}
	}
	return resp
}
