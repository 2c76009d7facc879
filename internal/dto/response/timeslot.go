package response

import (
	"time"

	"github.com/Softwarehamid/auto-shop-booking/internal/data/entity"
)

type TimeslotResponse struct {
	ID        string    `json:"id"`
	StaffID   string    `json:"staffId"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// AdminTimeslotResponse shows blocked slots and which booking holds a slot.
type AdminTimeslotResponse struct {
	TimeslotResponse
	IsBlocked bool    `json:"isBlocked"`
	BookingID *string `json:"bookingId,omitempty"`
}

type GenerateTimeslotsResponse struct {
	Days       int      `json:"days"`
	Created    int64    `json:"created"`
	Skipped    int64    `json:"skipped"`
	FailedDays []string `json:"failedDays"`
}

func TimeslotToResponse(t *entity.Timeslot) TimeslotResponse {
	return TimeslotResponse{
		ID:        t.ID.String(),
		StaffID:   t.StaffID.String(),
		StartTime: t.StartTime,
		EndTime:   t.EndTime,
	}
}

func TimeslotToAdminResponse(t *entity.TimeslotWithBooking) AdminTimeslotResponse {
	resp := AdminTimeslotResponse{
		TimeslotResponse: TimeslotToResponse(&t.Timeslot),
		IsBlocked:        t.IsBlocked,
	}
	if t.BookingID != nil {
		id := t.BookingID.String()
		resp.BookingID = &id
	}
	return resp
}
