package entity

import (
	"time"

	"github.com/google/uuid"
)

// Timeslot is one bookable [StartTime, EndTime) interval for a staff member.
// Only IsBlocked changes after creation.
type Timeslot struct {
	BaseNoDelete
	StaffID   uuid.UUID `db:"staff_id"`
	StartTime time.Time `db:"start_time"`
	EndTime   time.Time `db:"end_time"`
	IsBlocked bool      `db:"is_blocked"`
}

// TimeslotWithBooking is the admin calendar view of a slot.
type TimeslotWithBooking struct {
	Timeslot
	BookingID *uuid.UUID `db:"booking_id"`
}
