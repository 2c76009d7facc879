package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case BookingStatusPending:
		return next == BookingStatusConfirmed || next == BookingStatusCancelled
	case BookingStatusConfirmed:
		return next == BookingStatusCancelled || next == BookingStatusCompleted
	default:
		return false
	}
}

// IsActive reports whether the booking still holds its timeslot.
func (s BookingStatus) IsActive() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type Booking struct {
	BaseNoDelete
	ServiceID       uuid.UUID     `db:"service_id"`
	StaffID         uuid.UUID     `db:"staff_id"`
	TimeslotID      uuid.UUID     `db:"timeslot_id"`
	CustomerName    string        `db:"customer_name"`
	CustomerEmail   string        `db:"customer_email"`
	CustomerPhone   *string       `db:"customer_phone"`
	Notes           *string       `db:"notes"`
	Status          BookingStatus `db:"status"`
	PaymentStatus   PaymentStatus `db:"payment_status"`
	CancelTokenHash string        `db:"cancel_token_hash"`
	CancelledAt     *time.Time    `db:"cancelled_at"`
	CompletedAt     *time.Time    `db:"completed_at"`
}

// BookingDetail joins a booking with the names and times shown to customers and admins.
type BookingDetail struct {
	Booking
	ServiceName string    `db:"service_name"`
	StaffName   string    `db:"staff_name"`
	StartTime   time.Time `db:"start_time"`
	EndTime     time.Time `db:"end_time"`
}

// BookingFilter narrows admin listings.
type BookingFilter struct {
	Status  *BookingStatus
	StaffID *uuid.UUID
	From    *time.Time
	To      *time.Time
}
