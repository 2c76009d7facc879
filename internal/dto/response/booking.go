package response

import (
	"time"

	"github.com/Softwarehamid/auto-shop-booking/internal/data/entity"
)

// CreateBookingResponse is returned exactly once. The token cannot be recovered later.
type CreateBookingResponse struct {
	BookingID   string `json:"bookingId"`
	CancelToken string `json:"cancelToken"`
}

type CancelBookingResponse struct {
	BookingID        string               `json:"bookingId"`
	Status           entity.BookingStatus `json:"status"`
	AlreadyCancelled bool                 `json:"alreadyCancelled"`
}

// BookingResponse is the customer view reached through the cancel link.
type BookingResponse struct {
	ID            string               `json:"id"`
	ServiceName   string               `json:"serviceName"`
	StaffName     string               `json:"staffName"`
	StartTime     time.Time            `json:"startTime"`
	EndTime       time.Time            `json:"endTime"`
	CustomerName  string               `json:"customerName"`
	CustomerEmail string               `json:"customerEmail"`
	Status        entity.BookingStatus `json:"status"`
	PaymentStatus entity.PaymentStatus `json:"paymentStatus"`
	Cancellable   bool                 `json:"cancellable"`
	CreatedAt     time.Time            `json:"createdAt"`
}

// AdminBookingResponse adds the fields only staff may see.
type AdminBookingResponse struct {
	BookingResponse
	ServiceID     string     `json:"serviceId"`
	StaffID       string     `json:"staffId"`
	TimeslotID    string     `json:"timeslotId"`
	CustomerPhone *string    `json:"customerPhone,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
	CancelledAt   *time.Time `json:"cancelledAt,omitempty"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func BookingDetailToResponse(d *entity.BookingDetail) BookingResponse {
	return BookingResponse{
		ID:            d.ID.String(),
		ServiceName:   d.ServiceName,
		StaffName:     d.StaffName,
		StartTime:     d.StartTime,
		EndTime:       d.EndTime,
		CustomerName:  d.CustomerName,
		CustomerEmail: d.CustomerEmail,
		Status:        d.Status,
		PaymentStatus: d.PaymentStatus,
		Cancellable:   d.Status.CanTransitionTo(entity.BookingStatusCancelled),
		CreatedAt:     d.CreatedAt,
	}
}

func BookingDetailToAdminResponse(d *entity.BookingDetail) AdminBookingResponse {
	return AdminBookingResponse{
		BookingResponse: BookingDetailToResponse(d),
		ServiceID:       d.ServiceID.String(),
		StaffID:         d.StaffID.String(),
		TimeslotID:      d.TimeslotID.String(),
		CustomerPhone:   d.CustomerPhone,
		Notes:           d.Notes,
		CancelledAt:     d.CancelledAt,
		CompletedAt:     d.CompletedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}
