package request

import "strings"

type CreateBookingRequest struct {
	ServiceID     string  `json:"serviceId" validate:"required,uuid"`
	StaffID       string  `json:"staffId" validate:"required,uuid"`
	TimeslotID    string  `json:"timeslotId" validate:"required,uuid"`
	CustomerName  string  `json:"customerName" validate:"required,min=2,max=100"`
	CustomerEmail string  `json:"customerEmail" validate:"required,email,max=254"`
	CustomerPhone *string `json:"customerPhone,omitempty" validate:"omitempty,min=7,max=20,phone"`
	Notes         *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// Normalize trims free-text input and drops empty optionals before validation.
func (r *CreateBookingRequest) Normalize() {
	r.ServiceID = strings.TrimSpace(r.ServiceID)
	r.StaffID = strings.TrimSpace(r.StaffID)
	r.TimeslotID = strings.TrimSpace(r.TimeslotID)
	r.CustomerName = strings.TrimSpace(r.CustomerName)
	r.CustomerEmail = strings.ToLower(strings.TrimSpace(r.CustomerEmail))
	r.CustomerPhone = trimOptional(r.CustomerPhone)
	r.Notes = trimOptional(r.Notes)
}

// CancelBookingRequest carries the customer's booking id and cancel credential.
// The id is not format-checked so a malformed id fails exactly like an unknown one.
type CancelBookingRequest struct {
	BookingID string `json:"bookingId" validate:"required"`
	Token     string `json:"token" validate:"required"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus" validate:"required,oneof=unpaid paid refunded"`
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
