package request

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=200"`
}

type SetActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// ListBookingsRequest filters the admin booking list. Dates are YYYY-MM-DD in the shop's timezone.
type ListBookingsRequest struct {
	PaginatedRequest
	Status  string `json:"status" validate:"omitempty,oneof=pending confirmed cancelled completed"`
	StaffID string `json:"staff_id" validate:"omitempty,uuid"`
	From    string `json:"from" validate:"omitempty,datetime=2006-01-02"`
	To      string `json:"to" validate:"omitempty,datetime=2006-01-02"`
}
