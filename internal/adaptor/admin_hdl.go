package adaptor

import (
	"net"
	"net/http"

	"github.com/Softwarehamid/auto-shop-booking/internal/dto/request"
	"github.com/Softwarehamid/auto-shop-booking/internal/usecase"
	"github.com/Softwarehamid/auto-shop-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AdminHandler struct {
	service usecase.AdminService
	log     *zap.Logger
}

func NewAdminHandler(service usecase.AdminService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		log:     log.With(zap.String("handler", "admin")),
	}
}

// Login handles POST /api/admin/login (public)
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	session, err := h.service.Login(r.Context(), &req, r.UserAgent(), clientIP(r))
	if err != nil {
		handleServiceError(w, h.log, err, "admin login")
		return
	}

	utils.ResponseSuccess(w, "Login successful", session)
}

// Logout handles POST /api/admin/logout (admin)
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := utils.GetTokenFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.Logout(r.Context(), token); err != nil {
		handleServiceError(w, h.log, err, "admin logout")
		return
	}

	utils.ResponseSuccess(w, "Logout successful", nil)
}

// ==================== BOOKINGS ====================

// ListBookings handles GET /api/admin/bookings
func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, perPage := utils.ParsePagination(query)

	req := &request.ListBookingsRequest{
		PaginatedRequest: request.NewPaginatedRequest(page, perPage),
		Status:           query.Get("status"),
		StaffID:          query.Get("staff_id"),
		From:             query.Get("from"),
		To:               query.Get("to"),
	}

	bookings, err := h.service.ListBookings(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// GetBooking handles GET /api/admin/bookings/{id}
func (h *AdminHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := h.service.GetBooking(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get booking")
		return
	}
	utils.ResponseSuccess(w, "success", booking)
}

// CompleteBooking handles PUT /api/admin/bookings/{id}/complete
func (h *AdminHandler) CompleteBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := h.service.CompleteBooking(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "complete booking")
		return
	}
	utils.ResponseSuccess(w, "Booking completed", booking)
}

// CancelBooking handles PUT /api/admin/bookings/{id}/cancel
func (h *AdminHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.CancelBooking(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "admin cancel booking")
		return
	}
	utils.ResponseSuccess(w, "Booking cancelled", result)
}

// UpdatePaymentStatus handles PUT /api/admin/bookings/{id}/payment
func (h *AdminHandler) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	var req request.UpdatePaymentStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.UpdatePaymentStatus(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update payment status")
		return
	}
	utils.ResponseSuccess(w, "Payment status updated", booking)
}

// ==================== CALENDAR ====================

// ListTimeslots handles GET /api/admin/timeslots?staff_id=&date=
func (h *AdminHandler) ListTimeslots(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	slots, err := h.service.ListTimeslots(r.Context(), query.Get("staff_id"), query.Get("date"))
	if err != nil {
		handleServiceError(w, h.log, err, "list timeslots")
		return
	}
	utils.ResponseSuccess(w, "success", slots)
}

// GenerateTimeslots handles POST /api/admin/timeslots/generate
func (h *AdminHandler) GenerateTimeslots(w http.ResponseWriter, r *http.Request) {
	var req request.GenerateTimeslotsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.service.GenerateTimeslots(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "generate timeslots")
		return
	}
	utils.ResponseCreated(w, "Timeslots generated", result)
}

// SetTimeslotBlocked handles PUT /api/admin/timeslots/{id}/block
func (h *AdminHandler) SetTimeslotBlocked(w http.ResponseWriter, r *http.Request) {
	var req request.SetBlockedRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	slot, err := h.service.SetTimeslotBlocked(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "set timeslot blocked")
		return
	}
	utils.ResponseSuccess(w, "Timeslot updated", slot)
}

// ==================== CATALOG ====================

// SetStaffActive handles PUT /api/admin/staff/{id}/active
func (h *AdminHandler) SetStaffActive(w http.ResponseWriter, r *http.Request) {
	var req request.SetActiveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.service.SetStaffActive(r.Context(), chi.URLParam(r, "id"), &req); err != nil {
		handleServiceError(w, h.log, err, "set staff active")
		return
	}
	utils.ResponseSuccess(w, "Staff updated", nil)
}

// SetServiceActive handles PUT /api/admin/services/{id}/active
func (h *AdminHandler) SetServiceActive(w http.ResponseWriter, r *http.Request) {
	var req request.SetActiveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.service.SetServiceActive(r.Context(), chi.URLParam(r, "id"), &req); err != nil {
		handleServiceError(w, h.log, err, "set service active")
		return
	}
	utils.ResponseSuccess(w, "Service updated", nil)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
