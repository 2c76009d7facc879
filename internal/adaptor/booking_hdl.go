package adaptor

import (
	"net/http"

	"github.com/Softwarehamid/auto-shop-booking/internal/dto/request"
	"github.com/Softwarehamid/auto-shop-booking/internal/usecase"
	"github.com/Softwarehamid/auto-shop-booking/pkg/utils"

	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.ReservationService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.ReservationService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/bookings (public)
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req request.CreateBookingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create booking")
		return
	}

	utils.ResponseSuccess(w, "Booking confirmed", booking)
}

// LookupBooking handles GET /api/bookings/lookup?booking=&token= (public)
func (h *BookingHandler) LookupBooking(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	booking, err := h.service.LookupBooking(r.Context(), query.Get("booking"), query.Get("token"))
	if err != nil {
		if isNotFound(err) {
			utils.ResponseNotFound(w, "Booking not found")
			return
		}
		handleServiceError(w, h.log, err, "lookup booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// CancelBooking handles POST /api/bookings/cancel (public)
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	var req request.CancelBookingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.service.CancelBooking(r.Context(), &req)
	if err != nil {
		if isNotFound(err) {
			utils.ResponseNotFound(w, "Booking not found")
			return
		}
		handleServiceError(w, h.log, err, "cancel booking")
		return
	}

	message := "Booking cancelled"
	if result.AlreadyCancelled {
		message = "Booking was already cancelled"
	}
	utils.ResponseSuccess(w, message, result)
}
