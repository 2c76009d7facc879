package wire

import (
	"github.com/Softwarehamid/auto-shop-booking/internal/adaptor"
	"github.com/Softwarehamid/auto-shop-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler, limiter *middleware.RateLimiter) {
	// ==================== PUBLIC ROUTES (rate limited) ====================
	r.Group(func(r chi.Router) {
		r.Use(limiter.Middleware)

		// POST /api/bookings - Claim a timeslot, returns the cancel token once
		r.Post("/api/bookings", bookingHandler.CreateBooking)

		// POST /api/bookings/cancel - Release a booking with its cancel token
		r.Post("/api/bookings/cancel", bookingHandler.CancelBooking)
	})

	// GET /api/bookings/lookup?booking=&token= - View a booking from the cancel link
	r.Get("/api/bookings/lookup", bookingHandler.LookupBooking)
}
