package wire

import (
	"github.com/Softwarehamid/auto-shop-booking/internal/adaptor"
	"github.com/Softwarehamid/auto-shop-booking/internal/data/repository"
	"github.com/Softwarehamid/auto-shop-booking/pkg/clock"
	"github.com/Softwarehamid/auto-shop-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAdmin(
	r chi.Router,
	adminHandler *adaptor.AdminHandler,
	repo *repository.Repository,
	infra Infra,
	limiter *middleware.RateLimiter,
	log *zap.Logger,
) {
	clk := infra.Deps.Clock
	if clk == nil {
		clk = clock.NewRealClock()
	}

	r.Route("/api/admin", func(r chi.Router) {
		// POST /api/admin/login - Exchange credentials for a session token (rate limited)
		r.With(limiter.Middleware).Post("/login", adminHandler.Login)

		// ==================== PROTECTED ROUTES (require admin session) ====================
		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminSession(repo.Session, clk, log))

			// POST /api/admin/logout - Revoke the current session
			r.Post("/logout", adminHandler.Logout)

			// Bookings
			r.Get("/bookings", adminHandler.ListBookings)
			r.Get("/bookings/{id}", adminHandler.GetBooking)
			r.Put("/bookings/{id}/complete", adminHandler.CompleteBooking)
			r.Put("/bookings/{id}/cancel", adminHandler.CancelBooking)
			r.Put("/bookings/{id}/payment", adminHandler.UpdatePaymentStatus)

			// Calendar
			r.Get("/timeslots", adminHandler.ListTimeslots)
			r.Post("/timeslots/generate", adminHandler.GenerateTimeslots)
			r.Put("/timeslots/{id}/block", adminHandler.SetTimeslotBlocked)

			// Catalog
			r.Put("/staff/{id}/active", adminHandler.SetStaffActive)
			r.Put("/services/{id}/active", adminHandler.SetServiceActive)
		})
	})
}
