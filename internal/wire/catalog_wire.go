package wire

import (
	"github.com/Softwarehamid/auto-shop-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireCatalog(r chi.Router, catalogHandler *adaptor.CatalogHandler) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/services - Active detailing services
	r.Get("/api/services", catalogHandler.GetServices)

	// GET /api/staff - Active staff members
	r.Get("/api/staff", catalogHandler.GetStaff)

	// GET /api/timeslots/available?staff_id=&date= - Free slots of one staff member on one day
	r.Get("/api/timeslots/available", catalogHandler.GetAvailableTimeslots)
}
