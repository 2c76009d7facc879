package adaptor

import (
	"net/http"

	"github.com/Softwarehamid/auto-shop-booking/internal/usecase"
	"github.com/Softwarehamid/auto-shop-booking/pkg/utils"

	"go.uber.org/zap"
)

type CatalogHandler struct {
	catalog   usecase.CatalogService
	timeslots usecase.TimeslotService
	log       *zap.Logger
}

func NewCatalogHandler(catalog usecase.CatalogService, timeslots usecase.TimeslotService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog:   catalog,
		timeslots: timeslots,
		log:       log.With(zap.String("handler", "catalog")),
	}
}

// GetServices handles GET /api/services (public)
func (h *CatalogHandler) GetServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.catalog.GetServices(r.Context(), false)
	if err != nil {
		handleServiceError(w, h.log, err, "get services")
		return
	}
	utils.ResponseSuccess(w, "success", services)
}

// GetStaff handles GET /api/staff (public)
func (h *CatalogHandler) GetStaff(w http.ResponseWriter, r *http.Request) {
	staff, err := h.catalog.GetStaff(r.Context(), false)
	if err != nil {
		handleServiceError(w, h.log, err, "get staff")
		return
	}
	utils.ResponseSuccess(w, "success", staff)
}

// GetAvailableTimeslots handles GET /api/timeslots/available?staff_id=&date= (public)
func (h *CatalogHandler) GetAvailableTimeslots(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	slots, err := h.timeslots.GetAvailableTimeslots(r.Context(), query.Get("staff_id"), query.Get("date"))
	if err != nil {
		handleServiceError(w, h.log, err, "get available timeslots")
		return
	}
	utils.ResponseSuccess(w, "success", slots)
}
