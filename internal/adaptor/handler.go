package adaptor

import (
	"github.com/Softwarehamid/auto-shop-booking/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Booking *BookingHandler
	Catalog *CatalogHandler
	Admin   *AdminHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Booking: NewBookingHandler(service.Reservation, log),
		Catalog: NewCatalogHandler(service.Catalog, service.Timeslot, log),
		Admin:   NewAdminHandler(service.Admin, log),
	}
}
