package usecase

import (
	"context"
	"time"

	"github.com/Softwarehamid/auto-shop-booking/internal/cache"
	"github.com/Softwarehamid/auto-shop-booking/internal/data/repository"
	"github.com/Softwarehamid/auto-shop-booking/internal/notify"
	"github.com/Softwarehamid/auto-shop-booking/pkg/clock"
	"github.com/Softwarehamid/auto-shop-booking/pkg/utils"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("github.com/Softwarehamid/auto-shop-booking/internal/usecase")

// EventDispatcher hands committed booking changes to the notification pipeline without blocking.
type EventDispatcher interface {
	Dispatch(event notify.Event)
}

// Dependencies are the collaborators shared by services beyond the repositories.
type Dependencies struct {
	Clock      clock.Clock
	Dispatcher EventDispatcher
	Cache      cache.AvailabilityCache
}

type Service struct {
	Reservation ReservationService
	Timeslot    TimeslotService
	Catalog     CatalogService
	Admin       AdminService
}

func NewService(repo *repository.Repository, config *utils.Config, deps Dependencies, log *zap.Logger) *Service {
	if deps.Clock == nil {
		deps.Clock = clock.NewRealClock()
	}
	if deps.Cache == nil {
		deps.Cache = cache.Noop{}
	}
	if deps.Dispatcher == nil {
		deps.Dispatcher = notify.NewDispatcher(notify.Noop{}, 0, log)
	}

	timeslots := NewTimeslotService(repo, config, deps, log)
	return &Service{
		Reservation: NewReservationService(repo, config, deps, log),
		Timeslot:    timeslots,
		Catalog:     NewCatalogService(repo, log),
		Admin:       NewAdminService(repo, config, deps, timeslots, log),
	}
}

// withTimeout bounds a storage round trip so a slow database fails the request instead of hanging it.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = 5 * time.Second
	}
	return context.WithTimeout(ctx, d)
}

// shopLocation resolves the configured timezone used for calendar days.
func shopLocation(config *utils.Config) *time.Location {
	if config == nil || config.Slots.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(config.Slots.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
