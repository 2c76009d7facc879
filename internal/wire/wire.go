package wire

import (
	"context"
	"net/http"
	"time"

	"github.com/Softwarehamid/auto-shop-booking/internal/adaptor"
	"github.com/Softwarehamid/auto-shop-booking/internal/data/repository"
	"github.com/Softwarehamid/auto-shop-booking/internal/usecase"
	"github.com/Softwarehamid/auto-shop-booking/pkg/middleware"
	"github.com/Softwarehamid/auto-shop-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Infra holds the shared infrastructure the router needs beyond repositories.
type Infra struct {
	DB    Pinger
	Redis *redis.Client
	Deps  usecase.Dependencies
}

// App holds the wired application
type App struct {
	Router  *chi.Mux
	Handler http.Handler
	Service *usecase.Service
}

// Wiring builds services, handlers and the router
func Wiring(repo *repository.Repository, config *utils.Config, infra Infra, logger *zap.Logger) *App {
	service := usecase.NewService(repo, config, infra.Deps, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, config, infra, logger)

	return &App{
		Router:  router,
		Handler: otelhttp.NewHandler(router, "http.server"),
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	infra Infra,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.CORSOrigins))

	limiter := middleware.NewRateLimiter(infra.Redis, config.RateLimit, "rl:booking", logger)

	// Apply routes
	wireBooking(r, handler.Booking, limiter)
	wireCatalog(r, handler.Catalog)
	wireAdmin(r, handler.Admin, repo, infra, limiter, logger)

	// Liveness
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseSuccess(w, "OK", nil)
	})

	// Readiness checks the database
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if infra.DB == nil {
			utils.ResponseSuccess(w, "OK", nil)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := infra.DB.Ping(ctx); err != nil {
			logger.Warn("Readiness check failed", zap.Error(err))
			utils.ResponseServiceUnavailable(w, "Database unavailable")
			return
		}
		utils.ResponseSuccess(w, "OK", nil)
	})

	return r
}
