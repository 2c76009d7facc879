// main.go
package main

import (
	"context"
	"io"
	"log"
	"os/signal"
	"syscall"

	"github.com/Softwarehamid/auto-shop-booking/cmd"
	"github.com/Softwarehamid/auto-shop-booking/internal/cache"
	"github.com/Softwarehamid/auto-shop-booking/internal/data/repository"
	"github.com/Softwarehamid/auto-shop-booking/internal/notify"
	"github.com/Softwarehamid/auto-shop-booking/internal/usecase"
	"github.com/Softwarehamid/auto-shop-booking/internal/wire"
	"github.com/Softwarehamid/auto-shop-booking/internal/worker"
	"github.com/Softwarehamid/auto-shop-booking/pkg/clock"
	"github.com/Softwarehamid/auto-shop-booking/pkg/database"
	"github.com/Softwarehamid/auto-shop-booking/pkg/telemetry"
	"github.com/Softwarehamid/auto-shop-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, config.Telemetry)
	if err != nil {
		logger.Fatal("Failed to set up tracing", zap.Error(err))
	}

	// Connect to database
	db, err := database.InitDB(ctx, config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if config.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			logger.Fatal("Failed to apply schema", zap.Error(err))
		}
		logger.Info("Database schema applied")
	}

	redisClient := database.NewRedisClient(ctx, config.Redis, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	notifier, closers := buildNotifier(config, logger)
	dispatcher := notify.NewDispatcher(notifier, config.Broker.Timeout, logger)

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, config, wire.Infra{
		DB:    db,
		Redis: redisClient,
		Deps: usecase.Dependencies{
			Clock:      clock.NewRealClock(),
			Dispatcher: dispatcher,
			Cache:      cache.NewAvailabilityCache(redisClient, config.Cache.TTL, logger),
		},
	}, logger)

	slotWorker := worker.NewSlotWorker(app.Service.Timeslot, app.Service.Admin, config.Slots.GenerateInterval, logger)
	go slotWorker.Run(ctx)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(ctx, app.Handler, config.App, logger, func(shutdownCtx context.Context) {
		if err := dispatcher.Wait(shutdownCtx); err != nil {
			logger.Warn("Pending notifications dropped on shutdown", zap.Error(err))
		}
		for _, c := range closers {
			if err := c.Close(); err != nil {
				logger.Warn("Failed to close notifier", zap.Error(err))
			}
		}
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("Failed to flush traces", zap.Error(err))
		}
	})
}

// buildNotifier enables every channel that has configuration.
func buildNotifier(config *utils.Config, logger *zap.Logger) (notify.Notifier, []io.Closer) {
	var (
		channels notify.Multi
		closers  []io.Closer
	)

	if config.Email.Host != "" {
		channels = append(channels, notify.NewEmailNotifier(notify.NewSMTPSender(config.Email)))
	}
	if config.Broker.AMQPURL != "" {
		channels = append(channels, notify.NewAMQPNotifier(config.Broker.AMQPURL, config.Broker.AMQPQueue))
	}
	if config.Broker.KafkaBrokers != "" {
		k := notify.NewKafkaNotifier(config.Broker.KafkaBrokers, config.Broker.KafkaTopic)
		channels = append(channels, k)
		closers = append(closers, k)
	}

	if len(channels) == 0 {
		logger.Info("No notification channel configured")
		return notify.Noop{}, nil
	}

	names := make([]string, len(channels))
	for i, c := range channels {
		names[i] = c.Name()
	}
	logger.Info("Notification channels enabled", zap.Strings("channels", names))
	return channels, closers
}
