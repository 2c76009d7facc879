// Package worker runs the periodic maintenance jobs of the booking service.
package worker

import (
	"context"
	"time"

	"github.com/Softwarehamid/auto-shop-booking/internal/dto/response"

	"go.uber.org/zap"
)

type HorizonGenerator interface {
	GenerateHorizon(ctx context.Context) (*response.GenerateTimeslotsResponse, error)
}

type SessionCleaner interface {
	CleanExpiredSessions(ctx context.Context) (int64, error)
}

// SlotWorker keeps the rolling slot horizon materialized and prunes expired admin sessions.
type SlotWorker struct {
	generator HorizonGenerator
	sessions  SessionCleaner
	interval  time.Duration
	log       *zap.Logger
}

func NewSlotWorker(generator HorizonGenerator, sessions SessionCleaner, interval time.Duration, log *zap.Logger) *SlotWorker {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &SlotWorker{
		generator: generator,
		sessions:  sessions,
		interval:  interval,
		log:       log.With(zap.String("component", "slot_worker")),
	}
}

// Run performs one pass immediately, then one per interval until ctx is done.
func (w *SlotWorker) Run(ctx context.Context) {
	w.runOnce(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info("Slot worker stopped")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *SlotWorker) runOnce(ctx context.Context) {
	result, err := w.generator.GenerateHorizon(ctx)
	if err != nil {
		w.log.Error("Slot horizon generation failed", zap.Error(err))
	} else if len(result.FailedDays) > 0 {
		w.log.Warn("Slot horizon generated with failed days",
			zap.Int64("created", result.Created),
			zap.Strings("failed_days", result.FailedDays),
		)
	}

	if w.sessions == nil {
		return
	}
	removed, err := w.sessions.CleanExpiredSessions(ctx)
	if err != nil {
		w.log.Error("Expired session cleanup failed", zap.Error(err))
		return
	}
	if removed > 0 {
		w.log.Info("Expired admin sessions removed", zap.Int64("count", removed))
	}
}
