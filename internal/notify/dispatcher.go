package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Dispatcher runs notifications in the background with their own deadline.
// Failures are logged and never reach the caller.
type Dispatcher struct {
	notifier Notifier
	timeout  time.Duration
	log      *zap.Logger
	wg       sync.WaitGroup
}

func NewDispatcher(notifier Notifier, timeout time.Duration, log *zap.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if notifier == nil {
		notifier = Noop{}
	}
	return &Dispatcher{
		notifier: notifier,
		timeout:  timeout,
		log:      log.With(zap.String("component", "notify")),
	}
}

// Dispatch returns immediately.
func (d *Dispatcher) Dispatch(event Event) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.log.Error("Notification panicked",
					zap.Any("panic", r),
					zap.String("booking_id", event.BookingID.String()))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := d.notifier.Notify(ctx, event); err != nil {
			d.log.Warn("Booking notification failed",
				zap.Error(err),
				zap.String("event", string(event.Type)),
				zap.String("booking_id", event.BookingID.String()))
			return
		}

		d.log.Debug("Booking notification sent",
			zap.String("event", string(event.Type)),
			zap.String("booking_id", event.BookingID.String()))
	}()
}

// Wait blocks until in-flight notifications finish or ctx expires.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
