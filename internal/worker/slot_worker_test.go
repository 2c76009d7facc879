package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Softwarehamid/auto-shop-booking/internal/dto/response"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type countingGenerator struct {
	calls atomic.Int32
	err   error
}

func (g *countingGenerator) GenerateHorizon(context.Context) (*response.GenerateTimeslotsResponse, error) {
	g.calls.Add(1)
	if g.err != nil {
		return nil, g.err
	}
	return &response.GenerateTimeslotsResponse{Created: 3, FailedDays: []string{}}, nil
}

type countingCleaner struct {
	calls atomic.Int32
}

func (c *countingCleaner) CleanExpiredSessions(context.Context) (int64, error) {
	c.calls.Add(1)
	return 2, nil
}

func TestSlotWorker_RunsImmediatelyAndOnTicker(t *testing.T) {
	gen := &countingGenerator{}
	cleaner := &countingCleaner{}
	w := NewSlotWorker(gen, cleaner, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return gen.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
	assert.GreaterOrEqual(t, cleaner.calls.Load(), int32(3))
}

func TestSlotWorker_LogsFailureAndKeepsGoing(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	gen := &countingGenerator{err: errors.New("db down")}
	w := NewSlotWorker(gen, nil, time.Hour, zap.New(core))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.Run(ctx)

	assert.EqualValues(t, 1, gen.calls.Load())
	assert.Equal(t, 1, logs.FilterMessage("Slot horizon generation failed").Len())
}
