// Package cache keeps short-lived copies of availability listings. It is never consulted
// when claiming a slot.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type AvailabilityCache interface {
	Get(ctx context.Context, staffID uuid.UUID, date string) ([]byte, bool)
	Set(ctx context.Context, staffID uuid.UUID, date string, value []byte)
	Invalidate(ctx context.Context, staffID uuid.UUID, date string)
	// InvalidateStaff drops every cached day of one staff member.
	InvalidateStaff(ctx context.Context, staffID uuid.UUID)
}

// NewAvailabilityCache returns a Redis cache, or a no-op cache when client is nil.
func NewAvailabilityCache(client *redis.Client, ttl time.Duration, log *zap.Logger) AvailabilityCache {
	if client == nil {
		return Noop{}
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &redisAvailabilityCache{
		client: client,
		ttl:    ttl,
		log:    log.With(zap.String("component", "availability_cache")),
	}
}

type redisAvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func availabilityKey(staffID uuid.UUID, date string) string {
	return "availability:" + staffID.String() + ":" + date
}

func (c *redisAvailabilityCache) Get(ctx context.Context, staffID uuid.UUID, date string) ([]byte, bool) {
	value, err := c.client.Get(ctx, availabilityKey(staffID, date)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.log.Warn("Availability cache read failed", zap.Error(err))
		return nil, false
	}
	return value, true
}

func (c *redisAvailabilityCache) Set(ctx context.Context, staffID uuid.UUID, date string, value []byte) {
	if err := c.client.Set(ctx, availabilityKey(staffID, date), value, c.ttl).Err(); err != nil {
		c.log.Warn("Availability cache write failed", zap.Error(err))
	}
}

func (c *redisAvailabilityCache) Invalidate(ctx context.Context, staffID uuid.UUID, date string) {
	if err := c.client.Del(ctx, availabilityKey(staffID, date)).Err(); err != nil {
		c.log.Warn("Availability cache invalidation failed",
			zap.Error(err),
			zap.String("staff_id", staffID.String()),
			zap.String("date", date))
	}
}

func (c *redisAvailabilityCache) InvalidateStaff(ctx context.Context, staffID uuid.UUID) {
	iter := c.client.Scan(ctx, 0, availabilityKey(staffID, "*"), 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.log.Warn("Availability cache scan failed", zap.Error(err), zap.String("staff_id", staffID.String()))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("Availability cache invalidation failed", zap.Error(err), zap.String("staff_id", staffID.String()))
	}
}

type Noop struct{}

func (Noop) Get(context.Context, uuid.UUID, string) ([]byte, bool) { return nil, false }

func (Noop) Set(context.Context, uuid.UUID, string, []byte) {}

func (Noop) Invalidate(context.Context, uuid.UUID, string) {}

func (Noop) InvalidateStaff(context.Context, uuid.UUID) {}
