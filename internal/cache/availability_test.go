package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNewAvailabilityCache_NilClientIsNoop(t *testing.T) {
	c := NewAvailabilityCache(nil, time.Minute, zap.NewNop())

	c.Set(context.Background(), uuid.New(), "2025-06-02", []byte("[]"))
	_, ok := c.Get(context.Background(), uuid.New(), "2025-06-02")

	assert.IsType(t, Noop{}, c)
	assert.False(t, ok)
}

func TestRedisAvailabilityCache_UnreachableRedisIsAMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	c := NewAvailabilityCache(client, time.Minute, zap.NewNop())
	staffID := uuid.New()

	c.Set(context.Background(), staffID, "2025-06-02", []byte("[]"))
	c.Invalidate(context.Background(), staffID, "2025-06-02")
	value, ok := c.Get(context.Background(), staffID, "2025-06-02")

	assert.False(t, ok)
	assert.Nil(t, value)
}

func TestAvailabilityKey(t *testing.T) {
	id := uuid.MustParse("11111111-2222-4333-8444-555555555555")
	assert.Equal(t, "availability:11111111-2222-4333-8444-555555555555:2025-06-02", availabilityKey(id, "2025-06-02"))
}
