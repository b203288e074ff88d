package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-cinema-seat-booking/internal/config"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	client := NewClient(&config.RedisConfig{Host: "localhost", Port: "6379"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := Ping(ctx, client); err != nil {
		client.Close()
		t.Skip("Redis not available")
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestAvailabilityCache_GetAvailableCount(t *testing.T) {
	client := setupTestRedis(t)
	cache := NewAvailabilityCache(client)
	ctx := context.Background()
	showingID := "test-showing-123"
	t.Cleanup(func() { cache.Invalidate(ctx, showingID) })

	t.Run("キャッシュミス時はErrCacheMissを返す", func(t *testing.T) {
		require.NoError(t, cache.Invalidate(ctx, showingID))

		_, err := cache.GetAvailableCount(ctx, showingID)
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("キャッシュにセットした値を取得できる", func(t *testing.T) {
		err := cache.SetAvailableCount(ctx, showingID, 34, 30*time.Second)
		require.NoError(t, err)

		count, err := cache.GetAvailableCount(ctx, showingID)
		require.NoError(t, err)
		assert.Equal(t, 34, count)
	})

	t.Run("キャッシュを無効化できる", func(t *testing.T) {
		err := cache.SetAvailableCount(ctx, showingID, 10, 30*time.Second)
		require.NoError(t, err)

		err = cache.Invalidate(ctx, showingID)
		require.NoError(t, err)

		_, err = cache.GetAvailableCount(ctx, showingID)
		assert.ErrorIs(t, err, ErrCacheMiss)
	})
}

func TestAvailabilityCache_TTL(t *testing.T) {
	client := setupTestRedis(t)
	cache := NewAvailabilityCache(client)
	ctx := context.Background()
	showingID := "test-showing-ttl"

	t.Run("TTL経過後はキャッシュミスになる", func(t *testing.T) {
		err := cache.SetAvailableCount(ctx, showingID, 36, 100*time.Millisecond)
		require.NoError(t, err)

		time.Sleep(200 * time.Millisecond)

		_, err = cache.GetAvailableCount(ctx, showingID)
		assert.ErrorIs(t, err, ErrCacheMiss)
	})
}
