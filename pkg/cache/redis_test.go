package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ghuser/itemsvc/pkg/config"
)

// newTestConfig returns a config pointing at the given Redis URL.
func newTestConfig(url string) *config.Config {
	return &config.Config{
		RedisURL: url,
	}
}

// Integration tests — skipped unless REDIS_URL is set.
func TestRedisIntegration(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set; skipping integration tests")
	}

	newClient := func(t *testing.T) *RedisClient {
		t.Helper()
		rc, err := NewRedisClient(newTestConfig(redisURL))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		t.Cleanup(func() { _ = rc.Close() })
		return rc
	}

	t.Run("Ping_Success", func(t *testing.T) {
		rc := newClient(t)
		if err := rc.Ping(context.Background()); err != nil {
			t.Fatalf("Ping failed: %v", err)
		}
	})

	t.Run("ItemCache_RoundTrip", func(t *testing.T) {
		c := NewItemCache(newClient(t), time.Minute, time.Minute)
		ctx := context.Background()

		item := &CachedItem{
			ID:          uuid.New(),
			Name:        "Item 1",
			Description: "First item",
			CreateTime:  time.Now().UTC().Truncate(time.Millisecond),
			UpdateTime:  time.Now().UTC().Truncate(time.Millisecond),
			CreatedBy:   "user-1",
			ModifiedBy:  "user-1",
			Version:     3,
		}
		if err := c.SetItem(ctx, item); err != nil {
			t.Fatalf("SetItem: %v", err)
		}

		got, err := c.GetItem(ctx, item.ID)
		if err != nil {
			t.Fatalf("GetItem: %v", err)
		}
		if got.Name != item.Name || got.Version != item.Version {
			t.Fatalf("round trip mismatch: %+v vs %+v", got, item)
		}
	})

	t.Run("DeleteItem_EvictsEntry", func(t *testing.T) {
		c := NewItemCache(newClient(t), time.Minute, time.Minute)
		ctx := context.Background()

		item := &CachedItem{ID: uuid.New(), Name: "Item 2", Description: "Second item"}
		if err := c.SetItem(ctx, item); err != nil {
			t.Fatalf("SetItem: %v", err)
		}
		if err := c.DeleteItem(ctx, item.ID); err != nil {
			t.Fatalf("DeleteItem: %v", err)
		}
		if _, err := c.GetItem(ctx, item.ID); err != redis.Nil {
			t.Fatalf("expected redis.Nil after eviction, got %v", err)
		}
	})

	t.Run("GetList_MissReturnsNil", func(t *testing.T) {
		c := NewItemCache(newClient(t), time.Minute, time.Minute)
		q := ListQuery{Scope: "all", Page: 99, Size: 20, Sort: "id,asc"}
		if _, err := c.GetList(context.Background(), q); err != redis.Nil {
			t.Fatalf("expected redis.Nil on miss, got %v", err)
		}
	})
}
