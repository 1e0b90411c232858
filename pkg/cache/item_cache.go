package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	itemKeyPrefix = "item"
	listKeyPrefix = "items"
)

// CachedItem is the denormalized read model stored in Redis for a single
// item, serialized as JSON.
type CachedItem struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreateTime  time.Time `json:"createTime"`
	UpdateTime  time.Time `json:"updateTime"`
	CreatedBy   string    `json:"createdBy"`
	ModifiedBy  string    `json:"modifiedBy"`
	Version     int64     `json:"version"`
}

// CachedItemList is a stored listing result: one page of items plus counts.
type CachedItemList struct {
	Items       []CachedItem `json:"items"`
	Amount      int64        `json:"amount"`
	TotalAmount int64        `json:"totalAmount"`
}

// ListQuery identifies a listing result in the cache. Key composition must be
// deterministic: two queries with the same parameters always map to the same
// entry.
type ListQuery struct {
	Scope  string // "all" or "user"
	UserID string // empty unless Scope == "user"
	Page   int
	Size   int
	Sort   string // canonical sort expression, e.g. "name,desc;id,asc"
}

// Key builds the Redis key "items:{scope}:{user}:{page}:{size}:{sort}".
func (q ListQuery) Key() string {
	return strings.Join([]string{
		listKeyPrefix, q.Scope, q.UserID,
		fmt.Sprintf("%d", q.Page), fmt.Sprintf("%d", q.Size), q.Sort,
	}, ":")
}

// ItemCache provides cache-aside read/write operations for item entries and
// listing results.
//
// Single-item entries (key "item:{id}") are evicted explicitly on mutation.
// Listing entries are never evicted; they age out after the listing TTL, so
// listing responses may be stale up to that TTL.
type ItemCache struct {
	client  *RedisClient
	itemTTL time.Duration
	listTTL time.Duration
}

// NewItemCache creates an ItemCache backed by the given RedisClient with the
// given expiries for single-item and listing entries.
func NewItemCache(r *RedisClient, itemTTL, listTTL time.Duration) *ItemCache {
	return &ItemCache{client: r, itemTTL: itemTTL, listTTL: listTTL}
}

// GetItem retrieves a cached item by ID.
// Returns redis.Nil when the key does not exist or has expired.
func (c *ItemCache) GetItem(ctx context.Context, id uuid.UUID) (*CachedItem, error) {
	data, err := c.client.Client().Get(ctx, itemKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, redis.Nil
		}
		return nil, fmt.Errorf("cache get item: %w", err)
	}

	var item CachedItem
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("cache decode item: %w", err)
	}
	return &item, nil
}

// SetItem stores a single item with the configured TTL.
func (c *ItemCache) SetItem(ctx context.Context, item *CachedItem) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("cache encode item: %w", err)
	}
	if err := c.client.Client().Set(ctx, itemKey(item.ID), data, c.itemTTL).Err(); err != nil {
		return fmt.Errorf("cache set item: %w", err)
	}
	return nil
}

// DeleteItem evicts a single-item entry. Callers invoke this synchronously
// after a successful store mutation, before reporting success.
func (c *ItemCache) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if err := c.client.Client().Del(ctx, itemKey(id)).Err(); err != nil {
		return fmt.Errorf("cache delete item: %w", err)
	}
	return nil
}

// GetList retrieves a cached listing result for the given query.
// Returns redis.Nil when absent or expired.
func (c *ItemCache) GetList(ctx context.Context, q ListQuery) (*CachedItemList, error) {
	data, err := c.client.Client().Get(ctx, q.Key()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, redis.Nil
		}
		return nil, fmt.Errorf("cache get list: %w", err)
	}

	var list CachedItemList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("cache decode list: %w", err)
	}
	return &list, nil
}

// SetList stores a listing result with the configured listing TTL.
func (c *ItemCache) SetList(ctx context.Context, q ListQuery, list *CachedItemList) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("cache encode list: %w", err)
	}
	if err := c.client.Client().Set(ctx, q.Key(), data, c.listTTL).Err(); err != nil {
		return fmt.Errorf("cache set list: %w", err)
	}
	return nil
}

// itemKey builds the Redis key "item:{id}".
func itemKey(id uuid.UUID) string {
	return fmt.Sprintf("%s:%s", itemKeyPrefix, id)
}
