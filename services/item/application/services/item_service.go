package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	pkgcache "github.com/ghuser/itemsvc/pkg/cache"
	"github.com/ghuser/itemsvc/pkg/logger"
	itemdomain "github.com/ghuser/itemsvc/services/item/domain"
	domainevents "github.com/ghuser/itemsvc/services/item/domain/events"
	"github.com/ghuser/itemsvc/services/item/domain/models"
	"github.com/ghuser/itemsvc/services/item/domain/repositories"
	domainsvcs "github.com/ghuser/itemsvc/services/item/domain/services"
)

// publishTimeout bounds the detached event-publish goroutine.
const publishTimeout = 5 * time.Second

// Event message templates, one per action.
const (
	msgAdded    = "Item with id %s was added"
	msgModified = "Item with id %s was modified"
	msgRemoved  = "Item with id %s was removed"
)

// ItemCache is the cache-aside collaborator for single items and listing pages.
// *pkgcache.ItemCache satisfies it; tests substitute fakes.
type ItemCache interface {
	GetItem(ctx context.Context, id uuid.UUID) (*pkgcache.CachedItem, error)
	SetItem(ctx context.Context, item *pkgcache.CachedItem) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
	GetList(ctx context.Context, q pkgcache.ListQuery) (*pkgcache.CachedItemList, error)
	SetList(ctx context.Context, q pkgcache.ListQuery, list *pkgcache.CachedItemList) error
}

// Publisher sends event messages to a topic. *events.EventBus satisfies it.
type Publisher interface {
	Publish(ctx context.Context, topic string, msgs ...*message.Message) error
}

// ItemService orchestrates item reads and mutations.
//
// Reads are cache-aside: Redis first, store on miss, asynchronous cache warm.
// Mutations commit to the store, evict the single-item cache entry
// synchronously, then publish an event from a detached goroutine. Publishing
// is fire-and-forget: a failed publish is logged and lost, and never affects
// the outcome of the originating request.
type ItemService struct {
	repo      repositories.ItemRepository
	cache     ItemCache
	publisher Publisher
	log       logger.Logger
	topic     string
	originID  string
}

// NewItemService wires an ItemService with its collaborators. originID is
// stamped into every published event to identify the producing application.
func NewItemService(
	repo repositories.ItemRepository,
	cache ItemCache,
	publisher Publisher,
	log logger.Logger,
	topic, originID string,
) *ItemService {
	return &ItemService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		log:       log,
		topic:     topic,
		originID:  originID,
	}
}

// GetItem retrieves an Item using the cache-aside pattern:
//  1. Check Redis first.
//  2. On miss (or any cache error, treated as a miss), query the store.
//  3. Warm the cache asynchronously with the store result.
func (s *ItemService) GetItem(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	if cached, err := s.cache.GetItem(ctx, id); err == nil {
		return fromCached(cached), nil
	} else if !errors.Is(err, redis.Nil) {
		s.log.DebugContext(ctx, "item cache read failed, falling back to store", "item_id", id, "error", err)
	}

	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}

	s.warmItem(ctx, item)
	return item, nil
}

// ListItems returns one page of all items plus the total count, serving
// repeat queries from the listing cache until its TTL expires.
func (s *ItemService) ListItems(ctx context.Context, opts repositories.QueryOpts) ([]*models.Item, int64, error) {
	q := listQuery("all", "", opts)
	if cached, err := s.cache.GetList(ctx, q); err == nil {
		return fromCachedList(cached), cached.TotalAmount, nil
	} else if !errors.Is(err, redis.Nil) {
		s.log.DebugContext(ctx, "listing cache read failed, falling back to store", "key", q.Key(), "error", err)
	}

	items, total, err := s.repo.FindAll(ctx, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}

	s.warmList(ctx, q, items, total)
	return items, total, nil
}

// ListItemsByUser returns one page of items created by userID plus the
// matching total count, with the same listing-cache behavior as ListItems.
func (s *ItemService) ListItemsByUser(ctx context.Context, userID string, opts repositories.QueryOpts) ([]*models.Item, int64, error) {
	q := listQuery("user", userID, opts)
	if cached, err := s.cache.GetList(ctx, q); err == nil {
		return fromCachedList(cached), cached.TotalAmount, nil
	} else if !errors.Is(err, redis.Nil) {
		s.log.DebugContext(ctx, "listing cache read failed, falling back to store", "key", q.Key(), "error", err)
	}

	items, total, err := s.repo.FindByCreator(ctx, userID, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list items by creator: %w", err)
	}

	s.warmList(ctx, q, items, total)
	return items, total, nil
}

// AddItem validates and persists a new Item for the acting user, then fires
// an ADD event. Validation failures wrap ErrInvalidItemField.
func (s *ItemService) AddItem(ctx context.Context, name, description, actingUser string) (*models.Item, error) {
	itemName, err := models.NewItemName(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", itemdomain.ErrInvalidItemField, err)
	}
	itemDesc, err := models.NewItemDescription(description)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", itemdomain.ErrInvalidItemField, err)
	}

	item := models.NewItem(itemName, itemDesc, actingUser)
	if err := domainsvcs.ValidateItemForWrite(item); err != nil {
		return nil, fmt.Errorf("%w: %w", itemdomain.ErrInvalidItemField, err)
	}

	stored, err := s.repo.Insert(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}

	s.publishEvent(ctx, stored.ID, domainevents.ActionAdd, msgAdded)
	return stored, nil
}

// UpdateItem applies changes to an existing Item under optimistic concurrency:
// version is the version the caller read, and a mismatch with the stored one
// surfaces as ErrVersionConflict. On success the stale cache entry is evicted
// before returning and a MODIFY event is fired. A failed update publishes
// nothing.
func (s *ItemService) UpdateItem(ctx context.Context, id uuid.UUID, name, description string, version int64, actingUser string) (*models.Item, error) {
	itemName, err := models.NewItemName(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", itemdomain.ErrInvalidItemField, err)
	}
	itemDesc, err := models.NewItemDescription(description)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", itemdomain.ErrInvalidItemField, err)
	}

	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load item for update: %w", err)
	}

	item.ApplyUpdate(itemName, itemDesc, actingUser)
	item.Version = version
	if err := domainsvcs.ValidateItemForWrite(item); err != nil {
		return nil, fmt.Errorf("%w: %w", itemdomain.ErrInvalidItemField, err)
	}

	updated, err := s.repo.Update(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}

	s.evictItem(ctx, id)
	s.publishEvent(ctx, id, domainevents.ActionModify, msgModified)
	return updated, nil
}

// DeleteItem removes an Item, evicts its cache entry, and fires a DELETE
// event. Deleting an absent id succeeds silently.
func (s *ItemService) DeleteItem(ctx context.Context, id uuid.UUID, actingUser string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	s.evictItem(ctx, id)
	s.publishEvent(ctx, id, domainevents.ActionDelete, msgRemoved)

	s.log.InfoContext(ctx, "item deleted", "item_id", id, "deleted_by", actingUser)
	return nil
}

// evictItem removes the single-item cache entry synchronously. The store is
// authoritative, so an eviction failure is logged but does not fail the
// request; the entry still ages out by TTL.
func (s *ItemService) evictItem(ctx context.Context, id uuid.UUID) {
	if err := s.cache.DeleteItem(ctx, id); err != nil {
		s.log.ErrorContext(ctx, "item cache eviction failed", "item_id", id, "error", err)
	}
}

// warmItem populates the single-item cache entry without blocking the caller.
func (s *ItemService) warmItem(ctx context.Context, item *models.Item) {
	warmCtx := context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(warmCtx, publishTimeout)
		defer cancel()
		if err := s.cache.SetItem(ctx, toCached(item)); err != nil {
			s.log.DebugContext(ctx, "item cache warm failed", "item_id", item.ID, "error", err)
		}
	}()
}

// warmList populates a listing cache entry without blocking the caller.
func (s *ItemService) warmList(ctx context.Context, q pkgcache.ListQuery, items []*models.Item, total int64) {
	list := &pkgcache.CachedItemList{
		Items:       make([]pkgcache.CachedItem, 0, len(items)),
		Amount:      int64(len(items)),
		TotalAmount: total,
	}
	for _, item := range items {
		list.Items = append(list.Items, *toCached(item))
	}

	warmCtx := context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(warmCtx, publishTimeout)
		defer cancel()
		if err := s.cache.SetList(ctx, q, list); err != nil {
			s.log.DebugContext(ctx, "listing cache warm failed", "key", q.Key(), "error", err)
		}
	}()
}

// publishEvent fires an item event from a detached goroutine. The request
// goroutine never waits on the publish; a failure is logged and the event is
// lost. Only store commit success decides the outcome of the request.
func (s *ItemService) publishEvent(ctx context.Context, itemID uuid.UUID, action domainevents.ItemAction, template string) {
	evt := domainevents.NewItemEvent(itemID, action, fmt.Sprintf(template, itemID), s.originID)

	payload, err := json.Marshal(evt)
	if err != nil {
		s.log.ErrorContext(ctx, "item event encode failed", "item_id", itemID, "action", action, "error", err)
		return
	}

	msg := message.NewMessage(evt.EventID.String(), payload)
	msg.Metadata.Set(domainevents.PartitionKeyMetadata, itemID.String())

	// Detach from the request context but keep its trace alive so the
	// publish span links to the originating request.
	pubCtx := context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(pubCtx, publishTimeout)
		defer cancel()
		if err := s.publisher.Publish(ctx, s.topic, msg); err != nil {
			s.log.ErrorContext(ctx, "item event publish failed, event lost",
				"item_id", itemID, "action", action, "error", err)
		}
	}()
}

// listQuery derives the deterministic cache identity of a listing request.
func listQuery(scope, userID string, opts repositories.QueryOpts) pkgcache.ListQuery {
	page := opts.Page
	if page < 0 {
		page = 0
	}
	return pkgcache.ListQuery{
		Scope:  scope,
		UserID: userID,
		Page:   page,
		Size:   opts.Limit(),
		Sort:   canonicalSort(opts.Sort),
	}
}

// canonicalSort renders sort keys as "field,asc;field,desc" with the implicit
// id tie-break appended, so equivalent queries share one cache entry.
func canonicalSort(sort []repositories.SortKey) string {
	parts := make([]string, 0, len(sort)+1)
	for _, key := range sort {
		dir := "asc"
		if key.Desc {
			dir = "desc"
		}
		parts = append(parts, key.Field+","+dir)
	}
	parts = append(parts, "id,asc")
	return strings.Join(parts, ";")
}

func toCached(item *models.Item) *pkgcache.CachedItem {
	return &pkgcache.CachedItem{
		ID:          item.ID,
		Name:        item.Name.String(),
		Description: item.Description.String(),
		CreateTime:  item.Audit.CreateTime,
		UpdateTime:  item.Audit.UpdateTime,
		CreatedBy:   item.Audit.CreatedBy,
		ModifiedBy:  item.Audit.ModifiedBy,
		Version:     item.Version,
	}
}

func fromCached(cached *pkgcache.CachedItem) *models.Item {
	return &models.Item{
		ID:          cached.ID,
		Name:        models.ItemName(cached.Name),
		Description: models.ItemDescription(cached.Description),
		Audit: models.Audit{
			CreateTime: cached.CreateTime,
			UpdateTime: cached.UpdateTime,
			CreatedBy:  cached.CreatedBy,
			ModifiedBy: cached.ModifiedBy,
		},
		Version: cached.Version,
	}
}

func fromCachedList(cached *pkgcache.CachedItemList) []*models.Item {
	items := make([]*models.Item, 0, len(cached.Items))
	for i := range cached.Items {
		items = append(items, fromCached(&cached.Items[i]))
	}
	return items
}
