package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ghuser/itemsvc/pkg/auth"
	pkgcache "github.com/ghuser/itemsvc/pkg/cache"
	"github.com/ghuser/itemsvc/pkg/config"
	"github.com/ghuser/itemsvc/pkg/logger"
	itemdomain "github.com/ghuser/itemsvc/services/item/domain"
	"github.com/ghuser/itemsvc/services/item/domain/models"
	"github.com/ghuser/itemsvc/services/item/domain/repositories"
	appsvcs "github.com/ghuser/itemsvc/services/item/application/services"
)

// memRepo is a minimal in-memory ItemRepository for routing tests. Sorting is
// not exercised here; the repository package covers it.
type memRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*models.Item
}

func newMemRepo() *memRepo {
	return &memRepo{items: make(map[uuid.UUID]*models.Item)}
}

func (r *memRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, itemdomain.ErrItemNotFound
	}
	cp := *item
	return &cp, nil
}

func (r *memRepo) FindAll(_ context.Context, opts repositories.QueryOpts) ([]*models.Item, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]*models.Item, 0, len(r.items))
	for _, item := range r.items {
		cp := *item
		items = append(items, &cp)
	}
	if len(items) > opts.Limit() {
		items = items[:opts.Limit()]
	}
	return items, int64(len(r.items)), nil
}

func (r *memRepo) FindByCreator(_ context.Context, userID string, _ repositories.QueryOpts) ([]*models.Item, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]*models.Item, 0)
	for _, item := range r.items {
		if item.Audit.CreatedBy == userID {
			cp := *item
			items = append(items, &cp)
		}
	}
	return items, int64(len(items)), nil
}

func (r *memRepo) Insert(_ context.Context, item *models.Item) (*models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *item
	r.items[item.ID] = &cp
	out := cp
	return &out, nil
}

func (r *memRepo) Update(_ context.Context, item *models.Item) (*models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[item.ID]
	if !ok {
		return nil, itemdomain.ErrItemNotFound
	}
	if stored.Version != item.Version {
		return nil, itemdomain.ErrVersionConflict
	}
	cp := *item
	cp.Version = stored.Version + 1
	r.items[item.ID] = &cp
	out := cp
	return &out, nil
}

func (r *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

// nilCache always misses and discards writes, so every read hits the repo.
type nilCache struct{}

func (nilCache) GetItem(context.Context, uuid.UUID) (*pkgcache.CachedItem, error) {
	return nil, redis.Nil
}
func (nilCache) SetItem(context.Context, *pkgcache.CachedItem) error { return nil }
func (nilCache) DeleteItem(context.Context, uuid.UUID) error         { return nil }
func (nilCache) GetList(context.Context, pkgcache.ListQuery) (*pkgcache.CachedItemList, error) {
	return nil, redis.Nil
}
func (nilCache) SetList(context.Context, pkgcache.ListQuery, *pkgcache.CachedItemList) error {
	return nil
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string, ...*message.Message) error { return nil }

type stubVerifier struct{ userID string }

func (s *stubVerifier) Verify(_ context.Context, token string) (string, error) {
	if token == "" || s.userID == "" {
		return "", auth.ErrNoUser
	}
	return s.userID, nil
}

// newTestRouter mounts the item routes exactly as the api package does, with
// in-memory infrastructure behind them.
func newTestRouter(repo *memRepo) chi.Router {
	log := logger.New(&config.Config{LogLevel: "error"})
	svcs := &appsvcs.Services{
		Item: appsvcs.NewItemService(repo, nilCache{}, nopPublisher{}, log, "item-events", "test"),
	}
	requireUser := auth.RequireUser(&stubVerifier{userID: "user-1"}, nil, log)

	r := chi.NewRouter()
	r.Route("/api/items", func(r chi.Router) {
		r.Get("/", NewListItemsHandler(svcs).Execute)
		r.Get("/{id}", NewGetItemHandler(svcs).Execute)
		r.Get("/user/{userId}", NewListItemsByUserHandler(svcs).Execute)

		r.Group(func(r chi.Router) {
			r.Use(requireUser)
			r.Get("/user", NewListItemsByUserHandler(svcs).ExecuteSelf)
			r.Post("/", NewPostItemHandler(svcs).Execute)
			r.Put("/{id}", NewPutItemHandler(svcs).Execute)
			r.Delete("/{id}", NewDeleteItemHandler(svcs).Execute)
		})
	})
	return r
}

func seedItem(repo *memRepo, name, createdBy string) *models.Item {
	item := models.NewItem(models.ItemName(name), "seeded for the test", createdBy)
	stored, _ := repo.Insert(context.Background(), item)
	return stored
}

func doRequest(router chi.Router, method, target, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGetItemEndpoint(t *testing.T) {
	repo := newMemRepo()
	router := newTestRouter(repo)
	item := seedItem(repo, "test lamp", "user-1")

	rec := doRequest(router, http.MethodGet, "/api/items/"+item.ID.String(), "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	for _, key := range []string{"id", "name", "description", "createTime", "updateTime", "createdBy", "modifiedBy", "version"} {
		if _, ok := body[key]; !ok {
			t.Errorf("response missing %q key", key)
		}
	}
	if body["name"] != "test lamp" {
		t.Errorf("name = %v, want test lamp", body["name"])
	}
}

func TestGetItemEndpoint_NotFound(t *testing.T) {
	router := newTestRouter(newMemRepo())

	if rec := doRequest(router, http.MethodGet, "/api/items/"+uuid.NewString(), "", nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown id status = %d, want 404", rec.Code)
	}
	if rec := doRequest(router, http.MethodGet, "/api/items/not-a-uuid", "", nil); rec.Code != http.StatusNotFound {
		t.Errorf("malformed id status = %d, want 404", rec.Code)
	}
}

func TestListItemsEndpoint(t *testing.T) {
	repo := newMemRepo()
	router := newTestRouter(repo)
	seedItem(repo, "first item", "user-1")
	seedItem(repo, "second item", "user-2")

	rec := doRequest(router, http.MethodGet, "/api/items", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Items       []map[string]any `json:"items"`
		Amount      int64            `json:"amount"`
		TotalAmount int64            `json:"totalAmount"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Amount != 2 || body.TotalAmount != 2 || len(body.Items) != 2 {
		t.Errorf("amount=%d totalAmount=%d items=%d, want 2/2/2", body.Amount, body.TotalAmount, len(body.Items))
	}
	// List elements are the compact shape without description.
	if _, ok := body.Items[0]["description"]; ok {
		t.Error("list element unexpectedly carries description")
	}
}

func TestListItemsEndpoint_BadQuery(t *testing.T) {
	router := newTestRouter(newMemRepo())

	for _, target := range []string{
		"/api/items?page=-1",
		"/api/items?size=zero",
		"/api/items?sort=name,sideways",
	} {
		if rec := doRequest(router, http.MethodGet, target, "", nil); rec.Code != http.StatusBadRequest {
			t.Errorf("GET %s status = %d, want 400", target, rec.Code)
		}
	}
}

func TestListItemsByUserEndpoint(t *testing.T) {
	repo := newMemRepo()
	router := newTestRouter(repo)
	seedItem(repo, "alice item", "alice")
	seedItem(repo, "bob item", "bob")

	rec := doRequest(router, http.MethodGet, "/api/items/user/alice", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body ItemListResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body.TotalAmount != 1 || body.Items[0].CreatedBy != "alice" {
		t.Errorf("expected only alice's item, got %+v", body)
	}
}

func TestListOwnItemsEndpoint(t *testing.T) {
	repo := newMemRepo()
	router := newTestRouter(repo)
	seedItem(repo, "own item", "user-1")
	seedItem(repo, "other item", "someone-else")

	if rec := doRequest(router, http.MethodGet, "/api/items/user", "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d, want 401", rec.Code)
	}

	rec := doRequest(router, http.MethodGet, "/api/items/user", "valid-token", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body ItemListResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body.TotalAmount != 1 || body.Items[0].CreatedBy != "user-1" {
		t.Errorf("expected only the caller's item, got %+v", body)
	}
}

func TestPostItemEndpoint(t *testing.T) {
	router := newTestRouter(newMemRepo())
	reqBody := CreateItemRequest{Name: "new item", Description: "created through the api"}

	if rec := doRequest(router, http.MethodPost, "/api/items", "", reqBody); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d, want 401", rec.Code)
	}

	rec := doRequest(router, http.MethodPost, "/api/items", "valid-token", reqBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var created ItemDetailedResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	wantLocation := fmt.Sprintf("/api/items/%s", created.ID)
	if loc := rec.Header().Get("Location"); loc != wantLocation {
		t.Errorf("Location = %q, want %q", loc, wantLocation)
	}
	if created.CreatedBy != "user-1" {
		t.Errorf("createdBy = %q, want the authenticated caller", created.CreatedBy)
	}
}

func TestPostItemEndpoint_Invalid(t *testing.T) {
	router := newTestRouter(newMemRepo())

	rec := doRequest(router, http.MethodPost, "/api/items", "valid-token",
		CreateItemRequest{Name: "ab", Description: "too short a name"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestPutItemEndpoint(t *testing.T) {
	repo := newMemRepo()
	router := newTestRouter(repo)
	item := seedItem(repo, "old name", "user-1")

	rec := doRequest(router, http.MethodPut, "/api/items/"+item.ID.String(), "valid-token",
		UpdateItemRequest{Name: "new name", Description: "freshly updated", Version: 0})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var updated ItemDetailedResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &updated)
	if updated.Name != "new name" || updated.Version != 1 {
		t.Errorf("updated = %+v, want new name at version 1", updated)
	}

	// Replaying the same version now conflicts.
	rec = doRequest(router, http.MethodPut, "/api/items/"+item.ID.String(), "valid-token",
		UpdateItemRequest{Name: "late name", Description: "stale version write", Version: 0})
	if rec.Code != http.StatusConflict {
		t.Errorf("stale version status = %d, want 409", rec.Code)
	}
}

func TestPutItemEndpoint_NotFound(t *testing.T) {
	router := newTestRouter(newMemRepo())

	rec := doRequest(router, http.MethodPut, "/api/items/"+uuid.NewString(), "valid-token",
		UpdateItemRequest{Name: "ghost name", Description: "updates nothing at all", Version: 0})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestDeleteItemEndpoint(t *testing.T) {
	repo := newMemRepo()
	router := newTestRouter(repo)
	item := seedItem(repo, "doomed item", "user-1")

	if rec := doRequest(router, http.MethodDelete, "/api/items/"+item.ID.String(), "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d, want 401", rec.Code)
	}

	if rec := doRequest(router, http.MethodDelete, "/api/items/"+item.ID.String(), "valid-token", nil); rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	// Idempotent: a second delete still yields 204.
	if rec := doRequest(router, http.MethodDelete, "/api/items/"+item.ID.String(), "valid-token", nil); rec.Code != http.StatusNoContent {
		t.Errorf("repeated delete status = %d, want 204", rec.Code)
	}

	if rec := doRequest(router, http.MethodGet, "/api/items/"+item.ID.String(), "", nil); rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
}
