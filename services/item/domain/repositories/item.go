package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghuser/itemsvc/services/item/domain/models"
)

// Page size bounds for list queries. Sizes above MaxPageSize are clamped,
// not rejected; zero or negative sizes fall back to DefaultPageSize.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// SortKey is a single ordering criterion on an entity field.
type SortKey struct {
	Field string // entity field name, e.g. "name", "createTime"
	Desc  bool
}

// QueryOpts contains pagination and sorting parameters for list queries.
// Page is zero-based. Sort keys combine in listed order; implementations
// always append a stable tie-break on the item ID.
type QueryOpts struct {
	Page int
	Size int
	Sort []SortKey
}

// Limit returns the effective page size with defaulting and clamping applied.
func (o QueryOpts) Limit() int {
	switch {
	case o.Size <= 0:
		return DefaultPageSize
	case o.Size > MaxPageSize:
		return MaxPageSize
	default:
		return o.Size
	}
}

// Offset returns the number of records to skip for the requested page.
func (o QueryOpts) Offset() int {
	if o.Page <= 0 {
		return 0
	}
	return o.Page * o.Limit()
}

// ItemRepository is the persistence interface for the Item aggregate.
// The domain layer owns this interface; infrastructure implements it.
type ItemRepository interface {
	// GetByID retrieves a single item. Returns ErrItemNotFound when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error)

	// FindAll retrieves a paginated, sorted list of items.
	// Returns the items slice and the total count (ignoring pagination).
	FindAll(ctx context.Context, opts QueryOpts) ([]*models.Item, int64, error)

	// FindByCreator retrieves a paginated, sorted list of items whose
	// CreatedBy matches userID, plus the matching total count.
	FindByCreator(ctx context.Context, userID string, opts QueryOpts) ([]*models.Item, int64, error)

	// Insert persists a new Item and returns the stored record.
	Insert(ctx context.Context, item *models.Item) (*models.Item, error)

	// Update persists changes to an existing Item using the item's Version
	// as the optimistic concurrency stamp. Returns ErrItemNotFound when the
	// item no longer exists and ErrVersionConflict when a concurrent update
	// won the race. On success the returned record carries the new version.
	Update(ctx context.Context, item *models.Item) (*models.Item, error)

	// Delete removes an item by ID. Deleting an absent ID is not an error.
	Delete(ctx context.Context, id uuid.UUID) error
}
