// Package postgres implements the item repository on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ghuser/itemsvc/pkg/database"
	"github.com/ghuser/itemsvc/pkg/logger"
	"github.com/ghuser/itemsvc/services/item/domain"
	"github.com/ghuser/itemsvc/services/item/domain/models"
	"github.com/ghuser/itemsvc/services/item/domain/repositories"
)

// sortColumns whitelists entity field names accepted in sort keys and maps
// them to their columns. Anything outside the map is rejected before the
// query is built, so sort input can never reach the SQL text.
var sortColumns = map[string]string{
	"id":          "item_id",
	"name":        "name",
	"description": "description",
	"createTime":  "create_time",
	"updateTime":  "update_time",
	"createdBy":   "created_by",
	"modifiedBy":  "modified_by",
	"version":     "version",
}

const itemColumns = "item_id, name, description, create_time, update_time, created_by, modified_by, version"

// ItemRepository persists Item aggregates in PostgreSQL.
type ItemRepository struct {
	db  *database.Database
	log logger.Logger
}

// NewItemRepository returns a PostgreSQL-backed item repository.
func NewItemRepository(db *database.Database, log logger.Logger) *ItemRepository {
	return &ItemRepository{db: db, log: log}
}

// GetByID retrieves a single item, returning domain.ErrItemNotFound when the
// row is absent.
func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	query := fmt.Sprintf("SELECT %s FROM items WHERE item_id = $1", itemColumns)
	item, err := scanItem(r.db.DB().QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, fmt.Errorf("get item %s: %w", id, err)
	}
	return item, nil
}

// FindAll retrieves one page of items plus the total count over all rows.
func (r *ItemRepository) FindAll(ctx context.Context, opts repositories.QueryOpts) ([]*models.Item, int64, error) {
	orderBy, err := buildOrderBy(opts.Sort)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM items").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM items ORDER BY %s LIMIT $1 OFFSET $2", itemColumns, orderBy)
	rows, err := r.db.DB().QueryContext(ctx, query, opts.Limit(), opts.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	items, err := collectItems(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// FindByCreator retrieves one page of items created by userID plus the
// matching total count.
func (r *ItemRepository) FindByCreator(ctx context.Context, userID string, opts repositories.QueryOpts) ([]*models.Item, int64, error) {
	orderBy, err := buildOrderBy(opts.Sort)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM items WHERE created_by = $1", userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count items by creator: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM items WHERE created_by = $1 ORDER BY %s LIMIT $2 OFFSET $3", itemColumns, orderBy)
	rows, err := r.db.DB().QueryContext(ctx, query, userID, opts.Limit(), opts.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list items by creator: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	items, err := collectItems(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Insert persists a new item and returns the stored record.
func (r *ItemRepository) Insert(ctx context.Context, item *models.Item) (*models.Item, error) {
	query := fmt.Sprintf(`INSERT INTO items (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s`, itemColumns, itemColumns)

	stored, err := scanItem(r.db.DB().QueryRowContext(ctx, query,
		item.ID,
		item.Name.String(),
		item.Description.String(),
		item.Audit.CreateTime,
		item.Audit.UpdateTime,
		item.Audit.CreatedBy,
		item.Audit.ModifiedBy,
		item.Version,
	))
	if err != nil {
		return nil, fmt.Errorf("insert item %s: %w", item.ID, err)
	}
	return stored, nil
}

// Update performs a conditional update on the item's version. A mismatch on
// an existing row is a version conflict; a missing row is not found. On
// success the returned record carries the incremented version.
func (r *ItemRepository) Update(ctx context.Context, item *models.Item) (*models.Item, error) {
	query := fmt.Sprintf(`UPDATE items
		SET name = $2, description = $3, update_time = $4, modified_by = $5, version = version + 1
		WHERE item_id = $1 AND version = $6
		RETURNING %s`, itemColumns)

	stored, err := scanItem(r.db.DB().QueryRowContext(ctx, query,
		item.ID,
		item.Name.String(),
		item.Description.String(),
		item.Audit.UpdateTime,
		item.Audit.ModifiedBy,
		item.Version,
	))
	if err == nil {
		return stored, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update item %s: %w", item.ID, err)
	}

	// No row matched: distinguish a stale version from a vanished item.
	var exists bool
	if err := r.db.DB().QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM items WHERE item_id = $1)", item.ID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check item %s: %w", item.ID, err)
	}
	if exists {
		return nil, domain.ErrVersionConflict
	}
	return nil, domain.ErrItemNotFound
}

// Delete removes an item by ID. Deleting an absent ID succeeds silently.
func (r *ItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.DB().ExecContext(ctx, "DELETE FROM items WHERE item_id = $1", id)
	if err != nil {
		return fmt.Errorf("delete item %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		r.log.DebugContext(ctx, "delete of absent item", "item_id", id)
	}
	return nil
}

// buildOrderBy renders the ORDER BY clause from whitelisted sort keys and
// appends the item_id tie-break so paging is stable under equal keys.
func buildOrderBy(sort []repositories.SortKey) (string, error) {
	clauses := make([]string, 0, len(sort)+1)
	for _, key := range sort {
		col, ok := sortColumns[key.Field]
		if !ok {
			return "", fmt.Errorf("%w: unknown sort field %q", domain.ErrInvalidItemField, key.Field)
		}
		dir := "ASC"
		if key.Desc {
			dir = "DESC"
		}
		clauses = append(clauses, col+" "+dir)
	}
	clauses = append(clauses, "item_id ASC")
	return strings.Join(clauses, ", "), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*models.Item, error) {
	var (
		item models.Item
		name string
		desc string
	)
	err := row.Scan(
		&item.ID,
		&name,
		&desc,
		&item.Audit.CreateTime,
		&item.Audit.UpdateTime,
		&item.Audit.CreatedBy,
		&item.Audit.ModifiedBy,
		&item.Version,
	)
	if err != nil {
		return nil, err
	}
	item.Name = models.ItemName(name)
	item.Description = models.ItemDescription(desc)
	return &item, nil
}

func collectItems(rows *sql.Rows) ([]*models.Item, error) {
	items := make([]*models.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate item rows: %w", err)
	}
	return items, nil
}
