// Package services contains stateless domain services for the item bounded context.
// Domain services enforce business rules that operate purely on domain types
// and have zero external dependencies beyond stdlib and the domain layer.
package services

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/ghuser/itemsvc/services/item/domain/models"
)

// ValidateText enforces business rules on item text fields beyond the
// structural constraints enforced by the value object constructors
// (length 3–50, non-blank).
//
// Business rules:
//   - No leading or trailing whitespace
//   - No control characters (Unicode category Cc)
//   - No consecutive spaces
func ValidateText(field, s string) error {
	if s != strings.TrimSpace(s) {
		return fmt.Errorf("%s must not have leading or trailing whitespace", field)
	}

	for _, r := range s {
		if unicode.IsControl(r) {
			return fmt.Errorf("%s must not contain control characters", field)
		}
	}

	if strings.Contains(s, "  ") {
		return fmt.Errorf("%s must not contain consecutive spaces", field)
	}

	return nil
}

// ValidateItemForWrite performs cross-field validation on a fully-constructed
// Item aggregate before it is persisted. It assumes the Item was built via
// models.NewItem or loaded from the store, so structural constraints are
// already satisfied.
func ValidateItemForWrite(item *models.Item) error {
	if item == nil {
		return fmt.Errorf("item cannot be nil")
	}

	if err := ValidateText("name", item.Name.String()); err != nil {
		return err
	}

	if err := ValidateText("description", item.Description.String()); err != nil {
		return err
	}

	if item.ID == uuid.Nil {
		return fmt.Errorf("id must be set")
	}

	if item.Audit.CreatedBy == "" {
		return fmt.Errorf("created_by must be set")
	}

	return nil
}
