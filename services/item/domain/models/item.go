package models

import (
	"time"

	"github.com/google/uuid"
)

// Audit is the composed audit value embedded in every aggregate that tracks
// who touched a record and when. CreateTime and CreatedBy are set once at
// creation; UpdateTime and ModifiedBy change on every mutation, so
// CreateTime <= UpdateTime always holds once both are set.
type Audit struct {
	CreateTime time.Time
	UpdateTime time.Time
	CreatedBy  string
	ModifiedBy string
}

// Item is the core aggregate for this bounded context. It is a standalone
// aggregate root; no other entity owns it.
//
// Version is the optimistic concurrency stamp: the store rejects a write
// whose version does not match the stored one.
type Item struct {
	ID          uuid.UUID
	Name        ItemName
	Description ItemDescription
	Audit       Audit
	Version     int64
}

// NewItem constructs a valid Item aggregate with a generated ID, audit fields
// populated for the acting user, and version zero.
func NewItem(name ItemName, description ItemDescription, createdBy string) *Item {
	now := time.Now().UTC()
	return &Item{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Audit: Audit{
			CreateTime: now,
			UpdateTime: now,
			CreatedBy:  createdBy,
			ModifiedBy: createdBy,
		},
		Version: 0,
	}
}

// ApplyUpdate replaces the mutable fields and stamps the audit trail for the
// acting user. The version is left untouched; the store increments it as part
// of the conditional update.
func (i *Item) ApplyUpdate(name ItemName, description ItemDescription, modifiedBy string) {
	i.Name = name
	i.Description = description
	i.Audit.UpdateTime = time.Now().UTC()
	i.Audit.ModifiedBy = modifiedBy
}
