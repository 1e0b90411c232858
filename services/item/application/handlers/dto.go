// Package handlers contains the HTTP handlers for the item endpoints,
// one file per endpoint.
package handlers

import (
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/itemsvc/services/item/domain/models"
)

// ItemResponse is the compact list-element representation of an item.
type ItemResponse struct {
	ID         uuid.UUID `json:"id"         example:"123e4567-e89b-12d3-a456-426614174000"`
	Name       string    `json:"name"       example:"Sample Item"`
	CreateTime time.Time `json:"createTime" example:"2024-01-15T10:30:00Z"`
	CreatedBy  string    `json:"createdBy"  example:"user-1"`
} // @name ItemResponse

// ItemDetailedResponse is the full representation of a single item.
// Version is the optimistic-concurrency stamp clients echo back on update.
type ItemDetailedResponse struct {
	ID          uuid.UUID `json:"id"          example:"123e4567-e89b-12d3-a456-426614174000"`
	Name        string    `json:"name"        example:"Sample Item"`
	Description string    `json:"description" example:"A sample item description"`
	CreateTime  time.Time `json:"createTime"  example:"2024-01-15T10:30:00Z"`
	UpdateTime  time.Time `json:"updateTime"  example:"2024-01-15T10:30:00Z"`
	CreatedBy   string    `json:"createdBy"   example:"user-1"`
	ModifiedBy  string    `json:"modifiedBy"  example:"user-1"`
	Version     int64     `json:"version"     example:"0"`
} // @name ItemDetailedResponse

// ItemListResponse wraps one page of items with counts: amount is the number
// of items in this page, totalAmount the count over the whole result set.
type ItemListResponse struct {
	Items       []ItemResponse `json:"items"`
	Amount      int64          `json:"amount"      example:"2"`
	TotalAmount int64          `json:"totalAmount" example:"4"`
} // @name ItemListResponse

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"item not found"`
} // @name ErrorResponse

func toItemResponse(item *models.Item) ItemResponse {
	return ItemResponse{
		ID:         item.ID,
		Name:       item.Name.String(),
		CreateTime: item.Audit.CreateTime,
		CreatedBy:  item.Audit.CreatedBy,
	}
}

func toItemDetailedResponse(item *models.Item) ItemDetailedResponse {
	return ItemDetailedResponse{
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

func toItemListResponse(items []*models.Item, total int64) ItemListResponse {
	resp := ItemListResponse{
		Items:       make([]ItemResponse, 0, len(items)),
		Amount:      int64(len(items)),
		TotalAmount: total,
	}
	for _, item := range items {
		resp.Items = append(resp.Items, toItemResponse(item))
	}
	return resp
}
