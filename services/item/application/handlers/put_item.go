package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/itemsvc/pkg/auth"
	"github.com/ghuser/itemsvc/pkg/errhttp"
	"github.com/ghuser/itemsvc/pkg/httpx"
	pkgvalidator "github.com/ghuser/itemsvc/pkg/validator"
	itemdomain "github.com/ghuser/itemsvc/services/item/domain"
	appsvcs "github.com/ghuser/itemsvc/services/item/application/services"
)

// UpdateItemRequest is the request body for PUT /api/items/{id}. Version is
// the optimistic-concurrency stamp the caller read; a stale value yields 409.
type UpdateItemRequest struct {
	Name        string `json:"name"        validate:"required,min=3,max=50" example:"Renamed Item"`
	Description string `json:"description" validate:"required,min=3,max=50" example:"An updated description"`
	Version     int64  `json:"version"     validate:"gte=0"                 example:"0"`
} // @name UpdateItemRequest

// PutItemHandler handles PUT /api/items/{id} requests.
type PutItemHandler struct {
	svc *appsvcs.Services
}

// NewPutItemHandler returns a PutItemHandler backed by the given services.
func NewPutItemHandler(svc *appsvcs.Services) *PutItemHandler {
	return &PutItemHandler{svc: svc}
}

// Execute updates an existing item.
//
//	@Summary		Update item
//	@Description	Updates name and description of an existing item under optimistic concurrency
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Item ID"
//	@Param			request	body		UpdateItemRequest	true	"Item update request"
//	@Success		200		{object}	ItemDetailedResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/items/{id} [put]
func (h *PutItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserFromCtx(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		errhttp.WriteError(w, fmt.Errorf("%w: malformed item id", itemdomain.ErrItemNotFound))
		return
	}

	req, ok := pkgvalidator.ValidateRequest[UpdateItemRequest](w, r)
	if !ok {
		return
	}

	item, err := h.svc.Item.UpdateItem(r.Context(), id, req.Name, req.Description, req.Version, userID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toItemDetailedResponse(item))
}
