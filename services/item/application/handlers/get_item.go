package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/itemsvc/pkg/errhttp"
	"github.com/ghuser/itemsvc/pkg/httpx"
	itemdomain "github.com/ghuser/itemsvc/services/item/domain"
	appsvcs "github.com/ghuser/itemsvc/services/item/application/services"
)

// GetItemHandler handles GET /api/items/{id} requests.
type GetItemHandler struct {
	svc *appsvcs.Services
}

// NewGetItemHandler returns a GetItemHandler backed by the given services.
func NewGetItemHandler(svc *appsvcs.Services) *GetItemHandler {
	return &GetItemHandler{svc: svc}
}

// Execute retrieves a single item by id.
//
//	@Summary		Get item
//	@Description	Retrieves the detailed representation of a single item
//	@Tags			items
//	@Produce		json
//	@Param			id	path		string	true	"Item ID"
//	@Success		200	{object}	ItemDetailedResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/items/{id} [get]
func (h *GetItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		// An unparseable id can never identify a stored item.
		errhttp.WriteError(w, fmt.Errorf("%w: malformed item id", itemdomain.ErrItemNotFound))
		return
	}

	item, err := h.svc.Item.GetItem(r.Context(), id)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toItemDetailedResponse(item))
}
