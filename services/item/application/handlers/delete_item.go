package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/itemsvc/pkg/auth"
	"github.com/ghuser/itemsvc/pkg/errhttp"
	"github.com/ghuser/itemsvc/pkg/httpx"
	itemdomain "github.com/ghuser/itemsvc/services/item/domain"
	appsvcs "github.com/ghuser/itemsvc/services/item/application/services"
)

// DeleteItemHandler handles DELETE /api/items/{id} requests.
type DeleteItemHandler struct {
	svc *appsvcs.Services
}

// NewDeleteItemHandler returns a DeleteItemHandler backed by the given services.
func NewDeleteItemHandler(svc *appsvcs.Services) *DeleteItemHandler {
	return &DeleteItemHandler{svc: svc}
}

// Execute removes an item. Deleting an absent id still yields 204.
//
//	@Summary		Delete item
//	@Description	Removes an item; deleting an absent id succeeds
//	@Tags			items
//	@Param			id	path	string	true	"Item ID"
//	@Success		204
//	@Failure		401	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/items/{id} [delete]
func (h *DeleteItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserFromCtx(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		errhttp.WriteError(w, fmt.Errorf("%w: malformed item id", itemdomain.ErrInvalidItemField))
		return
	}

	if err := h.svc.Item.DeleteItem(r.Context(), id, userID); err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.NoContent(w)
}
