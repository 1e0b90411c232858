package handlers

import (
	"net/http"

	"github.com/ghuser/itemsvc/pkg/errhttp"
	"github.com/ghuser/itemsvc/pkg/httpx"
	appsvcs "github.com/ghuser/itemsvc/services/item/application/services"
)

// ListItemsHandler handles GET /api/items requests.
type ListItemsHandler struct {
	svc *appsvcs.Services
}

// NewListItemsHandler returns a ListItemsHandler backed by the given services.
func NewListItemsHandler(svc *appsvcs.Services) *ListItemsHandler {
	return &ListItemsHandler{svc: svc}
}

// Execute returns one page of all items.
//
//	@Summary		List items
//	@Description	Returns a paginated, sorted page of all items
//	@Tags			items
//	@Produce		json
//	@Param			page	query		int		false	"Zero-based page index"
//	@Param			size	query		int		false	"Page size (max 100)"
//	@Param			sort	query		string	false	"Sort key as field,dir (repeatable)"
//	@Success		200		{object}	ItemListResponse
//	@Failure		400		{object}	ErrorResponse
//	@Router			/api/items [get]
func (h *ListItemsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	opts, err := parseQueryOpts(r)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	items, total, err := h.svc.Item.ListItems(r.Context(), opts)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toItemListResponse(items, total))
}
