package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/itemsvc/pkg/auth"
	"github.com/ghuser/itemsvc/pkg/errhttp"
	"github.com/ghuser/itemsvc/pkg/httpx"
	appsvcs "github.com/ghuser/itemsvc/services/item/application/services"
)

// ListItemsByUserHandler handles GET /api/items/user/{userId} and
// GET /api/items/user requests.
type ListItemsByUserHandler struct {
	svc *appsvcs.Services
}

// NewListItemsByUserHandler returns a ListItemsByUserHandler backed by the
// given services.
func NewListItemsByUserHandler(svc *appsvcs.Services) *ListItemsByUserHandler {
	return &ListItemsByUserHandler{svc: svc}
}

// Execute returns one page of items created by the user in the path.
//
//	@Summary		List items by creator
//	@Description	Returns a paginated, sorted page of items created by the given user
//	@Tags			items
//	@Produce		json
//	@Param			userId	path		string	true	"Creator user ID"
//	@Param			page	query		int		false	"Zero-based page index"
//	@Param			size	query		int		false	"Page size (max 100)"
//	@Param			sort	query		string	false	"Sort key as field,dir (repeatable)"
//	@Success		200		{object}	ItemListResponse
//	@Failure		400		{object}	ErrorResponse
//	@Router			/api/items/user/{userId} [get]
func (h *ListItemsByUserHandler) Execute(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, chi.URLParam(r, "userId"))
}

// ExecuteSelf returns one page of items created by the authenticated caller.
//
//	@Summary		List own items
//	@Description	Returns a paginated, sorted page of items created by the caller
//	@Tags			items
//	@Produce		json
//	@Param			page	query		int		false	"Zero-based page index"
//	@Param			size	query		int		false	"Page size (max 100)"
//	@Param			sort	query		string	false	"Sort key as field,dir (repeatable)"
//	@Success		200		{object}	ItemListResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/items/user [get]
func (h *ListItemsByUserHandler) ExecuteSelf(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserFromCtx(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	h.list(w, r, userID)
}

func (h *ListItemsByUserHandler) list(w http.ResponseWriter, r *http.Request, userID string) {
	opts, err := parseQueryOpts(r)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	items, total, err := h.svc.Item.ListItemsByUser(r.Context(), userID, opts)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toItemListResponse(items, total))
}
