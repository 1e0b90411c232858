package handlers

import (
	"fmt"
	"net/http"

	"github.com/ghuser/itemsvc/pkg/auth"
	"github.com/ghuser/itemsvc/pkg/errhttp"
	"github.com/ghuser/itemsvc/pkg/httpx"
	pkgvalidator "github.com/ghuser/itemsvc/pkg/validator"
	appsvcs "github.com/ghuser/itemsvc/services/item/application/services"
)

// CreateItemRequest is the request body for POST /api/items.
type CreateItemRequest struct {
	Name        string `json:"name"        validate:"required,min=3,max=50" example:"Sample Item"`
	Description string `json:"description" validate:"required,min=3,max=50" example:"A sample item description"`
} // @name CreateItemRequest

// PostItemHandler handles POST /api/items requests.
type PostItemHandler struct {
	svc *appsvcs.Services
}

// NewPostItemHandler returns a PostItemHandler backed by the given services.
func NewPostItemHandler(svc *appsvcs.Services) *PostItemHandler {
	return &PostItemHandler{svc: svc}
}

// Execute creates a new item for the authenticated caller.
//
//	@Summary		Create item
//	@Description	Creates a new item owned by the authenticated caller
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateItemRequest	true	"Item creation request"
//	@Success		201		{object}	ItemDetailedResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/items [post]
func (h *PostItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserFromCtx(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	req, ok := pkgvalidator.ValidateRequest[CreateItemRequest](w, r)
	if !ok {
		return
	}

	item, err := h.svc.Item.AddItem(r.Context(), req.Name, req.Description, userID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/items/%s", item.ID))
	httpx.JSON(w, http.StatusCreated, toItemDetailedResponse(item))
}
