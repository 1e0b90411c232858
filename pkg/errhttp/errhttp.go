// Package errhttp maps domain sentinel errors to HTTP status codes.
// Add a case to mapErrorToStatus for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/ghuser/itemsvc/pkg/auth"
	"github.com/ghuser/itemsvc/pkg/httpx"
	itemdomain "github.com/ghuser/itemsvc/services/item/domain"
)

// WriteError maps err to an HTTP status code and writes a JSON error response.
// Uses errors.Is() so wrapped sentinel errors are matched correctly.
// Defaults to 500 Internal Server Error for unrecognized errors.
func WriteError(w http.ResponseWriter, err error) {
	httpx.JSONError(w, MapErrorToStatus(err), err.Error())
}

// MapErrorToStatus resolves the HTTP status for a domain error.
func MapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, itemdomain.ErrItemNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, auth.ErrNoUser):
		return http.StatusUnauthorized // 401
	case errors.Is(err, itemdomain.ErrInvalidItemField):
		return http.StatusBadRequest // 400
	case errors.Is(err, itemdomain.ErrVersionConflict):
		return http.StatusConflict // 409
	default:
		return http.StatusInternalServerError // 500
	}
}
