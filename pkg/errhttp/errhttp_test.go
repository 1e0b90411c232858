package errhttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ghuser/itemsvc/pkg/auth"
	itemdomain "github.com/ghuser/itemsvc/services/item/domain"
)

func TestMapErrorToStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", itemdomain.ErrItemNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("get item: %w", itemdomain.ErrItemNotFound), http.StatusNotFound},
		{"no user", auth.ErrNoUser, http.StatusUnauthorized},
		{"invalid field", itemdomain.ErrInvalidItemField, http.StatusBadRequest},
		{"wrapped invalid field", fmt.Errorf("%w: name too short", itemdomain.ErrInvalidItemField), http.StatusBadRequest},
		{"version conflict", itemdomain.ErrVersionConflict, http.StatusConflict},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapErrorToStatus(tt.err); got != tt.want {
				t.Errorf("MapErrorToStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, fmt.Errorf("update item: %w", itemdomain.ErrVersionConflict))

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] == "" {
		t.Error("expected non-empty error message")
	}
}
