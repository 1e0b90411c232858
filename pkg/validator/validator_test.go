package validator

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type createItemBody struct {
	Name        string `json:"name" validate:"required,min=3,max=50"`
	Description string `json:"description" validate:"required,min=3,max=50"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    createItemBody
		wantErr bool
	}{
		{"valid", createItemBody{Name: "Item 1", Description: "First item"}, false},
		{"missing name", createItemBody{Description: "First item"}, true},
		{"name too short", createItemBody{Name: "ab", Description: "First item"}, true},
		{"name too long", createItemBody{Name: strings.Repeat("a", 51), Description: "First item"}, true},
		{"description too short", createItemBody{Name: "Item 1", Description: "ab"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.body)
			if tt.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestFormatValidationErrors_UsesJSONFieldNames(t *testing.T) {
	err := Validate(&createItemBody{Name: "ab", Description: "First item"})
	if err == nil {
		t.Fatal("expected validation error")
	}

	fields := FormatValidationErrors(err)
	if _, ok := fields["name"]; !ok {
		t.Errorf("expected json field name 'name' as key, got %v", fields)
	}
	if got := fields["name"]; got != "Minimum length is 3" {
		t.Errorf("unexpected message: %q", got)
	}
}

func TestValidateRequest_Success(t *testing.T) {
	body := `{"name": "Item 1", "description": "First item"}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	w := httptest.NewRecorder()

	req, ok := ValidateRequest[createItemBody](w, r)
	if !ok {
		t.Fatalf("expected success, got response %d: %s", w.Code, w.Body.String())
	}
	if req.Name != "Item 1" || req.Description != "First item" {
		t.Errorf("unexpected decode result: %+v", req)
	}
}

func TestValidateRequest_InvalidJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	if _, ok := ValidateRequest[createItemBody](w, r); ok {
		t.Fatal("expected failure for invalid JSON")
	}
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestValidateRequest_ConstraintViolation(t *testing.T) {
	body := `{"name": "ab", "description": "First item"}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	w := httptest.NewRecorder()

	if _, ok := ValidateRequest[createItemBody](w, r); ok {
		t.Fatal("expected failure for constraint violation")
	}
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	var resp struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Fields["name"] == "" {
		t.Errorf("expected field-level message for name, got %+v", resp)
	}
}
