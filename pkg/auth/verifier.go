package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TokenVerifier validates a bearer token and resolves the acting user.
// Token issuance and verification belong to an external collaborator; the
// service only consumes the resulting opaque user identifier.
type TokenVerifier interface {
	// Verify returns the user identifier for a valid token, or an error
	// (wrapping ErrNoUser) when the token is invalid or expired.
	Verify(ctx context.Context, token string) (string, error)
}

// IntrospectionVerifier validates tokens against an OAuth2 token
// introspection endpoint (RFC 7662) using client credentials.
type IntrospectionVerifier struct {
	endpoint     string
	clientID     string
	clientSecret string
	httpClient   *http.Client
}

// NewIntrospectionVerifier returns a verifier calling the given introspection
// endpoint with the given client credentials.
func NewIntrospectionVerifier(endpoint, clientID, clientSecret string) *IntrospectionVerifier {
	return &IntrospectionVerifier{
		endpoint:     endpoint,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: 5 * time.Second},
	}
}

type introspectionResponse struct {
	Active   bool   `json:"active"`
	Subject  string `json:"sub"`
	Username string `json:"username"`
}

// Verify posts the token to the introspection endpoint and returns the
// subject of an active token. Inactive tokens map to ErrNoUser.
func (v *IntrospectionVerifier) Verify(ctx context.Context, token string) (string, error) {
	form := url.Values{"token": {token}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("introspection request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(v.clientID, v.clientSecret)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("introspection call: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("introspection status %d: %w", resp.StatusCode, ErrNoUser)
	}

	var ir introspectionResponse
	if err := json.NewDecoder(resp.Body).Decode(&ir); err != nil {
		return "", fmt.Errorf("introspection decode: %w", err)
	}
	if !ir.Active {
		return "", fmt.Errorf("token inactive: %w", ErrNoUser)
	}

	if ir.Subject != "" {
		return ir.Subject, nil
	}
	if ir.Username != "" {
		return ir.Username, nil
	}
	return "", fmt.Errorf("token carries no subject: %w", ErrNoUser)
}
