package auth

import (
	"net/http"
	"strings"

	"github.com/gorilla/sessions"

	"github.com/ghuser/itemsvc/pkg/httpx"
	"github.com/ghuser/itemsvc/pkg/logger"
)

const sessionName = "itemsvc_session"
const sessionUserKey = "user_id"

// RequireUser is a chi middleware that enforces authentication. It resolves
// the acting user from an Authorization: Bearer token (validated by the
// TokenVerifier) or, failing that, from a session cookie. The resolved user
// identifier is injected into the request context.
// Returns 401 Unauthorized when neither credential yields a user.
//
// After this middleware, handlers can safely call auth.UserFromCtx(r.Context()).
func RequireUser(verifier TokenVerifier, store sessions.Store, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := ResolveUser(r, verifier, store, log)
			if !ok {
				httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), userID)))
		})
	}
}

// ResolveUser attempts to identify the acting user without enforcing it.
// Used directly by endpoints that behave differently for anonymous callers.
func ResolveUser(r *http.Request, verifier TokenVerifier, store sessions.Store, log logger.Logger) (string, bool) {
	if token := bearerToken(r); token != "" && verifier != nil {
		userID, err := verifier.Verify(r.Context(), token)
		if err != nil {
			log.WarnContext(r.Context(), "bearer token rejected", "error", err)
			return "", false
		}
		return userID, true
	}

	if store != nil {
		session, err := store.Get(r, sessionName)
		if err != nil {
			log.WarnContext(r.Context(), "invalid session cookie", "error", err)
			return "", false
		}
		if userID, ok := session.Values[sessionUserKey].(string); ok && userID != "" {
			return userID, true
		}
	}

	return "", false
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header, or returns "" when the header is absent or malformed.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	return ""
}
