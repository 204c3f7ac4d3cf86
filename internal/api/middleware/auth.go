// Package middleware provides HTTP middleware for the dittodrive API.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/marmos91/dittodrive/internal/logger"
	"github.com/marmos91/dittodrive/pkg/drive/identity"
	"github.com/marmos91/dittodrive/pkg/drive/models"
	"github.com/marmos91/dittodrive/pkg/drive/store"
)

// Context key type for storing the authenticated principal
type contextKey string

const principalContextKey contextKey = "principal"

// PrincipalFromContext retrieves the authenticated principal from the
// request context. Returns nil for anonymous requests or routes without the
// auth middleware.
func PrincipalFromContext(ctx context.Context) *models.Principal {
	principal, ok := ctx.Value(principalContextKey).(*models.Principal)
	if !ok {
		return nil
	}
	return principal
}

// extractBearerToken extracts the token from a Bearer Authorization header.
func extractBearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	return parts[1], true
}

// Authenticator validates bearer tokens and provisions user accounts on
// first login.
type Authenticator struct {
	tokens       *identity.TokenService
	users        store.UserStore
	defaultLimit int64
}

// NewAuthenticator creates the auth middleware factory. defaultLimit is the
// storage quota assigned to users seen for the first time.
func NewAuthenticator(tokens *identity.TokenService, users store.UserStore, defaultLimit int64) *Authenticator {
	return &Authenticator{tokens: tokens, users: users, defaultLimit: defaultLimit}
}

// resolve validates the token and ensures the user record exists. The
// account is provisioned on first login and its profile refreshed on every
// later one.
func (a *Authenticator) resolve(r *http.Request, token string) (*models.Principal, error) {
	principal, err := a.tokens.Resolve(token)
	if err != nil {
		return nil, err
	}
	if _, err := a.users.EnsureUser(r.Context(), principal, a.defaultLimit); err != nil {
		logger.Error("failed to provision user", "user", principal.ID, "error", err)
		return nil, err
	}
	return principal, nil
}

// Required rejects requests without a valid bearer token with 401.
func (a *Authenticator) Required(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := extractBearerToken(r)
		if !ok {
			writeAuthProblem(w, "Authorization header required")
			return
		}

		principal, err := a.resolve(r, token)
		if err != nil {
			writeAuthProblem(w, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), principalContextKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Optional lets requests through without a token as anonymous, but still
// rejects tokens that are present and invalid. Handlers downstream decide
// whether anonymous access is acceptable (public files are).
func (a *Authenticator) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := extractBearerToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		principal, err := a.resolve(r, token)
		if err != nil {
			writeAuthProblem(w, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), principalContextKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// writeAuthProblem writes a 401 in RFC 7807 shape without importing the
// handlers package.
func writeAuthProblem(w http.ResponseWriter, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"type":"about:blank","title":"Unauthorized","status":401,"detail":"` + detail + `"}`))
}
