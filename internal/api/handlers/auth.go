package handlers

import (
	"net/http"

	"github.com/marmos91/dittodrive/internal/api/middleware"
	"github.com/marmos91/dittodrive/pkg/drive/models"
	"github.com/marmos91/dittodrive/pkg/drive/store"
)

// AuthHandler serves the /auth routes. Login itself lives with the external
// identity provider; this handler only answers questions about the already
// authenticated caller.
type AuthHandler struct {
	users store.UserStore
}

func NewAuthHandler(users store.UserStore) *AuthHandler {
	return &AuthHandler{users: users}
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())
	if principal == nil {
		writeDomainError(w, models.ErrAuthenticationRequired)
		return
	}

	user, err := h.users.GetUserByID(r.Context(), principal.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSONOK(w, user)
}
