package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/marmos91/dittodrive/internal/api/middleware"
	"github.com/marmos91/dittodrive/pkg/drive/service"
)

// SharedHandler serves the /shared routes used by shared links. The routes
// accept anonymous callers; access still goes through the normal evaluation,
// so anonymous requests only succeed for public files.
type SharedHandler struct {
	svc *service.DriveService
}

func NewSharedHandler(svc *service.DriveService) *SharedHandler {
	return &SharedHandler{svc: svc}
}

// Get handles GET /shared/{fileId}.
func (h *SharedHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())
	file, err := h.svc.GetFile(r.Context(), principal, chi.URLParam(r, "fileId"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSONOK(w, file)
}

// View handles GET /shared/{fileId}/view.
func (h *SharedHandler) View(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())
	link, err := h.svc.ViewURL(r.Context(), principal, chi.URLParam(r, "fileId"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSONOK(w, link)
}

// Download handles GET /shared/{fileId}/download.
func (h *SharedHandler) Download(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())
	link, err := h.svc.DownloadURL(r.Context(), principal, chi.URLParam(r, "fileId"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSONOK(w, link)
}
