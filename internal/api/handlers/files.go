package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/marmos91/dittodrive/internal/api/middleware"
	"github.com/marmos91/dittodrive/pkg/drive/models"
	"github.com/marmos91/dittodrive/pkg/drive/service"
	"github.com/marmos91/dittodrive/pkg/metrics"
)

// FileHandler serves the /files routes.
type FileHandler struct {
	svc   *service.DriveService
	drive *metrics.DriveMetrics
}

// NewFileHandler creates a file handler. The metrics collector may be nil.
func NewFileHandler(svc *service.DriveService, drive *metrics.DriveMetrics) *FileHandler {
	return &FileHandler{svc: svc, drive: drive}
}

// UploadURL handles POST /files/upload-url.
func (h *FileHandler) UploadURL(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OriginalName string `json:"originalName"`
		Size         int64  `json:"size"`
	}
	if !decodeJSONBody(w, r, &req) {
		return
	}

	principal := middleware.PrincipalFromContext(r.Context())
	slot, err := h.svc.RequestUploadSlot(r.Context(), principal, req.OriginalName, req.Size)
	if err != nil {
		if isQuotaError(err) {
			h.drive.RecordQuotaDenial()
		}
		writeDomainError(w, err)
		return
	}

	WriteJSONOK(w, slot)
}

// ConfirmUpload handles POST /files/confirm-upload.
func (h *FileHandler) ConfirmUpload(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OriginalName string `json:"originalName"`
		StorageKey   string `json:"storageKey"`
		URL          string `json:"url"`
		Size         int64  `json:"size"`
	}
	if !decodeJSONBody(w, r, &req) {
		return
	}

	principal := middleware.PrincipalFromContext(r.Context())
	file, err := h.svc.ConfirmUpload(r.Context(), principal, req.OriginalName, req.StorageKey, req.URL, req.Size)
	if err != nil {
		if isQuotaError(err) {
			h.drive.RecordQuotaDenial()
		}
		writeDomainError(w, err)
		return
	}

	h.drive.RecordFileOperation("upload")
	h.drive.RecordBytesAdmitted(file.Size)
	WriteJSONCreated(w, file)
}

// List handles GET /files?search=.
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())
	files, err := h.svc.ListFiles(r.Context(), principal, r.URL.Query().Get("search"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSONOK(w, files)
}

// Trash handles GET /files/trash.
func (h *FileHandler) Trash(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())
	files, err := h.svc.ListTrash(r.Context(), principal)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSONOK(w, files)
}

// Starred handles GET /files/starred?search=.
func (h *FileHandler) Starred(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())
	files, err := h.svc.ListStarred(r.Context(), principal, r.URL.Query().Get("search"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSONOK(w, files)
}

// Storage handles GET /files/storage.
func (h *FileHandler) Storage(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())
	usage, err := h.svc.Usage(r.Context(), principal)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSONOK(w, usage)
}

// Get handles GET /files/{id}.
func (h *FileHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())
	file, err := h.svc.GetFile(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSONOK(w, file)
}

// Rename handles PUT /files/{id}.
func (h *FileHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OriginalName string `json:"originalName"`
	}
	if !decodeJSONBody(w, r, &req) {
		return
	}

	principal := middleware.PrincipalFromContext(r.Context())
	file, err := h.svc.Rename(r.Context(), principal, chi.URLParam(r, "id"), req.OriginalName)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSONOK(w, file)
}

// SoftDelete handles DELETE /files/{id}.
func (h *FileHandler) SoftDelete(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())
	if err := h.svc.SoftDelete(r.Context(), principal, chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	h.drive.RecordFileOperation("trash")
	WriteNoContent(w)
}

// Restore handles POST /files/{id}/restore.
func (h *FileHandler) Restore(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())
	file, err := h.svc.Restore(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.drive.RecordFileOperation("restore")
	WriteJSONOK(w, file)
}

// PermanentDelete handles DELETE /files/{id}/permanent.
func (h *FileHandler) PermanentDelete(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())
	if err := h.svc.PermanentDelete(r.Context(), principal, chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	h.drive.RecordFileOperation("purge")
	WriteNoContent(w)
}

// Share handles POST /files/{id}/share.
func (h *FileHandler) Share(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"userId"`
		Level  string `json:"level"`
	}
	if !decodeJSONBody(w, r, &req) {
		return
	}

	principal := middleware.PrincipalFromContext(r.Context())
	file, err := h.svc.Share(r.Context(), principal, chi.URLParam(r, "id"), req.UserID, models.AccessLevel(req.Level))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.drive.RecordFileOperation("share")
	WriteJSONOK(w, file)
}

// ShareByEmail handles POST /files/{id}/share-email.
func (h *FileHandler) ShareByEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Level string `json:"level"`
	}
	if !decodeJSONBody(w, r, &req) {
		return
	}

	principal := middleware.PrincipalFromContext(r.Context())
	file, err := h.svc.ShareByEmail(r.Context(), principal, chi.URLParam(r, "id"), req.Email, models.AccessLevel(req.Level))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.drive.RecordFileOperation("share")
	WriteJSONOK(w, file)
}

// MakePublic handles POST /files/{id}/public.
func (h *FileHandler) MakePublic(w http.ResponseWriter, r *http.Request) {
	h.setVisibility(w, r, true)
}

// MakePrivate handles POST /files/{id}/private.
func (h *FileHandler) MakePrivate(w http.ResponseWriter, r *http.Request) {
	h.setVisibility(w, r, false)
}

func (h *FileHandler) setVisibility(w http.ResponseWriter, r *http.Request, public bool) {
	principal := middleware.PrincipalFromContext(r.Context())
	file, err := h.svc.SetVisibility(r.Context(), principal, chi.URLParam(r, "id"), public)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSONOK(w, file)
}

// Star handles POST /files/{id}/star.
func (h *FileHandler) Star(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())
	file, err := h.svc.Star(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.drive.RecordFileOperation("star")
	WriteJSONOK(w, file)
}

// Unstar handles DELETE /files/{id}/star.
func (h *FileHandler) Unstar(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())
	file, err := h.svc.Unstar(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSONOK(w, file)
}

// Download handles GET /files/{id}/download.
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())
	link, err := h.svc.DownloadURL(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSONOK(w, link)
}

// View handles GET /files/{id}/view.
func (h *FileHandler) View(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())
	link, err := h.svc.ViewURL(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSONOK(w, link)
}

func isQuotaError(err error) bool {
	var qe *models.QuotaExceededError
	return errors.As(err, &qe)
}
