package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/marmos91/dittodrive/internal/logger"
	"github.com/marmos91/dittodrive/pkg/drive/models"
)

// quotaProblem extends the RFC 7807 shape with the byte accounting a client
// needs to present a precise quota message.
type quotaProblem struct {
	Problem
	Requested int64 `json:"requested"`
	Available int64 `json:"available"`
}

// writeDomainError is the single mapping from domain errors to HTTP
// statuses. Handlers never pick status codes themselves.
func writeDomainError(w http.ResponseWriter, err error) {
	var validationErr *models.ValidationError
	var quotaErr *models.QuotaExceededError
	var upstreamErr *models.UpstreamError

	switch {
	case errors.As(err, &validationErr):
		BadRequest(w, validationErr.Message)

	case errors.Is(err, models.ErrAuthenticationRequired):
		Unauthorized(w, "Authentication required")

	case errors.Is(err, models.ErrAccessDenied):
		Forbidden(w, "Access denied")

	case errors.Is(err, models.ErrPublicWriteDenied):
		Forbidden(w, "Write access denied for public files")

	case errors.Is(err, models.ErrNotOwner):
		Forbidden(w, "Only the file owner may perform this operation")

	case errors.Is(err, models.ErrFileNotFound):
		NotFound(w, "File not found")

	case errors.Is(err, models.ErrUserNotFound):
		NotFound(w, "User not found")

	case errors.Is(err, models.ErrNotInTrash):
		BadRequest(w, "File must be in trash for this operation")

	case errors.Is(err, models.ErrSelfShare):
		BadRequest(w, "Cannot share a file with yourself")

	case errors.Is(err, models.ErrOwnerShare):
		BadRequest(w, "The file owner already has full access")

	case errors.Is(err, models.ErrDuplicateStorageKey):
		Conflict(w, "Storage key already in use")

	case errors.As(err, &quotaErr):
		w.Header().Set("Content-Type", ContentTypeProblemJSON)
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		_ = json.NewEncoder(w).Encode(&quotaProblem{
			Problem: Problem{
				Type:   "about:blank",
				Title:  "Quota Exceeded",
				Status: http.StatusRequestEntityTooLarge,
				Detail: quotaErr.Error(),
			},
			Requested: quotaErr.Requested,
			Available: quotaErr.Available,
		})

	case errors.As(err, &upstreamErr):
		// The wrapped cause stays in the logs; callers get a generic
		// message.
		logger.Error("upstream failure", "op", upstreamErr.Op, "error", upstreamErr.Err)
		InternalServerError(w, "Upstream service failure")

	default:
		logger.Error("unhandled error in API handler", "error", err)
		InternalServerError(w, "Internal error")
	}
}
