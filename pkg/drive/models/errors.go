package models

import (
	"errors"
	"fmt"
)

// Domain errors for drive operations. The store and service layers return
// these; the API layer is the single place that maps them to HTTP statuses.
var (
	// ErrFileNotFound covers both files that never existed and files that
	// are soft-deleted. The two cases are deliberately indistinguishable
	// so unauthorized callers cannot probe for existence.
	ErrFileNotFound = errors.New("file not found")

	ErrUserNotFound        = errors.New("user not found")
	ErrDuplicateStorageKey = errors.New("storage key already in use")

	// ErrAuthenticationRequired means no principal was present on a
	// request that needs one.
	ErrAuthenticationRequired = errors.New("authentication required")

	// ErrAccessDenied means the principal lacks the required access level.
	ErrAccessDenied = errors.New("access denied")

	// ErrPublicWriteDenied means a write was attempted on a public file
	// without an explicit grant. Public grants read to everyone, never write.
	ErrPublicWriteDenied = errors.New("write access denied for public files")

	// ErrNotOwner guards the owner-only trash operations.
	ErrNotOwner = errors.New("only the file owner may perform this operation")

	ErrNotInTrash = errors.New("file is not in trash")
	ErrSelfShare  = errors.New("cannot share a file with yourself")
	ErrOwnerShare = errors.New("the file owner already has full access")
)

// ValidationError reports malformed input on an operation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError with the given message.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// QuotaExceededError reports a denied storage admission. Available carries
// the remaining bytes so callers can present a precise message.
type QuotaExceededError struct {
	Requested int64
	Available int64
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("storage quota exceeded: requested %d bytes, %d available", e.Requested, e.Available)
}

// UpstreamError wraps a failure from object storage or the data store.
// The wrapped cause is logged but never surfaced to API callers.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s failed: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// NewUpstreamError wraps err as an UpstreamError for the named operation.
func NewUpstreamError(op string, err error) *UpstreamError {
	return &UpstreamError{Op: op, Err: err}
}
