// Package quota accounts for per-user storage consumption. Usage is always
// derived from the live sum of active file sizes, never from a counter that
// could drift.
package quota

import (
	"context"

	"github.com/marmos91/dittodrive/pkg/drive/models"
)

// UsageSource reports the bytes a user's active files currently occupy.
type UsageSource interface {
	SumActiveFileSizes(ctx context.Context, ownerID string) (int64, error)
}

// Accountant enforces per-user storage limits.
type Accountant struct {
	source UsageSource
}

func NewAccountant(source UsageSource) *Accountant {
	return &Accountant{source: source}
}

// Usage describes a user's storage consumption against their limit.
type Usage struct {
	Used      int64 `json:"used"`
	Limit     int64 `json:"limit"`
	Available int64 `json:"available"`
}

// Used returns the user's current consumption.
func (a *Accountant) Used(ctx context.Context, ownerID string) (int64, error) {
	return a.source.SumActiveFileSizes(ctx, ownerID)
}

// UsageFor computes the full usage picture for a user.
func (a *Accountant) UsageFor(ctx context.Context, user *models.User) (*Usage, error) {
	used, err := a.source.SumActiveFileSizes(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	available := user.StorageLimit - used
	if available < 0 {
		available = 0
	}
	return &Usage{Used: used, Limit: user.StorageLimit, Available: available}, nil
}

// CanAdmit checks whether an upload of the given size fits under the user's
// limit. This is a soft check: the sum is read without a lock, so concurrent
// uploads can race past it.
func (a *Accountant) CanAdmit(ctx context.Context, user *models.User, size int64) error {
	if size < 0 {
		return models.NewValidationError("file size must not be negative")
	}

	used, err := a.source.SumActiveFileSizes(ctx, user.ID)
	if err != nil {
		return err
	}

	available := user.StorageLimit - used
	if available < 0 {
		available = 0
	}
	if size > available {
		return &models.QuotaExceededError{Requested: size, Available: available}
	}
	return nil
}
