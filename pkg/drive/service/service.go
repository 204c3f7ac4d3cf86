// Package service implements the drive orchestrator: every externally
// visible operation (upload, sharing, trash, links) lives here. The
// orchestrator is the single place where access verdicts and quota verdicts
// are turned into domain errors; the engines themselves never produce them.
package service

import (
	"context"

	"github.com/marmos91/dittodrive/pkg/drive/access"
	"github.com/marmos91/dittodrive/pkg/drive/models"
	"github.com/marmos91/dittodrive/pkg/drive/quota"
	"github.com/marmos91/dittodrive/pkg/drive/storage"
	"github.com/marmos91/dittodrive/pkg/drive/store"
)

// DriveService orchestrates file lifecycle, sharing, and link issuance.
type DriveService struct {
	store   store.Store
	objects storage.ObjectStore
	quota   *quota.Accountant
}

// New creates a DriveService backed by the given store and object store.
func New(st store.Store, objects storage.ObjectStore) *DriveService {
	return &DriveService{
		store:   st,
		objects: objects,
		quota:   quota.NewAccountant(st),
	}
}

// Quota exposes the accountant for usage reporting.
func (s *DriveService) Quota() *quota.Accountant {
	return s.quota
}

// authorize loads a file and checks the principal against the required
// level. The deny reasons map one-to-one onto domain errors so handlers can
// pick status codes by errors.Is alone.
func (s *DriveService) authorize(ctx context.Context, principal *models.Principal, fileID string, required models.AccessLevel) (*models.File, error) {
	file, err := s.store.GetFileByID(ctx, fileID)
	if err != nil {
		return nil, err
	}

	decision := access.Evaluate(file, principal, required)
	if decision.Allowed {
		return file, nil
	}

	switch decision.Reason {
	case access.ReasonNotFound:
		return nil, models.ErrFileNotFound
	case access.ReasonAuthRequired:
		return nil, models.ErrAuthenticationRequired
	case access.ReasonPublicWrite:
		return nil, models.ErrPublicWriteDenied
	default:
		return nil, models.ErrAccessDenied
	}
}

// loadOwned fetches a file for the owner-only trash operations. These
// bypass the generic access rules (which hide trashed files) and check
// ownership directly.
func (s *DriveService) loadOwned(ctx context.Context, principal *models.Principal, fileID string) (*models.File, error) {
	if principal == nil {
		return nil, models.ErrAuthenticationRequired
	}
	file, err := s.store.GetFileByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if file.OwnerID != principal.ID {
		return nil, models.ErrNotOwner
	}
	return file, nil
}

// requireUser resolves the principal to its provisioned user record.
func (s *DriveService) requireUser(ctx context.Context, principal *models.Principal) (*models.User, error) {
	if principal == nil {
		return nil, models.ErrAuthenticationRequired
	}
	return s.store.GetUserByID(ctx, principal.ID)
}
