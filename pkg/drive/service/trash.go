package service

import (
	"context"

	"github.com/marmos91/dittodrive/internal/logger"
	"github.com/marmos91/dittodrive/pkg/drive/models"
)

// SoftDelete moves a file to the trash. Requires write access; an
// already-trashed file is invisible to this path and reports not found.
func (s *DriveService) SoftDelete(ctx context.Context, principal *models.Principal, fileID string) error {
	file, err := s.authorize(ctx, principal, fileID, models.AccessWrite)
	if err != nil {
		return err
	}
	if err := s.store.SetFileTrashed(ctx, file.ID, true); err != nil {
		return err
	}
	logger.Info("file trashed", "file", file.ID, "user", principal.ID)
	return nil
}

// Restore moves a trashed file back to active. Owner-only: grants do not
// extend to restore.
func (s *DriveService) Restore(ctx context.Context, principal *models.Principal, fileID string) (*models.File, error) {
	file, err := s.loadOwned(ctx, principal, fileID)
	if err != nil {
		return nil, err
	}
	if !file.Deleted {
		return nil, models.ErrNotInTrash
	}
	if err := s.store.SetFileTrashed(ctx, file.ID, false); err != nil {
		return nil, err
	}
	logger.Info("file restored", "file", file.ID, "user", principal.ID)
	return s.store.GetFileByID(ctx, file.ID)
}

// PermanentDelete destroys a trashed file: blob first, then the record with
// its grants and stars. A failed blob delete aborts before the record is
// touched; on retry a blob that is already gone counts as deleted.
func (s *DriveService) PermanentDelete(ctx context.Context, principal *models.Principal, fileID string) error {
	file, err := s.loadOwned(ctx, principal, fileID)
	if err != nil {
		return err
	}
	if !file.Deleted {
		return models.ErrNotInTrash
	}

	if err := s.objects.Delete(ctx, file.StorageKey); err != nil {
		return err
	}
	if err := s.store.DeleteFilePermanently(ctx, file.ID); err != nil {
		return err
	}

	logger.Info("file permanently deleted", "file", file.ID, "user", principal.ID, "key", file.StorageKey)
	return nil
}
