package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/marmos91/dittodrive/pkg/drive/models"
)

func (s *GORMStore) GetPermission(ctx context.Context, fileID, userID string) (*models.Permission, error) {
	var perm models.Permission
	if err := s.db.WithContext(ctx).
		Where("file_id = ? AND user_id = ?", fileID, userID).
		First(&perm).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // no grant is not an error
		}
		return nil, err
	}
	return &perm, nil
}

// UpsertPermission enforces the one-grant-per-pair invariant. The composite
// primary key on (file_id, user_id) is the backstop: if a concurrent insert
// wins the race, the constraint violation collapses into a level update,
// since the desired end state (a grant exists at the requested level) is
// still reachable.
func (s *GORMStore) UpsertPermission(ctx context.Context, fileID, userID string, level models.AccessLevel) error {
	existing, err := s.GetPermission(ctx, fileID, userID)
	if err != nil {
		return err
	}

	if existing != nil {
		return s.updatePermissionLevel(ctx, fileID, userID, level)
	}

	perm := &models.Permission{
		FileID: fileID,
		UserID: userID,
		Level:  string(level),
	}
	if err := s.db.WithContext(ctx).Create(perm).Error; err != nil {
		if isUniqueConstraintError(err) {
			return s.updatePermissionLevel(ctx, fileID, userID, level)
		}
		return err
	}
	return nil
}

func (s *GORMStore) updatePermissionLevel(ctx context.Context, fileID, userID string, level models.AccessLevel) error {
	return s.db.WithContext(ctx).
		Model(&models.Permission{}).
		Where("file_id = ? AND user_id = ?", fileID, userID).
		Update("level", string(level)).Error
}
