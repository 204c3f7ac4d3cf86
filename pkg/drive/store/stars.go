package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/marmos91/dittodrive/pkg/drive/models"
)

// AddStar is idempotent: starring an already-starred file is a no-op, and a
// duplicate insert from a concurrent call collapses to success via the
// composite primary key.
func (s *GORMStore) AddStar(ctx context.Context, fileID, userID string) error {
	star := &models.Star{FileID: fileID, UserID: userID}
	if err := s.db.WithContext(ctx).Create(star).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil
		}
		return err
	}
	return nil
}

// RemoveStar is idempotent: removing a marker that does not exist is a no-op.
func (s *GORMStore) RemoveStar(ctx context.Context, fileID, userID string) error {
	return s.db.WithContext(ctx).
		Where("file_id = ? AND user_id = ?", fileID, userID).
		Delete(&models.Star{}).Error
}

func (s *GORMStore) HasStar(ctx context.Context, fileID, userID string) (bool, error) {
	var star models.Star
	err := s.db.WithContext(ctx).
		Where("file_id = ? AND user_id = ?", fileID, userID).
		First(&star).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CountStars returns the live star count for a file. Counts are always
// derived from the markers, never cached on the file record.
func (s *GORMStore) CountStars(ctx context.Context, fileID string) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.Star{}).
		Where("file_id = ?", fileID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
