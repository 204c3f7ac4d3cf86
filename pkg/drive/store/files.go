package store

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/marmos91/dittodrive/pkg/drive/models"
)

func (s *GORMStore) CreateFile(ctx context.Context, file *models.File) (string, error) {
	if err := file.Validate(); err != nil {
		return "", err
	}
	return createWithID(s.db, ctx, file, func(f *models.File, id string) { f.ID = id }, file.ID, models.ErrDuplicateStorageKey)
}

func (s *GORMStore) GetFileByID(ctx context.Context, id string) (*models.File, error) {
	return getByField[models.File](s.db, ctx, "id", id, models.ErrFileNotFound, "Permissions", "Permissions.User")
}

func (s *GORMStore) RenameFile(ctx context.Context, id, name string) error {
	return s.updateFileColumns(ctx, id, map[string]any{"name": name})
}

func (s *GORMStore) SetFileVisibility(ctx context.Context, id string, public bool) error {
	return s.updateFileColumns(ctx, id, map[string]any{"public": public})
}

// SetFileTrashed moves a file in or out of the trash. Restoring clears the
// deletion timestamp so a restored file is indistinguishable from one that
// was never trashed.
func (s *GORMStore) SetFileTrashed(ctx context.Context, id string, trashed bool) error {
	updates := map[string]any{"deleted": trashed}
	if trashed {
		now := time.Now().UTC()
		updates["deleted_at"] = &now
	} else {
		updates["deleted_at"] = nil
	}
	return s.updateFileColumns(ctx, id, updates)
}

func (s *GORMStore) updateFileColumns(ctx context.Context, id string, updates map[string]any) error {
	result := s.db.WithContext(ctx).
		Model(&models.File{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrFileNotFound
	}
	return nil
}

// DeleteFilePermanently removes the record and cascades the permission
// grants and star markers referencing it. Grants and stars must never
// outlive their file, so all three deletes share one transaction.
func (s *GORMStore) DeleteFilePermanently(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var file models.File
		if err := tx.Where("id = ?", id).First(&file).Error; err != nil {
			return convertNotFoundError(err, models.ErrFileNotFound)
		}

		if err := tx.Where("file_id = ?", id).Delete(&models.Permission{}).Error; err != nil {
			return err
		}
		if err := tx.Where("file_id = ?", id).Delete(&models.Star{}).Error; err != nil {
			return err
		}
		return tx.Delete(&file).Error
	})
}

// accessibleQuery selects files the user owns or holds a grant on. Public
// files are deliberately excluded: they belong in shared-link views, not in
// the user's own listings.
func (s *GORMStore) accessibleQuery(ctx context.Context, userID string) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&models.File{}).
		Distinct("files.*").
		Joins("LEFT JOIN permissions ON permissions.file_id = files.id AND permissions.user_id = ?", userID).
		Where("files.owner_id = ? OR permissions.user_id IS NOT NULL", userID)
}

func applySearch(q *gorm.DB, search string) *gorm.DB {
	if search == "" {
		return q
	}
	return q.Where("LOWER(files.name) LIKE ?", "%"+strings.ToLower(search)+"%")
}

func (s *GORMStore) ListAccessibleFiles(ctx context.Context, userID, search string) ([]*models.File, error) {
	var files []*models.File
	q := s.accessibleQuery(ctx, userID).
		Where("files.deleted = ?", false).
		Where("files.public = ?", false)
	q = applySearch(q, search)
	if err := q.
		Preload("Permissions").
		Preload("Permissions.User").
		Order("files.created_at DESC").
		Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

func (s *GORMStore) ListTrashedFiles(ctx context.Context, userID string) ([]*models.File, error) {
	var files []*models.File
	if err := s.accessibleQuery(ctx, userID).
		Where("files.deleted = ?", true).
		Order("files.deleted_at DESC").
		Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

func (s *GORMStore) ListStarredFiles(ctx context.Context, userID, search string) ([]*models.File, error) {
	var files []*models.File
	q := s.accessibleQuery(ctx, userID).
		Joins("JOIN stars ON stars.file_id = files.id AND stars.user_id = ?", userID).
		Where("files.deleted = ?", false).
		Where("files.public = ?", false)
	q = applySearch(q, search)
	if err := q.
		Preload("Permissions").
		Preload("Permissions.User").
		Order("files.created_at DESC").
		Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

// SumActiveFileSizes computes the owner's consumed bytes. Trashed files are
// free until restored or permanently deleted.
func (s *GORMStore) SumActiveFileSizes(ctx context.Context, ownerID string) (int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).
		Model(&models.File{}).
		Where("owner_id = ? AND deleted = ?", ownerID, false).
		Select("COALESCE(SUM(size), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
