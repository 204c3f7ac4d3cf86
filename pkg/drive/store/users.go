package store

import (
	"context"
	"errors"

	"github.com/marmos91/dittodrive/pkg/drive/models"
)

func (s *GORMStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return getByField[models.User](s.db, ctx, "id", id, models.ErrUserNotFound)
}

func (s *GORMStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return getByField[models.User](s.db, ctx, "email", models.NormalizeEmail(email), models.ErrUserNotFound)
}

// EnsureUser provisions the account on first login. On later logins it
// refreshes the display name and email if the identity provider reports new
// values. A concurrent first login for the same identity collapses to the
// existing record via the primary-key constraint.
func (s *GORMStore) EnsureUser(ctx context.Context, principal *models.Principal, defaultLimit int64) (*models.User, error) {
	email := models.NormalizeEmail(principal.Email)

	user, err := s.GetUserByID(ctx, principal.ID)
	if err != nil {
		if !errors.Is(err, models.ErrUserNotFound) {
			return nil, err
		}

		user = &models.User{
			ID:           principal.ID,
			Email:        email,
			DisplayName:  principal.Name,
			StorageLimit: defaultLimit,
		}
		if err := user.Validate(); err != nil {
			return nil, err
		}
		if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
			if isUniqueConstraintError(err) {
				// Lost a first-login race; the record exists now.
				return s.GetUserByID(ctx, principal.ID)
			}
			return nil, err
		}
		return user, nil
	}

	// Profile refresh: pick up renamed accounts and changed addresses.
	if (principal.Name != "" && user.DisplayName != principal.Name) ||
		(email != "" && user.Email != email) {
		updates := map[string]any{}
		if principal.Name != "" {
			updates["display_name"] = principal.Name
		}
		if email != "" {
			updates["email"] = email
		}
		if err := s.db.WithContext(ctx).
			Model(&models.User{}).
			Where("id = ?", user.ID).
			Updates(updates).Error; err != nil && !isUniqueConstraintError(err) {
			return nil, err
		}
		return s.GetUserByID(ctx, user.ID)
	}

	return user, nil
}

// SetUserStorageLimit adjusts a user's quota ceiling.
func (s *GORMStore) SetUserStorageLimit(ctx context.Context, id string, limit int64) error {
	result := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("storage_limit", limit)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrUserNotFound
	}
	return nil
}
