package service

import (
	"context"

	"github.com/marmos91/dittodrive/internal/logger"
	"github.com/marmos91/dittodrive/pkg/drive/models"
)

// Share grants the target user access at the given level, overwriting any
// existing grant. The caller needs write access on the file.
func (s *DriveService) Share(ctx context.Context, principal *models.Principal, fileID, targetUserID string, level models.AccessLevel) (*models.File, error) {
	if !level.IsValid() {
		return nil, models.NewValidationError("invalid access level %q", level)
	}

	file, err := s.authorize(ctx, principal, fileID, models.AccessWrite)
	if err != nil {
		return nil, err
	}

	target, err := s.store.GetUserByID(ctx, targetUserID)
	if err != nil {
		return nil, err
	}
	return s.grant(ctx, principal, file, target, level)
}

// ShareByEmail resolves the target by email and then shares like Share.
func (s *DriveService) ShareByEmail(ctx context.Context, principal *models.Principal, fileID, email string, level models.AccessLevel) (*models.File, error) {
	if !level.IsValid() {
		return nil, models.NewValidationError("invalid access level %q", level)
	}

	file, err := s.authorize(ctx, principal, fileID, models.AccessWrite)
	if err != nil {
		return nil, err
	}

	target, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.grant(ctx, principal, file, target, level)
}

func (s *DriveService) grant(ctx context.Context, principal *models.Principal, file *models.File, target *models.User, level models.AccessLevel) (*models.File, error) {
	if target.ID == principal.ID {
		return nil, models.ErrSelfShare
	}
	if target.ID == file.OwnerID {
		return nil, models.ErrOwnerShare
	}

	if err := s.store.UpsertPermission(ctx, file.ID, target.ID, level); err != nil {
		return nil, err
	}

	logger.Info("file shared", "file", file.ID, "by", principal.ID, "with", target.ID, "level", level)
	return s.store.GetFileByID(ctx, file.ID)
}

// Star marks a file for the caller. Requires read access; starring twice is
// a no-op.
func (s *DriveService) Star(ctx context.Context, principal *models.Principal, fileID string) (*models.File, error) {
	if principal == nil {
		return nil, models.ErrAuthenticationRequired
	}
	file, err := s.authorize(ctx, principal, fileID, models.AccessRead)
	if err != nil {
		return nil, err
	}
	if err := s.store.AddStar(ctx, file.ID, principal.ID); err != nil {
		return nil, err
	}
	return s.store.GetFileByID(ctx, file.ID)
}

// Unstar removes the caller's star marker. Removing an absent marker is a
// no-op.
func (s *DriveService) Unstar(ctx context.Context, principal *models.Principal, fileID string) (*models.File, error) {
	if principal == nil {
		return nil, models.ErrAuthenticationRequired
	}
	file, err := s.authorize(ctx, principal, fileID, models.AccessRead)
	if err != nil {
		return nil, err
	}
	if err := s.store.RemoveStar(ctx, file.ID, principal.ID); err != nil {
		return nil, err
	}
	return s.store.GetFileByID(ctx, file.ID)
}
