package store

import (
	"context"

	"github.com/marmos91/dittodrive/pkg/drive/models"
)

// UserStore manages user records.
type UserStore interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// EnsureUser provisions the user on first login and refreshes the
	// display name and email on subsequent logins.
	EnsureUser(ctx context.Context, principal *models.Principal, defaultLimit int64) (*models.User, error)
}

// FileStore manages file metadata records.
type FileStore interface {
	CreateFile(ctx context.Context, file *models.File) (string, error)
	// GetFileByID loads a file with its permission grants (and their user
	// summaries) preloaded. Returns models.ErrFileNotFound if absent.
	GetFileByID(ctx context.Context, id string) (*models.File, error)
	RenameFile(ctx context.Context, id, name string) error
	SetFileVisibility(ctx context.Context, id string, public bool) error
	SetFileTrashed(ctx context.Context, id string, trashed bool) error
	// DeleteFilePermanently removes the file record and cascades its
	// permission grants and star markers in one transaction.
	DeleteFilePermanently(ctx context.Context, id string) error

	ListAccessibleFiles(ctx context.Context, userID, search string) ([]*models.File, error)
	ListTrashedFiles(ctx context.Context, userID string) ([]*models.File, error)
	ListStarredFiles(ctx context.Context, userID, search string) ([]*models.File, error)

	// SumActiveFileSizes returns the total bytes of the owner's non-deleted
	// files. Trashed files do not count.
	SumActiveFileSizes(ctx context.Context, ownerID string) (int64, error)
}

// PermissionStore manages access grants.
type PermissionStore interface {
	GetPermission(ctx context.Context, fileID, userID string) (*models.Permission, error)
	// UpsertPermission creates a grant or overwrites an existing grant's
	// level. Concurrent calls for the same pair collapse to one record.
	UpsertPermission(ctx context.Context, fileID, userID string, level models.AccessLevel) error
}

// StarStore manages star markers.
type StarStore interface {
	AddStar(ctx context.Context, fileID, userID string) error
	RemoveStar(ctx context.Context, fileID, userID string) error
	HasStar(ctx context.Context, fileID, userID string) (bool, error)
	CountStars(ctx context.Context, fileID string) (int64, error)
}

// Store is the full persistence interface for the drive.
type Store interface {
	UserStore
	FileStore
	PermissionStore
	StarStore

	Ping(ctx context.Context) error
}

// GORMStore must satisfy the Store interface.
var _ Store = (*GORMStore)(nil)
