package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/marmos91/dittodrive/internal/logger"
	"github.com/marmos91/dittodrive/pkg/drive/models"
	"github.com/marmos91/dittodrive/pkg/drive/storage"
)

// LinkTTL is how long issued download and view URLs remain valid.
const LinkTTL = 15 * time.Minute

// UploadSlot is everything a client needs to push bytes to object storage
// and confirm the upload afterwards.
type UploadSlot struct {
	UploadURL  string            `json:"uploadUrl"`
	Fields     map[string]string `json:"fields"`
	StorageKey string            `json:"storageKey"`
	PublicURL  string            `json:"publicUrl"`
}

// Link is a time-limited URL for fetching a file's content.
type Link struct {
	URL       string `json:"url"`
	ExpiresIn int64  `json:"expiresIn"`
}

// StorageUsage reports a user's consumption against their quota.
type StorageUsage struct {
	Used       int64   `json:"used"`
	Limit      int64   `json:"limit"`
	Available  int64   `json:"available"`
	Percentage float64 `json:"percentage"`
}

// RequestUploadSlot checks the declared size against the caller's quota and
// issues a presigned POST slot for a freshly generated storage key. No file
// record is created yet; that happens at ConfirmUpload.
func (s *DriveService) RequestUploadSlot(ctx context.Context, principal *models.Principal, name string, size int64) (*UploadSlot, error) {
	user, err := s.requireUser(ctx, principal)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, models.NewValidationError("file name is required")
	}
	if size < 0 {
		return nil, models.NewValidationError("file size must not be negative")
	}

	if err := s.quota.CanAdmit(ctx, user, size); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/%s", uuid.NewString(), name)
	slot, err := s.objects.PresignUpload(ctx, key, models.DetectContentType(name), size)
	if err != nil {
		return nil, err
	}

	logger.Debug("issued upload slot", "user", user.ID, "key", key, "size", size)
	return &UploadSlot{
		UploadURL:  slot.URL,
		Fields:     slot.Fields,
		StorageKey: key,
		PublicURL:  s.objects.PublicURL(key),
	}, nil
}

// ConfirmUpload creates the file record after the client has pushed the
// bytes. The declared size is trusted; quota is re-checked because time has
// passed since the slot was issued.
func (s *DriveService) ConfirmUpload(ctx context.Context, principal *models.Principal, name, storageKey, url string, size int64) (*models.File, error) {
	user, err := s.requireUser(ctx, principal)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, models.NewValidationError("file name is required")
	}
	if storageKey == "" {
		return nil, models.NewValidationError("storage key is required")
	}
	if size < 0 {
		return nil, models.NewValidationError("file size must not be negative")
	}

	if err := s.quota.CanAdmit(ctx, user, size); err != nil {
		return nil, err
	}

	file := &models.File{
		OwnerID:     user.ID,
		Name:        name,
		StorageKey:  storageKey,
		Size:        size,
		ContentType: models.DetectContentType(name),
		URL:         url,
	}
	id, err := s.store.CreateFile(ctx, file)
	if err != nil {
		return nil, err
	}

	logger.Info("upload confirmed", "user", user.ID, "file", id, "size", size)
	return s.store.GetFileByID(ctx, id)
}

// GetFile fetches a single file, requiring read access.
func (s *DriveService) GetFile(ctx context.Context, principal *models.Principal, fileID string) (*models.File, error) {
	return s.authorize(ctx, principal, fileID, models.AccessRead)
}

// ListFiles returns the caller's accessible files, optionally filtered by a
// case-insensitive name substring.
func (s *DriveService) ListFiles(ctx context.Context, principal *models.Principal, search string) ([]*models.File, error) {
	if principal == nil {
		return nil, models.ErrAuthenticationRequired
	}
	return s.store.ListAccessibleFiles(ctx, principal.ID, search)
}

// ListTrash returns the caller's trashed files, most recently trashed first.
func (s *DriveService) ListTrash(ctx context.Context, principal *models.Principal) ([]*models.File, error) {
	if principal == nil {
		return nil, models.ErrAuthenticationRequired
	}
	return s.store.ListTrashedFiles(ctx, principal.ID)
}

// ListStarred returns the accessible files the caller has starred.
func (s *DriveService) ListStarred(ctx context.Context, principal *models.Principal, search string) ([]*models.File, error) {
	if principal == nil {
		return nil, models.ErrAuthenticationRequired
	}
	return s.store.ListStarredFiles(ctx, principal.ID, search)
}

// Rename changes a file's display name. Requires write access.
func (s *DriveService) Rename(ctx context.Context, principal *models.Principal, fileID, name string) (*models.File, error) {
	if name == "" {
		return nil, models.NewValidationError("file name is required")
	}
	file, err := s.authorize(ctx, principal, fileID, models.AccessWrite)
	if err != nil {
		return nil, err
	}
	if err := s.store.RenameFile(ctx, file.ID, name); err != nil {
		return nil, err
	}
	return s.store.GetFileByID(ctx, file.ID)
}

// SetVisibility toggles the public flag. Requires write access.
func (s *DriveService) SetVisibility(ctx context.Context, principal *models.Principal, fileID string, public bool) (*models.File, error) {
	file, err := s.authorize(ctx, principal, fileID, models.AccessWrite)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetFileVisibility(ctx, file.ID, public); err != nil {
		return nil, err
	}
	logger.Info("file visibility changed", "file", file.ID, "public", public)
	return s.store.GetFileByID(ctx, file.ID)
}

// DownloadURL issues a time-limited URL that forces a download prompt.
// Requires read access; anonymous callers succeed only on public files.
func (s *DriveService) DownloadURL(ctx context.Context, principal *models.Principal, fileID string) (*Link, error) {
	return s.presign(ctx, principal, fileID, storage.DispositionAttachment)
}

// ViewURL issues a time-limited URL that renders inline.
func (s *DriveService) ViewURL(ctx context.Context, principal *models.Principal, fileID string) (*Link, error) {
	return s.presign(ctx, principal, fileID, storage.DispositionInline)
}

func (s *DriveService) presign(ctx context.Context, principal *models.Principal, fileID string, disposition storage.Disposition) (*Link, error) {
	file, err := s.authorize(ctx, principal, fileID, models.AccessRead)
	if err != nil {
		return nil, err
	}
	url, err := s.objects.PresignDownload(ctx, file.StorageKey, file.Name, disposition)
	if err != nil {
		return nil, err
	}
	return &Link{URL: url, ExpiresIn: int64(LinkTTL.Seconds())}, nil
}

// Usage reports the caller's storage consumption.
func (s *DriveService) Usage(ctx context.Context, principal *models.Principal) (*StorageUsage, error) {
	user, err := s.requireUser(ctx, principal)
	if err != nil {
		return nil, err
	}
	usage, err := s.quota.UsageFor(ctx, user)
	if err != nil {
		return nil, err
	}

	var percentage float64
	if usage.Limit > 0 {
		percentage = float64(usage.Used) / float64(usage.Limit) * 100
	}
	return &StorageUsage{
		Used:       usage.Used,
		Limit:      usage.Limit,
		Available:  usage.Available,
		Percentage: percentage,
	}, nil
}
