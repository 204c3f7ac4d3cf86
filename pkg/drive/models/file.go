package models

import (
	"fmt"
	"mime"
	"path/filepath"
	"time"
)

// File represents the metadata record for one stored blob.
//
// The blob itself lives in object storage under StorageKey; this record
// tracks ownership, naming, visibility, and the soft-delete state. OwnerID,
// StorageKey, and Size are immutable after creation.
type File struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`
	OwnerID     string `gorm:"not null;index;size:191" json:"owner_id"`
	Name        string `gorm:"not null;size:512" json:"name"`
	// StorageKey uniquely addresses the blob in object storage. No two
	// file records may share one.
	StorageKey  string `gorm:"uniqueIndex;not null;size:512" json:"storage_key"`
	Size        int64  `gorm:"not null" json:"size"`
	ContentType string `gorm:"size:255" json:"content_type"`
	URL         string `gorm:"size:1024" json:"url,omitempty"`

	// Public grants read access to everyone, including anonymous callers.
	// Write access is never granted through the public flag.
	Public bool `gorm:"default:false" json:"public"`

	// Deleted marks the file as trashed. Trashed files are invisible to
	// every access path except the trash operations themselves.
	Deleted   bool       `gorm:"default:false;index" json:"deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Owner       *User        `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Permissions []Permission `gorm:"foreignKey:FileID" json:"permissions,omitempty"`
}

// TableName returns the table name for File.
func (File) TableName() string {
	return "files"
}

// Validate checks if the file has valid configuration.
func (f *File) Validate() error {
	if f.OwnerID == "" {
		return fmt.Errorf("owner is required")
	}
	if f.Name == "" {
		return fmt.Errorf("name is required")
	}
	if f.StorageKey == "" {
		return fmt.Errorf("storage key is required")
	}
	if f.Size < 0 {
		return fmt.Errorf("size must not be negative")
	}
	return nil
}

// IsOwner reports whether the given principal owns this file.
func (f *File) IsOwner(p *Principal) bool {
	return p != nil && p.ID == f.OwnerID
}

// GrantFor returns the explicit permission grant for the given user, if any.
// Requires Permissions to be loaded.
func (f *File) GrantFor(userID string) (*Permission, bool) {
	for i := range f.Permissions {
		if f.Permissions[i].UserID == userID {
			return &f.Permissions[i], true
		}
	}
	return nil, false
}

// DetectContentType derives a MIME type from a file name's extension.
// Unknown extensions fall back to application/octet-stream.
func DetectContentType(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
