package models

import (
	"fmt"
	"strings"
	"time"
)

// User represents a dittodrive account.
//
// Accounts are provisioned on first successful login: the identity provider
// hands us a validated principal, and the record here carries everything the
// drive needs (quota, display data). Users are never hard-deleted.
type User struct {
	// ID is the stable external identity (the IdP subject claim).
	ID          string    `gorm:"primaryKey;size:191" json:"id"`
	Email       string    `gorm:"uniqueIndex;not null;size:255" json:"email"`
	DisplayName string    `gorm:"size:255" json:"display_name,omitempty"`
	// StorageLimit is the quota ceiling in bytes for non-deleted owned files.
	StorageLimit int64     `gorm:"not null" json:"storage_limit"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for User.
func (User) TableName() string {
	return "users"
}

// Validate checks if the user has valid configuration.
func (u *User) Validate() error {
	if u.ID == "" {
		return fmt.Errorf("user id is required")
	}
	if u.Email == "" {
		return fmt.Errorf("email is required")
	}
	if u.StorageLimit < 0 {
		return fmt.Errorf("storage limit must not be negative")
	}
	return nil
}

// NormalizeEmail lowercases an email address for case-insensitive matching.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Principal is the authenticated identity attached to a request.
//
// It is an opaque, already-validated value: the identity provider round trip
// happens outside this service, and the token middleware converts the claims
// into a Principal before any drive operation runs. A nil *Principal means
// the request is anonymous.
type Principal struct {
	ID    string
	Email string
	Name  string
}
