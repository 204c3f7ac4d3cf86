package models

import "time"

// Star marks a file as a favorite of one user.
//
// The relation is idempotent: at most one marker per (file, user) pair, and
// duplicate star calls collapse to a no-op. Starring requires only read
// access and is independent of ownership or grants. Markers cascade away
// when their file is permanently deleted.
type Star struct {
	FileID    string    `gorm:"primaryKey;size:36" json:"file_id"`
	UserID    string    `gorm:"primaryKey;size:191" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName returns the table name for Star.
func (Star) TableName() string {
	return "stars"
}
