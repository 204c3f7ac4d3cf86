package models

// AccessLevel represents the level of access a grant confers.
type AccessLevel string

const (
	// AccessRead allows reading metadata and fetching download/view URLs.
	AccessRead AccessLevel = "read"
	// AccessWrite allows mutations: rename, trash, visibility, sharing.
	// Write implies read.
	AccessWrite AccessLevel = "write"
)

// IsValid checks if the level is a valid AccessLevel.
func (l AccessLevel) IsValid() bool {
	return l == AccessRead || l == AccessWrite
}

// Satisfies reports whether a grant at this level satisfies the required
// level. Write satisfies read; read does not satisfy write.
func (l AccessLevel) Satisfies(required AccessLevel) bool {
	if l == AccessWrite {
		return true
	}
	return l == AccessRead && required == AccessRead
}

// Permission is an explicit access grant for one (file, user) pair.
//
// At most one grant exists per pair; re-sharing overwrites the level. The
// owner never holds a grant — ownership implies full access. A grant's
// lifetime never outlives its file: permanent deletion cascades.
type Permission struct {
	FileID string `gorm:"primaryKey;size:36" json:"file_id"`
	UserID string `gorm:"primaryKey;size:191" json:"user_id"`
	Level  string `gorm:"not null;size:10" json:"level"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName returns the table name for Permission.
func (Permission) TableName() string {
	return "permissions"
}

// AccessLevel returns the grant level as an AccessLevel type.
func (p *Permission) AccessLevel() AccessLevel {
	return AccessLevel(p.Level)
}
