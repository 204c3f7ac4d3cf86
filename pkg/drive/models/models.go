// Package models defines the persistent data model for dittodrive: users,
// files, permission grants, and star markers, plus the request-scoped
// Principal type and the domain error taxonomy.
package models

// AllModels returns all GORM models for auto-migration.
func AllModels() []any {
	return []any{
		&User{},
		&File{},
		&Permission{},
		&Star{},
	}
}
