package models

import "time"

// Role is a closed set. The access gate switches on it explicitly, so
// adding a role means touching every decision arm, not just a string compare.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User represents application user. Email is stored lowercase.
type User struct {
	Code         string `gorm:"primaryKey;size:36"` // UUID
	Email        string `gorm:"size:255;uniqueIndex;not null"`
	Name         string `gorm:"size:64"`
	PasswordHash string `gorm:"size:255;not null"`
	Role         Role   `gorm:"size:16;not null;default:user"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
