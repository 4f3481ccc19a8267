package models

import "time"

// AuditLog records authenticated API operations.
type AuditLog struct {
	ID        uint   `gorm:"primaryKey"`
	UserCode  string `gorm:"size:36;index"`
	Method    string `gorm:"size:16"`
	Path      string `gorm:"size:255"`
	IP        string `gorm:"size:64"`
	UserAgent string `gorm:"size:255"`
	CreatedAt time.Time
}
