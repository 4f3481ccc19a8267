package models

import "time"

// Session stores one authenticated browser session. The token is the
// primary key: opaque, 32 random bytes, base64url. A session is valid
// only while now is strictly before ExpiresAt; expired rows may linger
// until a lookup trips over them.
type Session struct {
	Token     string    `gorm:"primaryKey;size:64"`
	UserCode  string    `gorm:"size:36;index;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time

	User User `gorm:"foreignKey:UserCode;constraint:OnDelete:CASCADE"`
}
