package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/brlacerra/gh2o-sistema/internal/models"
	"github.com/brlacerra/gh2o-sistema/internal/util"

	"gorm.io/gorm"
)

// tokenBytes gives 256 bits of entropy; uniqueness rests on the generator,
// not on collision checks.
const tokenBytes = 32

// createRetries bounds regeneration if a token ever collides with an
// existing primary key.
const createRetries = 3

// Sessions persists opaque session tokens with a fixed TTL.
type Sessions struct {
	DB  *gorm.DB
	TTL time.Duration
}

// NewSessions builds a session store. ttlHours <= 0 defaults to 24.
func NewSessions(db *gorm.DB, ttlHours int) *Sessions {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	return &Sessions{
		DB:  db,
		TTL: time.Duration(ttlHours) * time.Hour,
	}
}

// Create issues a new token for userCode, valid for the fixed TTL from now.
// The caller is responsible for attaching the token to the client.
func (s *Sessions) Create(userCode string) (string, error) {
	for i := 0; i < createRetries; i++ {
		token, err := util.RandomToken(tokenBytes)
		if err != nil {
			return "", fmt.Errorf("generate token: %w", err)
		}

		session := models.Session{
			Token:     token,
			UserCode:  userCode,
			ExpiresAt: time.Now().Add(s.TTL),
		}
		err = s.DB.Create(&session).Error
		if err == nil {
			return token, nil
		}
		// never overwrite another session on the astronomically unlikely
		// token collision; regenerate instead
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		return "", fmt.Errorf("create session: %w", err)
	}
	return "", fmt.Errorf("create session: token collision after %d attempts", createRetries)
}

// Revoke deletes the session for token. Deleting a token that does not
// exist is not an error.
func (s *Sessions) Revoke(token string) error {
	if token == "" {
		return nil
	}
	if err := s.DB.Delete(&models.Session{}, "token = ?", token).Error; err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Lookup returns the session for token, or nil for unknown and expired
// tokens. The expiry instant itself counts as expired. Expired rows are
// reaped lazily when a lookup trips over them.
func (s *Sessions) Lookup(token string) (*models.Session, error) {
	if token == "" {
		return nil, nil
	}

	var session models.Session
	if err := s.DB.Where("token = ?", token).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("lookup session: %w", err)
	}

	if !time.Now().Before(session.ExpiresAt) {
		_ = s.DB.Delete(&models.Session{}, "token = ?", token).Error
		return nil, nil
	}

	return &session, nil
}
