package auth

import (
	"errors"
	"fmt"

	"github.com/brlacerra/gh2o-sistema/internal/models"

	"gorm.io/gorm"
)

// Resolver maps an inbound session token to a user identity.
type Resolver struct {
	Sessions *Sessions
}

func NewResolver(sessions *Sessions) *Resolver {
	return &Resolver{Sessions: sessions}
}

// Resolve returns the user owning the session for token, or nil for an
// anonymous caller. Unknown, expired and orphaned tokens are all plain
// nil: the caller cannot tell "expired" from "never logged in". Resolve
// never mutates session state.
func (r *Resolver) Resolve(token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}

	session, err := r.Sessions.Lookup(token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	var user models.User
	if err := r.Sessions.DB.Where("code = ?", session.UserCode).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// user deleted since login; treat as anonymous
			return nil, nil
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	return &user, nil
}
