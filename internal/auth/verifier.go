package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/brlacerra/gh2o-sistema/internal/models"
	"github.com/brlacerra/gh2o-sistema/internal/util"

	"gorm.io/gorm"
)

// ErrInvalidCredentials is returned for both an unknown email and a wrong
// password. Callers must not tell the two apart.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Verifier checks an email/password pair against stored bcrypt hashes.
type Verifier struct {
	DB *gorm.DB
}

func NewVerifier(db *gorm.DB) *Verifier {
	return &Verifier{DB: db}
}

// Verify looks up the user by normalized email and checks the password.
// Identity matching is case-insensitive: emails are stored lowercase and
// the identifier is trimmed and lowercased before lookup.
func (v *Verifier) Verify(identifier, password string) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(identifier))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var user models.User
	if err := v.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !util.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}
