package auth

import (
	"path/filepath"
	"testing"

	"github.com/brlacerra/gh2o-sistema/internal/database"
	"github.com/brlacerra/gh2o-sistema/internal/models"
	"github.com/brlacerra/gh2o-sistema/internal/util"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, password string, role models.Role) *models.User {
	t.Helper()

	hash, err := util.HashPassword(password, 4) // low cost, tests only
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := models.User{
		Code:         uuid.NewString(),
		Email:        email,
		Name:         "Usuário Teste",
		PasswordHash: hash,
		Role:         role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return &user
}
