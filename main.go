package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/brlacerra/gh2o-sistema/internal/config"
	"github.com/brlacerra/gh2o-sistema/internal/database"
	"github.com/brlacerra/gh2o-sistema/internal/models"
	"github.com/brlacerra/gh2o-sistema/internal/router"
	"github.com/brlacerra/gh2o-sistema/internal/util"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func main() {
	// load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// ensure basic directories exist
	if err := ensureDir(filepath.Dir(cfg.Database.Path)); err != nil {
		log.Fatalf("create data dir: %v", err)
	}
	if err := ensureDir(filepath.Dir(cfg.Log.File)); err != nil {
		log.Fatalf("create log dir: %v", err)
	}

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	// first run: provision the admin from config
	if err := bootstrapAdmin(db, cfg); err != nil {
		log.Fatalf("bootstrap admin: %v", err)
	}

	// setup router
	r := router.SetupRouter(cfg, db)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	log.Printf("server listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("run server: %v", err)
	}
}

// bootstrapAdmin creates the configured admin account when the users table
// is empty. Without it a fresh install has no way to log in.
func bootstrapAdmin(db *gorm.DB, cfg *config.Config) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if cfg.Bootstrap.AdminEmail == "" || cfg.Bootstrap.AdminPassword == "" {
		log.Printf("no users and no bootstrap admin configured; API will be read-only for public stations")
		return nil
	}

	hash, err := util.HashPassword(cfg.Bootstrap.AdminPassword, cfg.Security.BcryptCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Code:         uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(cfg.Bootstrap.AdminEmail)),
		Name:         cfg.Bootstrap.AdminName,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Printf("bootstrap admin %s created", admin.Email)
	return nil
}

func ensureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
