package router

import (
	"github.com/brlacerra/gh2o-sistema/internal/auth"
	"github.com/brlacerra/gh2o-sistema/internal/config"
	"github.com/brlacerra/gh2o-sistema/internal/handler"
	"github.com/brlacerra/gh2o-sistema/internal/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and the API routes.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	verifier := auth.NewVerifier(db)
	sessions := auth.NewSessions(db, cfg.Session.TTLHours)
	resolver := auth.NewResolver(sessions)

	// ====== API ======
	api := r.Group("/api")

	// every request resolves the session cookie; anonymous is fine here,
	// the guards below decide who gets past
	api.Use(
		middleware.CurrentUser(resolver, cfg.Session.CookieName),
		middleware.AuditMiddleware(db),
	)

	authHandler := handler.NewAuthHandler(verifier, sessions, cfg.Session)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)
	api.GET("/auth/me", authHandler.Me)

	stationHandler := handler.NewStationHandler(db, cfg.App.PageSize)
	exportHandler := handler.NewExportHandler(db)

	// listing and per-station reads are open to anonymous callers; the
	// scope filter and the access gate decide what they actually see
	api.GET("/stations", stationHandler.ListStations)
	api.GET("/stations/:code", stationHandler.GetStation)
	api.GET("/stations/:code/readings", stationHandler.ListReadings)
	api.GET("/stations/:code/export/csv", exportHandler.ExportCSV)
	api.GET("/stations/:code/export/xlsx", exportHandler.ExportXLSX)

	api.POST("/stations", middleware.RequireAdmin(), stationHandler.CreateStation)

	userHandler := handler.NewUserHandler(db, cfg.Security.BcryptCost)
	api.GET("/users", middleware.RequireAuth(), userHandler.ListUsers)
	api.POST("/users", middleware.RequireAdmin(), userHandler.CreateUser)

	auditHandler := handler.NewAuditHandler(db, cfg.App.PageSize)
	api.GET("/audit", middleware.RequireAuth(), auditHandler.ListAudit)

	return r
}
