package middleware

import (
	"github.com/brlacerra/gh2o-sistema/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuditMiddleware records one row per authenticated request. Anonymous
// traffic is not logged.
func AuditMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		user := UserFrom(c)
		if user == nil {
			return
		}

		entry := models.AuditLog{
			UserCode:  user.Code,
			Method:    c.Request.Method,
			Path:      c.Request.URL.Path,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}

		_ = db.Create(&entry).Error
	}
}
