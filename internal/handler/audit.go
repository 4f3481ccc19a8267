package handler

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/brlacerra/gh2o-sistema/internal/middleware"
	"github.com/brlacerra/gh2o-sistema/internal/models"
	"github.com/brlacerra/gh2o-sistema/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuditHandler lists the audit trail.
type AuditHandler struct {
	DB       *gorm.DB
	PageSize int
}

func NewAuditHandler(db *gorm.DB, pageSize int) *AuditHandler {
	if pageSize <= 0 {
		pageSize = 50
	}
	return &AuditHandler{
		DB:       db,
		PageSize: pageSize,
	}
}

type auditResp struct {
	ID        uint      `json:"id"`
	UserCode  string    `json:"user_code"`
	Method    string    `json:"method"`
	Path      string    `json:"path"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}

// ListAudit returns the caller's own audit rows, newest first. Admins may
// pass ?user=<code> to inspect another user, or omit it for everyone.
func (h *AuditHandler) ListAudit(c *gin.Context) {
	user := middleware.UserFrom(c)

	q := h.DB.Model(&models.AuditLog{})
	if user.Role == models.RoleAdmin {
		if filter := c.Query("user"); filter != "" {
			q = q.Where("user_code = ?", filter)
		}
	} else {
		q = q.Where("user_code = ?", user.Code)
	}

	page := 1
	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "parâmetro page inválido")
			return
		}
		page = n
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Printf("count audit: %v", err)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "erro interno")
		return
	}

	var logs []models.AuditLog
	if err := q.Order("created_at DESC").
		Limit(h.PageSize).
		Offset((page - 1) * h.PageSize).
		Find(&logs).Error; err != nil {
		log.Printf("list audit: %v", err)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "erro interno")
		return
	}

	items := make([]auditResp, 0, len(logs))
	for _, l := range logs {
		items = append(items, auditResp{
			ID:        l.ID,
			UserCode:  l.UserCode,
			Method:    l.Method,
			Path:      l.Path,
			IP:        l.IP,
			UserAgent: l.UserAgent,
			CreatedAt: l.CreatedAt,
		})
	}

	util.Success(c, util.Response{
		"total": total,
		"page":  page,
		"logs":  items,
	})
}
