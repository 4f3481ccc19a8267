package handler

import (
	"log"
	"net/http"
	"strings"

	"github.com/brlacerra/gh2o-sistema/internal/middleware"
	"github.com/brlacerra/gh2o-sistema/internal/models"
	"github.com/brlacerra/gh2o-sistema/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserHandler owns user listing and provisioning.
type UserHandler struct {
	DB         *gorm.DB
	BcryptCost int
}

func NewUserHandler(db *gorm.DB, bcryptCost int) *UserHandler {
	return &UserHandler{
		DB:         db,
		BcryptCost: bcryptCost,
	}
}

type userResp struct {
	Code string      `json:"code"`
	Name string      `json:"name"`
	Role models.Role `json:"role"`
}

// ListUsers returns all users for admins and only the caller's own record
// otherwise. Used by the station form to pick an owner.
func (h *UserHandler) ListUsers(c *gin.Context) {
	user := middleware.UserFrom(c)

	q := h.DB.Model(&models.User{})
	if user.Role != models.RoleAdmin {
		q = q.Where("code = ?", user.Code)
	}

	var users []models.User
	if err := q.Order("code ASC").Find(&users).Error; err != nil {
		log.Printf("list users: %v", err)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "erro interno")
		return
	}

	items := make([]userResp, 0, len(users))
	for _, u := range users {
		items = append(items, userResp{
			Code: u.Code,
			Name: u.Name,
			Role: u.Role,
		})
	}

	util.Success(c, util.Response{
		"users": items,
	})
}

type createUserReq struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"max=64"`
	Password string `json:"password" binding:"required,min=8,max=64"`
	Role     string `json:"role" binding:"omitempty,oneof=admin user"`
}

// CreateUser provisions a user (admin only, enforced by the router).
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req createUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "parâmetros inválidos")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	role := models.Role(req.Role)
	if role == "" {
		role = models.RoleUser
	}

	var count int64
	if err := h.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		log.Printf("check email: %v", err)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "erro interno")
		return
	}
	if count > 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "já existe um usuário com este email")
		return
	}

	hash, err := util.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		log.Printf("hash password: %v", err)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "erro interno")
		return
	}

	user := models.User{
		Code:         uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
		Role:         role,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		log.Printf("create user: %v", err)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "erro interno")
		return
	}

	util.Success(c, util.Response{
		"user": publicUser(&user),
	})
}
