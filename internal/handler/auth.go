package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/brlacerra/gh2o-sistema/internal/auth"
	"github.com/brlacerra/gh2o-sistema/internal/config"
	"github.com/brlacerra/gh2o-sistema/internal/middleware"
	"github.com/brlacerra/gh2o-sistema/internal/models"
	"github.com/brlacerra/gh2o-sistema/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthHandler owns login, logout and the current-user query.
type AuthHandler struct {
	Verifier *auth.Verifier
	Sessions *auth.Sessions
	Cookie   config.SessionConfig
}

func NewAuthHandler(verifier *auth.Verifier, sessions *auth.Sessions, cookie config.SessionConfig) *AuthHandler {
	return &AuthHandler{
		Verifier: verifier,
		Sessions: sessions,
		Cookie:   cookie,
	}
}

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// publicUser strips everything a browser may see; the password hash never
// leaves the server.
func publicUser(u *models.User) gin.H {
	return gin.H{
		"code":  u.Code,
		"email": u.Email,
		"name":  u.Name,
		"role":  u.Role,
	}
}

// Login verifies credentials, opens a session and attaches the token as an
// HTTP-only cookie. Unknown email and wrong password produce the same 401.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "email e senha são obrigatórios")
		return
	}

	user, err := h.Verifier.Verify(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "credenciais inválidas")
		} else {
			log.Printf("verify credentials: %v", err)
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "erro interno")
		}
		return
	}

	token, err := h.Sessions.Create(user.Code)
	if err != nil {
		log.Printf("create session: %v", err)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "erro interno")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.Cookie.CookieName, token, int(h.Sessions.TTL.Seconds()), "/", "", h.Cookie.Secure, true)

	util.Success(c, util.Response{
		"user": publicUser(user),
	})
}

// Logout revokes the session, if any, and always clears the cookie. A
// request without a live session still succeeds.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(h.Cookie.CookieName); err == nil && token != "" {
		if err := h.Sessions.Revoke(token); err != nil {
			log.Printf("revoke session: %v", err)
		}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.Cookie.CookieName, "", -1, "/", "", h.Cookie.Secure, true)

	util.Success(c, util.Response{
		"message": "sessão encerrada",
	})
}

// Me returns the caller's public identity, or user:null for anonymous
// requests. Anonymous is a normal answer here, not an error.
func (h *AuthHandler) Me(c *gin.Context) {
	user := middleware.UserFrom(c)
	if user == nil {
		util.Success(c, util.Response{
			"user": nil,
		})
		return
	}

	util.Success(c, util.Response{
		"user": publicUser(user),
	})
}
