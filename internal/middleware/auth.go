package middleware

import (
	"log"
	"net/http"

	"github.com/brlacerra/gh2o-sistema/internal/auth"
	"github.com/brlacerra/gh2o-sistema/internal/models"
	"github.com/brlacerra/gh2o-sistema/internal/util"

	"github.com/gin-gonic/gin"
)

// ContextUserKey is where CurrentUser puts the resolved *models.User.
const ContextUserKey = "currentUser"

// CurrentUser resolves the session cookie and, when it maps to a live
// session, puts the user in the gin context. It never rejects: an absent,
// unknown or expired cookie just leaves the request anonymous, which the
// caller cannot tell apart from never having logged in.
func CurrentUser(resolver *auth.Resolver, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		user, err := resolver.Resolve(token)
		if err != nil {
			log.Printf("resolve session: %v", err)
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "erro interno")
			c.Abort()
			return
		}
		if user != nil {
			c.Set(ContextUserKey, user)
		}
		c.Next()
	}
}

// RequireAuth aborts anonymous requests with 401.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserFrom(c) == nil {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "não autenticado")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin aborts anonymous requests with 401 and authenticated
// non-admins with 403. The two statuses stay distinct so the UI can pick
// redirect-to-login vs. access-denied.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := UserFrom(c)
		if user == nil {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "não autenticado")
			c.Abort()
			return
		}
		if user.Role != models.RoleAdmin {
			util.Error(c, http.StatusForbidden, util.CodeForbidden, "acesso restrito a administradores")
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserFrom returns the resolved user, or nil for anonymous requests.
func UserFrom(c *gin.Context) *models.User {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return user
}
