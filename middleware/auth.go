package middleware

import (
	"net/http"
	"strings"

	"hotel-pms-backend/models"
	"hotel-pms-backend/utils"

	"github.com/gin-gonic/gin"
)

const (
	// ContextUserID is the acting user's id, used for the
	// created_by/processed_by/reported_by attribution fields.
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// RequireAuth verifies the bearer token and injects the acting user
// into the request context.
func RequireAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			utils.JSONError(c, http.StatusUnauthorized, "missing bearer token")
			c.Abort()
			return
		}

		claims, err := utils.ParseAccessToken(secret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// RequireAdmin gates admin-only routes. Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextRole) != string(models.RoleAdmin) {
			utils.JSONError(c, http.StatusForbidden, "admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// ActingUserID returns the authenticated user's id from the context.
func ActingUserID(c *gin.Context) uint {
	if v, ok := c.Get(ContextUserID); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
