package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"budgetapp/models"
	"budgetapp/utils"
)

const (
	contextUserID = "user_id"
	contextEmail  = "email"
	contextRole   = "role"
)

// AuthMiddleware validates the bearer token and stores the caller's
// identity in the request context. Every protected handler reads identity
// from here, never from ambient state.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		claims, err := utils.ParseAccessToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(contextUserID, claims.UserID)
		c.Set(contextEmail, claims.Email)
		c.Set(contextRole, claims.Role)
		c.Next()
	}
}

// AdminMiddleware requires the admin global role; runs after AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(contextRole) != models.UserRoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func GetUserID(c *gin.Context) string {
	return c.GetString(contextUserID)
}

func GetUserRole(c *gin.Context) string {
	return c.GetString(contextRole)
}

// SetIdentity injects an identity directly, used by tests that bypass the
// token middleware.
func SetIdentity(c *gin.Context, userID, role string) {
	c.Set(contextUserID, userID)
	c.Set(contextRole, role)
}
