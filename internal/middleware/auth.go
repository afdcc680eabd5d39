package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireAdmin guards the import endpoints. The gateway authenticates the
// caller and forwards the role; requests without an admin role are rejected.
// SECURITY: No default role fallback - requests without role context fail closed.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("user_role")
		if role == "" {
			role = c.GetHeader("X-User-Role")
		}

		if !strings.EqualFold(role, "admin") {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ADMIN_REQUIRED",
					"message": "Catalog import requires an admin role",
				},
			})
			c.Abort()
			return
		}

		if userID := c.GetHeader("X-User-ID"); userID != "" {
			c.Set("user_id", userID)
		}
		c.Set("user_role", role)
		c.Next()
	}
}

// GetUserID retrieves the user ID from gin context
func GetUserID(c *gin.Context) string {
	return c.GetString("user_id")
}
