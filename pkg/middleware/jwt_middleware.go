package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"saasbase/pkg/utils"
)

// JWTAuthMiddleware validates the bearer session token and exposes the acting
// user id to handlers. Tenant resolution always happens server-side from this
// identity, never from client input.
func JWTAuthMiddleware() gin.HandlerFunc {

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, "unauthenticated", "Authorization header missing or invalid")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ValidateToken(tokenString)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, "unauthenticated", "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.Subject)
		c.Set("Role", claims.Role)
		c.Next()
	}
}

func RoleMiddleware(requiredRole string) gin.HandlerFunc {

	return func(c *gin.Context) {
		role := c.GetString("Role")

		if role != requiredRole {
			utils.RespondError(c, http.StatusForbidden, "forbidden", "Forbidden: insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}
