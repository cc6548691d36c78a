package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RBACMiddleware checks if the caller has one of the allowed roles
func RBACMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := CallerFromContext(c)
		if !ok {
			abortUnauthorized(c, "unauthenticated")
			return
		}

		if !strings.EqualFold(caller.Status, StatusActive) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   gin.H{"code": "unauthorized", "message": "account is not active"},
			})
			return
		}

		for _, role := range allowedRoles {
			if strings.EqualFold(caller.Role, role) {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   gin.H{"code": "unauthorized", "message": "insufficient role"},
		})
	}
}
