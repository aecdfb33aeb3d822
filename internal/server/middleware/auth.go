package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/formatapi/internal/core/domain"
)

// Auth checks for a valid Bearer token in the Authorization header. With no
// keys configured every request passes.
func Auth(keys []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(keys) == 0 {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			_ = c.Error(domain.UnauthorizedError("Missing Authorization header"))
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			_ = c.Error(domain.UnauthorizedError("Invalid Authorization header format"))
			c.Abort()
			return
		}

		token := []byte(strings.TrimSpace(parts[1]))
		for _, k := range keys {
			if subtle.ConstantTimeCompare(token, []byte(k)) == 1 {
				c.Next()
				return
			}
		}

		_ = c.Error(domain.UnauthorizedError("Invalid API Key"))
		c.Abort()
	}
}
