package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	pkgAuth "github.com/polkiloo/voucherbot/internal/pkg/auth"
)

// SecretParam is the route parameter carrying the webhook secret.
const SecretParam = "secret"

// BearerRequired rejects requests whose bearer token is not accepted by verifier.
func BearerRequired(verifier pkgAuth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !verifier.Enabled() {
			c.Next()
			return
		}
		if err := verifier.Verify(extractToken(c)); err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}

// PathSecretRequired rejects requests whose secret path segment is not accepted by verifier.
// Unknown secrets get 404 so the route does not reveal itself.
func PathSecretRequired(verifier pkgAuth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := verifier.Verify(c.Param(SecretParam)); err != nil {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
