package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

const EventIDKey = "event_id"

// GatewayAuth requires the dispatcher's shared token on every event request.
// An empty configured token disables the check for local development.
func GatewayAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}

		got := c.GetHeader("X-Gateway-Token")
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "bad gateway token"})
			return
		}
		c.Next()
	}
}
