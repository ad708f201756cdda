package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EventID tags every inbound event with a correlation id so handler logs and
// dispatcher-side logs can be matched up.
func EventID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Set(EventIDKey, id)
		c.Header("X-Event-ID", id)
		c.Next()
	}
}
