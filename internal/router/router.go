package router

import (
	"anonboard/internal/handlers"
	"anonboard/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Setup builds the gateway routes. Recovery wraps everything so a panicking
// handler logs and answers 500 instead of taking the process down.
func Setup(h *handlers.EventHandler, gatewayToken string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.EventID())

	r.GET("/healthz", h.Health)

	events := r.Group("/events")
	events.Use(middleware.GatewayAuth(gatewayToken))
	{
		events.POST("/message", h.Message)
		events.POST("/action", h.Action)
	}

	return r
}
