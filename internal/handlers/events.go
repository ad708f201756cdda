package handlers

import (
	"log"
	"net/http"

	"anonboard/internal/db"
	"anonboard/internal/dispatch"
	"anonboard/internal/middleware"

	"github.com/gin-gonic/gin"
)

// MessageEvent is a free-text message forwarded by the platform dispatcher.
type MessageEvent struct {
	SenderID int64  `json:"sender_id" binding:"required"`
	Text     string `json:"text" binding:"required"`
}

// ActionEvent is a button press carrying an action token.
type ActionEvent struct {
	SenderID int64  `json:"sender_id" binding:"required"`
	Token    string `json:"token" binding:"required"`
}

type EventHandler struct {
	dispatcher *dispatch.Dispatcher
	limiter    *middleware.SenderLimiter
}

func NewEventHandler(d *dispatch.Dispatcher, l *middleware.SenderLimiter) *EventHandler {
	return &EventHandler{dispatcher: d, limiter: l}
}

// Message handles POST /events/message. Domain failures still answer 200
// with user-facing text; the dispatcher always has something to render.
func (h *EventHandler) Message(c *gin.Context) {
	var ev MessageEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed message event"})
		return
	}
	if !h.limiter.Allow(ev.SenderID) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "slow down"})
		return
	}

	resp := h.dispatcher.HandleMessage(ev.SenderID, ev.Text)
	log.Printf("event=%s kind=message sender=%d", c.GetString(middleware.EventIDKey), ev.SenderID)
	c.JSON(http.StatusOK, resp)
}

// Action handles POST /events/action.
func (h *EventHandler) Action(c *gin.Context) {
	var ev ActionEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed action event"})
		return
	}
	if !h.limiter.Allow(ev.SenderID) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "slow down"})
		return
	}

	resp := h.dispatcher.HandleAction(ev.SenderID, ev.Token)
	log.Printf("event=%s kind=action sender=%d token=%s", c.GetString(middleware.EventIDKey), ev.SenderID, ev.Token)
	c.JSON(http.StatusOK, resp)
}

// Health answers GET /healthz with a store ping.
func (h *EventHandler) Health(c *gin.Context) {
	if err := db.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
