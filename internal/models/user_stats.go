package models

import (
	"time"
)

// UserStats counters only ever increase; rank lookup reads them.
type UserStats struct {
	UserID          int64     `gorm:"primaryKey" json:"user_id"`
	TopicsCreated   int       `gorm:"default:0" json:"topics_created"`
	RepliesWritten  int       `gorm:"default:0" json:"replies_written"`
	RepliesReceived int       `gorm:"default:0" json:"replies_received"`
	LastActive      time.Time `json:"last_active"`
}
