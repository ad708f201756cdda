package models

import (
	"time"
)

type NotificationPref struct {
	UserID             int64     `gorm:"primaryKey" json:"user_id"`
	ReplyNotifications bool      `gorm:"default:true" json:"reply_notifications"`
	UpdatedAt          time.Time `json:"updated_at"`
}
