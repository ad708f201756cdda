package models

import (
	"time"
)

type Topic struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;index" json:"user_id"` // platform sender id
	Text      string    `gorm:"type:text;not null" json:"text"`
	IsActive  bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"` // bumped on every new reply

	// Not a database column, filled on aggregate queries
	ReplyCount int `gorm:"-" json:"reply_count"`
}
