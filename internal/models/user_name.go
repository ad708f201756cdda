package models

import (
	"time"
)

type UserName struct {
	UserID    int64     `gorm:"primaryKey" json:"user_id"`
	Username  string    `gorm:"size:20;uniqueIndex;not null" json:"username"`
	UpdatedAt time.Time `json:"updated_at"`
}
