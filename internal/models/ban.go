package models

import (
	"time"
)

// Ban holds at most one row per user; re-banning overwrites the row.
type Ban struct {
	UserID    int64      `gorm:"primaryKey" json:"user_id"`
	Reason    string     `gorm:"size:200;not null" json:"reason"`
	AdminID   int64      `gorm:"not null" json:"admin_id"`
	BannedAt  time.Time  `json:"banned_at"`
	ExpiresAt *time.Time `json:"expires_at"` // nil = permanent
	IsActive  bool       `gorm:"default:true;index" json:"is_active"`
}
