package models

import (
	"time"
)

const (
	ReportStatusPending  = "pending"
	ReportStatusResolved = "resolved"
	ReportStatusRejected = "rejected"
)

type Report struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	TopicID     uint       `gorm:"not null;index" json:"topic_id"`
	Topic       Topic      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"topic"`
	ReporterID  int64      `gorm:"not null;index" json:"reporter_id"`
	Reason      string     `gorm:"size:200;not null" json:"reason"`
	Status      string     `gorm:"size:20;default:'pending';index" json:"status"`
	AdminAction string     `gorm:"size:50" json:"admin_action"` // e.g. "deleted", "ban_7d"
	AdminID     *int64     `json:"admin_id"`
	CreatedAt   time.Time  `json:"created_at"`
	ResolvedAt  *time.Time `json:"resolved_at"`
}
