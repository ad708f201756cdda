package services

import (
	"errors"
	"time"

	"anonboard/internal/db"
	"anonboard/internal/models"
	"anonboard/internal/text"
	"anonboard/pkg/apperrors"

	"gorm.io/gorm"
)

// FileReport records a pending report against a topic. A reporter may hold
// only one pending report per topic; the guard runs before the insert.
func FileReport(topicID uint, reporterID int64, reason string) (uint, error) {
	var topic models.Topic
	if err := db.DB.First(&topic, topicID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrTopicNotFound
		}
		return 0, apperrors.Store("read topic", err)
	}

	var pending int64
	err := db.DB.Model(&models.Report{}).
		Where("topic_id = ? AND reporter_id = ? AND status = ?",
			topicID, reporterID, models.ReportStatusPending).
		Count(&pending).Error
	if err != nil {
		return 0, apperrors.Store("check pending report", err)
	}
	if pending > 0 {
		return 0, ErrDuplicateReport
	}

	report := models.Report{
		TopicID:    topicID,
		ReporterID: reporterID,
		Reason:     text.Normalize(reason),
		Status:     models.ReportStatusPending,
	}
	if err := db.DB.Create(&report).Error; err != nil {
		return 0, apperrors.Store("insert report", err)
	}
	return report.ID, nil
}

// ReportView is a pending report joined with the reported topic and its
// author's display name for the admin queue.
type ReportView struct {
	ID         uint      `json:"id"`
	TopicID    uint      `json:"topic_id"`
	ReporterID int64     `json:"reporter_id"`
	Reason     string    `json:"reason"`
	TopicText  string    `json:"topic_text"`
	Username   string    `json:"username"`
	CreatedAt  time.Time `json:"created_at"`
}

// PendingReports lists the moderation queue oldest-first.
func PendingReports() ([]ReportView, error) {
	var views []ReportView
	err := db.DB.Table("reports").
		Select("reports.id, reports.topic_id, reports.reporter_id, reports.reason, reports.created_at, topics.text AS topic_text, user_names.username").
		Joins("JOIN topics ON topics.id = reports.topic_id").
		Joins("JOIN user_names ON user_names.user_id = topics.user_id").
		Where("reports.status = ?", models.ReportStatusPending).
		Order("reports.created_at ASC").
		Scan(&views).Error
	if err != nil {
		return nil, apperrors.Store("list pending reports", err)
	}
	return views, nil
}

// ResolveReport moves a pending report to resolved, recording what the admin
// did. Both terminal states refuse further transitions.
func ResolveReport(reportID uint, action string, adminID int64) error {
	return settleReport(db.DB, reportID, models.ReportStatusResolved, action, adminID)
}

// RejectReport dismisses a pending report without action.
func RejectReport(reportID uint, adminID int64) error {
	return settleReport(db.DB, reportID, models.ReportStatusRejected, "", adminID)
}

// settleReport runs on the handle it is given so moderation flows can settle
// inside a larger transaction.
func settleReport(g *gorm.DB, reportID uint, status, action string, adminID int64) error {
	var report models.Report
	if err := g.First(&report, reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReportNotFound
		}
		return apperrors.Store("read report", err)
	}
	if report.Status != models.ReportStatusPending {
		return ErrReportHandled
	}

	now := time.Now()
	err := g.Model(&report).Updates(map[string]interface{}{
		"status":       status,
		"admin_action": action,
		"admin_id":     adminID,
		"resolved_at":  now,
	}).Error
	if err != nil {
		return apperrors.Store("settle report", err)
	}
	return nil
}
