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

// TopicView is a topic joined with its author's display name.
type TopicView struct {
	ID         uint      `json:"id"`
	UserID     int64     `json:"user_id"`
	Text       string    `json:"text"`
	Username   string    `json:"username"`
	CreatedAt  time.Time `json:"created_at"`
	ReplyCount int       `json:"reply_count"`
}

// CreateTopic runs the ban, quota and length gates in that order, then
// inserts the topic and bumps the daily counter and author stats.
func CreateTopic(userID int64, raw string) (uint, error) {
	banned, err := IsBanned(userID)
	if err != nil {
		return 0, err
	}
	if banned {
		return 0, ErrBanned
	}

	remaining, _, err := RemainingToday(userID)
	if err != nil {
		return 0, err
	}
	if remaining <= 0 {
		return 0, ErrDailyLimit
	}

	body := text.Normalize(raw)
	if text.Length(body) < TopicMinLen {
		return 0, ErrTopicTooShort
	}
	if text.Length(body) > TopicMaxLen {
		return 0, ErrTopicTooLong
	}

	// Feeds join on the author's display name, so make sure one exists.
	if _, err := EnsureUsername(userID); err != nil {
		return 0, err
	}

	topic := models.Topic{UserID: userID, Text: body, IsActive: true}
	if err := db.DB.Create(&topic).Error; err != nil {
		return 0, apperrors.Store("insert topic", err)
	}

	if err := incDailyCount(userID); err != nil {
		return 0, err
	}
	if err := EnsureStats(userID); err != nil {
		return 0, err
	}
	if err := bumpStat(userID, statTopicsCreated); err != nil {
		return 0, err
	}
	return topic.ID, nil
}

// GetTopic returns an active topic with author name and reply count.
func GetTopic(topicID uint) (*TopicView, error) {
	var view TopicView
	err := db.DB.Table("topics").
		Select("topics.id, topics.user_id, topics.text, topics.created_at, user_names.username").
		Joins("JOIN user_names ON user_names.user_id = topics.user_id").
		Where("topics.id = ? AND topics.is_active = ?", topicID, true).
		Scan(&view).Error
	if err != nil {
		return nil, apperrors.Store("read topic", err)
	}
	if view.ID == 0 {
		return nil, ErrTopicNotFound
	}

	var count int64
	err = db.DB.Model(&models.Reply{}).
		Where("topic_id = ? AND is_active = ?", topicID, true).
		Count(&count).Error
	if err != nil {
		return nil, apperrors.Store("count replies", err)
	}
	view.ReplyCount = int(count)
	return &view, nil
}

// CloseTopic soft-deletes the author's own topic. Feeds and lookups filter
// on is_active, so the thread disappears but its rows stay.
func CloseTopic(topicID uint, userID int64) error {
	var topic models.Topic
	if err := db.DB.First(&topic, topicID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTopicNotFound
		}
		return apperrors.Store("read topic", err)
	}
	if topic.UserID != userID {
		return ErrNotAuthor
	}

	err := db.DB.Model(&topic).Update("is_active", false).Error
	if err != nil {
		return apperrors.Store("close topic", err)
	}
	return nil
}

// DeleteTopic hard-deletes the topic with its replies and reports in one
// transaction. Only the author or an admin may do this.
func DeleteTopic(topicID uint, byUserID int64, isAdmin bool) error {
	var topic models.Topic
	if err := db.DB.First(&topic, topicID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTopicNotFound
		}
		return apperrors.Store("read topic", err)
	}
	if !isAdmin && topic.UserID != byUserID {
		return ErrNotAuthor
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		return purgeTopic(tx, topicID)
	})
	if err != nil {
		return apperrors.Store("delete topic", err)
	}
	return nil
}

// purgeTopic removes the topic with its replies and reports inside the
// caller's transaction.
func purgeTopic(tx *gorm.DB, topicID uint) error {
	if err := tx.Where("topic_id = ?", topicID).Delete(&models.Reply{}).Error; err != nil {
		return err
	}
	if err := tx.Where("topic_id = ?", topicID).Delete(&models.Report{}).Error; err != nil {
		return err
	}
	return tx.Delete(&models.Topic{}, topicID).Error
}

// DeleteTopicModerated hard-deletes a reported topic and settles the linked
// report as resolved/"deleted" in one transaction. If either step fails
// nothing changes: the topic survives and the report stays pending.
func DeleteTopicModerated(topicID uint, adminID int64, reportID *uint) error {
	var topic models.Topic
	if err := db.DB.First(&topic, topicID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTopicNotFound
		}
		return apperrors.Store("read topic", err)
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if reportID != nil {
			if err := settleReport(tx, *reportID, models.ReportStatusResolved, "deleted", adminID); err != nil {
				return err
			}
		}
		return purgeTopic(tx, topicID)
	})
	if err == nil {
		return nil
	}
	var ae *apperrors.AppError
	if errors.As(err, &ae) {
		return err
	}
	return apperrors.Store("delete topic", err)
}

// TopicAuthor returns the author id regardless of the active flag, used by
// moderation flows that act on already-reported topics.
func TopicAuthor(topicID uint) (int64, error) {
	var topic models.Topic
	if err := db.DB.First(&topic, topicID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrTopicNotFound
		}
		return 0, apperrors.Store("read topic", err)
	}
	return topic.UserID, nil
}

// LatestTopics pages the feed newest-first.
func LatestTopics(offset, limit int) ([]TopicView, error) {
	var views []TopicView
	err := db.DB.Table("topics").
		Select("topics.id, topics.user_id, topics.text, topics.created_at, user_names.username").
		Joins("JOIN user_names ON user_names.user_id = topics.user_id").
		Where("topics.is_active = ?", true).
		Order("topics.created_at DESC").
		Offset(offset).Limit(limit).
		Scan(&views).Error
	if err != nil {
		return nil, apperrors.Store("list latest topics", err)
	}
	return views, nil
}

// RandomTopic picks one active topic id, 0 when the board is empty.
func RandomTopic() (uint, error) {
	var topic models.Topic
	err := db.DB.Where("is_active = ?", true).
		Order("RANDOM()").
		First(&topic).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, apperrors.Store("pick random topic", err)
	}
	return topic.ID, nil
}

// PopularTopics orders active topics by active-reply count, newest first on
// ties.
func PopularTopics(limit int) ([]TopicView, error) {
	var views []TopicView
	err := db.DB.Table("topics").
		Select("topics.id, topics.user_id, topics.text, topics.created_at, user_names.username, COUNT(replies.id) AS reply_count").
		Joins("LEFT JOIN replies ON replies.topic_id = topics.id AND replies.is_active = ?", true).
		Joins("JOIN user_names ON user_names.user_id = topics.user_id").
		Where("topics.is_active = ?", true).
		Group("topics.id, topics.user_id, topics.text, topics.created_at, user_names.username").
		Order("reply_count DESC, topics.created_at DESC").
		Limit(limit).
		Scan(&views).Error
	if err != nil {
		return nil, apperrors.Store("list popular topics", err)
	}
	return views, nil
}
