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

// ReplyView is a reply joined with its author's display name.
type ReplyView struct {
	ID        uint      `json:"id"`
	TopicID   uint      `json:"topic_id"`
	UserID    int64     `json:"user_id"`
	Text      string    `json:"text"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// AddReply inserts a reply after the ban, existence and length gates. It
// bumps the topic's updated_at and both parties' counters and returns the
// topic author id so the caller can decide about notifying them.
func AddReply(topicID uint, userID int64, raw string) (replyID uint, authorID int64, err error) {
	banned, err := IsBanned(userID)
	if err != nil {
		return 0, 0, err
	}
	if banned {
		return 0, 0, ErrBanned
	}

	body := text.Normalize(raw)
	if text.Length(body) < ReplyMinLen {
		return 0, 0, ErrReplyTooShort
	}
	if text.Length(body) > ReplyMaxLen {
		return 0, 0, ErrReplyTooLong
	}

	var topic models.Topic
	if err := db.DB.First(&topic, topicID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0, ErrTopicNotFound
		}
		return 0, 0, apperrors.Store("read topic", err)
	}
	if !topic.IsActive {
		return 0, 0, ErrTopicClosed
	}

	if _, err := EnsureUsername(userID); err != nil {
		return 0, 0, err
	}

	reply := models.Reply{TopicID: topicID, UserID: userID, Text: body, IsActive: true}
	if err := db.DB.Create(&reply).Error; err != nil {
		return 0, 0, apperrors.Store("insert reply", err)
	}

	if err := db.DB.Model(&topic).UpdateColumn("updated_at", time.Now()).Error; err != nil {
		return 0, 0, apperrors.Store("bump topic", err)
	}

	if err := EnsureStats(userID); err != nil {
		return 0, 0, err
	}
	if err := bumpStat(userID, statRepliesWritten); err != nil {
		return 0, 0, err
	}
	if err := EnsureStats(topic.UserID); err != nil {
		return 0, 0, err
	}
	if err := bumpStat(topic.UserID, statRepliesReceived); err != nil {
		return 0, 0, err
	}

	return reply.ID, topic.UserID, nil
}

// RepliesPage lists a topic's active replies oldest-first.
func RepliesPage(topicID uint, offset, limit int) ([]ReplyView, error) {
	var views []ReplyView
	err := db.DB.Table("replies").
		Select("replies.id, replies.topic_id, replies.user_id, replies.text, replies.created_at, user_names.username").
		Joins("JOIN user_names ON user_names.user_id = replies.user_id").
		Where("replies.topic_id = ? AND replies.is_active = ?", topicID, true).
		Order("replies.created_at ASC").
		Offset(offset).Limit(limit).
		Scan(&views).Error
	if err != nil {
		return nil, apperrors.Store("list replies", err)
	}
	return views, nil
}
