package services

import (
	"errors"
	"time"

	"anonboard/internal/db"
	"anonboard/internal/models"
	"anonboard/pkg/apperrors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NotificationsEnabled reports the reply-notification opt-in, materializing
// the default-on row on first touch.
func NotificationsEnabled(userID int64) (bool, error) {
	var pref models.NotificationPref
	err := db.DB.First(&pref, "user_id = ?", userID).Error
	if err == nil {
		return pref.ReplyNotifications, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, apperrors.Store("read notification pref", err)
	}

	pref = models.NotificationPref{UserID: userID, ReplyNotifications: true}
	if err := db.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&pref).Error; err != nil {
		return false, apperrors.Store("init notification pref", err)
	}
	return true, nil
}

// ToggleNotifications flips the opt-in and returns the new value.
func ToggleNotifications(userID int64) (bool, error) {
	current, err := NotificationsEnabled(userID)
	if err != nil {
		return false, err
	}

	next := !current
	row := models.NotificationPref{UserID: userID, ReplyNotifications: next, UpdatedAt: time.Now()}
	err = db.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"reply_notifications": next,
			"updated_at":          time.Now(),
		}),
	}).Create(&row).Error
	if err != nil {
		return false, apperrors.Store("toggle notification pref", err)
	}
	return next, nil
}
