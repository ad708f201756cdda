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

// todayKey is the UTC calendar day used as the daily_limits composite key.
func todayKey() string {
	return time.Now().UTC().Format("2006-01-02")
}

// RemainingToday reports how many topics the user may still create today and
// how many they already did. A missing row means nothing was used.
func RemainingToday(userID int64) (remaining, used int, err error) {
	var row models.DailyLimit
	err = db.DB.Where("user_id = ? AND date = ?", userID, todayKey()).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return DailyTopicLimit, 0, nil
	}
	if err != nil {
		return 0, 0, apperrors.Store("read daily limit", err)
	}

	used = row.TopicsCreated
	remaining = DailyTopicLimit - used
	if remaining < 0 {
		remaining = 0
	}
	return remaining, used, nil
}

// incDailyCount bumps today's counter in place so concurrent events for the
// same user cannot lose an update.
func incDailyCount(userID int64) error {
	row := models.DailyLimit{UserID: userID, Date: todayKey(), TopicsCreated: 1}
	err := db.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"topics_created": gorm.Expr("daily_limits.topics_created + 1"),
		}),
	}).Create(&row).Error
	if err != nil {
		return apperrors.Store("increment daily limit", err)
	}
	return nil
}
