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

// BanUser writes the single ban row for the user, overwriting any previous
// ban. days <= 0 means permanent.
func BanUser(userID int64, reason string, adminID int64, days int) (*time.Time, error) {
	var expiresAt *time.Time
	if days > 0 {
		t := time.Now().AddDate(0, 0, days)
		expiresAt = &t
	}

	row := models.Ban{
		UserID:    userID,
		Reason:    reason,
		AdminID:   adminID,
		BannedAt:  time.Now(),
		ExpiresAt: expiresAt,
		IsActive:  true,
	}
	err := db.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"reason":     reason,
			"admin_id":   adminID,
			"banned_at":  time.Now(),
			"expires_at": expiresAt,
			"is_active":  true,
		}),
	}).Create(&row).Error
	if err != nil {
		return nil, apperrors.Store("write ban", err)
	}
	return expiresAt, nil
}

// ActiveBan returns the user's ban when it is active and unexpired, nil
// otherwise. A nil expiry never expires.
func ActiveBan(userID int64) (*models.Ban, error) {
	var ban models.Ban
	err := db.DB.
		Where("user_id = ? AND is_active = ?", userID, true).
		Where("expires_at IS NULL OR expires_at > ?", time.Now()).
		First(&ban).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Store("read ban", err)
	}
	return &ban, nil
}

// IsBanned reports whether the user currently has an effective ban.
func IsBanned(userID int64) (bool, error) {
	ban, err := ActiveBan(userID)
	if err != nil {
		return false, err
	}
	return ban != nil, nil
}

// Unban flips the active flag off. Calling it twice is the same as once;
// the row and its history stay.
func Unban(userID int64) error {
	err := db.DB.Model(&models.Ban{}).
		Where("user_id = ?", userID).
		Update("is_active", false).Error
	if err != nil {
		return apperrors.Store("unban", err)
	}
	return nil
}

// BanView is an active ban joined with the user's display name for the
// admin listing.
type BanView struct {
	UserID    int64      `json:"user_id"`
	Username  string     `json:"username"`
	Reason    string     `json:"reason"`
	BannedAt  time.Time  `json:"banned_at"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// ActiveBans lists currently effective bans.
func ActiveBans() ([]BanView, error) {
	var views []BanView
	err := db.DB.Table("bans").
		Select("bans.user_id, user_names.username, bans.reason, bans.banned_at, bans.expires_at").
		Joins("JOIN user_names ON user_names.user_id = bans.user_id").
		Where("bans.is_active = ?", true).
		Where("bans.expires_at IS NULL OR bans.expires_at > ?", time.Now()).
		Order("bans.banned_at DESC").
		Scan(&views).Error
	if err != nil {
		return nil, apperrors.Store("list active bans", err)
	}
	return views, nil
}
