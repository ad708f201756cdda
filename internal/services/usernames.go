package services

import (
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"time"

	"anonboard/internal/db"
	"anonboard/internal/models"
	"anonboard/internal/text"
	"anonboard/pkg/apperrors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Latin and cyrillic letters, digits, underscore.
var usernameRe = regexp.MustCompile(`^[a-zA-Zа-яА-ЯёЁ0-9_]+$`)

const (
	maxNameAttempts = 20
	// past this many collisions the 4-digit space is crowded, draw wider
	wideNameAttempt = 10
)

// EnsureUsername returns the user's display name, assigning a generated
// anonymous one on first contact. Assignment goes through an insert with
// conflict handling so two concurrent first-contact events for the same user
// agree on one name instead of the loser surfacing a store error.
func EnsureUsername(userID int64) (string, error) {
	var row models.UserName
	err := db.DB.First(&row, "user_id = ?", userID).Error
	if err == nil {
		return row.Username, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", apperrors.Store("read username", err)
	}

	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		span := 9000
		if attempt >= wideNameAttempt {
			span = 900000
		}
		name := fmt.Sprintf("anon_%d", 1000+rand.Intn(span))

		claimed, existing, err := claimUsername(userID, name)
		if err != nil {
			return "", err
		}
		if claimed {
			return name, nil
		}
		if existing != "" {
			return existing, nil
		}
		// candidate name taken by someone else, draw again
	}
	return "", apperrors.Store("assign username", errors.New("no free generated name"))
}

// claimUsername tries to insert the generated name. A conflict inserts
// nothing; the re-read tells the two conflict cases apart: existing != ""
// means this user already holds a name (a concurrent event won), existing
// == "" means the candidate name belongs to someone else.
func claimUsername(userID int64, name string) (claimed bool, existing string, err error) {
	row := models.UserName{UserID: userID, Username: name}
	res := db.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if res.Error != nil {
		return false, "", apperrors.Store("assign username", res.Error)
	}
	if res.RowsAffected > 0 {
		return true, "", nil
	}

	var held models.UserName
	readErr := db.DB.First(&held, "user_id = ?", userID).Error
	if readErr == nil {
		return false, held.Username, nil
	}
	if !errors.Is(readErr, gorm.ErrRecordNotFound) {
		return false, "", apperrors.Store("read username", readErr)
	}
	return false, "", nil
}

// ValidateUsername enforces the 3..12 rune bound and the allowed charset.
// Failures here are recoverable, the conversation state stays pending.
func ValidateUsername(username string) error {
	if username == "" {
		return apperrors.Validation("name cannot be empty")
	}
	if text.Length(username) < UsernameMinLen {
		return apperrors.Validation(fmt.Sprintf("name needs at least %d characters", UsernameMinLen))
	}
	if text.Length(username) > UsernameMaxLen {
		return apperrors.Validation(fmt.Sprintf("name can have at most %d characters", UsernameMaxLen))
	}
	if !usernameRe.MatchString(username) {
		return apperrors.Validation("only letters, digits and _ are allowed")
	}
	return nil
}

// GetUsername reads the current name without assigning one.
func GetUsername(userID int64) (string, error) {
	var row models.UserName
	if err := db.DB.First(&row, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.NotFound("no username assigned")
		}
		return "", apperrors.Store("read username", err)
	}
	return row.Username, nil
}

// SetUsername validates and stores a user-chosen name. Uniqueness is a
// case-sensitive match against everyone else's current name.
func SetUsername(userID int64, username string) error {
	username = text.Normalize(username)
	if err := ValidateUsername(username); err != nil {
		return err
	}

	var count int64
	err := db.DB.Model(&models.UserName{}).
		Where("username = ? AND user_id != ?", username, userID).
		Count(&count).Error
	if err != nil {
		return apperrors.Store("check username uniqueness", err)
	}
	if count > 0 {
		return ErrUsernameTaken
	}

	row := models.UserName{UserID: userID, Username: username, UpdatedAt: time.Now()}
	err = db.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"username":   username,
			"updated_at": time.Now(),
		}),
	}).Create(&row).Error
	if err != nil {
		return apperrors.Store("save username", err)
	}
	return nil
}
