package services

import (
	"time"

	"anonboard/internal/db"
	"anonboard/internal/models"
	"anonboard/pkg/apperrors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Stat columns bumped through bumpStat. Counters only ever go up.
const (
	statTopicsCreated   = "topics_created"
	statRepliesWritten  = "replies_written"
	statRepliesReceived = "replies_received"
)

// EnsureStats lazily materializes the user's counter row.
func EnsureStats(userID int64) error {
	row := models.UserStats{UserID: userID, LastActive: time.Now()}
	err := db.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
	if err != nil {
		return apperrors.Store("ensure user stats", err)
	}
	return nil
}

// GetStats returns the user's counters, creating the row on first touch.
func GetStats(userID int64) (*models.UserStats, error) {
	if err := EnsureStats(userID); err != nil {
		return nil, err
	}
	var stats models.UserStats
	if err := db.DB.First(&stats, "user_id = ?", userID).Error; err != nil {
		return nil, apperrors.Store("read user stats", err)
	}
	return &stats, nil
}

// bumpStat increments one counter in place and refreshes last_active.
func bumpStat(userID int64, column string) error {
	err := db.DB.Model(&models.UserStats{}).
		Where("user_id = ?", userID).
		UpdateColumns(map[string]interface{}{
			column:        gorm.Expr(column + " + 1"),
			"last_active": time.Now(),
		}).Error
	if err != nil {
		return apperrors.Store("increment "+column, err)
	}
	return nil
}

// RankTier is one rung of the ladder. Ceilings are inclusive.
type RankTier struct {
	Name       string
	MaxTopics  int
	MaxReplies int
}

// RankLadder is declared in non-decreasing ceiling order; the final tier is
// the terminal catch-all.
var RankLadder = []RankTier{
	{"Newcomer", 4, 9},
	{"Visitor", 9, 24},
	{"Member", 19, 49},
	{"Activist", 34, 99},
	{"Author", 54, 199},
	{"Thinker", 84, 399},
	{"Debater", 129, 699},
	{"Philosopher", 199, 1199},
	{"Master", 299, 1999},
	{"Legend", 999999, 999999},
}

// RankFor picks the first tier whose both ceilings dominate the counters.
// Anything off the ladder lands on the terminal tier.
func RankFor(topicsCreated, repliesWritten int) RankTier {
	for _, tier := range RankLadder {
		if topicsCreated <= tier.MaxTopics && repliesWritten <= tier.MaxReplies {
			return tier
		}
	}
	return RankLadder[len(RankLadder)-1]
}

// RankIndexFor is RankFor returning the ladder position, used where tiers
// need comparing.
func RankIndexFor(topicsCreated, repliesWritten int) int {
	for i, tier := range RankLadder {
		if topicsCreated <= tier.MaxTopics && repliesWritten <= tier.MaxReplies {
			return i
		}
	}
	return len(RankLadder) - 1
}

// ProfileView is everything the profile screen shows in one read.
type ProfileView struct {
	Username string
	Rank     RankTier
	Stats    models.UserStats
}

func Profile(userID int64) (*ProfileView, error) {
	username, err := EnsureUsername(userID)
	if err != nil {
		return nil, err
	}
	stats, err := GetStats(userID)
	if err != nil {
		return nil, err
	}
	return &ProfileView{
		Username: username,
		Rank:     RankFor(stats.TopicsCreated, stats.RepliesWritten),
		Stats:    *stats,
	}, nil
}
