package models

// DailyLimit counts topics created per user per UTC calendar day. The date is
// stored as YYYY-MM-DD so postgres and sqlite compare it the same way; the
// rollover is implicit, a new day simply keys a new row.
type DailyLimit struct {
	UserID        int64  `gorm:"primaryKey" json:"user_id"`
	Date          string `gorm:"primaryKey;size:10" json:"date"`
	TopicsCreated int    `gorm:"default:0" json:"topics_created"`
}
