package models

import "time"

const (
	JunkTypeLow    = "low"
	JunkTypeMedium = "medium"
	JunkTypeHigh   = "high"
)

// DefaultJunkLimits are seeded on the first read of a user's limits.
var DefaultJunkLimits = map[string]int{
	JunkTypeLow:    2,
	JunkTypeMedium: 1,
	JunkTypeHigh:   1,
}

type DailyActivity struct {
	ID           string    `gorm:"primaryKey;type:text" json:"id"`
	UserID       string    `gorm:"type:text;not null;uniqueIndex:uidx_daily_activities_user_date" json:"user_id"`
	ActivityDate time.Time `gorm:"type:date;not null;uniqueIndex:uidx_daily_activities_user_date" json:"activity_date"`
	Steps        int       `gorm:"not null;default:0" json:"steps"`
	JunkType     *string   `json:"junk_type"`
	JunkQuantity int       `gorm:"not null;default:0" json:"junk_quantity"`
	Points       int       `gorm:"not null;default:0" json:"points"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type JunkLimit struct {
	ID          string    `gorm:"primaryKey;type:text" json:"-"`
	UserID      string    `gorm:"type:text;not null;uniqueIndex:uidx_junk_limits_user_type" json:"-"`
	JunkType    string    `gorm:"not null;uniqueIndex:uidx_junk_limits_user_type" json:"junk_type"`
	MaxQuantity int       `gorm:"not null;default:0" json:"max_quantity"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

type Streak struct {
	UserID         string     `gorm:"primaryKey;type:text" json:"user_id"`
	CurrentStreak  int        `gorm:"not null;default:0" json:"current_streak"`
	LongestStreak  int        `gorm:"not null;default:0" json:"longest_streak"`
	LastActiveDate *time.Time `gorm:"type:date" json:"last_active_date"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
