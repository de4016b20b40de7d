package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	Monday    = "monday"
	Tuesday   = "tuesday"
	Wednesday = "wednesday"
	Thursday  = "thursday"
	Friday    = "friday"
	Saturday  = "saturday"
	Sunday    = "sunday"
)

// Weekdays lists plan keys in calendar order starting from Monday.
var Weekdays = []string{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

const PointsPerExercise = 20

type WorkoutDay struct {
	Name      string   `json:"name"`
	Exercises []string `json:"exercises"`
}

// WorkoutPlanDays maps a lowercase weekday name to the workout for that day.
type WorkoutPlanDays map[string]WorkoutDay

// CompletionMap maps an exercise slot key such as "monday-0" to its done flag.
type CompletionMap map[string]bool

type WorkoutPlan struct {
	UserID    string                              `gorm:"primaryKey;type:text"`
	Plan      datatypes.JSONType[WorkoutPlanDays] `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type WorkoutCompletion struct {
	ID                 string                            `gorm:"primaryKey;type:text"`
	UserID             string                            `gorm:"type:text;not null;uniqueIndex:uidx_workout_completions_user_date"`
	CompletionDate     time.Time                         `gorm:"type:date;not null;uniqueIndex:uidx_workout_completions_user_date"`
	DayOfWeek          string                            `gorm:"not null"`
	CompletedExercises datatypes.JSONType[CompletionMap] `gorm:"not null"`
	PointsAwarded      int                               `gorm:"not null;default:0"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func WeekdayName(day time.Time) string {
	switch day.Weekday() {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}
