package services

import (
	"time"

	"github.com/terraincognita07/ritual/internal/models"
)

type CalendarDay struct {
	Date      string `json:"date"`
	Points    int    `json:"points"`
	Completed bool   `json:"completed"`
}

type StreakCalendar struct {
	Calendar        []CalendarDay `json:"calendar"`
	CurrentStreak   int           `json:"currentStreak"`
	LongestStreak   int           `json:"longestStreak"`
	TotalActiveDays int           `json:"totalActiveDays"`
	TotalPoints     int           `json:"totalPoints"`
}

type calendarEntry struct {
	day       time.Time
	points    int
	completed bool
}

// BuildStreakCalendar folds completions, ordered by date ascending, into the
// workout streak calendar. A day counts as completed when it awarded points.
func BuildStreakCalendar(completions []models.WorkoutCompletion) StreakCalendar {
	entries := make([]calendarEntry, 0, len(completions))
	for _, completion := range completions {
		entries = append(entries, calendarEntry{
			day:       CalendarDate(completion.CompletionDate),
			points:    completion.PointsAwarded,
			completed: completion.PointsAwarded > 0,
		})
	}

	result := StreakCalendar{Calendar: make([]CalendarDay, 0, len(entries))}
	for _, entry := range entries {
		result.Calendar = append(result.Calendar, CalendarDay{
			Date:      entry.day.Format(CalendarDateLayout),
			Points:    entry.points,
			Completed: entry.completed,
		})
		if entry.completed {
			result.TotalActiveDays++
			result.TotalPoints += entry.points
		}
	}

	result.LongestStreak = longestCompletedRun(entries)
	result.CurrentStreak = trailingCompletedRun(entries)
	return result
}

func longestCompletedRun(entries []calendarEntry) int {
	longest := 0
	run := 0
	var previous *time.Time
	for index := range entries {
		entry := entries[index]
		if !entry.completed {
			run = 0
			previous = nil
			continue
		}
		if previous != nil && isNextCalendarDay(*previous, entry.day) {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
		previous = &entries[index].day
	}
	return longest
}

// trailingCompletedRun is zero unless the latest entry is completed.
func trailingCompletedRun(entries []calendarEntry) int {
	if len(entries) == 0 || !entries[len(entries)-1].completed {
		return 0
	}

	run := 1
	for index := len(entries) - 1; index > 0; index-- {
		current := entries[index]
		previous := entries[index-1]
		if !previous.completed {
			break
		}
		if current.day.Sub(previous.day) > 24*time.Hour {
			break
		}
		run++
	}
	return run
}

// RestrictToMonth keeps the calendar days of one month and recomputes the
// month totals. Streak counts are left as computed over the full history.
func RestrictToMonth(calendar StreakCalendar, year int, month time.Month) StreakCalendar {
	restricted := StreakCalendar{
		Calendar:      make([]CalendarDay, 0),
		CurrentStreak: calendar.CurrentStreak,
		LongestStreak: calendar.LongestStreak,
	}
	for _, day := range calendar.Calendar {
		parsed, err := ParseCalendarDate(day.Date)
		if err != nil || parsed.Year() != year || parsed.Month() != month {
			continue
		}
		restricted.Calendar = append(restricted.Calendar, day)
		if day.Completed {
			restricted.TotalActiveDays++
			restricted.TotalPoints += day.Points
		}
	}
	return restricted
}
