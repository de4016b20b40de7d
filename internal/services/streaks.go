package services

import (
	"time"

	"github.com/terraincognita07/ritual/internal/models"
)

type StreakState struct {
	Current        int
	Longest        int
	LastActiveDate *time.Time
}

func StreakStateFromModel(streak models.Streak) StreakState {
	state := StreakState{
		Current: streak.CurrentStreak,
		Longest: streak.LongestStreak,
	}
	if streak.LastActiveDate != nil {
		last := CalendarDate(*streak.LastActiveDate)
		state.LastActiveDate = &last
	}
	return state
}

func (state StreakState) ApplyTo(streak *models.Streak) {
	streak.CurrentStreak = state.Current
	streak.LongestStreak = state.Longest
	streak.LastActiveDate = nil
	if state.LastActiveDate != nil {
		last := *state.LastActiveDate
		streak.LastActiveDate = &last
	}
}

// AdvanceStreak folds one evaluated day into the running streak.
//
// An inactive day zeroes the current run and still records the day as last
// evaluated. An active day starts a run, extends it when it falls on the day
// after the last one, or restarts it after a gap. Days on or before the last
// recorded date leave the current run as it is.
func AdvanceStreak(state StreakState, eventDate time.Time, active bool) StreakState {
	day := CalendarDate(eventDate)
	next := StreakState{
		Current:        state.Current,
		Longest:        state.Longest,
		LastActiveDate: &day,
	}

	if !active {
		next.Current = 0
		return next
	}

	switch {
	case state.LastActiveDate == nil:
		next.Current = 1
	case isNextCalendarDay(*state.LastActiveDate, day):
		next.Current = state.Current + 1
	case day.After(CalendarDate(*state.LastActiveDate)):
		next.Current = 1
	}

	next.Longest = max(next.Longest, next.Current)
	return next
}
