package services

import (
	"errors"
	"strings"
	"time"
)

const CalendarDateLayout = "2006-01-02"

var errCalendarDateRequired = errors.New("date is required")

func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

func DayRange(value time.Time, location *time.Location) (time.Time, time.Time) {
	start := DateAtLocation(value, location)
	return start, start.AddDate(0, 0, 1)
}

// CalendarDate keeps the year, month and day of value and pins it to UTC
// midnight, the form every ledger row is stored in.
func CalendarDate(value time.Time) time.Time {
	year, month, day := value.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar date as seen in location.
func Today(now time.Time, location *time.Location) time.Time {
	return CalendarDate(DateAtLocation(now, location))
}

func ParseCalendarDate(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, errCalendarDateRequired
	}
	parsed, err := time.ParseInLocation(CalendarDateLayout, trimmed, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return parsed, nil
}

func isNextCalendarDay(previous time.Time, next time.Time) bool {
	return CalendarDate(previous).AddDate(0, 0, 1).Equal(CalendarDate(next))
}
