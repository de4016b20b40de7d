package services

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateActivity = errors.New("activity already recorded")
)

// ValidationError reports a malformed or missing input field.
type ValidationError struct {
	Field   string
	Message string
}

func (err *ValidationError) Error() string {
	if err.Field == "" {
		return err.Message
	}
	return fmt.Sprintf("%s: %s", err.Field, err.Message)
}

func newValidationError(field string, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// DuplicateActivityError is returned when the reject policy sees a second
// submission for the same day.
type DuplicateActivityError struct {
	UserID string
	Date   time.Time
}

func (err *DuplicateActivityError) Error() string {
	return fmt.Sprintf("activity for %s already recorded", err.Date.Format(CalendarDateLayout))
}

func (err *DuplicateActivityError) Unwrap() error {
	return ErrDuplicateActivity
}
