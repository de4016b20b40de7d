package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/terraincognita07/ritual/internal/models"
)

var (
	ErrInvalidWorkoutPlan = errors.New("invalid workout plan")
	ErrInvalidCompletion  = errors.New("invalid workout completion")
)

const (
	maxWorkoutNameLength   = 80
	maxExercisesPerWorkout = 30
)

var completionSlotRegex = regexp.MustCompile(`^(monday|tuesday|wednesday|thursday|friday|saturday|sunday)-(0|[1-9][0-9]*)$`)

func isWeekdayKey(key string) bool {
	for _, weekday := range models.Weekdays {
		if weekday == key {
			return true
		}
	}
	return false
}

// NormalizeWorkoutPlan lowercases weekday keys and trims names. Any day with
// an unknown key or an empty workout or exercise name rejects the whole plan.
func NormalizeWorkoutPlan(plan models.WorkoutPlanDays) (models.WorkoutPlanDays, error) {
	normalized := make(models.WorkoutPlanDays, len(plan))
	for rawKey, day := range plan {
		key := strings.ToLower(strings.TrimSpace(rawKey))
		if !isWeekdayKey(key) {
			return nil, fmt.Errorf("%w: unknown weekday %q", ErrInvalidWorkoutPlan, rawKey)
		}
		if _, exists := normalized[key]; exists {
			return nil, fmt.Errorf("%w: duplicate weekday %q", ErrInvalidWorkoutPlan, key)
		}

		name := strings.TrimSpace(day.Name)
		if name == "" || len([]rune(name)) > maxWorkoutNameLength {
			return nil, fmt.Errorf("%w: %s workout name is required", ErrInvalidWorkoutPlan, key)
		}
		if len(day.Exercises) > maxExercisesPerWorkout {
			return nil, fmt.Errorf("%w: %s has too many exercises", ErrInvalidWorkoutPlan, key)
		}

		exercises := make([]string, 0, len(day.Exercises))
		for _, exercise := range day.Exercises {
			trimmed := strings.TrimSpace(exercise)
			if trimmed == "" || len([]rune(trimmed)) > maxWorkoutNameLength {
				return nil, fmt.Errorf("%w: %s has an empty exercise name", ErrInvalidWorkoutPlan, key)
			}
			exercises = append(exercises, trimmed)
		}
		normalized[key] = models.WorkoutDay{Name: name, Exercises: exercises}
	}
	return normalized, nil
}

func ValidateCompletionMap(completed models.CompletionMap) error {
	for slot := range completed {
		if !completionSlotRegex.MatchString(slot) {
			return fmt.Errorf("%w: bad slot key %q", ErrInvalidCompletion, slot)
		}
	}
	return nil
}

// CompletionPoints awards PointsPerExercise for every slot marked done.
func CompletionPoints(completed models.CompletionMap) int {
	done := 0
	for _, flag := range completed {
		if flag {
			done++
		}
	}
	return done * models.PointsPerExercise
}
