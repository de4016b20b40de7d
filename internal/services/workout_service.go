package services

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/terraincognita07/ritual/internal/models"
	"gorm.io/datatypes"
)

type WorkoutRepository interface {
	FindPlan(ctx context.Context, userID string) (models.WorkoutPlan, bool, error)
	SavePlan(ctx context.Context, plan *models.WorkoutPlan) error
	FindCompletion(ctx context.Context, userID string, day time.Time) (models.WorkoutCompletion, bool, error)
	UpsertCompletion(ctx context.Context, entry *models.WorkoutCompletion) error
	ListCompletions(ctx context.Context, userID string) ([]models.WorkoutCompletion, error)
	SumPoints(ctx context.Context, userID string) (int, error)
	SumPointsByUser(ctx context.Context) (map[string]int, error)
}

type WorkoutService struct {
	tx       Transactor
	users    UserExistenceReader
	workouts WorkoutRepository
}

func NewWorkoutService(tx Transactor, users UserExistenceReader, workouts WorkoutRepository) *WorkoutService {
	return &WorkoutService{tx: tx, users: users, workouts: workouts}
}

func (service *WorkoutService) GetPlan(ctx context.Context, userID string) (models.WorkoutPlanDays, error) {
	plan, found, err := service.workouts.FindPlan(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load workout plan: %w", err)
	}
	if !found || plan.Plan.Data() == nil {
		return models.WorkoutPlanDays{}, nil
	}
	return plan.Plan.Data(), nil
}

// SavePlan replaces the user's whole weekly plan.
func (service *WorkoutService) SavePlan(ctx context.Context, userID string, days models.WorkoutPlanDays) (models.WorkoutPlanDays, error) {
	normalized, err := NormalizeWorkoutPlan(days)
	if err != nil {
		return nil, err
	}

	err = service.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := ensureUserExists(ctx, service.users, userID); err != nil {
			return err
		}
		plan := models.WorkoutPlan{
			UserID: userID,
			Plan:   datatypes.NewJSONType(normalized),
		}
		if err := service.workouts.SavePlan(ctx, &plan); err != nil {
			return fmt.Errorf("save workout plan: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return normalized, nil
}

func (service *WorkoutService) GetCompletion(ctx context.Context, userID string, date time.Time) (models.CompletionMap, error) {
	entry, found, err := service.workouts.FindCompletion(ctx, userID, CalendarDate(date))
	if err != nil {
		return nil, fmt.Errorf("load workout completion: %w", err)
	}
	if !found || entry.CompletedExercises.Data() == nil {
		return models.CompletionMap{}, nil
	}
	return entry.CompletedExercises.Data(), nil
}

// RecordCompletion replaces the completion map stored for the day and
// recomputes its points.
func (service *WorkoutService) RecordCompletion(ctx context.Context, userID string, date time.Time, completed models.CompletionMap) (models.WorkoutCompletion, error) {
	if date.IsZero() {
		return models.WorkoutCompletion{}, newValidationError("date", "is required")
	}
	if err := ValidateCompletionMap(completed); err != nil {
		return models.WorkoutCompletion{}, err
	}

	day := CalendarDate(date)
	flags := make(models.CompletionMap, len(completed))
	maps.Copy(flags, completed)

	var saved models.WorkoutCompletion
	err := service.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := ensureUserExists(ctx, service.users, userID); err != nil {
			return err
		}

		existing, _, err := service.workouts.FindCompletion(ctx, userID, day)
		if err != nil {
			return fmt.Errorf("load workout completion: %w", err)
		}

		entry := models.WorkoutCompletion{
			ID:                 existing.ID,
			UserID:             userID,
			CompletionDate:     day,
			DayOfWeek:          models.WeekdayName(day),
			CompletedExercises: datatypes.NewJSONType(flags),
			PointsAwarded:      CompletionPoints(flags),
			CreatedAt:          existing.CreatedAt,
		}
		if err := service.workouts.UpsertCompletion(ctx, &entry); err != nil {
			return fmt.Errorf("save workout completion: %w", err)
		}
		saved = entry
		return nil
	})
	if err != nil {
		return models.WorkoutCompletion{}, err
	}
	return saved, nil
}

func ensureUserExists(ctx context.Context, users UserExistenceReader, userID string) error {
	exists, err := users.Exists(ctx, userID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if !exists {
		return ErrUserNotFound
	}
	return nil
}
