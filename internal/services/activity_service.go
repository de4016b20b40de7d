package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/terraincognita07/ritual/internal/models"
)

type DuplicateActivityPolicy string

const (
	DuplicateActivityUpsert DuplicateActivityPolicy = "upsert"
	DuplicateActivityReject DuplicateActivityPolicy = "reject"
)

const maxDailySteps = 200000

var (
	ErrActivityLoadFailed = errors.New("load activity failed")
	ErrActivitySaveFailed = errors.New("save activity failed")
	ErrStreakSaveFailed   = errors.New("save streak failed")
)

type ActivityInput struct {
	Date         time.Time
	Steps        int
	JunkType     string
	JunkQuantity int
}

// Transactor runs fn inside one store transaction; repositories called with
// the context passed to fn take part in it.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type UserExistenceReader interface {
	Exists(ctx context.Context, userID string) (bool, error)
}

type ActivityRepository interface {
	FindByUserAndDay(ctx context.Context, userID string, day time.Time) (models.DailyActivity, bool, error)
	Upsert(ctx context.Context, entry *models.DailyActivity) error
	ListByUserRange(ctx context.Context, userID string, fromStart *time.Time, toEnd *time.Time) ([]models.DailyActivity, error)
	SumPoints(ctx context.Context, userID string) (int, error)
}

type StreakRepository interface {
	FindByUser(ctx context.Context, userID string) (models.Streak, bool, error)
	FindByUserForUpdate(ctx context.Context, userID string) (models.Streak, bool, error)
	Save(ctx context.Context, streak *models.Streak) error
}

type JunkLimitReader interface {
	FindMaxQuantity(ctx context.Context, userID string, junkType string) (int, bool, error)
}

type ActivityService struct {
	tx         Transactor
	users      UserExistenceReader
	activities ActivityRepository
	streaks    StreakRepository
	junkLimits JunkLimitReader
	policy     DuplicateActivityPolicy
}

type ActivityResult struct {
	Activity models.DailyActivity
	Streak   models.Streak
}

func NewActivityService(tx Transactor, users UserExistenceReader, activities ActivityRepository, streaks StreakRepository, junkLimits JunkLimitReader) *ActivityService {
	return &ActivityService{
		tx:         tx,
		users:      users,
		activities: activities,
		streaks:    streaks,
		junkLimits: junkLimits,
		policy:     DuplicateActivityUpsert,
	}
}

func (service *ActivityService) WithDuplicatePolicy(policy DuplicateActivityPolicy) *ActivityService {
	if policy == DuplicateActivityReject {
		service.policy = DuplicateActivityReject
	} else {
		service.policy = DuplicateActivityUpsert
	}
	return service
}

func ValidateActivityInput(input ActivityInput) error {
	if input.Date.IsZero() {
		return newValidationError("activity_date", "is required")
	}
	if input.Steps < 0 || input.Steps > maxDailySteps {
		return newValidationError("steps", "must be between 0 and 200000")
	}
	if input.JunkQuantity < 0 {
		return newValidationError("junk_quantity", "must not be negative")
	}
	if input.JunkQuantity > 0 && NormalizeJunkType(input.JunkType) == "" {
		return newValidationError("junk_type", "is required when junk_quantity is set")
	}
	return nil
}

// RecordActivity stores the day's activity for the user and advances the
// user's streak. The day row and the streak row are written in one
// transaction.
func (service *ActivityService) RecordActivity(ctx context.Context, userID string, input ActivityInput) (ActivityResult, error) {
	if err := ValidateActivityInput(input); err != nil {
		return ActivityResult{}, err
	}

	day := CalendarDate(input.Date)
	junkType := NormalizeJunkType(input.JunkType)
	var result ActivityResult

	err := service.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		exists, err := service.users.Exists(ctx, userID)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrActivityLoadFailed, err)
		}
		if !exists {
			return ErrUserNotFound
		}

		maxAllowed, err := service.allowedJunk(ctx, userID, junkType)
		if err != nil {
			return err
		}

		streak, _, err := service.streaks.FindByUserForUpdate(ctx, userID)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrActivityLoadFailed, err)
		}

		existing, found, err := service.activities.FindByUserAndDay(ctx, userID, day)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrActivityLoadFailed, err)
		}
		if found && service.policy == DuplicateActivityReject {
			return &DuplicateActivityError{UserID: userID, Date: day}
		}

		entry := models.DailyActivity{
			ID:           existing.ID,
			UserID:       userID,
			ActivityDate: day,
			Steps:        input.Steps,
			JunkQuantity: input.JunkQuantity,
			Points:       ComputePoints(input.Steps, input.JunkQuantity, maxAllowed),
			CreatedAt:    existing.CreatedAt,
		}
		if junkType != "" {
			entry.JunkType = &junkType
		}
		if err := service.activities.Upsert(ctx, &entry); err != nil {
			return fmt.Errorf("%w: %w", ErrActivitySaveFailed, err)
		}

		active := IsActiveDay(input.Steps, input.JunkQuantity, maxAllowed)
		state := AdvanceStreak(StreakStateFromModel(streak), day, active)
		streak.UserID = userID
		state.ApplyTo(&streak)
		if err := service.streaks.Save(ctx, &streak); err != nil {
			return fmt.Errorf("%w: %w", ErrStreakSaveFailed, err)
		}

		result = ActivityResult{Activity: entry, Streak: streak}
		return nil
	})
	if err != nil {
		return ActivityResult{}, err
	}
	return result, nil
}

func (service *ActivityService) allowedJunk(ctx context.Context, userID string, junkType string) (int, error) {
	if junkType == "" {
		return 0, nil
	}
	limit, found, err := service.junkLimits.FindMaxQuantity(ctx, userID, junkType)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrActivityLoadFailed, err)
	}
	if !found {
		return 0, nil
	}
	return limit, nil
}

// ListActivities returns the user's days in [from, to], both optional.
func (service *ActivityService) ListActivities(ctx context.Context, userID string, from *time.Time, to *time.Time) ([]models.DailyActivity, error) {
	var fromStart *time.Time
	var toEnd *time.Time
	if from != nil {
		start := CalendarDate(*from)
		fromStart = &start
	}
	if to != nil {
		end := CalendarDate(*to).AddDate(0, 0, 1)
		toEnd = &end
	}
	return service.activities.ListByUserRange(ctx, userID, fromStart, toEnd)
}

func (service *ActivityService) FindStreak(ctx context.Context, userID string) (models.Streak, error) {
	streak, found, err := service.streaks.FindByUser(ctx, userID)
	if err != nil {
		return models.Streak{}, err
	}
	if !found {
		return models.Streak{UserID: userID}, nil
	}
	return streak, nil
}

func NormalizeJunkType(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
