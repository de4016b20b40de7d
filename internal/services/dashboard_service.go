package services

import (
	"context"
	"time"

	"github.com/terraincognita07/ritual/internal/models"
)

type DashboardWorkouts interface {
	GetPlan(ctx context.Context, userID string) (models.WorkoutPlanDays, error)
	GetCompletion(ctx context.Context, userID string, date time.Time) (models.CompletionMap, error)
}

type DashboardPoints interface {
	PointsSummary(ctx context.Context, userID string) (PointsSummary, error)
}

type DashboardStreaks interface {
	FindStreak(ctx context.Context, userID string) (models.Streak, error)
}

type DashboardSummary struct {
	WorkoutPlan        models.WorkoutPlanDays `json:"workout_plan"`
	CompletedExercises models.CompletionMap   `json:"completed_exercises"`
	PointsSummary      PointsSummary          `json:"points_summary"`
	CurrentStreak      int                    `json:"current_streak"`
	LongestStreak      int                    `json:"longest_streak"`
}

type DashboardService struct {
	workouts DashboardWorkouts
	points   DashboardPoints
	streaks  DashboardStreaks
	location *time.Location
	now      func() time.Time
}

func NewDashboardService(workouts DashboardWorkouts, points DashboardPoints, streaks DashboardStreaks, location *time.Location) *DashboardService {
	if location == nil {
		location = time.UTC
	}
	return &DashboardService{
		workouts: workouts,
		points:   points,
		streaks:  streaks,
		location: location,
		now:      time.Now,
	}
}

// Summary collects what the home screen shows for today in the service
// time zone.
func (service *DashboardService) Summary(ctx context.Context, userID string) (DashboardSummary, error) {
	points, err := service.points.PointsSummary(ctx, userID)
	if err != nil {
		return DashboardSummary{}, err
	}
	plan, err := service.workouts.GetPlan(ctx, userID)
	if err != nil {
		return DashboardSummary{}, err
	}
	completed, err := service.workouts.GetCompletion(ctx, userID, Today(service.now(), service.location))
	if err != nil {
		return DashboardSummary{}, err
	}
	streak, err := service.streaks.FindStreak(ctx, userID)
	if err != nil {
		return DashboardSummary{}, err
	}

	return DashboardSummary{
		WorkoutPlan:        plan,
		CompletedExercises: completed,
		PointsSummary:      points,
		CurrentStreak:      streak.CurrentStreak,
		LongestStreak:      streak.LongestStreak,
	}, nil
}
