package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/terraincognita07/ritual/internal/models"
)

type AggregationUserRepository interface {
	Exists(ctx context.Context, userID string) (bool, error)
	ListOrdered(ctx context.Context) ([]models.User, error)
}

type StreakLister interface {
	ListAll(ctx context.Context) ([]models.Streak, error)
}

type ActivityPointsReader interface {
	SumPoints(ctx context.Context, userID string) (int, error)
}

type LeaderboardEntry struct {
	Rank          int    `json:"rank"`
	UserID        string `json:"user_id"`
	Username      string `json:"username"`
	AvatarURL     string `json:"avatar_url"`
	Points        int    `json:"points"`
	HighestStreak int    `json:"highest_streak"`
}

type PointsSummary struct {
	TotalPoints    int `json:"total_points"`
	ActivityPoints int `json:"activity_points"`
	TodayPoints    int `json:"today_points"`
}

type AggregationService struct {
	users      AggregationUserRepository
	streaks    StreakLister
	workouts   WorkoutRepository
	activities ActivityPointsReader
	location   *time.Location
	now        func() time.Time
}

func NewAggregationService(users AggregationUserRepository, streaks StreakLister, workouts WorkoutRepository, activities ActivityPointsReader, location *time.Location) *AggregationService {
	if location == nil {
		location = time.UTC
	}
	return &AggregationService{
		users:      users,
		streaks:    streaks,
		workouts:   workouts,
		activities: activities,
		location:   location,
		now:        time.Now,
	}
}

// TotalPoints sums the workout points the user has been awarded. Activity
// points are reported separately by ActivityPointsTotal.
func (service *AggregationService) TotalPoints(ctx context.Context, userID string) (int, error) {
	if err := ensureUserExists(ctx, service.users, userID); err != nil {
		return 0, err
	}
	total, err := service.workouts.SumPoints(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("sum workout points: %w", err)
	}
	return total, nil
}

func (service *AggregationService) ActivityPointsTotal(ctx context.Context, userID string) (int, error) {
	if err := ensureUserExists(ctx, service.users, userID); err != nil {
		return 0, err
	}
	total, err := service.activities.SumPoints(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("sum activity points: %w", err)
	}
	return total, nil
}

func (service *AggregationService) PointsSummary(ctx context.Context, userID string) (PointsSummary, error) {
	workoutTotal, err := service.TotalPoints(ctx, userID)
	if err != nil {
		return PointsSummary{}, err
	}
	activityTotal, err := service.activities.SumPoints(ctx, userID)
	if err != nil {
		return PointsSummary{}, fmt.Errorf("sum activity points: %w", err)
	}

	today := Today(service.now(), service.location)
	completion, found, err := service.workouts.FindCompletion(ctx, userID, today)
	if err != nil {
		return PointsSummary{}, fmt.Errorf("load workout completion: %w", err)
	}
	todayPoints := 0
	if found {
		todayPoints = completion.PointsAwarded
	}

	return PointsSummary{
		TotalPoints:    workoutTotal,
		ActivityPoints: activityTotal,
		TodayPoints:    todayPoints,
	}, nil
}

func (service *AggregationService) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	users, err := service.users.ListOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	points, err := service.workouts.SumPointsByUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("sum workout points: %w", err)
	}
	streaks, err := service.streaks.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load streaks: %w", err)
	}

	longest := make(map[string]int, len(streaks))
	for _, streak := range streaks {
		longest[streak.UserID] = streak.LongestStreak
	}
	return BuildLeaderboard(users, points, longest), nil
}

// BuildLeaderboard ranks users by workout points, highest first. Users with
// equal points keep the order they were passed in.
func BuildLeaderboard(users []models.User, points map[string]int, longestStreaks map[string]int) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(users))
	for _, user := range users {
		entries = append(entries, LeaderboardEntry{
			UserID:        user.ID,
			Username:      user.Username,
			AvatarURL:     user.AvatarURL,
			Points:        points[user.ID],
			HighestStreak: longestStreaks[user.ID],
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Points > entries[j].Points
	})
	for index := range entries {
		entries[index].Rank = index + 1
	}
	return entries
}

// CalendarMonth selects one month of the streak calendar.
type CalendarMonth struct {
	Year  int
	Month time.Month
}

func (service *AggregationService) StreakCalendar(ctx context.Context, userID string, month *CalendarMonth) (StreakCalendar, error) {
	if err := ensureUserExists(ctx, service.users, userID); err != nil {
		return StreakCalendar{}, err
	}
	completions, err := service.workouts.ListCompletions(ctx, userID)
	if err != nil {
		return StreakCalendar{}, fmt.Errorf("load workout completions: %w", err)
	}

	calendar := BuildStreakCalendar(completions)
	if month != nil {
		calendar = RestrictToMonth(calendar, month.Year, month.Month)
	}
	return calendar, nil
}
