package db

import (
	"context"
	"time"

	"github.com/terraincognita07/ritual/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WorkoutRepository struct {
	database *gorm.DB
}

func NewWorkoutRepository(database *gorm.DB) *WorkoutRepository {
	return &WorkoutRepository{database: database}
}

func (repo *WorkoutRepository) FindPlan(ctx context.Context, userID string) (models.WorkoutPlan, bool, error) {
	plan := models.WorkoutPlan{}
	result := connection(ctx, repo.database).Where("user_id = ?", userID).Limit(1).Find(&plan)
	if result.Error != nil {
		return models.WorkoutPlan{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.WorkoutPlan{}, false, nil
	}
	return plan, true, nil
}

func (repo *WorkoutRepository) SavePlan(ctx context.Context, plan *models.WorkoutPlan) error {
	plan.UpdatedAt = time.Now().UTC()
	return connection(ctx, repo.database).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"plan", "updated_at"}),
	}).Create(plan).Error
}

func (repo *WorkoutRepository) FindCompletion(ctx context.Context, userID string, day time.Time) (models.WorkoutCompletion, bool, error) {
	dayStart, dayEnd := calendarDayRange(day)
	entry := models.WorkoutCompletion{}
	result := connection(ctx, repo.database).
		Where("user_id = ? AND completion_date >= ? AND completion_date < ?", userID, dayStart, dayEnd).
		Limit(1).
		Find(&entry)
	if result.Error != nil {
		return models.WorkoutCompletion{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.WorkoutCompletion{}, false, nil
	}
	return entry, true, nil
}

func (repo *WorkoutRepository) UpsertCompletion(ctx context.Context, entry *models.WorkoutCompletion) error {
	if entry.ID == "" {
		entry.ID = models.NewID()
	}
	entry.UpdatedAt = time.Now().UTC()
	return connection(ctx, repo.database).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "completion_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"day_of_week",
			"completed_exercises",
			"points_awarded",
			"updated_at",
		}),
	}).Create(entry).Error
}

func (repo *WorkoutRepository) ListCompletions(ctx context.Context, userID string) ([]models.WorkoutCompletion, error) {
	entries := make([]models.WorkoutCompletion, 0)
	if err := connection(ctx, repo.database).
		Where("user_id = ?", userID).
		Order("completion_date ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *WorkoutRepository) SumPoints(ctx context.Context, userID string) (int, error) {
	var total int
	if err := connection(ctx, repo.database).Model(&models.WorkoutCompletion{}).
		Select("COALESCE(SUM(points_awarded), 0)").
		Where("user_id = ?", userID).
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

type userPointsRow struct {
	UserID string `gorm:"column:user_id"`
	Points int    `gorm:"column:points"`
}

// SumPointsByUser returns summed workout points keyed by user id. Users
// without completions are absent.
func (repo *WorkoutRepository) SumPointsByUser(ctx context.Context) (map[string]int, error) {
	rows := make([]userPointsRow, 0)
	if err := connection(ctx, repo.database).Model(&models.WorkoutCompletion{}).
		Select("user_id, COALESCE(SUM(points_awarded), 0) AS points").
		Group("user_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	totals := make(map[string]int, len(rows))
	for _, row := range rows {
		totals[row.UserID] = row.Points
	}
	return totals, nil
}
