package db

import (
	"context"
	"time"

	"github.com/terraincognita07/ritual/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StreakRepository struct {
	database *gorm.DB
}

func NewStreakRepository(database *gorm.DB) *StreakRepository {
	return &StreakRepository{database: database}
}

func (repo *StreakRepository) FindByUser(ctx context.Context, userID string) (models.Streak, bool, error) {
	return repo.find(connection(ctx, repo.database), userID)
}

// FindByUserForUpdate reads the streak row under a row lock when called
// inside a transaction.
func (repo *StreakRepository) FindByUserForUpdate(ctx context.Context, userID string) (models.Streak, bool, error) {
	return repo.find(forUpdate(connection(ctx, repo.database)), userID)
}

func (repo *StreakRepository) find(query *gorm.DB, userID string) (models.Streak, bool, error) {
	streak := models.Streak{}
	result := query.Where("user_id = ?", userID).Limit(1).Find(&streak)
	if result.Error != nil {
		return models.Streak{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Streak{}, false, nil
	}
	return streak, true, nil
}

func (repo *StreakRepository) Save(ctx context.Context, streak *models.Streak) error {
	streak.UpdatedAt = time.Now().UTC()
	return connection(ctx, repo.database).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"current_streak",
			"longest_streak",
			"last_active_date",
			"updated_at",
		}),
	}).Create(streak).Error
}

func (repo *StreakRepository) ListAll(ctx context.Context) ([]models.Streak, error) {
	streaks := make([]models.Streak, 0)
	if err := connection(ctx, repo.database).Order("user_id ASC").Find(&streaks).Error; err != nil {
		return nil, err
	}
	return streaks, nil
}

// ListAlive returns streaks that are still running.
func (repo *StreakRepository) ListAlive(ctx context.Context) ([]models.Streak, error) {
	streaks := make([]models.Streak, 0)
	if err := connection(ctx, repo.database).
		Where("current_streak > 0 AND last_active_date IS NOT NULL").
		Order("user_id ASC").
		Find(&streaks).Error; err != nil {
		return nil, err
	}
	return streaks, nil
}
