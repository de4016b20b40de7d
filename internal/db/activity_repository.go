package db

import (
	"context"
	"time"

	"github.com/terraincognita07/ritual/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ActivityRepository struct {
	database *gorm.DB
}

func NewActivityRepository(database *gorm.DB) *ActivityRepository {
	return &ActivityRepository{database: database}
}

func (repo *ActivityRepository) FindByUserAndDay(ctx context.Context, userID string, day time.Time) (models.DailyActivity, bool, error) {
	dayStart, dayEnd := calendarDayRange(day)
	entry := models.DailyActivity{}
	result := connection(ctx, repo.database).
		Where("user_id = ? AND activity_date >= ? AND activity_date < ?", userID, dayStart, dayEnd).
		Limit(1).
		Find(&entry)
	if result.Error != nil {
		return models.DailyActivity{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.DailyActivity{}, false, nil
	}
	return entry, true, nil
}

// Upsert inserts the day's row or overwrites the existing one for the same
// (user_id, activity_date).
func (repo *ActivityRepository) Upsert(ctx context.Context, entry *models.DailyActivity) error {
	if entry.ID == "" {
		entry.ID = models.NewID()
	}
	entry.UpdatedAt = time.Now().UTC()
	return connection(ctx, repo.database).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "activity_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"steps",
			"junk_type",
			"junk_quantity",
			"points",
			"updated_at",
		}),
	}).Create(entry).Error
}

func (repo *ActivityRepository) Create(ctx context.Context, entry *models.DailyActivity) error {
	if entry.ID == "" {
		entry.ID = models.NewID()
	}
	return connection(ctx, repo.database).Create(entry).Error
}

func (repo *ActivityRepository) ListByUserRange(ctx context.Context, userID string, fromStart *time.Time, toEnd *time.Time) ([]models.DailyActivity, error) {
	query := connection(ctx, repo.database).Model(&models.DailyActivity{}).Where("user_id = ?", userID)
	if fromStart != nil {
		query = query.Where("activity_date >= ?", *fromStart)
	}
	if toEnd != nil {
		query = query.Where("activity_date < ?", *toEnd)
	}

	entries := make([]models.DailyActivity, 0)
	if err := query.Order("activity_date ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *ActivityRepository) SumPoints(ctx context.Context, userID string) (int, error) {
	var total int
	if err := connection(ctx, repo.database).Model(&models.DailyActivity{}).
		Select("COALESCE(SUM(points), 0)").
		Where("user_id = ?", userID).
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func calendarDayRange(day time.Time) (time.Time, time.Time) {
	year, month, date := day.Date()
	start := time.Date(year, month, date, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}
