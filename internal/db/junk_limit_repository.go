package db

import (
	"context"
	"time"

	"github.com/terraincognita07/ritual/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type JunkLimitRepository struct {
	database *gorm.DB
}

func NewJunkLimitRepository(database *gorm.DB) *JunkLimitRepository {
	return &JunkLimitRepository{database: database}
}

func (repo *JunkLimitRepository) ListByUser(ctx context.Context, userID string) ([]models.JunkLimit, error) {
	limits := make([]models.JunkLimit, 0)
	if err := connection(ctx, repo.database).
		Where("user_id = ?", userID).
		Order("junk_type ASC").
		Find(&limits).Error; err != nil {
		return nil, err
	}
	return limits, nil
}

func (repo *JunkLimitRepository) FindMaxQuantity(ctx context.Context, userID string, junkType string) (int, bool, error) {
	limit := models.JunkLimit{}
	result := connection(ctx, repo.database).
		Select("max_quantity").
		Where("user_id = ? AND junk_type = ?", userID, junkType).
		Limit(1).
		Find(&limit)
	if result.Error != nil {
		return 0, false, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, false, nil
	}
	return limit.MaxQuantity, true, nil
}

// InsertMissing creates the rows whose (user_id, junk_type) pair does not
// exist yet and leaves existing rows untouched.
func (repo *JunkLimitRepository) InsertMissing(ctx context.Context, limits []models.JunkLimit) error {
	if len(limits) == 0 {
		return nil
	}
	for index := range limits {
		if limits[index].ID == "" {
			limits[index].ID = models.NewID()
		}
	}
	return connection(ctx, repo.database).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&limits).Error
}

func (repo *JunkLimitRepository) Upsert(ctx context.Context, limit *models.JunkLimit) error {
	if limit.ID == "" {
		limit.ID = models.NewID()
	}
	limit.UpdatedAt = time.Now().UTC()
	return connection(ctx, repo.database).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "junk_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"max_quantity", "updated_at"}),
	}).Create(limit).Error
}
