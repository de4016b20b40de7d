package db

import (
	"context"
	"time"

	"github.com/terraincognita07/ritual/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	database *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{database: database}
}

func (repo *UserRepository) FindByID(ctx context.Context, userID string) (models.User, error) {
	var user models.User
	if err := connection(ctx, repo.database).Where("id = ?", userID).First(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (repo *UserRepository) Exists(ctx context.Context, userID string) (bool, error) {
	var matched int64
	if err := connection(ctx, repo.database).Model(&models.User{}).
		Where("id = ?", userID).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *UserRepository) FindByNormalizedEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	if err := connection(ctx, repo.database).Where("lower(trim(email)) = ?", email).First(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (repo *UserRepository) ExistsByNormalizedEmail(ctx context.Context, email string) (bool, error) {
	var matched int64
	if err := connection(ctx, repo.database).Model(&models.User{}).
		Where("lower(trim(email)) = ?", email).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *UserRepository) ExistsByNormalizedUsername(ctx context.Context, username string) (bool, error) {
	var matched int64
	if err := connection(ctx, repo.database).Model(&models.User{}).
		Where("lower(trim(username)) = ?", username).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = models.NewID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	return connection(ctx, repo.database).Create(user).Error
}

// ListOrdered returns every user in enumeration order: oldest first, id as tie-break.
func (repo *UserRepository) ListOrdered(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0)
	if err := connection(ctx, repo.database).Order("created_at ASC, id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (repo *UserRepository) UpdateProfile(ctx context.Context, userID string, bio string, avatarURL string) error {
	return connection(ctx, repo.database).Model(&models.User{}).Where("id = ?", userID).Updates(map[string]any{
		"bio":        bio,
		"avatar_url": avatarURL,
		"updated_at": time.Now().UTC(),
	}).Error
}

func (repo *UserRepository) UpdatePassword(ctx context.Context, userID string, passwordHash string) error {
	return connection(ctx, repo.database).Model(&models.User{}).Where("id = ?", userID).Updates(map[string]any{
		"password_hash": passwordHash,
		"updated_at":    time.Now().UTC(),
	}).Error
}

// DeleteAccountAndRelatedData removes the user and every row it owns. SQLite
// cascades through foreign keys; the explicit deletes cover schemas built by
// AutoMigrate, which carries no foreign keys.
func (repo *UserRepository) DeleteAccountAndRelatedData(ctx context.Context, userID string) error {
	return connection(ctx, repo.database).Transaction(func(tx *gorm.DB) error {
		owned := []any{
			&models.WorkoutCompletion{},
			&models.WorkoutPlan{},
			&models.DailyActivity{},
			&models.JunkLimit{},
			&models.Streak{},
		}
		for _, model := range owned {
			if err := tx.Where("user_id = ?", userID).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Where("id = ?", userID).Delete(&models.User{}).Error
	})
}
