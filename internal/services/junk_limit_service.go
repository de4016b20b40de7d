package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/terraincognita07/ritual/internal/models"
)

var ErrInvalidJunkLimit = errors.New("invalid junk limit")

const maxJunkLimit = 100

type JunkLimitRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.JunkLimit, error)
	InsertMissing(ctx context.Context, limits []models.JunkLimit) error
	Upsert(ctx context.Context, limit *models.JunkLimit) error
}

type JunkLimitService struct {
	tx     Transactor
	users  UserExistenceReader
	limits JunkLimitRepository
}

func NewJunkLimitService(tx Transactor, users UserExistenceReader, limits JunkLimitRepository) *JunkLimitService {
	return &JunkLimitService{tx: tx, users: users, limits: limits}
}

// GetLimits returns the user's limits, creating the default categories the
// first time they are read.
func (service *JunkLimitService) GetLimits(ctx context.Context, userID string) ([]models.JunkLimit, error) {
	var limits []models.JunkLimit
	err := service.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := ensureUserExists(ctx, service.users, userID); err != nil {
			return err
		}

		existing, err := service.limits.ListByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("load junk limits: %w", err)
		}
		if len(existing) > 0 {
			limits = existing
			return nil
		}

		if err := service.limits.InsertMissing(ctx, DefaultJunkLimits(userID)); err != nil {
			return fmt.Errorf("create default junk limits: %w", err)
		}
		limits, err = service.limits.ListByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("load junk limits: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return limits, nil
}

func (service *JunkLimitService) UpdateLimit(ctx context.Context, userID string, junkType string, maxQuantity int) (models.JunkLimit, error) {
	normalized := NormalizeJunkType(junkType)
	if normalized == "" || len(normalized) > 32 {
		return models.JunkLimit{}, fmt.Errorf("%w: junk type is required", ErrInvalidJunkLimit)
	}
	if maxQuantity < 0 || maxQuantity > maxJunkLimit {
		return models.JunkLimit{}, fmt.Errorf("%w: max_quantity must be between 0 and %d", ErrInvalidJunkLimit, maxJunkLimit)
	}

	limit := models.JunkLimit{UserID: userID, JunkType: normalized, MaxQuantity: maxQuantity}
	err := service.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := ensureUserExists(ctx, service.users, userID); err != nil {
			return err
		}
		if err := service.limits.Upsert(ctx, &limit); err != nil {
			return fmt.Errorf("save junk limit: %w", err)
		}

		// On conflict the stored row keeps its original id.
		stored, err := service.limits.ListByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("load junk limits: %w", err)
		}
		for _, candidate := range stored {
			if candidate.JunkType == normalized {
				limit = candidate
				break
			}
		}
		return nil
	})
	if err != nil {
		return models.JunkLimit{}, err
	}
	return limit, nil
}

func DefaultJunkLimits(userID string) []models.JunkLimit {
	limits := make([]models.JunkLimit, 0, len(models.DefaultJunkLimits))
	for junkType, maxQuantity := range models.DefaultJunkLimits {
		limits = append(limits, models.JunkLimit{
			ID:          models.NewID(),
			UserID:      userID,
			JunkType:    junkType,
			MaxQuantity: maxQuantity,
		})
	}
	sort.Slice(limits, func(i, j int) bool {
		return limits[i].JunkType < limits[j].JunkType
	})
	return limits
}
