package api

import (
	"github.com/terraincognita07/ritual/internal/db"
	"github.com/terraincognita07/ritual/internal/services"
	"gorm.io/gorm"
)

func (handler *Handler) withDependencies(database *gorm.DB) *Handler {
	repositories := db.NewRepositories(database)
	handler.repositories = repositories

	handler.authService = services.NewAuthService(repositories.Transactor, repositories.Users, repositories.Streaks)
	handler.activityService = services.NewActivityService(
		repositories.Transactor,
		repositories.Users,
		repositories.Activities,
		repositories.Streaks,
		repositories.JunkLimits,
	).WithDuplicatePolicy(handler.duplicatePolicy)
	handler.junkLimitService = services.NewJunkLimitService(repositories.Transactor, repositories.Users, repositories.JunkLimits)
	handler.workoutService = services.NewWorkoutService(repositories.Transactor, repositories.Users, repositories.Workouts)
	handler.aggregationService = services.NewAggregationService(
		repositories.Users,
		repositories.Streaks,
		repositories.Workouts,
		repositories.Activities,
		handler.location,
	)
	handler.dashboardService = services.NewDashboardService(
		handler.workoutService,
		handler.aggregationService,
		handler.activityService,
		handler.location,
	)
	return handler
}
