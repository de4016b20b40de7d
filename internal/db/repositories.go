package db

import "gorm.io/gorm"

type Repositories struct {
	Transactor *Transactor
	Users      *UserRepository
	Streaks    *StreakRepository
	Activities *ActivityRepository
	JunkLimits *JunkLimitRepository
	Workouts   *WorkoutRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Transactor: NewTransactor(database),
		Users:      NewUserRepository(database),
		Streaks:    NewStreakRepository(database),
		Activities: NewActivityRepository(database),
		JunkLimits: NewJunkLimitRepository(database),
		Workouts:   NewWorkoutRepository(database),
	}
}
