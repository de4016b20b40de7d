package api

import (
	"time"

	"github.com/terraincognita07/ritual/internal/db"
	"github.com/terraincognita07/ritual/internal/services"
	"gorm.io/gorm"
)

type Handler struct {
	db                 *gorm.DB
	secretKey          []byte
	location           *time.Location
	accessTokenTTL     time.Duration
	refreshTokenTTL    time.Duration
	duplicatePolicy    services.DuplicateActivityPolicy
	loginAttemptLimit  int
	loginAttemptWindow time.Duration
	loginLimiter       *attemptLimiter
	now                func() time.Time

	repositories       *db.Repositories
	authService        *services.AuthService
	activityService    *services.ActivityService
	junkLimitService   *services.JunkLimitService
	workoutService     *services.WorkoutService
	aggregationService *services.AggregationService
	dashboardService   *services.DashboardService
}

// Options carries the runtime settings the handler needs from config.
type Options struct {
	SecretKey          string
	Location           *time.Location
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	DuplicatePolicy    services.DuplicateActivityPolicy
	LoginAttemptLimit  int
	LoginAttemptWindow time.Duration
}

const (
	defaultAccessTokenTTL     = 30 * time.Minute
	defaultRefreshTokenTTL    = 7 * 24 * time.Hour
	defaultLoginAttemptLimit  = 8
	defaultLoginAttemptWindow = 15 * time.Minute
)

type registerInput struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshInput struct {
	RefreshToken string `json:"refresh_token"`
}

type profileInput struct {
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
}

type changePasswordInput struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type deleteAccountInput struct {
	Password string `json:"password"`
}

type activityInput struct {
	ActivityDate string  `json:"activity_date"`
	Steps        int     `json:"steps"`
	JunkType     *string `json:"junk_type"`
	JunkQuantity int     `json:"junk_quantity"`
}

type junkLimitInput struct {
	MaxQuantity *int `json:"max_quantity"`
}

type completionInput struct {
	CompletedExercises map[string]bool `json:"completed_exercises"`
}

type tokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type activityResponse struct {
	ID           string  `json:"id"`
	ActivityDate string  `json:"activity_date"`
	Steps        int     `json:"steps"`
	JunkType     *string `json:"junk_type"`
	JunkQuantity int     `json:"junk_quantity"`
	Points       int     `json:"points"`
}

type streakResponse struct {
	CurrentStreak  int     `json:"current_streak"`
	LongestStreak  int     `json:"longest_streak"`
	LastActiveDate *string `json:"last_active_date"`
}

type completionResponse struct {
	Date               string          `json:"date"`
	DayOfWeek          string          `json:"day_of_week"`
	CompletedExercises map[string]bool `json:"completed_exercises"`
	PointsAwarded      int             `json:"points_awarded"`
}
