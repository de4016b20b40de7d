package api

import (
	"errors"
	"strings"
	"time"

	"github.com/terraincognita07/ritual/internal/services"
	"gorm.io/gorm"
)

func NewHandler(database *gorm.DB, options Options) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	secretKey := strings.TrimSpace(options.SecretKey)
	if secretKey == "" {
		return nil, errors.New("secret key is required")
	}

	location := options.Location
	if location == nil {
		location = time.UTC
	}
	policy := options.DuplicatePolicy
	if policy == "" {
		policy = services.DuplicateActivityUpsert
	}

	handler := &Handler{
		db:                 database,
		secretKey:          []byte(secretKey),
		location:           location,
		accessTokenTTL:     positiveDuration(options.AccessTokenTTL, defaultAccessTokenTTL),
		refreshTokenTTL:    positiveDuration(options.RefreshTokenTTL, defaultRefreshTokenTTL),
		duplicatePolicy:    policy,
		loginAttemptLimit:  options.LoginAttemptLimit,
		loginAttemptWindow: positiveDuration(options.LoginAttemptWindow, defaultLoginAttemptWindow),
		loginLimiter:       newAttemptLimiter(),
		now:                time.Now,
	}
	if handler.loginAttemptLimit <= 0 {
		handler.loginAttemptLimit = defaultLoginAttemptLimit
	}
	return handler.withDependencies(database), nil
}

func positiveDuration(value time.Duration, fallback time.Duration) time.Duration {
	if value <= 0 {
		return fallback
	}
	return value
}
