// Package config resolves service settings from defaults, an optional YAML
// file and the environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"github.com/terraincognita07/ritual/internal/db"
	"gopkg.in/yaml.v3"
)

const minSecretKeyLength = 32

var insecureSecretKeys = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
}

type Config struct {
	Port      string `yaml:"port" envconfig:"PORT"`
	SecretKey string `yaml:"secret_key" envconfig:"SECRET_KEY"`

	DBDriver    string `yaml:"db_driver" envconfig:"DB_DRIVER"`
	DBPath      string `yaml:"db_path" envconfig:"DB_PATH"`
	DatabaseURL string `yaml:"database_url" envconfig:"DATABASE_URL"`

	Timezone string `yaml:"timezone" envconfig:"TZ"`
	LogLevel string `yaml:"log_level" envconfig:"LOG_LEVEL"`

	AccessTokenTTL  time.Duration `yaml:"access_token_ttl" envconfig:"ACCESS_TOKEN_TTL"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl" envconfig:"REFRESH_TOKEN_TTL"`

	LoginAttemptLimit  int           `yaml:"login_attempt_limit" envconfig:"LOGIN_ATTEMPT_LIMIT"`
	LoginAttemptWindow time.Duration `yaml:"login_attempt_window" envconfig:"LOGIN_ATTEMPT_WINDOW"`

	// ReminderSchedule is a five-field cron spec; "off" disables reminders.
	ReminderSchedule string `yaml:"reminder_schedule" envconfig:"REMINDER_SCHEDULE"`

	ActivityDuplicatePolicy string `yaml:"activity_duplicate_policy" envconfig:"ACTIVITY_DUPLICATE_POLICY"`
}

func Default() Config {
	return Config{
		Port:                    "8080",
		DBDriver:                db.DialectSQLite,
		DBPath:                  filepath.Join("data", "ritual.db"),
		Timezone:                "UTC",
		LogLevel:                "info",
		AccessTokenTTL:          30 * time.Minute,
		RefreshTokenTTL:         7 * 24 * time.Hour,
		LoginAttemptLimit:       8,
		LoginAttemptWindow:      15 * time.Minute,
		ReminderSchedule:        "0 20 * * *",
		ActivityDuplicatePolicy: "upsert",
	}
}

// Load reads .env when present, then the YAML file named by CONFIG_PATH,
// then environment variables, and validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path := strings.TrimSpace(os.Getenv("CONFIG_PATH")); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return nil, err
		}
	}

	// Fields without a matching variable keep their current value.
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	log.WithField("path", path).Debug("config file loaded")
	return nil
}

const ReminderScheduleOff = "off"

// normalize trims values and restores defaults for variables that were set
// but left empty.
func (c *Config) normalize() {
	defaults := Default()
	c.Port = strings.TrimSpace(c.Port)
	c.SecretKey = strings.TrimSpace(c.SecretKey)
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	c.DBPath = strings.TrimSpace(c.DBPath)
	c.DatabaseURL = strings.TrimSpace(c.DatabaseURL)
	c.Timezone = strings.TrimSpace(c.Timezone)
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.ReminderSchedule = strings.TrimSpace(c.ReminderSchedule)
	c.ActivityDuplicatePolicy = strings.ToLower(strings.TrimSpace(c.ActivityDuplicatePolicy))

	fallback := func(value *string, def string) {
		if *value == "" {
			*value = def
		}
	}
	fallback(&c.Port, defaults.Port)
	fallback(&c.DBDriver, defaults.DBDriver)
	fallback(&c.DBPath, defaults.DBPath)
	fallback(&c.Timezone, defaults.Timezone)
	fallback(&c.LogLevel, defaults.LogLevel)
	fallback(&c.ReminderSchedule, defaults.ReminderSchedule)
	fallback(&c.ActivityDuplicatePolicy, defaults.ActivityDuplicatePolicy)
}

func (c *Config) RemindersEnabled() bool {
	return !strings.EqualFold(c.ReminderSchedule, ReminderScheduleOff)
}

func (c *Config) Validate() error {
	if err := validateSecretKey(c.SecretKey); err != nil {
		return err
	}
	if err := validatePort(c.Port); err != nil {
		return err
	}

	switch c.DBDriver {
	case db.DialectSQLite:
		if c.DBPath == "" {
			return errors.New("DB_PATH is required for the sqlite driver")
		}
	case db.DialectPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid TZ %q: %w", c.Timezone, err)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return errors.New("token TTLs must be positive")
	}
	if c.RefreshTokenTTL < c.AccessTokenTTL {
		return errors.New("REFRESH_TOKEN_TTL must not be shorter than ACCESS_TOKEN_TTL")
	}
	if c.LoginAttemptLimit <= 0 || c.LoginAttemptWindow <= 0 {
		return errors.New("LOGIN_ATTEMPT_LIMIT and LOGIN_ATTEMPT_WINDOW must be positive")
	}
	if c.RemindersEnabled() {
		if _, err := cron.ParseStandard(c.ReminderSchedule); err != nil {
			return fmt.Errorf("invalid REMINDER_SCHEDULE: %w", err)
		}
	}

	switch c.ActivityDuplicatePolicy {
	case "upsert", "reject":
	default:
		return fmt.Errorf("unsupported ACTIVITY_DUPLICATE_POLICY %q", c.ActivityDuplicatePolicy)
	}
	return nil
}

func validateSecretKey(secret string) error {
	if secret == "" {
		return errors.New("SECRET_KEY is required")
	}
	if _, insecure := insecureSecretKeys[strings.ToLower(secret)]; insecure {
		return errors.New("SECRET_KEY uses an insecure placeholder value")
	}
	if len(secret) < minSecretKeyLength {
		return fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretKeyLength)
	}
	return nil
}

func validatePort(raw string) error {
	port, err := strconv.Atoi(raw)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid PORT %q", raw)
	}
	return nil
}

// Location returns the service time zone. It falls back to UTC for a zone
// Validate would have rejected.
func (c *Config) Location() *time.Location {
	location, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return location
}

func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

func (c *Config) DBSettings() db.Settings {
	return db.Settings{
		Driver:      c.DBDriver,
		SQLitePath:  c.DBPath,
		PostgresDSN: c.DatabaseURL,
	}
}
