package db

import (
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type Settings struct {
	Driver      string
	SQLitePath  string
	PostgresDSN string
}

// Open connects to the configured store and brings its schema up to date.
func Open(settings Settings) (*gorm.DB, error) {
	switch strings.ToLower(strings.TrimSpace(settings.Driver)) {
	case DialectSQLite, "":
		return OpenSQLite(settings.SQLitePath)
	case DialectPostgres:
		return OpenPostgres(settings.PostgresDSN)
	default:
		return nil, fmt.Errorf("db: unsupported driver: %s", settings.Driver)
	}
}

func Close(database *gorm.DB) error {
	if database == nil {
		return nil
	}
	sqlDB, err := database.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(
			log.StandardLogger(),
			gormlogger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	}
}
