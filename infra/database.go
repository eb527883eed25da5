package infra

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wealthdash/wealthdash/infra/repository"
	"github.com/wealthdash/wealthdash/pkg/config"
)

// ErrUnsupportedDatabase is returned for DATABASE_URL schemes without a driver.
var ErrUnsupportedDatabase = errors.New("unsupported database url")

// IsMemoryURL reports whether url selects the in-process store.
func IsMemoryURL(url string) bool {
	return strings.HasPrefix(url, "memory:")
}

// Dialector picks the gorm driver from the URL scheme.
func Dialector(url string) (gorm.Dialector, error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return postgres.Open(url), nil
	case strings.HasPrefix(url, "sqlite://"):
		return sqlite.Open(strings.TrimPrefix(url, "sqlite://")), nil
	case strings.HasPrefix(url, "file:"):
		return sqlite.Open(url), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedDatabase, url)
}

// NewDBConnection opens the database and migrates the schema.
func NewDBConnection(cnf *config.DB, appEnv string) (*gorm.DB, error) {
	if cnf == nil || cnf.Url == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	dialector, err := Dialector(cnf.Url)
	if err != nil {
		return nil, err
	}

	logMode := logger.Silent
	if appEnv == "development" {
		logMode = logger.Warn
	}

	connection, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logMode),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := connection.DB()
	if err != nil {
		return nil, err
	}
	if _, ok := dialector.(*sqlite.Dialector); ok {
		// One writer at a time; SQLite locks the whole file.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(25)
	}
	sqlDB.SetConnMaxLifetime(1 * time.Hour)

	if err := Migrate(connection); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return connection, nil
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(repository.Models()...)
}
