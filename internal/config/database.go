package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"alfredoptarigan/cv-screener/internal/models"
)

// sqlitePragmas lets the ingest workers and request handlers share one file.
const sqlitePragmas = "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// OpenDatabase opens a gorm connection for the given driver. For sqlite the
// parent directory of path is created when missing.
func OpenDatabase(driver, path, dsn string, verbose bool) (*gorm.DB, error) {
	logLevel := logger.Silent
	if verbose {
		logLevel = logger.Info
	}
	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	}

	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		if dsn == "" {
			return nil, fmt.Errorf("postgres driver selected but no database url configured")
		}
		dialector = postgres.Open(dsn)
	case "sqlite", "":
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		dialector = sqlite.Open(path + sqlitePragmas)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// InitSessionDatabase opens the credential store database and migrates it.
func InitSessionDatabase(cfg *Config) (*gorm.DB, error) {
	db, err := OpenDatabase(cfg.Session.Driver, cfg.Session.Path, cfg.Session.DatabaseURL, false)
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&models.SessionEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate session database: %w", err)
	}
	return db, nil
}

// InitSandboxDatabase opens the sandbox backend database and migrates it.
func InitSandboxDatabase(cfg *Config) (*gorm.DB, error) {
	db, err := OpenDatabase(cfg.Sandbox.Driver, cfg.Sandbox.Path, cfg.Sandbox.DatabaseURL, cfg.Server.Env == "development")
	if err != nil {
		return nil, err
	}

	if err := MigrateSandbox(db); err != nil {
		return nil, err
	}
	return db, nil
}

func MigrateSandbox(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Requirement{},
		&models.CVDetail{},
		&models.Document{},
	); err != nil {
		return fmt.Errorf("failed to migrate sandbox database: %w", err)
	}
	return nil
}
