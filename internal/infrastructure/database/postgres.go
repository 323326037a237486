package database

import (
	"fmt"

	"physiocare/config"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewConnection opens the database selected by cfg.Driver and prepares the schema.
func NewConnection(cfg config.DBConfig, appCfg config.AppConfig) (*gorm.DB, error) {
	logLevel := logger.Info
	if appCfg.IsProduction() {
		logLevel = logger.Warn
	}
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	}

	switch cfg.Driver {
	case "sqlite":
		db, err := NewSQLiteConnection(cfg.Path, gormConfig)
		if err != nil {
			return nil, err
		}
		if cfg.Migrate {
			if err := AutoMigrate(db); err != nil {
				return nil, err
			}
		}
		return db, nil
	case "", "postgres":
		db, err := NewPostgresConnection(cfg, gormConfig)
		if err != nil {
			return nil, err
		}
		if cfg.Migrate {
			if err := MigrateUp(db); err != nil {
				return nil, err
			}
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func NewPostgresConnection(cfg config.DBConfig, gormConfig *gorm.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port,
	)

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	logrus.Info("Successfully connected to PostgreSQL database")

	return db, nil
}

// NewSQLiteConnection opens a SQLite database. SQLite allows a single writer, so
// the pool is pinned to one connection; transactions must not reach for the
// parent handle while open.
func NewSQLiteConnection(path string, gormConfig *gorm.Config) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	logrus.Infof("Successfully opened SQLite database %s", path)

	return db, nil
}
