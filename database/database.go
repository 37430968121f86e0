package database

import (
	"fmt"

	"courseplatform/config"
	"courseplatform/logger"
	"courseplatform/models"
	course "courseplatform/models/course"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// Dialector picks the GORM driver for the configured database.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	dsn := cfg.DBDSN
	switch cfg.DBDriver {
	case "postgres", "postgresql", "":
		if dsn == "" {
			dsn = fmt.Sprintf(
				"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
				cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
			)
		}
		return postgres.Open(dsn), nil
	case "mysql":
		if dsn == "" {
			dsn = fmt.Sprintf(
				"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
				cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName,
			)
		}
		return mysql.Open(dsn), nil
	case "sqlite":
		if dsn == "" {
			dsn = cfg.DBName + ".db"
		}
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// Open connects with the configured driver and runs the migrations.
func Open(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	gormCfg := &gorm.Config{}
	if cfg.LogMode == "test" {
		gormCfg.Logger = gormLogger.Default.LogMode(gormLogger.Silent)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.DBDriver, err)
	}

	// Set up connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database instance: %w", err)
	}
	if cfg.DBDriver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(0)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// ConnectDb connects using config.AppConfig and saves the instance globally.
func ConnectDb() {
	db, err := Open(config.AppConfig)
	if err != nil {
		logger.Log.Fatal("Failed to connect to database", "driver", config.AppConfig.DBDriver, "error", err)
	}
	Database = DbInstance{Db: db}
}

// Migrate creates or updates every table of the platform.
func Migrate(db *gorm.DB) error {
	logger.Log.Info("Running Migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.LoginTracking{},
		&models.Subject{},
		&course.Course{},
		&course.Module{},
		&course.Item{},
		&course.Content{},
		&course.Assignment{},
		&course.Submission{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Log.Info("Migrations completed successfully.")
	return nil
}
