package database

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/faturaflow/faturaflow-api/internal/models"
	pkgLogger "github.com/faturaflow/faturaflow-api/pkg/logger"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Connect establishes a database connection. URLs starting with sqlite://
// open a local SQLite file; anything else is handed to PostgreSQL.
func Connect(databaseURL string) (*gorm.DB, error) {
	// Configure GORM logger
	logLevel := logger.Silent
	if os.Getenv("ENVIRONMENT") != "production" {
		logLevel = logger.Info
	}

	gormLogger := pkgLogger.NewGormLogger(
		logLevel,
		200*time.Millisecond,
	)

	dialector, sqliteMode := dialectorFor(databaseURL)

	// Open database connection
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            !sqliteMode,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL database
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// Configure connection pool
	if sqliteMode {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetMaxOpenConns(50)
		sqlDB.SetConnMaxLifetime(time.Hour)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	}

	// Verify connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func dialectorFor(databaseURL string) (gorm.Dialector, bool) {
	if path, ok := strings.CutPrefix(databaseURL, "sqlite://"); ok {
		return sqlite.Open(path), true
	}
	return postgres.Open(databaseURL), false
}

// Models lists every persisted type in migration order
func Models() []interface{} {
	return []interface{}{
		&models.Department{},
		&models.Project{},
		&models.User{},
		&models.Invoice{},
		&models.Attachment{},
		&models.WorkflowLog{},
		&models.Notification{},
		&models.RejectReason{},
	}
}

// Migrate creates or updates the schema
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Seed inserts the default departments and reject reasons when missing
func Seed(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range models.DefaultDepartments {
			dept := models.Department{Name: name}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&dept).Error; err != nil {
				return fmt.Errorf("failed to seed department %q: %w", name, err)
			}
		}
		for _, description := range models.DefaultRejectReasons {
			reason := models.RejectReason{Description: description}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&reason).Error; err != nil {
				return fmt.Errorf("failed to seed reject reason %q: %w", description, err)
			}
		}
		return nil
	})
}

// Close releases the underlying connection pool
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
