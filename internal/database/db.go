package database

import (
	"fmt"

	"github.com/justsurfingit/job-portal/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the self-hosted entity database and migrates the portal tables.
func Connect(dsn string, log *logrus.Logger) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL is required for the postgres backend")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	log.Info("Database connection established")

	log.Info("Running Migrations...")
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Company{}, &models.Job{}, &models.JobApplication{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
