package database

import (
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"trading-journal-go/internal/config"
	"trading-journal-go/internal/models"
)

// NewDatabase opens the database, migrates the schema and seeds the
// demo account.
func NewDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db, cfg); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate applies the schema additively (new columns may be appended,
// existing rows are never dropped) and lazily creates the demo user on
// first start.
func Migrate(db *gorm.DB, cfg *config.Config) error {
	if err := db.AutoMigrate(&models.User{}, &models.Trade{}); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	// Seed the demo account with ID 1 if it does not exist yet.
	var user models.User
	err := db.First(&user, DemoUserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			ID:             DemoUserID,
			Email:          cfg.Journal.DemoEmail,
			InitialCapital: cfg.Journal.DemoCapital,
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed demo user: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up demo user: %w", err)
	}

	return nil
}
