package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"affiliate-engine/internal/models"
)

// Connect establishes a connection to the PostgreSQL database
func Connect(dsn string, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Error),
		DisableForeignKeyConstraintWhenMigrating: true,
	})

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("database connection established")
	return db, nil
}

// AutoMigrate runs automatic migrations for all models
func AutoMigrate(db *gorm.DB) error {
	// Affiliate program first, referrals reference accounts
	affiliateModels := []interface{}{
		&models.AffiliateAccount{},
		&models.Referral{},
	}

	// Back office
	adminModels := []interface{}{
		&models.Setting{},
		&models.Coupon{},
		&models.AdminLog{},
	}

	for _, group := range [][]interface{}{affiliateModels, adminModels} {
		for _, model := range group {
			if err := db.AutoMigrate(model); err != nil {
				return fmt.Errorf("migration failed for %T: %w", model, err)
			}
		}
	}

	return nil
}
