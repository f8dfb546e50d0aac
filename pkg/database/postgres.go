package database

import (
	"fmt"

	"freshCartChurn/domain"
	"freshCartChurn/pkg/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func InitPostgres(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.Port,
		cfg.Database.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates the derived tables. Raw tables never live in the
// database, they are read from CSV each run.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&domain.UserFeatures{},
		&domain.RFMScore{},
		&domain.ChurnLabel{},
		&domain.PredictionRecord{},
	)
	if err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}

	return nil
}
