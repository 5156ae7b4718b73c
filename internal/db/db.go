package db

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/config"
	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/models"
)

func Connect(cfg config.Config, sink *log.Logger) (*gorm.DB, error) {
	gormLogger := logger.New(
		sink,
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	database, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger:  gormLogger,
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return database, nil
}

// presentIndex keeps a single live PRESENT row per user and day.
const presentIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_attendance_present_per_day
ON attendances (user_id, date)
WHERE attendance_status = 'PRESENT' AND deleted_at IS NULL`

// Migrate creates or updates every table. It works on PostgreSQL and SQLite.
func Migrate(database *gorm.DB) error {
	if err := database.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if err := database.Exec(presentIndex).Error; err != nil {
		return fmt.Errorf("create attendance index: %w", err)
	}
	return nil
}
