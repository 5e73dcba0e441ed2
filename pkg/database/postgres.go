package database

import (
	"log"
	"time"

	"github.com/clarecoast/shorebound/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Provider{},
		&models.Spot{},
		&models.Activity{},
		&models.Booking{},
		&models.ActivityRSVP{},
		&models.BuddySession{},
		&models.BuddyParticipant{},
		&models.BuddyMessage{},
	); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}

	// Partial unique index: at most one confirmed booking per user+activity+slot
	db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS uniq_confirmed_booking_per_user_slot
		ON bookings (user_id, activity_id, start_at)
		WHERE status = 'confirmed'
	`)

	return db
}
