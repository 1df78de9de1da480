package database

import (
	"log"

	"stayhub/config"
	"stayhub/internal/domain"
	"stayhub/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Error), // Only log errors, not every SQL query
		TranslateError: true,                                 // map driver duplicate-key errors to gorm.ErrDuplicatedKey
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Wallet{},
		&models.Withdrawal{},
		&models.Property{},
		&models.Event{},
		&models.ListingPhoto{},
		&models.Booking{},
		&models.Payment{},
		&models.LedgerEntry{},
		&models.RevenuePeriod{},
		&models.Discrepancy{},
		&models.HostSubscription{},
		&models.Favorite{},
		&models.Notification{},
		&models.ChatMessage{},
		&models.SystemSetting{},
	)
}

// SeedAdmin creates the platform admin account if none exists. Platform-owned
// listings book revenue against this user.
func SeedAdmin(db *gorm.DB) {
	var count int64
	db.Model(&models.User{}).Where("role = ?", domain.RoleAdmin).Count(&count)
	if count > 0 {
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("admin-change-me"), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[seed] admin password hash: %v", err)
		return
	}
	admin := &models.User{
		Username:     "admin",
		Email:        "admin@stayhub.app",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}
	if err := db.Create(admin).Error; err != nil {
		log.Printf("[seed] admin user: %v", err)
		return
	}
	log.Printf("[seed] created admin user id=%d", admin.ID)
}
