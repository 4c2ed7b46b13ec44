package database

import (
	"fmt"
	"log"

	"cashly/config"
	"cashly/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init opens the Postgres connection and migrates the schema.
func Init(cfg *config.Config) error {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		cfg.Database.Host,
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.DBName,
		cfg.Database.Port,
		cfg.Database.SSLMode,
		cfg.Database.TimeZone,
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	if err := DB.AutoMigrate(
		&models.User{},
		&models.Settings{},
		&models.Account{},
		&models.Category{},
		&models.Transaction{},
		&models.Goal{},
		&models.RecurringBill{},
		&models.CreditCardPayment{},
		&models.Notification{},
		&models.AdviceHistory{},
		&models.PasswordReset{},
	); err != nil {
		return err
	}

	// Older rows predate the status column; without a value those
	// accounts would be unable to log in after an upgrade.
	_ = DB.Model(&models.User{}).
		Where("status IS NULL OR status = ''").
		Update("status", models.UserStatusActive).Error

	log.Println("database ready")
	return nil
}

// GetDB returns the shared connection handle.
func GetDB() *gorm.DB {
	return DB
}
