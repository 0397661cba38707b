package db

import (
	"errors"

	"bantu/internal/models"
	"bantu/internal/utils"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open connects to Postgres and returns the handle. TranslateError is on so
// unique-constraint races surface as gorm.ErrDuplicatedKey and can be treated
// as benign no-ops by the handlers.
func Open(dsn string) (*gorm.DB, error) {
	database, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	return database, nil
}

// Migrate creates or updates the schema and seeds the default account.
func Migrate(database *gorm.DB) error {
	err := database.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Like{},
		&models.Comment{},
		&models.Follow{},
	)
	if err != nil {
		return err
	}
	return seedAdmin(database)
}

// seedAdmin creates the default user on first boot, mirroring the original
// deployment. Remove in production.
func seedAdmin(database *gorm.DB) error {
	var existing models.User
	err := database.Where("username = ?", "admin").First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := utils.HashPassword("admin123")
	if err != nil {
		return err
	}
	admin := models.User{
		Username: "admin",
		Email:    "admin@bantu.africa",
		Password: hash,
	}
	if err := database.Create(&admin).Error; err != nil {
		return err
	}
	utils.Sugar.Infow("seeded default user", "username", admin.Username)
	return nil
}
