package config

import (
	"errors"
	"log"

	"fieldpro-backend/models"

	"gorm.io/gorm"
)

// EnsureSettings seeds the global settings row at startup so request
// handlers never have to lazily materialize it.
func EnsureSettings(db *gorm.DB) error {
	var settings models.Settings
	err := db.First(&settings, models.SettingsRowID).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	settings = models.Settings{
		ID:           models.SettingsRowID,
		SalesTaxRate: 0.0,
		Theme:        "light",
	}
	if err := db.Create(&settings).Error; err != nil {
		return err
	}
	log.Println("Seeded default settings")
	return nil
}
