package models

import "time"

// Settings is the single global configuration row, seeded explicitly at
// startup by config.EnsureSettings.
type Settings struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	SalesTaxRate float64 `gorm:"type:decimal(6,4);default:0.0" json:"sales_tax_rate"`
	Theme        string  `gorm:"type:varchar(20);default:'light'" json:"theme"`

	UpdatedAt time.Time `json:"updated_at"`
}

const SettingsRowID uint = 1
