package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents one catalog entry and its shared warehouse count.
// CurrentStock only moves through the secure stock functions so it can
// never be driven below zero by concurrent withdrawals.
type Product struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string          `gorm:"column:name;not null"`
	Variation    *string         `gorm:"column:variation"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	CostPrice    decimal.Decimal `gorm:"column:cost_price;type:numeric(12,2);not null"`
	CurrentStock int             `gorm:"column:current_stock;not null;default:0"`
	ImageURL     *string         `gorm:"column:image_url"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
