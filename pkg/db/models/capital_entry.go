package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CapitalEntry records one money line of an admin contribution batch.
type CapitalEntry struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BatchLabel string          `gorm:"column:batch_label;not null"`
	UserID     uuid.UUID       `gorm:"column:user_id;type:uuid;not null"`
	Amount     decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	CreatedBy  uuid.UUID       `gorm:"column:created_by;type:uuid;not null"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}
