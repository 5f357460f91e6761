package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockflowhq/stockflow-backend/pkg/enums"
)

// Profile represents an account. InvestedAmount is the credit ceiling the
// admin has granted; it only moves through capital contributions.
type Profile struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email          string            `gorm:"column:email;type:text;not null;uniqueIndex"`
	Name           string            `gorm:"column:name;not null"`
	Role           enums.ProfileRole `gorm:"column:role;type:profile_role_enum;not null;default:seller"`
	InvestedAmount decimal.Decimal   `gorm:"column:invested_amount;type:numeric(12,2);not null;default:0"`
	PasswordHash   string            `gorm:"column:password_hash;not null"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
