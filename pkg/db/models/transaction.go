package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockflowhq/stockflow-backend/pkg/enums"
)

// Transaction is an append-only audit row. TargetUserID is only set for
// transfers; ActualPrice only for sales (total revenue, not per unit).
type Transaction struct {
	ID           uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID             `gorm:"column:user_id;type:uuid;not null"`
	ProductID    uuid.UUID             `gorm:"column:product_id;type:uuid;not null"`
	TargetUserID *uuid.UUID            `gorm:"column:target_user_id;type:uuid"`
	Type         enums.TransactionType `gorm:"column:type;type:transaction_type_enum;not null"`
	Quantity     int                   `gorm:"column:quantity;not null"`
	ActualPrice  *decimal.Decimal      `gorm:"column:actual_price;type:numeric(12,2)"`
	Product      *Product              `gorm:"foreignKey:ProductID"`
	Profile      *Profile              `gorm:"foreignKey:UserID"`
	CreatedAt    time.Time             `gorm:"column:created_at;autoCreateTime"`
}
