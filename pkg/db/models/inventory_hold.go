package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/stockflowhq/stockflow-backend/pkg/enums"
)

// InventoryHold is the per-seller, per-product, per-status running
// quantity. One row exists per (user, product, status) triple; a zero
// quantity row is valid and stays around once created.
type InventoryHold struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID        `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_holds_user_product_status"`
	ProductID uuid.UUID        `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_holds_user_product_status"`
	Status    enums.HoldStatus `gorm:"column:status;type:hold_status_enum;not null;uniqueIndex:idx_holds_user_product_status"`
	Quantity  int              `gorm:"column:quantity;not null;default:0"`
	Product   *Product         `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
