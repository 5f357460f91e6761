package stats

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleRow is one sold transaction joined with the seller's name and the
// product's live cost price.
type SaleRow struct {
	UserID      uuid.UUID       `gorm:"column:user_id"`
	UserName    string          `gorm:"column:user_name"`
	Quantity    int             `gorm:"column:quantity"`
	ActualPrice decimal.Decimal `gorm:"column:actual_price"`
	CostPrice   decimal.Decimal `gorm:"column:cost_price"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
}

// Repository reads the sales history for reporting.
type Repository interface {
	ListSales(ctx context.Context) ([]SaleRow, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a stats repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListSales(ctx context.Context) ([]SaleRow, error) {
	var rows []SaleRow
	if err := r.db.WithContext(ctx).
		Table("transactions").
		Select(`transactions.user_id,
			profiles.name AS user_name,
			transactions.quantity,
			transactions.actual_price,
			products.cost_price,
			transactions.created_at`).
		Joins("JOIN products ON products.id = transactions.product_id").
		Joins("JOIN profiles ON profiles.id = transactions.user_id").
		Where("transactions.type = ?", "sold").
		Order("transactions.created_at ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
