package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stockflowhq/stockflow-backend/pkg/db/models"
	"github.com/stockflowhq/stockflow-backend/pkg/enums"
)

// Repository manages persistence for stock holds, the shared warehouse
// count, and the append-only transaction log.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	WithdrawStock(ctx context.Context, productID uuid.UUID, qty int) error
	ReturnStock(ctx context.Context, productID uuid.UUID, qty int) error
	UpsertHold(ctx context.Context, userID, productID uuid.UUID, status enums.HoldStatus, qty int) error
	DecrementHold(ctx context.Context, userID, productID uuid.UUID, status enums.HoldStatus, qty int) (bool, error)
	HeldValue(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
	CreateTransaction(ctx context.Context, txn *models.Transaction) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) FindProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// WithdrawStock decrements the warehouse count through the store-side
// function. The function refuses to drive current_stock below zero, so a
// concurrent loser surfaces as an error here.
func (r *repository) WithdrawStock(ctx context.Context, productID uuid.UUID, qty int) error {
	return r.db.WithContext(ctx).Exec("SELECT withdraw_stock_secure(?, ?)", productID, qty).Error
}

func (r *repository) ReturnStock(ctx context.Context, productID uuid.UUID, qty int) error {
	return r.db.WithContext(ctx).Exec("SELECT return_stock_secure(?, ?)", productID, qty).Error
}

// UpsertHold adds qty to the (user, product, status) hold row, creating it
// when absent. Single statement so concurrent upserts never lose updates.
func (r *repository) UpsertHold(ctx context.Context, userID, productID uuid.UUID, status enums.HoldStatus, qty int) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO inventory_holds (id, user_id, product_id, status, quantity, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id, product_id, status)
		DO UPDATE SET quantity = inventory_holds.quantity + excluded.quantity, updated_at = CURRENT_TIMESTAMP`,
		uuid.New(), userID, productID, status, qty).Error
}

// DecrementHold subtracts qty from the hold row only when enough is held.
// Returns false when the guard rejected the update.
func (r *repository) DecrementHold(ctx context.Context, userID, productID uuid.UUID, status enums.HoldStatus, qty int) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.InventoryHold{}).
		Where("user_id = ? AND product_id = ? AND status = ? AND quantity >= ?", userID, productID, status, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// HeldValue sums quantity x live cost_price over the seller's held rows.
func (r *repository) HeldValue(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	var value decimal.Decimal
	err := r.db.WithContext(ctx).Model(&models.InventoryHold{}).
		Select("COALESCE(SUM(inventory_holds.quantity * products.cost_price), 0)").
		Joins("JOIN products ON products.id = inventory_holds.product_id").
		Where("inventory_holds.user_id = ? AND inventory_holds.status = ?", userID, enums.HoldStatusHeld).
		Scan(&value).Error
	if err != nil {
		return decimal.Zero, err
	}
	return value, nil
}

func (r *repository) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}
