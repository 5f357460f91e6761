package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stockflowhq/stockflow-backend/pkg/db/models"
	"github.com/stockflowhq/stockflow-backend/pkg/enums"
	pkgerrors "github.com/stockflowhq/stockflow-backend/pkg/errors"
	"github.com/stockflowhq/stockflow-backend/pkg/metrics"
)

// User-visible ledger messages. The dashboard renders these verbatim.
const (
	msgNoStock     = "Sin stock"
	msgNoHeldStock = "No tienes stock"
)

// Service exposes the stock ledger operations.
type Service interface {
	Withdraw(ctx context.Context, userID, productID uuid.UUID, qty int) (*models.Transaction, error)
	Sell(ctx context.Context, userID, productID uuid.UUID, unitPrice decimal.Decimal, qty int) (*models.Transaction, error)
	Return(ctx context.Context, userID, productID uuid.UUID, qty int) (*models.Transaction, error)
	Transfer(ctx context.Context, userID, productID, targetUserID uuid.UUID, qty int) (*models.Transaction, error)
	Restock(ctx context.Context, adminID, productID uuid.UUID, qty int) (*models.Transaction, error)
	AvailableCredit(ctx context.Context, userID uuid.UUID) (*CreditSummary, error)
}

// CreditSummary is the derived credit position of a seller.
type CreditSummary struct {
	InvestedAmount  decimal.Decimal `json:"invested_amount"`
	HeldValue       decimal.Decimal `json:"held_value"`
	AvailableCredit decimal.Decimal `json:"available_credit"`
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo    Repository
	tx      txRunner
	metrics *metrics.LedgerMetrics
}

// NewService wires a ledger service with the provided repository and
// transaction runner. Metrics may be nil.
func NewService(repo Repository, tx txRunner, m *metrics.LedgerMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, metrics: m}, nil
}

// Withdraw moves qty units from the warehouse onto the caller's held pile.
// The credit gate runs before any mutation; the store-side stock function
// is the authority on remaining stock.
func (s *service) Withdraw(ctx context.Context, userID, productID uuid.UUID, qty int) (txn *models.Transaction, err error) {
	defer s.observe("withdraw", time.Now(), &err)

	if err := validateQty(qty); err != nil {
		return nil, err
	}

	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	profile, err := s.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if product.CurrentStock < qty {
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock, msgNoStock)
	}

	held, err := s.repo.HeldValue(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: sum held value")
	}
	available := profile.InvestedAmount.Sub(held)
	cost := product.CostPrice.Mul(decimal.NewFromInt(int64(qty)))
	if cost.GreaterThan(available) {
		return nil, pkgerrors.New(pkgerrors.CodeCreditLimit,
			fmt.Sprintf("Límite de crédito excedido. Disponible: %s€", available.StringFixed(2)))
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if err := txRepo.WithdrawStock(ctx, productID, qty); err != nil {
			return mapStockError(err)
		}
		if err := txRepo.UpsertHold(ctx, userID, productID, enums.HoldStatusHeld, qty); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: upsert hold")
		}

		txn = &models.Transaction{
			UserID:    userID,
			ProductID: productID,
			Type:      enums.TransactionTypeWithdraw,
			Quantity:  qty,
		}
		if err := txRepo.CreateTransaction(ctx, txn); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert transaction")
		}
		return nil
	}); err != nil {
		return nil, passOrWrap(err, "withdraw")
	}

	return txn, nil
}

// Sell converts held units into sold units at the negotiated unit price.
// The warehouse count is untouched; actual_price records total revenue.
func (s *service) Sell(ctx context.Context, userID, productID uuid.UUID, unitPrice decimal.Decimal, qty int) (txn *models.Transaction, err error) {
	defer s.observe("sell", time.Now(), &err)

	if err := validateQty(qty); err != nil {
		return nil, err
	}
	if unitPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
	}

	if _, err := s.loadProduct(ctx, productID); err != nil {
		return nil, err
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		ok, err := txRepo.DecrementHold(ctx, userID, productID, enums.HoldStatusHeld, qty)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: decrement hold")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeInsufficientHeld, msgNoHeldStock)
		}
		if err := txRepo.UpsertHold(ctx, userID, productID, enums.HoldStatusSold, qty); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: upsert sold hold")
		}

		total := unitPrice.Mul(decimal.NewFromInt(int64(qty)))
		txn = &models.Transaction{
			UserID:      userID,
			ProductID:   productID,
			Type:        enums.TransactionTypeSold,
			Quantity:    qty,
			ActualPrice: &total,
		}
		if err := txRepo.CreateTransaction(ctx, txn); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert transaction")
		}
		return nil
	}); err != nil {
		return nil, passOrWrap(err, "sell")
	}

	return txn, nil
}

// Return hands qty held units back to the warehouse. No credit check.
func (s *service) Return(ctx context.Context, userID, productID uuid.UUID, qty int) (txn *models.Transaction, err error) {
	defer s.observe("return", time.Now(), &err)

	if err := validateQty(qty); err != nil {
		return nil, err
	}

	if _, err := s.loadProduct(ctx, productID); err != nil {
		return nil, err
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		ok, err := txRepo.DecrementHold(ctx, userID, productID, enums.HoldStatusHeld, qty)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: decrement hold")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeInsufficientHeld, msgNoHeldStock)
		}
		if err := txRepo.ReturnStock(ctx, productID, qty); err != nil {
			return mapStockError(err)
		}

		txn = &models.Transaction{
			UserID:    userID,
			ProductID: productID,
			Type:      enums.TransactionTypeReturn,
			Quantity:  qty,
		}
		if err := txRepo.CreateTransaction(ctx, txn); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert transaction")
		}
		return nil
	}); err != nil {
		return nil, passOrWrap(err, "return")
	}

	return txn, nil
}

// Transfer moves qty held units from the caller to another seller. The
// recipient is deliberately not credit-checked; responsibility for the
// stock moves with the stock itself.
func (s *service) Transfer(ctx context.Context, userID, productID, targetUserID uuid.UUID, qty int) (txn *models.Transaction, err error) {
	defer s.observe("transfer", time.Now(), &err)

	if err := validateQty(qty); err != nil {
		return nil, err
	}
	if targetUserID == userID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot transfer stock to yourself")
	}

	if _, err := s.loadProduct(ctx, productID); err != nil {
		return nil, err
	}
	if _, err := s.loadProfile(ctx, targetUserID); err != nil {
		return nil, err
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		ok, err := txRepo.DecrementHold(ctx, userID, productID, enums.HoldStatusHeld, qty)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: decrement hold")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeInsufficientHeld, msgNoHeldStock)
		}
		if err := txRepo.UpsertHold(ctx, targetUserID, productID, enums.HoldStatusHeld, qty); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: upsert target hold")
		}

		txn = &models.Transaction{
			UserID:       userID,
			ProductID:    productID,
			TargetUserID: &targetUserID,
			Type:         enums.TransactionTypeTransfer,
			Quantity:     qty,
		}
		if err := txRepo.CreateTransaction(ctx, txn); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert transaction")
		}
		return nil
	}); err != nil {
		return nil, passOrWrap(err, "transfer")
	}

	return txn, nil
}

// Restock adds qty units to the warehouse count.
func (s *service) Restock(ctx context.Context, adminID, productID uuid.UUID, qty int) (txn *models.Transaction, err error) {
	defer s.observe("restock", time.Now(), &err)

	if err := validateQty(qty); err != nil {
		return nil, err
	}

	if _, err := s.loadProduct(ctx, productID); err != nil {
		return nil, err
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if err := txRepo.ReturnStock(ctx, productID, qty); err != nil {
			return mapStockError(err)
		}

		txn = &models.Transaction{
			UserID:    adminID,
			ProductID: productID,
			Type:      enums.TransactionTypeRestock,
			Quantity:  qty,
		}
		if err := txRepo.CreateTransaction(ctx, txn); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert transaction")
		}
		return nil
	}); err != nil {
		return nil, passOrWrap(err, "restock")
	}

	return txn, nil
}

// AvailableCredit derives the caller's credit position from invested
// capital and the live value of held stock.
func (s *service) AvailableCredit(ctx context.Context, userID uuid.UUID) (*CreditSummary, error) {
	profile, err := s.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	held, err := s.repo.HeldValue(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: sum held value")
	}
	return &CreditSummary{
		InvestedAmount:  profile.InvestedAmount,
		HeldValue:       held,
		AvailableCredit: profile.InvestedAmount.Sub(held),
	}, nil
}

func (s *service) loadProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	return product, nil
}

func (s *service) loadProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	profile, err := s.repo.FindProfile(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load profile")
	}
	return profile, nil
}

func (s *service) observe(operation string, start time.Time, err *error) {
	s.metrics.ObserveDuration(operation, time.Since(start))
	if err != nil && *err != nil {
		s.metrics.IncFailure(operation)
		return
	}
	s.metrics.IncSuccess(operation)
}

func validateQty(qty int) error {
	if qty < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	return nil
}

// mapStockError converts a store-side stock function failure into the
// closed taxonomy. The withdraw function raises on insufficient stock.
func mapStockError(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "insufficient stock") {
		return pkgerrors.New(pkgerrors.CodeInsufficientStock, msgNoStock)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: stock function")
}

func passOrWrap(err error, operation string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, operation)
}
