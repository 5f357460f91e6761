package contributions

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/stockflowhq/stockflow-backend/internal/profiles"
	"github.com/stockflowhq/stockflow-backend/internal/transactions"
	"github.com/stockflowhq/stockflow-backend/pkg/db/models"
	"github.com/stockflowhq/stockflow-backend/pkg/enums"
	pkgerrors "github.com/stockflowhq/stockflow-backend/pkg/errors"
	"github.com/stockflowhq/stockflow-backend/pkg/logger"
)

// MoneyLine credits invested capital to one seller.
type MoneyLine struct {
	UserID uuid.UUID
	Amount decimal.Decimal
}

// StockLine adds purchased units to the warehouse.
type StockLine struct {
	ProductID uuid.UUID
	Quantity  int
}

// BatchResult reports what a contribution batch actually applied.
// Failed lines are logged and counted, never fatal.
type BatchResult struct {
	BatchLabel   string `json:"batch_label"`
	AppliedMoney int    `json:"applied_money"`
	SkippedMoney int    `json:"skipped_money"`
	AppliedStock int    `json:"applied_stock"`
	SkippedStock int    `json:"skipped_stock"`
	FailedLines  int    `json:"failed_lines"`
}

// Service registers admin contribution batches.
type Service interface {
	RegisterBatch(ctx context.Context, adminID uuid.UUID, label string, money []MoneyLine, stock []StockLine) (*BatchResult, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo     Repository
	profiles profiles.Repository
	txns     transactions.Repository
	tx       txRunner
	logg     *logger.Logger
}

// NewService wires a contribution service with the provided dependencies.
func NewService(repo Repository, profileRepo profiles.Repository, txns transactions.Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("contribution repository required")
	}
	if profileRepo == nil {
		return nil, fmt.Errorf("profile repository required")
	}
	if txns == nil {
		return nil, fmt.Errorf("transaction repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, profiles: profileRepo, txns: txns, tx: tx, logg: logg}, nil
}

// RegisterBatch applies each line independently. Lines with a non-positive
// amount or quantity are skipped; store failures are collected and logged
// but never abort the remaining lines.
func (s *service) RegisterBatch(ctx context.Context, adminID uuid.UUID, label string, money []MoneyLine, stock []StockLine) (*BatchResult, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "batch label is required")
	}
	if len(money) == 0 && len(stock) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "batch has no lines")
	}

	result := &BatchResult{BatchLabel: label}
	var lineErrs error

	for _, line := range money {
		if !line.Amount.IsPositive() {
			result.SkippedMoney++
			continue
		}
		if err := s.applyMoneyLine(ctx, adminID, label, line); err != nil {
			result.FailedLines++
			lineErrs = multierr.Append(lineErrs, fmt.Errorf("money line user=%s: %w", line.UserID, err))
			continue
		}
		result.AppliedMoney++
	}

	for _, line := range stock {
		if line.Quantity <= 0 {
			result.SkippedStock++
			continue
		}
		if err := s.applyStockLine(ctx, adminID, line); err != nil {
			result.FailedLines++
			lineErrs = multierr.Append(lineErrs, fmt.Errorf("stock line product=%s: %w", line.ProductID, err))
			continue
		}
		result.AppliedStock++
	}

	if lineErrs != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"batch_label":  label,
			"failed_lines": result.FailedLines,
		})
		s.logg.Warn(logCtx, fmt.Sprintf("contribution batch applied partially: %v", lineErrs))
	}

	return result, nil
}

func (s *service) applyMoneyLine(ctx context.Context, adminID uuid.UUID, label string, line MoneyLine) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		entry := &models.CapitalEntry{
			BatchLabel: label,
			UserID:     line.UserID,
			Amount:     line.Amount,
			CreatedBy:  adminID,
		}
		if err := s.repo.WithTx(tx).CreateEntry(ctx, entry); err != nil {
			return fmt.Errorf("insert capital entry: %w", err)
		}
		ok, err := s.profiles.WithTx(tx).IncrementInvested(ctx, line.UserID, line.Amount)
		if err != nil {
			return fmt.Errorf("increment invested amount: %w", err)
		}
		if !ok {
			return fmt.Errorf("profile %s not found", line.UserID)
		}
		return nil
	})
}

func (s *service) applyStockLine(ctx context.Context, adminID uuid.UUID, line StockLine) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).ReturnStock(ctx, line.ProductID, line.Quantity); err != nil {
			return fmt.Errorf("increment stock: %w", err)
		}
		txn := &models.Transaction{
			UserID:    adminID,
			ProductID: line.ProductID,
			Type:      enums.TransactionTypeRestock,
			Quantity:  line.Quantity,
		}
		if err := s.txns.WithTx(tx).Create(ctx, txn); err != nil {
			return fmt.Errorf("insert restock transaction: %w", err)
		}
		return nil
	})
}
