package transactions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockflowhq/stockflow-backend/pkg/enums"
	pkgerrors "github.com/stockflowhq/stockflow-backend/pkg/errors"
)

// DefaultFeedLimit caps the dashboard activity feed.
const DefaultFeedLimit = 10

// FeedEntry is one row of the activity feed with display names resolved.
type FeedEntry struct {
	ID           uuid.UUID             `json:"id"`
	Type         enums.TransactionType `json:"type"`
	Quantity     int                   `json:"quantity"`
	ActualPrice  *decimal.Decimal      `json:"actual_price,omitempty"`
	ProductName  string                `json:"product_name"`
	UserName     string                `json:"user_name"`
	TargetUserID *uuid.UUID            `json:"target_user_id,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
}

// Service exposes reads over the transaction log.
type Service interface {
	ListRecent(ctx context.Context, limit int) ([]FeedEntry, error)
}

type service struct {
	repo Repository
}

// NewService wires a transaction feed service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("transaction repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListRecent(ctx context.Context, limit int) ([]FeedEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = DefaultFeedLimit
	}
	rows, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list recent transactions")
	}

	out := make([]FeedEntry, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		entry := FeedEntry{
			ID:           row.ID,
			Type:         row.Type,
			Quantity:     row.Quantity,
			ActualPrice:  row.ActualPrice,
			TargetUserID: row.TargetUserID,
			CreatedAt:    row.CreatedAt,
		}
		if row.Product != nil {
			entry.ProductName = row.Product.Name
		}
		if row.Profile != nil {
			entry.UserName = row.Profile.Name
		}
		out = append(out, entry)
	}
	return out, nil
}
