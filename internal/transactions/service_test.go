package transactions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stockflowhq/stockflow-backend/pkg/db/models"
	"github.com/stockflowhq/stockflow-backend/pkg/enums"
)

type fakeFeedRepo struct {
	rows      []models.Transaction
	lastLimit int
}

func (f *fakeFeedRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeFeedRepo) Create(ctx context.Context, txn *models.Transaction) error {
	f.rows = append(f.rows, *txn)
	return nil
}

func (f *fakeFeedRepo) ListRecent(ctx context.Context, limit int) ([]models.Transaction, error) {
	f.lastLimit = limit
	if limit < len(f.rows) {
		return f.rows[:limit], nil
	}
	return f.rows, nil
}

func TestListRecentResolvesNames(t *testing.T) {
	price := decimal.RequireFromString("25.00")
	repo := &fakeFeedRepo{rows: []models.Transaction{
		{
			ID:          uuid.New(),
			Type:        enums.TransactionTypeSold,
			Quantity:    2,
			ActualPrice: &price,
			Product:     &models.Product{Name: "Olive Oil 1L"},
			Profile:     &models.Profile{Name: "Maria"},
			CreatedAt:   time.Now(),
		},
		{
			ID:        uuid.New(),
			Type:      enums.TransactionTypeWithdraw,
			Quantity:  1,
			CreatedAt: time.Now(),
		},
	}}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	entries, err := svc.ListRecent(context.Background(), 10)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].ProductName != "Olive Oil 1L" || entries[0].UserName != "Maria" {
		t.Fatalf("names not resolved: %+v", entries[0])
	}
	if entries[0].ActualPrice == nil || !entries[0].ActualPrice.Equal(price) {
		t.Fatal("actual price not carried through")
	}
	// missing associations degrade to empty names, never panic
	if entries[1].ProductName != "" || entries[1].UserName != "" {
		t.Fatalf("expected empty names, got %+v", entries[1])
	}
}

func TestListRecentClampsLimit(t *testing.T) {
	repo := &fakeFeedRepo{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	cases := []struct {
		in, want int
	}{
		{0, DefaultFeedLimit},
		{-5, DefaultFeedLimit},
		{101, DefaultFeedLimit},
		{25, 25},
	}
	for _, tc := range cases {
		if _, err := svc.ListRecent(context.Background(), tc.in); err != nil {
			t.Fatalf("list recent(%d): %v", tc.in, err)
		}
		if repo.lastLimit != tc.want {
			t.Fatalf("limit %d clamped to %d, want %d", tc.in, repo.lastLimit, tc.want)
		}
	}
}
