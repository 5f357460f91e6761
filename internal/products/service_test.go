package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stockflowhq/stockflow-backend/internal/transactions"
	"github.com/stockflowhq/stockflow-backend/pkg/db/models"
	"github.com/stockflowhq/stockflow-backend/pkg/enums"
	pkgerrors "github.com/stockflowhq/stockflow-backend/pkg/errors"
)

type fakeProductRepo struct {
	byID map[uuid.UUID]*models.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{byID: make(map[uuid.UUID]*models.Product)}
}

func (f *fakeProductRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeProductRepo) Create(ctx context.Context, product *models.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	f.byID[product.ID] = product
	return nil
}

func (f *fakeProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProductRepo) List(ctx context.Context) ([]models.Product, error) {
	out := make([]models.Product, 0, len(f.byID))
	for _, p := range f.byID {
		out = append(out, *p)
	}
	return out, nil
}

type fakeTxnRepo struct {
	created []*models.Transaction
}

func (f *fakeTxnRepo) WithTx(tx *gorm.DB) transactions.Repository { return f }

func (f *fakeTxnRepo) Create(ctx context.Context, txn *models.Transaction) error {
	f.created = append(f.created, txn)
	return nil
}

func (f *fakeTxnRepo) ListRecent(ctx context.Context, limit int) ([]models.Transaction, error) {
	return nil, nil
}

type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newProductService(t *testing.T, repo *fakeProductRepo, txns *fakeTxnRepo) Service {
	t.Helper()
	svc, err := NewService(repo, txns, fakeTxRunner{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCreateRecordsInitialStock(t *testing.T) {
	repo := newFakeProductRepo()
	txns := &fakeTxnRepo{}
	svc := newProductService(t, repo, txns)
	adminID := uuid.New()

	product, err := svc.Create(context.Background(), adminID, CreateInput{
		Name:         "Olive Oil 1L",
		Price:        decimal.RequireFromString("12.50"),
		CostPrice:    decimal.RequireFromString("8.00"),
		InitialStock: 40,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if product.CurrentStock != 40 {
		t.Fatalf("current stock = %d, want 40", product.CurrentStock)
	}
	if len(txns.created) != 1 {
		t.Fatalf("expected one restock transaction, got %d", len(txns.created))
	}
	txn := txns.created[0]
	if txn.Type != enums.TransactionTypeRestock || txn.Quantity != 40 || txn.UserID != adminID {
		t.Fatalf("unexpected restock transaction %+v", txn)
	}
}

func TestCreateZeroStockSkipsTransaction(t *testing.T) {
	txns := &fakeTxnRepo{}
	svc := newProductService(t, newFakeProductRepo(), txns)

	_, err := svc.Create(context.Background(), uuid.New(), CreateInput{
		Name:      "Olive Oil 1L",
		Price:     decimal.RequireFromString("12.50"),
		CostPrice: decimal.RequireFromString("8.00"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(txns.created) != 0 {
		t.Fatalf("expected no restock transaction, got %d", len(txns.created))
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newProductService(t, newFakeProductRepo(), &fakeTxnRepo{})

	cases := []CreateInput{
		{Name: "  ", Price: decimal.NewFromInt(1), CostPrice: decimal.NewFromInt(1)},
		{Name: "x", Price: decimal.NewFromInt(-1), CostPrice: decimal.NewFromInt(1)},
		{Name: "x", Price: decimal.NewFromInt(1), CostPrice: decimal.NewFromInt(-1)},
		{Name: "x", Price: decimal.NewFromInt(1), CostPrice: decimal.NewFromInt(1), InitialStock: -2},
	}
	for i, input := range cases {
		_, err := svc.Create(context.Background(), uuid.New(), input)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestGetNotFound(t *testing.T) {
	svc := newProductService(t, newFakeProductRepo(), &fakeTxnRepo{})

	_, err := svc.Get(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
