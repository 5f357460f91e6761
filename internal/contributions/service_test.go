package contributions

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stockflowhq/stockflow-backend/internal/profiles"
	"github.com/stockflowhq/stockflow-backend/internal/transactions"
	"github.com/stockflowhq/stockflow-backend/pkg/db/models"
	"github.com/stockflowhq/stockflow-backend/pkg/enums"
	pkgerrors "github.com/stockflowhq/stockflow-backend/pkg/errors"
	"github.com/stockflowhq/stockflow-backend/pkg/logger"
)

type fakeContribRepo struct {
	entries      []*models.CapitalEntry
	stockAdded   map[uuid.UUID]int
	failEntryFor uuid.UUID
	failStockFor uuid.UUID
}

func newFakeContribRepo() *fakeContribRepo {
	return &fakeContribRepo{stockAdded: make(map[uuid.UUID]int)}
}

func (f *fakeContribRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeContribRepo) CreateEntry(ctx context.Context, entry *models.CapitalEntry) error {
	if entry.UserID == f.failEntryFor {
		return errors.New("insert failed")
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeContribRepo) ReturnStock(ctx context.Context, productID uuid.UUID, qty int) error {
	if productID == f.failStockFor {
		return errors.New("product missing")
	}
	f.stockAdded[productID] += qty
	return nil
}

type fakeProfilesRepo struct {
	invested map[uuid.UUID]decimal.Decimal
}

func newFakeProfilesRepo(ids ...uuid.UUID) *fakeProfilesRepo {
	f := &fakeProfilesRepo{invested: make(map[uuid.UUID]decimal.Decimal)}
	for _, id := range ids {
		f.invested[id] = decimal.Zero
	}
	return f
}

func (f *fakeProfilesRepo) WithTx(tx *gorm.DB) profiles.Repository { return f }

func (f *fakeProfilesRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProfilesRepo) FindByEmail(ctx context.Context, email string) (*models.Profile, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProfilesRepo) ListByRole(ctx context.Context, role enums.ProfileRole) ([]models.Profile, error) {
	return nil, nil
}

func (f *fakeProfilesRepo) IncrementInvested(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (bool, error) {
	current, ok := f.invested[id]
	if !ok {
		return false, nil
	}
	f.invested[id] = current.Add(amount)
	return true, nil
}

func (f *fakeProfilesRepo) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	return nil
}

type fakeTxnsRepo struct {
	created []*models.Transaction
}

func (f *fakeTxnsRepo) WithTx(tx *gorm.DB) transactions.Repository { return f }

func (f *fakeTxnsRepo) Create(ctx context.Context, txn *models.Transaction) error {
	f.created = append(f.created, txn)
	return nil
}

func (f *fakeTxnsRepo) ListRecent(ctx context.Context, limit int) ([]models.Transaction, error) {
	return nil, nil
}

type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newBatchService(t *testing.T, repo *fakeContribRepo, profileRepo *fakeProfilesRepo, txns *fakeTxnsRepo) Service {
	t.Helper()
	svc, err := NewService(repo, profileRepo, txns, fakeTxRunner{}, testLogger())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestRegisterBatchRequiresLabel(t *testing.T) {
	svc := newBatchService(t, newFakeContribRepo(), newFakeProfilesRepo(), &fakeTxnsRepo{})

	_, err := svc.RegisterBatch(context.Background(), uuid.New(), "  ", []MoneyLine{{UserID: uuid.New(), Amount: decimal.NewFromInt(10)}}, nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRegisterBatchRejectsEmpty(t *testing.T) {
	svc := newBatchService(t, newFakeContribRepo(), newFakeProfilesRepo(), &fakeTxnsRepo{})

	_, err := svc.RegisterBatch(context.Background(), uuid.New(), "July batch", nil, nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRegisterBatchAppliesLines(t *testing.T) {
	sellerA := uuid.New()
	sellerB := uuid.New()
	productID := uuid.New()
	repo := newFakeContribRepo()
	profileRepo := newFakeProfilesRepo(sellerA, sellerB)
	txns := &fakeTxnsRepo{}
	svc := newBatchService(t, repo, profileRepo, txns)
	adminID := uuid.New()

	result, err := svc.RegisterBatch(context.Background(), adminID, "July batch",
		[]MoneyLine{
			{UserID: sellerA, Amount: decimal.NewFromInt(100)},
			{UserID: sellerB, Amount: decimal.NewFromInt(50)},
		},
		[]StockLine{{ProductID: productID, Quantity: 12}},
	)
	if err != nil {
		t.Fatalf("register batch: %v", err)
	}
	if result.AppliedMoney != 2 || result.AppliedStock != 1 || result.FailedLines != 0 {
		t.Fatalf("unexpected result %+v", result)
	}
	if got := profileRepo.invested[sellerA]; !got.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("seller A invested = %s, want 100", got)
	}
	if repo.stockAdded[productID] != 12 {
		t.Fatalf("stock added = %d, want 12", repo.stockAdded[productID])
	}
	if len(repo.entries) != 2 {
		t.Fatalf("expected 2 capital entries, got %d", len(repo.entries))
	}
	if len(txns.created) != 1 || txns.created[0].Type != enums.TransactionTypeRestock {
		t.Fatalf("expected one restock transaction, got %+v", txns.created)
	}
	if txns.created[0].UserID != adminID {
		t.Fatal("restock transaction not attributed to admin")
	}
}

func TestRegisterBatchSkipsNonPositiveLines(t *testing.T) {
	seller := uuid.New()
	repo := newFakeContribRepo()
	svc := newBatchService(t, repo, newFakeProfilesRepo(seller), &fakeTxnsRepo{})

	result, err := svc.RegisterBatch(context.Background(), uuid.New(), "July batch",
		[]MoneyLine{
			{UserID: seller, Amount: decimal.NewFromInt(-5)},
			{UserID: seller, Amount: decimal.Zero},
			{UserID: seller, Amount: decimal.NewFromInt(30)},
		},
		[]StockLine{
			{ProductID: uuid.New(), Quantity: 0},
			{ProductID: uuid.New(), Quantity: -3},
		},
	)
	if err != nil {
		t.Fatalf("register batch: %v", err)
	}
	if result.SkippedMoney != 2 || result.AppliedMoney != 1 {
		t.Fatalf("money counts wrong: %+v", result)
	}
	if result.SkippedStock != 2 || result.AppliedStock != 0 {
		t.Fatalf("stock counts wrong: %+v", result)
	}
	if result.FailedLines != 0 {
		t.Fatalf("skipped lines must not count as failures: %+v", result)
	}
}

func TestRegisterBatchPartialFailureContinues(t *testing.T) {
	goodSeller := uuid.New()
	missingSeller := uuid.New()
	goodProduct := uuid.New()
	badProduct := uuid.New()

	repo := newFakeContribRepo()
	repo.failStockFor = badProduct
	profileRepo := newFakeProfilesRepo(goodSeller)
	svc := newBatchService(t, repo, profileRepo, &fakeTxnsRepo{})

	result, err := svc.RegisterBatch(context.Background(), uuid.New(), "July batch",
		[]MoneyLine{
			{UserID: missingSeller, Amount: decimal.NewFromInt(40)},
			{UserID: goodSeller, Amount: decimal.NewFromInt(60)},
		},
		[]StockLine{
			{ProductID: badProduct, Quantity: 5},
			{ProductID: goodProduct, Quantity: 7},
		},
	)
	if err != nil {
		t.Fatalf("partial failure must not surface as error, got %v", err)
	}
	if result.FailedLines != 2 {
		t.Fatalf("failed lines = %d, want 2", result.FailedLines)
	}
	if result.AppliedMoney != 1 || result.AppliedStock != 1 {
		t.Fatalf("good lines must still apply: %+v", result)
	}
	if got := profileRepo.invested[goodSeller]; !got.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("good seller invested = %s, want 60", got)
	}
	if repo.stockAdded[goodProduct] != 7 {
		t.Fatalf("good product stock = %d, want 7", repo.stockAdded[goodProduct])
	}
}
