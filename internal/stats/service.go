package stats

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/stockflowhq/stockflow-backend/pkg/errors"
)

// MonthlyBucket aggregates sales for one YYYY-MM month.
type MonthlyBucket struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
	Profit  decimal.Decimal `json:"profit"`
	Sales   int             `json:"sales"`
}

// SellerBucket aggregates sales for one seller.
type SellerBucket struct {
	UserID  uuid.UUID       `json:"user_id"`
	Name    string          `json:"name"`
	Revenue decimal.Decimal `json:"revenue"`
	Profit  decimal.Decimal `json:"profit"`
	Sales   int             `json:"sales"`
}

// SalesSummary is the admin reporting payload.
type SalesSummary struct {
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalProfit   decimal.Decimal `json:"total_profit"`
	MarginPercent decimal.Decimal `json:"margin_percent"`
	SalesCount    int             `json:"sales_count"`
	ByMonth       []MonthlyBucket `json:"by_month"`
	BySeller      []SellerBucket  `json:"by_seller"`
}

// Service computes reporting aggregates over sold transactions.
type Service interface {
	SalesSummary(ctx context.Context) (*SalesSummary, error)
}

type service struct {
	repo Repository
}

// NewService wires a stats service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("stats repository required")
	}
	return &service{repo: repo}, nil
}

// SalesSummary folds every sold transaction into totals, monthly buckets,
// and a per-seller ranking sorted by profit. Profit per sale is
// actual_price minus cost_price x quantity, costed at the live cost price.
func (s *service) SalesSummary(ctx context.Context) (*SalesSummary, error) {
	rows, err := s.repo.ListSales(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list sales")
	}

	summary := &SalesSummary{
		TotalRevenue:  decimal.Zero,
		TotalProfit:   decimal.Zero,
		MarginPercent: decimal.Zero,
	}
	months := make(map[string]*MonthlyBucket)
	sellers := make(map[uuid.UUID]*SellerBucket)

	for i := range rows {
		row := &rows[i]
		revenue := row.ActualPrice
		cost := row.CostPrice.Mul(decimal.NewFromInt(int64(row.Quantity)))
		profit := revenue.Sub(cost)

		summary.TotalRevenue = summary.TotalRevenue.Add(revenue)
		summary.TotalProfit = summary.TotalProfit.Add(profit)
		summary.SalesCount++

		month := row.CreatedAt.Format("2006-01")
		bucket, ok := months[month]
		if !ok {
			bucket = &MonthlyBucket{Month: month, Revenue: decimal.Zero, Profit: decimal.Zero}
			months[month] = bucket
		}
		bucket.Revenue = bucket.Revenue.Add(revenue)
		bucket.Profit = bucket.Profit.Add(profit)
		bucket.Sales++

		seller, ok := sellers[row.UserID]
		if !ok {
			seller = &SellerBucket{UserID: row.UserID, Name: row.UserName, Revenue: decimal.Zero, Profit: decimal.Zero}
			sellers[row.UserID] = seller
		}
		seller.Revenue = seller.Revenue.Add(revenue)
		seller.Profit = seller.Profit.Add(profit)
		seller.Sales++
	}

	if summary.TotalRevenue.IsPositive() {
		summary.MarginPercent = summary.TotalProfit.
			Div(summary.TotalRevenue).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}

	summary.ByMonth = make([]MonthlyBucket, 0, len(months))
	for _, bucket := range months {
		summary.ByMonth = append(summary.ByMonth, *bucket)
	}
	sort.Slice(summary.ByMonth, func(i, j int) bool {
		return summary.ByMonth[i].Month < summary.ByMonth[j].Month
	})

	summary.BySeller = make([]SellerBucket, 0, len(sellers))
	for _, bucket := range sellers {
		summary.BySeller = append(summary.BySeller, *bucket)
	}
	sort.Slice(summary.BySeller, func(i, j int) bool {
		return summary.BySeller[i].Profit.GreaterThan(summary.BySeller[j].Profit)
	})

	return summary, nil
}
