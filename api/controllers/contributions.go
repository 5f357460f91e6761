package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockflowhq/stockflow-backend/api/responses"
	"github.com/stockflowhq/stockflow-backend/api/validators"
	"github.com/stockflowhq/stockflow-backend/internal/contributions"
	"github.com/stockflowhq/stockflow-backend/pkg/logger"
)

type moneyLineBody struct {
	UserID uuid.UUID       `json:"user_id" validate:"required"`
	Amount decimal.Decimal `json:"amount"`
}

type stockLineBody struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity"`
}

type contributionBody struct {
	BatchLabel string          `json:"batch_label" validate:"required,max=120"`
	Money      []moneyLineBody `json:"money" validate:"dive"`
	Stock      []stockLineBody `json:"stock" validate:"dive"`
}

// ContributionRegister applies a contribution batch. Admin only.
// Non-positive lines are skipped and per-line failures never abort the
// rest of the batch; the result reports both.
func ContributionRegister(svc contributions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := authenticatedUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body contributionBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		money := make([]contributions.MoneyLine, 0, len(body.Money))
		for _, line := range body.Money {
			money = append(money, contributions.MoneyLine{UserID: line.UserID, Amount: line.Amount})
		}
		stock := make([]contributions.StockLine, 0, len(body.Stock))
		for _, line := range body.Stock {
			stock = append(stock, contributions.StockLine{ProductID: line.ProductID, Quantity: line.Quantity})
		}

		result, err := svc.RegisterBatch(r.Context(), adminID, body.BatchLabel, money, stock)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
