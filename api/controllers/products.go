package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockflowhq/stockflow-backend/api/middleware"
	"github.com/stockflowhq/stockflow-backend/api/responses"
	"github.com/stockflowhq/stockflow-backend/api/validators"
	"github.com/stockflowhq/stockflow-backend/internal/ledger"
	"github.com/stockflowhq/stockflow-backend/internal/products"
	pkgerrors "github.com/stockflowhq/stockflow-backend/pkg/errors"
	"github.com/stockflowhq/stockflow-backend/pkg/logger"
)

type createProductBody struct {
	Name         string          `json:"name" validate:"required,max=200"`
	Variation    *string         `json:"variation,omitempty"`
	Price        decimal.Decimal `json:"price" validate:"required"`
	CostPrice    decimal.Decimal `json:"cost_price" validate:"required"`
	InitialStock int             `json:"initial_stock" validate:"min=0"`
	ImageURL     *string         `json:"image_url,omitempty"`
}

type restockBody struct {
	Quantity int `json:"quantity" validate:"omitempty,min=1"`
}

// ProductList returns the catalog ordered by name.
func ProductList(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// ProductCreate inserts a catalog entry. Admin only.
func ProductCreate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createProductBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		adminID := middleware.UserUUIDFromContext(r.Context())
		product, err := svc.Create(r.Context(), adminID, products.CreateInput{
			Name:         validators.SanitizeString(body.Name, 200),
			Variation:    body.Variation,
			Price:        body.Price,
			CostPrice:    body.CostPrice,
			InitialStock: body.InitialStock,
			ImageURL:     body.ImageURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// ProductRestock adds units to the warehouse count. Admin only.
func ProductRestock(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body restockBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		adminID := middleware.UserUUIDFromContext(r.Context())
		txn, err := svc.Restock(r.Context(), adminID, productID, quantityOrOne(body.Quantity))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, txn)
	}
}

func pathUUID(r *http.Request, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid identifier").WithDetails(map[string]any{"field": param})
	}
	return id, nil
}
