package profiles

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stockflowhq/stockflow-backend/pkg/db/models"
	"github.com/stockflowhq/stockflow-backend/pkg/enums"
	pkgerrors "github.com/stockflowhq/stockflow-backend/pkg/errors"
)

// ProfileDTO is the wire shape of a profile. The password hash never
// leaves this package.
type ProfileDTO struct {
	ID             uuid.UUID         `json:"id"`
	Email          string            `json:"email"`
	Name           string            `json:"name"`
	Role           enums.ProfileRole `json:"role"`
	InvestedAmount decimal.Decimal   `json:"invested_amount"`
}

// FromModel maps a profile row to its DTO.
func FromModel(p *models.Profile) ProfileDTO {
	return ProfileDTO{
		ID:             p.ID,
		Email:          p.Email,
		Name:           p.Name,
		Role:           p.Role,
		InvestedAmount: p.InvestedAmount,
	}
}

// Service exposes profile reads used by the dashboard.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*ProfileDTO, error)
	ListSellers(ctx context.Context) ([]ProfileDTO, error)
}

type service struct {
	repo Repository
}

// NewService wires a profile service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("profile repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProfileDTO, error) {
	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load profile")
	}
	dto := FromModel(profile)
	return &dto, nil
}

// ListSellers returns every seller profile, the transfer target and
// contribution form source list.
func (s *service) ListSellers(ctx context.Context) ([]ProfileDTO, error) {
	rows, err := s.repo.ListByRole(ctx, enums.ProfileRoleSeller)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list sellers")
	}
	out := make([]ProfileDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out, nil
}
