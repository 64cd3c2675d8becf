package catalog

import (
	"context"
	"strings"

	"trastienda/internal/domain"
	"trastienda/internal/errors"
)

type productService struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &productService{repo: repo}
}

func (s *productService) GetOrCreate(ctx context.Context, ownerID int, name string, defaults Defaults) (*domain.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.NewValidationError("product name is required", errors.ValidationDetail{
			Field:   "product",
			Message: "product name must not be blank",
		})
	}

	existing, err := s.repo.FindByName(ctx, ownerID, name)
	if err != nil {
		if _, ok := errors.IsNotFoundError(err); !ok {
			return nil, err
		}
	}
	if existing != nil {
		return existing, nil
	}

	if defaults.ListPrice == nil {
		return nil, errors.NewValidationError("unknown product requires a list price", errors.ValidationDetail{
			Field:   "listPrice",
			Message: "listPrice is required when the product does not exist yet",
		})
	}
	if defaults.ListPrice.IsNegative() {
		return nil, errors.NewValidationError("list price must not be negative", errors.ValidationDetail{
			Field:   "listPrice",
			Message: "listPrice must be >= 0",
		})
	}

	p := domain.Product{
		OwnerID:       ownerID,
		Name:          name,
		ListPrice:     *defaults.ListPrice,
		SachetsPerBox: defaults.SachetsPerBox,
		Points:        defaults.Points,
	}
	if p.SachetsPerBox <= 0 {
		p.SachetsPerBox = domain.DefaultSachetsPerBox
	}

	id, err := s.repo.Insert(ctx, p)
	if err != nil {
		return nil, err
	}
	p.ID = id

	return &p, nil
}

func (s *productService) ListByOwner(ctx context.Context, ownerID int) ([]domain.Product, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *productService) Delete(ctx context.Context, ownerID int, productID int64) error {
	return s.repo.Delete(ctx, ownerID, productID)
}
