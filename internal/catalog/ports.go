package catalog

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"trastienda/internal/domain"
	"trastienda/internal/projector"
)

// Defaults seeds a product created implicitly by its first transaction.
// ListPrice is required at creation time.
type Defaults struct {
	ListPrice     *decimal.Decimal
	SachetsPerBox int
	Points        int
}

type Service interface {
	GetOrCreate(ctx context.Context, ownerID int, name string, defaults Defaults) (*domain.Product, error)
	ListByOwner(ctx context.Context, ownerID int) ([]domain.Product, error)
	Delete(ctx context.Context, ownerID int, productID int64) error
}

type Repository interface {
	FindByName(ctx context.Context, ownerID int, name string) (*domain.Product, error)
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, productID int64, ownerID int) (*domain.Product, error)
	Insert(ctx context.Context, p domain.Product) (int64, error)
	ApplyEffect(ctx context.Context, tx *sql.Tx, productID int64, eff projector.Effect) error
	OverwriteDerived(ctx context.Context, tx *sql.Tx, productID int64, snap projector.Snapshot) error
	ListByOwner(ctx context.Context, ownerID int) ([]domain.Product, error)
	Delete(ctx context.Context, ownerID int, productID int64) error
}
