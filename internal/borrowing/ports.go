package borrowing

import (
	"context"
	"database/sql"

	"trastienda/internal/domain"
	"trastienda/internal/projector"
)

type Service interface {
	Receive(ctx context.Context, ownerID int, req ReceiveRequest) (*domain.Borrowing, error)
	ReturnPortion(ctx context.Context, ownerID int, borrowingID int64, boxes, sachets int) (*domain.Borrowing, error)
	ListByOwner(ctx context.Context, ownerID int) ([]domain.Borrowing, error)
}

type Repository interface {
	Insert(ctx context.Context, tx *sql.Tx, b domain.Borrowing) (int64, error)
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64, ownerID int) (*domain.Borrowing, error)
	UpdateReturned(ctx context.Context, tx *sql.Tx, b domain.Borrowing) error
	ListByOwner(ctx context.Context, ownerID int) ([]domain.Borrowing, error)
}

// ProductStore adds the received stock to the catalog inside the borrowing's
// database transaction. Borrowed stock is sellable from the moment it lands.
type ProductStore interface {
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, productID int64, ownerID int) (*domain.Product, error)
	ApplyEffect(ctx context.Context, tx *sql.Tx, productID int64, eff projector.Effect) error
}

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}
