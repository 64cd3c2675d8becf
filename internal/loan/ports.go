package loan

import (
	"context"
	"database/sql"

	"trastienda/internal/domain"
)

type Service interface {
	Repay(ctx context.Context, ownerID int, productID int64, boxes, sachets int) (*SettleResult, error)
	ListByOwner(ctx context.Context, ownerID int) ([]domain.Loan, error)
}

type Repository interface {
	Insert(ctx context.Context, tx *sql.Tx, loan domain.Loan) (int64, error)
	ListByProductForUpdate(ctx context.Context, tx *sql.Tx, productID int64, ownerID int) ([]domain.Loan, error)
	UpdateQuantities(ctx context.Context, tx *sql.Tx, id int64, boxes, sachets int) error
	Delete(ctx context.Context, tx *sql.Tx, id int64) error
	ListByOwner(ctx context.Context, ownerID int) ([]domain.Loan, error)
}

// TransactionRecorder appends the loan_repayment row to the ledger inside
// the repayment's database transaction.
type TransactionRecorder interface {
	Insert(ctx context.Context, tx *sql.Tx, t domain.Transaction) (int64, error)
}

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}
