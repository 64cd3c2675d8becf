package report

import (
	"context"

	"github.com/shopspring/decimal"

	"trastienda/internal/domain"
	"trastienda/internal/projector"
)

type Service interface {
	ProfitabilityReport(ctx context.Context, ownerID int) (*Report, error)
	InventorySnapshot(ctx context.Context, ownerID int) (map[string]projector.Snapshot, error)
	AddProgramPayment(ctx context.Context, ownerID int, amount decimal.Decimal, notes string) error
}

type TransactionReader interface {
	ListByOwner(ctx context.Context, ownerID int) ([]domain.Transaction, error)
}

type ProductReader interface {
	ListByOwner(ctx context.Context, ownerID int) ([]domain.Product, error)
}

type LoanReader interface {
	ListByOwner(ctx context.Context, ownerID int) ([]domain.Loan, error)
}

type BorrowingReader interface {
	ListByOwner(ctx context.Context, ownerID int) ([]domain.Borrowing, error)
}

type PaymentRepository interface {
	Insert(ctx context.Context, ownerID int, amount decimal.Decimal, notes string) error
	SumByOwner(ctx context.Context, ownerID int) (decimal.Decimal, error)
}
