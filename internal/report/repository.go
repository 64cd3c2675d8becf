package report

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"trastienda/internal/errors"
)

// MySQLPaymentRepository stores program payments: money returned to the
// reseller outside the transaction stream.
type MySQLPaymentRepository struct {
	db *sql.DB
}

func NewMySQLPaymentRepository(db *sql.DB) *MySQLPaymentRepository {
	return &MySQLPaymentRepository{db: db}
}

func (r *MySQLPaymentRepository) Insert(ctx context.Context, ownerID int, amount decimal.Decimal, notes string) error {
	if amount.IsNegative() {
		return errors.NewValidationError("payment must not be negative", errors.ValidationDetail{
			Field:   "amount",
			Message: "amount must be >= 0",
		})
	}

	query := `INSERT INTO ProgramPayments (ownerId, amount, notes) VALUES (?, ?, ?)`

	if _, err := r.db.ExecContext(ctx, query, ownerID, amount, notes); err != nil {
		return fmt.Errorf("inserting program payment: %w", err)
	}

	return nil
}

func (r *MySQLPaymentRepository) SumByOwner(ctx context.Context, ownerID int) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM ProgramPayments WHERE ownerId = ?`

	var sum decimal.Decimal
	if err := r.db.QueryRowContext(ctx, query, ownerID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("summing program payments: %w", err)
	}

	return sum, nil
}
