package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"trastienda/internal/domain"
	"trastienda/internal/errors"
)

type MySQLTransactionRepository struct {
	db *sql.DB
}

func NewMySQLTransactionRepository(db *sql.DB) *MySQLTransactionRepository {
	return &MySQLTransactionRepository{db: db}
}

const transactionColumns = `id, ownerId, productId, type, quantityBoxes, quantitySachets,
	       totalAmount, isGift, notes, customerName, campaign, referrer, createdAt`

func (r *MySQLTransactionRepository) Insert(ctx context.Context, tx *sql.Tx, t domain.Transaction) (int64, error) {
	query := `
		INSERT INTO Transactions (ownerId, productId, type, quantityBoxes, quantitySachets,
		                          totalAmount, isGift, notes, customerName, campaign, referrer)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		t.OwnerID, t.ProductID, string(t.Type), t.QuantityBoxes, t.QuantitySachets,
		t.TotalAmount, t.IsGift, t.Notes, t.CustomerName, t.Campaign, t.Referrer,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting transaction: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting transaction insert id: %w", err)
	}

	return id, nil
}

func (r *MySQLTransactionRepository) FindByID(ctx context.Context, id int64, ownerID int) (*domain.Transaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM Transactions WHERE id = ? AND ownerId = ?`, transactionColumns)

	t, err := scanTransactionRow(r.db.QueryRowContext(ctx, query, id, ownerID))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("transaction with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying transaction by id: %w", err)
	}

	return t, nil
}

func (r *MySQLTransactionRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64, ownerID int) (*domain.Transaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM Transactions WHERE id = ? AND ownerId = ? FOR UPDATE`, transactionColumns)

	t, err := scanTransactionRow(tx.QueryRowContext(ctx, query, id, ownerID))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("transaction with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying transaction for update: %w", err)
	}

	return t, nil
}

func (r *MySQLTransactionRepository) Delete(ctx context.Context, tx *sql.Tx, id int64, ownerID int) error {
	query := `DELETE FROM Transactions WHERE id = ? AND ownerId = ?`

	result, err := tx.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("transaction with id %d not found", id))
	}

	return nil
}

// ListByProduct reads a product's full history inside the caller's
// transaction so the recompute-after-delete fold sees a consistent view.
func (r *MySQLTransactionRepository) ListByProduct(ctx context.Context, tx *sql.Tx, productID int64) ([]domain.Transaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM Transactions WHERE productId = ? ORDER BY id`, transactionColumns)

	rows, err := tx.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("querying transactions by product: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func (r *MySQLTransactionRepository) ListByOwner(ctx context.Context, ownerID int) ([]domain.Transaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM Transactions WHERE ownerId = ? ORDER BY id`, transactionColumns)

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying transactions by owner: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func (r *MySQLTransactionRepository) UpdateAmount(ctx context.Context, id int64, ownerID int, amount decimal.Decimal) error {
	query := `UPDATE Transactions SET totalAmount = ? WHERE id = ? AND ownerId = ?`

	result, err := r.db.ExecContext(ctx, query, amount, id, ownerID)
	if err != nil {
		return fmt.Errorf("updating transaction amount: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("transaction with id %d not found", id))
	}

	return nil
}

func scanTransactionRow(row *sql.Row) (*domain.Transaction, error) {
	var t domain.Transaction
	var rawType string
	err := row.Scan(
		&t.ID, &t.OwnerID, &t.ProductID, &rawType, &t.QuantityBoxes, &t.QuantitySachets,
		&t.TotalAmount, &t.IsGift, &t.Notes, &t.CustomerName, &t.Campaign, &t.Referrer,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Type, err = domain.ParseTransactionType(rawType)
	if err != nil {
		return nil, fmt.Errorf("normalizing transaction type: %w", err)
	}

	return &t, nil
}

func collectTransactions(rows *sql.Rows) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		var rawType string
		err := rows.Scan(
			&t.ID, &t.OwnerID, &t.ProductID, &rawType, &t.QuantityBoxes, &t.QuantitySachets,
			&t.TotalAmount, &t.IsGift, &t.Notes, &t.CustomerName, &t.Campaign, &t.Referrer,
			&t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction row: %w", err)
		}

		t.Type, err = domain.ParseTransactionType(rawType)
		if err != nil {
			return nil, fmt.Errorf("normalizing transaction type: %w", err)
		}

		txs = append(txs, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	return txs, nil
}
