package loan

import (
	"context"
	"database/sql"
	"fmt"

	"trastienda/internal/domain"
	"trastienda/internal/errors"
)

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

func (r *MySQLRepository) Insert(ctx context.Context, tx *sql.Tx, loan domain.Loan) (int64, error) {
	query := `
		INSERT INTO Loans (ownerId, productId, quantityBoxes, quantitySachets, notes)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		loan.OwnerID, loan.ProductID, loan.QuantityBoxes, loan.QuantitySachets, loan.Notes,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting loan: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting loan insert id: %w", err)
	}

	return id, nil
}

// ListByProductForUpdate locks a product's loan records oldest-first so a
// FIFO settlement cannot race a concurrent repayment.
func (r *MySQLRepository) ListByProductForUpdate(ctx context.Context, tx *sql.Tx, productID int64, ownerID int) ([]domain.Loan, error) {
	query := `
		SELECT id, ownerId, productId, quantityBoxes, quantitySachets, notes, createdAt, updatedAt
		FROM Loans
		WHERE productId = ? AND ownerId = ?
		ORDER BY createdAt, id
		FOR UPDATE
	`

	rows, err := tx.QueryContext(ctx, query, productID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying loans for update: %w", err)
	}
	defer rows.Close()

	return collectLoans(rows)
}

func (r *MySQLRepository) UpdateQuantities(ctx context.Context, tx *sql.Tx, id int64, boxes, sachets int) error {
	query := `UPDATE Loans SET quantityBoxes = ?, quantitySachets = ? WHERE id = ?`

	result, err := tx.ExecContext(ctx, query, boxes, sachets, id)
	if err != nil {
		return fmt.Errorf("updating loan quantities: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("loan with id %d not found", id))
	}

	return nil
}

func (r *MySQLRepository) Delete(ctx context.Context, tx *sql.Tx, id int64) error {
	query := `DELETE FROM Loans WHERE id = ?`

	if _, err := tx.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("deleting loan: %w", err)
	}

	return nil
}

func (r *MySQLRepository) ListByOwner(ctx context.Context, ownerID int) ([]domain.Loan, error) {
	query := `
		SELECT id, ownerId, productId, quantityBoxes, quantitySachets, notes, createdAt, updatedAt
		FROM Loans
		WHERE ownerId = ?
		ORDER BY createdAt, id
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying loans by owner: %w", err)
	}
	defer rows.Close()

	return collectLoans(rows)
}

func collectLoans(rows *sql.Rows) ([]domain.Loan, error) {
	var loans []domain.Loan
	for rows.Next() {
		var l domain.Loan
		err := rows.Scan(
			&l.ID, &l.OwnerID, &l.ProductID, &l.QuantityBoxes, &l.QuantitySachets,
			&l.Notes, &l.CreatedAt, &l.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning loan row: %w", err)
		}
		loans = append(loans, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating loan rows: %w", err)
	}

	return loans, nil
}
