package borrowing

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

const borrowingColumns = `id, ownerId, productId, partnerName, partnerPhone,
	       borrowedBoxes, borrowedSachets, returnedBoxes, returnedSachets,
	       dueDate, returnedAt, createdAt, updatedAt`

func (r *MySQLRepository) Insert(ctx context.Context, tx *sql.Tx, b domain.Borrowing) (int64, error) {
	query := `
		INSERT INTO Borrowings (ownerId, productId, partnerName, partnerPhone,
		                        borrowedBoxes, borrowedSachets, returnedBoxes, returnedSachets, dueDate)
		VALUES (?, ?, ?, ?, ?, ?, 0, 0, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		b.OwnerID, b.ProductID, b.PartnerName, b.PartnerPhone,
		b.BorrowedBoxes, b.BorrowedSachets, b.DueDate,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting borrowing: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting borrowing insert id: %w", err)
	}

	return id, nil
}

func (r *MySQLRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64, ownerID int) (*domain.Borrowing, error) {
	query := fmt.Sprintf(`SELECT %s FROM Borrowings WHERE id = ? AND ownerId = ? FOR UPDATE`, borrowingColumns)

	var b domain.Borrowing
	err := tx.QueryRowContext(ctx, query, id, ownerID).Scan(
		&b.ID, &b.OwnerID, &b.ProductID, &b.PartnerName, &b.PartnerPhone,
		&b.BorrowedBoxes, &b.BorrowedSachets, &b.ReturnedBoxes, &b.ReturnedSachets,
		&b.DueDate, &b.ReturnedAt, &b.CreatedAt, &b.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("borrowing with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying borrowing for update: %w", err)
	}

	return &b, nil
}

func (r *MySQLRepository) UpdateReturned(ctx context.Context, tx *sql.Tx, b domain.Borrowing) error {
	query := `
		UPDATE Borrowings
		SET returnedBoxes = ?, returnedSachets = ?, returnedAt = ?
		WHERE id = ?
	`

	result, err := tx.ExecContext(ctx, query, b.ReturnedBoxes, b.ReturnedSachets, b.ReturnedAt, b.ID)
	if err != nil {
		return fmt.Errorf("updating borrowing returns: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("borrowing with id %d not found", b.ID))
	}

	return nil
}

// BorrowedByProduct sums every quantity a product ever received through
// borrowings. Returns are not subtracted: returning stock to the partner
// never reduced the product's inventory, so the full borrowed total is the
// baseline a ledger rebuild has to start from.
func (r *MySQLRepository) BorrowedByProduct(ctx context.Context, tx *sql.Tx, productID int64, ownerID int) (int, int, error) {
	query := `
		SELECT COALESCE(SUM(borrowedBoxes), 0), COALESCE(SUM(borrowedSachets), 0)
		FROM Borrowings
		WHERE productId = ? AND ownerId = ?
	`

	var boxes, sachets int
	if err := tx.QueryRowContext(ctx, query, productID, ownerID).Scan(&boxes, &sachets); err != nil {
		return 0, 0, fmt.Errorf("summing borrowed stock: %w", err)
	}

	return boxes, sachets, nil
}

func (r *MySQLRepository) ListByOwner(ctx context.Context, ownerID int) ([]domain.Borrowing, error) {
	query := fmt.Sprintf(`SELECT %s FROM Borrowings WHERE ownerId = ? ORDER BY createdAt, id`, borrowingColumns)

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying borrowings by owner: %w", err)
	}
	defer rows.Close()

	var borrowings []domain.Borrowing
	for rows.Next() {
		var b domain.Borrowing
		err := rows.Scan(
			&b.ID, &b.OwnerID, &b.ProductID, &b.PartnerName, &b.PartnerPhone,
			&b.BorrowedBoxes, &b.BorrowedSachets, &b.ReturnedBoxes, &b.ReturnedSachets,
			&b.DueDate, &b.ReturnedAt, &b.CreatedAt, &b.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning borrowing row: %w", err)
		}
		borrowings = append(borrowings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating borrowing rows: %w", err)
	}

	return borrowings, nil
}
