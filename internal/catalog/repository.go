package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"trastienda/internal/domain"
	"trastienda/internal/errors"
	"trastienda/internal/projector"
)

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

const productColumns = `id, ownerId, name, listPrice, weightedAverageCost,
	       stockBoxes, marketingStock, sachetsPerBox, points, createdAt, updatedAt`

func scanProduct(row *sql.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.OwnerID, &p.Name, &p.ListPrice, &p.WeightedAverageCost,
		&p.StockBoxes, &p.MarketingStock, &p.SachetsPerBox, &p.Points,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *MySQLRepository) FindByName(ctx context.Context, ownerID int, name string) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM Products WHERE ownerId = ? AND name = ?`, productColumns)

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, ownerID, name))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product %q not found", name))
	}
	if err != nil {
		return nil, fmt.Errorf("querying product by name: %w", err)
	}

	return p, nil
}

func (r *MySQLRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, productID int64, ownerID int) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM Products WHERE id = ? AND ownerId = ? FOR UPDATE`, productColumns)

	p, err := scanProduct(tx.QueryRowContext(ctx, query, productID, ownerID))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product with id %d not found", productID))
	}
	if err != nil {
		return nil, fmt.Errorf("querying product for update: %w", err)
	}

	return p, nil
}

func (r *MySQLRepository) Insert(ctx context.Context, p domain.Product) (int64, error) {
	query := `
		INSERT INTO Products (ownerId, name, listPrice, weightedAverageCost,
		                      stockBoxes, marketingStock, sachetsPerBox, points)
		VALUES (?, ?, ?, 0, 0, 0, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, p.OwnerID, p.Name, p.ListPrice, p.SachetsPerBox, p.Points)
	if err != nil {
		return 0, fmt.Errorf("inserting product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting product insert id: %w", err)
	}

	return id, nil
}

// ApplyEffect writes stock changes as deltas, never as raw overwrites, so
// concurrent transaction inserts cannot lose updates.
func (r *MySQLRepository) ApplyEffect(ctx context.Context, tx *sql.Tx, productID int64, eff projector.Effect) error {
	if eff.CostChanged {
		query := `
			UPDATE Products
			SET stockBoxes = stockBoxes + ?, marketingStock = marketingStock + ?, weightedAverageCost = ?
			WHERE id = ?
		`
		if _, err := tx.ExecContext(ctx, query, eff.BoxesDelta, eff.SachetsDelta, eff.NewCost, productID); err != nil {
			return fmt.Errorf("applying inventory and cost effect: %w", err)
		}
		return nil
	}

	query := `
		UPDATE Products
		SET stockBoxes = stockBoxes + ?, marketingStock = marketingStock + ?
		WHERE id = ?
	`
	if _, err := tx.ExecContext(ctx, query, eff.BoxesDelta, eff.SachetsDelta, productID); err != nil {
		return fmt.Errorf("applying inventory effect: %w", err)
	}
	return nil
}

// OverwriteDerived replaces the derived columns wholesale. Only the
// recompute-after-delete path may use it; everything else goes through
// ApplyEffect deltas.
func (r *MySQLRepository) OverwriteDerived(ctx context.Context, tx *sql.Tx, productID int64, snap projector.Snapshot) error {
	query := `
		UPDATE Products
		SET stockBoxes = ?, marketingStock = ?, weightedAverageCost = ?
		WHERE id = ?
	`

	if _, err := tx.ExecContext(ctx, query, snap.Boxes, snap.Sachets, snap.WeightedAverageCost, productID); err != nil {
		return fmt.Errorf("overwriting derived product state: %w", err)
	}
	return nil
}

func (r *MySQLRepository) ListByOwner(ctx context.Context, ownerID int) ([]domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM Products WHERE ownerId = ? ORDER BY name`, productColumns)

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		err := rows.Scan(
			&p.ID, &p.OwnerID, &p.Name, &p.ListPrice, &p.WeightedAverageCost,
			&p.StockBoxes, &p.MarketingStock, &p.SachetsPerBox, &p.Points,
			&p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}

	return products, nil
}

// Delete removes the product; its transactions go with it via FK cascade.
func (r *MySQLRepository) Delete(ctx context.Context, ownerID int, productID int64) error {
	query := `DELETE FROM Products WHERE id = ? AND ownerId = ?`

	result, err := r.db.ExecContext(ctx, query, productID, ownerID)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("product with id %d not found", productID))
	}

	return nil
}
