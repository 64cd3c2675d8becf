package loan

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trastienda/internal/domain"
	"trastienda/internal/errors"
	"trastienda/internal/testutil"
)

// Unit Tests

func TestNewMySQLRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

// Integration Tests

func insertTestProduct(t *testing.T, db *sql.DB, ownerID int, name string) int64 {
	result, err := db.Exec(`
		INSERT INTO Products (ownerId, name, listPrice, weightedAverageCost, stockBoxes, marketingStock, sachetsPerBox, points)
		VALUES (?, ?, 45000.00, 0, 0, 0, 28, 0)
	`, ownerID, name)
	require.NoError(t, err)

	id, err := result.LastInsertId()
	require.NoError(t, err)
	return id
}

func TestLoanRepository_InsertAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLRepository(db)
	productID := insertTestProduct(t, db, 1, "omnilife")

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	id, err := repo.Insert(context.Background(), tx, domain.Loan{
		OwnerID:       1,
		ProductID:     productID,
		QuantityBoxes: 5,
		Notes:         "sale exceeded stock",
	})
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))
	require.NoError(t, tx.Commit())

	loans, err := repo.ListByOwner(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, loans, 1)
	assert.Equal(t, 5, loans[0].QuantityBoxes)
	assert.Equal(t, 0, loans[0].QuantitySachets)
	assert.Equal(t, "sale exceeded stock", loans[0].Notes)
}

func TestLoanRepository_ListByProductForUpdate_OldestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLRepository(db)
	productID := insertTestProduct(t, db, 1, "omnilife")
	otherID := insertTestProduct(t, db, 1, "aloe")

	// Explicit timestamps so creation order is unambiguous.
	_, err := db.Exec(`
		INSERT INTO Loans (ownerId, productId, quantityBoxes, quantitySachets, notes, createdAt)
		VALUES (1, ?, 3, 0, '', '2026-03-01 10:00:00'),
		       (1, ?, 4, 0, '', '2026-03-01 09:00:00'),
		       (1, ?, 9, 0, '', '2026-03-01 08:00:00')
	`, productID, productID, otherID)
	require.NoError(t, err)

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	defer tx.Rollback()

	loans, err := repo.ListByProductForUpdate(context.Background(), tx, productID, 1)
	require.NoError(t, err)
	require.Len(t, loans, 2)
	assert.Equal(t, 4, loans[0].QuantityBoxes)
	assert.Equal(t, 3, loans[1].QuantityBoxes)
}

func TestLoanRepository_UpdateQuantities(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLRepository(db)
	productID := insertTestProduct(t, db, 1, "omnilife")

	result, err := db.Exec(`
		INSERT INTO Loans (ownerId, productId, quantityBoxes, quantitySachets, notes)
		VALUES (1, ?, 5, 10, '')
	`, productID)
	require.NoError(t, err)
	id, err := result.LastInsertId()
	require.NoError(t, err)

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateQuantities(context.Background(), tx, id, 2, 10))
	require.NoError(t, tx.Commit())

	loans, err := repo.ListByOwner(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, loans, 1)
	assert.Equal(t, 2, loans[0].QuantityBoxes)
	assert.Equal(t, 10, loans[0].QuantitySachets)
}

func TestLoanRepository_UpdateQuantities_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLRepository(db)

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	defer tx.Rollback()

	err = repo.UpdateQuantities(context.Background(), tx, 9999, 1, 0)
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestLoanRepository_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLRepository(db)
	productID := insertTestProduct(t, db, 1, "omnilife")

	result, err := db.Exec(`
		INSERT INTO Loans (ownerId, productId, quantityBoxes, quantitySachets, notes)
		VALUES (1, ?, 2, 0, '')
	`, productID)
	require.NoError(t, err)
	id, err := result.LastInsertId()
	require.NoError(t, err)

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(context.Background(), tx, id))
	require.NoError(t, tx.Commit())

	loans, err := repo.ListByOwner(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, loans)
}
