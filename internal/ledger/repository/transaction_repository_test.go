package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trastienda/internal/domain"
	"trastienda/internal/errors"
	"trastienda/internal/testutil"
)

// Unit Tests

func TestNewMySQLTransactionRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLTransactionRepository(db)

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

func TestTransactionRepository_InsertAndFindByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLTransactionRepository(db)
	productID := insertTestProduct(t, db, 1, "omnilife")

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	customer := "maria"
	id, err := repo.Insert(context.Background(), tx, domain.Transaction{
		OwnerID:       1,
		ProductID:     &productID,
		Type:          domain.TypeSale,
		QuantityBoxes: 2,
		TotalAmount:   decimal.NewFromInt(90000),
		Notes:         "paid cash",
		CustomerName:  &customer,
	})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	found, err := repo.FindByID(context.Background(), id, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.TypeSale, found.Type)
	assert.Equal(t, 2, found.QuantityBoxes)
	assert.True(t, found.TotalAmount.Equal(decimal.NewFromInt(90000)))
	require.NotNil(t, found.ProductID)
	assert.Equal(t, productID, *found.ProductID)
	require.NotNil(t, found.CustomerName)
	assert.Equal(t, "maria", *found.CustomerName)
	assert.Equal(t, "paid cash", found.Notes)
}

func TestTransactionRepository_Insert_NilProductID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLTransactionRepository(db)

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	campaign := "facebook ads"
	id, err := repo.Insert(context.Background(), tx, domain.Transaction{
		OwnerID:     1,
		Type:        domain.TypeAdvertising,
		TotalAmount: decimal.NewFromInt(20000),
		Campaign:    &campaign,
	})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	found, err := repo.FindByID(context.Background(), id, 1)
	require.NoError(t, err)
	assert.Nil(t, found.ProductID)
	require.NotNil(t, found.Campaign)
	assert.Equal(t, "facebook ads", *found.Campaign)
}

func TestTransactionRepository_FindByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLTransactionRepository(db)

	found, err := repo.FindByID(context.Background(), 9999, 1)
	assert.Nil(t, found)

	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestTransactionRepository_LegacyTypeNormalizedOnRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLTransactionRepository(db)
	productID := insertTestProduct(t, db, 1, "omnilife")

	// Old rows carry the legacy Spanish tag.
	result, err := db.Exec(`
		INSERT INTO Transactions (ownerId, productId, type, quantityBoxes, totalAmount, notes)
		VALUES (1, ?, 'venta', 1, 45000.00, '')
	`, productID)
	require.NoError(t, err)
	id, err := result.LastInsertId()
	require.NoError(t, err)

	found, err := repo.FindByID(context.Background(), id, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.TypeSale, found.Type)
}

func TestTransactionRepository_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLTransactionRepository(db)
	productID := insertTestProduct(t, db, 1, "omnilife")

	result, err := db.Exec(`
		INSERT INTO Transactions (ownerId, productId, type, quantityBoxes, totalAmount, notes)
		VALUES (1, ?, 'purchase', 10, 300000.00, '')
	`, productID)
	require.NoError(t, err)
	id, err := result.LastInsertId()
	require.NoError(t, err)

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(context.Background(), tx, id, 1))
	require.NoError(t, tx.Commit())

	_, err = repo.FindByID(context.Background(), id, 1)
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestTransactionRepository_Delete_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLTransactionRepository(db)

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	defer tx.Rollback()

	err = repo.Delete(context.Background(), tx, 9999, 1)
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestTransactionRepository_ListByProduct_OrderedByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLTransactionRepository(db)
	productID := insertTestProduct(t, db, 1, "omnilife")
	otherID := insertTestProduct(t, db, 1, "aloe")

	for _, row := range []struct {
		productID int64
		txType    string
		boxes     int
	}{
		{productID, "purchase", 10},
		{productID, "sale", 3},
		{otherID, "purchase", 2},
	} {
		_, err := db.Exec(`
			INSERT INTO Transactions (ownerId, productId, type, quantityBoxes, totalAmount, notes)
			VALUES (1, ?, ?, ?, 0, '')
		`, row.productID, row.txType, row.boxes)
		require.NoError(t, err)
	}

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	defer tx.Rollback()

	txs, err := repo.ListByProduct(context.Background(), tx, productID)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, domain.TypePurchase, txs[0].Type)
	assert.Equal(t, domain.TypeSale, txs[1].Type)
	assert.Less(t, txs[0].ID, txs[1].ID)
}

func TestTransactionRepository_ListByOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLTransactionRepository(db)
	productID := insertTestProduct(t, db, 1, "omnilife")

	_, err := db.Exec(`
		INSERT INTO Transactions (ownerId, productId, type, quantityBoxes, totalAmount, notes)
		VALUES (1, ?, 'purchase', 10, 300000.00, ''), (2, ?, 'sale', 1, 45000.00, '')
	`, productID, productID)
	require.NoError(t, err)

	txs, err := repo.ListByOwner(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, 1, txs[0].OwnerID)
}

func TestTransactionRepository_UpdateAmount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLTransactionRepository(db)

	result, err := db.Exec(`
		INSERT INTO Transactions (ownerId, type, totalAmount, notes)
		VALUES (1, 'advertising', 20000.00, '')
	`)
	require.NoError(t, err)
	id, err := result.LastInsertId()
	require.NoError(t, err)

	require.NoError(t, repo.UpdateAmount(context.Background(), id, 1, decimal.NewFromInt(35000)))

	found, err := repo.FindByID(context.Background(), id, 1)
	require.NoError(t, err)
	assert.True(t, found.TotalAmount.Equal(decimal.NewFromInt(35000)))
}

func TestTransactionRepository_UpdateAmount_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLTransactionRepository(db)

	err := repo.UpdateAmount(context.Background(), 9999, 1, decimal.NewFromInt(100))
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}
