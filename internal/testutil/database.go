package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

// SetupTestDB opens the integration test database. It expects a MySQL
// instance on localhost:3306 with a database named 'trastienda_test' and
// skips the test when none is available.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := "root:@tcp(localhost:3306)/trastienda_test?parseTime=true"
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.Ping()
	if err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// CleanupTestDB empties every table touched by the integration tests.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{"ProgramPayments", "Borrowings", "Loans", "Transactions", "Products"}
	for _, table := range tables {
		_, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// SetupTestTables creates the schema the integration tests need.
func SetupTestTables(t *testing.T, db *sql.DB) {
	createProductsTable := `
	CREATE TABLE IF NOT EXISTS Products (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		ownerId INT NOT NULL,
		name VARCHAR(255) NOT NULL,
		listPrice DECIMAL(14,2) NOT NULL DEFAULT 0,
		weightedAverageCost DECIMAL(14,2) NOT NULL DEFAULT 0,
		stockBoxes INT NOT NULL DEFAULT 0,
		marketingStock INT NOT NULL DEFAULT 0,
		sachetsPerBox INT NOT NULL DEFAULT 28,
		points INT NOT NULL DEFAULT 0,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_owner_name (ownerId, name),
		INDEX idx_owner (ownerId)
	)`

	createTransactionsTable := `
	CREATE TABLE IF NOT EXISTS Transactions (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		ownerId INT NOT NULL,
		productId BIGINT,
		type VARCHAR(30) NOT NULL,
		quantityBoxes INT NOT NULL DEFAULT 0,
		quantitySachets INT NOT NULL DEFAULT 0,
		totalAmount DECIMAL(14,2) NOT NULL DEFAULT 0,
		isGift TINYINT(1) NOT NULL DEFAULT 0,
		notes TEXT,
		customerName VARCHAR(150),
		campaign VARCHAR(150),
		referrer VARCHAR(150),
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (productId) REFERENCES Products(id) ON DELETE CASCADE,
		INDEX idx_owner (ownerId),
		INDEX idx_product (productId)
	)`

	createLoansTable := `
	CREATE TABLE IF NOT EXISTS Loans (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		ownerId INT NOT NULL,
		productId BIGINT NOT NULL,
		quantityBoxes INT NOT NULL DEFAULT 0,
		quantitySachets INT NOT NULL DEFAULT 0,
		notes TEXT,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		FOREIGN KEY (productId) REFERENCES Products(id) ON DELETE CASCADE,
		INDEX idx_owner (ownerId),
		INDEX idx_product (productId)
	)`

	createBorrowingsTable := `
	CREATE TABLE IF NOT EXISTS Borrowings (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		ownerId INT NOT NULL,
		productId BIGINT NOT NULL,
		partnerName VARCHAR(150) NOT NULL,
		partnerPhone VARCHAR(30),
		borrowedBoxes INT NOT NULL DEFAULT 0,
		borrowedSachets INT NOT NULL DEFAULT 0,
		returnedBoxes INT NOT NULL DEFAULT 0,
		returnedSachets INT NOT NULL DEFAULT 0,
		dueDate DATETIME,
		returnedAt DATETIME,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		FOREIGN KEY (productId) REFERENCES Products(id) ON DELETE CASCADE,
		INDEX idx_owner (ownerId)
	)`

	createProgramPaymentsTable := `
	CREATE TABLE IF NOT EXISTS ProgramPayments (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		ownerId INT NOT NULL,
		amount DECIMAL(14,2) NOT NULL DEFAULT 0,
		notes TEXT,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_owner (ownerId)
	)`

	tables := []struct {
		name  string
		query string
	}{
		{"Products", createProductsTable},
		{"Transactions", createTransactionsTable},
		{"Loans", createLoansTable},
		{"Borrowings", createBorrowingsTable},
		{"ProgramPayments", createProgramPaymentsTable},
	}

	for _, tbl := range tables {
		_, err := db.Exec(tbl.query)
		if err != nil {
			t.Logf("failed to create table %s: %v", tbl.name, err)
		}
	}
}
