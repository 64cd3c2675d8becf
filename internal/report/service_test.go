package report

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"trastienda/internal/domain"
	apperrors "trastienda/internal/errors"
)

type mockTransactionReader struct {
	listByOwnerFn func(ctx context.Context, ownerID int) ([]domain.Transaction, error)
}

func (m *mockTransactionReader) ListByOwner(ctx context.Context, ownerID int) ([]domain.Transaction, error) {
	return m.listByOwnerFn(ctx, ownerID)
}

type mockProductReader struct {
	listByOwnerFn func(ctx context.Context, ownerID int) ([]domain.Product, error)
}

func (m *mockProductReader) ListByOwner(ctx context.Context, ownerID int) ([]domain.Product, error) {
	return m.listByOwnerFn(ctx, ownerID)
}

type mockLoanReader struct {
	listByOwnerFn func(ctx context.Context, ownerID int) ([]domain.Loan, error)
}

func (m *mockLoanReader) ListByOwner(ctx context.Context, ownerID int) ([]domain.Loan, error) {
	return m.listByOwnerFn(ctx, ownerID)
}

type mockBorrowingReader struct {
	listByOwnerFn func(ctx context.Context, ownerID int) ([]domain.Borrowing, error)
}

func (m *mockBorrowingReader) ListByOwner(ctx context.Context, ownerID int) ([]domain.Borrowing, error) {
	return m.listByOwnerFn(ctx, ownerID)
}

type mockPaymentRepository struct {
	insertFn     func(ctx context.Context, ownerID int, amount decimal.Decimal, notes string) error
	sumByOwnerFn func(ctx context.Context, ownerID int) (decimal.Decimal, error)
}

func (m *mockPaymentRepository) Insert(ctx context.Context, ownerID int, amount decimal.Decimal, notes string) error {
	return m.insertFn(ctx, ownerID, amount, notes)
}

func (m *mockPaymentRepository) SumByOwner(ctx context.Context, ownerID int) (decimal.Decimal, error) {
	return m.sumByOwnerFn(ctx, ownerID)
}

func emptyMocks() (*mockTransactionReader, *mockProductReader, *mockLoanReader, *mockBorrowingReader, *mockPaymentRepository) {
	return &mockTransactionReader{
			listByOwnerFn: func(ctx context.Context, ownerID int) ([]domain.Transaction, error) { return nil, nil },
		}, &mockProductReader{
			listByOwnerFn: func(ctx context.Context, ownerID int) ([]domain.Product, error) { return nil, nil },
		}, &mockLoanReader{
			listByOwnerFn: func(ctx context.Context, ownerID int) ([]domain.Loan, error) { return nil, nil },
		}, &mockBorrowingReader{
			listByOwnerFn: func(ctx context.Context, ownerID int) ([]domain.Borrowing, error) { return nil, nil },
		}, &mockPaymentRepository{
			insertFn:     func(ctx context.Context, ownerID int, amount decimal.Decimal, notes string) error { return nil },
			sumByOwnerFn: func(ctx context.Context, ownerID int) (decimal.Decimal, error) { return decimal.Zero, nil },
		}
}

func TestProfitabilityReport_TransactionReadRetriesOnce(t *testing.T) {
	txReader, products, loans, borrowings, payments := emptyMocks()

	calls := 0
	txReader.listByOwnerFn = func(ctx context.Context, ownerID int) ([]domain.Transaction, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("connection reset")
		}
		return []domain.Transaction{{Type: domain.TypeSale, TotalAmount: dec("50000")}}, nil
	}

	svc := NewService(txReader, products, loans, borrowings, payments, zap.NewNop())
	report, err := svc.ProfitabilityReport(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.True(t, report.RealIncome.Equal(dec("50000")))
}

func TestProfitabilityReport_TransactionReadFailsAfterRetry(t *testing.T) {
	txReader, products, loans, borrowings, payments := emptyMocks()
	txReader.listByOwnerFn = func(ctx context.Context, ownerID int) ([]domain.Transaction, error) {
		return nil, errors.New("connection reset")
	}

	svc := NewService(txReader, products, loans, borrowings, payments, zap.NewNop())
	_, err := svc.ProfitabilityReport(context.Background(), 1)

	_, ok := apperrors.IsPersistenceError(err)
	assert.True(t, ok)
}

func TestProfitabilityReport_ProductReadFailsAfterRetry(t *testing.T) {
	txReader, products, loans, borrowings, payments := emptyMocks()
	products.listByOwnerFn = func(ctx context.Context, ownerID int) ([]domain.Product, error) {
		return nil, errors.New("table gone")
	}

	svc := NewService(txReader, products, loans, borrowings, payments, zap.NewNop())
	_, err := svc.ProfitabilityReport(context.Background(), 1)

	_, ok := apperrors.IsPersistenceError(err)
	assert.True(t, ok)
}

func TestProfitabilityReport_SideTablesDegradeToEmpty(t *testing.T) {
	txReader, products, loans, borrowings, payments := emptyMocks()
	txReader.listByOwnerFn = func(ctx context.Context, ownerID int) ([]domain.Transaction, error) {
		return []domain.Transaction{{Type: domain.TypeSale, TotalAmount: dec("70000")}}, nil
	}
	loans.listByOwnerFn = func(ctx context.Context, ownerID int) ([]domain.Loan, error) {
		return nil, errors.New("loans unavailable")
	}
	borrowings.listByOwnerFn = func(ctx context.Context, ownerID int) ([]domain.Borrowing, error) {
		return nil, errors.New("borrowings unavailable")
	}
	payments.sumByOwnerFn = func(ctx context.Context, ownerID int) (decimal.Decimal, error) {
		return decimal.Zero, errors.New("payments unavailable")
	}

	svc := NewService(txReader, products, loans, borrowings, payments, zap.NewNop())
	report, err := svc.ProfitabilityReport(context.Background(), 1)

	require.NoError(t, err)
	assert.True(t, report.RealIncome.Equal(dec("70000")))
	assert.Equal(t, 0, report.OutstandingLoanBoxes)
	assert.Equal(t, 0, report.PendingBorrowings)
	assert.True(t, report.ProgramPayments.IsZero())
}

func TestInventorySnapshot_FoldsPerProduct(t *testing.T) {
	txReader, products, loans, borrowings, payments := emptyMocks()

	omnilifeID, aloeID := int64(1), int64(2)
	txReader.listByOwnerFn = func(ctx context.Context, ownerID int) ([]domain.Transaction, error) {
		return []domain.Transaction{
			{ID: 1, ProductID: &omnilifeID, Type: domain.TypePurchase, QuantityBoxes: 10, TotalAmount: dec("300000")},
			{ID: 2, ProductID: &omnilifeID, Type: domain.TypeSale, QuantityBoxes: 3, TotalAmount: dec("150000")},
			{ID: 3, ProductID: &aloeID, Type: domain.TypePurchase, QuantityBoxes: 2, TotalAmount: dec("76000")},
			{ID: 4, Type: domain.TypeAdvertising, TotalAmount: dec("20000")}, // no product
		}, nil
	}
	products.listByOwnerFn = func(ctx context.Context, ownerID int) ([]domain.Product, error) {
		return []domain.Product{
			{ID: omnilifeID, Name: "omnilife"},
			{ID: aloeID, Name: "aloe"},
		}, nil
	}

	svc := NewService(txReader, products, loans, borrowings, payments, zap.NewNop())
	snapshot, err := svc.InventorySnapshot(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, snapshot, 2)
	assert.Equal(t, 7, snapshot["omnilife"].Boxes)
	assert.True(t, snapshot["omnilife"].WeightedAverageCost.Equal(dec("30000")))
	assert.Equal(t, 2, snapshot["aloe"].Boxes)
	assert.True(t, snapshot["aloe"].WeightedAverageCost.Equal(dec("38000")))
}

func TestInventorySnapshot_IncludesBorrowedStock(t *testing.T) {
	txReader, products, loans, borrowings, payments := emptyMocks()

	omnilifeID := int64(1)
	txReader.listByOwnerFn = func(ctx context.Context, ownerID int) ([]domain.Transaction, error) {
		return []domain.Transaction{
			{ID: 1, ProductID: &omnilifeID, Type: domain.TypeSale, QuantityBoxes: 1, TotalAmount: dec("45000")},
		}, nil
	}
	products.listByOwnerFn = func(ctx context.Context, ownerID int) ([]domain.Product, error) {
		return []domain.Product{{ID: omnilifeID, Name: "omnilife"}}, nil
	}
	borrowings.listByOwnerFn = func(ctx context.Context, ownerID int) ([]domain.Borrowing, error) {
		return []domain.Borrowing{
			{ID: 1, ProductID: omnilifeID, BorrowedBoxes: 3},
			{ID: 2, ProductID: omnilifeID, BorrowedBoxes: 1, BorrowedSachets: 5},
		}, nil
	}

	svc := NewService(txReader, products, loans, borrowings, payments, zap.NewNop())
	snapshot, err := svc.InventorySnapshot(context.Background(), 1)

	require.NoError(t, err)
	// 4 borrowed boxes minus the 1 sold; borrowed stock carries no cost.
	assert.Equal(t, 3, snapshot["omnilife"].Boxes)
	assert.Equal(t, 5, snapshot["omnilife"].Sachets)
	assert.True(t, snapshot["omnilife"].WeightedAverageCost.IsZero())
}

func TestAddProgramPayment_DelegatesToRepository(t *testing.T) {
	txReader, products, loans, borrowings, payments := emptyMocks()

	var gotOwner int
	var gotAmount decimal.Decimal
	payments.insertFn = func(ctx context.Context, ownerID int, amount decimal.Decimal, notes string) error {
		gotOwner = ownerID
		gotAmount = amount
		return nil
	}

	svc := NewService(txReader, products, loans, borrowings, payments, zap.NewNop())
	err := svc.AddProgramPayment(context.Background(), 4, dec("25000"), "monthly bonus")

	require.NoError(t, err)
	assert.Equal(t, 4, gotOwner)
	assert.True(t, gotAmount.Equal(dec("25000")))
}
