package loan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trastienda/internal/domain"
	"trastienda/internal/errors"
)

func TestSettle_PartialRepaymentLeavesBalance(t *testing.T) {
	// Owe 5 boxes, repay 3: the record stays with 2 outstanding.
	records := []domain.Loan{{ID: 1, QuantityBoxes: 5}}

	result, err := Settle(records, 3, 0)

	require.NoError(t, err)
	require.Len(t, result.Updated, 1)
	assert.Equal(t, 2, result.Updated[0].QuantityBoxes)
	assert.Empty(t, result.DeletedIDs)
}

func TestSettle_FullRepaymentDeletesRecord(t *testing.T) {
	records := []domain.Loan{{ID: 7, QuantityBoxes: 2}}

	result, err := Settle(records, 2, 0)

	require.NoError(t, err)
	assert.Empty(t, result.Updated)
	assert.Equal(t, []int64{7}, result.DeletedIDs)
}

func TestSettle_FIFOAcrossRecords(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	records := []domain.Loan{
		{ID: 2, QuantityBoxes: 4, CreatedAt: base.Add(time.Hour)},
		{ID: 1, QuantityBoxes: 3, CreatedAt: base},
	}

	// Repaying 5 settles the older record fully and takes 2 from the newer.
	result, err := Settle(records, 5, 0)

	require.NoError(t, err)
	assert.Equal(t, []int64{1}, result.DeletedIDs)
	require.Len(t, result.Updated, 1)
	assert.Equal(t, int64(2), result.Updated[0].ID)
	assert.Equal(t, 2, result.Updated[0].QuantityBoxes)
}

func TestSettle_SameTimestampOrdersByID(t *testing.T) {
	when := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	records := []domain.Loan{
		{ID: 9, QuantityBoxes: 2, CreatedAt: when},
		{ID: 3, QuantityBoxes: 2, CreatedAt: when},
	}

	result, err := Settle(records, 2, 0)

	require.NoError(t, err)
	assert.Equal(t, []int64{3}, result.DeletedIDs)
}

func TestSettle_ComponentsFoldIndependently(t *testing.T) {
	records := []domain.Loan{
		{ID: 1, QuantityBoxes: 1, QuantitySachets: 10},
		{ID: 2, QuantitySachets: 6},
	}

	result, err := Settle(records, 1, 12)

	require.NoError(t, err)
	assert.Equal(t, []int64{1}, result.DeletedIDs)
	require.Len(t, result.Updated, 1)
	assert.Equal(t, int64(2), result.Updated[0].ID)
	assert.Equal(t, 4, result.Updated[0].QuantitySachets)
}

func TestSettle_ExceedingBalanceFails(t *testing.T) {
	records := []domain.Loan{{ID: 1, QuantityBoxes: 2, QuantitySachets: 3}}

	_, err := Settle(records, 5, 0)

	balErr, ok := errors.IsInsufficientLoanBalanceError(err)
	require.True(t, ok)
	assert.Equal(t, 2, balErr.OutstandingBoxes)
	assert.Equal(t, 3, balErr.OutstandingSachets)
}

func TestSettle_NoOutstandingLoans(t *testing.T) {
	_, err := Settle(nil, 1, 0)
	_, ok := errors.IsInsufficientLoanBalanceError(err)
	assert.True(t, ok)
}

func TestSettle_Validation(t *testing.T) {
	records := []domain.Loan{{ID: 1, QuantityBoxes: 2}}

	_, err := Settle(records, -1, 0)
	_, ok := errors.IsValidationError(err)
	assert.True(t, ok)

	_, err = Settle(records, 0, 0)
	_, ok = errors.IsValidationError(err)
	assert.True(t, ok)
}
