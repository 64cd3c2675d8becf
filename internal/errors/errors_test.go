package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_Creation(t *testing.T) {
	message := "validation failed"
	details := []ValidationDetail{
		{Field: "quantityBoxes", Message: "must be positive"},
		{Field: "listPrice", Message: "required field"},
	}

	err := NewValidationError(message, details...)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
	assert.Len(t, err.Details, 2)
}

func TestValidationError_IsValidationError(t *testing.T) {
	err := NewValidationError("bad input")

	ve, ok := IsValidationError(err)
	assert.True(t, ok)
	assert.NotNil(t, ve)

	_, ok = IsValidationError(errors.New("some other error"))
	assert.False(t, ok)
}

func TestNotFoundError_Creation(t *testing.T) {
	message := "product not found"
	err := NewNotFoundError(message)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
}

func TestNotFoundError_IsNotFoundError(t *testing.T) {
	err := NewNotFoundError("test not found")

	nf, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.NotNil(t, nf)
	assert.Equal(t, "test not found", nf.Message)

	nf, ok = IsNotFoundError(errors.New("some other error"))
	assert.False(t, ok)
	assert.Nil(t, nf)
}

func TestConflictError(t *testing.T) {
	err := NewConflictError("transaction is immutable")

	ce, ok := IsConflictError(err)
	assert.True(t, ok)
	assert.Equal(t, "transaction is immutable", ce.Error())

	_, ok = IsConflictError(errors.New("other"))
	assert.False(t, ok)
}

func TestInsufficientLoanBalanceError_CarriesBalance(t *testing.T) {
	err := NewInsufficientLoanBalanceError("repayment exceeds balance", 5, 10)

	ib, ok := IsInsufficientLoanBalanceError(err)
	assert.True(t, ok)
	assert.Equal(t, 5, ib.OutstandingBoxes)
	assert.Equal(t, 10, ib.OutstandingSachets)
	assert.Equal(t, "repayment exceeds balance", ib.Error())
}

func TestExceedsPendingError_CarriesPending(t *testing.T) {
	err := NewExceedsPendingError("return exceeds pending", 3, 0)

	ep, ok := IsExceedsPendingError(err)
	assert.True(t, ok)
	assert.Equal(t, 3, ep.PendingBoxes)
	assert.Equal(t, 0, ep.PendingSachets)
}

func TestDeadlockError(t *testing.T) {
	err := NewDeadlockError("max retries exceeded")

	de, ok := IsDeadlockError(err)
	assert.True(t, ok)
	assert.Equal(t, "max retries exceeded", de.Error())
}

func TestPersistenceError_WrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewPersistenceError("reading transactions", cause)

	pe, ok := IsPersistenceError(err)
	assert.True(t, ok)
	assert.Equal(t, "reading transactions: connection refused", pe.Error())
	assert.Equal(t, cause, errors.Unwrap(pe))
}

func TestInternalError_Creation(t *testing.T) {
	cause := errors.New("database error")
	err := NewInternalError("failed to query database", cause)

	assert.NotNil(t, err)
	assert.Equal(t, "failed to query database: database error", err.Error())
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestInternalError_WithoutCause(t *testing.T) {
	err := NewInternalError("something broke", nil)

	assert.Equal(t, "something broke", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}
