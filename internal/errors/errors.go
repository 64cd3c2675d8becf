package errors

import "fmt"

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Message: message,
		Details: details,
	}
}

func IsValidationError(err error) (*ValidationError, bool) {
	if ve, ok := err.(*ValidationError); ok {
		return ve, true
	}
	return nil, false
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

func IsNotFoundError(err error) (*NotFoundError, bool) {
	if nf, ok := err.(*NotFoundError); ok {
		return nf, true
	}
	return nil, false
}

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

func IsConflictError(err error) (*ConflictError, bool) {
	if ce, ok := err.(*ConflictError); ok {
		return ce, true
	}
	return nil, false
}

// InsufficientLoanBalanceError carries the outstanding balance so the caller
// can offer a corrected repayment amount.
type InsufficientLoanBalanceError struct {
	Message            string
	OutstandingBoxes   int
	OutstandingSachets int
}

func (e *InsufficientLoanBalanceError) Error() string {
	return e.Message
}

func NewInsufficientLoanBalanceError(message string, outstandingBoxes, outstandingSachets int) *InsufficientLoanBalanceError {
	return &InsufficientLoanBalanceError{
		Message:            message,
		OutstandingBoxes:   outstandingBoxes,
		OutstandingSachets: outstandingSachets,
	}
}

func IsInsufficientLoanBalanceError(err error) (*InsufficientLoanBalanceError, bool) {
	if ib, ok := err.(*InsufficientLoanBalanceError); ok {
		return ib, true
	}
	return nil, false
}

// ExceedsPendingError carries the pending quantities still owed on a
// borrowing so the caller can offer a corrected return amount.
type ExceedsPendingError struct {
	Message        string
	PendingBoxes   int
	PendingSachets int
}

func (e *ExceedsPendingError) Error() string {
	return e.Message
}

func NewExceedsPendingError(message string, pendingBoxes, pendingSachets int) *ExceedsPendingError {
	return &ExceedsPendingError{
		Message:        message,
		PendingBoxes:   pendingBoxes,
		PendingSachets: pendingSachets,
	}
}

func IsExceedsPendingError(err error) (*ExceedsPendingError, bool) {
	if ep, ok := err.(*ExceedsPendingError); ok {
		return ep, true
	}
	return nil, false
}

type DeadlockError struct {
	Message string
}

func (e *DeadlockError) Error() string {
	return e.Message
}

func NewDeadlockError(message string) *DeadlockError {
	return &DeadlockError{Message: message}
}

func IsDeadlockError(err error) (*DeadlockError, bool) {
	if de, ok := err.(*DeadlockError); ok {
		return de, true
	}
	return nil, false
}

// PersistenceError marks an I/O failure from the store after the retry
// budget was spent; callers surface partial data instead of failing the
// whole dashboard.
type PersistenceError struct {
	Message string
	Cause   error
}

func (e *PersistenceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}

func NewPersistenceError(message string, cause error) *PersistenceError {
	return &PersistenceError{Message: message, Cause: cause}
}

func IsPersistenceError(err error) (*PersistenceError, bool) {
	if pe, ok := err.(*PersistenceError); ok {
		return pe, true
	}
	return nil, false
}

type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

func NewInternalError(message string, cause error) *InternalError {
	return &InternalError{
		Message: message,
		Cause:   cause,
	}
}
