package domain

import "time"

// Loan records product the seller still owes from an outflow that exceeded
// the available stock. A fully repaid loan is deleted, never kept at zero.
type Loan struct {
	ID              int64
	OwnerID         int
	ProductID       int64
	QuantityBoxes   int
	QuantitySachets int
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (l Loan) IsSettled() bool {
	return l.QuantityBoxes == 0 && l.QuantitySachets == 0
}
