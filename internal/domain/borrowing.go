package domain

import "time"

const (
	BorrowingStatusPending  = "pending"
	BorrowingStatusPartial  = "partial"
	BorrowingStatusReturned = "returned"
)

// Borrowing is stock received from a partner that must be returned. Records
// are kept as history once returned, never deleted.
type Borrowing struct {
	ID              int64
	OwnerID         int
	ProductID       int64
	PartnerName     string
	PartnerPhone    *string
	BorrowedBoxes   int
	BorrowedSachets int
	ReturnedBoxes   int
	ReturnedSachets int
	DueDate         *time.Time
	ReturnedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Status is a pure function of the borrowed and returned quantities.
func (b Borrowing) Status() string {
	if b.ReturnedBoxes == 0 && b.ReturnedSachets == 0 {
		return BorrowingStatusPending
	}
	if b.ReturnedBoxes >= b.BorrowedBoxes && b.ReturnedSachets >= b.BorrowedSachets {
		return BorrowingStatusReturned
	}
	return BorrowingStatusPartial
}

func (b Borrowing) PendingBoxes() int {
	pending := b.BorrowedBoxes - b.ReturnedBoxes
	if pending < 0 {
		return 0
	}
	return pending
}

func (b Borrowing) PendingSachets() int {
	pending := b.BorrowedSachets - b.ReturnedSachets
	if pending < 0 {
		return 0
	}
	return pending
}
