package borrowing

import (
	"time"

	"github.com/shopspring/decimal"

	"trastienda/internal/domain"
)

type ReceiveRequest struct {
	Product         string           `json:"product"`
	ListPrice       *decimal.Decimal `json:"listPrice,omitempty"`
	PartnerName     string           `json:"partnerName"`
	PartnerPhone    *string          `json:"partnerPhone,omitempty"`
	QuantityBoxes   int              `json:"quantityBoxes"`
	QuantitySachets int              `json:"quantitySachets"`
	DueDate         *time.Time       `json:"dueDate,omitempty"`
}

type ReturnRequest struct {
	QuantityBoxes   int `json:"quantityBoxes"`
	QuantitySachets int `json:"quantitySachets"`
}

type BorrowingDTO struct {
	ID              int64      `json:"id"`
	ProductID       int64      `json:"productId"`
	PartnerName     string     `json:"partnerName"`
	PartnerPhone    *string    `json:"partnerPhone,omitempty"`
	BorrowedBoxes   int        `json:"borrowedBoxes"`
	BorrowedSachets int        `json:"borrowedSachets"`
	ReturnedBoxes   int        `json:"returnedBoxes"`
	ReturnedSachets int        `json:"returnedSachets"`
	PendingBoxes    int        `json:"pendingBoxes"`
	PendingSachets  int        `json:"pendingSachets"`
	Status          string     `json:"status"`
	DueDate         *time.Time `json:"dueDate,omitempty"`
	ReturnedAt      *time.Time `json:"returnedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

type ListResponse struct {
	Borrowings []BorrowingDTO `json:"borrowings"`
}

func toBorrowingDTO(b domain.Borrowing) BorrowingDTO {
	return BorrowingDTO{
		ID:              b.ID,
		ProductID:       b.ProductID,
		PartnerName:     b.PartnerName,
		PartnerPhone:    b.PartnerPhone,
		BorrowedBoxes:   b.BorrowedBoxes,
		BorrowedSachets: b.BorrowedSachets,
		ReturnedBoxes:   b.ReturnedBoxes,
		ReturnedSachets: b.ReturnedSachets,
		PendingBoxes:    b.PendingBoxes(),
		PendingSachets:  b.PendingSachets(),
		Status:          b.Status(),
		DueDate:         b.DueDate,
		ReturnedAt:      b.ReturnedAt,
		CreatedAt:       b.CreatedAt,
	}
}
