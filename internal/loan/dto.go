package loan

import (
	"time"

	"trastienda/internal/domain"
)

type RepayRequest struct {
	ProductID       int64 `json:"productId"`
	QuantityBoxes   int   `json:"quantityBoxes"`
	QuantitySachets int   `json:"quantitySachets"`
}

type RepayResponse struct {
	UpdatedLoans []LoanDTO `json:"updatedLoans"`
	ClosedLoans  []int64   `json:"closedLoans"`
}

type LoanDTO struct {
	ID              int64     `json:"id"`
	ProductID       int64     `json:"productId"`
	QuantityBoxes   int       `json:"quantityBoxes"`
	QuantitySachets int       `json:"quantitySachets"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

type ListResponse struct {
	Loans []LoanDTO `json:"loans"`
}

func toLoanDTO(l domain.Loan) LoanDTO {
	return LoanDTO{
		ID:              l.ID,
		ProductID:       l.ProductID,
		QuantityBoxes:   l.QuantityBoxes,
		QuantitySachets: l.QuantitySachets,
		Notes:           l.Notes,
		CreatedAt:       l.CreatedAt,
	}
}
