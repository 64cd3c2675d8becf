package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type RecordTransactionRequest struct {
	Type            string           `json:"type"`
	Product         string           `json:"product,omitempty"`
	ListPrice       *decimal.Decimal `json:"listPrice,omitempty"`
	SachetsPerBox   int              `json:"sachetsPerBox,omitempty"`
	Points          int              `json:"points,omitempty"`
	QuantityBoxes   int              `json:"quantityBoxes"`
	QuantitySachets int              `json:"quantitySachets"`
	TotalAmount     decimal.Decimal  `json:"totalAmount"`
	IsGift          bool             `json:"isGift"`
	Notes           string           `json:"notes,omitempty"`
	CustomerName    *string          `json:"customerName,omitempty"`
	Campaign        *string          `json:"campaign,omitempty"`
	Referrer        *string          `json:"referrer,omitempty"`
}

type AmendAmountRequest struct {
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

type TransactionResponse struct {
	ID              int64           `json:"id"`
	OwnerID         int             `json:"ownerId"`
	ProductID       *int64          `json:"productId,omitempty"`
	Type            string          `json:"type"`
	QuantityBoxes   int             `json:"quantityBoxes"`
	QuantitySachets int             `json:"quantitySachets"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	IsGift          bool            `json:"isGift"`
	Notes           string          `json:"notes,omitempty"`
	CustomerName    *string         `json:"customerName,omitempty"`
	Campaign        *string         `json:"campaign,omitempty"`
	Referrer        *string         `json:"referrer,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}
