package report

import "github.com/shopspring/decimal"

type AddPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Notes  string          `json:"notes,omitempty"`
}

type InventoryEntry struct {
	Boxes               int             `json:"boxes"`
	Sachets             int             `json:"sachets"`
	WeightedAverageCost decimal.Decimal `json:"weightedAverageCost"`
}

type InventoryResponse struct {
	Inventory map[string]InventoryEntry `json:"inventory"`
}
