package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultSachetsPerBox is the conversion factor applied when a product was
// created without an explicit one.
const DefaultSachetsPerBox = 28

type Product struct {
	ID                  int64
	OwnerID             int
	Name                string
	ListPrice           decimal.Decimal
	WeightedAverageCost decimal.Decimal
	StockBoxes          int
	MarketingStock      int
	SachetsPerBox       int
	Points              int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (p Product) SachetsPerBoxOrDefault() int {
	if p.SachetsPerBox <= 0 {
		return DefaultSachetsPerBox
	}
	return p.SachetsPerBox
}

// InventoryValue values the sellable stock at list price, not at cost.
func (p Product) InventoryValue() decimal.Decimal {
	return p.ListPrice.Mul(decimal.NewFromInt(int64(p.StockBoxes)))
}
