// Package projector turns one transaction plus the current product state
// into an inventory delta and, for inbound stock, a new weighted-average
// cost. It is pure: callers apply the resulting Effect to the store.
package projector

import (
	"fmt"

	"github.com/shopspring/decimal"

	"trastienda/internal/domain"
	"trastienda/internal/errors"
)

// costScale is the decimal precision of stored amounts and unit costs.
const costScale = 2

// Effect is what a single transaction does to its product. Deltas are signed;
// shortfalls are the outflow portion not backed by stock, to be recorded in
// the loan ledger instead of driving inventory negative.
type Effect struct {
	BoxesDelta       int
	SachetsDelta     int
	NewCost          decimal.Decimal
	CostChanged      bool
	ShortfallBoxes   int
	ShortfallSachets int
}

// Apply computes the effect of t on p. The product state must be the
// pre-update state: the weighted-average blend uses the stock held before
// the purchase lands.
func Apply(p domain.Product, t domain.Transaction) (Effect, error) {
	switch t.Type {
	case domain.TypeAdvertising, domain.TypeLoanRepayment:
		// Advertising never touches stock; repayment settles the loan
		// ledger, not inventory.
		return Effect{}, nil

	case domain.TypePurchase:
		if t.QuantityBoxes <= 0 {
			return Effect{}, errors.NewValidationError("purchase quantity must be positive", errors.ValidationDetail{
				Field:   "quantityBoxes",
				Message: "quantityBoxes must be a positive integer",
			})
		}
		eff := Effect{BoxesDelta: t.QuantityBoxes}
		if t.IsGift {
			// Gifts add sellable stock but are excluded from the blend
			// entirely; their value is surfaced at list price in reports.
			return eff, nil
		}
		if t.TotalAmount.IsNegative() {
			return Effect{}, errors.NewValidationError("purchase amount must not be negative", errors.ValidationDetail{
				Field:   "totalAmount",
				Message: "totalAmount must be >= 0 for a purchase",
			})
		}
		eff.NewCost = blendCost(p, t.QuantityBoxes, t.TotalAmount)
		eff.CostChanged = true
		return eff, nil

	case domain.TypeSale, domain.TypePersonalConsumption, domain.TypeMarketingSample, domain.TypeLoan:
		if t.QuantityBoxes <= 0 && t.QuantitySachets <= 0 {
			return Effect{}, errors.NewValidationError("outflow quantity must be positive", errors.ValidationDetail{
				Field:   "quantityBoxes",
				Message: "at least one of quantityBoxes or quantitySachets must be positive",
			})
		}
		var eff Effect
		if t.QuantityBoxes > 0 {
			applied := min(t.QuantityBoxes, p.StockBoxes)
			eff.BoxesDelta = -applied
			eff.ShortfallBoxes = t.QuantityBoxes - applied
		}
		if t.QuantitySachets > 0 {
			applied := min(t.QuantitySachets, p.MarketingStock)
			eff.SachetsDelta = -applied
			eff.ShortfallSachets = t.QuantitySachets - applied
		}
		return eff, nil

	case domain.TypeBoxOpening:
		if t.QuantityBoxes <= 0 {
			return Effect{}, errors.NewValidationError("box opening quantity must be positive", errors.ValidationDetail{
				Field:   "quantityBoxes",
				Message: "quantityBoxes must be a positive integer",
			})
		}
		// Only boxes actually held can be opened; overdraw converts nothing
		// extra and creates no loan.
		opened := min(t.QuantityBoxes, p.StockBoxes)
		return Effect{
			BoxesDelta:   -opened,
			SachetsDelta: opened * p.SachetsPerBoxOrDefault(),
		}, nil
	}

	return Effect{}, fmt.Errorf("unhandled transaction type %q", t.Type)
}

// blendCost recomputes the weighted-average unit cost for a non-gift
// purchase of qty boxes at total cost amount, using pre-update stock.
func blendCost(p domain.Product, qty int, amount decimal.Decimal) decimal.Decimal {
	q := decimal.NewFromInt(int64(qty))
	if p.StockBoxes <= 0 || p.WeightedAverageCost.IsZero() {
		return amount.DivRound(q, costScale)
	}
	stock := decimal.NewFromInt(int64(p.StockBoxes))
	total := stock.Mul(p.WeightedAverageCost).Add(amount)
	return total.DivRound(stock.Add(q), costScale)
}
