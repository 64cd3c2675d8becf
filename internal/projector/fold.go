package projector

import (
	"sort"

	"github.com/shopspring/decimal"

	"trastienda/internal/domain"
)

// Snapshot is the derived inventory state of one product.
type Snapshot struct {
	Boxes               int
	Sachets             int
	WeightedAverageCost decimal.Decimal
}

// Fold rebuilds a product's derived state from its full transaction history.
// It starts from base and replays every transaction in creation order,
// returning the resulting snapshot. Base carries stock the transaction
// stream never recorded: borrowed inventory enters at zero cost, so it seeds
// the quantities without entering the weighted-average blend. Shortfalls are
// ignored here: the loan records they produced are standalone bookkeeping.
//
// The fold is pure and idempotent, which makes it the only safe way to undo
// a deletion: weighted-average cost is not reversible by subtraction once
// later purchases have blended into it.
func Fold(seed domain.Product, base Snapshot, txs []domain.Transaction) Snapshot {
	ordered := make([]domain.Transaction, len(txs))
	copy(ordered, txs)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	p := seed
	p.StockBoxes = base.Boxes
	p.MarketingStock = base.Sachets
	p.WeightedAverageCost = base.WeightedAverageCost

	for _, t := range ordered {
		eff, err := Apply(p, t)
		if err != nil {
			// A historical row that no longer validates contributes nothing;
			// it cannot be allowed to sink the whole rebuild.
			continue
		}
		p.StockBoxes += eff.BoxesDelta
		p.MarketingStock += eff.SachetsDelta
		if p.StockBoxes < 0 {
			p.StockBoxes = 0
		}
		if p.MarketingStock < 0 {
			p.MarketingStock = 0
		}
		if eff.CostChanged {
			p.WeightedAverageCost = eff.NewCost
		}
	}

	return Snapshot{
		Boxes:               p.StockBoxes,
		Sachets:             p.MarketingStock,
		WeightedAverageCost: p.WeightedAverageCost,
	}
}
