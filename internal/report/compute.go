package report

import (
	"github.com/shopspring/decimal"

	"trastienda/internal/domain"
)

// Report is the profitability summary several dashboard panels read from.
// realExpense counts purchases at what was actually paid; inventoryValue
// counts stock at list price. The gap between those two bases is the
// "potential profit" the user sees.
type Report struct {
	RealIncome               decimal.Decimal `json:"realIncome"`
	RealExpense              decimal.Decimal `json:"realExpense"`
	NetProfit                decimal.Decimal `json:"netProfit"`
	InventoryValue           decimal.Decimal `json:"inventoryValue"`
	ProjectedProfitIfSellAll decimal.Decimal `json:"projectedProfitIfSellAll"`
	AdvertisingSpend         decimal.Decimal `json:"advertisingSpend"`
	ProgramPayments          decimal.Decimal `json:"programPayments"`
	OutstandingLoanBoxes     int             `json:"outstandingLoanBoxes"`
	OutstandingLoanSachets   int             `json:"outstandingLoanSachets"`
	PendingBorrowings        int             `json:"pendingBorrowings"`
}

// Compute folds the full ledger and current catalog into the profitability
// figures. It is pure and total: nil slices and a zero payment sum degrade
// to partial results, they never fail the report.
func Compute(
	txs []domain.Transaction,
	products []domain.Product,
	loans []domain.Loan,
	borrowings []domain.Borrowing,
	programPayments decimal.Decimal,
) Report {
	r := Report{
		RealIncome:       decimal.Zero,
		RealExpense:      decimal.Zero,
		AdvertisingSpend: decimal.Zero,
		InventoryValue:   decimal.Zero,
		ProgramPayments:  programPayments,
	}

	for _, t := range txs {
		switch t.Type {
		case domain.TypeSale:
			r.RealIncome = r.RealIncome.Add(t.TotalAmount)
		case domain.TypePurchase:
			if !t.IsGift {
				r.RealExpense = r.RealExpense.Add(t.TotalAmount)
			}
		case domain.TypeAdvertising:
			r.RealExpense = r.RealExpense.Add(t.TotalAmount)
			r.AdvertisingSpend = r.AdvertisingSpend.Add(t.TotalAmount)
		case domain.TypePersonalConsumption, domain.TypeMarketingSample, domain.TypeLoan:
			r.RealExpense = r.RealExpense.Add(t.TotalAmount)
		}
	}

	r.RealIncome = r.RealIncome.Add(programPayments)
	r.NetProfit = r.RealIncome.Sub(r.RealExpense)

	for _, p := range products {
		r.InventoryValue = r.InventoryValue.Add(p.InventoryValue())
	}

	r.ProjectedProfitIfSellAll = r.InventoryValue.Sub(r.RealExpense).Add(programPayments)

	for _, l := range loans {
		r.OutstandingLoanBoxes += l.QuantityBoxes
		r.OutstandingLoanSachets += l.QuantitySachets
	}

	for _, b := range borrowings {
		if b.Status() != domain.BorrowingStatusReturned {
			r.PendingBorrowings++
		}
	}

	return r
}
