package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TypePurchase            TransactionType = "purchase"
	TypeSale                TransactionType = "sale"
	TypePersonalConsumption TransactionType = "personal_consumption"
	TypeMarketingSample     TransactionType = "marketing_sample"
	TypeBoxOpening          TransactionType = "box_opening"
	TypeLoan                TransactionType = "loan"
	TypeLoanRepayment       TransactionType = "loan_repayment"
	TypeAdvertising         TransactionType = "advertising"
)

// typeAliases maps the legacy tags still present in old rows to their
// canonical type. Normalization happens once at the boundary; the engine only
// ever sees canonical tags.
var typeAliases = map[string]TransactionType{
	"compra":         TypePurchase,
	"venta":          TypeSale,
	"consumo":        TypePersonalConsumption,
	"muestra":        TypeMarketingSample,
	"apertura":       TypeBoxOpening,
	"prestamo":       TypeLoan,
	"abono_prestamo": TypeLoanRepayment,
	"publicidad":     TypeAdvertising,
}

func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(s) {
	case TypePurchase, TypeSale, TypePersonalConsumption, TypeMarketingSample,
		TypeBoxOpening, TypeLoan, TypeLoanRepayment, TypeAdvertising:
		return TransactionType(s), nil
	}
	if canonical, ok := typeAliases[s]; ok {
		return canonical, nil
	}
	return "", fmt.Errorf("unknown transaction type %q", s)
}

// IsOutflow reports whether the type removes sellable stock and can therefore
// spill a shortfall into the loan ledger.
func (t TransactionType) IsOutflow() bool {
	switch t {
	case TypeSale, TypePersonalConsumption, TypeMarketingSample, TypeLoan:
		return true
	}
	return false
}

func (t TransactionType) AffectsInventory() bool {
	switch t {
	case TypePurchase, TypeBoxOpening:
		return true
	}
	return t.IsOutflow()
}

// RequiresProduct is false only for pure advertising spend.
func (t TransactionType) RequiresProduct() bool {
	return t != TypeAdvertising
}

type Transaction struct {
	ID              int64
	OwnerID         int
	ProductID       *int64
	Type            TransactionType
	QuantityBoxes   int
	QuantitySachets int
	TotalAmount     decimal.Decimal
	IsGift          bool
	Notes           string
	CustomerName    *string
	Campaign        *string
	Referrer        *string
	CreatedAt       time.Time
}
