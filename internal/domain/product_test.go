package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestProduct_SachetsPerBoxOrDefault(t *testing.T) {
	p := Product{SachetsPerBox: 30}
	assert.Equal(t, 30, p.SachetsPerBoxOrDefault())

	p = Product{}
	assert.Equal(t, DefaultSachetsPerBox, p.SachetsPerBoxOrDefault())

	p = Product{SachetsPerBox: -1}
	assert.Equal(t, DefaultSachetsPerBox, p.SachetsPerBoxOrDefault())
}

func TestProduct_InventoryValue(t *testing.T) {
	p := Product{
		ListPrice:  decimal.NewFromInt(45000),
		StockBoxes: 3,
	}

	assert.True(t, p.InventoryValue().Equal(decimal.NewFromInt(135000)))
}

func TestProduct_InventoryValue_EmptyStock(t *testing.T) {
	p := Product{ListPrice: decimal.NewFromInt(45000)}
	assert.True(t, p.InventoryValue().IsZero())
}
