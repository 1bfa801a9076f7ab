package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Trade struct {
	ID        string
	Buyer     string
	Seller    string
	Price     decimal.Decimal
	Quantity  int64
	Timestamp time.Time
}

// Notional is the settlement-currency value of the trade.
func (t *Trade) Notional() decimal.Decimal {
	return t.Price.Mul(decimal.NewFromInt(t.Quantity))
}
