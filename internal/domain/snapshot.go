package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DepthSnapshot is a read-only view of both sides of the book, each ordered by
// descending price.
type DepthSnapshot struct {
	Bids      []Order
	Asks      []Order
	Timestamp time.Time
}

// QuoteLevel is one price level consumed while pricing a quantity against the
// ask side.
type QuoteLevel struct {
	Price    decimal.Decimal
	Quantity int64
}
