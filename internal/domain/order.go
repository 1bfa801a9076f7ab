package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Side string

const (
	Bid Side = "BID"
	Ask Side = "ASK"
)

// Opposite returns the side an incoming order executes against.
func (s Side) Opposite() Side {
	if s == Bid {
		return Ask
	}
	return Bid
}

type OutcomeStatus string

const (
	// Filled means the incoming order executed in full.
	Filled OutcomeStatus = "FILLED"
	// PartiallyFilled means some quantity executed and the remainder rests.
	PartiallyFilled OutcomeStatus = "PARTIALLY_FILLED"
	// Rested means nothing executed and the whole order rests.
	Rested OutcomeStatus = "RESTED"
)

// Order is a resting intent in the book. Identity (ID, Owner, Side, Price,
// Sequence) is fixed at creation; Quantity shrinks as the order fills and the
// order is removed once it reaches zero.
type Order struct {
	ID        string
	Owner     string
	Side      Side
	Price     decimal.Decimal
	Quantity  int64
	Sequence  uint64
	CreatedAt time.Time
}

// Fill is one execution against a resting order, reported back to the
// submitter.
type Fill struct {
	TradeID      string
	Counterparty string
	Price        decimal.Decimal
	Quantity     int64
}

// MatchOutcome summarizes what happened to a submitted order.
type MatchOutcome struct {
	Status    OutcomeStatus
	Fills     []Fill
	Remaining int64
	// RestingOrderID identifies the resting remainder; empty when the order
	// filled completely.
	RestingOrderID string
}
