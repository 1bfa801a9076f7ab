package account

import "github.com/shopspring/decimal"

// Ledger tracks one user's balances per asset symbol. Reads never create
// entries; only Deposit, Credit and Debit mutate. A Ledger is not safe for
// concurrent use on its own — the exchange serializes access.
type Ledger struct {
	balances map[string]decimal.Decimal
}

func NewLedger() *Ledger {
	return &Ledger{balances: make(map[string]decimal.Decimal)}
}

// BalanceOf returns the stored balance for symbol, or zero if the symbol was
// never touched.
func (l *Ledger) BalanceOf(symbol string) decimal.Decimal {
	return l.balances[symbol]
}

// Deposit adds amount to the symbol's balance, creating the entry at zero if
// absent.
func (l *Ledger) Deposit(symbol string, amount decimal.Decimal) {
	l.Credit(symbol, amount)
}

// Credit increases the symbol's balance by amount.
func (l *Ledger) Credit(symbol string, amount decimal.Decimal) {
	l.balances[symbol] = l.balances[symbol].Add(amount)
}

// Debit decreases the symbol's balance by amount. It refuses, without
// mutating, when the balance does not cover the amount.
func (l *Ledger) Debit(symbol string, amount decimal.Decimal) bool {
	bal := l.balances[symbol]
	if bal.LessThan(amount) {
		return false
	}
	l.balances[symbol] = bal.Sub(amount)
	return true
}

// Snapshot returns a copy of all balances.
func (l *Ledger) Snapshot() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(l.balances))
	for sym, bal := range l.balances {
		out[sym] = bal
	}
	return out
}
