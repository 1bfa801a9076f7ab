package account

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sakshammaggu/Algorithmic-Trading/internal/domain"
)

// Registry is the user directory: username -> Ledger. A user must be
// registered before the exchange accepts orders or deposits for them.
type Registry struct {
	users map[string]*Ledger
}

func NewRegistry() *Registry {
	return &Registry{users: make(map[string]*Ledger)}
}

// Register creates a user with all balances at zero.
func (r *Registry) Register(username string) error {
	if _, ok := r.users[username]; ok {
		return fmt.Errorf("register %q: %w", username, domain.ErrUserAlreadyExists)
	}
	r.users[username] = NewLedger()
	return nil
}

// Lookup returns the user's Ledger.
func (r *Registry) Lookup(username string) (*Ledger, error) {
	l, ok := r.users[username]
	if !ok {
		return nil, fmt.Errorf("lookup %q: %w", username, domain.ErrUserNotFound)
	}
	return l, nil
}

// Deposit adds amount of symbol to the user's Ledger.
func (r *Registry) Deposit(username, symbol string, amount decimal.Decimal) error {
	l, err := r.Lookup(username)
	if err != nil {
		return err
	}
	l.Deposit(symbol, amount)
	return nil
}

// Balances returns a copy of the user's balances.
func (r *Registry) Balances(username string) (map[string]decimal.Decimal, error) {
	l, err := r.Lookup(username)
	if err != nil {
		return nil, err
	}
	return l.Snapshot(), nil
}
