package in_memory

import (
	"context"
	"sync"

	"github.com/sakshammaggu/Algorithmic-Trading/internal/domain"
	"github.com/sakshammaggu/Algorithmic-Trading/internal/port"
)

// Journal keeps the trade history in memory, indexed by participant.
type Journal struct {
	mu     sync.Mutex
	trades []*domain.Trade
	byUser map[string][]*domain.Trade
}

var _ port.TradeJournal = (*Journal)(nil)

func NewJournal() *Journal {
	return &Journal{byUser: make(map[string][]*domain.Trade)}
}

func (j *Journal) Append(ctx context.Context, t *domain.Trade) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	cp := *t
	j.trades = append(j.trades, &cp)
	j.byUser[t.Buyer] = append(j.byUser[t.Buyer], &cp)
	if t.Seller != t.Buyer {
		j.byUser[t.Seller] = append(j.byUser[t.Seller], &cp)
	}
	return nil
}

func (j *Journal) Trades(ctx context.Context) ([]*domain.Trade, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return copyTrades(j.trades), nil
}

func (j *Journal) TradesFor(ctx context.Context, user string) ([]*domain.Trade, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return copyTrades(j.byUser[user]), nil
}

func copyTrades(in []*domain.Trade) []*domain.Trade {
	out := make([]*domain.Trade, len(in))
	for i, t := range in {
		cp := *t
		out[i] = &cp
	}
	return out
}
