package port

import (
	"context"

	"github.com/sakshammaggu/Algorithmic-Trading/internal/domain"
)

// TradeJournal records executed trades for audit and replay to callers.
type TradeJournal interface {
	Append(ctx context.Context, t *domain.Trade) error
	Trades(ctx context.Context) ([]*domain.Trade, error)
	TradesFor(ctx context.Context, user string) ([]*domain.Trade, error)
}
