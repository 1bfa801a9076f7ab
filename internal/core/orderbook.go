package core

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sakshammaggu/Algorithmic-Trading/internal/domain"
)

// settleFunc applies one trade across buyer and seller, returning the trade ID.
// An error refuses the trade and leaves the resting order untouched.
type settleFunc func(buyer, seller string, price decimal.Decimal, qty int64) (string, error)

// OrderBook holds the resting bids and asks for a single instrument and runs
// the price-time priority matching walk. It has no notion of balances;
// settlement is delegated to the caller through settleFunc.
type OrderBook struct {
	bids []*domain.Order
	asks []*domain.Order

	// per-side sequence numbers, assigned when an order rests
	bidSeq uint64
	askSeq uint64

	now func() time.Time
}

func NewOrderBook() *OrderBook {
	return &OrderBook{now: time.Now}
}

// Submit matches an incoming order against the opposite side and rests any
// remainder. maxIters bounds the number of resting orders visited in one walk;
// zero means unbounded. Fills execute at the resting order's price.
func (b *OrderBook) Submit(owner string, side domain.Side, price decimal.Decimal, qty int64, maxIters int, settle settleFunc) domain.MatchOutcome {
	opposite := &b.asks
	marketable := func(resting decimal.Decimal) bool { return price.GreaterThanOrEqual(resting) }
	if side == domain.Ask {
		opposite = &b.bids
		marketable = func(resting decimal.Decimal) bool { return price.LessThanOrEqual(resting) }
	}

	// new resting orders may have arrived since the last pass
	b.sortSide(*opposite)

	remaining := qty
	var fills []domain.Fill
	iters := 0
	i := 0
	for i < len(*opposite) && remaining > 0 {
		if maxIters > 0 && iters >= maxIters {
			break
		}
		iters++

		resting := (*opposite)[i]
		if !marketable(resting.Price) {
			// price ordered from the best level, nothing further matches
			break
		}

		fillQty := remaining
		if resting.Quantity < fillQty {
			fillQty = resting.Quantity
		}

		buyer, seller := owner, resting.Owner
		if side == domain.Ask {
			buyer, seller = resting.Owner, owner
		}
		tradeID, err := settle(buyer, seller, resting.Price, fillQty)
		if err != nil {
			// refused trade: resting order stays in place, keep walking
			i++
			continue
		}

		fills = append(fills, domain.Fill{
			TradeID:      tradeID,
			Counterparty: resting.Owner,
			Price:        resting.Price,
			Quantity:     fillQty,
		})
		remaining -= fillQty
		resting.Quantity -= fillQty
		if resting.Quantity == 0 {
			*opposite = append((*opposite)[:i], (*opposite)[i+1:]...)
		} else {
			i++
		}
	}

	outcome := domain.MatchOutcome{Fills: fills, Remaining: remaining}
	switch {
	case remaining == 0:
		outcome.Status = domain.Filled
	case len(fills) > 0:
		outcome.Status = domain.PartiallyFilled
	default:
		outcome.Status = domain.Rested
	}
	if remaining > 0 {
		outcome.RestingOrderID = b.rest(owner, side, price, remaining)
	}
	return outcome
}

// rest inserts the remainder as a new resting order with a fresh per-side
// sequence number.
func (b *OrderBook) rest(owner string, side domain.Side, price decimal.Decimal, qty int64) string {
	o := &domain.Order{
		ID:        uuid.NewString(),
		Owner:     owner,
		Side:      side,
		Price:     price,
		Quantity:  qty,
		CreatedAt: b.now(),
	}
	if side == domain.Bid {
		b.bidSeq++
		o.Sequence = b.bidSeq
		b.bids = append(b.bids, o)
	} else {
		b.askSeq++
		o.Sequence = b.askSeq
		b.asks = append(b.asks, o)
	}
	return o.ID
}

// Cancel removes or shrinks the first resting order on side matching
// (owner, price). A request exceeding the resting quantity fails without
// mutation.
func (b *OrderBook) Cancel(owner string, side domain.Side, price decimal.Decimal, qty int64) error {
	orders := &b.bids
	if side == domain.Ask {
		orders = &b.asks
	}
	for i, o := range *orders {
		if o.Owner != owner || !o.Price.Equal(price) {
			continue
		}
		switch {
		case o.Quantity == qty:
			*orders = append((*orders)[:i], (*orders)[i+1:]...)
			return nil
		case o.Quantity > qty:
			o.Quantity -= qty
			return nil
		default:
			return fmt.Errorf("resting quantity is %d: %w", o.Quantity, domain.ErrInsufficientQuantity)
		}
	}
	return domain.ErrOrderNotFound
}

// Quote prices qty against the ask side in price-time order, merging
// consecutive orders at the same price into one level. The final level may be
// partially consumed. The book is not mutated.
func (b *OrderBook) Quote(qty int64) []domain.QuoteLevel {
	asks := make([]*domain.Order, len(b.asks))
	copy(asks, b.asks)
	sort.SliceStable(asks, func(i, j int) bool {
		if asks[i].Price.Equal(asks[j].Price) {
			return asks[i].Sequence < asks[j].Sequence
		}
		return asks[i].Price.LessThan(asks[j].Price)
	})

	var levels []domain.QuoteLevel
	remaining := qty
	for _, o := range asks {
		if remaining <= 0 {
			break
		}
		take := o.Quantity
		if take > remaining {
			take = remaining
		}
		if n := len(levels); n > 0 && levels[n-1].Price.Equal(o.Price) {
			levels[n-1].Quantity += take
		} else {
			levels = append(levels, domain.QuoteLevel{Price: o.Price, Quantity: take})
		}
		remaining -= take
	}
	return levels
}

// Depth copies both sides for display, each sorted by descending price. The
// resting orders and their sequence numbers are untouched.
func (b *OrderBook) Depth() domain.DepthSnapshot {
	snap := domain.DepthSnapshot{
		Bids:      copyOrders(b.bids),
		Asks:      copyOrders(b.asks),
		Timestamp: b.now(),
	}
	sortForDisplay(snap.Bids)
	sortForDisplay(snap.Asks)
	return snap
}

// sortSide orders a side best-price-first: bids descending, asks ascending,
// ties broken by per-side sequence (earlier first).
func (b *OrderBook) sortSide(orders []*domain.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].Price.Equal(orders[j].Price) {
			return orders[i].Sequence < orders[j].Sequence
		}
		if orders[i].Side == domain.Bid {
			return orders[i].Price.GreaterThan(orders[j].Price)
		}
		return orders[i].Price.LessThan(orders[j].Price)
	})
}

func copyOrders(in []*domain.Order) []domain.Order {
	out := make([]domain.Order, len(in))
	for i, o := range in {
		out[i] = *o
	}
	return out
}

func sortForDisplay(orders []domain.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].Price.Equal(orders[j].Price) {
			return orders[i].Sequence < orders[j].Sequence
		}
		return orders[i].Price.GreaterThan(orders[j].Price)
	})
}
