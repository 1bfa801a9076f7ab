package core

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/sakshammaggu/Algorithmic-Trading/internal/domain"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// okSettle approves every trade and hands out sequential trade IDs.
func okSettle() settleFunc {
	n := 0
	return func(buyer, seller string, price decimal.Decimal, qty int64) (string, error) {
		n++
		return fmt.Sprintf("trade-%d", n), nil
	}
}

// refuseSeller wraps a settleFunc and refuses any trade where seller matches.
func refuseSeller(seller string, inner settleFunc) settleFunc {
	return func(b, s string, price decimal.Decimal, qty int64) (string, error) {
		if s == seller {
			return "", fmt.Errorf("seller %q refused", s)
		}
		return inner(b, s, price, qty)
	}
}

func restAsk(t *testing.T, b *OrderBook, owner, price string, qty int64) {
	t.Helper()
	out := b.Submit(owner, domain.Ask, d(price), qty, 0, okSettle())
	require.Equal(t, domain.Rested, out.Status)
}

func restBid(t *testing.T, b *OrderBook, owner, price string, qty int64) {
	t.Helper()
	out := b.Submit(owner, domain.Bid, d(price), qty, 0, okSettle())
	require.Equal(t, domain.Rested, out.Status)
}

func TestPricePriority(t *testing.T) {
	b := NewOrderBook()
	restAsk(t, b, "mm1", "101", 1)
	restAsk(t, b, "mm2", "100", 1)
	restAsk(t, b, "mm3", "102", 1)

	out := b.Submit("taker", domain.Bid, d("105"), 1, 0, okSettle())
	require.Equal(t, domain.Filled, out.Status)
	require.Len(t, out.Fills, 1)
	require.True(t, out.Fills[0].Price.Equal(d("100")), "best ask first, got %s", out.Fills[0].Price)
	require.Equal(t, "mm2", out.Fills[0].Counterparty)
}

func TestTimePriority(t *testing.T) {
	b := NewOrderBook()
	restAsk(t, b, "first", "100", 3)
	restAsk(t, b, "second", "100", 3)

	out := b.Submit("taker", domain.Bid, d("100"), 4, 0, okSettle())
	require.Equal(t, domain.Filled, out.Status)
	require.Len(t, out.Fills, 2)
	require.Equal(t, "first", out.Fills[0].Counterparty)
	require.Equal(t, int64(3), out.Fills[0].Quantity)
	require.Equal(t, "second", out.Fills[1].Counterparty)
	require.Equal(t, int64(1), out.Fills[1].Quantity)

	depth := b.Depth()
	require.Len(t, depth.Asks, 1)
	require.Equal(t, "second", depth.Asks[0].Owner)
	require.Equal(t, int64(2), depth.Asks[0].Quantity)
}

func TestTradesExecuteAtRestingPrice(t *testing.T) {
	b := NewOrderBook()
	restAsk(t, b, "maker", "50", 10)

	var gotPrice decimal.Decimal
	settle := func(buyer, seller string, price decimal.Decimal, qty int64) (string, error) {
		gotPrice = price
		return "t1", nil
	}
	out := b.Submit("taker", domain.Bid, d("55"), 10, 0, settle)
	require.Equal(t, domain.Filled, out.Status)
	require.True(t, gotPrice.Equal(d("50")), "aggressor limit must not leak into the fill")
}

func TestPartialFillRestsRemainder(t *testing.T) {
	b := NewOrderBook()
	restAsk(t, b, "maker", "50", 4)

	out := b.Submit("taker", domain.Bid, d("50"), 10, 0, okSettle())
	require.Equal(t, domain.PartiallyFilled, out.Status)
	require.Equal(t, int64(6), out.Remaining)
	require.NotEmpty(t, out.RestingOrderID)

	depth := b.Depth()
	require.Empty(t, depth.Asks)
	require.Len(t, depth.Bids, 1)
	require.Equal(t, int64(6), depth.Bids[0].Quantity)
	require.Equal(t, out.RestingOrderID, depth.Bids[0].ID)
}

func TestAskSideMirrors(t *testing.T) {
	b := NewOrderBook()
	restBid(t, b, "mm1", "98", 2)
	restBid(t, b, "mm2", "99", 2)

	out := b.Submit("taker", domain.Ask, d("98"), 3, 0, okSettle())
	require.Equal(t, domain.Filled, out.Status)
	require.Len(t, out.Fills, 2)
	require.True(t, out.Fills[0].Price.Equal(d("99")), "highest bid first")
	require.Equal(t, "mm2", out.Fills[0].Counterparty)
	require.Equal(t, int64(1), out.Fills[1].Quantity)
}

func TestNonMarketableRestsWhole(t *testing.T) {
	b := NewOrderBook()
	restAsk(t, b, "maker", "60", 5)

	out := b.Submit("taker", domain.Bid, d("55"), 5, 0, okSettle())
	require.Equal(t, domain.Rested, out.Status)
	require.Empty(t, out.Fills)
	require.Equal(t, int64(5), out.Remaining)

	depth := b.Depth()
	require.Len(t, depth.Asks, 1)
	require.Len(t, depth.Bids, 1)
}

func TestSequencesAreStrictlyIncreasingPerSide(t *testing.T) {
	b := NewOrderBook()
	restBid(t, b, "a", "10", 1)
	restAsk(t, b, "a", "20", 1)
	restBid(t, b, "a", "11", 1)

	depth := b.Depth()
	require.Equal(t, uint64(1), depth.Asks[0].Sequence, "ask numbering is separate")
	seqs := []uint64{depth.Bids[0].Sequence, depth.Bids[1].Sequence}
	require.ElementsMatch(t, []uint64{1, 2}, seqs)
}

func TestCancelRemovesExactQuantity(t *testing.T) {
	b := NewOrderBook()
	restBid(t, b, "alice", "50", 5)

	require.NoError(t, b.Cancel("alice", domain.Bid, d("50"), 5))
	require.Empty(t, b.Depth().Bids)
}

func TestCancelShrinksLargerOrder(t *testing.T) {
	b := NewOrderBook()
	restAsk(t, b, "alice", "50", 8)

	require.NoError(t, b.Cancel("alice", domain.Ask, d("50"), 3))
	depth := b.Depth()
	require.Len(t, depth.Asks, 1)
	require.Equal(t, int64(5), depth.Asks[0].Quantity)
}

func TestCancelMoreThanRestingFails(t *testing.T) {
	b := NewOrderBook()
	restBid(t, b, "alice", "50", 5)

	err := b.Cancel("alice", domain.Bid, d("50"), 8)
	require.ErrorIs(t, err, domain.ErrInsufficientQuantity)

	depth := b.Depth()
	require.Len(t, depth.Bids, 1)
	require.Equal(t, int64(5), depth.Bids[0].Quantity, "failed cancel must not mutate")
}

func TestCancelMissingOrder(t *testing.T) {
	b := NewOrderBook()
	restBid(t, b, "alice", "50", 5)

	require.ErrorIs(t, b.Cancel("bob", domain.Bid, d("50"), 5), domain.ErrOrderNotFound)
	require.ErrorIs(t, b.Cancel("alice", domain.Ask, d("50"), 5), domain.ErrOrderNotFound)
	require.ErrorIs(t, b.Cancel("alice", domain.Bid, d("51"), 5), domain.ErrOrderNotFound)
}

func TestCancelDuplicateTupleAffectsOneOrder(t *testing.T) {
	b := NewOrderBook()
	restAsk(t, b, "alice", "50", 5)
	restAsk(t, b, "alice", "50", 5)

	require.NoError(t, b.Cancel("alice", domain.Ask, d("50"), 5))
	depth := b.Depth()
	require.Len(t, depth.Asks, 1)
	require.Equal(t, int64(5), depth.Asks[0].Quantity)
}

func TestQuoteMergesPriceLevels(t *testing.T) {
	b := NewOrderBook()
	restAsk(t, b, "a", "50", 3)
	restAsk(t, b, "b", "50", 2)
	restAsk(t, b, "c", "55", 5)

	levels := b.Quote(7)
	require.Len(t, levels, 2)
	require.True(t, levels[0].Price.Equal(d("50")))
	require.Equal(t, int64(5), levels[0].Quantity)
	require.True(t, levels[1].Price.Equal(d("55")))
	require.Equal(t, int64(2), levels[1].Quantity, "final level only partially consumed")
}

func TestQuoteExhaustsBook(t *testing.T) {
	b := NewOrderBook()
	restAsk(t, b, "a", "50", 3)

	levels := b.Quote(10)
	require.Len(t, levels, 1)
	require.Equal(t, int64(3), levels[0].Quantity)
	require.Equal(t, levels, b.Quote(10), "quote is read-only")
	require.Len(t, b.Depth().Asks, 1)
}

func TestQuoteDoesNotMutateBook(t *testing.T) {
	b := NewOrderBook()
	restAsk(t, b, "a", "52", 4)
	restAsk(t, b, "b", "50", 4)

	before := b.Depth()
	_ = b.Quote(6)
	after := b.Depth()
	after.Timestamp = before.Timestamp
	require.Equal(t, before, after)
}

func TestDepthIdempotentAndSorted(t *testing.T) {
	b := NewOrderBook()
	restBid(t, b, "a", "105", 10)
	restBid(t, b, "b", "108", 10)
	restAsk(t, b, "a", "115", 5)
	restAsk(t, b, "b", "119", 12)

	first := b.Depth()
	second := b.Depth()
	second.Timestamp = first.Timestamp
	require.Equal(t, first, second)

	require.True(t, first.Bids[0].Price.Equal(d("108")), "descending price")
	require.True(t, first.Asks[0].Price.Equal(d("119")), "descending price")
}

func TestRefusedSettlementLeavesOrderInPlace(t *testing.T) {
	b := NewOrderBook()
	restAsk(t, b, "broke", "50", 5)
	restAsk(t, b, "solvent", "51", 5)

	out := b.Submit("taker", domain.Bid, d("55"), 5, 0, refuseSeller("broke", okSettle()))
	require.Equal(t, domain.Filled, out.Status)
	require.Len(t, out.Fills, 1)
	require.Equal(t, "solvent", out.Fills[0].Counterparty)

	depth := b.Depth()
	require.Len(t, depth.Asks, 1)
	require.Equal(t, "broke", depth.Asks[0].Owner)
	require.Equal(t, int64(5), depth.Asks[0].Quantity)
}

func TestIterationCapRestsRemainder(t *testing.T) {
	b := NewOrderBook()
	restAsk(t, b, "a", "50", 1)
	restAsk(t, b, "b", "50", 1)
	restAsk(t, b, "c", "50", 1)

	out := b.Submit("taker", domain.Bid, d("50"), 3, 2, okSettle())
	require.Equal(t, domain.PartiallyFilled, out.Status)
	require.Len(t, out.Fills, 2)
	require.Equal(t, int64(1), out.Remaining)
	require.NotEmpty(t, out.RestingOrderID)
	require.Len(t, b.Depth().Asks, 1)
	require.Len(t, b.Depth().Bids, 1)
}
