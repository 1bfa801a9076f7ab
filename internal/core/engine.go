package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sakshammaggu/Algorithmic-Trading/internal/account"
	"github.com/sakshammaggu/Algorithmic-Trading/internal/domain"
	"github.com/sakshammaggu/Algorithmic-Trading/internal/port"
)

// DefaultMaxMatchIterations bounds one matching walk against a pathological
// book; the remainder of a capped walk rests like any other.
const DefaultMaxMatchIterations = 10_000

// Config describes one exchange instance. Asset is the traded symbol,
// Currency the settlement currency.
type Config struct {
	Asset    string
	Currency string
	// MaxMatchIterations caps resting orders visited per submission;
	// 0 selects DefaultMaxMatchIterations, negative disables the cap.
	MaxMatchIterations int
	Logger             *zap.Logger
	Journal            port.TradeJournal
}

// Exchange is the single-instrument core: user registry, balance ledgers and
// the order book behind one exclusive section. Submissions and cancellations
// take the write lock so the book, registry and every touched ledger mutate as
// one atomic unit; queries take the read lock and return copies.
type Exchange struct {
	asset    string
	currency string
	maxIters int

	mu       sync.RWMutex
	registry *account.Registry
	book     *OrderBook

	journal port.TradeJournal
	log     *zap.Logger
	now     func() time.Time
}

func NewExchange(cfg Config) (*Exchange, error) {
	if cfg.Asset == "" || cfg.Currency == "" {
		return nil, fmt.Errorf("core: asset and currency symbols are required")
	}
	if cfg.Asset == cfg.Currency {
		return nil, fmt.Errorf("core: asset and currency must differ, got %q", cfg.Asset)
	}
	maxIters := cfg.MaxMatchIterations
	if maxIters == 0 {
		maxIters = DefaultMaxMatchIterations
	} else if maxIters < 0 {
		maxIters = 0
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Exchange{
		asset:    cfg.Asset,
		currency: cfg.Currency,
		maxIters: maxIters,
		registry: account.NewRegistry(),
		book:     NewOrderBook(),
		journal:  cfg.Journal,
		log:      log,
		now:      time.Now,
	}, nil
}

// Register creates a user with all balances at zero.
func (e *Exchange) Register(ctx context.Context, username string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.registry.Register(username); err != nil {
		return err
	}
	e.log.Info("user registered", zap.String("user", username))
	return nil
}

// Deposit adds amount of symbol to the user's ledger.
func (e *Exchange) Deposit(ctx context.Context, username, symbol string, amount decimal.Decimal) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.registry.Deposit(username, symbol, amount); err != nil {
		return err
	}
	e.log.Info("deposit",
		zap.String("user", username),
		zap.String("symbol", symbol),
		zap.String("amount", amount.String()))
	return nil
}

// SubmitBid places a buy order at limit price for qty units of the asset.
func (e *Exchange) SubmitBid(ctx context.Context, owner string, price decimal.Decimal, qty int64) (domain.MatchOutcome, error) {
	return e.submit(ctx, owner, domain.Bid, price, qty)
}

// SubmitAsk places a sell order at limit price for qty units of the asset.
func (e *Exchange) SubmitAsk(ctx context.Context, owner string, price decimal.Decimal, qty int64) (domain.MatchOutcome, error) {
	return e.submit(ctx, owner, domain.Ask, price, qty)
}

func (e *Exchange) submit(ctx context.Context, owner string, side domain.Side, price decimal.Decimal, qty int64) (domain.MatchOutcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ledger, err := e.registry.Lookup(owner)
	if err != nil {
		return domain.MatchOutcome{}, err
	}
	if qty <= 0 {
		return domain.MatchOutcome{}, fmt.Errorf("core: quantity must be positive, got %d", qty)
	}

	// Funds are checked once, against the full requested quantity. Every fill
	// executes at or below the limit (at or above for asks), so the upfront
	// bound covers the whole walk.
	if side == domain.Bid {
		need := price.Mul(decimal.NewFromInt(qty))
		if ledger.BalanceOf(e.currency).LessThan(need) {
			return domain.MatchOutcome{}, fmt.Errorf("bid needs %s %s: %w", need, e.currency, domain.ErrInsufficientFunds)
		}
	} else {
		if ledger.BalanceOf(e.asset).LessThan(decimal.NewFromInt(qty)) {
			return domain.MatchOutcome{}, fmt.Errorf("ask needs %d %s: %w", qty, e.asset, domain.ErrInsufficientFunds)
		}
	}

	outcome := e.book.Submit(owner, side, price, qty, e.maxIters, e.settle(ctx))
	e.log.Info("order processed",
		zap.String("owner", owner),
		zap.String("side", string(side)),
		zap.String("price", price.String()),
		zap.Int64("quantity", qty),
		zap.String("status", string(outcome.Status)),
		zap.Int("fills", len(outcome.Fills)),
		zap.Int64("remaining", outcome.Remaining))
	return outcome, nil
}

// settle returns the settleFunc the matching walk uses: debit the buyer's
// currency and the seller's asset, credit the reverse legs, journal the trade.
// If either debit is impossible the trade is refused with no mutation.
func (e *Exchange) settle(ctx context.Context) settleFunc {
	return func(buyer, seller string, price decimal.Decimal, qty int64) (string, error) {
		buyLedger, err := e.registry.Lookup(buyer)
		if err != nil {
			return "", err
		}
		sellLedger, err := e.registry.Lookup(seller)
		if err != nil {
			return "", err
		}

		notional := price.Mul(decimal.NewFromInt(qty))
		qtyDec := decimal.NewFromInt(qty)

		if !buyLedger.Debit(e.currency, notional) {
			e.log.Warn("trade refused: buyer short of settlement currency",
				zap.String("buyer", buyer),
				zap.String("notional", notional.String()))
			return "", fmt.Errorf("buyer %q short %s %s: %w", buyer, notional, e.currency, domain.ErrInsufficientFunds)
		}
		if !sellLedger.Debit(e.asset, qtyDec) {
			buyLedger.Credit(e.currency, notional)
			e.log.Warn("trade refused: seller short of asset",
				zap.String("seller", seller),
				zap.Int64("quantity", qty))
			return "", fmt.Errorf("seller %q short %d %s: %w", seller, qty, e.asset, domain.ErrInsufficientFunds)
		}
		buyLedger.Credit(e.asset, qtyDec)
		sellLedger.Credit(e.currency, notional)

		t := &domain.Trade{
			ID:        uuid.NewString(),
			Buyer:     buyer,
			Seller:    seller,
			Price:     price,
			Quantity:  qty,
			Timestamp: e.now(),
		}
		if e.journal != nil {
			if err := e.journal.Append(ctx, t); err != nil {
				// the trade is settled; a journal failure is reported, not undone
				e.log.Warn("journal append failed", zap.String("trade", t.ID), zap.Error(err))
			}
		}
		e.log.Info("trade executed",
			zap.String("trade", t.ID),
			zap.String("buyer", buyer),
			zap.String("seller", seller),
			zap.String("price", price.String()),
			zap.Int64("quantity", qty))
		return t.ID, nil
	}
}

// Cancel removes or shrinks the first resting order on side matching
// (owner, price).
func (e *Exchange) Cancel(ctx context.Context, owner string, side domain.Side, price decimal.Decimal, qty int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.book.Cancel(owner, side, price, qty); err != nil {
		return err
	}
	e.log.Info("order cancelled",
		zap.String("owner", owner),
		zap.String("side", string(side)),
		zap.String("price", price.String()),
		zap.Int64("quantity", qty))
	return nil
}

// Quote prices qty against the ask side without mutating the book.
func (e *Exchange) Quote(ctx context.Context, qty int64) []domain.QuoteLevel {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.book.Quote(qty)
}

// Depth returns a display snapshot of both sides.
func (e *Exchange) Depth(ctx context.Context) domain.DepthSnapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.book.Depth()
}

// Balances returns a copy of the user's ledger.
func (e *Exchange) Balances(ctx context.Context, username string) (map[string]decimal.Decimal, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.registry.Balances(username)
}
