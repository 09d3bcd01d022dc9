// Package engine implements the constant-product pool engine: liquidity
// provision and withdrawal, fee-adjusted swaps, and the read path. All
// mutation is serialized under a single lock per engine instance, and every
// operation either commits fully (state, custody transfers, notification) or
// leaves no observable change.
package engine

import (
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/defistate/amm-engine-go/events"
	"github.com/defistate/amm-engine-go/ledger"
	"github.com/defistate/amm-engine-go/pool"
	"github.com/defistate/amm-engine-go/pool/calculator"
)

// Config holds the configuration for an Engine.
type Config struct {
	AssetA common.Address
	AssetB common.Address

	// FeeBps is the swap fee in basis points. Zero selects
	// calculator.DefaultFeeBps (30, i.e. 0.3%).
	FeeBps uint16

	Custody  Custody
	Sink     events.Sink // optional; nil disables notifications
	Logger   Logger
	Registry prometheus.Registerer
}

// validate checks if the configuration is valid.
func (c *Config) validate() error {
	if c.AssetA == c.AssetB {
		return errors.New("config: AssetA and AssetB must differ")
	}
	if c.Custody == nil {
		return errors.New("config: Custody is required")
	}
	if c.Logger == nil {
		return errors.New("config: Logger is required")
	}
	if c.Registry == nil {
		return errors.New("config: Registry is required")
	}
	if c.FeeBps >= 10000 {
		return errors.New("config: FeeBps must be below 10000")
	}
	return nil
}

// Engine owns one pool's reserves and share ledger. It is safe for
// concurrent use; operations are serialized so no caller ever observes an
// in-flight operation's intermediate state.
type Engine struct {
	mu      sync.RWMutex
	pool    pool.Pool
	ledger  *ledger.ShareLedger
	custody Custody
	sink    events.Sink
	logger  Logger
	metrics *Metrics
}

// New constructs an empty pool engine from a configuration.
func New(cfg *Config) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	feeBps := cfg.FeeBps
	if feeBps == 0 {
		feeBps = calculator.DefaultFeeBps
	}
	return &Engine{
		pool:    pool.New(cfg.AssetA, cfg.AssetB, feeBps),
		ledger:  ledger.NewShareLedger(),
		custody: cfg.Custody,
		sink:    cfg.Sink,
		logger:  cfg.Logger,
		metrics: NewMetrics(cfg.Registry),
	}, nil
}

// ProvideLiquidity deposits amountA/amountB from the provider and mints
// shares. The first deposit sets the pool's price and mints
// floor(sqrt(amountA*amountB)) shares; every later deposit must match the
// reserve ratio exactly and mints floor(amountA*totalShares/reserveA).
// Returns the minted share count.
func (e *Engine) ProvideLiquidity(provider common.Address, amountA, amountB *big.Int) (*big.Int, error) {
	const op = "provide_liquidity"
	if amountA == nil || amountA.Sign() <= 0 || amountB == nil || amountB.Sign() <= 0 {
		e.metrics.observe(op, ErrZeroAmount)
		return nil, fmt.Errorf("%w: amounts (%s, %s)", ErrZeroAmount, amountA, amountB)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	timer := prometheus.NewTimer(e.metrics.operationDuration.WithLabelValues(op))
	defer timer.ObserveDuration()

	var minted *big.Int
	if e.pool.Funded() {
		if !calculator.MatchesRatio(amountA, amountB, e.pool.ReserveA, e.pool.ReserveB) {
			e.metrics.observe(op, ErrRatioMismatch)
			return nil, fmt.Errorf("%w: deposit (%s, %s) vs reserves (%s, %s)",
				ErrRatioMismatch, amountA, amountB, e.pool.ReserveA, e.pool.ReserveB)
		}
		minted = calculator.SharesForDeposit(amountA, e.pool.ReserveA, e.pool.TotalShares)
	} else {
		minted = calculator.InitialShares(amountA, amountB)
	}
	if minted.Sign() == 0 {
		e.metrics.observe(op, ErrInsufficientInitialLiquidity)
		return nil, fmt.Errorf("%w: deposit (%s, %s)", ErrInsufficientInitialLiquidity, amountA, amountB)
	}

	// Pull both legs before touching the books. If the second pull fails the
	// first is compensated, so custody and state stay consistent.
	if err := e.custody.PullFrom(provider, e.pool.AssetA, amountA); err != nil {
		return nil, e.custodyFailed(op, "pull asset A", err)
	}
	if err := e.custody.PullFrom(provider, e.pool.AssetB, amountB); err != nil {
		e.compensate(op, func() error { return e.custody.PushTo(provider, e.pool.AssetA, amountA) })
		return nil, e.custodyFailed(op, "pull asset B", err)
	}

	e.pool.ReserveA.Add(e.pool.ReserveA, amountA)
	e.pool.ReserveB.Add(e.pool.ReserveB, amountB)
	e.pool.TotalShares.Add(e.pool.TotalShares, minted)
	if err := e.ledger.Credit(provider, minted); err != nil {
		// Unreachable: minted is positive. Kept as a hard failure rather than
		// a silent inconsistency.
		e.logger.Error("ledger credit failed after commit", "provider", provider, "error", err)
		return nil, err
	}

	e.metrics.observe(op, nil)
	e.logger.Debug("liquidity provided",
		"provider", provider, "amountA", amountA, "amountB", amountB, "minted", minted)

	if e.sink != nil {
		e.sink.OnLiquidityAdded(events.LiquidityAdded{
			Provider:     provider,
			AmountA:      new(big.Int).Set(amountA),
			AmountB:      new(big.Int).Set(amountB),
			SharesMinted: new(big.Int).Set(minted),
			Pool:         e.pool.DeepCopy(),
			Timestamp:    time.Now().UnixNano(),
		})
	}
	return new(big.Int).Set(minted), nil
}

// RemoveLiquidity burns shareAmount of the provider's shares and returns the
// proportional reserve amounts, floor(shares*reserve/totalShares) per leg. A
// leg that rounds to zero is paid as zero; burning the entire supply drains
// both reserves exactly.
func (e *Engine) RemoveLiquidity(provider common.Address, shareAmount *big.Int) (amountA, amountB *big.Int, err error) {
	const op = "remove_liquidity"
	if shareAmount == nil || shareAmount.Sign() <= 0 {
		e.metrics.observe(op, ErrZeroAmount)
		return nil, nil, fmt.Errorf("%w: share amount %s", ErrZeroAmount, shareAmount)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	timer := prometheus.NewTimer(e.metrics.operationDuration.WithLabelValues(op))
	defer timer.ObserveDuration()

	held := e.ledger.SharesOf(provider)
	if shareAmount.Cmp(held) > 0 {
		e.metrics.observe(op, ErrInsufficientShares)
		return nil, nil, fmt.Errorf("%w: provider %s holds %s, requested %s",
			ErrInsufficientShares, provider, held, shareAmount)
	}

	amountA, amountB = calculator.WithdrawalAmounts(shareAmount, e.pool.ReserveA, e.pool.ReserveB, e.pool.TotalShares)

	// Commit, then transfer. A failed push restores the saved state so the
	// caller observes no change.
	prev := e.pool.DeepCopy()
	if err := e.ledger.Debit(provider, shareAmount); err != nil {
		e.metrics.observe(op, err)
		return nil, nil, err
	}
	e.pool.ReserveA.Sub(e.pool.ReserveA, amountA)
	e.pool.ReserveB.Sub(e.pool.ReserveB, amountB)
	e.pool.TotalShares.Sub(e.pool.TotalShares, shareAmount)

	rollback := func() {
		e.pool = prev
		if err := e.ledger.Credit(provider, shareAmount); err != nil {
			e.logger.Error("ledger rollback failed", "provider", provider, "error", err)
		}
	}

	if amountA.Sign() > 0 {
		if err := e.custody.PushTo(provider, e.pool.AssetA, amountA); err != nil {
			rollback()
			return nil, nil, e.custodyFailed(op, "push asset A", err)
		}
	}
	if amountB.Sign() > 0 {
		if err := e.custody.PushTo(provider, e.pool.AssetB, amountB); err != nil {
			if amountA.Sign() > 0 {
				e.compensate(op, func() error { return e.custody.PullFrom(provider, e.pool.AssetA, amountA) })
			}
			rollback()
			return nil, nil, e.custodyFailed(op, "push asset B", err)
		}
	}

	e.metrics.observe(op, nil)
	e.logger.Debug("liquidity removed",
		"provider", provider, "burned", shareAmount, "amountA", amountA, "amountB", amountB)

	if e.sink != nil {
		e.sink.OnLiquidityRemoved(events.LiquidityRemoved{
			Provider:     provider,
			SharesBurned: new(big.Int).Set(shareAmount),
			AmountA:      new(big.Int).Set(amountA),
			AmountB:      new(big.Int).Set(amountB),
			Pool:         e.pool.DeepCopy(),
			Timestamp:    time.Now().UnixNano(),
		})
	}
	return amountA, amountB, nil
}

// SwapAForB trades amountIn of asset A for asset B at the fee-adjusted
// constant-product price. Returns the amount of B paid out.
func (e *Engine) SwapAForB(caller common.Address, amountIn *big.Int) (*big.Int, error) {
	return e.swap(caller, amountIn, events.DirectionAForB)
}

// SwapBForA trades amountIn of asset B for asset A.
func (e *Engine) SwapBForA(caller common.Address, amountIn *big.Int) (*big.Int, error) {
	return e.swap(caller, amountIn, events.DirectionBForA)
}

func (e *Engine) swap(caller common.Address, amountIn *big.Int, dir events.Direction) (*big.Int, error) {
	op := "swap_" + string(dir)
	if amountIn == nil || amountIn.Sign() <= 0 {
		e.metrics.observe(op, ErrZeroSwapAmount)
		return nil, fmt.Errorf("%w: amountIn %s", ErrZeroSwapAmount, amountIn)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	timer := prometheus.NewTimer(e.metrics.operationDuration.WithLabelValues(op))
	defer timer.ObserveDuration()

	if !e.pool.Funded() {
		e.metrics.observe(op, ErrNoLiquidity)
		return nil, fmt.Errorf("%w: swap on empty pool", ErrNoLiquidity)
	}

	reserveIn, reserveOut := e.pool.ReserveA, e.pool.ReserveB
	assetIn, assetOut := e.pool.AssetA, e.pool.AssetB
	if dir == events.DirectionBForA {
		reserveIn, reserveOut = e.pool.ReserveB, e.pool.ReserveA
		assetIn, assetOut = e.pool.AssetB, e.pool.AssetA
	}

	amountOut, err := calculator.GetAmountOut(amountIn, reserveIn, reserveOut, e.pool.FeeBps)
	if err != nil {
		e.metrics.observe(op, err)
		return nil, err
	}
	if amountOut.Sign() == 0 || amountOut.Cmp(reserveOut) >= 0 {
		e.metrics.observe(op, ErrInsufficientOutput)
		return nil, fmt.Errorf("%w: amountIn %s yields %s against reserve %s",
			ErrInsufficientOutput, amountIn, amountOut, reserveOut)
	}

	// The fee formula guarantees the product never decreases, but rounding
	// direction is exactly the kind of thing that silently regresses. Check it.
	kBefore := e.pool.Product()
	kAfter := new(big.Int).Add(reserveIn, amountIn)
	kAfter.Mul(kAfter, new(big.Int).Sub(reserveOut, amountOut))
	if kAfter.Cmp(kBefore) < 0 {
		e.metrics.observe(op, ErrInvariantViolated)
		return nil, fmt.Errorf("%w: k %s -> %s", ErrInvariantViolated, kBefore, kAfter)
	}

	if err := e.custody.PullFrom(caller, assetIn, amountIn); err != nil {
		return nil, e.custodyFailed(op, "pull input", err)
	}
	if err := e.custody.PushTo(caller, assetOut, amountOut); err != nil {
		e.compensate(op, func() error { return e.custody.PushTo(caller, assetIn, amountIn) })
		return nil, e.custodyFailed(op, "push output", err)
	}

	reserveIn.Add(reserveIn, amountIn)
	reserveOut.Sub(reserveOut, amountOut)

	e.metrics.observe(op, nil)
	e.logger.Debug("swap executed",
		"caller", caller, "direction", dir, "amountIn", amountIn, "amountOut", amountOut)

	if e.sink != nil {
		e.sink.OnSwap(events.Swap{
			Caller:    caller,
			Direction: dir,
			AmountIn:  new(big.Int).Set(amountIn),
			AmountOut: new(big.Int).Set(amountOut),
			Pool:      e.pool.DeepCopy(),
			Timestamp: time.Now().UnixNano(),
		})
	}
	return amountOut, nil
}

func (e *Engine) custodyFailed(op, leg string, err error) error {
	e.metrics.custodyFailuresTotal.WithLabelValues(op).Inc()
	e.metrics.observe(op, err)
	e.logger.Error("custody transfer failed", "op", op, "leg", leg, "error", err)
	return fmt.Errorf("%w: %s: %v", ErrCustodyTransfer, leg, err)
}

// compensate undoes an already-confirmed transfer after a later one failed.
// A failure here means custody itself is inconsistent; the engine's books are
// untouched either way, so it is logged and not propagated.
func (e *Engine) compensate(op string, undo func() error) {
	if err := undo(); err != nil {
		e.logger.Error("compensating transfer failed", "op", op, "error", err)
	}
}
