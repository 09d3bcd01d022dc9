package engine

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/defistate/amm-engine-go/ledger"
	"github.com/defistate/amm-engine-go/pool"
	"github.com/defistate/amm-engine-go/pool/calculator"
)

// Reserves returns the current committed reserve pair. The results own their
// memory and stay valid across later mutations.
func (e *Engine) Reserves() (reserveA, reserveB *big.Int) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return new(big.Int).Set(e.pool.ReserveA), new(big.Int).Set(e.pool.ReserveB)
}

// SpotPrice returns the marginal price of asset A in asset B, scaled by 1e18.
func (e *Engine) SpotPrice() (*big.Int, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.pool.Funded() {
		return nil, fmt.Errorf("%w: price query on empty pool", ErrNoLiquidity)
	}
	return calculator.SpotPrice(e.pool.ReserveA, e.pool.ReserveB)
}

// SharesOf returns the provider's recorded shares, zero if absent.
func (e *Engine) SharesOf(provider common.Address) *big.Int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ledger.SharesOf(provider)
}

// TotalShares returns the current share supply.
func (e *Engine) TotalShares() *big.Int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return new(big.Int).Set(e.pool.TotalShares)
}

// QuoteOut computes the fee-adjusted swap output for arbitrary hypothetical
// reserves at this engine's fee. It reads no state and never mutates.
func (e *Engine) QuoteOut(amountIn, reserveIn, reserveOut *big.Int) (*big.Int, error) {
	return calculator.GetAmountOut(amountIn, reserveIn, reserveOut, e.pool.FeeBps)
}

// QuoteIn computes the input required for a desired output, the inverse of
// QuoteOut.
func (e *Engine) QuoteIn(amountOut, reserveIn, reserveOut *big.Int) (*big.Int, error) {
	return calculator.GetAmountIn(amountOut, reserveIn, reserveOut, e.pool.FeeBps)
}

// State returns a deep-copy snapshot of the pool state.
func (e *Engine) State() pool.Pool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.pool.DeepCopy()
}

// LedgerView returns a deep-copy snapshot of the share ledger.
func (e *Engine) LedgerView() *ledger.View {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ledger.View()
}

// CheckInvariants verifies the engine's structural invariants: the ledger sum
// matches the pool's share supply, and reserves are positive exactly when
// shares exist. Intended for tests and defensive audits.
func (e *Engine) CheckInvariants() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if err := e.ledger.CheckInvariant(); err != nil {
		return err
	}
	if e.ledger.Total().Cmp(e.pool.TotalShares) != 0 {
		return fmt.Errorf("ledger total %s does not match pool totalShares %s", e.ledger.Total(), e.pool.TotalShares)
	}
	if e.pool.Funded() {
		if e.pool.ReserveA.Sign() <= 0 || e.pool.ReserveB.Sign() <= 0 {
			return fmt.Errorf("funded pool has non-positive reserves (%s, %s)", e.pool.ReserveA, e.pool.ReserveB)
		}
	} else if e.pool.ReserveA.Sign() != 0 || e.pool.ReserveB.Sign() != 0 {
		return fmt.Errorf("empty pool holds reserves (%s, %s)", e.pool.ReserveA, e.pool.ReserveB)
	}
	return nil
}

// FeeBps returns the engine's swap fee in basis points.
func (e *Engine) FeeBps() uint16 {
	return e.pool.FeeBps
}
