// Package custody provides an in-memory asset vault implementing the
// engine's custody contract, for demos and tests. Real deployments replace
// this with the host's transfer capability.
package custody

import (
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrInvalidAmount is returned when a transfer amount is nil or negative.
	ErrInvalidAmount = errors.New("transfer amount must be non-negative")
	// ErrInsufficientBalance is returned when a pull exceeds the holder's balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// MemoryVault is a thread-safe per-asset balance book. A pull debits the
// holder (the pool side is implicit); a push credits the holder. Each call
// either fully succeeds or fails with no effect.
type MemoryVault struct {
	mu       sync.Mutex
	balances map[common.Address]map[common.Address]*big.Int // asset -> holder -> balance
}

// NewMemoryVault creates an empty vault.
func NewMemoryVault() *MemoryVault {
	return &MemoryVault{
		balances: make(map[common.Address]map[common.Address]*big.Int),
	}
}

// Seed credits a holder with an initial balance of an asset.
func (v *MemoryVault) Seed(holder, asset common.Address, amount *big.Int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.credit(holder, asset, amount)
}

// Balance returns the holder's current balance of an asset, zero if absent.
func (v *MemoryVault) Balance(holder, asset common.Address) *big.Int {
	v.mu.Lock()
	defer v.mu.Unlock()
	if holders, ok := v.balances[asset]; ok {
		if bal, ok := holders[holder]; ok {
			return new(big.Int).Set(bal)
		}
	}
	return new(big.Int)
}

// PullFrom atomically debits amount of asset from the holder.
func (v *MemoryVault) PullFrom(who, asset common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	if amount.Sign() == 0 {
		return nil
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	holders, ok := v.balances[asset]
	if !ok {
		return fmt.Errorf("%w: %s holds no %s", ErrInsufficientBalance, who, asset)
	}
	bal, ok := holders[who]
	if !ok || bal.Cmp(amount) < 0 {
		return fmt.Errorf("%w: %s holds %s of %s, pull %s", ErrInsufficientBalance, who, bal, asset, amount)
	}
	bal.Sub(bal, amount)
	return nil
}

// PushTo atomically credits amount of asset to the holder.
func (v *MemoryVault) PushTo(who, asset common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	if amount.Sign() == 0 {
		return nil
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.credit(who, asset, amount)
	return nil
}

func (v *MemoryVault) credit(holder, asset common.Address, amount *big.Int) {
	holders, ok := v.balances[asset]
	if !ok {
		holders = make(map[common.Address]*big.Int)
		v.balances[asset] = holders
	}
	if bal, ok := holders[holder]; ok {
		bal.Add(bal, amount)
	} else {
		holders[holder] = new(big.Int).Set(amount)
	}
}
