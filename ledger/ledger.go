// Package ledger tracks proportional pool ownership per provider.
package ledger

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrInvalidShares is returned when a credit or debit amount is nil or not positive.
	ErrInvalidShares = errors.New("share amount must be positive")
	// ErrInsufficientShares is returned when a debit exceeds the provider's balance.
	ErrInsufficientShares = errors.New("insufficient shares")
)

// ShareLedger is a simple, non-thread-safe mapping from provider identity to
// LP shares. Callers (the engine) are expected to serialize access. Entries
// are pruned when they reach zero, so an absent entry and a zero entry are
// equivalent.
type ShareLedger struct {
	shares map[common.Address]*big.Int
	total  *big.Int
}

// NewShareLedger creates a new, empty ledger.
func NewShareLedger() *ShareLedger {
	return &ShareLedger{
		shares: make(map[common.Address]*big.Int),
		total:  new(big.Int),
	}
}

// SharesOf returns the provider's balance, zero if absent. The result owns
// its memory and is safe to retain.
func (l *ShareLedger) SharesOf(provider common.Address) *big.Int {
	if s, ok := l.shares[provider]; ok {
		return new(big.Int).Set(s)
	}
	return new(big.Int)
}

// Total returns the sum of all providers' shares.
func (l *ShareLedger) Total() *big.Int {
	return new(big.Int).Set(l.total)
}

// Providers returns the number of providers with a nonzero balance.
func (l *ShareLedger) Providers() int {
	return len(l.shares)
}

// Credit adds shares to a provider, creating the entry if absent.
func (l *ShareLedger) Credit(provider common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidShares
	}
	if s, ok := l.shares[provider]; ok {
		s.Add(s, amount)
	} else {
		l.shares[provider] = new(big.Int).Set(amount)
	}
	l.total.Add(l.total, amount)
	return nil
}

// Debit removes shares from a provider, pruning the entry if it reaches zero.
func (l *ShareLedger) Debit(provider common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidShares
	}
	s, ok := l.shares[provider]
	if !ok || s.Cmp(amount) < 0 {
		return fmt.Errorf("%w: provider %s holds %s, debit %s", ErrInsufficientShares, provider, l.SharesOf(provider), amount)
	}
	s.Sub(s, amount)
	if s.Sign() == 0 {
		delete(l.shares, provider)
	}
	l.total.Sub(l.total, amount)
	return nil
}

// CheckInvariant verifies that the maintained total equals the sum of all
// entries and that no entry is non-positive.
func (l *ShareLedger) CheckInvariant() error {
	sum := new(big.Int)
	for provider, s := range l.shares {
		if s.Sign() <= 0 {
			return fmt.Errorf("ledger entry for %s is non-positive: %s", provider, s)
		}
		sum.Add(sum, s)
	}
	if sum.Cmp(l.total) != 0 {
		return fmt.Errorf("ledger total %s does not match entry sum %s", l.total, sum)
	}
	return nil
}
