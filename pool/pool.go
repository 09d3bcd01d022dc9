package pool

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Pool is the committed state of a two-asset constant-product pool.
// The engine is the single source of truth for these values; they are never
// inferred from custody balances.
type Pool struct {
	AssetA      common.Address `json:"assetA"`
	AssetB      common.Address `json:"assetB"`
	ReserveA    *big.Int       `json:"reserveA"`
	ReserveB    *big.Int       `json:"reserveB"`
	TotalShares *big.Int       `json:"totalShares"`
	FeeBps      uint16         `json:"feeBps"` // i.e 30 for 0.3%
}

// New returns an empty pool for the given asset pair.
func New(assetA, assetB common.Address, feeBps uint16) Pool {
	return Pool{
		AssetA:      assetA,
		AssetB:      assetB,
		ReserveA:    new(big.Int),
		ReserveB:    new(big.Int),
		TotalShares: new(big.Int),
		FeeBps:      feeBps,
	}
}

// DeepCopy creates a new Pool with its own memory for pointer types like *big.Int.
// This is essential to prevent a snapshot from sharing memory with live state.
func (p Pool) DeepCopy() Pool {
	newPool := p
	if p.ReserveA != nil {
		newPool.ReserveA = new(big.Int).Set(p.ReserveA)
	}
	if p.ReserveB != nil {
		newPool.ReserveB = new(big.Int).Set(p.ReserveB)
	}
	if p.TotalShares != nil {
		newPool.TotalShares = new(big.Int).Set(p.TotalShares)
	}
	return newPool
}

// Product returns reserveA * reserveB, the constant-product k.
func (p Pool) Product() *big.Int {
	return new(big.Int).Mul(p.ReserveA, p.ReserveB)
}

// Funded reports whether the pool currently holds liquidity.
func (p Pool) Funded() bool {
	return p.TotalShares.Sign() > 0
}
