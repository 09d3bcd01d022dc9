// Package events defines the notifications the pool engine emits after each
// committed operation, and sinks for consuming them in-process.
package events

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/defistate/amm-engine-go/pool"
)

// Direction identifies which reserve a swap consumed.
type Direction string

const (
	DirectionAForB Direction = "a_for_b"
	DirectionBForA Direction = "b_for_a"
)

// LiquidityAdded is emitted after a provider's deposit is committed.
type LiquidityAdded struct {
	Provider     common.Address `json:"provider"`
	AmountA      *big.Int       `json:"amountA"`
	AmountB      *big.Int       `json:"amountB"`
	SharesMinted *big.Int       `json:"sharesMinted"`
	Pool         pool.Pool      `json:"pool"`
	Timestamp    int64          `json:"timestamp"`
}

// LiquidityRemoved is emitted after a provider's withdrawal is committed.
type LiquidityRemoved struct {
	Provider     common.Address `json:"provider"`
	SharesBurned *big.Int       `json:"sharesBurned"`
	AmountA      *big.Int       `json:"amountA"`
	AmountB      *big.Int       `json:"amountB"`
	Pool         pool.Pool      `json:"pool"`
	Timestamp    int64          `json:"timestamp"`
}

// Swap is emitted after a swap is committed.
type Swap struct {
	Caller    common.Address `json:"caller"`
	Direction Direction      `json:"direction"`
	AmountIn  *big.Int       `json:"amountIn"`
	AmountOut *big.Int       `json:"amountOut"`
	Pool      pool.Pool      `json:"pool"`
	Timestamp int64          `json:"timestamp"`
}

// Sink receives notifications from the engine. The engine calls these
// synchronously once the state mutation and custody transfers for an
// operation are confirmed; implementations must not block.
type Sink interface {
	OnLiquidityAdded(e LiquidityAdded)
	OnLiquidityRemoved(e LiquidityRemoved)
	OnSwap(e Swap)
}

// Kind discriminates the payload carried by a Notification.
type Kind string

const (
	KindLiquidityAdded   Kind = "liquidity_added"
	KindLiquidityRemoved Kind = "liquidity_removed"
	KindSwap             Kind = "swap"
)

// Notification is a unified envelope for channel-based consumers. Exactly one
// payload field is set, selected by Kind.
type Notification struct {
	Kind             Kind              `json:"kind"`
	LiquidityAdded   *LiquidityAdded   `json:"liquidityAdded,omitempty"`
	LiquidityRemoved *LiquidityRemoved `json:"liquidityRemoved,omitempty"`
	Swap             *Swap             `json:"swap,omitempty"`
}
