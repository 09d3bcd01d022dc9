package engine

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Logger defines a standard interface for structured, leveled logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Custody is the external asset-transfer capability. Both calls are
// synchronous and atomic: a transfer either fully succeeds before returning
// nil, or fails with no partial effect. The engine never retries; a failure
// aborts the whole operation.
type Custody interface {
	// PullFrom moves amount of asset from who into the pool's custody.
	PullFrom(who, asset common.Address, amount *big.Int) error
	// PushTo moves amount of asset from the pool's custody to who.
	PushTo(who, asset common.Address, amount *big.Int) error
}
