package engine

import "errors"

// Every failure the engine can surface is one of these sentinels, wrapped
// with call-site context. All are detected before any state is committed,
// except ErrCustodyTransfer, which aborts the operation with no observable
// state change.
var (
	// ErrZeroAmount is returned when a liquidity amount or share amount is nil or not positive.
	ErrZeroAmount = errors.New("amount must be positive")
	// ErrZeroSwapAmount is returned when a swap input is nil or not positive.
	ErrZeroSwapAmount = errors.New("swap amount must be positive")
	// ErrRatioMismatch is returned when a deposit does not match the pool's reserve ratio exactly.
	ErrRatioMismatch = errors.New("deposit does not match pool ratio")
	// ErrInsufficientInitialLiquidity is returned when a deposit is too small to mint any shares.
	ErrInsufficientInitialLiquidity = errors.New("deposit too small to mint shares")
	// ErrInsufficientShares is returned when a withdrawal exceeds the provider's recorded shares.
	ErrInsufficientShares = errors.New("insufficient shares")
	// ErrNoLiquidity is returned when an operation requires a funded pool.
	ErrNoLiquidity = errors.New("pool has no liquidity")
	// ErrInsufficientOutput is returned when a swap's output rounds to zero or would drain a reserve.
	ErrInsufficientOutput = errors.New("insufficient swap output")
	// ErrCustodyTransfer is returned when the custody collaborator fails a transfer.
	ErrCustodyTransfer = errors.New("custody transfer failed")
	// ErrInvariantViolated is returned if a swap would decrease the constant product.
	// It indicates a bug in the pricing math and should never be observed.
	ErrInvariantViolated = errors.New("constant-product invariant violated")
)
