package pool

import (
	"errors"
	"fmt"
)

// ErrNegativeState is returned when applying a diff would drive a reserve or
// the share total below zero.
var ErrNegativeState = errors.New("patch would produce negative pool state")

// Patcher constructs a new pool state by applying a diff to a previous state.
// The previous state is deep-copied first, so the result is completely
// independent of the input.
func Patcher(prevState Pool, diff Diff) (Pool, error) {
	newState := prevState.DeepCopy()

	newState.ReserveA.Add(newState.ReserveA, diff.ReserveADelta)
	newState.ReserveB.Add(newState.ReserveB, diff.ReserveBDelta)
	newState.TotalShares.Add(newState.TotalShares, diff.SharesDelta)

	if newState.ReserveA.Sign() < 0 || newState.ReserveB.Sign() < 0 {
		return Pool{}, fmt.Errorf("%w: reserves (%s, %s)", ErrNegativeState, newState.ReserveA, newState.ReserveB)
	}
	if newState.TotalShares.Sign() < 0 {
		return Pool{}, fmt.Errorf("%w: totalShares %s", ErrNegativeState, newState.TotalShares)
	}
	return newState, nil
}
