package pool

import "math/big"

// Diff is the signed delta between two committed pool states. Deltas are
// new minus old, so a swap of A for B has a positive ReserveADelta and a
// negative ReserveBDelta.
type Diff struct {
	ReserveADelta *big.Int `json:"reserveADelta"`
	ReserveBDelta *big.Int `json:"reserveBDelta"`
	SharesDelta   *big.Int `json:"sharesDelta"`
}

// IsEmpty returns true if the diff contains no changes.
func (d Diff) IsEmpty() bool {
	return d.ReserveADelta.Sign() == 0 && d.ReserveBDelta.Sign() == 0 && d.SharesDelta.Sign() == 0
}

// Differ calculates the difference between two states of the same pool.
// The result owns its memory; neither input is retained.
func Differ(old, new Pool) Diff {
	return Diff{
		ReserveADelta: big.NewInt(0).Sub(new.ReserveA, old.ReserveA),
		ReserveBDelta: big.NewInt(0).Sub(new.ReserveB, old.ReserveB),
		SharesDelta:   big.NewInt(0).Sub(new.TotalShares, old.TotalShares),
	}
}
