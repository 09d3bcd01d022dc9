package ledger

import (
	"errors"
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"
)

// Position is one provider's holding in a View snapshot.
type Position struct {
	Provider common.Address `json:"provider"`
	Shares   *big.Int       `json:"shares"`
}

// View is a complete snapshot of the ledger, suitable for serialization.
// Positions are sorted by provider address for deterministic output.
type View struct {
	Positions   []Position `json:"positions"`
	TotalShares *big.Int   `json:"totalShares"`
}

// View returns a deep-copy snapshot of the ledger's state.
func (l *ShareLedger) View() *View {
	positions := make([]Position, 0, len(l.shares))
	for provider, s := range l.shares {
		positions = append(positions, Position{
			Provider: provider,
			Shares:   new(big.Int).Set(s),
		})
	}
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].Provider.Cmp(positions[j].Provider) < 0
	})
	return &View{
		Positions:   positions,
		TotalShares: new(big.Int).Set(l.total),
	}
}

// NewShareLedgerFromView reconstructs a ledger from a view snapshot. It
// deep-copies the view data so the new ledger has full ownership of its
// memory, and rejects views whose total does not match the position sum.
func NewShareLedgerFromView(view *View) (*ShareLedger, error) {
	if view == nil {
		return nil, errors.New("view: cannot be nil")
	}

	ledger := NewShareLedger()
	for _, pos := range view.Positions {
		if pos.Shares == nil || pos.Shares.Sign() <= 0 {
			return nil, fmt.Errorf("view: position for %s has non-positive shares", pos.Provider)
		}
		if _, exists := ledger.shares[pos.Provider]; exists {
			return nil, fmt.Errorf("view: duplicate position for %s", pos.Provider)
		}
		ledger.shares[pos.Provider] = new(big.Int).Set(pos.Shares)
		ledger.total.Add(ledger.total, pos.Shares)
	}

	if view.TotalShares != nil && ledger.total.Cmp(view.TotalShares) != 0 {
		return nil, fmt.Errorf("view: declared total %s does not match position sum %s", view.TotalShares, ledger.total)
	}
	return ledger, nil
}
