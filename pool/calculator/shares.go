package calculator

import "math/big"

// InitialShares returns the share supply minted to the first provider:
// floor(sqrt(amountA * amountB)). A result of zero means the deposit is too
// small to bootstrap the pool.
func InitialShares(amountA, amountB *big.Int) *big.Int {
	product := new(big.Int).Mul(amountA, amountB)
	return product.Sqrt(product)
}

// SharesForDeposit returns the shares minted for a ratio-matched deposit
// against a funded pool: floor(amountA * totalShares / reserveA).
func SharesForDeposit(amountA, reserveA, totalShares *big.Int) *big.Int {
	minted := new(big.Int).Mul(amountA, totalShares)
	return minted.Div(minted, reserveA)
}

// MatchesRatio reports whether a deposit pair matches the pool's current
// reserve ratio exactly: amountA * reserveB == amountB * reserveA. Exact
// equality is required; any tolerance would let a deposit smuggle in a swap.
func MatchesRatio(amountA, amountB, reserveA, reserveB *big.Int) bool {
	left := new(big.Int).Mul(amountA, reserveB)
	right := new(big.Int).Mul(amountB, reserveA)
	return left.Cmp(right) == 0
}

// WithdrawalAmounts returns the reserve amounts owed for burning shares:
// floor(shares * reserve / totalShares) per leg. When shares == totalShares
// both legs equal the full reserves, so a final withdrawal drains the pool
// exactly.
func WithdrawalAmounts(shares, reserveA, reserveB, totalShares *big.Int) (amountA, amountB *big.Int) {
	amountA = new(big.Int).Mul(shares, reserveA)
	amountA.Div(amountA, totalShares)
	amountB = new(big.Int).Mul(shares, reserveB)
	amountB.Div(amountB, totalShares)
	return amountA, amountB
}

// SpotPrice returns the pool's marginal price of asset A in units of asset B,
// scaled by 10^18: floor(reserveB * 1e18 / reserveA).
func SpotPrice(reserveA, reserveB *big.Int) (*big.Int, error) {
	if reserveA == nil || reserveB == nil {
		return nil, ErrNilAmount
	}
	if reserveA.Sign() == 0 {
		return nil, ErrZeroReserve
	}
	price := new(big.Int).Mul(reserveB, priceScale)
	return price.Div(price, reserveA), nil
}
