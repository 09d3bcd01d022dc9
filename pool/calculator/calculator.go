// Package calculator implements the pure pricing, fee and share math for a
// two-reserve constant-product pool. Every function is state-free and uses
// floor (truncating) division throughout: rounding always favors the pool,
// never the trader or the withdrawing provider.
package calculator

import (
	"errors"
	"fmt"
	"math/big"
	"sync"
)

// DefaultFeeBps is the standard 0.3% swap fee. At this fee the amount-out
// formula reduces to the classic 997/1000 form.
const DefaultFeeBps uint16 = 30

var (
	// basisPointDivisor is a constant representing 100% in basis points (10000).
	basisPointDivisor = big.NewInt(10000)

	one = big.NewInt(1)

	// priceScale is the fixed-point scale for spot prices (10^18).
	priceScale = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

	// ErrNilAmount is returned when a nil pointer is passed for an amount or reserve.
	ErrNilAmount = errors.New("nil pointer passed as amount")
	// ErrInvalidAmount is returned when an input/output amount is negative.
	ErrInvalidAmount = errors.New("amount must be non-negative")
	// ErrInvalidState is returned for internal calculation errors, like division by zero.
	ErrInvalidState = errors.New("invalid internal state")
	// ErrInsufficientLiquidity is returned when an amountOut is requested that is
	// greater than or equal to the available reserve.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity for swap")
	// ErrZeroReserve is returned by SpotPrice when the pricing reserve is zero.
	ErrZeroReserve = errors.New("zero reserve")
)

// Calculator holds reusable big.Int objects to avoid memory allocations during
// calculations. Instances are NOT safe for concurrent use by themselves; they
// are managed by the package's sync.Pool.
type Calculator struct {
	feeMultiplier   *big.Int
	amountInWithFee *big.Int
	numerator       *big.Int
	denominator     *big.Int

	numeratorIn   *big.Int
	denominatorIn *big.Int
}

var calculatorPool = sync.Pool{
	New: func() any {
		return &Calculator{
			feeMultiplier:   new(big.Int),
			amountInWithFee: new(big.Int),
			numerator:       new(big.Int),
			denominator:     new(big.Int),
			numeratorIn:     new(big.Int),
			denominatorIn:   new(big.Int),
		}
	},
}

// GetAmountOut calculates the fee-adjusted output amount for a swap:
//
//	amountInWithFee = amountIn * (10000 - feeBps)
//	amountOut       = floor(amountInWithFee * reserveOut / (reserveIn*10000 + amountInWithFee))
//
// Zero reserves yield a zero output rather than an error; the caller decides
// whether that is a liquidity failure.
func GetAmountOut(amountIn, reserveIn, reserveOut *big.Int, feeBps uint16) (*big.Int, error) {
	calc := calculatorPool.Get().(*Calculator)
	defer calculatorPool.Put(calc)
	return calc.getAmountOut(amountIn, reserveIn, reserveOut, feeBps)
}

// QuoteOut is GetAmountOut at the standard 0.3% fee. It is the read-only quote
// function for off-chain simulation against arbitrary hypothetical reserves.
func QuoteOut(amountIn, reserveIn, reserveOut *big.Int) (*big.Int, error) {
	return GetAmountOut(amountIn, reserveIn, reserveOut, DefaultFeeBps)
}

// GetAmountIn calculates the input amount required to receive amountOut:
//
//	amountIn = floor(reserveIn * amountOut * 10000 / ((reserveOut - amountOut) * (10000 - feeBps))) + 1
func GetAmountIn(amountOut, reserveIn, reserveOut *big.Int, feeBps uint16) (*big.Int, error) {
	calc := calculatorPool.Get().(*Calculator)
	defer calculatorPool.Put(calc)
	return calc.getAmountIn(amountOut, reserveIn, reserveOut, feeBps)
}

func (c *Calculator) getAmountOut(amountIn, reserveIn, reserveOut *big.Int, feeBps uint16) (*big.Int, error) {
	if amountIn == nil || reserveIn == nil || reserveOut == nil {
		return nil, ErrNilAmount
	}
	if amountIn.Sign() < 0 {
		return nil, ErrInvalidAmount
	}
	if reserveIn.Sign() <= 0 || reserveOut.Sign() <= 0 {
		return new(big.Int), nil
	}

	c.feeMultiplier.Sub(basisPointDivisor, big.NewInt(int64(feeBps)))
	c.amountInWithFee.Mul(amountIn, c.feeMultiplier)
	c.numerator.Mul(reserveOut, c.amountInWithFee)
	c.denominator.Mul(reserveIn, basisPointDivisor)
	c.denominator.Add(c.denominator, c.amountInWithFee)

	if c.denominator.Sign() == 0 {
		return nil, fmt.Errorf("%w: swap denominator is zero", ErrInvalidState)
	}

	return new(big.Int).Div(c.numerator, c.denominator), nil
}

func (c *Calculator) getAmountIn(amountOut, reserveIn, reserveOut *big.Int, feeBps uint16) (*big.Int, error) {
	if amountOut == nil || reserveIn == nil || reserveOut == nil {
		return nil, ErrNilAmount
	}
	if amountOut.Sign() < 0 {
		return nil, ErrInvalidAmount
	}
	if reserveIn.Sign() <= 0 || reserveOut.Sign() <= 0 || amountOut.Cmp(reserveOut) >= 0 {
		return nil, fmt.Errorf("%w: requested amountOut (%s) is >= reserveOut (%s)", ErrInsufficientLiquidity, amountOut, reserveOut)
	}

	c.numeratorIn.Mul(reserveIn, amountOut)
	c.numeratorIn.Mul(c.numeratorIn, basisPointDivisor)

	c.feeMultiplier.Sub(basisPointDivisor, big.NewInt(int64(feeBps)))
	c.denominatorIn.Sub(reserveOut, amountOut)
	c.denominatorIn.Mul(c.denominatorIn, c.feeMultiplier)

	if c.denominatorIn.Sign() == 0 {
		return nil, fmt.Errorf("%w: swap denominator is zero", ErrInvalidState)
	}

	amountIn := new(big.Int).Div(c.numeratorIn, c.denominatorIn)
	return amountIn.Add(amountIn, one), nil
}
