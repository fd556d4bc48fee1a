package curve

import (
	"errors"

	"github.com/shopspring/decimal"

	dmath "github.com/draylabs/launchpad-go/decimal_math"
)

// ErrInvalidRange reports a token range outside [0, sellAmount].
var ErrInvalidRange = errors.New("curve: token range outside [0, sellAmount]")

// Type selects the pricing family of a bonding curve.
type Type uint8

const (
	TypeLinear Type = iota
	TypeExponential
	TypeLogarithmic
)

func (t Type) String() string {
	switch t {
	case TypeLinear:
		return "linear"
	case TypeExponential:
		return "exponential"
	case TypeLogarithmic:
		return "logarithmic"
	default:
		return "unknown"
	}
}

// divPrecision keeps enough fractional digits for lamport-scale prices on
// u64-range token supplies.
const divPrecision = 28

var (
	one   = decimal.NewFromInt(1)
	two   = decimal.NewFromInt(2)
	three = decimal.NewFromInt(3)
	ten   = decimal.NewFromInt(10)

	// logFloorX pins the logarithmic price to zero below 1% sold, avoiding
	// the log singularity at the origin.
	logFloorX = decimal.New(1, -2)
	logSlope  = decimal.NewFromInt(9)
)

// normPrice is the normalized price y(x), x = tokensSold/sellAmount in [0,1].
func normPrice(t Type, x decimal.Decimal) decimal.Decimal {
	switch t {
	case TypeLinear:
		return x
	case TypeExponential:
		return x.Mul(x)
	case TypeLogarithmic:
		if x.Cmp(logFloorX) < 0 {
			return decimal.Zero
		}
		return dmath.Log10(one.Add(logSlope.Mul(x)))
	default:
		return decimal.Zero
	}
}

// normCost is the cumulative integral of normPrice over [0, x].
func normCost(t Type, x decimal.Decimal) decimal.Decimal {
	switch t {
	case TypeLinear:
		return x.Mul(x).DivRound(two, divPrecision)
	case TypeExponential:
		return x.Mul(x).Mul(x).DivRound(three, divPrecision)
	case TypeLogarithmic:
		if x.Cmp(logFloorX) <= 0 {
			return decimal.Zero
		}
		return logAntiderivative(x).Sub(logAntiderivative(logFloorX))
	default:
		return decimal.Zero
	}
}

// logAntiderivative is ∫ log10(1+9x) dx = (1+9x)·(ln(1+9x)−1) / (9·ln 10).
func logAntiderivative(x decimal.Decimal) decimal.Decimal {
	u := one.Add(logSlope.Mul(x))
	num := u.Mul(dmath.Ln(u).Sub(one))
	return num.DivRound(logSlope.Mul(dmath.Ln(ten)), divPrecision)
}

// Scale is the per-launch price scale in lamports per token base unit,
// chosen so selling the whole curve raises exactly targetRaise.
func Scale(t Type, sellAmount, targetRaise uint64) decimal.Decimal {
	denom := decimal.NewFromUint64(sellAmount).Mul(normCost(t, one))
	return decimal.NewFromUint64(targetRaise).DivRound(denom, divPrecision)
}

func fraction(sold, sellAmount uint64) decimal.Decimal {
	return decimal.NewFromUint64(sold).DivRound(decimal.NewFromUint64(sellAmount), divPrecision)
}

// Price returns the spot price at tokensSold, in lamports per token base unit.
func Price(t Type, sellAmount, targetRaise, tokensSold uint64) (decimal.Decimal, error) {
	if sellAmount == 0 || tokensSold > sellAmount {
		return decimal.Decimal{}, ErrInvalidRange
	}
	return Scale(t, sellAmount, targetRaise).Mul(normPrice(t, fraction(tokensSold, sellAmount))), nil
}

// Cost returns the lamports settled when the curve moves from tokensSold to
// tokensSold+deltaTokens: the definite integral of Price over that range.
func Cost(t Type, sellAmount, targetRaise, tokensSold, deltaTokens uint64) (decimal.Decimal, error) {
	if sellAmount == 0 || tokensSold > sellAmount || deltaTokens > sellAmount-tokensSold {
		return decimal.Decimal{}, ErrInvalidRange
	}
	x0 := fraction(tokensSold, sellAmount)
	x1 := fraction(tokensSold+deltaTokens, sellAmount)
	span := normCost(t, x1).Sub(normCost(t, x0))
	return Scale(t, sellAmount, targetRaise).Mul(decimal.NewFromUint64(sellAmount)).Mul(span), nil
}
