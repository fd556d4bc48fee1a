package curve

import "github.com/shopspring/decimal"

// TokensForQuote inverts Cost: it returns the largest whole-token amount
// whose cost fits within quoteIn, bounded by the remaining curve capacity.
// When the curve runs out of tokens before quoteIn is exhausted, quoteLeft
// reports the lamports the curve could not absorb; the caller decides how to
// surface that.
func TokensForQuote(t Type, sellAmount, targetRaise, tokensSold, quoteIn uint64) (tokensOut uint64, quoteLeft decimal.Decimal, err error) {
	if sellAmount == 0 || tokensSold > sellAmount {
		return 0, decimal.Zero, ErrInvalidRange
	}
	remaining := sellAmount - tokensSold
	quote := decimal.NewFromUint64(quoteIn)

	costAll, err := Cost(t, sellAmount, targetRaise, tokensSold, remaining)
	if err != nil {
		return 0, decimal.Zero, err
	}
	if quote.Cmp(costAll) > 0 {
		// A sub-lamport excess is rounding residue from the price scale, not
		// spendable balance; absorb it so an exact-target quote fills cleanly.
		left := quote.Sub(costAll)
		if left.Cmp(one) < 0 {
			left = decimal.Zero
		}
		return remaining, left, nil
	}

	// Cost is monotonic in the delta, so bisect on whole tokens. The same
	// closed forms back quoting and execution, keeping the two in lockstep.
	lo, hi := uint64(0), remaining
	for lo < hi {
		mid := lo + (hi-lo+1)/2
		c, err := Cost(t, sellAmount, targetRaise, tokensSold, mid)
		if err != nil {
			return 0, decimal.Zero, err
		}
		if c.Cmp(quote) <= 0 {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo, decimal.Zero, nil
}
