package launchpad

import (
	"math/big"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/draylabs/launchpad-go/launchpad/curve"
	"github.com/draylabs/launchpad-go/launchpad/fee"
)

// TradeResult reports one settled trade: token and SOL legs plus the fee
// split that was routed.
type TradeResult struct {
	TokensOut uint64 // tokens received (buy)
	SolOut    uint64 // lamports received (sell)
	NetSol    uint64 // lamports settled against the curve
	Fee       fee.Breakdown
	Migrated  bool // set when this buy crossed the funding target
}

// Quote is a read-only trade estimate. MinAmountOut applies the requested
// slippage tolerance to AmountOut.
type Quote struct {
	AmountOut    uint64
	MinAmountOut uint64
	Fee          fee.Breakdown
}

// Buy settles solIn lamports against the curve for the trader. The fee is
// taken on the input; the net amount is inverted through the cost integral,
// bounded by remaining curve capacity. A referrer of solana.PublicKey{}
// means none. The launch, position, fee and referral updates commit as one
// unit, and the migration trigger is evaluated inside the same critical
// section.
func (lp *Launchpad) Buy(launchID, trader, referrer solana.PublicKey, solIn, minTokensOut uint64) (*TradeResult, error) {
	if solIn == 0 {
		return nil, ErrAmountTooSmall
	}
	if trader.IsZero() {
		return nil, ErrInvalidParameters
	}
	ls, err := lp.state(launchID)
	if err != nil {
		return nil, err
	}
	cfg := lp.config()

	ls.mu.Lock()
	defer ls.mu.Unlock()

	launch := &ls.launch
	if launch.Status != StatusActive {
		return nil, ErrLaunchNotActive
	}

	hasReferral := !referrer.IsZero()
	fb := fee.Compute(solIn, cfg.FeeBps, cfg.ReferralBps, hasReferral)

	tokensOut, quoteLeft, err := curve.TokensForQuote(
		launch.CurveType, launch.SellAmount, launch.TargetRaise, launch.TokensSold, fb.Net)
	if err != nil {
		return nil, err
	}
	if quoteLeft.Sign() > 0 {
		return nil, ErrInsufficientLiquidity
	}
	if tokensOut == 0 {
		return nil, ErrAmountTooSmall
	}
	if tokensOut < minTokensOut {
		return nil, ErrSlippageExceeded
	}

	// Tentative post-trade state; the migration seed is computed against it
	// before anything commits so the status flip and the seed are one unit.
	tokensSold := launch.TokensSold + tokensOut
	solRaised := launch.SolRaised + fb.Net

	var seed *PoolSeed
	if solRaised >= launch.TargetRaise {
		seed, err = lp.computeSeed(launchID, launch, tokensSold, solRaised)
		if err != nil {
			return nil, err
		}
	}

	// The launch custodies the curve proceeds plus the creator and referral
	// legs; only the community share leaves immediately.
	custody := fb.Net + fb.Creator + fb.Referral
	if err := lp.transfer.Transfer(trader, launchID, custody); err != nil {
		return nil, err
	}
	if fb.Community > 0 {
		if err := lp.transfer.Transfer(trader, cfg.CommunityPool, fb.Community); err != nil {
			return nil, err
		}
	}
	if seed != nil {
		if err := lp.transfer.Transfer(launchID, seed.Pool, seed.QuoteAmount); err != nil {
			return nil, err
		}
	}

	launch.TokensSold = tokensSold
	launch.SolRaised = solRaised
	launch.CreatorFeeEarned += fb.Creator

	pos := ls.position(launchID, trader)
	pos.TokensBought += tokensOut
	pos.SolSpent += solIn

	if hasReferral {
		rec := ls.referral(launchID, referrer)
		rec.VolumeGenerated += solIn
		rec.RewardsEarned += fb.Referral
	}

	result := &TradeResult{TokensOut: tokensOut, NetSol: fb.Net, Fee: fb}
	if seed != nil {
		lp.commitMigrationLocked(launchID, ls, seed)
		result.Migrated = true
	}

	lp.logger.Debug("buy settled",
		zap.Stringer("launch", launchID),
		zap.Stringer("trader", trader),
		zap.Uint64("sol_in", solIn),
		zap.Uint64("tokens_out", tokensOut),
		zap.Uint64("sol_raised", launch.SolRaised),
		zap.Bool("migrated", result.Migrated),
	)
	return result, nil
}

// Sell returns tokensIn to the curve and pays out the cost integral over the
// vacated range, fee taken on the SOL output.
func (lp *Launchpad) Sell(launchID, trader, referrer solana.PublicKey, tokensIn, minSolOut uint64) (*TradeResult, error) {
	if tokensIn == 0 {
		return nil, ErrAmountTooSmall
	}
	if trader.IsZero() {
		return nil, ErrInvalidParameters
	}
	ls, err := lp.state(launchID)
	if err != nil {
		return nil, err
	}
	cfg := lp.config()

	ls.mu.Lock()
	defer ls.mu.Unlock()

	launch := &ls.launch
	if launch.Status != StatusActive {
		return nil, ErrLaunchNotActive
	}

	pos, ok := ls.positions[trader]
	if !ok || pos.TokensHeld() < tokensIn {
		return nil, ErrInsufficientPosition
	}

	gross, err := lp.sellReturnLocked(launch, tokensIn)
	if err != nil {
		return nil, err
	}

	hasReferral := !referrer.IsZero()
	fb := fee.Compute(gross, cfg.FeeBps, cfg.ReferralBps, hasReferral)
	if fb.Net == 0 {
		return nil, ErrAmountTooSmall
	}
	if fb.Net < minSolOut {
		return nil, ErrSlippageExceeded
	}

	if err := lp.transfer.Transfer(launchID, trader, fb.Net); err != nil {
		return nil, err
	}
	if fb.Community > 0 {
		if err := lp.transfer.Transfer(launchID, cfg.CommunityPool, fb.Community); err != nil {
			return nil, err
		}
	}

	launch.TokensSold -= tokensIn
	launch.SolRaised -= gross
	launch.CreatorFeeEarned += fb.Creator

	pos.TokensSold += tokensIn
	pos.SolReceived += fb.Net

	if hasReferral {
		rec := ls.referral(launchID, referrer)
		rec.VolumeGenerated += gross
		rec.RewardsEarned += fb.Referral
	}

	lp.logger.Debug("sell settled",
		zap.Stringer("launch", launchID),
		zap.Stringer("trader", trader),
		zap.Uint64("tokens_in", tokensIn),
		zap.Uint64("sol_out", fb.Net),
		zap.Uint64("sol_raised", launch.SolRaised),
	)
	return &TradeResult{SolOut: fb.Net, NetSol: gross, Fee: fb}, nil
}

// sellReturnLocked prices a sell-back of tokensIn at the current fill. A
// sell that empties the curve pays out the entire raised balance so that
// tokensSold == 0 always implies solRaised == 0 despite floor rounding.
func (lp *Launchpad) sellReturnLocked(launch *Launch, tokensIn uint64) (uint64, error) {
	if tokensIn > launch.TokensSold {
		return 0, curve.ErrInvalidRange
	}
	if tokensIn == launch.TokensSold {
		return launch.SolRaised, nil
	}
	cost, err := curve.Cost(
		launch.CurveType, launch.SellAmount, launch.TargetRaise,
		launch.TokensSold-tokensIn, tokensIn)
	if err != nil {
		return 0, err
	}
	gross := cost.Floor().BigInt().Uint64()
	if gross > launch.SolRaised {
		gross = launch.SolRaised
	}
	return gross, nil
}

// QuoteBuy estimates a buy without touching state. It runs the exact code
// path Buy settles with, so an uninterleaved quote-then-buy returns the same
// token amount.
func (lp *Launchpad) QuoteBuy(launchID solana.PublicKey, solIn uint64, slippageBps uint16, hasReferral bool) (*Quote, error) {
	if solIn == 0 {
		return nil, ErrAmountTooSmall
	}
	if uint64(slippageBps) > fee.BpsDenominator {
		return nil, ErrInvalidParameters
	}
	ls, err := lp.state(launchID)
	if err != nil {
		return nil, err
	}
	cfg := lp.config()

	ls.mu.Lock()
	defer ls.mu.Unlock()

	launch := &ls.launch
	if launch.Status != StatusActive {
		return nil, ErrLaunchNotActive
	}
	fb := fee.Compute(solIn, cfg.FeeBps, cfg.ReferralBps, hasReferral)
	tokensOut, quoteLeft, err := curve.TokensForQuote(
		launch.CurveType, launch.SellAmount, launch.TargetRaise, launch.TokensSold, fb.Net)
	if err != nil {
		return nil, err
	}
	if quoteLeft.Sign() > 0 {
		return nil, ErrInsufficientLiquidity
	}
	return &Quote{
		AmountOut:    tokensOut,
		MinAmountOut: applySlippage(tokensOut, slippageBps),
		Fee:          fb,
	}, nil
}

// QuoteSell estimates a sell without touching state.
func (lp *Launchpad) QuoteSell(launchID solana.PublicKey, tokensIn uint64, slippageBps uint16, hasReferral bool) (*Quote, error) {
	if tokensIn == 0 {
		return nil, ErrAmountTooSmall
	}
	if uint64(slippageBps) > fee.BpsDenominator {
		return nil, ErrInvalidParameters
	}
	ls, err := lp.state(launchID)
	if err != nil {
		return nil, err
	}
	cfg := lp.config()

	ls.mu.Lock()
	defer ls.mu.Unlock()

	launch := &ls.launch
	if launch.Status != StatusActive {
		return nil, ErrLaunchNotActive
	}
	gross, err := lp.sellReturnLocked(launch, tokensIn)
	if err != nil {
		return nil, err
	}
	fb := fee.Compute(gross, cfg.FeeBps, cfg.ReferralBps, hasReferral)
	return &Quote{
		AmountOut:    fb.Net,
		MinAmountOut: applySlippage(fb.Net, slippageBps),
		Fee:          fb,
	}, nil
}

func applySlippage(amount uint64, slippageBps uint16) uint64 {
	if slippageBps == 0 {
		return amount
	}
	keep := new(big.Int).SetUint64(amount)
	keep.Mul(keep, big.NewInt(int64(fee.BpsDenominator-uint64(slippageBps))))
	keep.Div(keep, big.NewInt(int64(fee.BpsDenominator)))
	return keep.Uint64()
}

func (ls *launchState) position(launchID, user solana.PublicKey) *UserPosition {
	pos, ok := ls.positions[user]
	if !ok {
		pos = &UserPosition{User: user, Launch: launchID}
		ls.positions[user] = pos
	}
	return pos
}

func (ls *launchState) referral(launchID, referrer solana.PublicKey) *ReferralRecord {
	rec, ok := ls.referrals[referrer]
	if !ok {
		rec = &ReferralRecord{Referrer: referrer, Launch: launchID}
		ls.referrals[referrer] = rec
	}
	return rec
}
