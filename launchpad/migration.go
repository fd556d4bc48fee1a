package launchpad

import (
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/draylabs/launchpad-go/decimal_math"
)

// LP allocation split applied at migration. Protocol constants, not
// per-launch parameters.
const (
	LPBurnPercent = 90
	LPLockPercent = 10
)

const sqrtPrecision = 128

// PoolSeed is the liquidity pair and LP allocation computed at migration.
// Burned LP is permanently unredeemable; locked LP stays under the launch's
// own custody.
type PoolSeed struct {
	Pool        solana.PublicKey
	BaseAmount  uint64 // unsold curve tokens, base units
	QuoteAmount uint64 // lamports paired against them
	LPMinted    uint64
	LPBurned    uint64
	LPLocked    uint64
}

// computeSeed builds the migration pair from the post-trade fill: the unsold
// curve tokens against the full raised balance. Fee accruals held in launch
// custody are not part of the raise and stay claimable after migration.
func (lp *Launchpad) computeSeed(launchID solana.PublicKey, launch *Launch, tokensSold, solRaised uint64) (*PoolSeed, error) {
	pool, err := DerivePoolAddress(launchID)
	if err != nil {
		return nil, ErrInvalidParameters
	}

	base := launch.SellAmount - tokensSold
	quote := solRaised

	var minted uint64
	switch launch.MigrateType {
	case MigrateCPMM:
		minted = cpmmLiquidity(base, quote)
	case MigrateCLMM:
		minted = clmmLiquidity(base, quote)
	default:
		return nil, ErrInvalidParameters
	}

	burned := new(big.Int).SetUint64(minted)
	burned.Mul(burned, big.NewInt(LPBurnPercent))
	burned.Div(burned, big.NewInt(100))
	lpBurned := burned.Uint64()
	return &PoolSeed{
		Pool:        pool,
		BaseAmount:  base,
		QuoteAmount: quote,
		LPMinted:    minted,
		LPBurned:    lpBurned,
		LPLocked:    minted - lpBurned,
	}, nil
}

// cpmmLiquidity is the constant-product mint, floor(sqrt(base*quote)).
func cpmmLiquidity(base, quote uint64) uint64 {
	if base == 0 || quote == 0 {
		return 0
	}
	product := decimal.NewFromUint64(base).Mul(decimal.NewFromUint64(quote))
	return decimal_math.Sqrt(product, sqrtPrecision).Floor().BigInt().Uint64()
}

// clmmLiquidity is the concentrated-liquidity mint for the quote leg over the
// full range, quote/sqrt(price) in Q64.64 fixed point. For a pool seeded at
// price = quote/base this agrees with the constant-product mint.
func clmmLiquidity(base, quote uint64) uint64 {
	if base == 0 || quote == 0 {
		return 0
	}
	q := new(big.Int).SetUint64(quote)

	sqrtPrice := new(big.Int).Lsh(q, 128)
	sqrtPrice.Div(sqrtPrice, new(big.Int).SetUint64(base))
	sqrtPrice.Sqrt(sqrtPrice)
	if sqrtPrice.Sign() == 0 {
		return 0
	}

	liquidity := new(big.Int).Lsh(q, 128)
	liquidity.Div(liquidity, sqrtPrice)
	liquidity.Rsh(liquidity, 64)
	return liquidity.Uint64()
}

// commitMigrationLocked flips the launch to Migrated and records the seed.
// Caller holds the launch lock and has already moved the quote leg.
func (lp *Launchpad) commitMigrationLocked(launchID solana.PublicKey, ls *launchState, seed *PoolSeed) {
	ls.seed = seed
	ls.launch.Status = StatusMigrated
	ls.launch.MigrateTime = lp.now().Unix()
	ls.launch.PoolAddress = seed.Pool

	lp.logger.Info("launch migrated",
		zap.Stringer("launch", launchID),
		zap.Stringer("pool", seed.Pool),
		zap.Stringer("migrate", ls.launch.MigrateType),
		zap.Uint64("base_amount", seed.BaseAmount),
		zap.Uint64("quote_amount", seed.QuoteAmount),
		zap.Uint64("lp_minted", seed.LPMinted),
		zap.Uint64("lp_burned", seed.LPBurned),
		zap.Uint64("lp_locked", seed.LPLocked),
	)
}

// Migrate drives the migration of a launch whose funding target has been
// reached. Buys that cross the target migrate inline; this entry point covers
// re-driving after an external transfer failure. Calling it on an already
// migrated launch returns ErrAlreadyMigrated, never a double seed.
func (lp *Launchpad) Migrate(launchID solana.PublicKey) (*PoolSeed, error) {
	ls, err := lp.state(launchID)
	if err != nil {
		return nil, err
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	launch := &ls.launch
	switch launch.Status {
	case StatusMigrated:
		return nil, ErrAlreadyMigrated
	case StatusCancelled:
		return nil, ErrLaunchNotActive
	}
	if launch.SolRaised < launch.TargetRaise {
		return nil, ErrGoalNotReached
	}

	seed, err := lp.computeSeed(launchID, launch, launch.TokensSold, launch.SolRaised)
	if err != nil {
		return nil, err
	}
	if err := lp.transfer.Transfer(launchID, seed.Pool, seed.QuoteAmount); err != nil {
		return nil, err
	}
	lp.commitMigrationLocked(launchID, ls, seed)

	out := *seed
	return &out, nil
}

// Cancel terminates an active launch. Authority-gated; the creator may also
// cancel their own launch. Raised balances stay claimable through sells until
// cancellation, not after, so cancelling a launch with open positions is an
// operator decision.
func (lp *Launchpad) Cancel(launchID, authority solana.PublicKey) error {
	ls, err := lp.state(launchID)
	if err != nil {
		return err
	}
	cfg := lp.config()

	ls.mu.Lock()
	defer ls.mu.Unlock()

	launch := &ls.launch
	if launch.Status != StatusActive {
		return ErrLaunchNotActive
	}
	if !authority.Equals(cfg.Authority) && !authority.Equals(launch.Creator) {
		return ErrInvalidAuthority
	}

	launch.Status = StatusCancelled
	lp.logger.Info("launch cancelled",
		zap.Stringer("launch", launchID),
		zap.Stringer("authority", authority),
	)
	return nil
}
