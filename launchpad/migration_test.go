package launchpad

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// feelessConfig makes raised lamports equal the lamports sent, so tests can
// steer solRaised onto exact thresholds.
func feelessConfig() Config {
	cfg := testConfig()
	cfg.FeeBps = 0
	cfg.ReferralBps = 0
	return cfg
}

func TestBuyCrossingTargetMigrates(t *testing.T) {
	lp, xfer, clock := newTestEngine(t, feelessConfig())
	trader := solana.NewWallet().PublicKey()
	launchID := createTestLaunch(t, lp, solana.NewWallet().PublicKey())

	first, err := lp.Buy(launchID, trader, solana.PublicKey{}, 40*solana.LAMPORTS_PER_SOL, 0)
	require.NoError(t, err)
	assert.False(t, first.Migrated)

	view, err := lp.GetLaunch(launchID)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, view.Launch.Status)

	// This buy lands solRaised exactly on the 85 SOL target and must flip
	// the launch on this very trade.
	second, err := lp.Buy(launchID, trader, solana.PublicKey{}, 45*solana.LAMPORTS_PER_SOL, 0)
	require.NoError(t, err)
	assert.True(t, second.Migrated)

	view, err = lp.GetLaunch(launchID)
	require.NoError(t, err)
	assert.Equal(t, StatusMigrated, view.Launch.Status)
	assert.Equal(t, uint64(85*solana.LAMPORTS_PER_SOL), view.Launch.SolRaised)
	assert.Equal(t, clock.Now().Unix(), view.Launch.MigrateTime)

	require.NotNil(t, view.Seed)
	seed := view.Seed
	assert.Equal(t, view.Launch.PoolAddress, seed.Pool)
	assert.NotZero(t, seed.LPMinted)
	assert.Equal(t, seed.LPMinted*LPBurnPercent/100, seed.LPBurned)
	assert.Equal(t, seed.LPMinted-seed.LPBurned, seed.LPLocked)
	assert.LessOrEqual(t, seed.QuoteAmount, view.Launch.SolRaised)

	// The quote leg moved from the launch to the pool.
	last := xfer.calls[len(xfer.calls)-1]
	assert.Equal(t, transferCall{launchID, seed.Pool, seed.QuoteAmount}, last)

	// Terminal: no further trading, no second seed.
	_, err = lp.Buy(launchID, trader, solana.PublicKey{}, solana.LAMPORTS_PER_SOL, 0)
	assert.ErrorIs(t, err, ErrLaunchNotActive)
	_, err = lp.Sell(launchID, trader, solana.PublicKey{}, 1, 0)
	assert.ErrorIs(t, err, ErrLaunchNotActive)
	_, err = lp.Migrate(launchID)
	assert.ErrorIs(t, err, ErrAlreadyMigrated)
}

func TestMigrateGoalNotReached(t *testing.T) {
	lp, _, _ := newTestEngine(t, feelessConfig())
	trader := solana.NewWallet().PublicKey()
	launchID := createTestLaunch(t, lp, solana.NewWallet().PublicKey())

	_, err := lp.Buy(launchID, trader, solana.PublicKey{}, 10*solana.LAMPORTS_PER_SOL, 0)
	require.NoError(t, err)

	_, err = lp.Migrate(launchID)
	assert.ErrorIs(t, err, ErrGoalNotReached)

	view, err := lp.GetLaunch(launchID)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, view.Launch.Status)
	assert.Nil(t, view.Seed)
}

func TestMigrateNotFound(t *testing.T) {
	lp, _, _ := newTestEngine(t, feelessConfig())
	_, err := lp.Migrate(solana.NewWallet().PublicKey())
	assert.ErrorIs(t, err, ErrLaunchNotFound)
}

func TestCLMMMigration(t *testing.T) {
	lp, _, _ := newTestEngine(t, feelessConfig())
	trader := solana.NewWallet().PublicKey()

	p := testLaunchParams(solana.NewWallet().PublicKey())
	p.MigrateType = MigrateCLMM
	launchID, err := lp.CreateLaunch(p)
	require.NoError(t, err)

	res, err := lp.Buy(launchID, trader, solana.PublicKey{}, 85*solana.LAMPORTS_PER_SOL, 0)
	require.NoError(t, err)
	assert.True(t, res.Migrated)

	view, err := lp.GetLaunch(launchID)
	require.NoError(t, err)
	require.NotNil(t, view.Seed)
	assert.NotZero(t, view.Seed.LPMinted)
}

func TestLiquidityVariantsAgree(t *testing.T) {
	// Seeded at the same price, the concentrated-liquidity mint for the
	// quote leg equals the constant-product mint up to fixed-point rounding.
	base := uint64(300_000_000_000_000_000)
	quote := uint64(50_000_000_000)

	cp := cpmmLiquidity(base, quote)
	cl := clmmLiquidity(base, quote)
	require.NotZero(t, cp)
	assert.InEpsilon(t, float64(cp), float64(cl), 1e-9)
}

func TestCancel(t *testing.T) {
	cfg := feelessConfig()
	lp, _, _ := newTestEngine(t, cfg)
	creator := solana.NewWallet().PublicKey()
	launchID := createTestLaunch(t, lp, creator)

	err := lp.Cancel(launchID, solana.NewWallet().PublicKey())
	assert.ErrorIs(t, err, ErrInvalidAuthority)

	require.NoError(t, lp.Cancel(launchID, cfg.Authority))

	view, err := lp.GetLaunch(launchID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, view.Launch.Status)

	_, err = lp.Buy(launchID, creator, solana.PublicKey{}, solana.LAMPORTS_PER_SOL, 0)
	assert.ErrorIs(t, err, ErrLaunchNotActive)
	assert.ErrorIs(t, lp.Cancel(launchID, cfg.Authority), ErrLaunchNotActive)
	_, err = lp.Migrate(launchID)
	assert.ErrorIs(t, err, ErrLaunchNotActive)
}

func TestCreatorCanCancelOwnLaunch(t *testing.T) {
	lp, _, _ := newTestEngine(t, feelessConfig())
	creator := solana.NewWallet().PublicKey()
	launchID := createTestLaunch(t, lp, creator)

	require.NoError(t, lp.Cancel(launchID, creator))
}
