package launchpad

import (
	"errors"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/draylabs/launchpad-go/launchpad/curve"
)

var errTransferFailed = errors.New("transfer failed")

type transferCall struct {
	From   solana.PublicKey
	To     solana.PublicKey
	Amount uint64
}

// ledgerTransferrer records every transfer the engine requests.
type ledgerTransferrer struct {
	calls []transferCall
	fail  bool
}

func (l *ledgerTransferrer) Transfer(from, to solana.PublicKey, amount uint64) error {
	if l.fail {
		return errTransferFailed
	}
	l.calls = append(l.calls, transferCall{From: from, To: to, Amount: amount})
	return nil
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func testConfig() Config {
	return Config{
		FeeBps:        100,
		ReferralBps:   10,
		Authority:     solana.NewWallet().PublicKey(),
		CommunityPool: solana.NewWallet().PublicKey(),
	}
}

func newTestEngine(t *testing.T, cfg Config) (*Launchpad, *ledgerTransferrer, *fakeClock) {
	t.Helper()
	xfer := &ledgerTransferrer{}
	clock := &fakeClock{now: time.Unix(1_756_000_000, 0)}
	lp, err := New(cfg, WithTransferrer(xfer), WithClock(clock.Now))
	require.NoError(t, err)
	return lp, xfer, clock
}

// testLaunchParams is a 1B-supply launch selling 70% for 85 SOL on a linear
// curve, 9 token decimals.
func testLaunchParams(creator solana.PublicKey) CreateLaunchParams {
	return CreateLaunchParams{
		Creator:      creator,
		Name:         "Dray Token",
		Symbol:       "DRAY",
		URI:          "https://example.com/dray.json",
		TotalSupply:  1_000_000_000_000_000_000,
		SellAmount:   700_000_000_000_000_000,
		TargetRaise:  85 * solana.LAMPORTS_PER_SOL,
		CurveType:    curve.TypeLinear,
		MigrateType:  MigrateCPMM,
		CliffPeriod:  86_400,
		UnlockPeriod: 30 * 86_400,
	}
}

func createTestLaunch(t *testing.T, lp *Launchpad, creator solana.PublicKey) solana.PublicKey {
	t.Helper()
	launchID, err := lp.CreateLaunch(testLaunchParams(creator))
	require.NoError(t, err)
	return launchID
}
