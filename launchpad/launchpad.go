// Package launchpad implements a token-launch bonding-curve engine: a
// creator mints a fixed-supply token, sells a bounded share of it along an
// automated pricing curve, and once the funding target is met the remaining
// liquidity migrates into an AMM pool. The engine is synchronous and holds no
// transport; identity, balance transfers and time arrive through narrow
// collaborator interfaces.
package launchpad

import (
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Transferrer is the external balance-transfer primitive, covering both the
// SOL and token legs of a settlement. Implementations are assumed atomic and
// idempotent on retry; the engine calls it before committing any state so a
// failed transfer leaves the ledger untouched.
type Transferrer interface {
	Transfer(from, to solana.PublicKey, amount uint64) error
}

type nopTransferrer struct{}

func (nopTransferrer) Transfer(from, to solana.PublicKey, amount uint64) error { return nil }

// launchState is the single logical ledger of one launch. Every mutation of
// the launch, its positions and its referral records happens under mu;
// launches never contend with each other.
type launchState struct {
	mu sync.Mutex

	launch    Launch
	positions map[solana.PublicKey]*UserPosition
	referrals map[solana.PublicKey]*ReferralRecord

	seed             *PoolSeed
	vestingWithdrawn uint64
}

// Launchpad owns the launch registry and serializes access per launch.
type Launchpad struct {
	mu       sync.RWMutex
	launches map[solana.PublicKey]*launchState

	cfg      Config
	transfer Transferrer
	now      func() time.Time
	logger   *zap.Logger
}

type Option func(*Launchpad)

func WithTransferrer(t Transferrer) Option {
	return func(lp *Launchpad) { lp.transfer = t }
}

func WithLogger(l *zap.Logger) Option {
	return func(lp *Launchpad) { lp.logger = l }
}

// WithClock overrides the time source, used by vesting and launch stamps.
func WithClock(now func() time.Time) Option {
	return func(lp *Launchpad) { lp.now = now }
}

func New(cfg Config, opts ...Option) (*Launchpad, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	lp := &Launchpad{
		launches: make(map[solana.PublicKey]*launchState),
		cfg:      cfg,
		transfer: nopTransferrer{},
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(lp)
	}
	return lp, nil
}

func (lp *Launchpad) state(launchID solana.PublicKey) (*launchState, error) {
	lp.mu.RLock()
	defer lp.mu.RUnlock()
	ls, ok := lp.launches[launchID]
	if !ok {
		return nil, ErrLaunchNotFound
	}
	return ls, nil
}

// config snapshots the current configuration. Admin operations mutate lp.cfg
// under lp.mu, so readers on the per-launch lock must copy it here instead of
// touching lp.cfg directly.
func (lp *Launchpad) config() Config {
	lp.mu.RLock()
	defer lp.mu.RUnlock()
	return lp.cfg
}

// LaunchView is the read model handed to clients: a snapshot of the record
// plus the derived display fields.
type LaunchView struct {
	ID           solana.PublicKey
	Launch       Launch
	Progress     uint64
	CurrentPrice decimal.Decimal
	Seed         *PoolSeed
}

// GetLaunch snapshots one launch without mutating it.
func (lp *Launchpad) GetLaunch(launchID solana.PublicKey) (*LaunchView, error) {
	ls, err := lp.state(launchID)
	if err != nil {
		return nil, err
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return lp.viewLocked(launchID, ls)
}

// Launches snapshots every registered launch, for list views.
func (lp *Launchpad) Launches() []*LaunchView {
	lp.mu.RLock()
	ids := make([]solana.PublicKey, 0, len(lp.launches))
	states := make([]*launchState, 0, len(lp.launches))
	for id, ls := range lp.launches {
		ids = append(ids, id)
		states = append(states, ls)
	}
	lp.mu.RUnlock()

	out := make([]*LaunchView, 0, len(states))
	for i, ls := range states {
		ls.mu.Lock()
		view, err := lp.viewLocked(ids[i], ls)
		ls.mu.Unlock()
		if err != nil {
			continue
		}
		out = append(out, view)
	}
	return out
}

func (lp *Launchpad) viewLocked(launchID solana.PublicKey, ls *launchState) (*LaunchView, error) {
	price, err := ls.launch.CurrentPrice()
	if err != nil {
		return nil, err
	}
	view := &LaunchView{
		ID:           launchID,
		Launch:       ls.launch,
		Progress:     ls.launch.Progress(),
		CurrentPrice: price,
	}
	if ls.seed != nil {
		seed := *ls.seed
		view.Seed = &seed
	}
	return view, nil
}

// PositionOf returns a copy of the trader's position for one launch.
func (lp *Launchpad) PositionOf(launchID, user solana.PublicKey) (UserPosition, error) {
	ls, err := lp.state(launchID)
	if err != nil {
		return UserPosition{}, err
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	pos, ok := ls.positions[user]
	if !ok {
		return UserPosition{}, ErrInsufficientPosition
	}
	return *pos, nil
}

// ReferralOf returns a copy of the referrer's record for one launch.
func (lp *Launchpad) ReferralOf(launchID, referrer solana.PublicKey) (ReferralRecord, error) {
	ls, err := lp.state(launchID)
	if err != nil {
		return ReferralRecord{}, err
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	rec, ok := ls.referrals[referrer]
	if !ok {
		return ReferralRecord{}, ErrNoRewardsToClaim
	}
	return *rec, nil
}
