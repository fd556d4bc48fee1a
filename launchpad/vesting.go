package launchpad

import (
	"math/big"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// VestingSchedule releases a fixed allocation over time: nothing before the
// cliff, a linear ramp across the unlock period, everything after.
type VestingSchedule struct {
	Start  int64 // unix seconds, anchor of the schedule
	Cliff  int64 // seconds from Start with zero release
	Unlock int64 // seconds of linear release after the cliff
	Total  uint64
}

// VestedAt is the cumulative vested amount at the given time. Monotonic
// non-decreasing in now.
func (v VestingSchedule) VestedAt(now int64) uint64 {
	cliffEnd := v.Start + v.Cliff
	if now < cliffEnd {
		return 0
	}
	if v.Unlock <= 0 || now >= cliffEnd+v.Unlock {
		return v.Total
	}
	elapsed := new(big.Int).SetInt64(now - cliffEnd)
	vested := new(big.Int).SetUint64(v.Total)
	vested.Mul(vested, elapsed)
	vested.Div(vested, big.NewInt(v.Unlock))
	return vested.Uint64()
}

// ClaimableAt is the vested amount not yet withdrawn. Pure query, idempotent.
func (v VestingSchedule) ClaimableAt(now int64, withdrawn uint64) uint64 {
	vested := v.VestedAt(now)
	if vested <= withdrawn {
		return 0
	}
	return vested - withdrawn
}

func (l *Launch) vestingSchedule() VestingSchedule {
	return VestingSchedule{
		Start:  l.LaunchTime,
		Cliff:  l.CliffPeriod,
		Unlock: l.UnlockPeriod,
		Total:  l.CreatorAllocation(),
	}
}

// ClaimableCreatorTokens reports how much of the creator allocation is
// withdrawable right now.
func (lp *Launchpad) ClaimableCreatorTokens(launchID solana.PublicKey) (uint64, error) {
	ls, err := lp.state(launchID)
	if err != nil {
		return 0, err
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.launch.vestingSchedule().ClaimableAt(lp.now().Unix(), ls.vestingWithdrawn), nil
}

// WithdrawVestedTokens releases amount of the creator allocation to the
// creator. Only the creator may withdraw, and only up to the vested balance.
func (lp *Launchpad) WithdrawVestedTokens(launchID, creator solana.PublicKey, amount uint64) error {
	if amount == 0 {
		return ErrAmountTooSmall
	}
	ls, err := lp.state(launchID)
	if err != nil {
		return err
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	launch := &ls.launch
	if !creator.Equals(launch.Creator) {
		return ErrInvalidAuthority
	}
	claimable := launch.vestingSchedule().ClaimableAt(lp.now().Unix(), ls.vestingWithdrawn)
	if amount > claimable {
		return ErrVestingNotEnded
	}

	if err := lp.transfer.Transfer(launchID, creator, amount); err != nil {
		return err
	}
	ls.vestingWithdrawn += amount

	lp.logger.Info("vested tokens withdrawn",
		zap.Stringer("launch", launchID),
		zap.Uint64("amount", amount),
		zap.Uint64("withdrawn_total", ls.vestingWithdrawn),
	)
	return nil
}
