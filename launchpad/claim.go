package launchpad

import (
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// ClaimCreatorFees pays the creator their accrued fee share and zeroes the
// accrual. Only the launch creator may claim.
func (lp *Launchpad) ClaimCreatorFees(launchID, creator solana.PublicKey) (uint64, error) {
	ls, err := lp.state(launchID)
	if err != nil {
		return 0, err
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	launch := &ls.launch
	if !creator.Equals(launch.Creator) {
		return 0, ErrInvalidAuthority
	}
	amount := launch.CreatorFeeEarned
	if amount == 0 {
		return 0, ErrNoFeesToClaim
	}

	if err := lp.transfer.Transfer(launchID, creator, amount); err != nil {
		return 0, err
	}
	launch.CreatorFeeEarned = 0

	lp.logger.Info("creator fees claimed",
		zap.Stringer("launch", launchID),
		zap.Uint64("amount", amount),
	)
	return amount, nil
}

// ClaimReferralRewards pays out the referrer's unclaimed rewards and advances
// the claim watermark. Earned totals are never reduced, so re-claiming after
// new referred volume pays only the delta.
func (lp *Launchpad) ClaimReferralRewards(launchID, referrer solana.PublicKey) (uint64, error) {
	ls, err := lp.state(launchID)
	if err != nil {
		return 0, err
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	rec, ok := ls.referrals[referrer]
	if !ok {
		return 0, ErrNoRewardsToClaim
	}
	amount := rec.RewardsEarned - rec.RewardsClaimed
	if amount == 0 {
		return 0, ErrNoRewardsToClaim
	}

	if err := lp.transfer.Transfer(launchID, referrer, amount); err != nil {
		return 0, err
	}
	rec.RewardsClaimed = rec.RewardsEarned

	lp.logger.Info("referral rewards claimed",
		zap.Stringer("launch", launchID),
		zap.Stringer("referrer", referrer),
		zap.Uint64("amount", amount),
	)
	return amount, nil
}
