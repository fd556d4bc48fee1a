package launchpad

import "errors"

var (
	ErrInvalidParameters     = errors.New("launchpad: invalid parameters")
	ErrDuplicateLaunch       = errors.New("launchpad: duplicate (creator, name) launch")
	ErrLaunchNotFound        = errors.New("launchpad: launch not found")
	ErrLaunchNotActive       = errors.New("launchpad: launch is not active")
	ErrInsufficientLiquidity = errors.New("launchpad: insufficient liquidity on the curve")
	ErrInsufficientPosition  = errors.New("launchpad: insufficient token position")
	ErrSlippageExceeded      = errors.New("launchpad: slippage tolerance exceeded")
	ErrAlreadyMigrated       = errors.New("launchpad: launch already migrated")
	ErrGoalNotReached        = errors.New("launchpad: fund raising goal not reached")
	ErrInvalidAuthority      = errors.New("launchpad: invalid authority")
	ErrAmountTooSmall        = errors.New("launchpad: amount too small")
	ErrNoFeesToClaim         = errors.New("launchpad: no fees to claim")
	ErrNoRewardsToClaim      = errors.New("launchpad: no rewards to claim")
	ErrVestingNotEnded       = errors.New("launchpad: vesting period not ended")
)
