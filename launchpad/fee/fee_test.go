package fee

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeWithReferral(t *testing.T) {
	fb := Compute(10_000, 100, 10, true)

	assert.Equal(t, uint64(100), fb.Total)
	assert.Equal(t, uint64(9_900), fb.Net)
	assert.Equal(t, uint64(10), fb.Referral)
	assert.Equal(t, uint64(45), fb.Creator)
	assert.Equal(t, uint64(45), fb.Community)
	assert.Equal(t, fb.Total, fb.Referral+fb.Creator+fb.Community)
}

func TestComputeWithoutReferral(t *testing.T) {
	fb := Compute(10_000, 100, 10, false)

	assert.Equal(t, uint64(100), fb.Total)
	assert.Zero(t, fb.Referral)
	assert.Equal(t, uint64(50), fb.Creator)
	assert.Equal(t, uint64(50), fb.Community)
}

func TestComputeOddFeeSplit(t *testing.T) {
	// An odd remainder lands on the community side, never lost.
	fb := Compute(10_100, 100, 10, true)

	assert.Equal(t, uint64(101), fb.Total)
	assert.Equal(t, uint64(10), fb.Referral)
	assert.Equal(t, uint64(45), fb.Creator)
	assert.Equal(t, uint64(46), fb.Community)
	assert.Equal(t, fb.Total, fb.Referral+fb.Creator+fb.Community)
}

func TestComputeZeroFee(t *testing.T) {
	fb := Compute(10_000, 0, 0, true)

	assert.Equal(t, uint64(10_000), fb.Net)
	assert.Zero(t, fb.Total)
	assert.Zero(t, fb.Referral)
}

func TestComputeReferralCappedByFee(t *testing.T) {
	// referralBps above feeBps never pays more than the fee itself.
	fb := Compute(10_000, 10, 100, true)

	assert.Equal(t, uint64(10), fb.Total)
	assert.Equal(t, uint64(10), fb.Referral)
	assert.Zero(t, fb.Creator)
	assert.Zero(t, fb.Community)
}

func TestComputeSmallAmounts(t *testing.T) {
	fb := Compute(1, 100, 10, true)

	assert.Zero(t, fb.Total)
	assert.Equal(t, uint64(1), fb.Net)
}
