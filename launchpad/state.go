package launchpad

import (
	"bytes"
	"math/big"

	binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"github.com/draylabs/launchpad-go/launchpad/curve"
)

const (
	MaxNameLen   = 32
	MaxSymbolLen = 10
	MaxURILen    = 200
)

// MigrateType selects the pool family that receives liquidity once the
// funding target is met.
type MigrateType uint8

const (
	MigrateCPMM MigrateType = iota
	MigrateCLMM
)

func (m MigrateType) String() string {
	switch m {
	case MigrateCPMM:
		return "cpmm"
	case MigrateCLMM:
		return "clmm"
	default:
		return "unknown"
	}
}

// LaunchStatus is terminal once it leaves StatusActive.
type LaunchStatus uint8

const (
	StatusActive LaunchStatus = iota
	StatusMigrated
	StatusCancelled
)

func (s LaunchStatus) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusMigrated:
		return "migrated"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Launch is one bonding-curve sale. Immutable fields are written once by the
// registry; TokensSold/SolRaised move only under the launch lock, and Status
// flips only through migration or cancellation.
type Launch struct {
	Creator solana.PublicKey
	Mint    solana.PublicKey
	Name    string
	Symbol  string
	URI     string

	TotalSupply uint64
	SellAmount  uint64
	TargetRaise uint64

	TokensSold uint64
	SolRaised  uint64

	CurveType   curve.Type
	MigrateType MigrateType
	Status      LaunchStatus

	CreatorFeeEarned uint64

	CliffPeriod  int64 // seconds
	UnlockPeriod int64 // seconds
	LaunchTime   int64 // unix seconds
	MigrateTime  int64 // unix seconds, zero while active

	PoolAddress solana.PublicKey
}

// Progress reports how much of the curve allocation has been sold, 0-100.
func (l *Launch) Progress() uint64 {
	if l.SellAmount == 0 {
		return 0
	}
	p := new(big.Int).Mul(new(big.Int).SetUint64(l.TokensSold), big.NewInt(100))
	return p.Div(p, new(big.Int).SetUint64(l.SellAmount)).Uint64()
}

// CurrentPrice is the spot price at the current fill, lamports per base unit.
func (l *Launch) CurrentPrice() (decimal.Decimal, error) {
	return curve.Price(l.CurveType, l.SellAmount, l.TargetRaise, l.TokensSold)
}

// CreatorAllocation is the supply held back from the curve, released to the
// creator under the vesting schedule.
func (l *Launch) CreatorAllocation() uint64 {
	return l.TotalSupply - l.SellAmount
}

// UserPosition tracks one trader's legs against one launch. Held tokens are
// bought minus sold back.
type UserPosition struct {
	User   solana.PublicKey
	Launch solana.PublicKey

	TokensBought uint64
	TokensSold   uint64
	SolSpent     uint64
	SolReceived  uint64
}

func (p *UserPosition) TokensHeld() uint64 {
	return p.TokensBought - p.TokensSold
}

// ReferralRecord accrues rewards per (launch, referrer) pair. RewardsClaimed
// is a watermark; earned rewards are never reduced.
type ReferralRecord struct {
	Referrer solana.PublicKey
	Launch   solana.PublicKey

	VolumeGenerated uint64
	RewardsEarned   uint64
	RewardsClaimed  uint64
}

// Marshal encodes the launch record with Borsh, the persisted layout.
func (l *Launch) Marshal() ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := binary.NewBorshEncoder(buf).Encode(l); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func DecodeLaunch(data []byte) (*Launch, error) {
	out := new(Launch)
	if err := binary.NewBorshDecoder(data).Decode(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *UserPosition) Marshal() ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := binary.NewBorshEncoder(buf).Encode(p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func DecodeUserPosition(data []byte) (*UserPosition, error) {
	out := new(UserPosition)
	if err := binary.NewBorshDecoder(data).Decode(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ReferralRecord) Marshal() ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := binary.NewBorshEncoder(buf).Encode(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func DecodeReferralRecord(data []byte) (*ReferralRecord, error) {
	out := new(ReferralRecord)
	if err := binary.NewBorshDecoder(data).Decode(out); err != nil {
		return nil, err
	}
	return out, nil
}
