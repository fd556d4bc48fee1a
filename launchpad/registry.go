package launchpad

import (
	"math/big"
	"net/url"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/draylabs/launchpad-go/launchpad/curve"
)

// ProgramID namespaces every derived launch identity.
var ProgramID = solana.MustPublicKeyFromBase58("DRay6fNdQ5J82H7xV6uq2aV3mNrUZ1J4PgSKsWgptcm6")

var pdaSeed = struct {
	Launch []byte
	Mint   []byte
	Pool   []byte
}{
	Launch: []byte("launch"),
	Mint:   []byte("mint"),
	Pool:   []byte("pool"),
}

// DeriveLaunchID derives the launch identity from (creator, name), so the
// same pair always collides with itself.
func DeriveLaunchID(creator solana.PublicKey, name string) (solana.PublicKey, error) {
	pub, _, err := solana.FindProgramAddress([][]byte{pdaSeed.Launch, creator.Bytes(), []byte(name)}, ProgramID)
	return pub, err
}

// DeriveMint derives the token mint reference for a launch.
func DeriveMint(creator solana.PublicKey, name string) (solana.PublicKey, error) {
	pub, _, err := solana.FindProgramAddress([][]byte{pdaSeed.Mint, creator.Bytes(), []byte(name)}, ProgramID)
	return pub, err
}

// DerivePoolAddress derives the AMM pool address seeded at migration.
func DerivePoolAddress(launchID solana.PublicKey) (solana.PublicKey, error) {
	pub, _, err := solana.FindProgramAddress([][]byte{pdaSeed.Pool, launchID.Bytes()}, ProgramID)
	return pub, err
}

const (
	// MinSellPercentage and MaxSellPercentage bound the share of the supply
	// allocated to the curve.
	MinSellPercentage = 51
	MaxSellPercentage = 80

	// MinTargetRaise is the funding-goal floor: 30 SOL.
	MinTargetRaise = 30 * solana.LAMPORTS_PER_SOL
)

type CreateLaunchParams struct {
	Creator solana.PublicKey
	Name    string
	Symbol  string
	URI     string

	TotalSupply uint64 // token base units, fixed at creation
	SellAmount  uint64 // base units allocated to the curve
	TargetRaise uint64 // lamports

	CurveType   curve.Type
	MigrateType MigrateType

	CliffPeriod  int64 // seconds
	UnlockPeriod int64 // seconds

	// Metadata optionally carries the off-chain metadata document; when set
	// it must agree with Name and Symbol.
	Metadata []byte
}

func validateCreateLaunch(p *CreateLaunchParams) error {
	if p.Creator.IsZero() {
		return ErrInvalidParameters
	}
	if len(p.Name) == 0 || len(p.Name) > MaxNameLen {
		return ErrInvalidParameters
	}
	if len(p.Symbol) == 0 || len(p.Symbol) > MaxSymbolLen {
		return ErrInvalidParameters
	}
	if len(p.URI) > MaxURILen {
		return ErrInvalidParameters
	}
	if p.URI != "" {
		if _, err := url.ParseRequestURI(p.URI); err != nil {
			return ErrInvalidParameters
		}
	}
	if p.TotalSupply < 1 {
		return ErrInvalidParameters
	}
	// 51% <= sellAmount/totalSupply <= 80%, compared in big to survive
	// u64-range supplies.
	sell100 := new(big.Int).Mul(new(big.Int).SetUint64(p.SellAmount), big.NewInt(100))
	min := new(big.Int).Mul(new(big.Int).SetUint64(p.TotalSupply), big.NewInt(MinSellPercentage))
	max := new(big.Int).Mul(new(big.Int).SetUint64(p.TotalSupply), big.NewInt(MaxSellPercentage))
	if sell100.Cmp(min) < 0 || sell100.Cmp(max) > 0 {
		return ErrInvalidParameters
	}
	if p.TargetRaise < MinTargetRaise {
		return ErrInvalidParameters
	}
	if p.CurveType > curve.TypeLogarithmic || p.MigrateType > MigrateCLMM {
		return ErrInvalidParameters
	}
	if p.CliffPeriod < 0 || p.UnlockPeriod < 0 {
		return ErrInvalidParameters
	}
	if len(p.Metadata) > 0 {
		meta, err := ParseMetadata(p.Metadata)
		if err != nil {
			return err
		}
		if meta.Name != p.Name || meta.Symbol != p.Symbol {
			return ErrInvalidParameters
		}
	}
	return nil
}

// CreateLaunch validates the parameters, derives the launch identity and
// registers the new sale. The registry is the only writer of the immutable
// launch fields.
func (lp *Launchpad) CreateLaunch(p CreateLaunchParams) (solana.PublicKey, error) {
	if err := validateCreateLaunch(&p); err != nil {
		return solana.PublicKey{}, err
	}

	launchID, err := DeriveLaunchID(p.Creator, p.Name)
	if err != nil {
		return solana.PublicKey{}, ErrInvalidParameters
	}
	mint, err := DeriveMint(p.Creator, p.Name)
	if err != nil {
		return solana.PublicKey{}, ErrInvalidParameters
	}

	lp.mu.Lock()
	defer lp.mu.Unlock()
	if _, ok := lp.launches[launchID]; ok {
		return solana.PublicKey{}, ErrDuplicateLaunch
	}

	lp.launches[launchID] = &launchState{
		launch: Launch{
			Creator:      p.Creator,
			Mint:         mint,
			Name:         p.Name,
			Symbol:       p.Symbol,
			URI:          p.URI,
			TotalSupply:  p.TotalSupply,
			SellAmount:   p.SellAmount,
			TargetRaise:  p.TargetRaise,
			CurveType:    p.CurveType,
			MigrateType:  p.MigrateType,
			Status:       StatusActive,
			CliffPeriod:  p.CliffPeriod,
			UnlockPeriod: p.UnlockPeriod,
			LaunchTime:   lp.now().Unix(),
		},
		positions: make(map[solana.PublicKey]*UserPosition),
		referrals: make(map[solana.PublicKey]*ReferralRecord),
	}

	lp.logger.Info("launch created",
		zap.Stringer("launch", launchID),
		zap.Stringer("creator", p.Creator),
		zap.String("name", p.Name),
		zap.String("symbol", p.Symbol),
		zap.Uint64("total_supply", p.TotalSupply),
		zap.Uint64("sell_amount", p.SellAmount),
		zap.Uint64("target_raise", p.TargetRaise),
		zap.Stringer("curve", p.CurveType),
		zap.Stringer("migrate", p.MigrateType),
	)
	return launchID, nil
}
