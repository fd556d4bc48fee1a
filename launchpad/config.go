package launchpad

import (
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	DefaultFeeBps      uint16 = 100 // 1%
	DefaultReferralBps uint16 = 10  // 0.1%
	MaxFeeBps          uint16 = 1000
)

// Config is the process-wide launchpad configuration. It is set once at
// initialization and threaded explicitly into every fee computation; only the
// authority-gated admin operations may change it afterwards.
type Config struct {
	FeeBps        uint16
	ReferralBps   uint16
	Authority     solana.PublicKey
	CommunityPool solana.PublicKey
}

func (c *Config) Validate() error {
	if c.FeeBps > MaxFeeBps {
		return ErrInvalidParameters
	}
	if c.ReferralBps > c.FeeBps {
		return ErrInvalidParameters
	}
	if c.Authority.IsZero() || c.CommunityPool.IsZero() {
		return ErrInvalidParameters
	}
	return nil
}

type fileConfig struct {
	FeeBps        uint16 `mapstructure:"fee_bps"`
	ReferralBps   uint16 `mapstructure:"referral_bps"`
	Authority     string `mapstructure:"authority"`
	CommunityPool string `mapstructure:"community_pool"`
}

// LoadConfig reads a launchpad configuration file (any format viper
// understands), applying protocol defaults for the fee rates.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("fee_bps", DefaultFeeBps)
	v.SetDefault("referral_bps", DefaultReferralBps)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	var fc fileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return nil, err
	}

	authority, err := solana.PublicKeyFromBase58(fc.Authority)
	if err != nil {
		return nil, ErrInvalidParameters
	}
	communityPool, err := solana.PublicKeyFromBase58(fc.CommunityPool)
	if err != nil {
		return nil, ErrInvalidParameters
	}

	cfg := &Config{
		FeeBps:        fc.FeeBps,
		ReferralBps:   fc.ReferralBps,
		Authority:     authority,
		CommunityPool: communityPool,
	}
	return cfg, cfg.Validate()
}

// UpdateFee changes the protocol fee rates. Authority-gated.
func (lp *Launchpad) UpdateFee(authority solana.PublicKey, feeBps, referralBps uint16) error {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	if !authority.Equals(lp.cfg.Authority) {
		return ErrInvalidAuthority
	}
	next := lp.cfg
	next.FeeBps = feeBps
	next.ReferralBps = referralBps
	if err := next.Validate(); err != nil {
		return err
	}
	lp.cfg = next
	lp.logger.Info("fee updated",
		zap.Uint16("fee_bps", feeBps),
		zap.Uint16("referral_bps", referralBps),
	)
	return nil
}

// RotateAuthority hands config control to a new authority. Authority-gated.
func (lp *Launchpad) RotateAuthority(authority, next solana.PublicKey) error {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	if !authority.Equals(lp.cfg.Authority) {
		return ErrInvalidAuthority
	}
	if next.IsZero() {
		return ErrInvalidParameters
	}
	lp.cfg.Authority = next
	lp.logger.Info("authority rotated", zap.Stringer("authority", next))
	return nil
}
