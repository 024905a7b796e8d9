// Package config loads a pool's genesis parameters from YAML: the
// initial price/slope/TWAP flag and the fee/reward schedule every
// pool under a deployment inherits from ConfigInfo.
package config

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"

	"github.com/solpmm/engine/pkg/fees"
	"github.com/solpmm/engine/pkg/fixedpoint"
)

// RatioYAML mirrors fees.Ratio for YAML decoding.
type RatioYAML struct {
	Numerator   uint64 `yaml:"numerator"`
	Denominator uint64 `yaml:"denominator"`
}

func (r RatioYAML) toRatio() fees.Ratio {
	return fees.Ratio{Numerator: r.Numerator, Denominator: r.Denominator}
}

// FeesYAML mirrors fees.Fees for YAML decoding.
type FeesYAML struct {
	AdminTrade    RatioYAML `yaml:"admin_trade"`
	AdminWithdraw RatioYAML `yaml:"admin_withdraw"`
	Trade         RatioYAML `yaml:"trade"`
	Withdraw      RatioYAML `yaml:"withdraw"`
}

func (f FeesYAML) toFees() fees.Fees {
	return fees.Fees{
		AdminTrade:    f.AdminTrade.toRatio(),
		AdminWithdraw: f.AdminWithdraw.toRatio(),
		Trade:         f.Trade.toRatio(),
		Withdraw:      f.Withdraw.toRatio(),
	}
}

// RewardsYAML mirrors fees.Rewards for YAML decoding.
type RewardsYAML struct {
	TradeRewardNumerator       uint64 `yaml:"trade_reward_numerator"`
	TradeRewardDenominator     uint64 `yaml:"trade_reward_denominator"`
	TradeRewardCap             uint64 `yaml:"trade_reward_cap"`
	LiquidityRewardNumerator   uint64 `yaml:"liquidity_reward_numerator"`
	LiquidityRewardDenominator uint64 `yaml:"liquidity_reward_denominator"`
}

func (r RewardsYAML) toRewards() fees.Rewards {
	return fees.Rewards{
		TradeRewardNumerator:       r.TradeRewardNumerator,
		TradeRewardDenominator:     r.TradeRewardDenominator,
		TradeRewardCap:             r.TradeRewardCap,
		LiquidityRewardNumerator:   r.LiquidityRewardNumerator,
		LiquidityRewardDenominator: r.LiquidityRewardDenominator,
	}
}

// PoolGenesis is a single pool's on-disk definition: the curve's
// starting price/slope/TWAP flag and its fee/reward schedule.
type PoolGenesis struct {
	Slope      float64     `yaml:"slope"`
	MidPrice   float64     `yaml:"mid_price"`
	IsOpenTwap bool        `yaml:"is_open_twap"`
	Fees       FeesYAML    `yaml:"fees"`
	Rewards    RewardsYAML `yaml:"rewards"`
}

// Deployment is the top-level config.yml structure: the admin/reward
// mint identities and every pool this deployment seeds at
// initialization.
type Deployment struct {
	AdminKey   string                 `yaml:"admin_key"`
	RewardMint string                 `yaml:"reward_mint"`
	Pools      map[string]PoolGenesis `yaml:"pools"`
}

// AdminAddress parses AdminKey as a hex-encoded account reference.
func (d Deployment) AdminAddress() common.Address {
	return common.HexToAddress(d.AdminKey)
}

// RewardMintAddress parses RewardMint as a hex-encoded account
// reference.
func (d Deployment) RewardMintAddress() common.Address {
	return common.HexToAddress(d.RewardMint)
}

// Load reads and parses a deployment's config.yml.
func Load(path string) (*Deployment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var d Deployment
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &d, nil
}

// ToFees converts the pool's YAML fee schedule into fees.Fees.
func (g PoolGenesis) ToFees() fees.Fees {
	return g.Fees.toFees()
}

// ToRewards converts the pool's YAML reward schedule into
// fees.Rewards.
func (g PoolGenesis) ToRewards() fees.Rewards {
	return g.Rewards.toRewards()
}

// ToSlope converts the YAML float slope into a fixedpoint.Decimal
// scaled by WAD.
func (g PoolGenesis) ToSlope() (fixedpoint.Decimal, error) {
	return decimalFromFloat(g.Slope)
}

// ToMidPrice converts the YAML float mid price into a
// fixedpoint.Decimal scaled by WAD.
func (g PoolGenesis) ToMidPrice() (fixedpoint.Decimal, error) {
	return decimalFromFloat(g.MidPrice)
}

func decimalFromFloat(v float64) (fixedpoint.Decimal, error) {
	scaled := uint64(v * fixedpoint.WAD)
	return fixedpoint.DecimalFromScaled(scaled)
}
