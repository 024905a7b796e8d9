package fees

import "github.com/solpmm/engine/pkg/fixedpoint"

// Rewards holds the trade-reward (sqrt-scaled, capped) and
// liquidity-reward (linear) formulas.
type Rewards struct {
	TradeRewardNumerator      uint64
	TradeRewardDenominator    uint64
	TradeRewardCap            uint64
	LiquidityRewardNumerator  uint64
	LiquidityRewardDenominator uint64
}

// TradeReward returns min(floor(sqrt(amount) * n/d), cap).
func (r Rewards) TradeReward(amount uint64) (uint64, error) {
	value, err := fixedpoint.DecimalFromUint64(amount)
	if err != nil {
		return 0, err
	}
	root, err := value.Sqrt()
	if err != nil {
		return 0, err
	}
	num, err := fixedpoint.DecimalFromUint64(r.TradeRewardNumerator)
	if err != nil {
		return 0, err
	}
	den, err := fixedpoint.DecimalFromUint64(r.TradeRewardDenominator)
	if err != nil {
		return 0, err
	}
	scaled, err := root.TryMul(num)
	if err != nil {
		return 0, err
	}
	scaled, err = scaled.TryDiv(den)
	if err != nil {
		return 0, err
	}

	cap, err := fixedpoint.DecimalFromUint64(r.TradeRewardCap)
	if err != nil {
		return 0, err
	}
	if scaled.GreaterThan(cap) {
		return r.TradeRewardCap, nil
	}
	return scaled.TryFloorU64()
}

// LiquidityReward returns floor(amount * n/d).
func (r Rewards) LiquidityReward(amount uint64) (uint64, error) {
	value, err := fixedpoint.DecimalFromUint64(amount)
	if err != nil {
		return 0, err
	}
	num, err := fixedpoint.DecimalFromUint64(r.LiquidityRewardNumerator)
	if err != nil {
		return 0, err
	}
	den, err := fixedpoint.DecimalFromUint64(r.LiquidityRewardDenominator)
	if err != nil {
		return 0, err
	}
	scaled, err := value.TryMul(num)
	if err != nil {
		return 0, err
	}
	scaled, err = scaled.TryDiv(den)
	if err != nil {
		return 0, err
	}
	return scaled.TryFloorU64()
}
