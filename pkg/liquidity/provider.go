// Package liquidity implements per-user LiquidityProvider bookkeeping:
// position lookup, deposit/withdraw, time-gated reward accrual, and
// claiming.
package liquidity

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/solpmm/engine/pkg/errors"
	"github.com/solpmm/engine/pkg/fixedpoint"
	"github.com/solpmm/engine/pkg/primitives"
)

// MaxPositions is the capacity of a single provider: at most 10
// concurrent pool positions.
const MaxPositions = 10

// MinClaimPeriodSeconds is the 30-day window after which accrued
// estimated rewards become owed (claimable).
const MinClaimPeriodSeconds = 2_592_000

// MinClaimPeriod as a primitives.Duration, for call sites that prefer
// the ambient temporal type.
var MinClaimPeriod = primitives.Seconds(MinClaimPeriodSeconds)

// Position tracks one provider's stake in one pool.
type Position struct {
	Pool               common.Address
	LiquidityAmount    uint64
	RewardsOwed        uint64
	RewardsEstimated   uint64
	CumulativeInterest uint64
	LastUpdateTs       uint64
	NextClaimTs        uint64
}

// Provider is a single user's LiquidityProvider record: an owner key
// plus an ordered, bounded sequence of positions.
type Provider struct {
	Owner     common.Address
	Positions []Position
}

// FindOrAddPosition returns the existing position for pool if one
// exists, or appends (and returns) a fresh one seeded at now with its
// claim window anchored MinClaimPeriod out.
func (p *Provider) FindOrAddPosition(pool common.Address, now primitives.Time) (*Position, error) {
	for i := range p.Positions {
		if p.Positions[i].Pool == pool {
			return &p.Positions[i], nil
		}
	}
	if len(p.Positions) >= MaxPositions {
		return nil, errors.ErrInvalidInput
	}
	p.Positions = append(p.Positions, Position{
		Pool:         pool,
		LastUpdateTs: uint64(now.Unix()),
		NextClaimTs:  uint64(now.Add(MinClaimPeriod).Unix()),
	})
	return &p.Positions[len(p.Positions)-1], nil
}

// removePosition drops the position at pool if it is fully wound down
// (zero liquidity and zero owed rewards).
func (p *Provider) removePosition(pool common.Address) {
	for i := range p.Positions {
		if p.Positions[i].Pool != pool {
			continue
		}
		if p.Positions[i].LiquidityAmount == 0 && p.Positions[i].RewardsOwed == 0 {
			p.Positions = append(p.Positions[:i], p.Positions[i+1:]...)
		}
		return
	}
}

// Deposit adds amount to the position's liquidity_amount (checked).
func (p *Position) Deposit(amount uint64) error {
	sum, err := checkedAddU64(p.LiquidityAmount, amount)
	if err != nil {
		return err
	}
	p.LiquidityAmount = sum
	return nil
}

// Withdraw subtracts amount from the position's liquidity_amount.
// Fails errors.ErrInsufficientLiquidity if amount exceeds the held
// balance. The provider removes the position afterward if it is fully
// wound down.
func (p *Provider) Withdraw(pool common.Address, amount uint64) error {
	for i := range p.Positions {
		if p.Positions[i].Pool != pool {
			continue
		}
		pos := &p.Positions[i]
		if amount > pos.LiquidityAmount {
			return errors.ErrInsufficientLiquidity
		}
		pos.LiquidityAmount -= amount
		p.removePosition(pool)
		return nil
	}
	return errors.ErrInvalidPositionKey
}

// CalcAndUpdateRewards accrues the estimated reward for elapsed time
// since last_update_ts, then rolls it into rewards_owed once
// next_claim_ts has passed, per spec.md §4.6.
func (p *Position) CalcAndUpdateRewards(rewardRatio fixedpoint.Decimal, now primitives.Time) error {
	nowUnix := uint64(now.Unix())
	if nowUnix > p.LastUpdateTs {
		dt := nowUnix - p.LastUpdateTs

		liquidity, err := fixedpoint.DecimalFromUint64(p.LiquidityAmount)
		if err != nil {
			return err
		}
		period, err := fixedpoint.DecimalFromUint64(MinClaimPeriodSeconds)
		if err != nil {
			return err
		}
		elapsed, err := fixedpoint.DecimalFromUint64(dt)
		if err != nil {
			return err
		}

		accrual, err := rewardRatio.TryMul(liquidity)
		if err != nil {
			return err
		}
		accrual, err = accrual.TryDiv(period)
		if err != nil {
			return err
		}
		accrual, err = accrual.TryMul(elapsed)
		if err != nil {
			return err
		}
		floored, err := accrual.TryFloorU64()
		if err != nil {
			return err
		}

		sum, err := checkedAddU64(p.RewardsEstimated, floored)
		if err != nil {
			return err
		}
		p.RewardsEstimated = sum
		p.LastUpdateTs = nowUnix
	}

	if nowUnix >= p.NextClaimTs {
		sum, err := checkedAddU64(p.RewardsOwed, p.RewardsEstimated)
		if err != nil {
			return err
		}
		p.RewardsOwed = sum
		p.RewardsEstimated = 0

		if p.LiquidityAmount > 0 {
			next, err := checkedAddU64(p.NextClaimTs, MinClaimPeriodSeconds)
			if err != nil {
				return err
			}
			p.NextClaimTs = next
		}
	}
	return nil
}

// ClaimRewards moves rewards_owed to cumulative_interest and returns
// the amount claimed. Fails errors.ErrInsufficientClaimAmount if
// nothing is owed.
func (p *Provider) ClaimRewards(pool common.Address) (uint64, error) {
	for i := range p.Positions {
		if p.Positions[i].Pool != pool {
			continue
		}
		pos := &p.Positions[i]
		if pos.RewardsOwed == 0 {
			return 0, errors.ErrInsufficientClaimAmount
		}
		claimed := pos.RewardsOwed
		sum, err := checkedAddU64(pos.CumulativeInterest, claimed)
		if err != nil {
			return 0, err
		}
		pos.CumulativeInterest = sum
		pos.RewardsOwed = 0
		p.removePosition(pool)
		return claimed, nil
	}
	return 0, errors.ErrInvalidPositionKey
}

// PlaceholderRewardRatio reproduces the original source's
// reward-ratio input to calc_and_update_rewards: lp_mid_price / 0.1.
// SPEC_FULL.md §9 flags this as a likely placeholder; it is exposed
// here only for parity with the legacy formula, never invoked by
// default. Callers should supply their own rewardRatio.
func PlaceholderRewardRatio(lpMidPrice fixedpoint.Decimal) (fixedpoint.Decimal, error) {
	tenth, err := fixedpoint.DecimalFromScaled(fixedpoint.WAD / 10)
	if err != nil {
		return fixedpoint.ZeroDecimal(), err
	}
	return lpMidPrice.TryDiv(tenth)
}

func checkedAddU64(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, errors.ErrCalculationFailure
	}
	return sum, nil
}
