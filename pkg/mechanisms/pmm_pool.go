package mechanisms

import (
	"context"
	"fmt"

	"github.com/solpmm/engine/pkg/fixedpoint"
	"github.com/solpmm/engine/pkg/primitives"
	"github.com/solpmm/engine/pkg/swap"
)

// PMMPool adapts a proactive market maker pool to the framework's
// LiquidityPool contract. It holds the pool's own bounded swap.Info
// state and drives deposits/withdrawals through swap.Engine, so the
// strategy/backtest layer exercises the exact same curve, fee, and
// reward math the on-chain swap path does — just through the
// framework's ambient Amount/Price types instead of raw u64s.
//
// TotalSupply tracks share issuance across calls since the pool
// itself carries no share ledger (that lives in the LP token mint on
// the real deployment). Now is a caller-advanced logical clock used
// for TWAP/oracle bookkeeping; backtests should set it from each
// MarketSnapshot's timestamp before calling AddLiquidity/RemoveLiquidity.
type PMMPool struct {
	PoolID      string
	Venue_      string
	Info        *swap.Info
	TotalSupply uint64
	Now         uint64

	engine swap.Engine
}

// NewPMMPool wraps an already-initialized swap.Info for use by the
// strategy/backtest framework.
func NewPMMPool(poolID, venue string, info *swap.Info) *PMMPool {
	return &PMMPool{PoolID: poolID, Venue_: venue, Info: info}
}

// Mechanism identifies this as a liquidity pool mechanism.
func (p *PMMPool) Mechanism() MechanismType { return MechanismTypeLiquidityPool }

// Venue returns this pool's deployment identifier.
func (p *PMMPool) Venue() string { return p.Venue_ }

// Calculate returns the pool's current spot price and reserves. It
// reads p.Info without mutating it: the mid price is taken from a
// copy of p.Info.Pool, since GetMidPrice adjusts targets in place.
func (p *PMMPool) Calculate(ctx context.Context, params PoolParams) (PoolState, error) {
	state := p.Info.Pool
	mid, err := state.GetMidPrice()
	if err != nil {
		return PoolState{}, fmt.Errorf("pmm pool %s: %w", p.PoolID, err)
	}
	spot, err := decimalToPrice(mid)
	if err != nil {
		return PoolState{}, err
	}
	base, err := decimalToAmount(p.Info.Pool.BaseReserve)
	if err != nil {
		return PoolState{}, err
	}
	quote, err := decimalToAmount(p.Info.Pool.QuoteReserve)
	if err != nil {
		return PoolState{}, err
	}
	return PoolState{
		SpotPrice:          spot,
		Liquidity:          base,
		EffectiveLiquidity: base,
		AccumulatedFeesA:   primitives.ZeroAmount(),
		AccumulatedFeesB:   primitives.ZeroAmount(),
		Metadata: map[string]interface{}{
			"quote_reserve": quote,
			"multiplier":    p.Info.Pool.Multiplier.String(),
		},
	}, nil
}

// AddLiquidity deposits both sides through swap.Engine.Deposit at the
// pool's currently selected market price and returns the minted share
// position.
func (p *PMMPool) AddLiquidity(ctx context.Context, amounts TokenAmounts) (PoolPosition, error) {
	baseIn, err := amountToU64(amounts.AmountA)
	if err != nil {
		return PoolPosition{}, err
	}
	quoteIn, err := amountToU64(amounts.AmountB)
	if err != nil {
		return PoolPosition{}, err
	}

	shares, err := p.engine.Deposit(p.Info, baseIn, quoteIn, 0, p.TotalSupply, p.Now, nil)
	if err != nil {
		return PoolPosition{}, fmt.Errorf("pmm pool %s: add liquidity: %w", p.PoolID, err)
	}
	p.TotalSupply += shares

	return PoolPosition{
		PoolID:          p.PoolID,
		Liquidity:       u64ToAmount(shares),
		TokensDeposited: amounts,
		Metadata: map[string]interface{}{
			"total_supply": p.TotalSupply,
		},
	}, nil
}

// RemoveLiquidity burns a position's shares through
// swap.Engine.Withdraw and returns the two-sided payout.
func (p *PMMPool) RemoveLiquidity(ctx context.Context, position PoolPosition) (TokenAmounts, error) {
	shareAmount, err := amountToU64(position.Liquidity)
	if err != nil {
		return TokenAmounts{}, err
	}

	result, err := p.engine.Withdraw(p.Info, shareAmount, 0, 0, p.TotalSupply, p.Now, nil)
	if err != nil {
		return TokenAmounts{}, fmt.Errorf("pmm pool %s: remove liquidity: %w", p.PoolID, err)
	}
	if shareAmount > p.TotalSupply {
		return TokenAmounts{}, fmt.Errorf("pmm pool %s: burning more shares than outstanding", p.PoolID)
	}
	p.TotalSupply -= shareAmount

	return TokenAmounts{
		AmountA: u64ToAmount(result.BaseOut),
		AmountB: u64ToAmount(result.QuoteOut),
	}, nil
}

func amountToU64(a primitives.Amount) (uint64, error) {
	f := a.Decimal().Float64()
	if f < 0 {
		return 0, fmt.Errorf("pmm pool: negative amount %s", a.String())
	}
	return uint64(f), nil
}

func u64ToAmount(v uint64) primitives.Amount {
	return primitives.MustAmount(primitives.NewDecimal(int64(v)))
}

func decimalToAmount(d fixedpoint.Decimal) (primitives.Amount, error) {
	v, err := d.TryFloorU64()
	if err != nil {
		return primitives.Amount{}, err
	}
	return u64ToAmount(v), nil
}

func decimalToPrice(d fixedpoint.Decimal) (primitives.Price, error) {
	dec, err := primitives.NewDecimalFromString(d.String())
	if err != nil {
		return primitives.Price{}, fmt.Errorf("pmm pool: parse price %s: %w", d.String(), err)
	}
	return primitives.NewPrice(dec)
}
