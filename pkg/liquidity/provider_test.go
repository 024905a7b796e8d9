package liquidity

import (
	stderrors "errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/solpmm/engine/pkg/errors"
	"github.com/solpmm/engine/pkg/fixedpoint"
	"github.com/solpmm/engine/pkg/primitives"
)

func addr(b byte) common.Address {
	var a common.Address
	a[0] = b
	return a
}

func TestFindOrAddPositionCapacity(t *testing.T) {
	p := &Provider{Owner: addr(1)}
	now := primitives.Unix(1_700_000_000, 0)
	for i := 0; i < MaxPositions; i++ {
		if _, err := p.FindOrAddPosition(addr(byte(i+2)), now); err != nil {
			t.Fatalf("unexpected error adding position %d: %v", i, err)
		}
	}
	if _, err := p.FindOrAddPosition(addr(99), now); err == nil {
		t.Fatalf("expected capacity error on 11th position")
	}
}

func TestFindOrAddPositionIdempotent(t *testing.T) {
	p := &Provider{Owner: addr(1)}
	now := primitives.Unix(1_700_000_000, 0)
	pool := addr(2)
	first, err := p.FindOrAddPosition(pool, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first.LiquidityAmount = 500
	second, err := p.FindOrAddPosition(pool, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.LiquidityAmount != 500 {
		t.Fatalf("expected the same position to be returned, got fresh one")
	}
}

func TestWithdrawInsufficientLiquidity(t *testing.T) {
	p := &Provider{Owner: addr(1)}
	pool := addr(2)
	now := primitives.Unix(1_700_000_000, 0)
	pos, err := p.FindOrAddPosition(pool, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pos.LiquidityAmount = 10
	if err := p.Withdraw(pool, 11); !stderrors.Is(err, errors.ErrInsufficientLiquidity) {
		t.Fatalf("got %v, want ErrInsufficientLiquidity", err)
	}
}

func TestWithdrawRemovesEmptyPosition(t *testing.T) {
	p := &Provider{Owner: addr(1)}
	pool := addr(2)
	now := primitives.Unix(1_700_000_000, 0)
	pos, err := p.FindOrAddPosition(pool, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pos.LiquidityAmount = 10
	if err := p.Withdraw(pool, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Positions) != 0 {
		t.Fatalf("expected position to be removed, len=%d", len(p.Positions))
	}
}

func TestCalcAndUpdateRewardsClaimGate(t *testing.T) {
	pool := addr(2)
	start := primitives.Unix(1_700_000_000, 0)
	pos := Position{
		Pool:            pool,
		LiquidityAmount: 1_000_000,
		LastUpdateTs:    uint64(start.Unix()),
		NextClaimTs:     uint64(start.Add(MinClaimPeriod).Unix()),
	}

	rewardRatio, err := fixedpoint.DecimalFromScaled(fixedpoint.WAD / 10) // 0.1
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Halfway through the claim period: rewards accrue as estimated,
	// nothing becomes owed yet.
	mid := start.Add(primitives.Seconds(MinClaimPeriodSeconds / 2))
	if err := pos.CalcAndUpdateRewards(rewardRatio, mid); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pos.RewardsOwed != 0 {
		t.Fatalf("rewards_owed = %d, want 0 before claim window", pos.RewardsOwed)
	}
	if pos.RewardsEstimated == 0 {
		t.Fatalf("expected rewards_estimated to accrue")
	}

	// Past the claim window: estimated rolls into owed.
	after := start.Add(MinClaimPeriod).Add(primitives.Seconds(1))
	if err := pos.CalcAndUpdateRewards(rewardRatio, after); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pos.RewardsOwed == 0 {
		t.Fatalf("expected rewards_owed to be set after claim window")
	}
	if pos.RewardsEstimated != 0 {
		t.Fatalf("expected rewards_estimated to reset to 0, got %d", pos.RewardsEstimated)
	}
}

func TestClaimRewardsInsufficientAmount(t *testing.T) {
	p := &Provider{Owner: addr(1)}
	pool := addr(2)
	now := primitives.Unix(1_700_000_000, 0)
	if _, err := p.FindOrAddPosition(pool, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.ClaimRewards(pool); !stderrors.Is(err, errors.ErrInsufficientClaimAmount) {
		t.Fatalf("got %v, want ErrInsufficientClaimAmount", err)
	}
}
