package swap

import (
	stderrors "errors"
	"testing"

	"github.com/solpmm/engine/pkg/errors"
	"github.com/solpmm/engine/pkg/fees"
	"github.com/solpmm/engine/pkg/fixedpoint"
	"github.com/solpmm/engine/pkg/pool"
)

func fd(t *testing.T, raw uint64) fixedpoint.Decimal {
	t.Helper()
	d, err := fixedpoint.DecimalFromScaled(raw)
	if err != nil {
		t.Fatalf("DecimalFromScaled: %v", err)
	}
	return d
}

func trivialPool(t *testing.T) pool.State {
	t.Helper()
	billion := fd(t, 1_000_000_000*fixedpoint.WAD)
	price := fd(t, 100*fixedpoint.WAD)
	slope := fd(t, fixedpoint.HalfWAD)
	return pool.State{
		MarketPrice:  price,
		Slope:        slope,
		BaseReserve:  billion,
		QuoteReserve: billion,
		BaseTarget:   billion,
		QuoteTarget:  billion,
		Multiplier:   pool.MultiplierOne,
	}
}

// noFees is a zero fee schedule: every ratio is 0/1.
func noFees() fees.Fees {
	zero := fees.Ratio{Numerator: 0, Denominator: 1}
	return fees.Fees{AdminTrade: zero, AdminWithdraw: zero, Trade: zero, Withdraw: zero}
}

// noRewards is a zero reward schedule with non-zero denominators.
func noRewards() fees.Rewards {
	return fees.Rewards{TradeRewardDenominator: 1, LiquidityRewardDenominator: 1}
}

func TestSwapRejectsWhenPaused(t *testing.T) {
	info := &Info{IsPaused: true, Pool: trivialPool(t)}
	e := Engine{}
	if _, err := e.Swap(info, 100, 0, SellBase, 1, nil); !stderrors.Is(err, errors.ErrIsPaused) {
		t.Fatalf("got %v, want ErrIsPaused", err)
	}
}

func TestSwapSellBaseNoOracleNoTwap(t *testing.T) {
	info := &Info{Pool: trivialPool(t), Fees: noFees(), Rewards: noRewards()}
	e := Engine{}
	result, err := e.Swap(info, 100, 0, SellBase, 1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.AmountOut != 10_000 {
		t.Fatalf("got amount_out %d, want 10000", result.AmountOut)
	}
	if info.Pool.Multiplier != pool.MultiplierBelowOne {
		t.Fatalf("got multiplier %s, want BelowOne", info.Pool.Multiplier)
	}
}

func TestSwapExceededSlippage(t *testing.T) {
	info := &Info{Pool: trivialPool(t), Fees: noFees(), Rewards: noRewards()}
	e := Engine{}
	if _, err := e.Swap(info, 100, 20_000, SellBase, 1, nil); !stderrors.Is(err, errors.ErrExceededSlippage) {
		t.Fatalf("got %v, want ErrExceededSlippage", err)
	}
}

func TestSwapAppliesTradeFeeAndAdminSplit(t *testing.T) {
	info := &Info{
		Pool: trivialPool(t),
		Fees: fees.Fees{
			Trade:      fees.Ratio{Numerator: 1, Denominator: 100},
			AdminTrade: fees.Ratio{Numerator: 1, Denominator: 2},
		},
		Rewards: noRewards(),
	}
	e := Engine{}
	result, err := e.Swap(info, 100, 0, SellBase, 1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// receive_amount = 10000, trade_fee = floor(10000/100) = 100, admin_fee = 50
	if result.AmountOut != 9_900 {
		t.Fatalf("got amount_out %d, want 9900", result.AmountOut)
	}
	if result.AdminFee != 50 {
		t.Fatalf("got admin_fee %d, want 50", result.AdminFee)
	}
}

type fakeOracle struct {
	price fixedpoint.Decimal
	err   error
}

func (f fakeOracle) Read() (fixedpoint.Decimal, error) { return f.price, f.err }

func TestSelectMarketPriceDeviationGuardIdempotence(t *testing.T) {
	info := &Info{Pool: trivialPool(t)}
	e := Engine{}
	mid, err := info.Pool.GetMidPrice()
	if err != nil {
		t.Fatalf("GetMidPrice: %v", err)
	}
	adopted, err := e.SelectMarketPrice(info, 1, fakeOracle{price: mid})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !adopted.Equal(mid) {
		t.Fatalf("got %s, want mid %s", adopted, mid)
	}
}

func TestSelectMarketPriceAdoptsLargeDeviation(t *testing.T) {
	info := &Info{Pool: trivialPool(t)}
	e := Engine{}
	mid, err := info.Pool.GetMidPrice()
	if err != nil {
		t.Fatalf("GetMidPrice: %v", err)
	}
	// A 2% deviation exceeds the 1% guard, so the oracle price should win.
	twoPercent, err := fixedpoint.DecimalFromScaled(fixedpoint.WAD / 50)
	if err != nil {
		t.Fatalf("DecimalFromScaled: %v", err)
	}
	bump, err := mid.TryMul(twoPercent)
	if err != nil {
		t.Fatalf("TryMul: %v", err)
	}
	deviated, err := mid.TryAdd(bump)
	if err != nil {
		t.Fatalf("TryAdd: %v", err)
	}
	adopted, err := e.SelectMarketPrice(info, 1, fakeOracle{price: deviated})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !adopted.Equal(deviated) {
		t.Fatalf("got %s, want deviated price %s", adopted, deviated)
	}
}

func TestDepositInitialMint(t *testing.T) {
	price := fd(t, 100*fixedpoint.WAD)
	slope := fd(t, fixedpoint.HalfWAD)
	info := &Info{Pool: pool.State{MarketPrice: price, Slope: slope}}
	e := Engine{}
	shares, err := e.Deposit(info, 1_000_000_000, 1_000_000_000, 0, 0, 1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shares != 10_000_000 {
		t.Fatalf("got shares %d, want 10000000", shares)
	}
}

func TestWithdrawNotEnough(t *testing.T) {
	billion := fd(t, 1_000_000_000*fixedpoint.WAD)
	price := fd(t, 100*fixedpoint.WAD)
	slope := fd(t, fixedpoint.HalfWAD)
	info := &Info{
		Pool: pool.State{
			MarketPrice: price, Slope: slope,
			BaseReserve: billion, QuoteReserve: billion,
			BaseTarget: billion, QuoteTarget: billion,
			Multiplier: pool.MultiplierOne,
		},
	}
	e := Engine{}
	if _, err := e.Withdraw(info, 500_000_000, 1_000_000_000, 1_000_000_000, 1_000_000_000, 1, nil); !stderrors.Is(err, errors.ErrWithdrawNotEnough) {
		t.Fatalf("got %v, want ErrWithdrawNotEnough", err)
	}
}
