package swap

import (
	"github.com/solpmm/engine/pkg/errors"
	"github.com/solpmm/engine/pkg/fixedpoint"
	"github.com/solpmm/engine/pkg/pool"
)

// Direction selects which side of the pool a trade sells.
type Direction uint8

const (
	SellBase Direction = iota
	SellQuote
)

// OracleReader is satisfied by anything that can produce an external
// base/quote price, already resolved to the larger-over-smaller ratio
// the caller's feed pair implies. oracle.Adapter.Read and
// oracle.MockFeed.Read both match this shape once partially applied.
type OracleReader interface {
	Read() (fixedpoint.Decimal, error)
}

// Engine orchestrates a single pool's price selection, curve
// dispatch, fee/reward application, and bookkeeping update for one
// state-changing operation.
type Engine struct{}

// TradeResult is the outcome of a single swap: what the trader
// receives, what the pool's admin account is owed, and the trade
// reward minted against amount_in.
type TradeResult struct {
	AmountOut   uint64
	AdminFee    uint64
	TradeReward uint64
}

// SelectMarketPrice implements spec.md §4.7 steps 1-6: it derives the
// pool's mid price, advances the TWAP accumulator if open, and adopts
// either the oracle/TWAP price or the mid price depending on the
// deviation guard. info is mutated in place: GetMidPrice re-adjusts
// info.Pool's dormant target and BasePriceCumulative advances — the
// caller commits BlockTimestampLast/CumulativeTicks once the whole
// operation succeeds, matching the source's load-check-compute-persist
// ordering. A pool whose base and quote reserves are both zero has no
// mid price; its configured MarketPrice is returned unchanged.
func (Engine) SelectMarketPrice(info *Info, now uint64, oracle OracleReader) (fixedpoint.Decimal, error) {
	if info.Pool.BaseReserve.IsZero() && info.Pool.QuoteReserve.IsZero() {
		return info.Pool.MarketPrice, nil
	}
	mid, err := info.Pool.GetMidPrice()
	if err != nil {
		return fixedpoint.ZeroDecimal(), err
	}

	if info.IsOpenTwap && now > info.BlockTimestampLast {
		dt := now - info.BlockTimestampLast
		reservesNonzero := !info.Pool.BaseReserve.IsZero() && !info.Pool.QuoteReserve.IsZero()
		if dt > 0 && reservesNonzero {
			dtDecimal, err := fixedpoint.DecimalFromUint64(dt)
			if err != nil {
				return fixedpoint.ZeroDecimal(), err
			}
			contribution, err := mid.TryMul(dtDecimal)
			if err != nil {
				return fixedpoint.ZeroDecimal(), err
			}
			info.BasePriceCumulative, err = info.BasePriceCumulative.TryAdd(contribution)
			if err != nil {
				return fixedpoint.ZeroDecimal(), err
			}
		}
	}

	market := mid
	if oracle != nil {
		if oraclePrice, err := oracle.Read(); err == nil {
			market = oraclePrice
		} else if info.IsOpenTwap {
			if twap, twapErr := twapPrice(*info, now); twapErr == nil {
				market = twap
			}
		}
	} else if info.IsOpenTwap {
		if twap, twapErr := twapPrice(*info, now); twapErr == nil {
			market = twap
		}
	}

	var deviation fixedpoint.Decimal
	if mid.GreaterThan(market) {
		deviation, err = mid.TrySub(market)
	} else {
		deviation, err = market.TrySub(mid)
	}
	if err != nil {
		return fixedpoint.ZeroDecimal(), err
	}
	hundred, err := fixedpoint.DecimalFromUint64(100)
	if err != nil {
		return fixedpoint.ZeroDecimal(), err
	}
	scaledDeviation, err := deviation.TryMul(hundred)
	if err != nil {
		return fixedpoint.ZeroDecimal(), err
	}
	if scaledDeviation.GreaterThan(mid) {
		return market, nil
	}
	return mid, nil
}

func twapPrice(info Info, now uint64) (fixedpoint.Decimal, error) {
	if now <= info.CumulativeTicks {
		return fixedpoint.ZeroDecimal(), errors.ErrCalculationFailure
	}
	elapsed, err := fixedpoint.DecimalFromUint64(now - info.CumulativeTicks)
	if err != nil {
		return fixedpoint.ZeroDecimal(), err
	}
	return info.BasePriceCumulative.TryDiv(elapsed)
}

// Swap executes a single trade against info: it selects the market
// price, rebuilds the curve state at that price, dispatches to
// sell_base/sell_quote, applies the trade fee and admin split, and
// commits the new reserves/multiplier/TWAP bookkeeping into info. It
// fails errors.ErrIsPaused if the pool is paused and
// errors.ErrExceededSlippage if the net output undercuts
// minimumAmountOut.
func (e Engine) Swap(info *Info, amountIn, minimumAmountOut uint64, direction Direction, now uint64, oracle OracleReader) (TradeResult, error) {
	if info.IsPaused {
		return TradeResult{}, errors.ErrIsPaused
	}

	market, err := e.SelectMarketPrice(info, now, oracle)
	if err != nil {
		return TradeResult{}, err
	}

	priced := info.Pool
	priced.MarketPrice = market
	priced, err = pool.New(priced)
	if err != nil {
		return TradeResult{}, err
	}

	var receiveAmount uint64
	var newMultiplier pool.Multiplier
	switch direction {
	case SellBase:
		receiveAmount, newMultiplier, err = priced.SellBaseToken(amountIn)
	default:
		receiveAmount, newMultiplier, err = priced.SellQuoteToken(amountIn)
	}
	if err != nil {
		return TradeResult{}, err
	}

	tradeFee, err := info.Fees.TradeFee(receiveAmount)
	if err != nil {
		return TradeResult{}, err
	}
	adminFee, err := info.Fees.AdminTradeFee(tradeFee)
	if err != nil {
		return TradeResult{}, err
	}
	tradeReward, err := info.Rewards.TradeReward(amountIn)
	if err != nil {
		return TradeResult{}, err
	}
	if tradeFee > receiveAmount {
		return TradeResult{}, errors.ErrCalculationFailure
	}
	amountOut := receiveAmount - tradeFee
	if amountOut < minimumAmountOut {
		return TradeResult{}, errors.ErrExceededSlippage
	}

	baseBalance, err := priced.BaseReserve.TryFloorU64()
	if err != nil {
		return TradeResult{}, err
	}
	quoteBalance, err := priced.QuoteReserve.TryFloorU64()
	if err != nil {
		return TradeResult{}, err
	}
	switch direction {
	case SellBase:
		baseBalance += amountIn
		if amountOut > quoteBalance {
			return TradeResult{}, errors.ErrCalculationFailure
		}
		quoteBalance -= amountOut
	default:
		quoteBalance += amountIn
		if amountOut > baseBalance {
			return TradeResult{}, errors.ErrCalculationFailure
		}
		baseBalance -= amountOut
	}

	baseDecimal, err := fixedpoint.DecimalFromUint64(baseBalance)
	if err != nil {
		return TradeResult{}, err
	}
	quoteDecimal, err := fixedpoint.DecimalFromUint64(quoteBalance)
	if err != nil {
		return TradeResult{}, err
	}
	settled := priced
	settled.BaseReserve = baseDecimal
	settled.QuoteReserve = quoteDecimal
	settled.Multiplier = newMultiplier
	settled, err = pool.New(settled)
	if err != nil {
		return TradeResult{}, err
	}

	if now < info.BlockTimestampLast {
		return TradeResult{}, errors.ErrCalculationFailure
	}
	info.CumulativeTicks += now - info.BlockTimestampLast
	info.BlockTimestampLast = now
	info.Pool = settled

	return TradeResult{AmountOut: amountOut, AdminFee: adminFee, TradeReward: tradeReward}, nil
}

// Deposit rebuilds the curve state at the selected market price, mints
// shares for (tokenAAmount, tokenBAmount), and commits the new
// reserves/targets into info. Fails errors.ErrExceededSlippage if the
// minted amount undercuts minMintAmount.
func (e Engine) Deposit(info *Info, tokenAAmount, tokenBAmount, minMintAmount, totalSupply, now uint64, oracle OracleReader) (uint64, error) {
	if info.IsPaused {
		return 0, errors.ErrIsPaused
	}

	market, err := e.SelectMarketPrice(info, now, oracle)
	if err != nil {
		return 0, err
	}
	priced := info.Pool
	priced.MarketPrice = market
	priced, err = pool.New(priced)
	if err != nil {
		return 0, err
	}

	baseBalance, err := priced.BaseReserve.TryFloorU64()
	if err != nil {
		return 0, err
	}
	quoteBalance, err := priced.QuoteReserve.TryFloorU64()
	if err != nil {
		return 0, err
	}
	baseBalance += tokenAAmount
	quoteBalance += tokenBAmount

	shares, err := priced.BuyShares(baseBalance, quoteBalance, totalSupply)
	if err != nil {
		return 0, err
	}
	if shares < minMintAmount {
		return 0, errors.ErrExceededSlippage
	}

	if now < info.BlockTimestampLast {
		return 0, errors.ErrCalculationFailure
	}
	info.CumulativeTicks += now - info.BlockTimestampLast
	info.BlockTimestampLast = now
	info.Pool = priced
	return shares, nil
}

// WithdrawResult is the outcome of a two-sided liquidity withdrawal:
// the net amounts paid to the caller plus the admin's cut of the
// withdraw fee on each side.
type WithdrawResult struct {
	BaseOut       uint64
	QuoteOut      uint64
	AdminFeeBase  uint64
	AdminFeeQuote uint64
}

// Withdraw burns poolTokenAmount worth of shares, applies the
// withdraw fee to each side, and commits the shrunk reserves/targets
// into info.
func (e Engine) Withdraw(info *Info, poolTokenAmount, minimumTokenA, minimumTokenB, totalSupply, now uint64, oracle OracleReader) (WithdrawResult, error) {
	market, err := e.SelectMarketPrice(info, now, oracle)
	if err != nil {
		return WithdrawResult{}, err
	}
	priced := info.Pool
	priced.MarketPrice = market
	priced, err = pool.New(priced)
	if err != nil {
		return WithdrawResult{}, err
	}

	baseOutGross, quoteOutGross, err := priced.SellShares(poolTokenAmount, minimumTokenA, minimumTokenB, totalSupply)
	if err != nil {
		return WithdrawResult{}, err
	}

	withdrawFeeBase, err := info.Fees.WithdrawFee(baseOutGross)
	if err != nil {
		return WithdrawResult{}, err
	}
	adminFeeBase, err := info.Fees.AdminWithdrawFee(withdrawFeeBase)
	if err != nil {
		return WithdrawResult{}, err
	}
	if withdrawFeeBase > baseOutGross {
		return WithdrawResult{}, errors.ErrCalculationFailure
	}
	baseOut := baseOutGross - withdrawFeeBase

	withdrawFeeQuote, err := info.Fees.WithdrawFee(quoteOutGross)
	if err != nil {
		return WithdrawResult{}, err
	}
	adminFeeQuote, err := info.Fees.AdminWithdrawFee(withdrawFeeQuote)
	if err != nil {
		return WithdrawResult{}, err
	}
	if withdrawFeeQuote > quoteOutGross {
		return WithdrawResult{}, errors.ErrCalculationFailure
	}
	quoteOut := quoteOutGross - withdrawFeeQuote

	if now < info.BlockTimestampLast {
		return WithdrawResult{}, errors.ErrCalculationFailure
	}
	info.CumulativeTicks += now - info.BlockTimestampLast
	info.BlockTimestampLast = now
	info.Pool = priced

	return WithdrawResult{
		BaseOut:       baseOut,
		QuoteOut:      quoteOut,
		AdminFeeBase:  adminFeeBase,
		AdminFeeQuote: adminFeeQuote,
	}, nil
}
