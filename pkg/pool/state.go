// Package pool implements the PoolState machine: the object that
// composes the PMM curve (package curve) with deposit/withdraw share
// accounting and the three-valued multiplier state machine.
package pool

import (
	"github.com/solpmm/engine/pkg/curve"
	"github.com/solpmm/engine/pkg/errors"
	"github.com/solpmm/engine/pkg/fixedpoint"
)

// Multiplier tags which side of the curve is currently in excess. It
// is modeled as a tagged enum (wire tag byte 0/1/2), not three
// booleans, so State's methods encode the (state, action) transition
// table as one switch over this tag.
type Multiplier uint8

const (
	// MultiplierOne: base_reserve = base_target and quote_reserve =
	// quote_target.
	MultiplierOne Multiplier = iota
	// MultiplierAboveOne: quote_reserve > quote_target and
	// base_reserve < base_target (base side depleted).
	MultiplierAboveOne
	// MultiplierBelowOne: base_reserve > base_target and
	// quote_reserve < quote_target (quote side depleted).
	MultiplierBelowOne
)

// String renders the multiplier tag for diagnostics.
func (m Multiplier) String() string {
	switch m {
	case MultiplierOne:
		return "One"
	case MultiplierAboveOne:
		return "AboveOne"
	case MultiplierBelowOne:
		return "BelowOne"
	default:
		return "Invalid"
	}
}

// State is the PMM pool's curve state: fair price, slope, the four
// reserve/target values, and which multiplier regime currently
// applies.
type State struct {
	MarketPrice  fixedpoint.Decimal
	Slope        fixedpoint.Decimal
	BaseReserve  fixedpoint.Decimal
	QuoteReserve fixedpoint.Decimal
	BaseTarget   fixedpoint.Decimal
	QuoteTarget  fixedpoint.Decimal
	Multiplier   Multiplier
}

// New constructs a State and immediately calls AdjustTarget, mirroring
// the constructor contract of the original curve implementation.
func New(params State) (State, error) {
	s := params
	if err := s.AdjustTarget(); err != nil {
		return State{}, err
	}
	return s, nil
}

// AdjustTarget brings the dormant target in line with the opposite
// reserve after a price movement. It is a no-op when Multiplier is
// MultiplierOne.
func (s *State) AdjustTarget() error {
	switch s.Multiplier {
	case MultiplierBelowOne:
		delta, err := s.BaseReserve.TrySub(s.BaseTarget)
		if err != nil {
			return err
		}
		target, err := curve.TargetReserve(s.QuoteReserve, delta, s.MarketPrice, s.Slope)
		if err != nil {
			return err
		}
		s.QuoteTarget = target
	case MultiplierAboveOne:
		delta, err := s.QuoteReserve.TrySub(s.QuoteTarget)
		if err != nil {
			return err
		}
		inversePrice, err := s.MarketPrice.Reciprocal()
		if err != nil {
			return err
		}
		target, err := curve.TargetReserve(s.BaseReserve, delta, inversePrice, s.Slope)
		if err != nil {
			return err
		}
		s.BaseTarget = target
	}
	return nil
}

// GetMidPrice calls AdjustTarget, then returns the curve-adjusted fair
// price of base in quote units.
func (s *State) GetMidPrice() (fixedpoint.Decimal, error) {
	if err := s.AdjustTarget(); err != nil {
		return fixedpoint.ZeroDecimal(), err
	}

	one := fixedpoint.OneDecimal()
	if s.Multiplier == MultiplierBelowOne {
		m, err := s.QuoteTarget.TryMul(s.QuoteTarget)
		if err != nil {
			return fixedpoint.ZeroDecimal(), err
		}
		m, err = m.TryDiv(s.QuoteReserve)
		if err != nil {
			return fixedpoint.ZeroDecimal(), err
		}
		m, err = m.TryDiv(s.QuoteReserve)
		if err != nil {
			return fixedpoint.ZeroDecimal(), err
		}
		m, err = m.TryMul(s.Slope)
		if err != nil {
			return fixedpoint.ZeroDecimal(), err
		}
		m, err = m.TryAdd(one)
		if err != nil {
			return fixedpoint.ZeroDecimal(), err
		}
		m, err = m.TrySub(s.Slope)
		if err != nil {
			return fixedpoint.ZeroDecimal(), err
		}
		return s.MarketPrice.TryDiv(m)
	}

	m, err := s.BaseTarget.TryMul(s.BaseTarget)
	if err != nil {
		return fixedpoint.ZeroDecimal(), err
	}
	m, err = m.TryDiv(s.BaseReserve)
	if err != nil {
		return fixedpoint.ZeroDecimal(), err
	}
	m, err = m.TryDiv(s.BaseReserve)
	if err != nil {
		return fixedpoint.ZeroDecimal(), err
	}
	m, err = m.TryMul(s.Slope)
	if err != nil {
		return fixedpoint.ZeroDecimal(), err
	}
	m, err = m.TryAdd(one)
	if err != nil {
		return fixedpoint.ZeroDecimal(), err
	}
	m, err = m.TrySub(s.Slope)
	if err != nil {
		return fixedpoint.ZeroDecimal(), err
	}
	return s.MarketPrice.TryMul(m)
}

func (s *State) sellBaseWithMultiplier(baseAmount fixedpoint.Decimal, multiplier Multiplier) (fixedpoint.Decimal, error) {
	switch multiplier {
	case MultiplierOne:
		return curve.TargetAmountReverse(s.QuoteTarget, s.QuoteTarget, baseAmount, s.MarketPrice, s.Slope)
	case MultiplierAboveOne:
		future, err := s.BaseReserve.TryAdd(baseAmount)
		if err != nil {
			return fixedpoint.ZeroDecimal(), err
		}
		return curve.TargetAmount(s.BaseTarget, future, s.BaseReserve, s.MarketPrice, s.Slope)
	default: // MultiplierBelowOne
		return curve.TargetAmountReverse(s.QuoteTarget, s.QuoteReserve, baseAmount, s.MarketPrice, s.Slope)
	}
}

// SellBaseToken dispatches on the current multiplier per spec.md
// §4.4's transition table and returns the quote amount received plus
// the resulting multiplier. The result is floored to u64 at the
// boundary.
func (s *State) SellBaseToken(baseAmount uint64) (uint64, Multiplier, error) {
	amount, err := fixedpoint.DecimalFromUint64(baseAmount)
	if err != nil {
		return 0, 0, err
	}

	var quoteAmount fixedpoint.Decimal
	var newMultiplier Multiplier

	switch s.Multiplier {
	case MultiplierOne:
		quoteAmount, err = s.sellBaseWithMultiplier(amount, MultiplierOne)
		if err != nil {
			return 0, 0, err
		}
		newMultiplier = MultiplierBelowOne
	case MultiplierBelowOne:
		quoteAmount, err = s.sellBaseWithMultiplier(amount, MultiplierBelowOne)
		if err != nil {
			return 0, 0, err
		}
		newMultiplier = MultiplierBelowOne
	case MultiplierAboveOne:
		backToOnePayBase, err := s.BaseTarget.TrySub(s.BaseReserve)
		if err != nil {
			return 0, 0, err
		}
		backToOneReceiveQuote, err := s.QuoteReserve.TrySub(s.QuoteTarget)
		if err != nil {
			return 0, 0, err
		}

		switch {
		case backToOnePayBase.GreaterThan(amount):
			out, err := s.sellBaseWithMultiplier(amount, MultiplierAboveOne)
			if err != nil {
				return 0, 0, err
			}
			if backToOneReceiveQuote.LessThan(out) {
				out = backToOneReceiveQuote
			}
			quoteAmount, newMultiplier = out, MultiplierAboveOne
		case backToOnePayBase.Equal(amount):
			quoteAmount, newMultiplier = backToOneReceiveQuote, MultiplierOne
		default:
			remainder, err := amount.TrySub(backToOnePayBase)
			if err != nil {
				return 0, 0, err
			}
			out, err := s.sellBaseWithMultiplier(remainder, MultiplierOne)
			if err != nil {
				return 0, 0, err
			}
			out, err = out.TryAdd(backToOneReceiveQuote)
			if err != nil {
				return 0, 0, err
			}
			quoteAmount, newMultiplier = out, MultiplierBelowOne
		}
	}

	floored, err := quoteAmount.TryFloorU64()
	if err != nil {
		return 0, 0, err
	}
	return floored, newMultiplier, nil
}

func (s *State) sellQuoteWithMultiplier(quoteAmount fixedpoint.Decimal, multiplier Multiplier) (fixedpoint.Decimal, error) {
	inversePrice, err := s.MarketPrice.Reciprocal()
	if err != nil {
		return fixedpoint.ZeroDecimal(), err
	}
	switch multiplier {
	case MultiplierOne:
		return curve.TargetAmountReverse(s.BaseTarget, s.BaseTarget, quoteAmount, inversePrice, s.Slope)
	case MultiplierAboveOne:
		return curve.TargetAmountReverse(s.BaseTarget, s.BaseReserve, quoteAmount, inversePrice, s.Slope)
	default: // MultiplierBelowOne
		future, err := s.QuoteReserve.TryAdd(quoteAmount)
		if err != nil {
			return fixedpoint.ZeroDecimal(), err
		}
		return curve.TargetAmount(s.QuoteTarget, future, s.QuoteReserve, inversePrice, s.Slope)
	}
}

// SellQuoteToken is the symmetric mirror of SellBaseToken (swap
// base<->quote, use 1/p).
func (s *State) SellQuoteToken(quoteAmount uint64) (uint64, Multiplier, error) {
	amount, err := fixedpoint.DecimalFromUint64(quoteAmount)
	if err != nil {
		return 0, 0, err
	}

	var baseAmount fixedpoint.Decimal
	var newMultiplier Multiplier

	switch s.Multiplier {
	case MultiplierOne:
		baseAmount, err = s.sellQuoteWithMultiplier(amount, MultiplierOne)
		if err != nil {
			return 0, 0, err
		}
		newMultiplier = MultiplierAboveOne
	case MultiplierAboveOne:
		baseAmount, err = s.sellQuoteWithMultiplier(amount, MultiplierAboveOne)
		if err != nil {
			return 0, 0, err
		}
		newMultiplier = MultiplierAboveOne
	case MultiplierBelowOne:
		backToOnePayQuote, err := s.QuoteTarget.TrySub(s.QuoteReserve)
		if err != nil {
			return 0, 0, err
		}
		backToOneReceiveBase, err := s.BaseReserve.TrySub(s.BaseTarget)
		if err != nil {
			return 0, 0, err
		}

		switch {
		case backToOnePayQuote.GreaterThan(amount):
			out, err := s.sellQuoteWithMultiplier(amount, MultiplierBelowOne)
			if err != nil {
				return 0, 0, err
			}
			if backToOneReceiveBase.LessThan(out) {
				out = backToOneReceiveBase
			}
			baseAmount, newMultiplier = out, MultiplierBelowOne
		case backToOnePayQuote.Equal(amount):
			baseAmount, newMultiplier = backToOneReceiveBase, MultiplierOne
		default:
			remainder, err := amount.TrySub(backToOnePayQuote)
			if err != nil {
				return 0, 0, err
			}
			out, err := s.sellQuoteWithMultiplier(remainder, MultiplierOne)
			if err != nil {
				return 0, 0, err
			}
			out, err = out.TryAdd(backToOneReceiveBase)
			if err != nil {
				return 0, 0, err
			}
			baseAmount, newMultiplier = out, MultiplierAboveOne
		}
	}

	floored, err := baseAmount.TryFloorU64()
	if err != nil {
		return 0, 0, err
	}
	return floored, newMultiplier, nil
}

// BuyShares deposits (base_balance, quote_balance) as the pool's new
// reserves and mints LP shares proportionally (or performs the
// initial mint when total_supply is zero).
func (s *State) BuyShares(baseBalance, quoteBalance, totalSupply uint64) (uint64, error) {
	base, err := fixedpoint.DecimalFromUint64(baseBalance)
	if err != nil {
		return 0, err
	}
	quote, err := fixedpoint.DecimalFromUint64(quoteBalance)
	if err != nil {
		return 0, err
	}

	baseInput, err := base.TrySub(s.BaseReserve)
	if err != nil {
		return 0, err
	}
	if _, err := quote.TrySub(s.QuoteReserve); err != nil {
		return 0, err
	}
	if baseInput.IsZero() {
		return 0, errors.ErrInsufficientFunds
	}

	var shares fixedpoint.Decimal
	switch {
	case totalSupply == 0:
		priceTimesBase, err := s.MarketPrice.TryMul(base)
		if err != nil {
			return 0, err
		}
		if priceTimesBase.GreaterThan(quote) {
			shares, err = quote.TryDiv(s.MarketPrice)
			if err != nil {
				return 0, err
			}
		} else {
			shares = base
		}
		s.BaseTarget = shares
		s.QuoteTarget, err = shares.TryMul(s.MarketPrice)
		if err != nil {
			return 0, err
		}
	case s.BaseReserve.GreaterThan(fixedpoint.ZeroDecimal()) && s.QuoteReserve.GreaterThan(fixedpoint.ZeroDecimal()):
		baseInputRatio, err := baseInput.TryDiv(s.BaseReserve)
		if err != nil {
			return 0, err
		}
		quoteInput, err := quote.TrySub(s.QuoteReserve)
		if err != nil {
			return 0, err
		}
		quoteInputRatio, err := quoteInput.TryDiv(s.QuoteReserve)
		if err != nil {
			return 0, err
		}
		mintRatio := baseInputRatio
		if quoteInputRatio.LessThan(mintRatio) {
			mintRatio = quoteInputRatio
		}
		supply, err := fixedpoint.DecimalFromUint64(totalSupply)
		if err != nil {
			return 0, err
		}
		shares, err = mintRatio.TryMul(supply)
		if err != nil {
			return 0, err
		}

		baseGrowth, err := s.BaseTarget.TryMul(mintRatio)
		if err != nil {
			return 0, err
		}
		s.BaseTarget, err = baseGrowth.TryAdd(s.BaseTarget)
		if err != nil {
			return 0, err
		}
		quoteGrowth, err := s.QuoteTarget.TryMul(mintRatio)
		if err != nil {
			return 0, err
		}
		s.QuoteTarget, err = quoteGrowth.TryAdd(s.QuoteTarget)
		if err != nil {
			return 0, err
		}
	default:
		return 0, errors.ErrIncorrectMint
	}

	s.BaseReserve = base
	s.QuoteReserve = quote
	return shares.TryFloorU64()
}

// SellShares withdraws share_amount worth of both reserves
// proportionally, shrinking both targets to match, and enforces the
// caller's minimum-out bounds.
func (s *State) SellShares(shareAmount, minBase, minQuote, totalSupply uint64) (uint64, uint64, error) {
	share, err := fixedpoint.DecimalFromUint64(shareAmount)
	if err != nil {
		return 0, 0, err
	}
	supply, err := fixedpoint.DecimalFromUint64(totalSupply)
	if err != nil {
		return 0, 0, err
	}

	baseAmount, err := proportional(s.BaseReserve, share, supply)
	if err != nil {
		return 0, 0, err
	}
	quoteAmount, err := proportional(s.QuoteReserve, share, supply)
	if err != nil {
		return 0, 0, err
	}

	baseReduction, err := proportional(s.BaseTarget, share, supply)
	if err != nil {
		return 0, 0, err
	}
	quoteReduction, err := proportional(s.QuoteTarget, share, supply)
	if err != nil {
		return 0, 0, err
	}
	// Open-question hardening (SPEC_FULL.md §9.3): assert the target
	// reduction never drives a target negative before committing,
	// even though the source's checked-sub would already catch this.
	if s.BaseTarget.LessThan(baseReduction) || s.QuoteTarget.LessThan(quoteReduction) {
		return 0, 0, errors.ErrCalculationFailure
	}
	newBaseTarget, err := s.BaseTarget.TrySub(baseReduction)
	if err != nil {
		return 0, 0, err
	}
	newQuoteTarget, err := s.QuoteTarget.TrySub(quoteReduction)
	if err != nil {
		return 0, 0, err
	}

	minBaseDecimal, err := fixedpoint.DecimalFromUint64(minBase)
	if err != nil {
		return 0, 0, err
	}
	minQuoteDecimal, err := fixedpoint.DecimalFromUint64(minQuote)
	if err != nil {
		return 0, 0, err
	}
	if baseAmount.LessThan(minBaseDecimal) || quoteAmount.LessThan(minQuoteDecimal) {
		return 0, 0, errors.ErrWithdrawNotEnough
	}

	s.BaseTarget = newBaseTarget
	s.QuoteTarget = newQuoteTarget
	s.BaseReserve, err = s.BaseReserve.TrySub(baseAmount)
	if err != nil {
		return 0, 0, err
	}
	s.QuoteReserve, err = s.QuoteReserve.TrySub(quoteAmount)
	if err != nil {
		return 0, 0, err
	}

	baseOut, err := baseAmount.TryFloorU64()
	if err != nil {
		return 0, 0, err
	}
	quoteOut, err := quoteAmount.TryFloorU64()
	if err != nil {
		return 0, 0, err
	}
	return baseOut, quoteOut, nil
}

func proportional(value, share, supply fixedpoint.Decimal) (fixedpoint.Decimal, error) {
	scaled, err := value.TryMul(share)
	if err != nil {
		return fixedpoint.ZeroDecimal(), err
	}
	return scaled.TryDiv(supply)
}

// CalculateDepositAmount derives the actual (base, quote) amounts that
// will be deposited for a requested (base_in, quote_in) pair, scaling
// down the larger side to match the pool's current reserve ratio.
func (s *State) CalculateDepositAmount(baseIn, quoteIn uint64) (uint64, uint64, error) {
	base, err := fixedpoint.DecimalFromUint64(baseIn)
	if err != nil {
		return 0, 0, err
	}
	quote, err := fixedpoint.DecimalFromUint64(quoteIn)
	if err != nil {
		return 0, 0, err
	}

	var outBase, outQuote fixedpoint.Decimal
	switch {
	case s.BaseReserve.IsZero() && s.QuoteReserve.IsZero():
		priceTimesBase, err := s.MarketPrice.TryMul(base)
		if err != nil {
			return 0, 0, err
		}
		var shares fixedpoint.Decimal
		if priceTimesBase.GreaterThan(quote) {
			shares, err = quote.TryDiv(s.MarketPrice)
		} else {
			shares = base
		}
		if err != nil {
			return 0, 0, err
		}
		outBase = shares
		outQuote, err = shares.TryMul(s.MarketPrice)
		if err != nil {
			return 0, 0, err
		}
	case s.BaseReserve.GreaterThan(fixedpoint.ZeroDecimal()) && s.QuoteReserve.GreaterThan(fixedpoint.ZeroDecimal()):
		baseRatio, err := base.TryDiv(s.BaseReserve)
		if err != nil {
			return 0, 0, err
		}
		quoteRatio, err := quote.TryDiv(s.QuoteReserve)
		if err != nil {
			return 0, 0, err
		}
		if baseRatio.LessThan(quoteRatio) {
			outBase = base
			outQuote, err = s.QuoteReserve.TryMul(baseRatio)
			if err != nil {
				return 0, 0, err
			}
		} else {
			outBase, err = s.BaseReserve.TryMul(quoteRatio)
			if err != nil {
				return 0, 0, err
			}
			outQuote = quote
		}
	default:
		outBase, outQuote = base, quote
	}

	baseOut, err := outBase.TryFloorU64()
	if err != nil {
		return 0, 0, err
	}
	quoteOut, err := outQuote.TryFloorU64()
	if err != nil {
		return 0, 0, err
	}
	return baseOut, quoteOut, nil
}
