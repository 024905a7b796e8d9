// Package curve implements the three PMM pricing primitives: the
// closed-form functions that translate a reserve move (or a one-sided
// quote inflow) into a counter-token amount or a new target reserve.
// They are pure, deterministic functions of their FixedDecimal
// arguments — no pool state, no time, no I/O.
package curve

import (
	"github.com/solpmm/engine/pkg/errors"
	"github.com/solpmm/engine/pkg/fixedpoint"
)

func validateSlope(k fixedpoint.Decimal) error {
	if k.LessThan(fixedpoint.ZeroDecimal()) || k.GreaterThan(fixedpoint.OneDecimal()) {
		return errors.ErrInvalidSlope
	}
	return nil
}

// TargetAmount is Primitive A: the amount of counter-token received
// when a reserve moves from current (R) to future (F), bounded above
// by target (T): R <= F <= T.
//
//	fair = (F - R) * p
//	k=0:  return fair
//	else: penalty = T^2/(F*R) * k; return fair * (penalty + 1 - k)
func TargetAmount(target, future, current, marketPrice, slope fixedpoint.Decimal) (fixedpoint.Decimal, error) {
	zero := fixedpoint.ZeroDecimal()
	if !current.GreaterThan(zero) || future.LessThan(current) || future.GreaterThan(target) {
		return zero, errors.ErrCalculationFailure
	}

	delta, err := future.TrySub(current)
	if err != nil {
		return zero, err
	}
	fairAmount, err := delta.TryMul(marketPrice)
	if err != nil {
		return zero, err
	}

	if err := validateSlope(slope); err != nil {
		return zero, err
	}

	if slope.IsZero() {
		return fairAmount, nil
	}

	penaltyRatio, err := target.TryMul(target)
	if err != nil {
		return zero, err
	}
	penaltyRatio, err = penaltyRatio.TryDiv(future)
	if err != nil {
		return zero, err
	}
	penaltyRatio, err = penaltyRatio.TryDiv(current)
	if err != nil {
		return zero, err
	}
	penalty, err := penaltyRatio.TryMul(slope)
	if err != nil {
		return zero, err
	}
	multiplier, err := penalty.TryAdd(fixedpoint.OneDecimal())
	if err != nil {
		return zero, err
	}
	multiplier, err = multiplier.TrySub(slope)
	if err != nil {
		return zero, err
	}
	return fairAmount.TryMul(multiplier)
}

// TargetAmountReverse is Primitive B: the amount of counter-token
// produced when quote-side amount Q is supplied against target T and
// current reserve R.
func TargetAmountReverse(target, current, quoteAmount, marketPrice, slope fixedpoint.Decimal) (fixedpoint.Decimal, error) {
	zero := fixedpoint.ZeroDecimal()
	one := fixedpoint.OneDecimal()

	if !target.GreaterThan(zero) {
		return zero, errors.ErrCalculationFailure
	}
	if quoteAmount.IsZero() {
		return zero, nil
	}
	if err := validateSlope(slope); err != nil {
		return zero, err
	}

	fairAmount, err := quoteAmount.TryMul(marketPrice)
	if err != nil {
		return zero, err
	}

	if slope.IsZero() {
		if fairAmount.GreaterThan(current) {
			return current, nil
		}
		return fairAmount, nil
	}

	if slope.Equal(one) {
		return targetAmountReverseFullSlope(target, current, quoteAmount, marketPrice, fairAmount)
	}
	return targetAmountReversePartialSlope(target, current, slope, fairAmount)
}

// targetAmountReverseFullSlope handles k=1, including the mandatory
// overflow-guarded reformulation: the canonical detector for "would
// fair*current overflow" is fair*current/fair == current; when that
// check fails, switch to the equivalent grouping
// quote*current/target*price/target.
func targetAmountReverseFullSlope(target, current, quoteAmount, marketPrice, fairAmount fixedpoint.Decimal) (fixedpoint.Decimal, error) {
	var adjustedRatio fixedpoint.Decimal
	var err error

	switch {
	case fairAmount.IsZero():
		adjustedRatio = fixedpoint.ZeroDecimal()
	default:
		safe := false
		product, mulErr := fairAmount.TryMul(current)
		if mulErr == nil {
			if back, divErr := product.TryDiv(fairAmount); divErr == nil && back.Equal(current) {
				safe = true
				adjustedRatio, err = product.TryDiv(target)
				if err != nil {
					return fixedpoint.ZeroDecimal(), err
				}
				adjustedRatio, err = adjustedRatio.TryDiv(target)
				if err != nil {
					return fixedpoint.ZeroDecimal(), err
				}
			}
		}
		if !safe {
			adjustedRatio, err = quoteAmount.TryMul(current)
			if err != nil {
				return fixedpoint.ZeroDecimal(), err
			}
			adjustedRatio, err = adjustedRatio.TryDiv(target)
			if err != nil {
				return fixedpoint.ZeroDecimal(), err
			}
			adjustedRatio, err = adjustedRatio.TryMul(marketPrice)
			if err != nil {
				return fixedpoint.ZeroDecimal(), err
			}
			adjustedRatio, err = adjustedRatio.TryDiv(target)
			if err != nil {
				return fixedpoint.ZeroDecimal(), err
			}
		}
	}

	denom, err := adjustedRatio.TryAdd(fixedpoint.OneDecimal())
	if err != nil {
		return fixedpoint.ZeroDecimal(), err
	}
	num, err := current.TryMul(adjustedRatio)
	if err != nil {
		return fixedpoint.ZeroDecimal(), err
	}
	return num.TryDiv(denom)
}

func targetAmountReversePartialSlope(target, current, slope, fairAmount fixedpoint.Decimal) (fixedpoint.Decimal, error) {
	one := fixedpoint.OneDecimal()
	four, err := fixedpoint.DecimalFromUint64(4)
	if err != nil {
		return fixedpoint.ZeroDecimal(), err
	}
	two, err := fixedpoint.DecimalFromUint64(2)
	if err != nil {
		return fixedpoint.ZeroDecimal(), err
	}

	future, err := slope.TryMul(target)
	if err != nil {
		return fixedpoint.ZeroDecimal(), err
	}
	future, err = future.TryDiv(current)
	if err != nil {
		return fixedpoint.ZeroDecimal(), err
	}
	future, err = future.TryMul(target)
	if err != nil {
		return fixedpoint.ZeroDecimal(), err
	}
	future, err = future.TryAdd(fairAmount)
	if err != nil {
		return fixedpoint.ZeroDecimal(), err
	}

	oneMinusK, err := one.TrySub(slope)
	if err != nil {
		return fixedpoint.ZeroDecimal(), err
	}
	adjusted, err := oneMinusK.TryMul(current)
	if err != nil {
		return fixedpoint.ZeroDecimal(), err
	}

	isSmaller := adjusted.LessThan(future)
	if isSmaller {
		adjusted, err = future.TrySub(adjusted)
	} else {
		adjusted, err = adjusted.TrySub(future)
	}
	if err != nil {
		return fixedpoint.ZeroDecimal(), err
	}

	flooredU64, err := adjusted.TryFloorU64()
	if err != nil {
		return fixedpoint.ZeroDecimal(), err
	}
	adjusted, err = fixedpoint.DecimalFromUint64(flooredU64)
	if err != nil {
		return fixedpoint.ZeroDecimal(), err
	}

	discRoot, err := oneMinusK.TryMul(four)
	if err != nil {
		return fixedpoint.ZeroDecimal(), err
	}
	discRoot, err = discRoot.TryMul(slope)
	if err != nil {
		return fixedpoint.ZeroDecimal(), err
	}
	discRoot, err = discRoot.TryMul(target)
	if err != nil {
		return fixedpoint.ZeroDecimal(), err
	}
	discRoot, err = discRoot.TryMul(target)
	if err != nil {
		return fixedpoint.ZeroDecimal(), err
	}

	adjustedSquared, err := adjusted.TryMul(adjusted)
	if err != nil {
		return fixedpoint.ZeroDecimal(), err
	}
	discRoot, err = adjustedSquared.TryAdd(discRoot)
	if err != nil {
		return fixedpoint.ZeroDecimal(), err
	}
	sqrtValue, err := discRoot.Sqrt()
	if err != nil {
		return fixedpoint.ZeroDecimal(), err
	}

	denominator, err := oneMinusK.TryMul(two)
	if err != nil {
		return fixedpoint.ZeroDecimal(), err
	}

	var numerator fixedpoint.Decimal
	if isSmaller {
		numerator, err = sqrtValue.TrySub(adjusted)
	} else {
		numerator, err = adjusted.TryAdd(sqrtValue)
	}
	if err != nil {
		return fixedpoint.ZeroDecimal(), err
	}

	candidate, err := numerator.TryDiv(denominator)
	if err != nil {
		return fixedpoint.ZeroDecimal(), err
	}
	if candidate.GreaterThan(current) {
		return fixedpoint.ZeroDecimal(), nil
	}
	return current.TrySub(candidate)
}

// TargetReserve is Primitive C: the new target reserve after a
// one-sided quote inflow Q against current reserve R.
func TargetReserve(current, quoteAmount, marketPrice, slope fixedpoint.Decimal) (fixedpoint.Decimal, error) {
	zero := fixedpoint.ZeroDecimal()
	one := fixedpoint.OneDecimal()

	if current.IsZero() {
		return zero, nil
	}
	if slope.IsZero() {
		scaled, err := quoteAmount.TryMul(marketPrice)
		if err != nil {
			return zero, err
		}
		return scaled.TryAdd(current)
	}
	if err := validateSlope(slope); err != nil {
		return zero, err
	}

	four, err := fixedpoint.DecimalFromUint64(4)
	if err != nil {
		return zero, err
	}
	priceOffset, err := marketPrice.TryMul(slope)
	if err != nil {
		return zero, err
	}
	priceOffset, err = priceOffset.TryMul(four)
	if err != nil {
		return zero, err
	}

	var sqrtArg fixedpoint.Decimal
	switch {
	case priceOffset.IsZero():
		sqrtArg = one
	default:
		safe := false
		product, mulErr := priceOffset.TryMul(quoteAmount)
		if mulErr == nil {
			if back, divErr := product.TryDiv(priceOffset); divErr == nil && back.Equal(quoteAmount) {
				safe = true
				sqrtArg, err = product.TryDiv(current)
				if err != nil {
					return zero, err
				}
			}
		}
		if !safe {
			sqrtArg, err = priceOffset.TryDiv(current)
			if err != nil {
				return zero, err
			}
			sqrtArg, err = sqrtArg.TryMul(quoteAmount)
			if err != nil {
				return zero, err
			}
		}
		sqrtArg, err = sqrtArg.TryAdd(one)
		if err != nil {
			return zero, err
		}
	}

	sqrtValue, err := sqrtArg.Sqrt()
	if err != nil {
		return zero, err
	}

	two, err := fixedpoint.DecimalFromUint64(2)
	if err != nil {
		return zero, err
	}
	premium, err := sqrtValue.TrySub(one)
	if err != nil {
		return zero, err
	}
	premium, err = premium.TryDiv(two)
	if err != nil {
		return zero, err
	}
	premium, err = premium.TryDiv(slope)
	if err != nil {
		return zero, err
	}
	premium, err = premium.TryAdd(one)
	if err != nil {
		return zero, err
	}
	return premium.TryMul(current)
}
