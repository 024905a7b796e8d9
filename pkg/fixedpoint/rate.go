package fixedpoint

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/solpmm/engine/pkg/errors"
)

var maxUint128 = mustFromBig(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1)))

// Rate is the 128-bit companion to Decimal, used for ratios (fee
// percentages, reward ratios) where the smaller range suffices and
// saves compute cost. Same WAD scale and same checked-arithmetic
// contract as Decimal.
type Rate struct {
	v uint256.Int
}

// RateFromUint64 constructs value*WAD as a Rate.
func RateFromUint64(value uint64) (Rate, error) {
	scaled := new(uint256.Int).Mul(uint256.NewInt(value), wadInt)
	return rateFromScaled(scaled)
}

// RateFromScaled wraps an already-scaled raw value as a Rate.
func RateFromScaled(v uint64) (Rate, error) {
	return rateFromScaled(uint256.NewInt(v))
}

func rateFromScaled(v *uint256.Int) (Rate, error) {
	if v.Gt(maxUint128) {
		return Rate{}, errors.ErrCalculationFailure
	}
	return Rate{v: *v}, nil
}

// ZeroRate returns the additive identity.
func ZeroRate() Rate { return Rate{} }

// OneRate returns the multiplicative identity (1.0).
func OneRate() Rate { return Rate{v: *wadInt} }

// ToScaled returns the raw underlying integer.
func (r Rate) ToScaled() *uint256.Int {
	z := r.v
	return &z
}

// IsZero reports whether r represents zero.
func (r Rate) IsZero() bool { return r.v.IsZero() }

// Cmp compares r and other: -1, 0, or 1.
func (r Rate) Cmp(other Rate) int { return r.v.Cmp(&other.v) }

// GreaterThan reports whether r > other.
func (r Rate) GreaterThan(other Rate) bool { return r.v.Gt(&other.v) }

// LessThan reports whether r < other.
func (r Rate) LessThan(other Rate) bool { return r.v.Lt(&other.v) }

// Equal reports whether r == other.
func (r Rate) Equal(other Rate) bool { return r.v.Eq(&other.v) }

// TryAdd returns r + other, checked against the 128-bit bound.
func (r Rate) TryAdd(other Rate) (Rate, error) {
	sum, overflow := new(uint256.Int).AddOverflow(&r.v, &other.v)
	if overflow {
		return Rate{}, errors.ErrCalculationFailure
	}
	return rateFromScaled(sum)
}

// TrySub returns r - other. Fails if other > r.
func (r Rate) TrySub(other Rate) (Rate, error) {
	if other.v.Gt(&r.v) {
		return Rate{}, errors.ErrCalculationFailure
	}
	return Rate{v: *new(uint256.Int).Sub(&r.v, &other.v)}, nil
}

// TryMul returns r * other under the fixed-point (a*b)/WAD convention.
func (r Rate) TryMul(other Rate) (Rate, error) {
	result, overflow := new(uint256.Int).MulDivOverflow(&r.v, &other.v, wadInt)
	if overflow {
		return Rate{}, errors.ErrCalculationFailure
	}
	return rateFromScaled(result)
}

// TryDiv returns r / other under the fixed-point (a*WAD)/b convention.
// Fails on division by zero.
func (r Rate) TryDiv(other Rate) (Rate, error) {
	if other.v.IsZero() {
		return Rate{}, errors.ErrCalculationFailure
	}
	result, overflow := new(uint256.Int).MulDivOverflow(&r.v, wadInt, &other.v)
	if overflow {
		return Rate{}, errors.ErrCalculationFailure
	}
	return rateFromScaled(result)
}

// TryPow raises r to the given non-negative integer exponent via
// exponentiation-by-squaring, for any future variable-rate need (the
// core pricing path never calls this).
func (r Rate) TryPow(exp uint64) (Rate, error) {
	result := OneRate()
	base := r
	for exp > 0 {
		if exp&1 == 1 {
			var err error
			result, err = result.TryMul(base)
			if err != nil {
				return Rate{}, err
			}
		}
		exp >>= 1
		if exp == 0 {
			break
		}
		var err error
		base, err = base.TryMul(base)
		if err != nil {
			return Rate{}, err
		}
	}
	return result, nil
}

// TryFloorU64 returns floor(v/WAD) as a u64.
func (r Rate) TryFloorU64() (uint64, error) {
	return shiftDownU64(&r.v, 0)
}

// TryRoundU64 returns round(v/WAD) as a u64.
func (r Rate) TryRoundU64() (uint64, error) {
	return shiftDownU64(&r.v, HalfWAD)
}

// TryCeilU64 returns ceil(v/WAD) as a u64.
func (r Rate) TryCeilU64() (uint64, error) {
	return shiftDownU64(&r.v, WAD-1)
}

// String renders the rate in fixed-point notation.
func (r Rate) String() string {
	whole := new(uint256.Int).Div(&r.v, wadInt)
	frac := new(uint256.Int).Mod(&r.v, wadInt)
	return whole.Dec() + "." + padFrac(frac.Dec())
}
