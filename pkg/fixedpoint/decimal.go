// Package fixedpoint implements the two scaled-integer types the PMM
// core is built on: Decimal, a 192-bit value scaled by WAD (10^9), and
// Rate, a 128-bit companion for smaller-range ratios. Both are
// checked: overflow, underflow, and division by zero surface as
// errors.ErrCalculationFailure rather than wrapping silently.
package fixedpoint

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/solpmm/engine/pkg/errors"
)

const (
	// WAD is the fixed-point scale factor: nine fractional digits.
	WAD = 1_000_000_000
	// HalfWAD is WAD/2, used for round-to-nearest conversions.
	HalfWAD = 500_000_000
)

var (
	wadInt     = uint256.NewInt(WAD)
	halfWadInt = uint256.NewInt(HalfWAD)

	maxUint192 = mustFromBig(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 192), big.NewInt(1)))
)

func mustFromBig(b *big.Int) *uint256.Int {
	z, overflow := uint256.FromBig(b)
	if overflow {
		panic("fixedpoint: bound constant overflows uint256")
	}
	return z
}

// Decimal is a non-negative value v/WAD, where v is held in a 256-bit
// integer but bounded to 192 bits per the spec. Decimal is immutable:
// every operation returns a new value.
type Decimal struct {
	v uint256.Int
}

// DecimalFromUint64 constructs value*WAD, i.e. the integer "value"
// represented as a Decimal.
func DecimalFromUint64(value uint64) (Decimal, error) {
	scaled := new(uint256.Int).Mul(uint256.NewInt(value), wadInt)
	return decimalFromScaled(scaled)
}

// DecimalFromScaled wraps an already-scaled raw value (v, not v/WAD)
// as a Decimal, checked against the 192-bit bound.
func DecimalFromScaled(v uint64) (Decimal, error) {
	return decimalFromScaled(uint256.NewInt(v))
}

// DecimalFromUint256 wraps an already-scaled raw uint256 value as a
// Decimal, checked against the 192-bit bound. Used by pkg/wire when
// reconstructing a Decimal from a packed record.
func DecimalFromUint256(v *uint256.Int) (Decimal, error) {
	return decimalFromScaled(v)
}

func decimalFromScaled(v *uint256.Int) (Decimal, error) {
	if v.Gt(maxUint192) {
		return Decimal{}, errors.ErrCalculationFailure
	}
	return Decimal{v: *v}, nil
}

// ZeroDecimal returns the additive identity.
func ZeroDecimal() Decimal { return Decimal{} }

// OneDecimal returns the multiplicative identity (1.0).
func OneDecimal() Decimal { return Decimal{v: *wadInt} }

// ToScaled returns the raw underlying integer v (not v/WAD).
func (d Decimal) ToScaled() *uint256.Int {
	z := d.v
	return &z
}

// IsZero reports whether d represents zero.
func (d Decimal) IsZero() bool { return d.v.IsZero() }

// Cmp compares d and other: -1, 0, or 1.
func (d Decimal) Cmp(other Decimal) int { return d.v.Cmp(&other.v) }

// GreaterThan reports whether d > other.
func (d Decimal) GreaterThan(other Decimal) bool { return d.v.Gt(&other.v) }

// LessThan reports whether d < other.
func (d Decimal) LessThan(other Decimal) bool { return d.v.Lt(&other.v) }

// Equal reports whether d == other.
func (d Decimal) Equal(other Decimal) bool { return d.v.Eq(&other.v) }

// TryAdd returns d + other, checked against the 192-bit bound.
func (d Decimal) TryAdd(other Decimal) (Decimal, error) {
	sum, overflow := new(uint256.Int).AddOverflow(&d.v, &other.v)
	if overflow {
		return Decimal{}, errors.ErrCalculationFailure
	}
	return decimalFromScaled(sum)
}

// TrySub returns d - other. Fails (rather than wrapping) if other > d.
func (d Decimal) TrySub(other Decimal) (Decimal, error) {
	if other.v.Gt(&d.v) {
		return Decimal{}, errors.ErrCalculationFailure
	}
	diff := new(uint256.Int).Sub(&d.v, &other.v)
	return Decimal{v: *diff}, nil
}

// TryMul returns d * other using the fixed-point convention
// (a*b)/WAD, so that one*x = x. The 512-bit intermediate product is
// computed before dividing, so a*b overflowing 256 bits does not
// silently truncate.
func (d Decimal) TryMul(other Decimal) (Decimal, error) {
	result, overflow := new(uint256.Int).MulDivOverflow(&d.v, &other.v, wadInt)
	if overflow {
		return Decimal{}, errors.ErrCalculationFailure
	}
	return decimalFromScaled(result)
}

// TryDiv returns d / other using the fixed-point convention
// (a*WAD)/b. Fails on division by zero.
func (d Decimal) TryDiv(other Decimal) (Decimal, error) {
	if other.v.IsZero() {
		return Decimal{}, errors.ErrCalculationFailure
	}
	result, overflow := new(uint256.Int).MulDivOverflow(&d.v, wadInt, &other.v)
	if overflow {
		return Decimal{}, errors.ErrCalculationFailure
	}
	return decimalFromScaled(result)
}

// TryFloorU64 returns floor(v/WAD) as a u64, failing if it would not
// fit.
func (d Decimal) TryFloorU64() (uint64, error) {
	return shiftDownU64(&d.v, 0)
}

// TryRoundU64 returns round(v/WAD) = floor((v+HALF_WAD)/WAD) as a u64.
func (d Decimal) TryRoundU64() (uint64, error) {
	return shiftDownU64(&d.v, HalfWAD)
}

// TryCeilU64 returns ceil(v/WAD) = floor((v+WAD-1)/WAD) as a u64.
func (d Decimal) TryCeilU64() (uint64, error) {
	return shiftDownU64(&d.v, WAD-1)
}

func shiftDownU64(v *uint256.Int, bias uint64) (uint64, error) {
	biased, overflow := new(uint256.Int).AddOverflow(v, uint256.NewInt(bias))
	if overflow {
		return 0, errors.ErrCalculationFailure
	}
	q := new(uint256.Int).Div(biased, wadInt)
	if !q.IsUint64() {
		return 0, errors.ErrCalculationFailure
	}
	return q.Uint64(), nil
}

// Sqrt rounds the represented value to the nearest integer, then
// returns the integer square root of that whole number as a Decimal
// with zero fractional part: sqrt(v/WAD) = isqrt(round(v/WAD)).
// Matches the original source's Decimal::sqrt, which rounds to a u128
// before taking isqrt rather than preserving fractional precision; a
// rounded value wider than 128 bits fails.
func (d Decimal) Sqrt() (Decimal, error) {
	rounded, overflow := new(uint256.Int).AddOverflow(&d.v, halfWadInt)
	if overflow {
		return Decimal{}, errors.ErrCalculationFailure
	}
	rounded.Div(rounded, wadInt)
	if rounded.BitLen() > 128 {
		return Decimal{}, errors.ErrCalculationFailure
	}
	root := new(uint256.Int).Sqrt(rounded)
	return decimalFromScaled(new(uint256.Int).Mul(root, wadInt))
}

// Reciprocal returns WAD^2/v. Fails on zero.
func (d Decimal) Reciprocal() (Decimal, error) {
	if d.v.IsZero() {
		return Decimal{}, errors.ErrCalculationFailure
	}
	wadSquared := new(uint256.Int).Mul(wadInt, wadInt)
	result, overflow := new(uint256.Int).MulDivOverflow(wadSquared, uint256.NewInt(1), &d.v)
	if overflow {
		return Decimal{}, errors.ErrCalculationFailure
	}
	return decimalFromScaled(result)
}

// String renders the decimal in fixed-point notation.
func (d Decimal) String() string {
	whole := new(uint256.Int).Div(&d.v, wadInt)
	frac := new(uint256.Int).Mod(&d.v, wadInt)
	return whole.Dec() + "." + padFrac(frac.Dec())
}

func padFrac(s string) string {
	const width = 9
	if len(s) >= width {
		return s
	}
	zeros := make([]byte, width-len(s))
	for i := range zeros {
		zeros[i] = '0'
	}
	return string(zeros) + s
}
