// Package wire packs and unpacks the fixed-size, little-endian
// persisted records in spec.md §6 into contiguous byte buffers. Every
// record has a bit-exact size; there is no runtime self-describing
// encoding.
package wire

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/solpmm/engine/pkg/errors"
	"github.com/solpmm/engine/pkg/fixedpoint"
)

// PackDecimal writes d into dst as a 16-byte little-endian scaled
// integer (the wire format's u128 decimal convention; the FixedDecimal
// type's 192-bit headroom exists for intermediate arithmetic safety,
// not steady-state storage, so an out-of-range value here signals
// corrupt state rather than a legitimate value).
func PackDecimal(d fixedpoint.Decimal, dst *[16]byte) error {
	b := d.ToScaled().ToBig()
	if b.BitLen() > 128 {
		return errors.ErrCalculationFailure
	}
	be := b.Bytes()
	var buf [16]byte
	copy(buf[16-len(be):], be)
	for i, j := 0, 15; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	*dst = buf
	return nil
}

// UnpackDecimal reconstructs a Decimal from a 16-byte little-endian
// scaled integer.
func UnpackDecimal(src [16]byte) (fixedpoint.Decimal, error) {
	var be [16]byte
	for i := 0; i < 16; i++ {
		be[i] = src[15-i]
	}
	v, overflow := uint256.FromBig(new(big.Int).SetBytes(be[:]))
	if overflow {
		return fixedpoint.ZeroDecimal(), errors.ErrCalculationFailure
	}
	return fixedpoint.DecimalFromUint256(v)
}

// packDecimalAt is PackDecimal against a 16-byte window of a larger
// buffer, for the multi-field records below.
func packDecimalAt(dst []byte, d fixedpoint.Decimal) error {
	var buf [16]byte
	if err := PackDecimal(d, &buf); err != nil {
		return err
	}
	copy(dst, buf[:])
	return nil
}

// unpackDecimalAt is UnpackDecimal against a 16-byte window of a
// larger buffer.
func unpackDecimalAt(src []byte) (fixedpoint.Decimal, error) {
	var buf [16]byte
	copy(buf[:], src)
	return UnpackDecimal(buf)
}
