package wire

import "github.com/solpmm/engine/pkg/pool"

// PoolStateSize is the packed size of a pool.State record: six
// Decimal fields at 16 bytes each, plus a 1-byte multiplier tag.
const PoolStateSize = 97

// PackPoolState writes s into dst in the field order MarketPrice,
// Slope, BaseReserve, QuoteReserve, BaseTarget, QuoteTarget, followed
// by the Multiplier tag byte.
func PackPoolState(s pool.State, dst *[PoolStateSize]byte) error {
	if err := packDecimalAt(dst[0:16], s.MarketPrice); err != nil {
		return err
	}
	if err := packDecimalAt(dst[16:32], s.Slope); err != nil {
		return err
	}
	if err := packDecimalAt(dst[32:48], s.BaseReserve); err != nil {
		return err
	}
	if err := packDecimalAt(dst[48:64], s.QuoteReserve); err != nil {
		return err
	}
	if err := packDecimalAt(dst[64:80], s.BaseTarget); err != nil {
		return err
	}
	if err := packDecimalAt(dst[80:96], s.QuoteTarget); err != nil {
		return err
	}
	dst[96] = byte(s.Multiplier)
	return nil
}

// UnpackPoolState is PackPoolState's inverse.
func UnpackPoolState(src [PoolStateSize]byte) (pool.State, error) {
	marketPrice, err := unpackDecimalAt(src[0:16])
	if err != nil {
		return pool.State{}, err
	}
	slope, err := unpackDecimalAt(src[16:32])
	if err != nil {
		return pool.State{}, err
	}
	baseReserve, err := unpackDecimalAt(src[32:48])
	if err != nil {
		return pool.State{}, err
	}
	quoteReserve, err := unpackDecimalAt(src[48:64])
	if err != nil {
		return pool.State{}, err
	}
	baseTarget, err := unpackDecimalAt(src[64:80])
	if err != nil {
		return pool.State{}, err
	}
	quoteTarget, err := unpackDecimalAt(src[80:96])
	if err != nil {
		return pool.State{}, err
	}
	return pool.State{
		MarketPrice:  marketPrice,
		Slope:        slope,
		BaseReserve:  baseReserve,
		QuoteReserve: quoteReserve,
		BaseTarget:   baseTarget,
		QuoteTarget:  quoteTarget,
		Multiplier:   pool.Multiplier(src[96]),
	}, nil
}
