package wire

import (
	"encoding/binary"

	"github.com/solpmm/engine/pkg/errors"
	"github.com/solpmm/engine/pkg/liquidity"
)

var errTooManyPositions = errors.ErrInvalidInput

// LiquidityPositionSize is the packed size of a liquidity.Position
// record: a 32-byte pool key plus six u64 fields.
const LiquidityPositionSize = 32 + 8*6

// LiquidityProviderSize is the packed size of a liquidity.Provider
// record: an init flag, a 32-byte owner key, a position count, and
// liquidity.MaxPositions fixed Position slots.
const LiquidityProviderSize = 1 + 32 + 1 + liquidity.MaxPositions*LiquidityPositionSize

// PackLiquidityPosition writes p into dst.
func PackLiquidityPosition(p liquidity.Position, dst *[LiquidityPositionSize]byte) {
	var poolBuf [32]byte
	PackAddress(p.Pool, &poolBuf)
	copy(dst[0:32], poolBuf[:])
	binary.LittleEndian.PutUint64(dst[32:40], p.LiquidityAmount)
	binary.LittleEndian.PutUint64(dst[40:48], p.RewardsOwed)
	binary.LittleEndian.PutUint64(dst[48:56], p.RewardsEstimated)
	binary.LittleEndian.PutUint64(dst[56:64], p.CumulativeInterest)
	binary.LittleEndian.PutUint64(dst[64:72], p.LastUpdateTs)
	binary.LittleEndian.PutUint64(dst[72:80], p.NextClaimTs)
}

// UnpackLiquidityPosition is PackLiquidityPosition's inverse.
func UnpackLiquidityPosition(src [LiquidityPositionSize]byte) liquidity.Position {
	var poolBuf [32]byte
	copy(poolBuf[:], src[0:32])
	return liquidity.Position{
		Pool:               UnpackAddress(poolBuf),
		LiquidityAmount:    binary.LittleEndian.Uint64(src[32:40]),
		RewardsOwed:        binary.LittleEndian.Uint64(src[40:48]),
		RewardsEstimated:   binary.LittleEndian.Uint64(src[48:56]),
		CumulativeInterest: binary.LittleEndian.Uint64(src[56:64]),
		LastUpdateTs:       binary.LittleEndian.Uint64(src[64:72]),
		NextClaimTs:        binary.LittleEndian.Uint64(src[72:80]),
	}
}

// PackLiquidityProvider writes p into dst. Positions beyond
// len(p.Positions) are zero-filled; position_count records the real
// length so UnpackLiquidityProvider can trim the padding back off.
func PackLiquidityProvider(p liquidity.Provider, dst *[LiquidityProviderSize]byte) error {
	if len(p.Positions) > liquidity.MaxPositions {
		return errTooManyPositions
	}
	dst[0] = boolByte(true)
	var ownerBuf [32]byte
	PackAddress(p.Owner, &ownerBuf)
	copy(dst[1:33], ownerBuf[:])
	dst[33] = byte(len(p.Positions))

	off := 34
	for i := 0; i < liquidity.MaxPositions; i++ {
		var posBuf [LiquidityPositionSize]byte
		if i < len(p.Positions) {
			PackLiquidityPosition(p.Positions[i], &posBuf)
		}
		copy(dst[off:off+LiquidityPositionSize], posBuf[:])
		off += LiquidityPositionSize
	}
	return nil
}

// UnpackLiquidityProvider is PackLiquidityProvider's inverse.
func UnpackLiquidityProvider(src [LiquidityProviderSize]byte) (liquidity.Provider, error) {
	var ownerBuf [32]byte
	copy(ownerBuf[:], src[1:33])
	count := int(src[33])
	if count > liquidity.MaxPositions {
		return liquidity.Provider{}, errTooManyPositions
	}

	provider := liquidity.Provider{Owner: UnpackAddress(ownerBuf)}
	off := 34
	for i := 0; i < count; i++ {
		var posBuf [LiquidityPositionSize]byte
		copy(posBuf[:], src[off:off+LiquidityPositionSize])
		provider.Positions = append(provider.Positions, UnpackLiquidityPosition(posBuf))
		off += LiquidityPositionSize
	}
	return provider, nil
}
