package wire

import (
	"encoding/binary"

	"github.com/solpmm/engine/pkg/swap"
)

// SwapInfoSize is the packed size of a swap.Info record: three flag
// bytes, seven 32-byte account references, the Fees/Rewards/PoolState
// sub-records, and the TWAP bookkeeping fields.
const SwapInfoSize = 1 + 1 + 1 + 7*32 + FeesSize + RewardsSize + PoolStateSize + 1 + 8 + 8 + 16

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// PackSwapInfo writes s into dst.
func PackSwapInfo(s swap.Info, dst *[SwapInfoSize]byte) error {
	dst[0] = boolByte(s.IsInitialized)
	dst[1] = boolByte(s.IsPaused)
	dst[2] = s.Nonce

	off := 3
	packAddrField := func(a [20]byte) {
		var buf [32]byte
		var tmp [20]byte
		copy(tmp[:], a[:])
		PackAddress(tmp, &buf)
		copy(dst[off:off+32], buf[:])
		off += 32
	}
	packAddrField(s.TokenA)
	packAddrField(s.TokenB)
	packAddrField(s.PoolMint)
	packAddrField(s.TokenAMint)
	packAddrField(s.TokenBMint)
	packAddrField(s.AdminFeeA)
	packAddrField(s.AdminFeeB)

	var feesBuf [FeesSize]byte
	PackFees(s.Fees, &feesBuf)
	copy(dst[off:off+FeesSize], feesBuf[:])
	off += FeesSize

	var rewardsBuf [RewardsSize]byte
	PackRewards(s.Rewards, &rewardsBuf)
	copy(dst[off:off+RewardsSize], rewardsBuf[:])
	off += RewardsSize

	var poolBuf [PoolStateSize]byte
	if err := PackPoolState(s.Pool, &poolBuf); err != nil {
		return err
	}
	copy(dst[off:off+PoolStateSize], poolBuf[:])
	off += PoolStateSize

	dst[off] = boolByte(s.IsOpenTwap)
	off++
	binary.LittleEndian.PutUint64(dst[off:off+8], s.BlockTimestampLast)
	off += 8
	binary.LittleEndian.PutUint64(dst[off:off+8], s.CumulativeTicks)
	off += 8
	return packDecimalAt(dst[off:off+16], s.BasePriceCumulative)
}

// UnpackSwapInfo is PackSwapInfo's inverse.
func UnpackSwapInfo(src [SwapInfoSize]byte) (swap.Info, error) {
	var out swap.Info
	out.IsInitialized = src[0] != 0
	out.IsPaused = src[1] != 0
	out.Nonce = src[2]

	off := 3
	readAddr := func() [20]byte {
		var buf [32]byte
		copy(buf[:], src[off:off+32])
		off += 32
		return UnpackAddress(buf)
	}
	out.TokenA = readAddr()
	out.TokenB = readAddr()
	out.PoolMint = readAddr()
	out.TokenAMint = readAddr()
	out.TokenBMint = readAddr()
	out.AdminFeeA = readAddr()
	out.AdminFeeB = readAddr()

	var feesBuf [FeesSize]byte
	copy(feesBuf[:], src[off:off+FeesSize])
	out.Fees = UnpackFees(feesBuf)
	off += FeesSize

	var rewardsBuf [RewardsSize]byte
	copy(rewardsBuf[:], src[off:off+RewardsSize])
	out.Rewards = UnpackRewards(rewardsBuf)
	off += RewardsSize

	var poolBuf [PoolStateSize]byte
	copy(poolBuf[:], src[off:off+PoolStateSize])
	poolState, err := UnpackPoolState(poolBuf)
	if err != nil {
		return swap.Info{}, err
	}
	out.Pool = poolState
	off += PoolStateSize

	out.IsOpenTwap = src[off] != 0
	off++
	out.BlockTimestampLast = binary.LittleEndian.Uint64(src[off : off+8])
	off += 8
	out.CumulativeTicks = binary.LittleEndian.Uint64(src[off : off+8])
	off += 8
	cumulative, err := unpackDecimalAt(src[off : off+16])
	if err != nil {
		return swap.Info{}, err
	}
	out.BasePriceCumulative = cumulative
	return out, nil
}
