package wire

import (
	"encoding/binary"

	"github.com/solpmm/engine/pkg/fees"
)

// FeesSize is the packed size of a fees.Fees record: four
// numerator/denominator u64 pairs.
const FeesSize = 64

// RewardsSize is the packed size of a fees.Rewards record: five u64
// fields.
const RewardsSize = 40

// PackFees writes f into dst as four little-endian (numerator,
// denominator) u64 pairs in AdminTrade, AdminWithdraw, Trade, Withdraw
// order.
func PackFees(f fees.Fees, dst *[FeesSize]byte) {
	ratios := [4]fees.Ratio{f.AdminTrade, f.AdminWithdraw, f.Trade, f.Withdraw}
	for i, r := range ratios {
		off := i * 16
		binary.LittleEndian.PutUint64(dst[off:off+8], r.Numerator)
		binary.LittleEndian.PutUint64(dst[off+8:off+16], r.Denominator)
	}
}

// UnpackFees is PackFees's inverse.
func UnpackFees(src [FeesSize]byte) fees.Fees {
	read := func(i int) fees.Ratio {
		off := i * 16
		return fees.Ratio{
			Numerator:   binary.LittleEndian.Uint64(src[off : off+8]),
			Denominator: binary.LittleEndian.Uint64(src[off+8 : off+16]),
		}
	}
	return fees.Fees{
		AdminTrade:    read(0),
		AdminWithdraw: read(1),
		Trade:         read(2),
		Withdraw:      read(3),
	}
}

// PackRewards writes r into dst as five little-endian u64 fields.
func PackRewards(r fees.Rewards, dst *[RewardsSize]byte) {
	binary.LittleEndian.PutUint64(dst[0:8], r.TradeRewardNumerator)
	binary.LittleEndian.PutUint64(dst[8:16], r.TradeRewardDenominator)
	binary.LittleEndian.PutUint64(dst[16:24], r.TradeRewardCap)
	binary.LittleEndian.PutUint64(dst[24:32], r.LiquidityRewardNumerator)
	binary.LittleEndian.PutUint64(dst[32:40], r.LiquidityRewardDenominator)
}

// UnpackRewards is PackRewards's inverse.
func UnpackRewards(src [RewardsSize]byte) fees.Rewards {
	return fees.Rewards{
		TradeRewardNumerator:       binary.LittleEndian.Uint64(src[0:8]),
		TradeRewardDenominator:     binary.LittleEndian.Uint64(src[8:16]),
		TradeRewardCap:             binary.LittleEndian.Uint64(src[16:24]),
		LiquidityRewardNumerator:   binary.LittleEndian.Uint64(src[24:32]),
		LiquidityRewardDenominator: binary.LittleEndian.Uint64(src[32:40]),
	}
}
