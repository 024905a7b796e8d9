// Package swap implements the per-pool SwapInfo record and the
// SwapEngine that orchestrates price selection, the curve, fees, and
// rewards for a single trade.
package swap

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/solpmm/engine/pkg/fees"
	"github.com/solpmm/engine/pkg/fixedpoint"
	"github.com/solpmm/engine/pkg/pool"
)

// Info is a single pool's persisted configuration and live state: the
// token/mint/fee-account references, the fee and reward schedules, the
// PMM curve state, and the TWAP accumulator.
type Info struct {
	IsInitialized bool
	IsPaused      bool
	Nonce         uint8

	TokenA     common.Address
	TokenB     common.Address
	PoolMint   common.Address
	TokenAMint common.Address
	TokenBMint common.Address
	AdminFeeA  common.Address
	AdminFeeB  common.Address

	Fees    fees.Fees
	Rewards fees.Rewards
	Pool    pool.State

	IsOpenTwap          bool
	BlockTimestampLast  uint64
	CumulativeTicks     uint64
	BasePriceCumulative fixedpoint.Decimal
}
