// Package instruction decodes the opcode-tagged byte buffers a caller
// submits to request an admin or swap operation. Only the logical
// decode is in scope: account-list validation and on-chain dispatch
// belong to the host runtime.
package instruction

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"

	"github.com/solpmm/engine/pkg/errors"
	"github.com/solpmm/engine/pkg/fees"
	"github.com/solpmm/engine/pkg/wire"
)

// Admin opcodes, per the original program's tag range 100-106.
const (
	OpAdminInitialize     = 100
	OpAdminPause          = 101
	OpAdminUnpause        = 102
	OpAdminSetFeeAccount  = 103
	OpAdminCommitNewAdmin = 104
	OpAdminSetNewFees     = 105
	OpAdminSetNewRewards  = 106
)

// Swap opcodes, tag range 0-6.
const (
	OpSwapInitializePool              = 0
	OpSwapSwap                        = 1
	OpSwapDeposit                     = 2
	OpSwapWithdraw                    = 3
	OpSwapInitializeLiquidityProvider = 4
	OpSwapClaimLiquidityRewards       = 5
	OpSwapRefreshLiquidityObligation  = 6
)

// AdminInstruction is implemented by every decoded admin-opcode
// payload; Opcode reports which one.
type AdminInstruction interface {
	Opcode() byte
}

// AdminInitialize carries the pool-genesis fee/reward schedule.
type AdminInitialize struct {
	Fees    fees.Fees
	Rewards fees.Rewards
}

// Opcode implements AdminInstruction.
func (AdminInitialize) Opcode() byte { return OpAdminInitialize }

// AdminPause, AdminUnpause, AdminSetFeeAccount carry no payload beyond
// the opcode; the accounts involved are out of scope here.
type AdminPause struct{}

func (AdminPause) Opcode() byte { return OpAdminPause }

type AdminUnpause struct{}

func (AdminUnpause) Opcode() byte { return OpAdminUnpause }

type AdminSetFeeAccount struct{}

func (AdminSetFeeAccount) Opcode() byte { return OpAdminSetFeeAccount }

// AdminCommitNewAdmin carries the proposed new admin key.
type AdminCommitNewAdmin struct {
	NewAdminKey common.Address
}

func (AdminCommitNewAdmin) Opcode() byte { return OpAdminCommitNewAdmin }

// AdminSetNewFees replaces a pool's fee schedule.
type AdminSetNewFees struct {
	Fees fees.Fees
}

func (AdminSetNewFees) Opcode() byte { return OpAdminSetNewFees }

// AdminSetNewRewards replaces a pool's reward schedule.
type AdminSetNewRewards struct {
	Rewards fees.Rewards
}

func (AdminSetNewRewards) Opcode() byte { return OpAdminSetNewRewards }

// DecodeAdmin dispatches the first byte of data to the matching
// AdminInstruction, failing errors.ErrInstructionUnpackError on a
// truncated buffer or an opcode outside the admin range.
func DecodeAdmin(data []byte) (AdminInstruction, error) {
	if len(data) < 1 {
		return nil, errors.ErrInstructionUnpackError
	}
	tag, rest := data[0], data[1:]
	switch tag {
	case OpAdminInitialize:
		if len(rest) < wire.FeesSize+wire.RewardsSize {
			return nil, errors.ErrInstructionUnpackError
		}
		var feesBuf [wire.FeesSize]byte
		copy(feesBuf[:], rest[:wire.FeesSize])
		var rewardsBuf [wire.RewardsSize]byte
		copy(rewardsBuf[:], rest[wire.FeesSize:wire.FeesSize+wire.RewardsSize])
		return AdminInitialize{Fees: wire.UnpackFees(feesBuf), Rewards: wire.UnpackRewards(rewardsBuf)}, nil
	case OpAdminPause:
		return AdminPause{}, nil
	case OpAdminUnpause:
		return AdminUnpause{}, nil
	case OpAdminSetFeeAccount:
		return AdminSetFeeAccount{}, nil
	case OpAdminCommitNewAdmin:
		if len(rest) < 32 {
			return nil, errors.ErrInstructionUnpackError
		}
		var buf [32]byte
		copy(buf[:], rest[:32])
		return AdminCommitNewAdmin{NewAdminKey: wire.UnpackAddress(buf)}, nil
	case OpAdminSetNewFees:
		if len(rest) < wire.FeesSize {
			return nil, errors.ErrInstructionUnpackError
		}
		var buf [wire.FeesSize]byte
		copy(buf[:], rest[:wire.FeesSize])
		return AdminSetNewFees{Fees: wire.UnpackFees(buf)}, nil
	case OpAdminSetNewRewards:
		if len(rest) < wire.RewardsSize {
			return nil, errors.ErrInstructionUnpackError
		}
		var buf [wire.RewardsSize]byte
		copy(buf[:], rest[:wire.RewardsSize])
		return AdminSetNewRewards{Rewards: wire.UnpackRewards(buf)}, nil
	default:
		return nil, errors.ErrInstructionUnpackError
	}
}

// SwapDirection selects which side of the pool is being sold.
type SwapDirection uint8

const (
	SellBase SwapDirection = iota
	SellQuote
)

// SwapInstruction is implemented by every decoded swap-opcode payload.
type SwapInstruction interface {
	Opcode() byte
}

// SwapInitializePool seeds a fresh pool's curve parameters.
type SwapInitializePool struct {
	Nonce      uint8
	Slope      uint64
	MidPrice   [16]byte // packed Decimal, see wire.UnpackDecimal
	IsOpenTwap bool
}

func (SwapInitializePool) Opcode() byte { return OpSwapInitializePool }

// SwapSwap requests a trade of amount_in in the given direction.
type SwapSwap struct {
	AmountIn         uint64
	MinimumAmountOut uint64
	Direction        SwapDirection
}

func (SwapSwap) Opcode() byte { return OpSwapSwap }

// SwapDeposit requests a two-sided liquidity deposit.
type SwapDeposit struct {
	TokenAAmount  uint64
	TokenBAmount  uint64
	MinMintAmount uint64
}

func (SwapDeposit) Opcode() byte { return OpSwapDeposit }

// SwapWithdraw requests a two-sided liquidity withdrawal.
type SwapWithdraw struct {
	PoolTokenAmount uint64
	MinimumTokenA   uint64
	MinimumTokenB   uint64
}

func (SwapWithdraw) Opcode() byte { return OpSwapWithdraw }

// SwapInitializeLiquidityProvider and the two instructions below carry
// no payload.
type SwapInitializeLiquidityProvider struct{}

func (SwapInitializeLiquidityProvider) Opcode() byte { return OpSwapInitializeLiquidityProvider }

type SwapClaimLiquidityRewards struct{}

func (SwapClaimLiquidityRewards) Opcode() byte { return OpSwapClaimLiquidityRewards }

type SwapRefreshLiquidityObligation struct{}

func (SwapRefreshLiquidityObligation) Opcode() byte { return OpSwapRefreshLiquidityObligation }

// DecodeSwap dispatches the first byte of data to the matching
// SwapInstruction.
func DecodeSwap(data []byte) (SwapInstruction, error) {
	if len(data) < 1 {
		return nil, errors.ErrInstructionUnpackError
	}
	tag, rest := data[0], data[1:]
	switch tag {
	case OpSwapInitializePool:
		if len(rest) < 1+8+16+1 {
			return nil, errors.ErrInstructionUnpackError
		}
		nonce := rest[0]
		slope := binary.LittleEndian.Uint64(rest[1:9])
		var midPrice [16]byte
		copy(midPrice[:], rest[9:25])
		isOpenTwap := rest[25] != 0
		return SwapInitializePool{Nonce: nonce, Slope: slope, MidPrice: midPrice, IsOpenTwap: isOpenTwap}, nil
	case OpSwapSwap:
		if len(rest) < 8+8+1 {
			return nil, errors.ErrInstructionUnpackError
		}
		amountIn := binary.LittleEndian.Uint64(rest[0:8])
		minOut := binary.LittleEndian.Uint64(rest[8:16])
		direction := SwapDirection(rest[16])
		return SwapSwap{AmountIn: amountIn, MinimumAmountOut: minOut, Direction: direction}, nil
	case OpSwapDeposit:
		if len(rest) < 24 {
			return nil, errors.ErrInstructionUnpackError
		}
		return SwapDeposit{
			TokenAAmount:  binary.LittleEndian.Uint64(rest[0:8]),
			TokenBAmount:  binary.LittleEndian.Uint64(rest[8:16]),
			MinMintAmount: binary.LittleEndian.Uint64(rest[16:24]),
		}, nil
	case OpSwapWithdraw:
		if len(rest) < 24 {
			return nil, errors.ErrInstructionUnpackError
		}
		return SwapWithdraw{
			PoolTokenAmount: binary.LittleEndian.Uint64(rest[0:8]),
			MinimumTokenA:   binary.LittleEndian.Uint64(rest[8:16]),
			MinimumTokenB:   binary.LittleEndian.Uint64(rest[16:24]),
		}, nil
	case OpSwapInitializeLiquidityProvider:
		return SwapInitializeLiquidityProvider{}, nil
	case OpSwapClaimLiquidityRewards:
		return SwapClaimLiquidityRewards{}, nil
	case OpSwapRefreshLiquidityObligation:
		return SwapRefreshLiquidityObligation{}, nil
	default:
		return nil, errors.ErrInstructionUnpackError
	}
}
