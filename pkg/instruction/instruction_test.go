package instruction

import (
	stderrors "errors"
	"testing"

	"github.com/solpmm/engine/pkg/errors"
)

func TestDecodeAdminEmptyBuffer(t *testing.T) {
	if _, err := DecodeAdmin(nil); !stderrors.Is(err, errors.ErrInstructionUnpackError) {
		t.Fatalf("got %v, want ErrInstructionUnpackError", err)
	}
}

func TestDecodeAdminPause(t *testing.T) {
	inst, err := DecodeAdmin([]byte{OpAdminPause})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inst.Opcode() != OpAdminPause {
		t.Fatalf("got opcode %d, want %d", inst.Opcode(), OpAdminPause)
	}
}

func TestDecodeAdminCommitNewAdminTruncated(t *testing.T) {
	data := append([]byte{OpAdminCommitNewAdmin}, make([]byte, 10)...)
	if _, err := DecodeAdmin(data); !stderrors.Is(err, errors.ErrInstructionUnpackError) {
		t.Fatalf("got %v, want ErrInstructionUnpackError", err)
	}
}

func TestDecodeAdminUnknownOpcode(t *testing.T) {
	if _, err := DecodeAdmin([]byte{200}); !stderrors.Is(err, errors.ErrInstructionUnpackError) {
		t.Fatalf("got %v, want ErrInstructionUnpackError", err)
	}
}

func TestDecodeSwapSwap(t *testing.T) {
	data := []byte{OpSwapSwap}
	data = append(data, 100, 0, 0, 0, 0, 0, 0, 0) // amount_in = 100
	data = append(data, 90, 0, 0, 0, 0, 0, 0, 0)  // minimum_amount_out = 90
	data = append(data, byte(SellBase))
	inst, err := DecodeSwap(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	swapInst, ok := inst.(SwapSwap)
	if !ok {
		t.Fatalf("got %T, want SwapSwap", inst)
	}
	if swapInst.AmountIn != 100 || swapInst.MinimumAmountOut != 90 || swapInst.Direction != SellBase {
		t.Fatalf("decoded fields mismatch: %+v", swapInst)
	}
}

func TestDecodeSwapTruncatedDeposit(t *testing.T) {
	data := []byte{OpSwapDeposit, 1, 2, 3}
	if _, err := DecodeSwap(data); !stderrors.Is(err, errors.ErrInstructionUnpackError) {
		t.Fatalf("got %v, want ErrInstructionUnpackError", err)
	}
}

func TestDecodeSwapNoPayloadOpcodes(t *testing.T) {
	for _, op := range []byte{OpSwapInitializeLiquidityProvider, OpSwapClaimLiquidityRewards, OpSwapRefreshLiquidityObligation} {
		inst, err := DecodeSwap([]byte{op})
		if err != nil {
			t.Fatalf("opcode %d: unexpected error: %v", op, err)
		}
		if inst.Opcode() != op {
			t.Fatalf("opcode %d: got %d", op, inst.Opcode())
		}
	}
}
