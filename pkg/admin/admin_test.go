package admin

import (
	stderrors "errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/solpmm/engine/pkg/errors"
	"github.com/solpmm/engine/pkg/fees"
	"github.com/solpmm/engine/pkg/swap"
)

func addr(b byte) common.Address {
	var a common.Address
	a[19] = b
	return a
}

func TestPauseRequiresSigner(t *testing.T) {
	cfg := Initialize(addr(1), addr(2), 255, fees.Fees{}, fees.Rewards{})
	s := &swap.Info{}
	if err := Pause(cfg, s, addr(1), false); !stderrors.Is(err, errors.ErrInvalidSigner) {
		t.Fatalf("got %v, want ErrInvalidSigner", err)
	}
	if s.IsPaused {
		t.Fatal("pool paused without a valid signer")
	}
}

func TestPauseRequiresAdminKey(t *testing.T) {
	cfg := Initialize(addr(1), addr(2), 255, fees.Fees{}, fees.Rewards{})
	s := &swap.Info{}
	if err := Pause(cfg, s, addr(9), true); !stderrors.Is(err, errors.ErrUnauthorized) {
		t.Fatalf("got %v, want ErrUnauthorized", err)
	}
}

func TestPauseUnpauseRoundTrip(t *testing.T) {
	cfg := Initialize(addr(1), addr(2), 255, fees.Fees{}, fees.Rewards{})
	s := &swap.Info{}
	if err := Pause(cfg, s, addr(1), true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.IsPaused {
		t.Fatal("expected pool paused")
	}
	if err := Unpause(cfg, s, addr(1), true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.IsPaused {
		t.Fatal("expected pool unpaused")
	}
}

func TestSetFeeAccountWrongMint(t *testing.T) {
	cfg := Initialize(addr(1), addr(2), 255, fees.Fees{}, fees.Rewards{})
	s := &swap.Info{TokenAMint: addr(10), TokenBMint: addr(11)}
	if err := SetFeeAccount(cfg, s, addr(20), addr(99), addr(1), true); !stderrors.Is(err, errors.ErrIncorrectMint) {
		t.Fatalf("got %v, want ErrIncorrectMint", err)
	}
}

func TestSetFeeAccountMatchesTokenB(t *testing.T) {
	cfg := Initialize(addr(1), addr(2), 255, fees.Fees{}, fees.Rewards{})
	s := &swap.Info{TokenAMint: addr(10), TokenBMint: addr(11)}
	if err := SetFeeAccount(cfg, s, addr(20), addr(11), addr(1), true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.AdminFeeB != addr(20) {
		t.Fatalf("admin fee B not updated")
	}
}

func TestCommitNewAdminRotatesKey(t *testing.T) {
	cfg := Initialize(addr(1), addr(2), 255, fees.Fees{}, fees.Rewards{})
	if err := CommitNewAdmin(&cfg, addr(5), addr(1), true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AdminKey != addr(5) {
		t.Fatalf("admin key not rotated")
	}
	// The old admin can no longer authorize further changes.
	s := &swap.Info{}
	if err := Pause(cfg, s, addr(1), true); !stderrors.Is(err, errors.ErrUnauthorized) {
		t.Fatalf("got %v, want ErrUnauthorized after rotation", err)
	}
}
