package pool

import (
	stderrors "errors"
	"testing"

	"github.com/solpmm/engine/pkg/errors"
	"github.com/solpmm/engine/pkg/fixedpoint"
)

func fd(t *testing.T, v uint64) fixedpoint.Decimal {
	t.Helper()
	d, err := fixedpoint.DecimalFromUint64(v)
	if err != nil {
		t.Fatalf("DecimalFromUint64(%d): %v", v, err)
	}
	return d
}

func defaultPrice(t *testing.T) fixedpoint.Decimal { return fd(t, 100) }

func halfSlope(t *testing.T) fixedpoint.Decimal {
	t.Helper()
	s, err := fixedpoint.DecimalFromScaled(fixedpoint.HalfWAD)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

// Scenario 1: initial liquidity mint.
func TestBuySharesInitialMint(t *testing.T) {
	s := State{MarketPrice: defaultPrice(t), Slope: halfSlope(t), Multiplier: MultiplierOne}
	shares, err := s.BuyShares(1_000_000_000, 1_000_000_000, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shares != 10_000_000 {
		t.Fatalf("shares = %d, want 10000000", shares)
	}
	wantBaseTarget := fd(t, 10_000_000)
	wantQuoteTarget := fd(t, 1_000_000_000)
	if !s.BaseTarget.Equal(wantBaseTarget) {
		t.Fatalf("base_target = %s, want %s", s.BaseTarget, wantBaseTarget)
	}
	if !s.QuoteTarget.Equal(wantQuoteTarget) {
		t.Fatalf("quote_target = %s, want %s", s.QuoteTarget, wantQuoteTarget)
	}
}

// Scenario 2 & 3: trivial-curve sell base / sell quote.
func TestSellTrivialCurve(t *testing.T) {
	balanced := fd(t, 1_000_000_000)
	s := State{
		MarketPrice:  defaultPrice(t),
		Slope:        halfSlope(t),
		BaseTarget:   balanced,
		QuoteTarget:  balanced,
		BaseReserve:  balanced,
		QuoteReserve: balanced,
		Multiplier:   MultiplierOne,
	}

	quoteOut, newMultiplier, err := s.SellBaseToken(100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quoteOut != 10_000 || newMultiplier != MultiplierBelowOne {
		t.Fatalf("got (%d, %s), want (10000, BelowOne)", quoteOut, newMultiplier)
	}

	baseOut, newMultiplier, err := s.SellQuoteToken(100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if baseOut != 1 || newMultiplier != MultiplierAboveOne {
		t.Fatalf("got (%d, %s), want (1, AboveOne)", baseOut, newMultiplier)
	}
}

// Scenario 4: invalid configuration fails both get_mid_price and
// adjust_target.
func TestInvalidConfigurationFails(t *testing.T) {
	s := State{
		MarketPrice:  defaultPrice(t),
		Slope:        halfSlope(t),
		BaseTarget:   fd(t, 200_000),
		QuoteTarget:  fd(t, 200_000),
		BaseReserve:  fd(t, 100_000),
		QuoteReserve: fd(t, 100_000),
		Multiplier:   MultiplierBelowOne,
	}
	if _, err := s.GetMidPrice(); err == nil {
		t.Fatalf("expected error from GetMidPrice")
	}
	s2 := s
	if err := s2.AdjustTarget(); err == nil {
		t.Fatalf("expected error from AdjustTarget")
	}
}

// Scenario 5: withdraw-not-enough.
func TestSellSharesWithdrawNotEnough(t *testing.T) {
	balanced := fd(t, 1_000_000_000)
	s := State{
		MarketPrice:  defaultPrice(t),
		Slope:        halfSlope(t),
		BaseTarget:   balanced,
		QuoteTarget:  balanced,
		BaseReserve:  balanced,
		QuoteReserve: balanced,
		Multiplier:   MultiplierOne,
	}
	_, _, err := s.SellShares(500_000_000, 1_000_000_000, 1_000_000_000, 1_000_000_000)
	if !stderrors.Is(err, errors.ErrWithdrawNotEnough) {
		t.Fatalf("got %v, want ErrWithdrawNotEnough", err)
	}
}

func TestBuySharesInsufficientFunds(t *testing.T) {
	s := State{
		MarketPrice:  defaultPrice(t),
		Slope:        halfSlope(t),
		BaseTarget:   fd(t, 1_000_000_000),
		QuoteTarget:  fd(t, 500_000_000),
		BaseReserve:  fd(t, 1_000_000_000),
		QuoteReserve: fd(t, 500_000_000),
		Multiplier:   MultiplierOne,
	}
	if _, err := s.BuyShares(1_000_000_000, 500_000_000, 1_000_000_000); !stderrors.Is(err, errors.ErrInsufficientFunds) {
		t.Fatalf("got %v, want ErrInsufficientFunds", err)
	}
}

func TestBuySharesIncorrectMint(t *testing.T) {
	s := State{
		MarketPrice:  defaultPrice(t),
		Slope:        halfSlope(t),
		BaseTarget:   fd(t, 1_000_000_000),
		QuoteTarget:  fd(t, 500_000_000),
		BaseReserve:  fd(t, 0),
		QuoteReserve: fd(t, 500_000_000),
		Multiplier:   MultiplierOne,
	}
	if _, err := s.BuyShares(500_000_000, 1_000_000_000, 1_000_000_000); !stderrors.Is(err, errors.ErrIncorrectMint) {
		t.Fatalf("got %v, want ErrIncorrectMint", err)
	}
}
