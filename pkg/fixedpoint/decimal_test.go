package fixedpoint

import (
	stderrors "errors"
	"testing"

	"github.com/solpmm/engine/pkg/errors"
)

func mustDecimal(t *testing.T, v uint64) Decimal {
	t.Helper()
	d, err := DecimalFromUint64(v)
	if err != nil {
		t.Fatalf("DecimalFromUint64(%d): %v", v, err)
	}
	return d
}

func TestDecimalArithmetic(t *testing.T) {
	t.Run("add", func(t *testing.T) {
		a := mustDecimal(t, 3)
		b := mustDecimal(t, 4)
		sum, err := a.TryAdd(b)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := mustDecimal(t, 7)
		if !sum.Equal(want) {
			t.Fatalf("got %s, want %s", sum, want)
		}
	})

	t.Run("sub underflow", func(t *testing.T) {
		a := mustDecimal(t, 1)
		b := mustDecimal(t, 2)
		if _, err := a.TrySub(b); !stderrors.Is(err, errors.ErrCalculationFailure) {
			t.Fatalf("got %v, want ErrCalculationFailure", err)
		}
	})

	t.Run("mul identity", func(t *testing.T) {
		x := mustDecimal(t, 42)
		one := OneDecimal()
		got, err := one.TryMul(x)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.Equal(x) {
			t.Fatalf("one*x = %s, want %s", got, x)
		}
	})

	t.Run("div by zero", func(t *testing.T) {
		a := mustDecimal(t, 1)
		if _, err := a.TryDiv(ZeroDecimal()); !stderrors.Is(err, errors.ErrCalculationFailure) {
			t.Fatalf("got %v, want ErrCalculationFailure", err)
		}
	})

	t.Run("floor round ceil", func(t *testing.T) {
		raw, err := DecimalFromScaled(2_500_000_001) // 2.500000001
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f, _ := raw.TryFloorU64(); f != 2 {
			t.Fatalf("floor = %d, want 2", f)
		}
		if r, _ := raw.TryRoundU64(); r != 3 {
			t.Fatalf("round = %d, want 3", r)
		}
		if c, _ := raw.TryCeilU64(); c != 3 {
			t.Fatalf("ceil = %d, want 3", c)
		}
	})

	t.Run("sqrt", func(t *testing.T) {
		nine := mustDecimal(t, 9)
		root, err := nine.Sqrt()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := mustDecimal(t, 3)
		if !root.Equal(want) {
			t.Fatalf("sqrt(9) = %s, want %s", root, want)
		}
	})

	t.Run("sqrt rounds down to integer precision", func(t *testing.T) {
		two := mustDecimal(t, 2)
		root, err := two.Sqrt()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := mustDecimal(t, 1)
		if !root.Equal(want) {
			t.Fatalf("sqrt(2) = %s, want %s (fractional part must be discarded)", root, want)
		}
	})

	t.Run("reciprocal", func(t *testing.T) {
		two := mustDecimal(t, 2)
		recip, err := two.Reciprocal()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		half, err := DecimalFromScaled(HalfWAD)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !recip.Equal(half) {
			t.Fatalf("1/2 = %s, want %s", recip, half)
		}
	})
}
