// Package oracle interprets the external price feed record: staleness
// and volatility gating, exponent-based scaling, and surfacing a
// FixedDecimal price or a fallback-triggering error.
package oracle

import (
	"github.com/solpmm/engine/pkg/errors"
	"github.com/solpmm/engine/pkg/fixedpoint"
)

// PriceType tags the kind of record a feed slot holds; only
// PriceTypePrice is acceptable input to Adapter.Read.
type PriceType uint8

const (
	PriceTypeUnknown PriceType = iota
	PriceTypePrice
)

// Aggregate is the feed's current price/confidence pair, signed
// because the upstream representation is a signed mantissa; the
// pool-facing read rejects non-positive prices before scaling.
type Aggregate struct {
	Price int64
	Conf  uint64
}

// Record is the fixed three-field layout the external oracle
// publishes: an exponent, the slot it was last valid at, and the
// current aggregate.
type Record struct {
	PriceType PriceType
	Expo      int32
	ValidSlot uint64
	Agg       Aggregate
}

// MaxSlotAge is the staleness bound: current_slot - valid_slot must be
// strictly less than this many slots.
const MaxSlotAge = 5

// Adapter reads Record values on behalf of the swap engine.
type Adapter struct{}

// Read validates rec against the current slot and returns its scaled
// price as a Decimal, or errors.ErrInvalidOracleConfig on any
// staleness/volatility/malformed condition. The engine catches this
// error and falls back per spec.md §4.7 rather than failing the
// instruction outright.
func (Adapter) Read(rec Record, currentSlot uint64) (fixedpoint.Decimal, error) {
	if rec.PriceType != PriceTypePrice {
		return fixedpoint.ZeroDecimal(), errors.ErrInvalidOracleConfig
	}
	if currentSlot-rec.ValidSlot >= MaxSlotAge {
		return fixedpoint.ZeroDecimal(), errors.ErrInvalidOracleConfig
	}
	if rec.Agg.Price <= 0 {
		return fixedpoint.ZeroDecimal(), errors.ErrInvalidOracleConfig
	}
	if rec.Agg.Conf > 0 && uint64(rec.Agg.Price) < rec.Agg.Conf*100 {
		return fixedpoint.ZeroDecimal(), errors.ErrInvalidOracleConfig
	}

	price, err := fixedpoint.DecimalFromUint64(uint64(rec.Agg.Price))
	if err != nil {
		return fixedpoint.ZeroDecimal(), err
	}

	if rec.Expo >= 0 {
		scale, err := pow10(uint(rec.Expo))
		if err != nil {
			return fixedpoint.ZeroDecimal(), err
		}
		return price.TryMul(scale)
	}
	scale, err := pow10(uint(-rec.Expo))
	if err != nil {
		return fixedpoint.ZeroDecimal(), err
	}
	return price.TryDiv(scale)
}

func pow10(exp uint) (fixedpoint.Decimal, error) {
	result := fixedpoint.OneDecimal()
	ten, err := fixedpoint.DecimalFromUint64(10)
	if err != nil {
		return fixedpoint.ZeroDecimal(), err
	}
	for i := uint(0); i < exp; i++ {
		var mulErr error
		result, mulErr = result.TryMul(ten)
		if mulErr != nil {
			return fixedpoint.ZeroDecimal(), mulErr
		}
	}
	return result, nil
}

// MockFeed is a test double: a fixed Record plus a fixed "current
// slot". Its Read method satisfies swap.OracleReader without a live
// oracle.
type MockFeed struct {
	Record      Record
	CurrentSlot uint64
}

// Read satisfies the same contract as Adapter.Read against the
// feed's canned record.
func (f MockFeed) Read() (fixedpoint.Decimal, error) {
	return Adapter{}.Read(f.Record, f.CurrentSlot)
}
