// Package fees implements the four numerator/denominator fee pairs
// and the reward formulas that apply on top of a swap or withdrawal.
package fees

import (
	"github.com/solpmm/engine/pkg/errors"
	"github.com/solpmm/engine/pkg/fixedpoint"
)

// Ratio is a numerator/denominator pair, packed as two u64 on the
// wire (see pkg/wire).
type Ratio struct {
	Numerator   uint64
	Denominator uint64
}

// Apply returns floor(amount * num/den). Division by zero surfaces as
// errors.ErrCalculationFailure.
func (r Ratio) Apply(amount uint64) (uint64, error) {
	if r.Denominator == 0 {
		return 0, errors.ErrCalculationFailure
	}
	value, err := fixedpoint.DecimalFromUint64(amount)
	if err != nil {
		return 0, err
	}
	num, err := fixedpoint.DecimalFromUint64(r.Numerator)
	if err != nil {
		return 0, err
	}
	den, err := fixedpoint.DecimalFromUint64(r.Denominator)
	if err != nil {
		return 0, err
	}
	scaled, err := value.TryMul(num)
	if err != nil {
		return 0, err
	}
	scaled, err = scaled.TryDiv(den)
	if err != nil {
		return 0, err
	}
	return scaled.TryFloorU64()
}

// Fees holds the four numerator/denominator rationals applied to
// trades and withdrawals: the admin's cut of each, and the pool's own
// cut of each.
type Fees struct {
	AdminTrade    Ratio
	AdminWithdraw Ratio
	Trade         Ratio
	Withdraw      Ratio
}

// TradeFee returns floor(amount * trade.num/trade.den).
func (f Fees) TradeFee(amount uint64) (uint64, error) {
	return f.Trade.Apply(amount)
}

// WithdrawFee returns floor(amount * withdraw.num/withdraw.den).
func (f Fees) WithdrawFee(amount uint64) (uint64, error) {
	return f.Withdraw.Apply(amount)
}

// AdminTradeFee returns floor(fee * admin_trade.num/admin_trade.den),
// the admin's cut of an already-computed trade fee.
func (f Fees) AdminTradeFee(fee uint64) (uint64, error) {
	return f.AdminTrade.Apply(fee)
}

// AdminWithdrawFee returns floor(fee *
// admin_withdraw.num/admin_withdraw.den).
func (f Fees) AdminWithdrawFee(fee uint64) (uint64, error) {
	return f.AdminWithdraw.Apply(fee)
}
