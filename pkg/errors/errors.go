// Package errors defines the sentinel error taxonomy shared by every
// core PMM package. Every failure in the engine resolves to one of
// these kinds; callers use errors.Is/errors.As against the wrapped
// sentinel rather than matching on error strings.
package errors

import "errors"

var (
	// ErrCalculationFailure covers overflow, underflow, and
	// division-by-zero anywhere in fixed-point arithmetic.
	ErrCalculationFailure = errors.New("calculation failure")

	// ErrInvalidSlope indicates a curve slope k outside [0, 1].
	ErrInvalidSlope = errors.New("invalid slope")

	// ErrInsufficientFunds indicates a required reserve or input is
	// missing (e.g. a zero-delta deposit).
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientLiquidity indicates a withdrawal exceeds held
	// shares.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")

	// ErrInsufficientClaimAmount indicates a reward claim with
	// nothing owed.
	ErrInsufficientClaimAmount = errors.New("insufficient claim amount")

	// ErrWithdrawNotEnough indicates a withdrawal's minimum-out was
	// not met.
	ErrWithdrawNotEnough = errors.New("withdraw not enough")

	// ErrExceededSlippage indicates a swap's minimum-out was not met.
	ErrExceededSlippage = errors.New("exceeded slippage")

	// ErrIncorrectMint indicates a share mint precondition was
	// violated (neither an initial mint nor both reserves positive).
	ErrIncorrectMint = errors.New("incorrect mint")

	// ErrIncorrectSwapAccount indicates a swap referenced an account
	// that does not belong to the pool.
	ErrIncorrectSwapAccount = errors.New("incorrect swap account")

	// ErrInvalidInput indicates a generic malformed argument.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidOwner indicates an account owner mismatch.
	ErrInvalidOwner = errors.New("invalid owner")

	// ErrInvalidAdmin indicates the caller is not the configured
	// admin.
	ErrInvalidAdmin = errors.New("invalid admin")

	// ErrInvalidAccountOwner indicates a record is not owned by the
	// expected program/owner.
	ErrInvalidAccountOwner = errors.New("invalid account owner")

	// ErrInvalidProgramAddress indicates a derived address does not
	// match the expected value.
	ErrInvalidProgramAddress = errors.New("invalid program address")

	// ErrInvalidSigner indicates a required signer is absent.
	ErrInvalidSigner = errors.New("invalid signer")

	// ErrInvalidFreezeAuthority indicates a mint's freeze authority
	// does not match expectations.
	ErrInvalidFreezeAuthority = errors.New("invalid freeze authority")

	// ErrUnauthorized is a generic authorization failure.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrIsPaused indicates the operation was refused because the
	// pool is paused.
	ErrIsPaused = errors.New("pool is paused")

	// ErrInvalidOracleConfig indicates a stale, volatile, or
	// malformed oracle record. The engine catches this and falls
	// back per spec.md §4.7 rather than failing the instruction.
	ErrInvalidOracleConfig = errors.New("invalid oracle config")

	// ErrLiquidityPositionEmpty indicates an operation targeted a
	// position with no liquidity.
	ErrLiquidityPositionEmpty = errors.New("liquidity position empty")

	// ErrInvalidPositionKey indicates a position lookup found no
	// matching pool key.
	ErrInvalidPositionKey = errors.New("invalid position key")

	// ErrAlreadyInUse indicates a re-initialization attempt on an
	// already-initialized record.
	ErrAlreadyInUse = errors.New("already in use")

	// ErrInstructionUnpackError indicates malformed instruction input
	// bytes.
	ErrInstructionUnpackError = errors.New("instruction unpack error")
)
