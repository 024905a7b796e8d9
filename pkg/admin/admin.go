// Package admin implements the governance-only operations over a
// pool's ConfigInfo and swap.Info records: initialization, pause
// toggling, fee-account and fee/reward updates, and admin-key
// rotation. The host program's account-ownership and rent checks are
// out of scope; these operations take the already-loaded records and
// the caller's identity/signer status directly.
package admin

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/solpmm/engine/pkg/errors"
	"github.com/solpmm/engine/pkg/fees"
	"github.com/solpmm/engine/pkg/swap"
)

// ProgramVersion is stamped into every freshly initialized ConfigInfo.
const ProgramVersion = 1

// ConfigInfo is the pool-genesis record: the admin authority, the
// reward mint, and the fee/reward schedule every pool under this
// deployment inherits at initialization.
type ConfigInfo struct {
	Version    uint8
	BumpSeed   uint8
	AdminKey   common.Address
	RewardMint common.Address
	Fees       fees.Fees
	Rewards    fees.Rewards
}

// Initialize constructs a fresh ConfigInfo.
func Initialize(adminKey, rewardMint common.Address, bumpSeed uint8, f fees.Fees, r fees.Rewards) ConfigInfo {
	return ConfigInfo{
		Version:    ProgramVersion,
		BumpSeed:   bumpSeed,
		AdminKey:   adminKey,
		RewardMint: rewardMint,
		Fees:       f,
		Rewards:    r,
	}
}

// requireAdmin checks signer status before the key match (the source
// checks the key first; SPEC_FULL.md §9.2 hardens this ordering so a
// forged non-signer account can never short-circuit into a key-match
// error that leaks whether a guessed key is the real admin).
func (c ConfigInfo) requireAdmin(signer common.Address, isSigner bool) error {
	if !isSigner {
		return errors.ErrInvalidSigner
	}
	if signer != c.AdminKey {
		return errors.ErrUnauthorized
	}
	return nil
}

// Pause marks s paused. Fails unless signer is the config's admin and
// a signer.
func Pause(c ConfigInfo, s *swap.Info, signer common.Address, isSigner bool) error {
	if err := c.requireAdmin(signer, isSigner); err != nil {
		return err
	}
	s.IsPaused = true
	return nil
}

// Unpause clears s's paused flag.
func Unpause(c ConfigInfo, s *swap.Info, signer common.Address, isSigner bool) error {
	if err := c.requireAdmin(signer, isSigner); err != nil {
		return err
	}
	s.IsPaused = false
	return nil
}

// SetFeeAccount repoints s's admin fee account for whichever side
// newFeeAccountMint matches. Fails errors.ErrIncorrectMint if it
// matches neither token mint.
func SetFeeAccount(c ConfigInfo, s *swap.Info, newFeeAccount, newFeeAccountMint common.Address, signer common.Address, isSigner bool) error {
	if err := c.requireAdmin(signer, isSigner); err != nil {
		return err
	}
	switch newFeeAccountMint {
	case s.TokenAMint:
		s.AdminFeeA = newFeeAccount
	case s.TokenBMint:
		s.AdminFeeB = newFeeAccount
	default:
		return errors.ErrIncorrectMint
	}
	return nil
}

// CommitNewAdmin rotates c's admin key to newAdminKey.
func CommitNewAdmin(c *ConfigInfo, newAdminKey common.Address, signer common.Address, isSigner bool) error {
	if err := c.requireAdmin(signer, isSigner); err != nil {
		return err
	}
	c.AdminKey = newAdminKey
	return nil
}

// SetNewFees replaces s's fee schedule.
func SetNewFees(c ConfigInfo, s *swap.Info, newFees fees.Fees, signer common.Address, isSigner bool) error {
	if err := c.requireAdmin(signer, isSigner); err != nil {
		return err
	}
	s.Fees = newFees
	return nil
}

// SetNewRewards replaces s's reward schedule.
func SetNewRewards(c ConfigInfo, s *swap.Info, newRewards fees.Rewards, signer common.Address, isSigner bool) error {
	if err := c.requireAdmin(signer, isSigner); err != nil {
		return err
	}
	s.Rewards = newRewards
	return nil
}
