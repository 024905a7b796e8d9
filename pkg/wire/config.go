package wire

import (
	"github.com/solpmm/engine/pkg/admin"
)

// ConfigInfoSize is the packed size of an admin.ConfigInfo record:
// version(1) + bump_seed(1) + admin_key(32) + reward_mint(32) +
// Fees(64) + Rewards(40).
const ConfigInfoSize = 1 + 1 + 32 + 32 + FeesSize + RewardsSize

// PackConfigInfo writes c into dst.
func PackConfigInfo(c admin.ConfigInfo, dst *[ConfigInfoSize]byte) {
	dst[0] = c.Version
	dst[1] = c.BumpSeed
	var adminKey, rewardMint [32]byte
	PackAddress(c.AdminKey, &adminKey)
	PackAddress(c.RewardMint, &rewardMint)
	copy(dst[2:34], adminKey[:])
	copy(dst[34:66], rewardMint[:])

	var feesBuf [FeesSize]byte
	PackFees(c.Fees, &feesBuf)
	copy(dst[66:66+FeesSize], feesBuf[:])

	var rewardsBuf [RewardsSize]byte
	PackRewards(c.Rewards, &rewardsBuf)
	copy(dst[66+FeesSize:66+FeesSize+RewardsSize], rewardsBuf[:])
}

// UnpackConfigInfo is PackConfigInfo's inverse.
func UnpackConfigInfo(src [ConfigInfoSize]byte) admin.ConfigInfo {
	var adminKey, rewardMint [32]byte
	copy(adminKey[:], src[2:34])
	copy(rewardMint[:], src[34:66])

	var feesBuf [FeesSize]byte
	copy(feesBuf[:], src[66:66+FeesSize])

	var rewardsBuf [RewardsSize]byte
	copy(rewardsBuf[:], src[66+FeesSize:66+FeesSize+RewardsSize])

	return admin.ConfigInfo{
		Version:    src[0],
		BumpSeed:   src[1],
		AdminKey:   UnpackAddress(adminKey),
		RewardMint: UnpackAddress(rewardMint),
		Fees:       UnpackFees(feesBuf),
		Rewards:    UnpackRewards(rewardsBuf),
	}
}
