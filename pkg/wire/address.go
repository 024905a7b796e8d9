package wire

import "github.com/ethereum/go-ethereum/common"

// PackAddress writes addr into a 32-byte record slot using the
// standard ABI convention of left-padding a 20-byte address with
// zeros, since every opaque account reference in spec.md §6 (token
// custody, fee accounts, mint, pool key) occupies a fixed 32 bytes.
func PackAddress(addr common.Address, dst *[32]byte) {
	var buf [32]byte
	copy(buf[12:], addr.Bytes())
	*dst = buf
}

// UnpackAddress reconstructs an Address from its 32-byte, left-padded
// record slot.
func UnpackAddress(src [32]byte) common.Address {
	var addr common.Address
	copy(addr[:], src[12:])
	return addr
}
