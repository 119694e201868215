// Package swaputil provides small helpers shared by the services and the
// tooling working with swaps.
package swaputil

import (
	"encoding/hex"

	"github.com/thanhpk/randstr"

	"github.com/htlx-network/htlx-daemon/internal/core/domain"
)

// GenerateSecret returns a fresh random secret as hex string, along with the
// commitment binding it. The secret is meant to stay with the initiator
// until the swap is completed.
func GenerateSecret() (string, string) {
	buf := randstr.Bytes(domain.SecretByteLen)
	return hex.EncodeToString(buf), domain.HashSecret(buf)
}
