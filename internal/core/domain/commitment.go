package domain

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

const (
	// SecretByteLen is the required length in bytes of a swap secret.
	SecretByteLen = 32
	// CommitmentByteLen is the length in bytes of a commitment, that is of
	// the SHA-256 digest of a secret.
	CommitmentByteLen = sha256.Size
)

// HashSecret returns the commitment binding the given secret, as the
// lowercase hex encoding of its SHA-256 digest.
func HashSecret(secret []byte) string {
	digest := sha256.Sum256(secret)
	return hex.EncodeToString(digest[:])
}

// VerifySecret reports whether the given hex encoded secret is the preimage
// of the given commitment. The digest comparison runs in constant time.
func VerifySecret(secret, commitment string) bool {
	preimage, err := hex.DecodeString(secret)
	if err != nil || len(preimage) != SecretByteLen {
		return false
	}
	target, err := hex.DecodeString(commitment)
	if err != nil || len(target) != CommitmentByteLen {
		return false
	}
	digest := sha256.Sum256(preimage)
	return subtle.ConstantTimeCompare(digest[:], target) == 1
}

// ValidateCommitment returns an error if the given commitment is not a well
// formed, non-zero hex encoded digest.
func ValidateCommitment(commitment string) error {
	buf, err := hex.DecodeString(commitment)
	if err != nil || len(buf) != CommitmentByteLen {
		return ErrInvalidCommitment
	}
	nonZero := false
	for _, b := range buf {
		if b != 0 {
			nonZero = true
			break
		}
	}
	if !nonZero {
		return ErrInvalidCommitment
	}
	return nil
}
