package identity

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HashPassword returns the unsalted SHA-256 hex digest of a plaintext secret.
// This matches the digest format already present in existing user files, so
// it stays byte-for-byte compatible; it is a known weakness of the design,
// not an oversight here.
func HashPassword(plaintext string) string {
	digest := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(digest[:])
}

// DigestsMatch compares two digests in constant time.
func DigestsMatch(left string, right string) bool {
	return subtle.ConstantTimeCompare([]byte(left), []byte(right)) == 1
}
