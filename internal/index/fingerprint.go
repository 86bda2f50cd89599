package index

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint computes the change-detection signature for a note's bytes:
// a full SHA-256 digest, deterministic for identical content. It serves
// as the tie-break when filesystem mtimes are too coarse to detect a
// same-second rewrite.
func Fingerprint(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
