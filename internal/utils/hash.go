package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Fingerprint returns a deterministic hex-encoded SHA-256 digest of v's
// JSON serialization.
//
// It is the serialize-and-compare primitive used by reconciliation: two
// collections are considered identical exactly when their fingerprints
// match, so a replica replacement is skipped when nothing changed.
// Map keys are sorted by encoding/json, which keeps the digest stable for
// equal values.
//
// Returns an error if v cannot be serialized.
func Fingerprint(v any) (string, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("error serializing value for fingerprint: %w", err)
	}

	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

// HashOTPCode returns the hex-encoded SHA-256 digest of a one-time code.
// Codes are short-lived, but they are still credentials: only the digest
// is held in the OTP store.
func HashOTPCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
