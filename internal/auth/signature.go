package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sign computes the lowercase hex HMAC-SHA256 of canonical under secret.
func Sign(secret, canonical string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(canonical))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature recomputes the signature and compares in constant time.
// A provided value that is not valid hex, or whose decoded length differs
// from the expected digest, is rejected before the comparison; the length
// is not secret, this just keeps the compare path uniform.
func VerifySignature(secret, canonical, providedHex string) bool {
	provided, err := hex.DecodeString(providedHex)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(canonical))
	expected := mac.Sum(nil)
	if len(provided) != len(expected) {
		return false
	}
	return hmac.Equal(provided, expected)
}
