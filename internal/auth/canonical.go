// Package auth implements the trust boundary of the gateway: canonical-string
// construction, HMAC request signing, nonce replay defense, bearer token
// issuance and verification, and scope/role authorization.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashBody returns the lowercase hex SHA-256 of the exact raw body bytes.
// An absent body hashes as the empty string.
func HashBody(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// CanonicalString builds the byte sequence that is signed and verified:
//
//	METHOD\nPATH\nTIMESTAMP\nNONCE\nBODYHASH
//
// PATH must include the query string exactly as received. Any divergence
// between what the client hashed and what the server reconstructs fails
// verification; matching is intentionally strict rather than lenient.
func CanonicalString(method, path, timestamp, nonce, bodyHash string) string {
	return strings.ToUpper(method) + "\n" + path + "\n" + timestamp + "\n" + nonce + "\n" + bodyHash
}
