package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanonicalStringFormat(t *testing.T) {
	got := CanonicalString("post", "/v1/wallet/debit?dry_run=1", "1700000000", "n-1", "abc")
	require.Equal(t, "POST\n/v1/wallet/debit?dry_run=1\n1700000000\nn-1\nabc", got)
}

func TestCanonicalStringDeterministic(t *testing.T) {
	a := CanonicalString("GET", "/v1/wallet", "1700000000", "nonce", HashBody(nil))
	b := CanonicalString("GET", "/v1/wallet", "1700000000", "nonce", HashBody(nil))
	require.Equal(t, a, b)
}

func TestHashBodyEmpty(t *testing.T) {
	sum := sha256.Sum256(nil)
	require.Equal(t, hex.EncodeToString(sum[:]), HashBody(nil))
	require.Equal(t, HashBody(nil), HashBody([]byte{}))
}

func TestHashBodyByteExact(t *testing.T) {
	// Re-serialized JSON must not hash-match the original bytes.
	require.NotEqual(t, HashBody([]byte(`{"a":1}`)), HashBody([]byte(`{"a": 1}`)))
}
