package secrets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Quick params keep the KDF cheap in tests.
var quick = Params{Memory: 8 * 1024, Time: 1, Parallelism: 1, KeyLen: 32}

func TestHashVerifyRoundTrip(t *testing.T) {
	h := NewArgon2id(quick)
	enc, err := h.Hash("hunter2")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(enc, "$argon2id$v=19$"))
	require.True(t, h.Verify("hunter2", enc))
	require.False(t, h.Verify("hunter3", enc))
}

func TestHashIsSalted(t *testing.T) {
	h := NewArgon2id(quick)
	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
	require.True(t, h.Verify("same", a))
	require.True(t, h.Verify("same", b))
}

func TestHashRejectsEmpty(t *testing.T) {
	h := NewArgon2id(quick)
	_, err := h.Hash("")
	require.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	h := NewArgon2id(quick)
	for _, enc := range []string{
		"",
		"plainhash",
		"$argon2i$v=19$m=8,t=1,p=1$AAAA$BBBB",
		"$argon2id$v=18$m=8,t=1,p=1$AAAA$BBBB",
		"$argon2id$v=19$m=8,t=1,p=1$not*b64$BBBB",
	} {
		require.False(t, h.Verify("x", enc), "encoded %q", enc)
	}
}
