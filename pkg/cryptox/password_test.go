package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("Passw0rd!")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	require.NoError(t, VerifyPassword("Passw0rd!", hash))
	require.Error(t, VerifyPassword("wrong-password", hash))
}

func TestHashIsSalted(t *testing.T) {
	t.Parallel()

	a, err := HashPassword("Passw0rd!")
	require.NoError(t, err)
	b, err := HashPassword("Passw0rd!")
	require.NoError(t, err)

	require.NotEqual(t, a, b, "two hashes of the same password must differ")
}

func TestVerifyPasswordRejectsBadFormat(t *testing.T) {
	t.Parallel()

	require.Error(t, VerifyPassword("x", "not-a-hash"))
	require.Error(t, VerifyPassword("x", "$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA"))
}
