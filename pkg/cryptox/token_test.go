package cryptox

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	t.Run("produces hex of the requested size", func(t *testing.T) {
		token, err := GenerateToken(TokenSize256)
		require.NoError(t, err)
		require.Len(t, token, TokenSize256*2)

		raw, err := hex.DecodeString(token)
		require.NoError(t, err)
		require.Len(t, raw, TokenSize256)
	})

	t.Run("tokens are unique", func(t *testing.T) {
		seen := make(map[string]bool)
		for range 100 {
			token, err := GenerateToken(TokenSize256)
			require.NoError(t, err)
			require.False(t, seen[token])
			seen[token] = true
		}
	})
}

func TestFingerprintToken(t *testing.T) {
	t.Parallel()

	t.Run("stable for equal input", func(t *testing.T) {
		require.Equal(t, FingerprintToken("abc"), FingerprintToken("abc"))
	})

	t.Run("differs from the input", func(t *testing.T) {
		token, err := GenerateToken(TokenSize256)
		require.NoError(t, err)
		require.NotEqual(t, token, FingerprintToken(token))
	})

	t.Run("distinct inputs give distinct fingerprints", func(t *testing.T) {
		require.NotEqual(t, FingerprintToken("abc"), FingerprintToken("abd"))
	})

	// SHA-256 hex is always 64 characters.
	t.Run("fixed length", func(t *testing.T) {
		require.Len(t, FingerprintToken("x"), 64)
	})
}

func TestConstantTimeEquals(t *testing.T) {
	t.Parallel()

	require.True(t, ConstantTimeEquals("same", "same"))
	require.False(t, ConstantTimeEquals("same", "other"))
	require.False(t, ConstantTimeEquals("same", "same-but-longer"))
	require.True(t, ConstantTimeEquals("", ""))
}
