package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	encoded, err := HashPassword("art123")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$m=65536,t=1,p=4$"))

	t.Run("salts are random", func(t *testing.T) {
		other, err := HashPassword("art123")
		require.NoError(t, err)
		assert.NotEqual(t, encoded, other)
	})
}

func TestVerifyPassword(t *testing.T) {
	encoded, err := HashPassword("chess456")
	require.NoError(t, err)

	t.Run("correct password verifies", func(t *testing.T) {
		assert.True(t, VerifyPassword(encoded, "chess456"))
	})

	t.Run("wrong password is false", func(t *testing.T) {
		assert.False(t, VerifyPassword(encoded, "chess457"))
	})

	t.Run("malformed hashes are false, never a panic", func(t *testing.T) {
		for _, bad := range []string{
			"",
			"plaintext",
			"$argon2id$garbage",
			"$argon2i$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
			"$argon2id$v=18$m=65536,t=1,p=4$c2FsdA$aGFzaA",
			"$argon2id$v=19$m=65536,t=1,p=4$!!!$aGFzaA",
			"$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$",
		} {
			assert.False(t, VerifyPassword(bad, "chess456"), "hash %q", bad)
		}
	})
}

func TestDecodeHashRoundTrip(t *testing.T) {
	encoded, err := HashPassword("admin789")
	require.NoError(t, err)

	salt, hash, time, memory, threads, err := decodeHash(encoded)
	require.NoError(t, err)
	assert.Len(t, salt, saltLen)
	assert.Len(t, hash, int(argonKeyLen))
	assert.Equal(t, argonTime, time)
	assert.Equal(t, argonMemory, memory)
	assert.Equal(t, argonThreads, threads)
}
