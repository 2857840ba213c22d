package user

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBcryptHasher(t *testing.T) {
	h := BcryptHasher{}

	t.Run("hash and compare ok", func(t *testing.T) {
		hash, err := h.Hash("password123")

		require.NoError(t, err)
		require.NotEmpty(t, hash)
		require.NotEqual(t, "password123", hash, "hash should not be the raw password")
		require.NoError(t, h.Compare(hash, "password123"))
	})

	t.Run("compare wrong password fails", func(t *testing.T) {
		hash, err := h.Hash("password123")
		require.NoError(t, err)

		require.Error(t, h.Compare(hash, "password124"))
	})

	t.Run("long passwords work", func(t *testing.T) {
		// bcrypt alone truncates at 72 bytes, the sha256 pre-hash must not
		long := make([]byte, 100)
		for i := range long {
			long[i] = 'a'
		}
		longer := append(long, 'b')

		hash, err := h.Hash(string(long))
		require.NoError(t, err)

		require.NoError(t, h.Compare(hash, string(long)))
		require.Error(t, h.Compare(hash, string(longer)), "passwords differing after byte 72 must not collide")
	})

	t.Run("same password different salt", func(t *testing.T) {
		first, err := h.Hash("password123")
		require.NoError(t, err)
		second, err := h.Hash("password123")
		require.NoError(t, err)

		require.NotEqual(t, first, second, "two hashes of the same password should differ")
	})
}
