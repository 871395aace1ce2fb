package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHashAndVerify(t *testing.T) {
	hash, err := HashPassword("sekret-pass", 4)
	require.NoError(t, err)
	require.NotEqual(t, "sekret-pass", hash)

	require.True(t, VerifyPassword(hash, "sekret-pass"))
	require.False(t, VerifyPassword(hash, "wrong-pass"))
	require.False(t, VerifyPassword("not-a-hash", "sekret-pass"))
}

func TestHashPassword_ClampsInvalidCost(t *testing.T) {
	// Out-of-range costs fall back to the bcrypt default instead of
	// producing a weak or invalid hash.
	hash, err := HashPassword("sekret-pass", 0)
	require.NoError(t, err)
	require.Equal(t, bcrypt.DefaultCost, mustCost(t, hash))

	hash, err = HashPassword("sekret-pass", 99)
	require.NoError(t, err)
	require.Equal(t, bcrypt.DefaultCost, mustCost(t, hash))
}

func mustCost(t *testing.T, hash string) int {
	t.Helper()
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	return cost
}
