package security

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	data := []struct {
		name          string
		inputPassword string
	}{
		{
			name:          "normal password",
			inputPassword: "password123",
		},
		{
			name:          "empty password",
			inputPassword: "",
		},
		{
			name:          "short password",
			inputPassword: "123",
		},
	}

	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			hash, err := HashPassword(d.inputPassword)
			require.NoError(t, err)
			require.NotEmpty(t, hash)

			err = bcrypt.CompareHashAndPassword([]byte(hash), []byte(d.inputPassword))
			require.NoError(t, err)

			require.True(t, CheckPasswordHash(d.inputPassword, hash))
			require.False(t, CheckPasswordHash(d.inputPassword+"x", hash))
		})
	}
}

func TestHashPasswordSalted(t *testing.T) {
	first, err := HashPassword("password123")
	require.NoError(t, err)
	second, err := HashPassword("password123")
	require.NoError(t, err)

	// Salts differ, hashes differ, both still verify.
	require.NotEqual(t, first, second)
	require.True(t, CheckPasswordHash("password123", first))
	require.True(t, CheckPasswordHash("password123", second))
}
