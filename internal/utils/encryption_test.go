package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("Password1")

	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "Password1", hash)
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("Password1")
	require.NoError(t, err)

	assert.True(t, CheckPassword("Password1", hash))
	assert.False(t, CheckPassword("Password2", hash))
	assert.False(t, CheckPassword("", hash))
}

func TestCheckPasswordBadHash(t *testing.T) {
	assert.False(t, CheckPassword("Password1", "not-a-bcrypt-hash"))
}
