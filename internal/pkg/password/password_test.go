package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("secret123")
	require.NoError(t, err)

	assert.NotEqual(t, "secret123", hash)
	assert.True(t, Verify("secret123", hash))
	assert.False(t, Verify("secret124", hash))
	assert.False(t, Verify("", hash))
}

func TestHashIsSalted(t *testing.T) {
	first, err := Hash("secret123")
	require.NoError(t, err)
	second, err := Hash("secret123")
	require.NoError(t, err)

	// Same password, different salt, different hash
	assert.NotEqual(t, first, second)
	assert.True(t, Verify("secret123", first))
	assert.True(t, Verify("secret123", second))
}

func TestHashCost(t *testing.T) {
	hash, err := Hash("secret123")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, DefaultCost, cost)
}

func TestVerifyGarbageHash(t *testing.T) {
	assert.False(t, Verify("secret123", "not-a-bcrypt-hash"))
}

func TestValidate(t *testing.T) {
	assert.True(t, Validate("123456"))
	assert.True(t, Validate("a longer passphrase"))
	assert.False(t, Validate("12345"))
	assert.False(t, Validate(""))
}
