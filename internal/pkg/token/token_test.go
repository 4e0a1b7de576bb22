package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateAndValidate(t *testing.T) {
	signed, err := Generate("user-1", "alice", "user", testSecret)
	require.NoError(t, err)

	claims, err := Validate(signed, testSecret)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "user", claims.Role)

	// Expiry sits a week out
	expiry := claims.ExpiresAt.Time
	assert.WithinDuration(t, time.Now().Add(Lifetime), expiry, time.Minute)
}

func TestValidateWrongSecret(t *testing.T) {
	signed, err := Generate("user-1", "alice", "user", testSecret)
	require.NoError(t, err)

	_, err = Validate(signed, "other-secret")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateMalformed(t *testing.T) {
	for _, tok := range []string{"", "garbage", "a.b.c"} {
		_, err := Validate(tok, testSecret)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	}
}

func TestValidateTampered(t *testing.T) {
	signed, err := Generate("user-1", "alice", "user", testSecret)
	require.NoError(t, err)

	tampered := signed[:len(signed)-2] + "xx"
	_, err = Validate(tampered, testSecret)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateExpired(t *testing.T) {
	claims := Claims{
		UserID:   "user-1",
		Username: "alice",
		Role:     "user",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = Validate(signed, testSecret)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateRejectsUnsignedAlg(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "user-1"})
	signed, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = Validate(signed, testSecret)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
