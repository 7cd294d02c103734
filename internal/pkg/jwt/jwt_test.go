package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignParseRoundTrip(t *testing.T) {
	SetSecret("test-secret")

	token, err := Sign("user-1", "admin", time.Hour)
	require.NoError(t, err)

	claims, err := Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, issuer, claims.Issuer)
}

func TestParseExpiredToken(t *testing.T) {
	SetSecret("test-secret")

	token, err := Sign("user-1", "admin", -time.Minute)
	require.NoError(t, err)

	_, err = Parse(token)
	assert.Error(t, err)
}

func TestParseGarbage(t *testing.T) {
	SetSecret("test-secret")
	_, err := Parse("not-a-token")
	assert.Error(t, err)
}

func TestParseWrongSecret(t *testing.T) {
	SetSecret("secret-a")
	token, err := Sign("user-1", "admin", time.Hour)
	require.NoError(t, err)

	SetSecret("secret-b")
	_, err = Parse(token)
	assert.Error(t, err)
}
