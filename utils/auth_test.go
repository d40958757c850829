package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("rocket")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("rocket", hash))
	assert.False(t, CheckPasswordHash("comet", hash))
}

func TestJWTRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")

	token, err := GenerateJWTToken("abc123", "nova", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWTToken(token)
	require.NoError(t, err)
	assert.Equal(t, "abc123", claims.UserID)
	assert.Equal(t, "nova", claims.Username)
}

func TestJWTExpired(t *testing.T) {
	SetJWTSecret("test-secret")

	token, err := GenerateJWTToken("abc123", "nova", -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWTToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestJWTWrongSecret(t *testing.T) {
	SetJWTSecret("one")
	token, err := GenerateJWTToken("abc123", "nova", time.Hour)
	require.NoError(t, err)

	SetJWTSecret("two")
	_, err = ParseJWTToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestBearerToken(t *testing.T) {
	token, ok := BearerToken("Bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", token)

	for _, header := range []string{"", "abc", "Basic abc", "Bearer ", "Bearer a b"} {
		_, ok := BearerToken(header)
		assert.False(t, ok, header)
	}
}

func TestGuestUsername(t *testing.T) {
	a, b := GuestUsername(), GuestUsername()
	assert.True(t, strings.HasPrefix(a, "Guest_"))
	assert.Len(t, a, len("Guest_")+8)
	assert.NotEqual(t, a, b)
}
