package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	Init("test-secret", 15, 24)

	tokenID := NewTokenID()
	token, err := GenerateAccessToken(42, "admin", tokenID)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, tokenID, claims.TokenID)
	assert.Equal(t, SubjectAccessToken, claims.Subject)
}

func TestRefreshTokenSubject(t *testing.T) {
	Init("test-secret", 15, 24)

	token, err := GenerateRefreshToken(7, "tid")
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, SubjectRefreshToken, claims.Subject)
	assert.Empty(t, claims.Role)
}

func TestParseTokenRejectsOtherSecret(t *testing.T) {
	Init("secret-a", 15, 24)
	token, err := GenerateAccessToken(1, "user", "tid")
	require.NoError(t, err)

	Init("secret-b", 15, 24)
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	Init("test-secret", 15, 24)
	_, err := ParseToken("not-a-token")
	assert.Error(t, err)
}
