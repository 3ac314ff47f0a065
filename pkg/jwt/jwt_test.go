package jwt

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken("alice", testSecret, 1)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.UserId)
	assert.Equal(t, "alice", claims.Subject)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken("alice", testSecret, 1)
	require.NoError(t, err)

	_, err = ParseToken(token, "other-secret")
	assert.Error(t, err)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := ParseToken("not-a-token", testSecret)
	assert.Error(t, err)
}

func TestValidateToken(t *testing.T) {
	token, err := GenerateToken("alice", testSecret, 1)
	require.NoError(t, err)

	claims, err := ValidateToken(token, testSecret, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.UserId)

	_, err = ValidateToken(token, testSecret, "bob")
	assert.Error(t, err)
}

func mintIdentityToken(t *testing.T, sub, role string) string {
	t.Helper()
	claims := IdentityClaims{
		Role: role,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwtlib.NewNumericDate(time.Now()),
		},
	}
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func TestParseIdentityToken(t *testing.T) {
	token := mintIdentityToken(t, "user-123", "host")

	claims, err := ParseIdentityToken(token, testSecret, "user")
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserId)
	assert.Equal(t, "host", claims.Role)
}

func TestParseIdentityToken_DefaultRole(t *testing.T) {
	token := mintIdentityToken(t, "user-123", "")

	claims, err := ParseIdentityToken(token, testSecret, "user")
	require.NoError(t, err)
	assert.Equal(t, "user", claims.Role)
}

func TestParseIdentityToken_MissingSubject(t *testing.T) {
	token := mintIdentityToken(t, "", "user")

	_, err := ParseIdentityToken(token, testSecret, "user")
	assert.Error(t, err)
}
