package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestInspect_ReadsClaimsWithoutKey(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signedToken(t, jwt.RegisteredClaims{
		Subject:   "user-42",
		ExpiresAt: jwt.NewNumericDate(exp),
	})

	info, err := Inspect(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", info.Subject)
	assert.True(t, exp.Equal(info.ExpiresAt))
	assert.False(t, info.Expired(time.Now()))
	assert.True(t, info.Expired(exp.Add(time.Second)))
}

func TestInspect_ExpiredTokenStillDecodes(t *testing.T) {
	token := signedToken(t, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})

	info, err := Inspect(token)
	require.NoError(t, err)
	assert.True(t, info.Expired(time.Now()))
}

func TestInspect_Garbage(t *testing.T) {
	_, err := Inspect("opaque-token")
	assert.Error(t, err)

	_, err = Inspect("")
	assert.Error(t, err)
}

func TestTokenInfo_NoExpiryNeverExpires(t *testing.T) {
	assert.False(t, TokenInfo{}.Expired(time.Now()))
}
