package auth

import (
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/sganis/statwalker/internal/common"
)

func TestMintedTokenVerifiesSameProcess(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	resetSecretForTest()

	tok, err := MintToken("alice")
	require.NoError(t, err)

	claims, err := VerifyToken(tok)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Sub)
}

func TestTamperedSignatureRejected(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	resetSecretForTest()

	tok, err := MintToken("alice")
	require.NoError(t, err)

	_, err = VerifyToken(tok + "tamper")
	require.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	resetSecretForTest()

	claims := Claims{
		Sub:     "alice",
		IsAdmin: false,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-25 * time.Hour)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(secret())
	require.NoError(t, err)

	_, err = VerifyToken(signed)
	require.Error(t, err)
}

func TestIsAdminUserCaseInsensitive(t *testing.T) {
	t.Setenv("ADMIN_GROUP", "Alice, bob")
	require.True(t, IsAdminUser("alice"))
	require.True(t, IsAdminUser("BOB"))
	require.False(t, IsAdminUser("carol"))
}

func TestLoginRejectsEmptyCredentials(t *testing.T) {
	_, err := Login("", "x")
	require.ErrorIs(t, err, common.ErrMissingCredentials)

	_, err = Login("x", "")
	require.ErrorIs(t, err, common.ErrMissingCredentials)
}

func TestParseBearerHeader(t *testing.T) {
	tok, err := ParseBearerHeader("Bearer abc.def.ghi")
	require.NoError(t, err)
	require.Equal(t, "abc.def.ghi", tok)

	_, err = ParseBearerHeader("")
	require.Error(t, err)

	_, err = ParseBearerHeader("Basic abc")
	require.Error(t, err)
}

// resetSecretForTest lets each test force a fresh secret load after
// t.Setenv changes JWT_SECRET, since the package caches it via sync.Once.
func resetSecretForTest() {
	secretOnce = sync.Once{}
}
