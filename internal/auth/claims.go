// Package auth verifies credentials against the host's login stack (or a
// development fallback), mints and verifies bearer tokens, and decides
// admin membership.
package auth

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sganis/statwalker/internal/common"
)

// Claims is the JWT claim set minted on successful login. The admin bit
// is decided once, at mint time, and is authoritative for the token's
// entire lifetime — verification never re-checks group membership.
type Claims struct {
	Sub     string `json:"sub"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

const tokenTTL = 24 * time.Hour

// unsafeDefaultSecret is used, with a warning, if JWT_SECRET is unset.
// Any real deployment must set JWT_SECRET explicitly.
const unsafeDefaultSecret = "insecure-development-secret-change-me"

var (
	secretOnce  sync.Once
	secretBytes []byte
)

func secret() []byte {
	secretOnce.Do(func() {
		if s := os.Getenv("JWT_SECRET"); s != "" {
			secretBytes = []byte(s)
			return
		}
		os.Stderr.WriteString("warning: JWT_SECRET not set, using an unsafe default secret\n")
		secretBytes = []byte(unsafeDefaultSecret)
	})
	return secretBytes
}

// MintToken signs a bearer token for username, with is_admin decided by
// IsAdminUser.
func MintToken(username string) (string, error) {
	now := time.Now()
	claims := Claims{
		Sub:     username,
		IsAdmin: IsAdminUser(username),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(secret())
	if err != nil {
		return "", common.ErrTokenCreation
	}
	return signed, nil
}

// VerifyToken parses and validates raw, returning the claims on success.
// Any decode, signature, or expiry failure is reported uniformly as
// ErrInvalidToken.
func VerifyToken(raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return secret(), nil
	})
	if err != nil || !tok.Valid {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}

// IsAdminUser reports whether username is a case-insensitive member of
// the ADMIN_GROUP environment variable's comma-separated list.
func IsAdminUser(username string) bool {
	group := os.Getenv("ADMIN_GROUP")
	if group == "" {
		return false
	}
	for _, name := range strings.Split(group, ",") {
		if strings.EqualFold(strings.TrimSpace(name), username) {
			return true
		}
	}
	return false
}
