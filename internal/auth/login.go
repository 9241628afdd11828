package auth

import "github.com/sganis/statwalker/internal/common"

// Login verifies username/password and, on success, mints a bearer
// token. Empty credentials are rejected before the host credential
// stack is ever consulted.
func Login(username, password string) (string, error) {
	if username == "" || password == "" {
		return "", common.ErrMissingCredentials
	}
	if !verifyCredentials(username, password) {
		return "", common.ErrWrongCredentials
	}
	return MintToken(username)
}

// ParseBearerHeader extracts the raw token from an "Authorization:
// Bearer <token>" header value. A missing or malformed header is
// reported as ErrInvalidToken.
func ParseBearerHeader(header string) (string, error) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
		return "", common.ErrInvalidToken
	}
	return header[len(prefix):], nil
}
