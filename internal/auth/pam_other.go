//go:build !unix

package auth

import "os"

const (
	defaultFakeUser     = "admin"
	defaultFakePassword = "admin"
)

// verifyCredentials is the non-POSIX development fallback: it compares
// against FAKE_USER/FAKE_PASSWORD (default admin/admin) since no PAM
// stack exists on this platform.
func verifyCredentials(username, password string) bool {
	expectedUser := os.Getenv("FAKE_USER")
	if expectedUser == "" {
		expectedUser = defaultFakeUser
	}
	expectedPassword := os.Getenv("FAKE_PASSWORD")
	if expectedPassword == "" {
		expectedPassword = defaultFakePassword
	}
	return username == expectedUser && password == expectedPassword
}
