package api

import (
	"net/http"

	"github.com/sganis/statwalker/internal/auth"
	"github.com/sganis/statwalker/internal/common"
)

// authenticate extracts and verifies the bearer token from r, writing an
// error response and returning ok=false on any failure. Verification
// happens on every request; no session state is cached between calls.
func authenticate(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	raw, err := auth.ParseBearerHeader(r.Header.Get("Authorization"))
	if err != nil {
		writeAuthError(w, err)
		return nil, false
	}
	claims, err := auth.VerifyToken(raw)
	if err != nil {
		writeAuthError(w, err)
		return nil, false
	}
	return claims, true
}

// authorizeUserFilter enforces that non-admins may only request exactly
// their own username. Authorization is checked before the index or
// filesystem is ever consulted.
func authorizeUserFilter(w http.ResponseWriter, claims *auth.Claims, requested []string) bool {
	if claims.IsAdmin {
		return true
	}
	if len(requested) == 1 && requested[0] == claims.Sub {
		return true
	}
	writeAuthError(w, common.ErrForbidden)
	return false
}
