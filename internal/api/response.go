// Package api exposes the query service's HTTP endpoints: login, user
// listing, folder drill-down and on-demand file listing, backed by the
// process-global index.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/sganis/statwalker/internal/common"
)

// writeJSON marshals v as the response body with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorBody is the literal `{error: "<short message>"}` shape every
// failure response uses.
type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// statusFor maps the auth/validation sentinel errors to their HTTP
// status. Anything else is an unhandled error: 500.
func statusFor(err error) int {
	switch err {
	case common.ErrMissingCredentials:
		return http.StatusBadRequest
	case common.ErrWrongCredentials:
		return http.StatusUnauthorized
	case common.ErrForbidden:
		return http.StatusForbidden
	case common.ErrInvalidToken:
		return http.StatusBadRequest
	case common.ErrTokenCreation:
		return http.StatusInternalServerError
	case common.ErrMissingPath, common.ErrMalformedQuery:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeAuthError writes the body+status pair for an auth/validation
// sentinel error.
func writeAuthError(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err.Error())
}
