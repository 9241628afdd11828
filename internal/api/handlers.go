package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/sganis/statwalker/internal/auth"
	"github.com/sganis/statwalker/internal/common"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAuthError(w, common.ErrMissingCredentials)
		return
	}

	tok, err := auth.Login(req.Username, req.Password)
	if err != nil {
		writeAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{AccessToken: tok, TokenType: "Bearer"})
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	claims, ok := authenticate(w, r)
	if !ok {
		return
	}

	if !claims.IsAdmin {
		writeJSON(w, http.StatusOK, []string{claims.Sub})
		return
	}

	idx, err := globalIndex()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, idx.Users())
}

// parseUsersCSV splits a comma-separated, possibly-empty "users" query
// parameter into its non-empty members.
func parseUsersCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseAgeFilter parses the "age" query parameter ("0", "1" or "2"); an
// absent or malformed value means "no filter".
func parseAgeFilter(raw string) *int {
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 || v > 2 {
		return nil
	}
	return &v
}

func (s *Server) handleFolders(w http.ResponseWriter, r *http.Request) {
	claims, ok := authenticate(w, r)
	if !ok {
		return
	}

	path := r.URL.Query().Get("path")
	if path == "" {
		path = "/"
	} else if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	users := parseUsersCSV(r.URL.Query().Get("users"))
	if !authorizeUserFilter(w, claims, users) {
		return
	}
	age := parseAgeFilter(r.URL.Query().Get("age"))

	idx, err := globalIndex()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	children, err := idx.ListChildren(path, users, age)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, children)
}
