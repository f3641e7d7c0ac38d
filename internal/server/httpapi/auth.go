package httpapi

import (
	"net/http"

	"github.com/and161185/assetdesk/internal/model"
	"github.com/and161185/assetdesk/internal/rbac"
)

// login implements the OAuth2 password form: username/password → bearer token.
func (s *server) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid form")
		return
	}
	email, password := r.PostForm.Get("username"), r.PostForm.Get("password")
	if email == "" || password == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "username and password are required")
		return
	}
	tok, _, err := s.auth.LoginWithIP(r.Context(), email, password, clientIP(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.TokenResponse{AccessToken: tok.AccessToken, TokenType: "bearer"})
}

func (s *server) register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	// Only admins choose roles and activation; self-registration gets the defaults.
	if caller, ok := UserFromCtx(r.Context()); !ok || !rbac.HasAnyRole(admins, caller.Roles) {
		req.Roles = nil
		req.IsActive = nil
	}
	u, err := s.auth.Register(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u.Profile())
}

func (s *server) me(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFromCtx(r.Context())
	writeJSON(w, http.StatusOK, u.Profile())
}

func (s *server) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.auth.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]model.UserProfile, 0, len(users))
	for _, u := range users {
		out = append(out, u.Profile())
	}
	writeJSON(w, http.StatusOK, out)
}
