package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/and161185/assetdesk/internal/errs"
	"github.com/and161185/assetdesk/internal/model"
)

// Login exchanges credentials for an access token (form-encoded POST /token).
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	none := ""
	var tr model.TokenResponse
	if err := c.do(ctx, call{method: http.MethodPost, path: "/token", form: form, token: &none, out: &tr}); err != nil {
		return "", err
	}
	if tr.AccessToken == "" {
		return "", errs.New(errs.ErrServer, http.StatusOK, "token response without access_token")
	}
	return tr.AccessToken, nil
}

// Me fetches the profile owning token.
func (c *Client) Me(ctx context.Context, token string) (model.UserProfile, error) {
	var p model.UserProfile
	err := c.do(ctx, call{method: http.MethodGet, path: "/users/me", token: &token, out: &p})
	return p, err
}

// Register creates a user account.
func (c *Client) Register(ctx context.Context, req model.RegisterRequest) (model.UserProfile, error) {
	var p model.UserProfile
	err := c.do(ctx, call{method: http.MethodPost, path: "/register", body: req, out: &p})
	return p, err
}

// ListUsers returns every user (admin only on the backend).
func (c *Client) ListUsers(ctx context.Context) ([]model.UserProfile, error) {
	var out []model.UserProfile
	err := c.do(ctx, call{method: http.MethodGet, path: "/users", out: &out})
	return out, err
}
