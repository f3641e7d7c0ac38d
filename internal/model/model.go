// Package model defines domain entities shared by the client core and the dev backend.
//
// Dates travel as the backend renders them (ISO-8601 strings, date-only or
// naive datetimes), so they are kept as strings rather than time.Time.
package model

import "time"

// UserProfile is the resolved identity of the session owner. Replaced wholesale on each fetch.
type UserProfile struct {
	ID        int64    `json:"id"`
	Email     string   `json:"email"`
	FullName  *string  `json:"full_name"`
	IsActive  bool     `json:"is_active"`
	CreatedAt string   `json:"created_at"`
	Roles     []string `json:"roles"`
}

// DisplayName returns the full name when set, else the email.
func (u UserProfile) DisplayName() string {
	if u.FullName != nil && *u.FullName != "" {
		return *u.FullName
	}
	return u.Email
}

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	Email    string   `json:"email"`
	Password string   `json:"password"`
	FullName *string  `json:"full_name,omitempty"`
	IsActive *bool    `json:"is_active,omitempty"`
	Roles    []string `json:"roles,omitempty"`
}

// TokenResponse is the body returned by POST /token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Tokens collects issued access tokens with their expiry (dev backend).
type Tokens struct {
	AccessToken string
	ExpiresAt   time.Time
}

// User is an account stored by the dev backend. Never serialized to clients.
type User struct {
	ID        int64
	Email     string
	FullName  *string
	IsActive  bool
	PwdHash   string
	Roles     []string
	CreatedAt string
}

// Profile projects a stored user into the public profile shape.
func (u User) Profile() UserProfile {
	roles := append([]string(nil), u.Roles...)
	if roles == nil {
		roles = []string{}
	}
	return UserProfile{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		Roles:     roles,
	}
}
