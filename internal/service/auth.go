// Package service contains the dev backend's application services for
// authentication and inventory.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	pkgcrypto "github.com/and161185/assetdesk/internal/crypto"
	"github.com/and161185/assetdesk/internal/errs"
	"github.com/and161185/assetdesk/internal/limiter"
	"github.com/and161185/assetdesk/internal/model"
	"github.com/and161185/assetdesk/internal/rbac"
	"github.com/and161185/assetdesk/internal/repository"
	"github.com/golang-jwt/jwt/v5"
)

// AuthService defines authentication operations.
type AuthService interface {
	// Register creates a new user with secure password hashing.
	Register(ctx context.Context, req model.RegisterRequest) (model.User, error)
	// LoginWithIP applies rate-limiting and authenticates the user.
	LoginWithIP(ctx context.Context, email, password, ip string) (model.Tokens, model.User, error)
	// Authenticate resolves the active user owning an access token.
	Authenticate(ctx context.Context, token string) (model.User, error)
	// ListUsers returns every account.
	ListUsers(ctx context.Context) ([]model.User, error)
}

type AuthServiceImpl struct {
	users     repository.UserRepository
	signKey   []byte
	accessTTL time.Duration
	lim       limiter.Limiter
	now       func() time.Time
}

var _ AuthService = (*AuthServiceImpl)(nil)

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, signKey []byte, accessTTL time.Duration, lim limiter.Limiter) *AuthServiceImpl {
	return &AuthServiceImpl{users: users, signKey: signKey, accessTTL: accessTTL, lim: lim, now: time.Now}
}

// Register creates a new account. Roles default to ["user"].
func (s *AuthServiceImpl) Register(ctx context.Context, req model.RegisterRequest) (model.User, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return model.User{}, fmt.Errorf("%w: a valid email is required", errs.ErrInvalidInput)
	}
	if len(req.Password) < 6 {
		return model.User{}, fmt.Errorf("%w: password must be at least 6 characters", errs.ErrInvalidInput)
	}
	hash, err := pkgcrypto.HashPassword(req.Password)
	if err != nil {
		return model.User{}, err
	}

	roles := rbac.Normalize(req.Roles)
	if len(roles) == 0 {
		roles = []string{"user"}
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	u := &model.User{
		Email:     email,
		FullName:  req.FullName,
		IsActive:  active,
		PwdHash:   hash,
		Roles:     roles,
		CreatedAt: timestamp(s.now()),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			return model.User{}, fmt.Errorf("%w: email already registered", errs.ErrAlreadyExists)
		}
		return model.User{}, err
	}
	return *u, nil
}

// LoginWithIP authenticates with rate limiting by (email, ip).
func (s *AuthServiceImpl) LoginWithIP(ctx context.Context, email, password, ip string) (model.Tokens, model.User, error) {
	ipHash := limiter.HashIP(ip)

	allowed, _, err := s.lim.Allow(ctx, email, ipHash)
	if err != nil {
		return model.Tokens{}, model.User{}, err
	}
	if !allowed {
		return model.Tokens{}, model.User{}, errs.ErrRateLimited
	}

	u, err := s.users.GetByEmail(ctx, email)
	ok := false
	if err == nil {
		ok, _ = pkgcrypto.VerifyPassword(password, u.PwdHash)
	}
	if !ok {
		if blocked, _, ferr := s.lim.Failure(ctx, email, ipHash); ferr == nil && blocked {
			return model.Tokens{}, model.User{}, errs.ErrRateLimited
		}
		// unknown email and wrong password look the same
		return model.Tokens{}, model.User{}, fmt.Errorf("%w: incorrect email or password", errs.ErrUnauthorized)
	}
	if !u.IsActive {
		return model.Tokens{}, model.User{}, fmt.Errorf("%w: inactive user", errs.ErrInvalidInput)
	}

	_ = s.lim.Success(ctx, email, ipHash)

	access, exp, err := s.issueAccessToken(u.ID)
	if err != nil {
		return model.Tokens{}, model.User{}, err
	}
	return model.Tokens{AccessToken: access, ExpiresAt: exp}, *u, nil
}

// issueAccessToken creates a signed HS256 JWT for the given subject.
func (s *AuthServiceImpl) issueAccessToken(userID int64) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.accessTTL)
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.signKey)
	return signed, exp, err
}

// Authenticate verifies token and loads its active owner.
func (s *AuthServiceImpl) Authenticate(ctx context.Context, token string) (model.User, error) {
	invalid := fmt.Errorf("%w: could not validate credentials", errs.ErrUnauthorized)
	if token == "" {
		return model.User{}, invalid
	}
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.signKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return model.User{}, invalid
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return model.User{}, invalid
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return model.User{}, invalid
	}
	if !u.IsActive {
		return model.User{}, fmt.Errorf("%w: inactive user", errs.ErrUnauthorized)
	}
	return *u, nil
}

func (s *AuthServiceImpl) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

// timestamp renders t the way the backend serializes datetimes.
func timestamp(t time.Time) string { return t.UTC().Format("2006-01-02T15:04:05") }
