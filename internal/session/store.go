package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"github.com/and161185/assetdesk/internal/errs"
	"github.com/and161185/assetdesk/internal/model"
	"github.com/and161185/assetdesk/internal/obs"
	"github.com/and161185/assetdesk/internal/rbac"
	"github.com/and161185/assetdesk/internal/tokenstore"
)

// AuthAPI is the part of the backend the session needs.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (string, error)
	Me(ctx context.Context, token string) (model.UserProfile, error)
	Register(ctx context.Context, req model.RegisterRequest) (model.UserProfile, error)
}

// Options tunes profile fetching and redirects.
type Options struct {
	// ProfileRetries is how many times a transient profile failure is retried.
	ProfileRetries int
	// RetryBase is the first backoff interval (200ms when zero).
	RetryBase time.Duration
	// DefaultRedirect is returned by ConsumeRedirect when nothing was recorded ("/" when empty).
	DefaultRedirect string
}

// Snapshot is an immutable view of the session.
// IsAuthenticated == (Token != ""); Roles is empty until User is set.
type Snapshot struct {
	Token           string
	User            *model.UserProfile
	Roles           []string
	State           State
	IsAuthenticated bool
	IsLoading       bool
	Error           string
}

// Store is the session owner and the only writer of the persisted token.
type Store struct {
	api       AuthAPI
	persisted tokenstore.Store
	opts      Options
	log       *zap.Logger

	mu       sync.Mutex
	token    string
	user     *model.UserProfile
	roles    rbac.RoleSet
	state    State
	loading  bool
	err      string
	redirect string
	subs     map[int]func(Snapshot)
	nextSub  int
}

// NewStore constructs a session Store in the Anonymous state.
func NewStore(api AuthAPI, persisted tokenstore.Store, opts Options, log *zap.Logger) *Store {
	if opts.RetryBase <= 0 {
		opts.RetryBase = 200 * time.Millisecond
	}
	if opts.ProfileRetries < 0 {
		opts.ProfileRetries = 0
	}
	if opts.DefaultRedirect == "" {
		opts.DefaultRedirect = "/"
	}
	return &Store{
		api:       api,
		persisted: persisted,
		opts:      opts,
		log:       obs.OrNop(log),
		subs:      make(map[int]func(Snapshot)),
	}
}

// Restore reads the persisted token and, when present, resolves its profile.
func (s *Store) Restore(ctx context.Context) error {
	tok, err := s.persisted.Load()
	if err != nil {
		if !errors.Is(err, tokenstore.ErrNoToken) {
			s.log.Warn("read persisted token", zap.Error(err))
		}
		return nil
	}
	s.update(func() {
		s.token = tok
		s.state = Transition(s.state, EventTokenRestored)
	})
	return s.GetCurrentUser(ctx)
}

// Login exchanges credentials for a token, persists it and resolves the profile.
// On failure the session is back at the anonymous baseline with Error set.
func (s *Store) Login(ctx context.Context, email, password string) error {
	s.update(func() {
		s.loading = true
		s.err = ""
	})

	tok, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.log.Info("login failed", zap.String("email", email), zap.Error(err))
		s.evict(err)
		return err
	}

	s.update(func() {
		if perr := s.persisted.Save(tok); perr != nil {
			s.log.Warn("persist token", zap.Error(perr))
		}
		s.token = tok
		s.user = nil
		s.roles = rbac.RoleSet{}
		s.state = Transition(s.state, EventLoginSucceeded)
		s.loading = false
	})
	return s.GetCurrentUser(ctx)
}

// GetCurrentUser resolves the profile for the current token. Without a token it
// only clears the user. Transient failures are retried; any final failure evicts
// the session and deletes the persisted token. A cancelled ctx leaves the session as is.
func (s *Store) GetCurrentUser(ctx context.Context) error {
	s.mu.Lock()
	tok := s.token
	s.mu.Unlock()

	if tok == "" {
		s.update(func() {
			s.user = nil
			s.roles = rbac.RoleSet{}
			s.state = Anonymous
		})
		return nil
	}

	s.update(func() { s.loading = true })

	var profile model.UserProfile
	attempts := 0
	backoff := retry.WithMaxRetries(uint64(s.opts.ProfileRetries), retry.NewExponential(s.opts.RetryBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++
		p, err := s.api.Me(ctx, tok)
		if err != nil {
			if errs.Transient(err) {
				s.log.Debug("profile fetch failed, retrying", zap.Int("attempt", attempts), zap.Error(err))
				return retry.RetryableError(err)
			}
			return err
		}
		profile = p
		return nil
	})

	if err != nil && ctx.Err() != nil && errs.KindOf(err) != errs.ErrUnauthorized {
		// Caller gave up; the token is still good.
		s.log.Debug("profile fetch abandoned", zap.Error(err))
		s.update(func() {
			if s.token == tok {
				s.loading = false
			}
		})
		return err
	}

	if err != nil {
		if s.evictToken(tok, err) {
			s.log.Info("profile fetch failed, session evicted", zap.Int("attempts", attempts), zap.Error(err))
		}
		return err
	}

	s.update(func() {
		// Logged out or re-logged in while fetching.
		if s.token != tok {
			return
		}
		p := profile
		s.user = &p
		s.roles = rbac.NewRoleSet(p.Roles...)
		s.state = Transition(s.state, EventProfileLoaded)
		s.loading = false
	})
	return nil
}

// Logout clears every session field and the persisted token. It cannot fail.
func (s *Store) Logout() {
	s.update(func() {
		if err := s.persisted.Delete(); err != nil {
			s.log.Warn("delete persisted token", zap.Error(err))
		}
		s.token = ""
		s.user = nil
		s.roles = rbac.RoleSet{}
		s.err = ""
		s.loading = false
		s.redirect = ""
		s.state = Transition(s.state, EventLogout)
	})
}

// Register creates the account and then logs in with the same credentials.
// A registration failure is surfaced without attempting login.
func (s *Store) Register(ctx context.Context, req model.RegisterRequest) error {
	s.update(func() {
		s.loading = true
		s.err = ""
	})
	if _, err := s.api.Register(ctx, req); err != nil {
		s.update(func() {
			s.err = errs.Message(err)
			s.loading = false
		})
		return err
	}
	s.update(func() { s.loading = false })
	return s.Login(ctx, req.Email, req.Password)
}

func (s *Store) evict(cause error) {
	s.update(func() { s.evictLocked(cause) })
}

// evictToken evicts only if tok is still the session token. Reports whether it did.
func (s *Store) evictToken(tok string, cause error) bool {
	evicted := false
	s.update(func() {
		if s.token != tok {
			return
		}
		s.evictLocked(cause)
		evicted = true
	})
	return evicted
}

func (s *Store) evictLocked(cause error) {
	if err := s.persisted.Delete(); err != nil {
		s.log.Warn("delete persisted token", zap.Error(err))
	}
	s.token = ""
	s.user = nil
	s.roles = rbac.RoleSet{}
	s.err = errs.Message(cause)
	s.loading = false
	s.state = Transition(s.state, EventFailed)
}

// Token implements api.TokenSource.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// HasAnyRole applies the shared role predicate to the session roles.
func (s *Store) HasAnyRole(required []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roles.Any(required)
}

// Snapshot returns the current session view.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		Token:           s.token,
		Roles:           s.roles.Slice(),
		State:           s.state,
		IsAuthenticated: s.token != "",
		IsLoading:       s.loading,
		Error:           s.err,
	}
	if s.user != nil {
		u := *s.user
		u.Roles = append([]string(nil), s.user.Roles...)
		snap.User = &u
	}
	return snap
}

// ClearError resets the error field.
func (s *Store) ClearError() {
	s.update(func() { s.err = "" })
}

// SetRedirect records where to go after the next login.
func (s *Store) SetRedirect(from string) {
	s.mu.Lock()
	s.redirect = from
	s.mu.Unlock()
}

// ConsumeRedirect returns the recorded location once, then the default.
func (s *Store) ConsumeRedirect() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	to := s.redirect
	s.redirect = ""
	if to == "" {
		return s.opts.DefaultRedirect
	}
	return to
}

// Subscribe registers fn for every change; the returned func unregisters it.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// update applies mut under the lock and notifies subscribers outside it.
func (s *Store) update(mut func()) {
	s.mu.Lock()
	mut()
	snap := s.snapshotLocked()
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}
