package session

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/and161185/assetdesk/internal/errs"
	"github.com/and161185/assetdesk/internal/model"
	"github.com/and161185/assetdesk/internal/tokenstore"
)

type fakeAPI struct {
	mu          sync.Mutex
	loginFn     func(email, password string) (string, error)
	meFn        func(token string) (model.UserProfile, error)
	registerFn  func(req model.RegisterRequest) (model.UserProfile, error)
	loginCalls  int
	meCalls     int
	registerReq []model.RegisterRequest
}

var _ AuthAPI = (*fakeAPI)(nil)

func (f *fakeAPI) Login(_ context.Context, email, password string) (string, error) {
	f.mu.Lock()
	f.loginCalls++
	f.mu.Unlock()
	return f.loginFn(email, password)
}

func (f *fakeAPI) Me(_ context.Context, token string) (model.UserProfile, error) {
	f.mu.Lock()
	f.meCalls++
	f.mu.Unlock()
	return f.meFn(token)
}

func (f *fakeAPI) Register(_ context.Context, req model.RegisterRequest) (model.UserProfile, error) {
	f.mu.Lock()
	f.registerReq = append(f.registerReq, req)
	f.mu.Unlock()
	return f.registerFn(req)
}

func (f *fakeAPI) calls() (login, me int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loginCalls, f.meCalls
}

func goodAPI() *fakeAPI {
	return &fakeAPI{
		loginFn: func(email, password string) (string, error) {
			if password != "secret" {
				return "", errs.New(errs.ErrUnauthorized, http.StatusUnauthorized, "Incorrect username or password")
			}
			return "tok-" + email, nil
		},
		meFn: func(token string) (model.UserProfile, error) {
			return model.UserProfile{ID: 1, Email: "ana@corp.io", IsActive: true, Roles: []string{"manager", "user"}}, nil
		},
		registerFn: func(req model.RegisterRequest) (model.UserProfile, error) {
			return model.UserProfile{ID: 2, Email: req.Email}, nil
		},
	}
}

func newStore(t *testing.T, api AuthAPI, ts tokenstore.Store, retries int) *Store {
	t.Helper()
	return NewStore(api, ts, Options{ProfileRetries: retries, RetryBase: time.Millisecond}, zaptest.NewLogger(t))
}

func TestLogin_Valid(t *testing.T) {
	t.Parallel()

	ts := tokenstore.NewMemoryStore("")
	s := newStore(t, goodAPI(), ts, 0)

	var states []State
	cancel := s.Subscribe(func(sn Snapshot) { states = append(states, sn.State) })
	defer cancel()

	require.NoError(t, s.Login(context.Background(), "ana@corp.io", "secret"))

	persisted, err := ts.Load()
	require.NoError(t, err)
	require.Equal(t, "tok-ana@corp.io", persisted)

	snap := s.Snapshot()
	require.True(t, snap.IsAuthenticated)
	require.Equal(t, Authenticated, snap.State)
	require.False(t, snap.IsLoading)
	require.Empty(t, snap.Error)
	require.NotNil(t, snap.User)
	require.Equal(t, snap.User.Roles, snap.Roles)
	require.Equal(t, "tok-ana@corp.io", s.Token())
	require.True(t, s.HasAnyRole([]string{"manager"}))
	require.False(t, s.HasAnyRole([]string{"admin"}))
	require.Contains(t, states, Pending)
	require.Equal(t, Authenticated, states[len(states)-1])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	t.Parallel()

	ts := tokenstore.NewMemoryStore("")
	api := goodAPI()
	s := newStore(t, api, ts, 0)

	err := s.Login(context.Background(), "ana@corp.io", "wrong")
	require.ErrorIs(t, err, errs.ErrUnauthorized)

	snap := s.Snapshot()
	require.False(t, snap.IsAuthenticated)
	require.Equal(t, Anonymous, snap.State)
	require.Nil(t, snap.User)
	require.Empty(t, snap.Roles)
	require.Equal(t, "Incorrect username or password", snap.Error)
	_, lerr := ts.Load()
	require.ErrorIs(t, lerr, tokenstore.ErrNoToken)

	_, me := api.calls()
	require.Zero(t, me)
}

func TestLogin_ProfileFailureLeavesNoHalfSession(t *testing.T) {
	t.Parallel()

	ts := tokenstore.NewMemoryStore("")
	api := goodAPI()
	api.meFn = func(string) (model.UserProfile, error) {
		return model.UserProfile{}, errs.New(errs.ErrUnauthorized, 401, "Could not validate credentials")
	}
	s := newStore(t, api, ts, 3)

	require.Error(t, s.Login(context.Background(), "ana@corp.io", "secret"))
	snap := s.Snapshot()
	require.False(t, snap.IsAuthenticated)
	require.Empty(t, snap.Token)
	_, err := ts.Load()
	require.ErrorIs(t, err, tokenstore.ErrNoToken)

	_, me := api.calls()
	require.Equal(t, 1, me, "unauthorized is not retried")
}

func TestGetCurrentUser_RetriesTransient(t *testing.T) {
	t.Parallel()

	api := goodAPI()
	fails := 2
	api.meFn = func(string) (model.UserProfile, error) {
		if fails > 0 {
			fails--
			return model.UserProfile{}, errs.New(errs.ErrNetwork, 0, "network error: connection refused")
		}
		return model.UserProfile{ID: 1, Email: "ana@corp.io", Roles: []string{"admin"}}, nil
	}
	ts := tokenstore.NewMemoryStore("persisted")
	s := newStore(t, api, ts, 2)

	require.NoError(t, s.Restore(context.Background()))
	snap := s.Snapshot()
	require.Equal(t, Authenticated, snap.State)
	require.Equal(t, []string{"admin"}, snap.Roles)
	_, me := api.calls()
	require.Equal(t, 3, me)
}

func TestGetCurrentUser_EvictsAfterRetriesExhausted(t *testing.T) {
	t.Parallel()

	api := goodAPI()
	api.meFn = func(string) (model.UserProfile, error) {
		return model.UserProfile{}, errs.New(errs.ErrServer, 503, "HTTP error! status: 503")
	}
	ts := tokenstore.NewMemoryStore("persisted")
	s := newStore(t, api, ts, 2)

	err := s.Restore(context.Background())
	require.ErrorIs(t, err, errs.ErrServer)
	_, me := api.calls()
	require.Equal(t, 3, me)

	snap := s.Snapshot()
	require.Equal(t, Anonymous, snap.State)
	require.Equal(t, "HTTP error! status: 503", snap.Error)
	_, lerr := ts.Load()
	require.ErrorIs(t, lerr, tokenstore.ErrNoToken)
}

func TestGetCurrentUser_NoTokenIsNoop(t *testing.T) {
	t.Parallel()

	api := goodAPI()
	s := newStore(t, api, tokenstore.NewMemoryStore(""), 0)

	require.NoError(t, s.Restore(context.Background()))
	require.NoError(t, s.GetCurrentUser(context.Background()))
	require.False(t, s.Snapshot().IsAuthenticated)
	_, me := api.calls()
	require.Zero(t, me)
}

func TestGetCurrentUser_StaleProfileAfterLogout(t *testing.T) {
	t.Parallel()

	api := goodAPI()
	release := make(chan struct{})
	entered := make(chan struct{})
	api.meFn = func(string) (model.UserProfile, error) {
		close(entered)
		<-release
		return model.UserProfile{ID: 1, Roles: []string{"admin"}}, nil
	}
	s := newStore(t, api, tokenstore.NewMemoryStore("persisted"), 0)

	done := make(chan error, 1)
	go func() { done <- s.Restore(context.Background()) }()

	<-entered
	s.Logout()
	close(release)
	require.NoError(t, <-done)

	snap := s.Snapshot()
	require.Equal(t, Anonymous, snap.State)
	require.Nil(t, snap.User)
	require.Empty(t, snap.Roles)
}

func TestGetCurrentUser_CancelledKeepsSession(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	api := goodAPI()
	api.meFn = func(string) (model.UserProfile, error) {
		cancel()
		return model.UserProfile{}, errs.New(errs.ErrNetwork, 0, "network error: context canceled")
	}
	ts := tokenstore.NewMemoryStore("persisted")
	s := newStore(t, api, ts, 2)

	err := s.Restore(ctx)
	require.ErrorIs(t, err, context.Canceled)

	snap := s.Snapshot()
	require.Equal(t, "persisted", snap.Token)
	require.True(t, snap.IsAuthenticated)
	require.Equal(t, Pending, snap.State)
	require.False(t, snap.IsLoading)
	require.Empty(t, snap.Error)

	persisted, lerr := ts.Load()
	require.NoError(t, lerr)
	require.Equal(t, "persisted", persisted)
}

func TestGetCurrentUser_FailureAfterReloginKeepsNewSession(t *testing.T) {
	t.Parallel()

	api := goodAPI()
	ts := tokenstore.NewMemoryStore("persisted")
	s := newStore(t, api, ts, 0)

	api.meFn = func(token string) (model.UserProfile, error) {
		if token == "persisted" {
			require.NoError(t, s.Login(context.Background(), "bob@corp.io", "secret"))
			return model.UserProfile{}, errs.New(errs.ErrUnauthorized, http.StatusUnauthorized, "Could not validate credentials")
		}
		return model.UserProfile{ID: 3, Email: "bob@corp.io", Roles: []string{"user"}}, nil
	}

	err := s.Restore(context.Background())
	require.ErrorIs(t, err, errs.ErrUnauthorized)

	snap := s.Snapshot()
	require.Equal(t, Authenticated, snap.State)
	require.Equal(t, "tok-bob@corp.io", snap.Token)
	require.Equal(t, "bob@corp.io", snap.User.Email)
	require.Empty(t, snap.Error)

	persisted, lerr := ts.Load()
	require.NoError(t, lerr)
	require.Equal(t, "tok-bob@corp.io", persisted)
}

func TestLogout_AlwaysClears(t *testing.T) {
	t.Parallel()

	ts := tokenstore.NewMemoryStore("")
	s := newStore(t, goodAPI(), ts, 0)

	s.Logout()
	require.Equal(t, Anonymous, s.Snapshot().State)

	require.Error(t, s.Login(context.Background(), "ana@corp.io", "bad"))
	require.NotEmpty(t, s.Snapshot().Error)
	s.Logout()
	require.Empty(t, s.Snapshot().Error)

	require.NoError(t, s.Login(context.Background(), "ana@corp.io", "secret"))
	s.SetRedirect("/inventory")
	s.Logout()

	snap := s.Snapshot()
	require.Empty(t, snap.Token)
	require.Nil(t, snap.User)
	require.Empty(t, snap.Roles)
	require.Empty(t, snap.Error)
	require.False(t, snap.IsAuthenticated)
	require.Equal(t, "/", s.ConsumeRedirect())
	_, err := ts.Load()
	require.ErrorIs(t, err, tokenstore.ErrNoToken)
}

func TestRegister_ChainsLogin(t *testing.T) {
	t.Parallel()

	api := goodAPI()
	s := newStore(t, api, tokenstore.NewMemoryStore(""), 0)

	name := "Ana"
	require.NoError(t, s.Register(context.Background(), model.RegisterRequest{Email: "ana@corp.io", Password: "secret", FullName: &name}))
	login, _ := api.calls()
	require.Equal(t, 1, login)
	require.True(t, s.Snapshot().IsAuthenticated)
}

func TestRegister_FailureSkipsLogin(t *testing.T) {
	t.Parallel()

	api := goodAPI()
	api.registerFn = func(model.RegisterRequest) (model.UserProfile, error) {
		return model.UserProfile{}, errs.New(errs.ErrValidation, 400, "Email already registered")
	}
	s := newStore(t, api, tokenstore.NewMemoryStore(""), 0)

	err := s.Register(context.Background(), model.RegisterRequest{Email: "ana@corp.io", Password: "secret"})
	require.ErrorIs(t, err, errs.ErrValidation)
	login, _ := api.calls()
	require.Zero(t, login)
	require.Equal(t, "Email already registered", s.Snapshot().Error)
	require.False(t, s.Snapshot().IsLoading)

	s.ClearError()
	require.Empty(t, s.Snapshot().Error)
}

func TestRedirect_ConsumedOnce(t *testing.T) {
	t.Parallel()

	s := newStore(t, goodAPI(), tokenstore.NewMemoryStore(""), 0)
	require.Equal(t, "/", s.ConsumeRedirect())
	s.SetRedirect("/inventory/maintenance")
	require.Equal(t, "/inventory/maintenance", s.ConsumeRedirect())
	require.Equal(t, "/", s.ConsumeRedirect())
}

func TestSnapshot_IsACopy(t *testing.T) {
	t.Parallel()

	s := newStore(t, goodAPI(), tokenstore.NewMemoryStore(""), 0)
	require.NoError(t, s.Login(context.Background(), "ana@corp.io", "secret"))

	snap := s.Snapshot()
	snap.User.Roles[0] = "admin"
	snap.Roles[0] = "admin"
	require.False(t, s.HasAnyRole([]string{"admin"}))
	require.Equal(t, "manager", s.Snapshot().User.Roles[0])
}
