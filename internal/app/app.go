// Package app wires the client core together: API client, session,
// notification queue, inventory cache and the guarded route table.
package app

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/and161185/assetdesk/internal/api"
	"github.com/and161185/assetdesk/internal/config"
	"github.com/and161185/assetdesk/internal/errs"
	"github.com/and161185/assetdesk/internal/guard"
	"github.com/and161185/assetdesk/internal/inventory"
	"github.com/and161185/assetdesk/internal/model"
	"github.com/and161185/assetdesk/internal/notify"
	"github.com/and161185/assetdesk/internal/obs"
	"github.com/and161185/assetdesk/internal/rbac"
	"github.com/and161185/assetdesk/internal/session"
	"github.com/and161185/assetdesk/internal/tokenstore"
)

// Options overrides collaborators that New would otherwise build from config.
type Options struct {
	Logger     *zap.Logger
	Registerer prometheus.Registerer
	HTTPClient *http.Client
	// Tokens replaces the file-backed token store.
	Tokens tokenstore.Store
}

// App is the assembled client core.
type App struct {
	Config        config.Config
	Log           *zap.Logger
	Metrics       *obs.Metrics
	API           *api.Client
	Session       *session.Store
	Notifications *notify.Queue
	Inventory     *inventory.Store
	Router        *guard.Router
}

// sessionTokens lets the API client read the session token even though the
// session is constructed after the client.
type sessionTokens struct {
	store atomic.Pointer[session.Store]
}

func (t *sessionTokens) Token() string {
	if s := t.store.Load(); s != nil {
		return s.Token()
	}
	return ""
}

// New builds an App from cfg.
func New(cfg config.Config, opts Options) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := obs.OrNop(opts.Logger)

	var metrics *obs.Metrics
	if opts.Registerer != nil {
		metrics = obs.NewMetrics(opts.Registerer, "assetdesk_client")
	}

	tokens := &sessionTokens{}
	client, err := api.New(api.Config{
		BaseURL:           cfg.BaseURL,
		HTTPClient:        opts.HTTPClient,
		Timeout:           cfg.RequestTimeout,
		Logger:            log.Named("api"),
		Metrics:           metrics,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Tokens:            tokens,
	})
	if err != nil {
		return nil, fmt.Errorf("api client: %w", err)
	}

	persisted := opts.Tokens
	if persisted == nil {
		persisted = tokenstore.NewFileStore(cfg.TokenPath)
	}

	sess := session.NewStore(client, persisted, session.Options{ProfileRetries: cfg.ProfileRetries}, log.Named("session"))
	tokens.store.Store(sess)

	queue := notify.NewQueue(cfg.NotificationDuration, log.Named("notify"))
	inv := inventory.NewStore(client, queue, log.Named("inventory"))

	router, err := guard.NewRouter(cfg.Routes, guard.Guards{LoginPath: cfg.LoginPath, UnauthorizedPath: cfg.UnauthorizedPath})
	if err != nil {
		return nil, fmt.Errorf("routes: %w", err)
	}

	return &App{
		Config:        cfg,
		Log:           log,
		Metrics:       metrics,
		API:           client,
		Session:       sess,
		Notifications: queue,
		Inventory:     inv,
		Router:        router,
	}, nil
}

// Start restores a persisted session, if any.
func (a *App) Start(ctx context.Context) error {
	return a.Session.Restore(ctx)
}

// Menu is the navigation tree pruned for the current roles.
func (a *App) Menu() []model.MenuItem {
	return rbac.FilterMenu(a.Config.Menu, a.Session.Snapshot().Roles)
}

// Dashboards lists the dashboards the current roles may embed.
func (a *App) Dashboards() []model.DashboardConfig {
	return rbac.FilterDashboards(a.Config.Dashboards, a.Session.Snapshot().Roles)
}

// Dashboard returns one visible dashboard. Dashboards hidden by role are
// reported as not found.
func (a *App) Dashboard(id string) (model.DashboardConfig, error) {
	for _, d := range a.Dashboards() {
		if d.ID == id {
			return d, nil
		}
	}
	return model.DashboardConfig{}, fmt.Errorf("%w: dashboard %q", errs.ErrNotFound, id)
}

// Navigate guards a navigation to path against the current session.
// A login redirect records the requested location for ConsumeRedirect.
func (a *App) Navigate(path string) guard.Decision {
	d := a.Router.Resolve(path, a.Session.Snapshot())
	if d.Outcome == guard.RedirectLogin && d.From != "" {
		a.Session.SetRedirect(d.From)
	}
	return d
}

// Login authenticates and returns the location to continue at.
func (a *App) Login(ctx context.Context, email, password string) (string, error) {
	if err := a.Session.Login(ctx, email, password); err != nil {
		return "", err
	}
	return a.Session.ConsumeRedirect(), nil
}

// Logout ends the session and drops pending notifications and cached inventory.
func (a *App) Logout() {
	a.Session.Logout()
	a.Notifications.Clear()
	a.Inventory.Reset()
}

// Close stops pending notification timers and flushes the logger.
func (a *App) Close() {
	a.Notifications.Clear()
	_ = a.Log.Sync()
}
