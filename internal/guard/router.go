package guard

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/and161185/assetdesk/internal/errs"
	"github.com/and161185/assetdesk/internal/model"
	"github.com/and161185/assetdesk/internal/rbac"
	"github.com/and161185/assetdesk/internal/session"
)

// Router maps navigable paths to guarded pages. Patterns use chi syntax
// ("/dashboards/{dashboardID}").
type Router struct {
	mux    *chi.Mux
	routes []model.Route
	pages  map[string]Page
	byPath map[string]model.Route
}

var noop = http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})

// NewRouter builds the route table. Public routes render unconditionally,
// routes without roles need authentication, the rest are role gated.
func NewRouter(routes []model.Route, g Guards) (*Router, error) {
	r := &Router{
		mux:    chi.NewRouter(),
		routes: append([]model.Route(nil), routes...),
		pages:  make(map[string]Page, len(routes)),
		byPath: make(map[string]model.Route, len(routes)),
	}
	for _, rt := range routes {
		if !strings.HasPrefix(rt.Path, "/") {
			return nil, fmt.Errorf("%w: route %q must start with /", errs.ErrInvalidInput, rt.Path)
		}
		if _, dup := r.pages[rt.Path]; dup {
			return nil, fmt.Errorf("%w: duplicate route %q", errs.ErrInvalidInput, rt.Path)
		}
		var page Page
		switch {
		case rt.Public:
			page = RenderPage
		case len(rt.RequiredRoles) == 0:
			page = g.Authenticated(RenderPage)
		default:
			page = g.RoleGated(rt.RequiredRoles, RenderPage)
		}
		r.pages[rt.Path] = page
		r.byPath[rt.Path] = rt
		r.mux.Get(rt.Path, noop)
	}
	return r, nil
}

// Match returns the declared route for path and its URL parameters.
func (r *Router) Match(path string) (model.Route, map[string]string, bool) {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		path = "/"
	}
	rctx := chi.NewRouteContext()
	if !r.mux.Match(rctx, http.MethodGet, path) {
		return model.Route{}, nil, false
	}
	rt, ok := r.byPath[rctx.RoutePattern()]
	if !ok {
		return model.Route{}, nil, false
	}
	var params map[string]string
	for i, k := range rctx.URLParams.Keys {
		if params == nil {
			params = make(map[string]string, len(rctx.URLParams.Keys))
		}
		params[k] = rctx.URLParams.Values[i]
	}
	return rt, params, true
}

// Resolve guards a navigation to path.
func (r *Router) Resolve(path string, s session.Snapshot) Decision {
	rt, params, ok := r.Match(path)
	if !ok {
		return Decision{Outcome: NotFound, Location: path}
	}
	d := r.pages[rt.Path].Decide(s, path)
	if d.Outcome == Render {
		d.Params = params
	}
	return d
}

// Routes returns the declared routes.
func (r *Router) Routes() []model.Route {
	return append([]model.Route(nil), r.routes...)
}

// VisibleRoutes lists the non-public routes roles may enter, matching what Resolve allows.
func (r *Router) VisibleRoutes(roles []string) []model.Route {
	return rbac.FilterRoutes(r.routes, roles)
}
