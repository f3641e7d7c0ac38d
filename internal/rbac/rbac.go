// Package rbac holds the single role predicate consulted by route guards,
// menu rendering and dashboard listing.
package rbac

import (
	"slices"
	"strings"

	"github.com/and161185/assetdesk/internal/model"
)

// HasAnyRole reports whether current intersects required.
// An empty required set means unrestricted and always passes.
func HasAnyRole(required, current []string) bool {
	if len(required) == 0 {
		return true
	}
	for _, r := range required {
		if slices.Contains(current, r) {
			return true
		}
	}
	return false
}

// Normalize trims, drops empty entries and dedupes a role list, keeping first-seen order.
func Normalize(roles []string) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		r = strings.TrimSpace(r)
		if r == "" || slices.Contains(out, r) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Visible reports whether item renders for roles: its own requirement passes and,
// if it has children, at least one child is visible.
func Visible(item model.MenuItem, roles []string) bool {
	if !HasAnyRole(item.RequiredRoles, roles) {
		return false
	}
	if len(item.Children) == 0 {
		return true
	}
	for _, c := range item.Children {
		if Visible(c, roles) {
			return true
		}
	}
	return false
}

// FilterMenu returns a pruned copy of items containing only what renders for roles.
// The input is never mutated and FilterMenu(FilterMenu(x)) == FilterMenu(x).
func FilterMenu(items []model.MenuItem, roles []string) []model.MenuItem {
	out := make([]model.MenuItem, 0, len(items))
	for _, it := range items {
		if !Visible(it, roles) {
			continue
		}
		cp := it
		if len(it.Children) > 0 {
			cp.Children = FilterMenu(it.Children, roles)
		}
		out = append(out, cp)
	}
	return out
}

// FilterDashboards returns the dashboards roles may embed.
func FilterDashboards(dashboards []model.DashboardConfig, roles []string) []model.DashboardConfig {
	out := make([]model.DashboardConfig, 0, len(dashboards))
	for _, d := range dashboards {
		if HasAnyRole(d.RequiredRoles, roles) {
			out = append(out, d)
		}
	}
	return out
}

// FilterRoutes returns the non-public routes roles may enter.
func FilterRoutes(routes []model.Route, roles []string) []model.Route {
	out := make([]model.Route, 0, len(routes))
	for _, r := range routes {
		if r.Public {
			continue
		}
		if HasAnyRole(r.RequiredRoles, roles) {
			out = append(out, r)
		}
	}
	return out
}

// RoleSet is a normalized, order-preserving set of role names.
type RoleSet struct {
	roles []string
}

// NewRoleSet builds a RoleSet from raw role strings.
func NewRoleSet(roles ...string) RoleSet {
	return RoleSet{roles: Normalize(roles)}
}

// Has reports whether role is in the set.
func (s RoleSet) Has(role string) bool { return slices.Contains(s.roles, role) }

// Any reports whether the set satisfies required.
func (s RoleSet) Any(required []string) bool { return HasAnyRole(required, s.roles) }

// Slice returns a copy of the roles, never nil.
func (s RoleSet) Slice() []string {
	out := make([]string, len(s.roles))
	copy(out, s.roles)
	return out
}
