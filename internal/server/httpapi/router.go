// Package httpapi serves the asset backend REST contract over chi, backed by
// the in-memory services. It exists for local development and end-to-end tests.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/and161185/assetdesk/internal/obs"
	"github.com/and161185/assetdesk/internal/service"
)

var (
	admins      = []string{"admin"}
	managers    = []string{"admin", "manager"}
	staff       = []string{"admin", "manager", "inventory_manager"}
	maintainers = []string{"admin", "manager", "inventory_manager", "technician"}
)

// Deps are the collaborators of the router.
type Deps struct {
	Auth      service.AuthService
	Inventory service.InventoryService
	Log       *zap.Logger
	// Metrics instruments every request when set.
	Metrics *obs.Metrics
	// Gatherer exposes GET /metrics when set.
	Gatherer prometheus.Gatherer
}

type server struct {
	auth service.AuthService
	inv  service.InventoryService
	log  *zap.Logger
}

// NewRouter builds the HTTP handler.
func NewRouter(d Deps) http.Handler {
	log := obs.OrNop(d.Log)
	s := &server{auth: d.Auth, inv: d.Inventory, log: log}

	r := chi.NewRouter()
	r.Use(Recover(log), Logging(log))
	if d.Metrics != nil {
		r.Use(d.Metrics.Instrument)
	}
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) { writeDetail(w, http.StatusNotFound, "Not Found") })
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	if d.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", obs.Handler(d.Gatherer))
	}
	r.Post("/token", s.login)
	r.With(OptionalAuthenticate(d.Auth)).Post("/register", s.register)

	r.Group(func(r chi.Router) {
		r.Use(Authenticate(d.Auth))

		r.Get("/users/me", s.me)
		r.With(RequireRoles(admins...)).Get("/users", s.listUsers)
		r.Get("/api/dashboard/inventory", s.dashboard)

		r.Route("/inventory/tech-assets", func(r chi.Router) {
			r.Get("/", s.listAssets)
			r.Get("/categories/list", s.assetCategories)
			r.Get("/status/list", s.assetStatuses)
			r.Get("/warranty/expiring", s.warrantyExpiring)
			r.Get("/statistics/overview", s.assetStatistics)
			r.Get("/{id}", s.getAsset)

			r.Group(func(r chi.Router) {
				r.Use(RequireRoles(staff...))
				r.Post("/", s.createAsset)
				r.Post("/generate-tag", s.generateTag)
				r.Patch("/{id}", s.updateAsset)
				r.Patch("/{id}/status", s.updateAssetStatus)
			})
			r.With(RequireRoles(managers...)).Delete("/{id}", s.deleteAsset)
		})

		r.Route("/inventory/assignments", func(r chi.Router) {
			r.Get("/my-assets", s.myAssignments)
			r.Get("/{id}", s.getAssignment)

			r.Group(func(r chi.Router) {
				r.Use(RequireRoles(staff...))
				r.Get("/", s.listAssignments)
				r.Get("/statistics/overview", s.assignmentStatistics)
				r.Get("/user/{userID}", s.userAssignments)
				r.Get("/asset/{assetID}/history", s.assetAssignmentHistory)
				r.Post("/", s.createAssignment)
				r.Post("/{id}/return", s.returnAsset)
				r.Post("/{id}/transfer", s.transferAsset)
			})
			r.With(RequireRoles(managers...)).Delete("/{id}", s.deleteAssignment)
		})

		r.Route("/inventory/maintenance", func(r chi.Router) {
			r.Get("/my-assigned", s.myMaintenances)

			r.Group(func(r chi.Router) {
				r.Use(RequireRoles(maintainers...))
				r.Get("/", s.listMaintenances)
				r.Get("/upcoming/schedule", s.upcomingMaintenances)
				r.Get("/overdue/list", s.overdueMaintenances)
				r.Get("/metrics/overview", s.maintenanceMetrics)
				r.Get("/asset/{assetID}/history", s.assetMaintenanceHistory)
				r.Get("/{id}", s.getMaintenance)
				r.Post("/", s.createMaintenance)
				r.Patch("/{id}", s.updateMaintenance)
				r.Post("/{id}/start", s.startMaintenance)
				r.Post("/{id}/complete", s.completeMaintenance)
				r.Post("/{id}/cancel", s.cancelMaintenance)
			})
			r.With(RequireRoles(staff...)).Post("/asset/{assetID}/schedule-preventive", s.schedulePreventive)
			r.With(RequireRoles(managers...)).Delete("/{id}", s.deleteMaintenance)
		})
	})
	return r
}
