package inventory

import (
	"context"

	"github.com/and161185/assetdesk/internal/model"
)

// FetchDashboardMetrics loads the inventory dashboard figures.
func (s *Store) FetchDashboardMetrics(ctx context.Context) error {
	return fetch(ctx, s, "fetch_dashboard_metrics", s.api.DashboardInventory,
		func(st *Snapshot, v model.InventoryMetrics) { st.DashboardMetrics = &v })
}

// FetchStatistics loads the asset, assignment and maintenance overviews in one go.
// Nothing is stored unless all three succeed.
func (s *Store) FetchStatistics(ctx context.Context) error {
	return fetch(ctx, s, "fetch_statistics",
		func(ctx context.Context) (Statistics, error) {
			var out Statistics
			var err error
			if out.Assets, err = s.api.AssetStatistics(ctx); err != nil {
				return out, err
			}
			if out.Assignments, err = s.api.AssignmentStatistics(ctx); err != nil {
				return out, err
			}
			out.Maintenance, err = s.api.MaintenanceMetrics(ctx, "", "")
			return out, err
		},
		func(st *Snapshot, v Statistics) { st.Statistics = &v })
}
