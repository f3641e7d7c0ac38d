package inventory

import (
	"context"
	"fmt"

	"github.com/and161185/assetdesk/internal/model"
)

// FetchMaintenances replaces the maintenance cache with the list matching the current filters.
func (s *Store) FetchMaintenances(ctx context.Context) error {
	f := s.Snapshot().MaintenanceFilters
	return fetch(ctx, s, "fetch_maintenances",
		func(ctx context.Context) ([]model.AssetMaintenance, error) { return s.api.ListMaintenances(ctx, f) },
		func(st *Snapshot, v []model.AssetMaintenance) { st.Maintenances = v })
}

func (s *Store) CreateMaintenance(ctx context.Context, in model.AssetMaintenanceCreate) (model.AssetMaintenance, error) {
	return mutate(ctx, s,
		outcome{op: "create_maintenance", okTitle: "Maintenance scheduled", failTitle: "Could not schedule maintenance"},
		func(ctx context.Context) (model.AssetMaintenance, error) { return s.api.CreateMaintenance(ctx, in) },
		func(st *Snapshot, v model.AssetMaintenance) { st.Maintenances = appendCopy(st.Maintenances, v) },
		func(v model.AssetMaintenance) string { return fmt.Sprintf("Maintenance %q was scheduled.", v.Title) })
}

func (s *Store) UpdateMaintenance(ctx context.Context, id int64, in model.AssetMaintenanceUpdate) (model.AssetMaintenance, error) {
	return s.transition(ctx, id, outcome{op: "update_maintenance", okTitle: "Maintenance updated", failTitle: "Could not update maintenance"},
		"The maintenance was updated.",
		func(ctx context.Context) (model.AssetMaintenance, error) { return s.api.UpdateMaintenance(ctx, id, in) })
}

func (s *Store) StartMaintenance(ctx context.Context, id int64, notes string) (model.AssetMaintenance, error) {
	return s.transition(ctx, id, outcome{op: "start_maintenance", okTitle: "Maintenance started", failTitle: "Could not start maintenance"},
		"The maintenance was started.",
		func(ctx context.Context) (model.AssetMaintenance, error) {
			return s.api.StartMaintenance(ctx, id, notes)
		})
}

func (s *Store) CompleteMaintenance(ctx context.Context, id int64, in model.CompleteMaintenanceRequest) (model.AssetMaintenance, error) {
	return s.transition(ctx, id, outcome{op: "complete_maintenance", okTitle: "Maintenance completed", failTitle: "Could not complete maintenance"},
		"The maintenance was completed.",
		func(ctx context.Context) (model.AssetMaintenance, error) {
			return s.api.CompleteMaintenance(ctx, id, in)
		})
}

// CancelMaintenance reports success as a warning.
func (s *Store) CancelMaintenance(ctx context.Context, id int64, reason string) (model.AssetMaintenance, error) {
	return s.transition(ctx, id, outcome{op: "cancel_maintenance", okKind: model.NotifyWarning, okTitle: "Maintenance cancelled", failTitle: "Could not cancel maintenance"},
		"The maintenance was cancelled.",
		func(ctx context.Context) (model.AssetMaintenance, error) {
			return s.api.CancelMaintenance(ctx, id, reason)
		})
}

func (s *Store) transition(ctx context.Context, id int64, o outcome, msg string, call func(context.Context) (model.AssetMaintenance, error)) (model.AssetMaintenance, error) {
	return mutate(ctx, s, o, call,
		func(st *Snapshot, v model.AssetMaintenance) {
			st.Maintenances = replaceByID(st.Maintenances, id, v, maintenanceID)
		},
		fixed[model.AssetMaintenance](msg))
}

func (s *Store) DeleteMaintenance(ctx context.Context, id int64) error {
	_, err := mutate(ctx, s,
		outcome{op: "delete_maintenance", okTitle: "Maintenance deleted", failTitle: "Could not delete maintenance"},
		func(ctx context.Context) (struct{}, error) { return struct{}{}, s.api.DeleteMaintenance(ctx, id) },
		func(st *Snapshot, _ struct{}) { st.Maintenances = removeByID(st.Maintenances, id, maintenanceID) },
		fixed[struct{}]("The maintenance was deleted."))
	return err
}

// SetMaintenanceFilters replaces the maintenance filters. It does not fetch.
func (s *Store) SetMaintenanceFilters(f model.MaintenanceFilters) {
	s.update(func(st *Snapshot) { st.MaintenanceFilters = f })
}

// ClearMaintenanceFilters resets the maintenance filters. It does not fetch.
func (s *Store) ClearMaintenanceFilters() {
	s.update(func(st *Snapshot) { st.MaintenanceFilters = model.MaintenanceFilters{} })
}
