package inventory

import (
	"context"

	"github.com/and161185/assetdesk/internal/model"
)

// FetchAssignments replaces the assignment cache with the list matching the current filters.
func (s *Store) FetchAssignments(ctx context.Context) error {
	f := s.Snapshot().AssignmentFilters
	return fetch(ctx, s, "fetch_assignments",
		func(ctx context.Context) ([]model.AssetAssignment, error) { return s.api.ListAssignments(ctx, f) },
		func(st *Snapshot, v []model.AssetAssignment) { st.Assignments = v })
}

// FetchMyAssignments replaces the cache of assignments held by the session owner.
func (s *Store) FetchMyAssignments(ctx context.Context) error {
	return fetch(ctx, s, "fetch_my_assignments", s.api.MyAssignments,
		func(st *Snapshot, v []model.AssetAssignment) { st.MyAssignments = v })
}

func (s *Store) CreateAssignment(ctx context.Context, in model.AssetAssignmentCreate) (model.AssetAssignment, error) {
	return mutate(ctx, s,
		outcome{op: "create_assignment", okTitle: "Assignment created", failTitle: "Could not create assignment"},
		func(ctx context.Context) (model.AssetAssignment, error) { return s.api.CreateAssignment(ctx, in) },
		func(st *Snapshot, v model.AssetAssignment) { st.Assignments = appendCopy(st.Assignments, v) },
		fixed[model.AssetAssignment]("The asset was assigned."))
}

// ReturnAsset closes an active assignment; both assignment caches are reconciled.
func (s *Store) ReturnAsset(ctx context.Context, id int64, in model.ReturnAssetRequest) (model.AssetAssignment, error) {
	return mutate(ctx, s,
		outcome{op: "return_asset", okTitle: "Asset returned", failTitle: "Could not return asset"},
		func(ctx context.Context) (model.AssetAssignment, error) { return s.api.ReturnAsset(ctx, id, in) },
		func(st *Snapshot, v model.AssetAssignment) {
			st.Assignments = replaceByID(st.Assignments, id, v, assignmentID)
			st.MyAssignments = replaceByID(st.MyAssignments, id, v, assignmentID)
		},
		fixed[model.AssetAssignment]("The asset was returned."))
}

// TransferAsset moves an assignment to another user. The assignment cache is
// re-fetched because the server closes one assignment and opens another.
func (s *Store) TransferAsset(ctx context.Context, id, newUserID int64, notes string) (model.AssetAssignment, error) {
	return mutate(ctx, s,
		outcome{op: "transfer_asset", okTitle: "Asset transferred", failTitle: "Could not transfer asset"},
		func(ctx context.Context) (model.AssetAssignment, error) {
			v, err := s.api.TransferAsset(ctx, id, newUserID, notes)
			if err != nil {
				return v, err
			}
			// A failed refresh is recorded in Error by the fetch itself.
			_ = s.FetchAssignments(ctx)
			return v, nil
		},
		nil,
		fixed[model.AssetAssignment]("The asset was transferred."))
}

func (s *Store) DeleteAssignment(ctx context.Context, id int64) error {
	_, err := mutate(ctx, s,
		outcome{op: "delete_assignment", okTitle: "Assignment deleted", failTitle: "Could not delete assignment"},
		func(ctx context.Context) (struct{}, error) { return struct{}{}, s.api.DeleteAssignment(ctx, id) },
		func(st *Snapshot, _ struct{}) {
			st.Assignments = removeByID(st.Assignments, id, assignmentID)
			st.MyAssignments = removeByID(st.MyAssignments, id, assignmentID)
		},
		fixed[struct{}]("The assignment was deleted."))
	return err
}

// SetAssignmentFilters replaces the assignment filters. It does not fetch.
func (s *Store) SetAssignmentFilters(f model.AssignmentFilters) {
	s.update(func(st *Snapshot) { st.AssignmentFilters = f })
}

// ClearAssignmentFilters resets the assignment filters. It does not fetch.
func (s *Store) ClearAssignmentFilters() {
	s.update(func(st *Snapshot) { st.AssignmentFilters = model.AssignmentFilters{} })
}
