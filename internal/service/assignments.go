package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/and161185/assetdesk/internal/errs"
	"github.com/and161185/assetdesk/internal/model"
)

// activeAssignment returns the active assignment of assetID, if any.
func (s *InventoryServiceImpl) activeAssignment(ctx context.Context, assetID int64) (*model.AssetAssignment, error) {
	all, err := s.assignments.ListAssignments(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].TechAssetID == assetID && all[i].Status == model.AssignmentActive {
			return &all[i], nil
		}
	}
	return nil, nil
}

// decorateAssignment fills the denormalized asset and user names.
func (s *InventoryServiceImpl) decorateAssignment(ctx context.Context, a model.AssetAssignment) model.AssetAssignment {
	if asset, err := s.assets.GetAsset(ctx, a.TechAssetID); err == nil {
		a.TechAssetName = ptr(asset.Name)
		a.TechAssetSerial = ptr(asset.SerialNumber)
	}
	a.AssignedToName = s.userName(ctx, &a.AssignedToUserID)
	a.AssignedByName = s.userName(ctx, a.AssignedByUserID)
	return a
}

func (s *InventoryServiceImpl) listAssignments(ctx context.Context, keep func(model.AssetAssignment) bool) ([]model.AssetAssignment, error) {
	all, err := s.assignments.ListAssignments(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.AssetAssignment, 0, len(all))
	for _, a := range all {
		if keep(a) {
			out = append(out, s.decorateAssignment(ctx, a))
		}
	}
	return out, nil
}

func (s *InventoryServiceImpl) ListAssignments(ctx context.Context, f model.AssignmentFilters) ([]model.AssetAssignment, error) {
	return s.listAssignments(ctx, func(a model.AssetAssignment) bool {
		switch {
		case f.Status != "" && a.Status != f.Status:
			return false
		case f.UserID > 0 && a.AssignedToUserID != f.UserID:
			return false
		case f.AssetID > 0 && a.TechAssetID != f.AssetID:
			return false
		case f.ActiveOnly != nil && *f.ActiveOnly && a.Status != model.AssignmentActive:
			return false
		}
		return true
	})
}

func (s *InventoryServiceImpl) GetAssignment(ctx context.Context, id int64) (model.AssetAssignment, error) {
	a, err := s.assignments.GetAssignment(ctx, id)
	if err != nil {
		return model.AssetAssignment{}, notFound("assignment", id)
	}
	return s.decorateAssignment(ctx, *a), nil
}

// CreateAssignment hands an available asset to a user; the asset becomes assigned.
func (s *InventoryServiceImpl) CreateAssignment(ctx context.Context, actorID int64, in model.AssetAssignmentCreate) (model.AssetAssignment, error) {
	if err := optionalDate("expected_return_date", in.ExpectedReturnDate); err != nil {
		return model.AssetAssignment{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	asset, err := s.assets.GetAsset(ctx, in.TechAssetID)
	if err != nil {
		return model.AssetAssignment{}, notFound("tech asset", in.TechAssetID)
	}
	if _, err := s.users.GetByID(ctx, in.AssignedToUserID); err != nil {
		return model.AssetAssignment{}, notFound("user", in.AssignedToUserID)
	}
	if asset.Status != model.AssetAvailable {
		return model.AssetAssignment{}, fmt.Errorf("%w: asset is not available (status %s)", errs.ErrConflict, asset.Status)
	}

	now := timestamp(s.now())
	a := &model.AssetAssignment{
		TechAssetID:           in.TechAssetID,
		AssignedToUserID:      in.AssignedToUserID,
		AssignedDate:          now,
		ExpectedReturnDate:    in.ExpectedReturnDate,
		Status:                model.AssignmentActive,
		AssignmentReason:      in.AssignmentReason,
		LocationOfUse:         in.LocationOfUse,
		AssignedByUserID:      ptr(actorID),
		ConditionAtAssignment: in.ConditionAtAssignment,
		AssignmentNotes:       in.AssignmentNotes,
		CreatedAt:             now,
	}
	if err := s.assignments.CreateAssignment(ctx, a); err != nil {
		return model.AssetAssignment{}, err
	}
	asset.Status = model.AssetAssigned
	asset.UpdatedAt = ptr(now)
	if err := s.assets.UpdateAsset(ctx, asset); err != nil {
		return model.AssetAssignment{}, err
	}
	return s.decorateAssignment(ctx, *a), nil
}

func (s *InventoryServiceImpl) activeOrReject(ctx context.Context, id int64, verb string) (*model.AssetAssignment, error) {
	a, err := s.assignments.GetAssignment(ctx, id)
	if err != nil {
		return nil, notFound("assignment", id)
	}
	if a.Status != model.AssignmentActive {
		return nil, fmt.Errorf("%w: only active assignments can be %s (status %s)", errs.ErrInvalidTransition, verb, a.Status)
	}
	return a, nil
}

// ReturnAsset closes an active assignment; the asset becomes available.
func (s *InventoryServiceImpl) ReturnAsset(ctx context.Context, id int64, in model.ReturnAssetRequest) (model.AssetAssignment, error) {
	if err := optionalDate("actual_return_date", in.ActualReturnDate); err != nil {
		return model.AssetAssignment{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.activeOrReject(ctx, id, "returned")
	if err != nil {
		return model.AssetAssignment{}, err
	}
	now := timestamp(s.now())
	a.Status = model.AssignmentReturned
	a.ActualReturnDate = in.ActualReturnDate
	if a.ActualReturnDate == nil || *a.ActualReturnDate == "" {
		a.ActualReturnDate = ptr(now)
	}
	a.ConditionAtReturn = in.ConditionAtReturn
	a.ReturnNotes = in.ReturnNotes
	a.UpdatedAt = ptr(now)
	if err := s.assignments.UpdateAssignment(ctx, a); err != nil {
		return model.AssetAssignment{}, err
	}
	if err := s.releaseAsset(ctx, a.TechAssetID, model.AssetAssigned); err != nil {
		return model.AssetAssignment{}, err
	}
	return s.decorateAssignment(ctx, *a), nil
}

// releaseAsset moves the asset back to available when it is still in from.
func (s *InventoryServiceImpl) releaseAsset(ctx context.Context, assetID int64, from model.AssetStatus) error {
	asset, err := s.assets.GetAsset(ctx, assetID)
	if err != nil {
		return nil
	}
	if asset.Status != from {
		return nil
	}
	asset.Status = model.AssetAvailable
	asset.UpdatedAt = ptr(timestamp(s.now()))
	return s.assets.UpdateAsset(ctx, asset)
}

// TransferAsset marks an active assignment transferred and opens a new active
// one for newUserID. The asset stays assigned.
func (s *InventoryServiceImpl) TransferAsset(ctx context.Context, actorID, id, newUserID int64, notes string) (model.AssetAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, err := s.activeOrReject(ctx, id, "transferred")
	if err != nil {
		return model.AssetAssignment{}, err
	}
	if _, err := s.users.GetByID(ctx, newUserID); err != nil {
		return model.AssetAssignment{}, notFound("user", newUserID)
	}
	if newUserID == old.AssignedToUserID {
		return model.AssetAssignment{}, fmt.Errorf("%w: asset is already assigned to this user", errs.ErrConflict)
	}

	now := timestamp(s.now())
	old.Status = model.AssignmentTransferred
	old.ActualReturnDate = ptr(now)
	old.UpdatedAt = ptr(now)
	if notes = strings.TrimSpace(notes); notes != "" {
		old.ReturnNotes = ptr(notes)
	}
	if err := s.assignments.UpdateAssignment(ctx, old); err != nil {
		return model.AssetAssignment{}, err
	}

	next := &model.AssetAssignment{
		TechAssetID:           old.TechAssetID,
		AssignedToUserID:      newUserID,
		AssignedDate:          now,
		ExpectedReturnDate:    old.ExpectedReturnDate,
		Status:                model.AssignmentActive,
		AssignmentReason:      ptr(fmt.Sprintf("transfer from assignment %d", old.ID)),
		LocationOfUse:         old.LocationOfUse,
		AssignedByUserID:      ptr(actorID),
		ConditionAtAssignment: old.ConditionAtAssignment,
		CreatedAt:             now,
	}
	if notes != "" {
		next.AssignmentNotes = ptr(notes)
	}
	if err := s.assignments.CreateAssignment(ctx, next); err != nil {
		return model.AssetAssignment{}, err
	}
	return s.decorateAssignment(ctx, *next), nil
}

// DeleteAssignment removes an assignment; deleting an active one frees the asset.
func (s *InventoryServiceImpl) DeleteAssignment(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.assignments.GetAssignment(ctx, id)
	if err != nil {
		return notFound("assignment", id)
	}
	if err := s.assignments.DeleteAssignment(ctx, id); err != nil {
		return err
	}
	if a.Status == model.AssignmentActive {
		return s.releaseAsset(ctx, a.TechAssetID, model.AssetAssigned)
	}
	return nil
}

func (s *InventoryServiceImpl) UserAssignments(ctx context.Context, userID int64, activeOnly bool) ([]model.AssetAssignment, error) {
	return s.listAssignments(ctx, func(a model.AssetAssignment) bool {
		return a.AssignedToUserID == userID && (!activeOnly || a.Status == model.AssignmentActive)
	})
}

func (s *InventoryServiceImpl) AssetAssignmentHistory(ctx context.Context, assetID int64) ([]model.AssetAssignment, error) {
	return s.listAssignments(ctx, func(a model.AssetAssignment) bool { return a.TechAssetID == assetID })
}

func (s *InventoryServiceImpl) AssignmentStatistics(ctx context.Context) (model.AssignmentStatistics, error) {
	all, err := s.assignments.ListAssignments(ctx)
	if err != nil {
		return model.AssignmentStatistics{}, err
	}
	st := model.AssignmentStatistics{TotalAssignments: len(all), StatusDistribution: map[string]int{}}
	holders := map[int64]bool{}
	for _, a := range all {
		st.StatusDistribution[string(a.Status)]++
		if a.Status == model.AssignmentActive {
			st.ActiveAssignments++
			holders[a.AssignedToUserID] = true
		}
	}
	st.UsersWithActiveAssignments = len(holders)
	return st, nil
}
