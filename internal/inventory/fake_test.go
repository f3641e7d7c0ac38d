package inventory

import (
	"context"
	"net/http"
	"sync"

	"github.com/and161185/assetdesk/internal/errs"
	"github.com/and161185/assetdesk/internal/model"
)

// fakeAPI is an in-memory backend with the same transition rules as the server.
type fakeAPI struct {
	mu          sync.Mutex
	nextID      int64
	assets      map[int64]model.TechAsset
	assignments map[int64]model.AssetAssignment
	maints      map[int64]model.AssetMaintenance

	listAssets func(ctx context.Context, f model.AssetFilters) ([]model.TechAsset, error)
	failNext   error
	calls      []string
}

var _ API = (*fakeAPI)(nil)

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		nextID:      100,
		assets:      map[int64]model.TechAsset{},
		assignments: map[int64]model.AssetAssignment{},
		maints:      map[int64]model.AssetMaintenance{},
	}
}

func (f *fakeAPI) enter(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	err := f.failNext
	f.failNext = nil
	return err
}

func (f *fakeAPI) id() int64 {
	f.nextID++
	return f.nextID
}

func badRequest(msg string) error { return errs.New(errs.ErrValidation, http.StatusBadRequest, msg) }

func (f *fakeAPI) ListTechAssets(ctx context.Context, flt model.AssetFilters) ([]model.TechAsset, error) {
	if err := f.enter("ListTechAssets"); err != nil {
		return nil, err
	}
	if f.listAssets != nil {
		return f.listAssets(ctx, flt)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.TechAsset
	for _, a := range f.assets {
		if flt.Status == "" || a.Status == flt.Status {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAPI) CreateTechAsset(_ context.Context, in model.TechAssetCreate) (model.TechAsset, error) {
	if err := f.enter("CreateTechAsset"); err != nil {
		return model.TechAsset{}, err
	}
	if in.Name == "" {
		return model.TechAsset{}, badRequest("name is required")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	st := in.Status
	if st == "" {
		st = model.AssetAvailable
	}
	a := model.TechAsset{ID: f.id(), Name: in.Name, Brand: in.Brand, Model: in.Model, SerialNumber: in.SerialNumber, Category: in.Category, Status: st}
	f.assets[a.ID] = a
	return a, nil
}

func (f *fakeAPI) UpdateTechAsset(_ context.Context, id int64, in model.TechAssetUpdate) (model.TechAsset, error) {
	if err := f.enter("UpdateTechAsset"); err != nil {
		return model.TechAsset{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.assets[id]
	if !ok {
		return a, errs.New(errs.ErrValidation, http.StatusNotFound, "Asset not found")
	}
	if in.Name != nil {
		a.Name = *in.Name
	}
	f.assets[id] = a
	return a, nil
}

func (f *fakeAPI) UpdateAssetStatus(_ context.Context, id int64, status model.AssetStatus) (model.TechAsset, error) {
	if err := f.enter("UpdateAssetStatus"); err != nil {
		return model.TechAsset{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	a := f.assets[id]
	a.Status = status
	f.assets[id] = a
	return a, nil
}

func (f *fakeAPI) DeleteTechAsset(_ context.Context, id int64) error {
	if err := f.enter("DeleteTechAsset"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.assets, id)
	return nil
}

func (f *fakeAPI) AssetStatistics(context.Context) (model.AssetStatistics, error) {
	if err := f.enter("AssetStatistics"); err != nil {
		return model.AssetStatistics{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return model.AssetStatistics{TotalAssets: len(f.assets)}, nil
}

func (f *fakeAPI) ListAssignments(context.Context, model.AssignmentFilters) ([]model.AssetAssignment, error) {
	if err := f.enter("ListAssignments"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.AssetAssignment
	for _, a := range f.assignments {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAPI) MyAssignments(context.Context) ([]model.AssetAssignment, error) {
	if err := f.enter("MyAssignments"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.AssetAssignment
	for _, a := range f.assignments {
		if a.AssignedToUserID == 1 {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAPI) CreateAssignment(_ context.Context, in model.AssetAssignmentCreate) (model.AssetAssignment, error) {
	if err := f.enter("CreateAssignment"); err != nil {
		return model.AssetAssignment{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	a := model.AssetAssignment{ID: f.id(), TechAssetID: in.TechAssetID, AssignedToUserID: in.AssignedToUserID, Status: model.AssignmentActive}
	f.assignments[a.ID] = a
	return a, nil
}

func (f *fakeAPI) ReturnAsset(_ context.Context, id int64, _ model.ReturnAssetRequest) (model.AssetAssignment, error) {
	if err := f.enter("ReturnAsset"); err != nil {
		return model.AssetAssignment{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	a := f.assignments[id]
	if a.Status != model.AssignmentActive {
		return model.AssetAssignment{}, badRequest("Only active assignments can be returned")
	}
	a.Status = model.AssignmentReturned
	f.assignments[id] = a
	return a, nil
}

func (f *fakeAPI) TransferAsset(_ context.Context, id, newUserID int64, _ string) (model.AssetAssignment, error) {
	if err := f.enter("TransferAsset"); err != nil {
		return model.AssetAssignment{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	old := f.assignments[id]
	if old.Status != model.AssignmentActive {
		return model.AssetAssignment{}, badRequest("Only active assignments can be transferred")
	}
	old.Status = model.AssignmentTransferred
	f.assignments[id] = old
	n := model.AssetAssignment{ID: f.id(), TechAssetID: old.TechAssetID, AssignedToUserID: newUserID, Status: model.AssignmentActive}
	f.assignments[n.ID] = n
	return n, nil
}

func (f *fakeAPI) DeleteAssignment(_ context.Context, id int64) error {
	if err := f.enter("DeleteAssignment"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.assignments, id)
	return nil
}

func (f *fakeAPI) AssignmentStatistics(context.Context) (model.AssignmentStatistics, error) {
	if err := f.enter("AssignmentStatistics"); err != nil {
		return model.AssignmentStatistics{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return model.AssignmentStatistics{TotalAssignments: len(f.assignments)}, nil
}

func (f *fakeAPI) ListMaintenances(context.Context, model.MaintenanceFilters) ([]model.AssetMaintenance, error) {
	if err := f.enter("ListMaintenances"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.AssetMaintenance
	for _, m := range f.maints {
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeAPI) CreateMaintenance(_ context.Context, in model.AssetMaintenanceCreate) (model.AssetMaintenance, error) {
	if err := f.enter("CreateMaintenance"); err != nil {
		return model.AssetMaintenance{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	m := model.AssetMaintenance{ID: f.id(), TechAssetID: in.TechAssetID, Title: in.Title, MaintenanceType: in.MaintenanceType, Status: model.MaintenanceScheduled}
	f.maints[m.ID] = m
	return m, nil
}

func (f *fakeAPI) setMaintenance(id int64, from []model.MaintenanceStatus, to model.MaintenanceStatus) (model.AssetMaintenance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.maints[id]
	if !ok {
		return m, errs.New(errs.ErrValidation, http.StatusNotFound, "Maintenance not found")
	}
	allowed := false
	for _, s := range from {
		if m.Status == s {
			allowed = true
		}
	}
	if !allowed {
		return model.AssetMaintenance{}, badRequest("Invalid status transition")
	}
	m.Status = to
	f.maints[id] = m
	return m, nil
}

func (f *fakeAPI) UpdateMaintenance(_ context.Context, id int64, in model.AssetMaintenanceUpdate) (model.AssetMaintenance, error) {
	if err := f.enter("UpdateMaintenance"); err != nil {
		return model.AssetMaintenance{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	m := f.maints[id]
	if in.Title != nil {
		m.Title = *in.Title
	}
	f.maints[id] = m
	return m, nil
}

func (f *fakeAPI) StartMaintenance(_ context.Context, id int64, _ string) (model.AssetMaintenance, error) {
	if err := f.enter("StartMaintenance"); err != nil {
		return model.AssetMaintenance{}, err
	}
	return f.setMaintenance(id, []model.MaintenanceStatus{model.MaintenanceScheduled, model.MaintenancePostponed, model.MaintenancePendingParts}, model.MaintenanceInProgress)
}

func (f *fakeAPI) CompleteMaintenance(_ context.Context, id int64, _ model.CompleteMaintenanceRequest) (model.AssetMaintenance, error) {
	if err := f.enter("CompleteMaintenance"); err != nil {
		return model.AssetMaintenance{}, err
	}
	return f.setMaintenance(id, []model.MaintenanceStatus{model.MaintenanceInProgress}, model.MaintenanceCompleted)
}

func (f *fakeAPI) CancelMaintenance(_ context.Context, id int64, _ string) (model.AssetMaintenance, error) {
	if err := f.enter("CancelMaintenance"); err != nil {
		return model.AssetMaintenance{}, err
	}
	return f.setMaintenance(id, []model.MaintenanceStatus{
		model.MaintenanceScheduled, model.MaintenanceInProgress, model.MaintenancePostponed, model.MaintenancePendingParts,
	}, model.MaintenanceCancelled)
}

func (f *fakeAPI) DeleteMaintenance(_ context.Context, id int64) error {
	if err := f.enter("DeleteMaintenance"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.maints, id)
	return nil
}

func (f *fakeAPI) MaintenanceMetrics(context.Context, string, string) (model.MaintenanceMetrics, error) {
	if err := f.enter("MaintenanceMetrics"); err != nil {
		return model.MaintenanceMetrics{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return model.MaintenanceMetrics{TotalMaintenances: len(f.maints)}, nil
}

func (f *fakeAPI) DashboardInventory(context.Context) (model.InventoryMetrics, error) {
	if err := f.enter("DashboardInventory"); err != nil {
		return model.InventoryMetrics{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return model.InventoryMetrics{TotalAssets: len(f.assets)}, nil
}
