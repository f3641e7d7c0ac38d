// Package inventory mirrors the backend inventory resources in a local cache.
//
// Mutations follow one contract: mark loading and clear the error, call the
// backend, then either reconcile the cache and enqueue a success notification,
// or record the error, enqueue an error notification and return it. The cache is
// never touched before the server confirms.
//
// Reads replace whole collections. Two concurrent reads of the same collection
// are not fenced: whichever response resolves last wins.
package inventory

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/and161185/assetdesk/internal/errs"
	"github.com/and161185/assetdesk/internal/model"
	"github.com/and161185/assetdesk/internal/obs"
)

// API is the slice of the backend client the store drives.
type API interface {
	ListTechAssets(ctx context.Context, f model.AssetFilters) ([]model.TechAsset, error)
	CreateTechAsset(ctx context.Context, in model.TechAssetCreate) (model.TechAsset, error)
	UpdateTechAsset(ctx context.Context, id int64, in model.TechAssetUpdate) (model.TechAsset, error)
	UpdateAssetStatus(ctx context.Context, id int64, status model.AssetStatus) (model.TechAsset, error)
	DeleteTechAsset(ctx context.Context, id int64) error
	AssetStatistics(ctx context.Context) (model.AssetStatistics, error)

	ListAssignments(ctx context.Context, f model.AssignmentFilters) ([]model.AssetAssignment, error)
	MyAssignments(ctx context.Context) ([]model.AssetAssignment, error)
	CreateAssignment(ctx context.Context, in model.AssetAssignmentCreate) (model.AssetAssignment, error)
	ReturnAsset(ctx context.Context, id int64, in model.ReturnAssetRequest) (model.AssetAssignment, error)
	TransferAsset(ctx context.Context, id, newUserID int64, notes string) (model.AssetAssignment, error)
	DeleteAssignment(ctx context.Context, id int64) error
	AssignmentStatistics(ctx context.Context) (model.AssignmentStatistics, error)

	ListMaintenances(ctx context.Context, f model.MaintenanceFilters) ([]model.AssetMaintenance, error)
	CreateMaintenance(ctx context.Context, in model.AssetMaintenanceCreate) (model.AssetMaintenance, error)
	UpdateMaintenance(ctx context.Context, id int64, in model.AssetMaintenanceUpdate) (model.AssetMaintenance, error)
	StartMaintenance(ctx context.Context, id int64, notes string) (model.AssetMaintenance, error)
	CompleteMaintenance(ctx context.Context, id int64, in model.CompleteMaintenanceRequest) (model.AssetMaintenance, error)
	CancelMaintenance(ctx context.Context, id int64, reason string) (model.AssetMaintenance, error)
	DeleteMaintenance(ctx context.Context, id int64) error
	MaintenanceMetrics(ctx context.Context, dateFrom, dateTo string) (model.MaintenanceMetrics, error)

	DashboardInventory(ctx context.Context) (model.InventoryMetrics, error)
}

// Notifier receives the outcome of every mutation.
type Notifier interface {
	Enqueue(n model.Notification) string
}

// Statistics groups the three overview endpoints.
type Statistics struct {
	Assets      model.AssetStatistics
	Assignments model.AssignmentStatistics
	Maintenance model.MaintenanceMetrics
}

// Snapshot is a copy of the store state.
type Snapshot struct {
	TechAssets       []model.TechAsset
	Assignments      []model.AssetAssignment
	MyAssignments    []model.AssetAssignment
	Maintenances     []model.AssetMaintenance
	DashboardMetrics *model.InventoryMetrics
	Statistics       *Statistics

	AssetFilters       model.AssetFilters
	AssignmentFilters  model.AssignmentFilters
	MaintenanceFilters model.MaintenanceFilters

	IsLoading bool
	Error     string
}

// Store is the inventory resource store.
type Store struct {
	api   API
	notes Notifier
	log   *zap.Logger

	mu    sync.Mutex
	st    Snapshot
	subs  map[int]func(Snapshot)
	subID int
}

// NewStore constructs an empty Store.
func NewStore(api API, notes Notifier, log *zap.Logger) *Store {
	return &Store{api: api, notes: notes, log: obs.OrNop(log), subs: make(map[int]func(Snapshot))}
}

// Notifications returns the queue receiving mutation outcomes.
func (s *Store) Notifications() Notifier { return s.notes }

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

func (s *Store) copyLocked() Snapshot {
	c := s.st
	c.TechAssets = slices.Clone(s.st.TechAssets)
	c.Assignments = slices.Clone(s.st.Assignments)
	c.MyAssignments = slices.Clone(s.st.MyAssignments)
	c.Maintenances = slices.Clone(s.st.Maintenances)
	if s.st.DashboardMetrics != nil {
		m := *s.st.DashboardMetrics
		c.DashboardMetrics = &m
	}
	if s.st.Statistics != nil {
		st := *s.st.Statistics
		c.Statistics = &st
	}
	return c
}

// Subscribe registers fn for every change; the returned func unregisters it.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.subID
	s.subID++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) update(mut func(st *Snapshot)) {
	s.mu.Lock()
	mut(&s.st)
	snap := s.copyLocked()
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

func (s *Store) begin() {
	s.update(func(st *Snapshot) {
		st.IsLoading = true
		st.Error = ""
	})
}

// ClearError resets the error field.
func (s *Store) ClearError() {
	s.update(func(st *Snapshot) { st.Error = "" })
}

// Reset drops every cached collection, metric and filter.
func (s *Store) Reset() {
	s.update(func(st *Snapshot) { *st = Snapshot{} })
}

// outcome names the notifications of one mutation.
type outcome struct {
	op        string
	okKind    model.NotificationKind
	okTitle   string
	failTitle string
}

// mutate runs one mutation under the store contract.
func mutate[T any](ctx context.Context, s *Store, o outcome, call func(context.Context) (T, error), reconcile func(st *Snapshot, v T), okMsg func(v T) string) (T, error) {
	s.begin()

	v, err := call(ctx)
	if err != nil {
		msg := errs.Message(err)
		s.log.Info("inventory mutation failed", zap.String("op", o.op), zap.Error(err))
		s.update(func(st *Snapshot) {
			st.Error = msg
			st.IsLoading = false
		})
		s.notify(model.NotifyError, o.failTitle, msg)
		var zero T
		return zero, err
	}

	s.update(func(st *Snapshot) {
		if reconcile != nil {
			reconcile(st, v)
		}
		st.IsLoading = false
	})
	kind := o.okKind
	if kind == "" {
		kind = model.NotifySuccess
	}
	s.notify(kind, o.okTitle, okMsg(v))
	return v, nil
}

// fetch runs one read. Failures set Error only.
func fetch[T any](ctx context.Context, s *Store, op string, call func(context.Context) (T, error), apply func(st *Snapshot, v T)) error {
	s.begin()

	v, err := call(ctx)
	if err != nil {
		s.log.Info("inventory fetch failed", zap.String("op", op), zap.Error(err))
		s.update(func(st *Snapshot) {
			st.Error = errs.Message(err)
			st.IsLoading = false
		})
		return err
	}
	s.update(func(st *Snapshot) {
		apply(st, v)
		st.IsLoading = false
	})
	return nil
}

func (s *Store) notify(kind model.NotificationKind, title, msg string) {
	if s.notes == nil {
		return
	}
	s.notes.Enqueue(model.Notification{Kind: kind, Title: title, Message: msg})
}

func fixed[T any](msg string) func(T) string { return func(T) string { return msg } }

// replaceByID returns a copy of list with the element matching id replaced by v.
func replaceByID[T any](list []T, id int64, v T, idOf func(T) int64) []T {
	out := slices.Clone(list)
	for i := range out {
		if idOf(out[i]) == id {
			out[i] = v
		}
	}
	return out
}

func removeByID[T any](list []T, id int64, idOf func(T) int64) []T {
	return slices.DeleteFunc(slices.Clone(list), func(v T) bool { return idOf(v) == id })
}

func appendCopy[T any](list []T, v T) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, list...)
	return append(out, v)
}

func assetID(a model.TechAsset) int64              { return a.ID }
func assignmentID(a model.AssetAssignment) int64   { return a.ID }
func maintenanceID(m model.AssetMaintenance) int64 { return m.ID }
