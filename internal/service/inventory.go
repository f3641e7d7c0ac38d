package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/and161185/assetdesk/internal/errs"
	"github.com/and161185/assetdesk/internal/model"
	"github.com/and161185/assetdesk/internal/repository"
)

// InventoryService defines asset, assignment and maintenance operations.
// actorID is the authenticated user performing the call.
type InventoryService interface {
	ListAssets(ctx context.Context, f model.AssetFilters) ([]model.TechAsset, error)
	GetAsset(ctx context.Context, id int64) (model.TechAsset, error)
	CreateAsset(ctx context.Context, in model.TechAssetCreate) (model.TechAsset, error)
	UpdateAsset(ctx context.Context, id int64, in model.TechAssetUpdate) (model.TechAsset, error)
	UpdateAssetStatus(ctx context.Context, id int64, status model.AssetStatus) (model.TechAsset, error)
	DeleteAsset(ctx context.Context, id int64) error
	WarrantyExpiring(ctx context.Context, daysAhead int) (model.WarrantyExpiring, error)
	GenerateAssetTag(ctx context.Context, req model.AssetTagRequest) (model.AssetTag, error)
	AssetStatistics(ctx context.Context) (model.AssetStatistics, error)

	ListAssignments(ctx context.Context, f model.AssignmentFilters) ([]model.AssetAssignment, error)
	GetAssignment(ctx context.Context, id int64) (model.AssetAssignment, error)
	CreateAssignment(ctx context.Context, actorID int64, in model.AssetAssignmentCreate) (model.AssetAssignment, error)
	ReturnAsset(ctx context.Context, id int64, in model.ReturnAssetRequest) (model.AssetAssignment, error)
	TransferAsset(ctx context.Context, actorID, id, newUserID int64, notes string) (model.AssetAssignment, error)
	DeleteAssignment(ctx context.Context, id int64) error
	UserAssignments(ctx context.Context, userID int64, activeOnly bool) ([]model.AssetAssignment, error)
	AssetAssignmentHistory(ctx context.Context, assetID int64) ([]model.AssetAssignment, error)
	AssignmentStatistics(ctx context.Context) (model.AssignmentStatistics, error)

	ListMaintenances(ctx context.Context, f model.MaintenanceFilters) ([]model.AssetMaintenance, error)
	GetMaintenance(ctx context.Context, id int64) (model.AssetMaintenance, error)
	CreateMaintenance(ctx context.Context, actorID int64, in model.AssetMaintenanceCreate) (model.AssetMaintenance, error)
	UpdateMaintenance(ctx context.Context, id int64, in model.AssetMaintenanceUpdate) (model.AssetMaintenance, error)
	StartMaintenance(ctx context.Context, id int64, notes string) (model.AssetMaintenance, error)
	CompleteMaintenance(ctx context.Context, id int64, in model.CompleteMaintenanceRequest) (model.AssetMaintenance, error)
	CancelMaintenance(ctx context.Context, id int64, reason string) (model.AssetMaintenance, error)
	DeleteMaintenance(ctx context.Context, id int64) error
	AssetMaintenanceHistory(ctx context.Context, assetID int64) ([]model.AssetMaintenance, error)
	UpcomingMaintenances(ctx context.Context, daysAhead int) ([]model.AssetMaintenance, error)
	OverdueMaintenances(ctx context.Context) ([]model.AssetMaintenance, error)
	TechnicianMaintenances(ctx context.Context, technicianID int64) ([]model.AssetMaintenance, error)
	MaintenanceMetrics(ctx context.Context, dateFrom, dateTo string) (model.MaintenanceMetrics, error)
	SchedulePreventive(ctx context.Context, actorID, assetID int64, intervalDays int) (model.AssetMaintenance, error)

	InventoryMetrics(ctx context.Context) (model.InventoryMetrics, error)
}

type InventoryServiceImpl struct {
	users        repository.UserRepository
	assets       repository.AssetRepository
	assignments  repository.AssignmentRepository
	maintenances repository.MaintenanceRepository
	now          func() time.Time

	// mu serializes mutations spanning several repositories.
	mu sync.Mutex
}

var _ InventoryService = (*InventoryServiceImpl)(nil)

// NewInventoryService constructs InventoryService with required dependencies.
func NewInventoryService(
	users repository.UserRepository,
	assets repository.AssetRepository,
	assignments repository.AssignmentRepository,
	maintenances repository.MaintenanceRepository,
) *InventoryServiceImpl {
	return &InventoryServiceImpl{
		users:        users,
		assets:       assets,
		assignments:  assignments,
		maintenances: maintenances,
		now:          time.Now,
	}
}

func ptr[T any](v T) *T { return &v }

func notFound(what string, id int64) error {
	return fmt.Errorf("%w: %s %d not found", errs.ErrNotFound, what, id)
}

var dateLayouts = []string{"2006-01-02T15:04:05", time.RFC3339, "2006-01-02T15:04:05.999999", "2006-01-02"}

// parseDate accepts the datetime and date-only forms the API exchanges.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func requireDate(field, s string) error {
	if _, ok := parseDate(s); !ok {
		return fmt.Errorf("%w: %s must be an ISO date", errs.ErrInvalidInput, field)
	}
	return nil
}

func optionalDate(field string, s *string) error {
	if s == nil || *s == "" {
		return nil
	}
	return requireDate(field, *s)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// userName returns the display name of id, or nil when unknown.
func (s *InventoryServiceImpl) userName(ctx context.Context, id *int64) *string {
	if id == nil {
		return nil
	}
	u, err := s.users.GetByID(ctx, *id)
	if err != nil {
		return nil
	}
	return ptr(u.Profile().DisplayName())
}
