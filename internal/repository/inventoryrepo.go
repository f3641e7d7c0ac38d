package repository

import (
	"context"

	"github.com/and161185/assetdesk/internal/model"
)

// AssetRepository stores tech assets. Serial numbers are unique.
type AssetRepository interface {
	CreateAsset(ctx context.Context, a *model.TechAsset) error
	GetAsset(ctx context.Context, id int64) (*model.TechAsset, error)
	UpdateAsset(ctx context.Context, a *model.TechAsset) error
	DeleteAsset(ctx context.Context, id int64) error
	ListAssets(ctx context.Context) ([]model.TechAsset, error)
}

// AssignmentRepository stores asset assignments.
type AssignmentRepository interface {
	CreateAssignment(ctx context.Context, a *model.AssetAssignment) error
	GetAssignment(ctx context.Context, id int64) (*model.AssetAssignment, error)
	UpdateAssignment(ctx context.Context, a *model.AssetAssignment) error
	DeleteAssignment(ctx context.Context, id int64) error
	ListAssignments(ctx context.Context) ([]model.AssetAssignment, error)
}

// MaintenanceRepository stores maintenance jobs.
type MaintenanceRepository interface {
	CreateMaintenance(ctx context.Context, m *model.AssetMaintenance) error
	GetMaintenance(ctx context.Context, id int64) (*model.AssetMaintenance, error)
	UpdateMaintenance(ctx context.Context, m *model.AssetMaintenance) error
	DeleteMaintenance(ctx context.Context, id int64) error
	ListMaintenances(ctx context.Context) ([]model.AssetMaintenance, error)
}
