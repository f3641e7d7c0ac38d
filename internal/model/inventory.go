package model

// AssetCategory classifies a TechAsset.
type AssetCategory string

const (
	CategoryLaptop           AssetCategory = "laptop"
	CategoryDesktop          AssetCategory = "desktop"
	CategoryMonitor          AssetCategory = "monitor"
	CategoryKeyboard         AssetCategory = "keyboard"
	CategoryMouse            AssetCategory = "mouse"
	CategoryPrinter          AssetCategory = "printer"
	CategoryTablet           AssetCategory = "tablet"
	CategorySmartphone       AssetCategory = "smartphone"
	CategoryServer           AssetCategory = "server"
	CategoryNetworkEquipment AssetCategory = "network_equipment"
	CategoryAccessories      AssetCategory = "accessories"
	CategorySoftware         AssetCategory = "software"
	CategoryOther            AssetCategory = "other"
)

// AssetCategories lists every category in display order.
var AssetCategories = []AssetCategory{
	CategoryLaptop, CategoryDesktop, CategoryMonitor, CategoryKeyboard, CategoryMouse,
	CategoryPrinter, CategoryTablet, CategorySmartphone, CategoryServer,
	CategoryNetworkEquipment, CategoryAccessories, CategorySoftware, CategoryOther,
}

// Valid reports whether c is a known category.
func (c AssetCategory) Valid() bool { return contains(AssetCategories, c) }

// AssetStatus is the lifecycle state of a TechAsset.
type AssetStatus string

const (
	AssetAvailable     AssetStatus = "available"
	AssetAssigned      AssetStatus = "assigned"
	AssetInMaintenance AssetStatus = "in_maintenance"
	AssetOutOfOrder    AssetStatus = "out_of_order"
	AssetRetired       AssetStatus = "retired"
)

// AssetStatuses lists every asset status.
var AssetStatuses = []AssetStatus{AssetAvailable, AssetAssigned, AssetInMaintenance, AssetOutOfOrder, AssetRetired}

// Valid reports whether s is a known asset status.
func (s AssetStatus) Valid() bool { return contains(AssetStatuses, s) }

// AssignmentStatus is the lifecycle state of an AssetAssignment.
type AssignmentStatus string

const (
	AssignmentActive      AssignmentStatus = "active"
	AssignmentReturned    AssignmentStatus = "returned"
	AssignmentTransferred AssignmentStatus = "transferred"
	AssignmentLost        AssignmentStatus = "lost"
	AssignmentDamaged     AssignmentStatus = "damaged"
)

var assignmentStatuses = []AssignmentStatus{AssignmentActive, AssignmentReturned, AssignmentTransferred, AssignmentLost, AssignmentDamaged}

// Valid reports whether s is a known assignment status.
func (s AssignmentStatus) Valid() bool { return contains(assignmentStatuses, s) }

// MaintenanceStatus is the lifecycle state of an AssetMaintenance.
type MaintenanceStatus string

const (
	MaintenanceScheduled    MaintenanceStatus = "scheduled"
	MaintenanceInProgress   MaintenanceStatus = "in_progress"
	MaintenanceCompleted    MaintenanceStatus = "completed"
	MaintenanceCancelled    MaintenanceStatus = "cancelled"
	MaintenancePostponed    MaintenanceStatus = "postponed"
	MaintenancePendingParts MaintenanceStatus = "pending_parts"
)

var maintenanceStatuses = []MaintenanceStatus{
	MaintenanceScheduled, MaintenanceInProgress, MaintenanceCompleted,
	MaintenanceCancelled, MaintenancePostponed, MaintenancePendingParts,
}

// Valid reports whether s is a known maintenance status.
func (s MaintenanceStatus) Valid() bool { return contains(maintenanceStatuses, s) }

// Terminal reports whether no further transitions are allowed.
func (s MaintenanceStatus) Terminal() bool {
	return s == MaintenanceCompleted || s == MaintenanceCancelled
}

// MaintenanceType describes the kind of work done.
type MaintenanceType string

const (
	MaintenancePreventive  MaintenanceType = "preventive"
	MaintenanceCorrective  MaintenanceType = "corrective"
	MaintenanceUpgrade     MaintenanceType = "upgrade"
	MaintenanceCleaning    MaintenanceType = "cleaning"
	MaintenanceCalibration MaintenanceType = "calibration"
	MaintenanceRepair      MaintenanceType = "repair"
	MaintenanceReplacement MaintenanceType = "replacement"
	MaintenanceInspection  MaintenanceType = "inspection"
)

var maintenanceTypes = []MaintenanceType{
	MaintenancePreventive, MaintenanceCorrective, MaintenanceUpgrade, MaintenanceCleaning,
	MaintenanceCalibration, MaintenanceRepair, MaintenanceReplacement, MaintenanceInspection,
}

// Valid reports whether t is a known maintenance type.
func (t MaintenanceType) Valid() bool { return contains(maintenanceTypes, t) }

// MaintenancePriority ranks maintenance urgency.
type MaintenancePriority string

const (
	PriorityLow      MaintenancePriority = "low"
	PriorityMedium   MaintenancePriority = "medium"
	PriorityHigh     MaintenancePriority = "high"
	PriorityCritical MaintenancePriority = "critical"
)

// Valid reports whether p is a known priority.
func (p MaintenancePriority) Valid() bool {
	return contains([]MaintenancePriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}, p)
}

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// TechAsset is a tracked piece of equipment.
type TechAsset struct {
	ID               int64         `json:"id"`
	Name             string        `json:"name"`
	Description      *string       `json:"description,omitempty"`
	Brand            string        `json:"brand"`
	Model            string        `json:"model"`
	SerialNumber     string        `json:"serial_number"`
	AssetTag         *string       `json:"asset_tag,omitempty"`
	Category         AssetCategory `json:"category"`
	Status           AssetStatus   `json:"status"`
	PurchasePrice    *float64      `json:"purchase_price,omitempty"`
	PurchaseDate     *string       `json:"purchase_date,omitempty"`
	PurchaseOrder    *string       `json:"purchase_order,omitempty"`
	Supplier         *string       `json:"supplier,omitempty"`
	WarrantyExpiry   *string       `json:"warranty_expiry,omitempty"`
	WarrantyProvider *string       `json:"warranty_provider,omitempty"`
	Location         *string       `json:"location,omitempty"`
	Department       *string       `json:"department,omitempty"`
	Specifications   *string       `json:"specifications,omitempty"`
	Notes            *string       `json:"notes,omitempty"`
	CreatedAt        string        `json:"created_at"`
	UpdatedAt        *string       `json:"updated_at,omitempty"`
}

// TechAssetCreate is the body of POST /inventory/tech-assets.
type TechAssetCreate struct {
	Name             string        `json:"name"`
	Description      *string       `json:"description,omitempty"`
	Brand            string        `json:"brand"`
	Model            string        `json:"model"`
	SerialNumber     string        `json:"serial_number"`
	AssetTag         *string       `json:"asset_tag,omitempty"`
	Category         AssetCategory `json:"category"`
	Status           AssetStatus   `json:"status,omitempty"`
	PurchasePrice    *float64      `json:"purchase_price,omitempty"`
	PurchaseDate     *string       `json:"purchase_date,omitempty"`
	PurchaseOrder    *string       `json:"purchase_order,omitempty"`
	Supplier         *string       `json:"supplier,omitempty"`
	WarrantyExpiry   *string       `json:"warranty_expiry,omitempty"`
	WarrantyProvider *string       `json:"warranty_provider,omitempty"`
	Location         *string       `json:"location,omitempty"`
	Department       *string       `json:"department,omitempty"`
	Specifications   *string       `json:"specifications,omitempty"`
	Notes            *string       `json:"notes,omitempty"`
}

// TechAssetUpdate is the PATCH body; nil fields are left untouched.
type TechAssetUpdate struct {
	Name             *string        `json:"name,omitempty"`
	Description      *string        `json:"description,omitempty"`
	Brand            *string        `json:"brand,omitempty"`
	Model            *string        `json:"model,omitempty"`
	SerialNumber     *string        `json:"serial_number,omitempty"`
	AssetTag         *string        `json:"asset_tag,omitempty"`
	Category         *AssetCategory `json:"category,omitempty"`
	Status           *AssetStatus   `json:"status,omitempty"`
	PurchasePrice    *float64       `json:"purchase_price,omitempty"`
	PurchaseDate     *string        `json:"purchase_date,omitempty"`
	PurchaseOrder    *string        `json:"purchase_order,omitempty"`
	Supplier         *string        `json:"supplier,omitempty"`
	WarrantyExpiry   *string        `json:"warranty_expiry,omitempty"`
	WarrantyProvider *string        `json:"warranty_provider,omitempty"`
	Location         *string        `json:"location,omitempty"`
	Department       *string        `json:"department,omitempty"`
	Specifications   *string        `json:"specifications,omitempty"`
	Notes            *string        `json:"notes,omitempty"`
}

// AssetAssignment links a TechAsset to the user holding it.
type AssetAssignment struct {
	ID                    int64            `json:"id"`
	TechAssetID           int64            `json:"tech_asset_id"`
	AssignedToUserID      int64            `json:"assigned_to_user_id"`
	AssignedDate          string           `json:"assigned_date"`
	ExpectedReturnDate    *string          `json:"expected_return_date,omitempty"`
	ActualReturnDate      *string          `json:"actual_return_date,omitempty"`
	Status                AssignmentStatus `json:"status"`
	AssignmentReason      *string          `json:"assignment_reason,omitempty"`
	LocationOfUse         *string          `json:"location_of_use,omitempty"`
	AssignedByUserID      *int64           `json:"assigned_by_user_id,omitempty"`
	ConditionAtAssignment *string          `json:"condition_at_assignment,omitempty"`
	ConditionAtReturn     *string          `json:"condition_at_return,omitempty"`
	AssignmentNotes       *string          `json:"assignment_notes,omitempty"`
	ReturnNotes           *string          `json:"return_notes,omitempty"`
	CreatedAt             string           `json:"created_at"`
	UpdatedAt             *string          `json:"updated_at,omitempty"`

	TechAssetName   *string `json:"tech_asset_name,omitempty"`
	TechAssetSerial *string `json:"tech_asset_serial,omitempty"`
	AssignedToName  *string `json:"assigned_to_name,omitempty"`
	AssignedByName  *string `json:"assigned_by_name,omitempty"`
}

// AssetAssignmentCreate is the body of POST /inventory/assignments.
type AssetAssignmentCreate struct {
	TechAssetID           int64   `json:"tech_asset_id"`
	AssignedToUserID      int64   `json:"assigned_to_user_id"`
	ExpectedReturnDate    *string `json:"expected_return_date,omitempty"`
	AssignmentReason      *string `json:"assignment_reason,omitempty"`
	LocationOfUse         *string `json:"location_of_use,omitempty"`
	ConditionAtAssignment *string `json:"condition_at_assignment,omitempty"`
	AssignmentNotes       *string `json:"assignment_notes,omitempty"`
}

// ReturnAssetRequest is the body of POST /inventory/assignments/{id}/return.
type ReturnAssetRequest struct {
	ActualReturnDate  *string `json:"actual_return_date,omitempty"`
	ConditionAtReturn *string `json:"condition_at_return,omitempty"`
	ReturnNotes       *string `json:"return_notes,omitempty"`
}

// AssetMaintenance is a scheduled or performed maintenance job.
type AssetMaintenance struct {
	ID                     int64               `json:"id"`
	TechAssetID            int64               `json:"tech_asset_id"`
	MaintenanceType        MaintenanceType     `json:"maintenance_type"`
	Title                  string              `json:"title"`
	Description            string              `json:"description"`
	Priority               MaintenancePriority `json:"priority"`
	Status                 MaintenanceStatus   `json:"status"`
	ScheduledDate          string              `json:"scheduled_date"`
	EstimatedDurationHours *float64            `json:"estimated_duration_hours,omitempty"`
	StartedAt              *string             `json:"started_at,omitempty"`
	CompletedAt            *string             `json:"completed_at,omitempty"`
	AssignedTechnicianID   *int64              `json:"assigned_technician_id,omitempty"`
	RequestedByUserID      *int64              `json:"requested_by_user_id,omitempty"`
	ProceduresPerformed    *string             `json:"procedures_performed,omitempty"`
	PartsReplaced          *string             `json:"parts_replaced,omitempty"`
	ToolsUsed              *string             `json:"tools_used,omitempty"`
	LaborCost              *float64            `json:"labor_cost,omitempty"`
	PartsCost              *float64            `json:"parts_cost,omitempty"`
	ExternalServiceCost    *float64            `json:"external_service_cost,omitempty"`
	MaintenanceProvider    *string             `json:"maintenance_provider,omitempty"`
	WarrantyWork           bool                `json:"warranty_work"`
	FollowUpRequired       bool                `json:"follow_up_required"`
	FollowUpDate           *string             `json:"follow_up_date,omitempty"`
	Notes                  *string             `json:"notes,omitempty"`
	CreatedAt              string              `json:"created_at"`
	UpdatedAt              *string             `json:"updated_at,omitempty"`

	TechAssetName   *string  `json:"tech_asset_name,omitempty"`
	TechAssetSerial *string  `json:"tech_asset_serial,omitempty"`
	TechnicianName  *string  `json:"technician_name,omitempty"`
	RequestedByName *string  `json:"requested_by_name,omitempty"`
	TotalCost       *float64 `json:"total_cost,omitempty"`
}

// AssetMaintenanceCreate is the body of POST /inventory/maintenance.
type AssetMaintenanceCreate struct {
	TechAssetID            int64               `json:"tech_asset_id"`
	MaintenanceType        MaintenanceType     `json:"maintenance_type"`
	Title                  string              `json:"title"`
	Description            string              `json:"description"`
	Priority               MaintenancePriority `json:"priority,omitempty"`
	ScheduledDate          string              `json:"scheduled_date"`
	EstimatedDurationHours *float64            `json:"estimated_duration_hours,omitempty"`
	AssignedTechnicianID   *int64              `json:"assigned_technician_id,omitempty"`
	MaintenanceProvider    *string             `json:"maintenance_provider,omitempty"`
	WarrantyWork           *bool               `json:"warranty_work,omitempty"`
	Notes                  *string             `json:"notes,omitempty"`
}

// AssetMaintenanceUpdate is the PATCH body; nil fields are left untouched.
type AssetMaintenanceUpdate struct {
	MaintenanceType        *MaintenanceType     `json:"maintenance_type,omitempty"`
	Title                  *string              `json:"title,omitempty"`
	Description            *string              `json:"description,omitempty"`
	Priority               *MaintenancePriority `json:"priority,omitempty"`
	ScheduledDate          *string              `json:"scheduled_date,omitempty"`
	EstimatedDurationHours *float64             `json:"estimated_duration_hours,omitempty"`
	AssignedTechnicianID   *int64               `json:"assigned_technician_id,omitempty"`
	MaintenanceProvider    *string              `json:"maintenance_provider,omitempty"`
	WarrantyWork           *bool                `json:"warranty_work,omitempty"`
	Notes                  *string              `json:"notes,omitempty"`
}

// CompleteMaintenanceRequest is the body of POST /inventory/maintenance/{id}/complete.
type CompleteMaintenanceRequest struct {
	ProceduresPerformed *string  `json:"procedures_performed,omitempty"`
	PartsReplaced       *string  `json:"parts_replaced,omitempty"`
	ToolsUsed           *string  `json:"tools_used,omitempty"`
	LaborCost           *float64 `json:"labor_cost,omitempty"`
	PartsCost           *float64 `json:"parts_cost,omitempty"`
	ExternalServiceCost *float64 `json:"external_service_cost,omitempty"`
	FollowUpRequired    *bool    `json:"follow_up_required,omitempty"`
	FollowUpDate        *string  `json:"follow_up_date,omitempty"`
	Notes               *string  `json:"notes,omitempty"`
}

// Option is a value/label pair served by the category and status list endpoints.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// AssetTag is the result of POST /inventory/tech-assets/generate-tag.
type AssetTag struct {
	AssetTag string  `json:"asset_tag"`
	Category string  `json:"category"`
	Location *string `json:"location,omitempty"`
}

// WarrantyExpiring is the result of GET /inventory/tech-assets/warranty/expiring.
type WarrantyExpiring struct {
	DaysAhead int         `json:"days_ahead"`
	Count     int         `json:"count"`
	Assets    []TechAsset `json:"assets"`
}

// InventoryMetrics feeds the inventory dashboard.
type InventoryMetrics struct {
	TotalAssets          int            `json:"total_assets"`
	AvailableAssets      int            `json:"available_assets"`
	AssignedAssets       int            `json:"assigned_assets"`
	MaintenanceAssets    int            `json:"maintenance_assets"`
	ActiveAssignments    int            `json:"active_assignments"`
	PendingMaintenances  int            `json:"pending_maintenances"`
	OverdueMaintenances  int            `json:"overdue_maintenances"`
	TotalValue           *float64       `json:"total_value,omitempty"`
	CategoryDistribution map[string]int `json:"category_distribution"`
	StatusDistribution   map[string]int `json:"status_distribution"`
}

// DashboardData is the envelope returned by GET /api/dashboard/inventory.
type DashboardData struct {
	Success   bool              `json:"success"`
	Data      *InventoryMetrics `json:"data,omitempty"`
	Timestamp string            `json:"timestamp"`
	Error     *string           `json:"error,omitempty"`
}

// AssetStatistics is the result of GET /inventory/tech-assets/statistics/overview.
type AssetStatistics struct {
	TotalAssets          int            `json:"total_assets"`
	StatusDistribution   map[string]int `json:"status_distribution"`
	CategoryDistribution map[string]int `json:"category_distribution"`
	TotalInventoryValue  float64        `json:"total_inventory_value"`
	AssetsWithWarranty   int            `json:"assets_with_warranty"`
}

// AssignmentStatistics is the result of GET /inventory/assignments/statistics/overview.
type AssignmentStatistics struct {
	TotalAssignments           int            `json:"total_assignments"`
	ActiveAssignments          int            `json:"active_assignments"`
	StatusDistribution         map[string]int `json:"status_distribution"`
	UsersWithActiveAssignments int            `json:"users_with_active_assignments"`
}

// MaintenanceMetrics is the result of GET /inventory/maintenance/metrics/overview.
type MaintenanceMetrics struct {
	TotalMaintenances           int      `json:"total_maintenances"`
	CompletedMaintenances       int      `json:"completed_maintenances"`
	PendingMaintenances         int      `json:"pending_maintenances"`
	OverdueMaintenances         int      `json:"overdue_maintenances"`
	AverageCompletionTimeHours  *float64 `json:"average_completion_time_hours,omitempty"`
	TotalMaintenanceCost        *float64 `json:"total_maintenance_cost,omitempty"`
	PreventiveVsCorrectiveRatio *float64 `json:"preventive_vs_corrective_ratio,omitempty"`
}

// AssetTagRequest is the body of POST /inventory/tech-assets/generate-tag.
type AssetTagRequest struct {
	Category AssetCategory `json:"category"`
	Location *string       `json:"location,omitempty"`
}
