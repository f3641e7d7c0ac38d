package model

import (
	"net/url"
	"strconv"
	"strings"
)

// AssetFilters narrows GET /inventory/tech-assets. Zero values are omitted from the query.
type AssetFilters struct {
	Search     string        `json:"search,omitempty" yaml:"search,omitempty"`
	Category   AssetCategory `json:"category,omitempty" yaml:"category,omitempty"`
	Status     AssetStatus   `json:"status,omitempty" yaml:"status,omitempty"`
	Brand      string        `json:"brand,omitempty" yaml:"brand,omitempty"`
	Location   string        `json:"location,omitempty" yaml:"location,omitempty"`
	Department string        `json:"department,omitempty" yaml:"department,omitempty"`
}

// Values encodes the populated filter keys.
func (f AssetFilters) Values() url.Values {
	v := url.Values{}
	setString(v, "search", f.Search)
	setString(v, "category", string(f.Category))
	setString(v, "status", string(f.Status))
	setString(v, "brand", f.Brand)
	setString(v, "location", f.Location)
	setString(v, "department", f.Department)
	return v
}

// IsZero reports whether no filter is set.
func (f AssetFilters) IsZero() bool { return len(f.Values()) == 0 }

// AssignmentFilters narrows GET /inventory/assignments.
type AssignmentFilters struct {
	Status     AssignmentStatus `json:"status,omitempty"`
	UserID     int64            `json:"user_id,omitempty"`
	AssetID    int64            `json:"asset_id,omitempty"`
	ActiveOnly *bool            `json:"active_only,omitempty"`
}

// Values encodes the populated filter keys.
func (f AssignmentFilters) Values() url.Values {
	v := url.Values{}
	setString(v, "status", string(f.Status))
	setID(v, "user_id", f.UserID)
	setID(v, "asset_id", f.AssetID)
	if f.ActiveOnly != nil {
		v.Set("active_only", strconv.FormatBool(*f.ActiveOnly))
	}
	return v
}

// IsZero reports whether no filter is set.
func (f AssignmentFilters) IsZero() bool { return len(f.Values()) == 0 }

// MaintenanceFilters narrows GET /inventory/maintenance.
type MaintenanceFilters struct {
	Status          MaintenanceStatus   `json:"status,omitempty"`
	MaintenanceType MaintenanceType     `json:"maintenance_type,omitempty"`
	Priority        MaintenancePriority `json:"priority,omitempty"`
	AssetID         int64               `json:"asset_id,omitempty"`
	TechnicianID    int64               `json:"technician_id,omitempty"`
	DateFrom        string              `json:"date_from,omitempty"`
	DateTo          string              `json:"date_to,omitempty"`
}

// Values encodes the populated filter keys.
func (f MaintenanceFilters) Values() url.Values {
	v := url.Values{}
	setString(v, "status", string(f.Status))
	setString(v, "maintenance_type", string(f.MaintenanceType))
	setString(v, "priority", string(f.Priority))
	setID(v, "asset_id", f.AssetID)
	setID(v, "technician_id", f.TechnicianID)
	setString(v, "date_from", f.DateFrom)
	setString(v, "date_to", f.DateTo)
	return v
}

// IsZero reports whether no filter is set.
func (f MaintenanceFilters) IsZero() bool { return len(f.Values()) == 0 }

func setString(v url.Values, key, val string) {
	if val = strings.TrimSpace(val); val != "" {
		v.Set(key, val)
	}
}

func setID(v url.Values, key string, id int64) {
	if id > 0 {
		v.Set(key, strconv.FormatInt(id, 10))
	}
}
