package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/and161185/assetdesk/internal/model"
)

const maintenancePath = "/inventory/maintenance"

func maintenanceItemPath(id int64) string { return fmt.Sprintf("%s/%d", maintenancePath, id) }

func (c *Client) ListMaintenances(ctx context.Context, f model.MaintenanceFilters) ([]model.AssetMaintenance, error) {
	var out []model.AssetMaintenance
	err := c.do(ctx, call{method: http.MethodGet, path: maintenancePath, query: f.Values(), out: &out})
	return out, err
}

func (c *Client) GetMaintenance(ctx context.Context, id int64) (model.AssetMaintenance, error) {
	var out model.AssetMaintenance
	err := c.do(ctx, call{method: http.MethodGet, path: maintenanceItemPath(id), out: &out})
	return out, err
}

func (c *Client) CreateMaintenance(ctx context.Context, in model.AssetMaintenanceCreate) (model.AssetMaintenance, error) {
	var out model.AssetMaintenance
	err := c.do(ctx, call{method: http.MethodPost, path: maintenancePath, body: in, out: &out})
	return out, err
}

func (c *Client) UpdateMaintenance(ctx context.Context, id int64, in model.AssetMaintenanceUpdate) (model.AssetMaintenance, error) {
	var out model.AssetMaintenance
	err := c.do(ctx, call{method: http.MethodPatch, path: maintenanceItemPath(id), body: in, out: &out})
	return out, err
}

// StartMaintenance moves a scheduled job to in_progress.
func (c *Client) StartMaintenance(ctx context.Context, id int64, notes string) (model.AssetMaintenance, error) {
	body := struct {
		Notes *string `json:"notes,omitempty"`
	}{}
	if notes != "" {
		body.Notes = &notes
	}
	var out model.AssetMaintenance
	err := c.do(ctx, call{method: http.MethodPost, path: maintenanceItemPath(id) + "/start", body: body, out: &out})
	return out, err
}

func (c *Client) CompleteMaintenance(ctx context.Context, id int64, in model.CompleteMaintenanceRequest) (model.AssetMaintenance, error) {
	var out model.AssetMaintenance
	err := c.do(ctx, call{method: http.MethodPost, path: maintenanceItemPath(id) + "/complete", body: in, out: &out})
	return out, err
}

// CancelMaintenance cancels a job; reason travels as a query parameter.
func (c *Client) CancelMaintenance(ctx context.Context, id int64, reason string) (model.AssetMaintenance, error) {
	var q url.Values
	if reason != "" {
		q = url.Values{"reason": {reason}}
	}
	var out model.AssetMaintenance
	err := c.do(ctx, call{method: http.MethodPost, path: maintenanceItemPath(id) + "/cancel", query: q, out: &out})
	return out, err
}

func (c *Client) DeleteMaintenance(ctx context.Context, id int64) error {
	return c.do(ctx, call{method: http.MethodDelete, path: maintenanceItemPath(id)})
}

func (c *Client) AssetMaintenanceHistory(ctx context.Context, assetID int64) ([]model.AssetMaintenance, error) {
	var out []model.AssetMaintenance
	err := c.do(ctx, call{method: http.MethodGet, path: fmt.Sprintf("%s/asset/%d/history", maintenancePath, assetID), out: &out})
	return out, err
}

// UpcomingMaintenances lists jobs scheduled within daysAhead days (30 when <= 0).
func (c *Client) UpcomingMaintenances(ctx context.Context, daysAhead int) ([]model.AssetMaintenance, error) {
	if daysAhead <= 0 {
		daysAhead = 30
	}
	q := url.Values{"days_ahead": {strconv.Itoa(daysAhead)}}
	var out []model.AssetMaintenance
	err := c.do(ctx, call{method: http.MethodGet, path: maintenancePath + "/upcoming/schedule", query: q, out: &out})
	return out, err
}

func (c *Client) OverdueMaintenances(ctx context.Context) ([]model.AssetMaintenance, error) {
	var out []model.AssetMaintenance
	err := c.do(ctx, call{method: http.MethodGet, path: maintenancePath + "/overdue/list", out: &out})
	return out, err
}

func (c *Client) MyAssignedMaintenances(ctx context.Context) ([]model.AssetMaintenance, error) {
	var out []model.AssetMaintenance
	err := c.do(ctx, call{method: http.MethodGet, path: maintenancePath + "/my-assigned", out: &out})
	return out, err
}

// MaintenanceMetrics aggregates jobs, optionally bounded by ISO dates.
func (c *Client) MaintenanceMetrics(ctx context.Context, dateFrom, dateTo string) (model.MaintenanceMetrics, error) {
	q := url.Values{}
	if dateFrom != "" {
		q.Set("date_from", dateFrom)
	}
	if dateTo != "" {
		q.Set("date_to", dateTo)
	}
	var out model.MaintenanceMetrics
	err := c.do(ctx, call{method: http.MethodGet, path: maintenancePath + "/metrics/overview", query: q, out: &out})
	return out, err
}

// SchedulePreventiveMaintenance books the next preventive job intervalDays out (90 when <= 0).
func (c *Client) SchedulePreventiveMaintenance(ctx context.Context, assetID int64, intervalDays int) (model.AssetMaintenance, error) {
	if intervalDays <= 0 {
		intervalDays = 90
	}
	body := struct {
		IntervalDays int `json:"maintenance_interval_days"`
	}{intervalDays}
	var out model.AssetMaintenance
	err := c.do(ctx, call{method: http.MethodPost, path: fmt.Sprintf("%s/asset/%d/schedule-preventive", maintenancePath, assetID), body: body, out: &out})
	return out, err
}
