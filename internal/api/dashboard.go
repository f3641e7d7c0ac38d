package api

import (
	"context"
	"net/http"

	"github.com/and161185/assetdesk/internal/errs"
	"github.com/and161185/assetdesk/internal/model"
)

// DashboardInventory unwraps the {success,data,error} envelope.
// success=false is reported as a server error carrying the envelope message.
func (c *Client) DashboardInventory(ctx context.Context) (model.InventoryMetrics, error) {
	var env model.DashboardData
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/dashboard/inventory", out: &env}); err != nil {
		return model.InventoryMetrics{}, err
	}
	if !env.Success || env.Data == nil {
		msg := "dashboard data unavailable"
		if env.Error != nil && *env.Error != "" {
			msg = *env.Error
		}
		return model.InventoryMetrics{}, errs.New(errs.ErrServer, http.StatusOK, msg)
	}
	return *env.Data, nil
}
