package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/and161185/assetdesk/internal/model"
)

const assignmentsPath = "/inventory/assignments"

func assignmentPath(id int64) string { return fmt.Sprintf("%s/%d", assignmentsPath, id) }

func (c *Client) ListAssignments(ctx context.Context, f model.AssignmentFilters) ([]model.AssetAssignment, error) {
	var out []model.AssetAssignment
	err := c.do(ctx, call{method: http.MethodGet, path: assignmentsPath, query: f.Values(), out: &out})
	return out, err
}

func (c *Client) GetAssignment(ctx context.Context, id int64) (model.AssetAssignment, error) {
	var out model.AssetAssignment
	err := c.do(ctx, call{method: http.MethodGet, path: assignmentPath(id), out: &out})
	return out, err
}

func (c *Client) CreateAssignment(ctx context.Context, in model.AssetAssignmentCreate) (model.AssetAssignment, error) {
	var out model.AssetAssignment
	err := c.do(ctx, call{method: http.MethodPost, path: assignmentsPath, body: in, out: &out})
	return out, err
}

// ReturnAsset closes an active assignment.
func (c *Client) ReturnAsset(ctx context.Context, id int64, in model.ReturnAssetRequest) (model.AssetAssignment, error) {
	var out model.AssetAssignment
	err := c.do(ctx, call{method: http.MethodPost, path: assignmentPath(id) + "/return", body: in, out: &out})
	return out, err
}

// TransferAsset hands an active assignment to newUserID and returns the new assignment.
func (c *Client) TransferAsset(ctx context.Context, id, newUserID int64, notes string) (model.AssetAssignment, error) {
	q := url.Values{"new_user_id": {strconv.FormatInt(newUserID, 10)}}
	if notes != "" {
		q.Set("transfer_notes", notes)
	}
	var out model.AssetAssignment
	err := c.do(ctx, call{method: http.MethodPost, path: assignmentPath(id) + "/transfer", query: q, out: &out})
	return out, err
}

func (c *Client) DeleteAssignment(ctx context.Context, id int64) error {
	return c.do(ctx, call{method: http.MethodDelete, path: assignmentPath(id)})
}

func (c *Client) UserAssignments(ctx context.Context, userID int64, activeOnly bool) ([]model.AssetAssignment, error) {
	q := url.Values{"active_only": {strconv.FormatBool(activeOnly)}}
	var out []model.AssetAssignment
	err := c.do(ctx, call{method: http.MethodGet, path: fmt.Sprintf("%s/user/%d", assignmentsPath, userID), query: q, out: &out})
	return out, err
}

func (c *Client) AssetAssignmentHistory(ctx context.Context, assetID int64) ([]model.AssetAssignment, error) {
	var out []model.AssetAssignment
	err := c.do(ctx, call{method: http.MethodGet, path: fmt.Sprintf("%s/asset/%d/history", assignmentsPath, assetID), out: &out})
	return out, err
}

// MyAssignments lists the assignments held by the session owner.
func (c *Client) MyAssignments(ctx context.Context) ([]model.AssetAssignment, error) {
	var out []model.AssetAssignment
	err := c.do(ctx, call{method: http.MethodGet, path: assignmentsPath + "/my-assets", out: &out})
	return out, err
}

func (c *Client) AssignmentStatistics(ctx context.Context) (model.AssignmentStatistics, error) {
	var out model.AssignmentStatistics
	err := c.do(ctx, call{method: http.MethodGet, path: assignmentsPath + "/statistics/overview", out: &out})
	return out, err
}
