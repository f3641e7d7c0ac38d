package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/and161185/assetdesk/internal/model"
)

const assetsPath = "/inventory/tech-assets"

func assetPath(id int64) string { return fmt.Sprintf("%s/%d", assetsPath, id) }

// ListTechAssets returns assets matching the populated filter keys.
func (c *Client) ListTechAssets(ctx context.Context, f model.AssetFilters) ([]model.TechAsset, error) {
	var out []model.TechAsset
	err := c.do(ctx, call{method: http.MethodGet, path: assetsPath, query: f.Values(), out: &out})
	return out, err
}

func (c *Client) GetTechAsset(ctx context.Context, id int64) (model.TechAsset, error) {
	var out model.TechAsset
	err := c.do(ctx, call{method: http.MethodGet, path: assetPath(id), out: &out})
	return out, err
}

func (c *Client) CreateTechAsset(ctx context.Context, in model.TechAssetCreate) (model.TechAsset, error) {
	var out model.TechAsset
	err := c.do(ctx, call{method: http.MethodPost, path: assetsPath, body: in, out: &out})
	return out, err
}

func (c *Client) UpdateTechAsset(ctx context.Context, id int64, in model.TechAssetUpdate) (model.TechAsset, error) {
	var out model.TechAsset
	err := c.do(ctx, call{method: http.MethodPatch, path: assetPath(id), body: in, out: &out})
	return out, err
}

func (c *Client) DeleteTechAsset(ctx context.Context, id int64) error {
	return c.do(ctx, call{method: http.MethodDelete, path: assetPath(id)})
}

// UpdateAssetStatus sets the status of one asset (PATCH .../status).
func (c *Client) UpdateAssetStatus(ctx context.Context, id int64, status model.AssetStatus) (model.TechAsset, error) {
	body := struct {
		Status model.AssetStatus `json:"status"`
	}{status}
	var out model.TechAsset
	err := c.do(ctx, call{method: http.MethodPatch, path: assetPath(id) + "/status", body: body, out: &out})
	return out, err
}

func (c *Client) AssetCategories(ctx context.Context) ([]model.Option, error) {
	var out []model.Option
	err := c.do(ctx, call{method: http.MethodGet, path: assetsPath + "/categories/list", out: &out})
	return out, err
}

func (c *Client) AssetStatuses(ctx context.Context) ([]model.Option, error) {
	var out []model.Option
	err := c.do(ctx, call{method: http.MethodGet, path: assetsPath + "/status/list", out: &out})
	return out, err
}

// WarrantyExpiring lists assets whose warranty ends within daysAhead days (30 when <= 0).
func (c *Client) WarrantyExpiring(ctx context.Context, daysAhead int) (model.WarrantyExpiring, error) {
	if daysAhead <= 0 {
		daysAhead = 30
	}
	q := url.Values{"days_ahead": {strconv.Itoa(daysAhead)}}
	var out model.WarrantyExpiring
	err := c.do(ctx, call{method: http.MethodGet, path: assetsPath + "/warranty/expiring", query: q, out: &out})
	return out, err
}

func (c *Client) GenerateAssetTag(ctx context.Context, in model.AssetTagRequest) (model.AssetTag, error) {
	var out model.AssetTag
	err := c.do(ctx, call{method: http.MethodPost, path: assetsPath + "/generate-tag", body: in, out: &out})
	return out, err
}

func (c *Client) AssetStatistics(ctx context.Context) (model.AssetStatistics, error) {
	var out model.AssetStatistics
	err := c.do(ctx, call{method: http.MethodGet, path: assetsPath + "/statistics/overview", out: &out})
	return out, err
}
