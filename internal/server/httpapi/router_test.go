package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/and161185/assetdesk/internal/limiter"
	"github.com/and161185/assetdesk/internal/model"
	"github.com/and161185/assetdesk/internal/obs"
	"github.com/and161185/assetdesk/internal/repository/memory"
	"github.com/and161185/assetdesk/internal/service"
)

type backend struct {
	srv    *httptest.Server
	tokens map[string]string
	ids    map[string]int64
}

func newBackend(t *testing.T) *backend {
	t.Helper()

	db := memory.New()
	auth := service.NewAuthService(db, []byte("test-key"), time.Hour, limiter.NewMemory(time.Minute, 3, time.Minute))
	inv := service.NewInventoryService(db, db, db, db)
	reg := prometheus.NewRegistry()

	srv := httptest.NewServer(NewRouter(Deps{
		Auth:      auth,
		Inventory: inv,
		Log:       zaptest.NewLogger(t),
		Metrics:   obs.NewMetrics(reg, "test"),
		Gatherer:  reg,
	}))
	t.Cleanup(srv.Close)

	b := &backend{srv: srv, tokens: map[string]string{}, ids: map[string]int64{}}
	for name, roles := range map[string][]string{
		"admin": {"admin"},
		"bob":   {"user"},
		"tech":  {"technician"},
	} {
		u, err := auth.Register(context.Background(), model.RegisterRequest{
			Email: name + "@example.com", Password: "secret1", Roles: roles,
		})
		require.NoError(t, err)
		b.ids[name] = u.ID
		b.tokens[name] = b.login(t, name+"@example.com", "secret1")
	}
	return b
}

func (b *backend) login(t *testing.T, email, password string) string {
	t.Helper()
	resp, err := http.PostForm(b.srv.URL+"/token", url.Values{"username": {email}, "password": {password}})
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tr model.TokenResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tr))
	require.Equal(t, "bearer", tr.TokenType)
	return tr.AccessToken
}

// call issues a request as who ("" for anonymous) and decodes a JSON response into out when non-nil.
func (b *backend) call(t *testing.T, who, method, path string, body, out any) int {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, b.srv.URL+path, rd)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if who != "" {
		req.Header.Set("Authorization", "Bearer "+b.tokens[who])
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestLogin_WrongPasswordThenRateLimited(t *testing.T) {
	t.Parallel()
	b := newBackend(t)

	form := url.Values{"username": {"bob@example.com"}, "password": {"wrong"}}
	var last int
	var body detailBody
	for i := 0; i < 4; i++ {
		resp, err := http.PostForm(b.srv.URL+"/token", form)
		require.NoError(t, err)
		last = resp.StatusCode
		body = detailBody{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		resp.Body.Close()
		if i == 0 {
			require.Equal(t, http.StatusUnauthorized, last)
			require.Equal(t, "incorrect email or password", body.Detail)
		}
	}
	require.Equal(t, http.StatusTooManyRequests, last)
}

func TestUsersMe_AndAdminList(t *testing.T) {
	t.Parallel()
	b := newBackend(t)

	var me model.UserProfile
	require.Equal(t, http.StatusOK, b.call(t, "bob", http.MethodGet, "/users/me", nil, &me))
	require.Equal(t, "bob@example.com", me.Email)
	require.Equal(t, []string{"user"}, me.Roles)

	var d detailBody
	require.Equal(t, http.StatusUnauthorized, b.call(t, "", http.MethodGet, "/users/me", nil, &d))
	require.Equal(t, "Not authenticated", d.Detail)

	require.Equal(t, http.StatusForbidden, b.call(t, "bob", http.MethodGet, "/users", nil, &d))
	require.Equal(t, "Not enough permissions", d.Detail)

	var users []model.UserProfile
	require.Equal(t, http.StatusOK, b.call(t, "admin", http.MethodGet, "/users", nil, &users))
	require.Len(t, users, 3)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()
	b := newBackend(t)

	var d detailBody
	status := b.call(t, "", http.MethodPost, "/register",
		model.RegisterRequest{Email: "BOB@example.com", Password: "secret1"}, &d)
	require.Equal(t, http.StatusBadRequest, status)
	require.NotEmpty(t, d.Detail)

	var p model.UserProfile
	status = b.call(t, "", http.MethodPost, "/register",
		model.RegisterRequest{Email: "carol@example.com", Password: "secret1"}, &p)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, []string{"user"}, p.Roles)
}

func TestRegister_RolesOnlyFromAdmins(t *testing.T) {
	t.Parallel()
	b := newBackend(t)

	var p model.UserProfile
	status := b.call(t, "", http.MethodPost, "/register",
		model.RegisterRequest{Email: "mallory@example.com", Password: "secret1", Roles: []string{"admin"}}, &p)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, []string{"user"}, p.Roles)

	b.tokens["mallory"] = b.login(t, "mallory@example.com", "secret1")
	var d detailBody
	require.Equal(t, http.StatusForbidden, b.call(t, "mallory", http.MethodGet, "/users", nil, &d))

	status = b.call(t, "bob", http.MethodPost, "/register",
		model.RegisterRequest{Email: "eve@example.com", Password: "secret1", Roles: []string{"admin"}}, &p)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, []string{"user"}, p.Roles)

	inactive := false
	status = b.call(t, "admin", http.MethodPost, "/register",
		model.RegisterRequest{Email: "tina@example.com", Password: "secret1", Roles: []string{"technician"}, IsActive: &inactive}, &p)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, []string{"technician"}, p.Roles)
	require.False(t, p.IsActive)
}

func TestAssets_CRUDAndRoles(t *testing.T) {
	t.Parallel()
	b := newBackend(t)

	in := model.TechAssetCreate{Name: "ThinkPad", Brand: "Lenovo", Model: "T14", SerialNumber: "SN-1", Category: model.CategoryLaptop}
	require.Equal(t, http.StatusForbidden, b.call(t, "bob", http.MethodPost, "/inventory/tech-assets", in, nil))

	var a model.TechAsset
	require.Equal(t, http.StatusOK, b.call(t, "admin", http.MethodPost, "/inventory/tech-assets", in, &a))
	require.Equal(t, model.AssetAvailable, a.Status)

	var d detailBody
	require.Equal(t, http.StatusBadRequest, b.call(t, "admin", http.MethodPost, "/inventory/tech-assets", in, &d))

	var list []model.TechAsset
	require.Equal(t, http.StatusOK, b.call(t, "bob", http.MethodGet, "/inventory/tech-assets?brand=lenovo", nil, &list))
	require.Len(t, list, 1)

	var opts []model.Option
	require.Equal(t, http.StatusOK, b.call(t, "bob", http.MethodGet, "/inventory/tech-assets/status/list", nil, &opts))
	require.Equal(t, model.Option{Value: "in_maintenance", Label: "In maintenance"}, opts[2])

	status := model.AssetOutOfOrder
	var updated model.TechAsset
	require.Equal(t, http.StatusOK, b.call(t, "admin", http.MethodPatch,
		fmt.Sprintf("/inventory/tech-assets/%d/status", a.ID), map[string]any{"status": status}, &updated))
	require.Equal(t, status, updated.Status)

	require.Equal(t, http.StatusUnprocessableEntity, b.call(t, "bob", http.MethodGet, "/inventory/tech-assets/abc", nil, &d))
	require.Equal(t, http.StatusNotFound, b.call(t, "bob", http.MethodGet, "/inventory/tech-assets/999", nil, &d))

	require.Equal(t, http.StatusForbidden, b.call(t, "tech", http.MethodDelete, fmt.Sprintf("/inventory/tech-assets/%d", a.ID), nil, nil))
	require.Equal(t, http.StatusOK, b.call(t, "admin", http.MethodDelete, fmt.Sprintf("/inventory/tech-assets/%d", a.ID), nil, nil))
}

func TestAssignments_MyAssetsAndTransfer(t *testing.T) {
	t.Parallel()
	b := newBackend(t)

	var a model.TechAsset
	require.Equal(t, http.StatusOK, b.call(t, "admin", http.MethodPost, "/inventory/tech-assets",
		model.TechAssetCreate{Name: "Monitor", Brand: "Dell", Model: "P24", SerialNumber: "M-1", Category: model.CategoryMonitor}, &a))

	var as model.AssetAssignment
	require.Equal(t, http.StatusOK, b.call(t, "admin", http.MethodPost, "/inventory/assignments",
		model.AssetAssignmentCreate{TechAssetID: a.ID, AssignedToUserID: b.ids["bob"]}, &as))
	require.Equal(t, b.ids["admin"], *as.AssignedByUserID)

	var mine []model.AssetAssignment
	require.Equal(t, http.StatusOK, b.call(t, "bob", http.MethodGet, "/inventory/assignments/my-assets", nil, &mine))
	require.Len(t, mine, 1)
	require.Equal(t, "Monitor", *mine[0].TechAssetName)

	require.Equal(t, http.StatusForbidden, b.call(t, "bob", http.MethodGet, "/inventory/assignments", nil, nil))

	var d detailBody
	require.Equal(t, http.StatusUnprocessableEntity, b.call(t, "admin", http.MethodPost,
		fmt.Sprintf("/inventory/assignments/%d/transfer", as.ID), nil, &d))

	var moved model.AssetAssignment
	path := fmt.Sprintf("/inventory/assignments/%d/transfer?new_user_id=%d&transfer_notes=%s", as.ID, b.ids["tech"], url.QueryEscape("desk move"))
	require.Equal(t, http.StatusOK, b.call(t, "admin", http.MethodPost, path, nil, &moved))
	require.Equal(t, b.ids["tech"], moved.AssignedToUserID)

	require.Equal(t, http.StatusOK, b.call(t, "bob", http.MethodGet, "/inventory/assignments/my-assets", nil, &mine))
	require.Empty(t, mine)

	var history []model.AssetAssignment
	require.Equal(t, http.StatusOK, b.call(t, "admin", http.MethodGet,
		fmt.Sprintf("/inventory/assignments/asset/%d/history", a.ID), nil, &history))
	require.Len(t, history, 2)
}

func TestMaintenance_Lifecycle(t *testing.T) {
	t.Parallel()
	b := newBackend(t)

	var a model.TechAsset
	require.Equal(t, http.StatusOK, b.call(t, "admin", http.MethodPost, "/inventory/tech-assets",
		model.TechAssetCreate{Name: "Printer", Brand: "HP", Model: "M404", SerialNumber: "P-1", Category: model.CategoryPrinter}, &a))

	techID := b.ids["tech"]
	var m model.AssetMaintenance
	require.Equal(t, http.StatusOK, b.call(t, "tech", http.MethodPost, "/inventory/maintenance", model.AssetMaintenanceCreate{
		TechAssetID: a.ID, MaintenanceType: model.MaintenanceCorrective, Title: "Paper jam",
		Description: "Jams on tray 2", ScheduledDate: time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		AssignedTechnicianID: &techID,
	}, &m))
	require.Equal(t, model.MaintenanceScheduled, m.Status)

	var d detailBody
	require.Equal(t, http.StatusBadRequest, b.call(t, "tech", http.MethodPost,
		fmt.Sprintf("/inventory/maintenance/%d/complete", m.ID), model.CompleteMaintenanceRequest{}, &d))

	require.Equal(t, http.StatusOK, b.call(t, "tech", http.MethodPost,
		fmt.Sprintf("/inventory/maintenance/%d/start", m.ID), map[string]string{"notes": "on site"}, &m))
	require.Equal(t, model.MaintenanceInProgress, m.Status)

	var mine []model.AssetMaintenance
	require.Equal(t, http.StatusOK, b.call(t, "tech", http.MethodGet, "/inventory/maintenance/my-assigned", nil, &mine))
	require.Len(t, mine, 1)

	require.Equal(t, http.StatusConflict, b.call(t, "admin", http.MethodDelete,
		fmt.Sprintf("/inventory/maintenance/%d", m.ID), nil, &d))

	cost := 40.0
	require.Equal(t, http.StatusOK, b.call(t, "tech", http.MethodPost,
		fmt.Sprintf("/inventory/maintenance/%d/complete", m.ID), model.CompleteMaintenanceRequest{LaborCost: &cost}, &m))
	require.Equal(t, model.MaintenanceCompleted, m.Status)

	var got model.TechAsset
	require.Equal(t, http.StatusOK, b.call(t, "bob", http.MethodGet, fmt.Sprintf("/inventory/tech-assets/%d", a.ID), nil, &got))
	require.Equal(t, model.AssetAvailable, got.Status)

	require.Equal(t, http.StatusForbidden, b.call(t, "bob", http.MethodGet, "/inventory/maintenance", nil, nil))

	var prev model.AssetMaintenance
	require.Equal(t, http.StatusOK, b.call(t, "admin", http.MethodPost,
		fmt.Sprintf("/inventory/maintenance/asset/%d/schedule-preventive", a.ID),
		map[string]int{"maintenance_interval_days": 30}, &prev))
	require.Equal(t, model.MaintenancePreventive, prev.MaintenanceType)

	var cancelled model.AssetMaintenance
	require.Equal(t, http.StatusOK, b.call(t, "admin", http.MethodPost,
		fmt.Sprintf("/inventory/maintenance/%d/cancel?reason=%s", prev.ID, url.QueryEscape("budget")), nil, &cancelled))
	require.Equal(t, model.MaintenanceCancelled, cancelled.Status)
	require.Contains(t, *cancelled.Notes, "budget")
}

func TestDashboard_Envelope(t *testing.T) {
	t.Parallel()
	b := newBackend(t)

	var env model.DashboardData
	require.Equal(t, http.StatusOK, b.call(t, "bob", http.MethodGet, "/api/dashboard/inventory", nil, &env))
	require.True(t, env.Success)
	require.NotNil(t, env.Data)
	require.Zero(t, env.Data.TotalAssets)
	require.NotEmpty(t, env.Timestamp)
}

func TestRouter_NotFoundAndMetrics(t *testing.T) {
	t.Parallel()
	b := newBackend(t)

	var d detailBody
	require.Equal(t, http.StatusNotFound, b.call(t, "", http.MethodGet, "/nope", nil, &d))
	require.Equal(t, "Not Found", d.Detail)

	resp, err := http.Get(b.srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(raw), "test_"), "metrics body should carry the namespace")
}
