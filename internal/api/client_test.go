package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/and161185/assetdesk/internal/errs"
	"github.com/and161185/assetdesk/internal/model"
	"github.com/and161185/assetdesk/internal/obs"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

var _ TokenSource = staticToken("")

func newTestClient(t *testing.T, h http.Handler, tok TokenSource) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(Config{BaseURL: srv.URL + "/", Logger: zaptest.NewLogger(t), Tokens: tok, Timeout: 2 * time.Second})
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew_ValidatesBaseURL(t *testing.T) {
	t.Parallel()

	for _, bad := range []string{"", "localhost:8000", "ftp://x", "http://"} {
		_, err := New(Config{BaseURL: bad})
		require.ErrorIs(t, err, errs.ErrInvalidInput, bad)
	}
	c, err := New(Config{BaseURL: "https://api.example.com/"})
	require.NoError(t, err)
	require.Equal(t, "https://api.example.com", c.BaseURL())
}

func TestLogin_SendsFormAndNoBearer(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/token", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "a@b.c", r.PostForm.Get("username"))
		assert.Equal(t, "pw", r.PostForm.Get("password"))
		writeJSON(w, http.StatusOK, model.TokenResponse{AccessToken: "tok", TokenType: "bearer"})
	}), staticToken("stale"))

	tok, err := c.Login(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)
	require.Equal(t, "tok", tok)
}

func TestMe_UsesExplicitToken(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer fresh", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, model.UserProfile{ID: 1, Email: "a@b.c", Roles: []string{"admin"}})
	}), staticToken("other"))

	p, err := c.Me(context.Background(), "fresh")
	require.NoError(t, err)
	require.Equal(t, []string{"admin"}, p.Roles)
}

func TestRequest_HeadersAndBody(t *testing.T) {
	t.Parallel()

	var (
		mu  sync.Mutex
		ids []string
	)
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		mu.Lock()
		ids = append(ids, r.Header.Get(RequestIDHeader))
		mu.Unlock()

		var in model.TechAssetCreate
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		writeJSON(w, http.StatusOK, model.TechAsset{ID: 9, Name: in.Name, Category: in.Category, Status: model.AssetAvailable})
	}), staticToken("tok"))

	for i := 0; i < 2; i++ {
		got, err := c.CreateTechAsset(context.Background(), model.TechAssetCreate{Name: "X1", Category: model.CategoryLaptop})
		require.NoError(t, err)
		require.Equal(t, int64(9), got.ID)
	}
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, ids, 2)
	require.Len(t, ids[0], 26)
	require.NotEqual(t, ids[0], ids[1])
	require.Less(t, ids[0], ids[1], "request ids are monotonic")
}

func TestErrorNormalization(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		status int
		body   string
		kind   error
		msg    string
	}{
		{"detail string", 400, `{"detail":"Asset is not assigned"}`, errs.ErrValidation, "Asset is not assigned"},
		{"detail list", 422, `{"detail":[{"loc":["body","name"],"msg":"field required"}]}`, errs.ErrValidation, "field required"},
		{"message", 409, `{"message":"duplicate serial"}`, errs.ErrValidation, "duplicate serial"},
		{"no body", 404, ``, errs.ErrValidation, "HTTP error! status: 404"},
		{"html body", 502, `<html>bad gateway</html>`, errs.ErrServer, "HTTP error! status: 502"},
		{"unauthorized", 401, `{"detail":"Incorrect username or password"}`, errs.ErrUnauthorized, "Incorrect username or password"},
		{"forbidden", 403, `{"detail":"Not enough permissions"}`, errs.ErrUnauthorized, "Not enough permissions"},
		{"server", 500, `{"detail":"boom"}`, errs.ErrServer, "boom"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}), nil)

			_, err := c.GetTechAsset(context.Background(), 1)
			require.Error(t, err)
			require.ErrorIs(t, err, tc.kind)
			require.Equal(t, tc.msg, errs.Message(err))

			var apiErr *errs.APIError
			require.True(t, errors.As(err, &apiErr))
			require.Equal(t, tc.status, apiErr.StatusCode)
		})
	}
}

func TestNetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(Config{BaseURL: url})
	require.NoError(t, err)
	_, err = c.ListTechAssets(context.Background(), model.AssetFilters{})
	require.ErrorIs(t, err, errs.ErrNetwork)
	require.Contains(t, errs.Message(err), "network error: ")
}

func TestTimeoutIsNetworkError(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() { close(release); srv.Close() })

	c, err := New(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)
	_, err = c.MyAssignments(context.Background())
	require.ErrorIs(t, err, errs.ErrNetwork)
}

func TestInvalidJSONIsServerError(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":"nope"`)
	}), nil)
	_, err := c.GetMaintenance(context.Background(), 3)
	require.ErrorIs(t, err, errs.ErrServer)
}

func TestPathsAndQueries(t *testing.T) {
	t.Parallel()

	type seen struct{ method, path, query string }
	var (
		mu  sync.Mutex
		got []seen
	)
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		got = append(got, seen{r.Method, r.URL.Path, r.URL.RawQuery})
		mu.Unlock()
		switch r.Method {
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			_, _ = io.WriteString(w, `{}`)
		}
	}), nil)
	ctx := context.Background()

	_, _ = c.ListTechAssets(ctx, model.AssetFilters{Status: model.AssetAvailable, Search: " "})
	require.NoError(t, c.DeleteTechAsset(ctx, 4))
	_, _ = c.TransferAsset(ctx, 5, 8, "desk move")
	_, _ = c.CancelMaintenance(ctx, 6, "")
	_, _ = c.CancelMaintenance(ctx, 6, "no parts")
	_, _ = c.UserAssignments(ctx, 2, true)
	_, _ = c.WarrantyExpiring(ctx, 0)
	_, _ = c.MaintenanceMetrics(ctx, "2024-01-01", "")
	_, _ = c.UpdateAssetStatus(ctx, 4, model.AssetRetired)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []seen{
		{"GET", "/inventory/tech-assets", "status=available"},
		{"DELETE", "/inventory/tech-assets/4", ""},
		{"POST", "/inventory/assignments/5/transfer", "new_user_id=8&transfer_notes=desk+move"},
		{"POST", "/inventory/maintenance/6/cancel", ""},
		{"POST", "/inventory/maintenance/6/cancel", "reason=no+parts"},
		{"GET", "/inventory/assignments/user/2", "active_only=true"},
		{"GET", "/inventory/tech-assets/warranty/expiring", "days_ahead=30"},
		{"GET", "/inventory/maintenance/metrics/overview", "date_from=2024-01-01"},
		{"PATCH", "/inventory/tech-assets/4/status", ""},
	}, got)
}

func TestDashboardInventory_Envelope(t *testing.T) {
	t.Parallel()

	fail := "metrics backend down"
	var failing atomic.Bool
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !failing.Load() {
			writeJSON(w, http.StatusOK, model.DashboardData{Success: true, Data: &model.InventoryMetrics{TotalAssets: 3}})
			return
		}
		writeJSON(w, http.StatusOK, model.DashboardData{Success: false, Error: &fail})
	}), nil)

	m, err := c.DashboardInventory(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, m.TotalAssets)

	failing.Store(true)
	_, err = c.DashboardInventory(context.Background())
	require.ErrorIs(t, err, errs.ErrServer)
	require.Equal(t, fail, errs.Message(err))
}

func TestMetricsRecorded(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	}))
	t.Cleanup(srv.Close)

	reg := prometheus.NewRegistry()
	c, err := New(Config{BaseURL: srv.URL, Metrics: obs.NewMetrics(reg, "client"), RequestsPerSecond: 100})
	require.NoError(t, err)
	_, err = c.OverdueMaintenances(context.Background())
	require.NoError(t, err)

	n, err := testutil.GatherAndCount(reg, "client_http_requests_total")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}
