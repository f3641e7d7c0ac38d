// Package api is the HTTP client for the asset backend. It is the only place
// that inspects raw HTTP responses: every failure leaves it as an *errs.APIError.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	mathrand "math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/and161185/assetdesk/internal/errs"
	"github.com/and161185/assetdesk/internal/obs"
)

// RequestIDHeader carries the per-request ULID.
const RequestIDHeader = "X-Request-ID"

// TokenSource supplies the bearer token read on every request.
// The client never writes it.
type TokenSource interface {
	Token() string
}

// Config holds configuration for creating a Client.
type Config struct {
	// BaseURL is the backend root, e.g. "http://localhost:8000".
	BaseURL string
	// HTTPClient is used for all requests. If nil, http.DefaultClient is used.
	HTTPClient *http.Client
	// Timeout bounds each request. Zero disables the bound.
	Timeout time.Duration
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
	// Metrics may be nil.
	Metrics *obs.Metrics
	// RequestsPerSecond limits outbound requests. Zero means unlimited.
	RequestsPerSecond float64
	// Tokens may be nil for unauthenticated use.
	Tokens TokenSource
}

// Client talks to the backend REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	log        *zap.Logger
	metrics    *obs.Metrics
	limiter    *rate.Limiter
	tokens     TokenSource

	idMu    sync.Mutex
	entropy io.Reader
}

// New validates cfg and constructs a Client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: base url is required", errs.ErrInvalidInput)
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid base url %q", errs.ErrInvalidInput, cfg.BaseURL)
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: hc,
		timeout:    cfg.Timeout,
		log:        obs.OrNop(cfg.Logger),
		metrics:    cfg.Metrics,
		tokens:     cfg.Tokens,
		entropy:    ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0),
	}
	if cfg.RequestsPerSecond > 0 {
		burst := int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return c, nil
}

// BaseURL returns the normalized backend root.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) newRequestID() string {
	c.idMu.Lock()
	defer c.idMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), c.entropy).String()
}

// call describes one HTTP exchange.
type call struct {
	method string
	path   string
	query  url.Values
	body   any        // JSON-encoded when non-nil
	form   url.Values // form-encoded when non-nil; wins over body
	token  *string    // overrides the TokenSource when set
	out    any        // decoded from a 2xx body when non-nil
}

func (c *Client) do(ctx context.Context, cl call) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return networkError(err)
		}
	}

	target := c.baseURL + cl.path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}

	var (
		reader      io.Reader
		contentType string
	)
	switch {
	case cl.form != nil:
		reader = strings.NewReader(cl.form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case cl.body != nil:
		b, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("%w: encode request: %v", errs.ErrInvalidInput, err)
		}
		reader = bytes.NewReader(b)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, target, reader)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", errs.ErrInvalidInput, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	reqID := c.newRequestID()
	req.Header.Set(RequestIDHeader, reqID)

	token := ""
	if cl.token != nil {
		token = *cl.token
	} else if c.tokens != nil {
		token = c.tokens.Token()
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	done := c.metrics.Begin(cl.method, cl.path)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		done(0)
		c.log.Debug("request failed",
			zap.String("method", cl.method),
			zap.String("path", cl.path),
			zap.String("request_id", reqID),
			zap.Duration("dur", time.Since(start)),
			zap.Error(err))
		return networkError(err)
	}
	defer resp.Body.Close()
	done(resp.StatusCode)

	c.log.Debug("request",
		zap.String("method", cl.method),
		zap.String("path", cl.path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", reqID),
		zap.Duration("dur", time.Since(start)))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return networkError(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(resp.StatusCode, body)
	}
	if cl.out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, cl.out); err != nil {
		return errs.New(errs.ErrServer, resp.StatusCode, "invalid response: "+err.Error())
	}
	return nil
}

func networkError(err error) *errs.APIError {
	return errs.New(errs.ErrNetwork, 0, "network error: "+err.Error())
}

// errorBody is the error shape returned by the backend: {"detail": ...} or {"message": ...}.
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
}

// responseError normalizes a non-2xx response into an APIError.
func responseError(status int, body []byte) *errs.APIError {
	msg := errs.StatusMessage(status)
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil {
		if d := detailMessage(eb.Detail); d != "" {
			msg = d
		} else if eb.Message != "" {
			msg = eb.Message
		}
	}
	return errs.New(errs.KindForStatus(status), status, msg)
}

// detailMessage accepts a plain string or a validation list whose first entry has "msg".
func detailMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var list []struct {
		Msg string `json:"msg"`
	}
	if json.Unmarshal(raw, &list) == nil && len(list) > 0 {
		return list[0].Msg
	}
	return ""
}

// IsUnauthorized reports whether err is an authentication failure.
func IsUnauthorized(err error) bool { return errors.Is(err, errs.ErrUnauthorized) }
