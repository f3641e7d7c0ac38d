// Package config resolves client configuration: defaults, then an optional
// YAML file, then ASSETDESK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/and161185/assetdesk/internal/errs"
	"github.com/and161185/assetdesk/internal/model"
	"github.com/and161185/assetdesk/internal/tokenstore"
)

// Config is the resolved client configuration.
type Config struct {
	BaseURL              string
	TokenPath            string
	RequestTimeout       time.Duration
	RequestsPerSecond    float64
	NotificationDuration time.Duration
	ProfileRetries       int
	LogLevel             string

	LoginPath        string
	UnauthorizedPath string

	Menu       []model.MenuItem
	Dashboards []model.DashboardConfig
	Routes     []model.Route
}

// configFile mirrors the YAML schema. Durations are Go duration strings.
type configFile struct {
	API struct {
		BaseURL           string  `yaml:"base_url"`
		RequestTimeout    string  `yaml:"request_timeout"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
	} `yaml:"api"`
	Session struct {
		TokenPath        string `yaml:"token_path"`
		ProfileRetries   *int   `yaml:"profile_retries"`
		LoginPath        string `yaml:"login_path"`
		UnauthorizedPath string `yaml:"unauthorized_path"`
	} `yaml:"session"`
	Notifications struct {
		Duration string `yaml:"duration"`
	} `yaml:"notifications"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Menu       []model.MenuItem        `yaml:"menu"`
	Dashboards []model.DashboardConfig `yaml:"dashboards"`
	Routes     []model.Route           `yaml:"routes"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		BaseURL:              "http://localhost:8000",
		TokenPath:            tokenstore.DefaultPath(),
		RequestTimeout:       30 * time.Second,
		NotificationDuration: 5 * time.Second,
		ProfileRetries:       2,
		LogLevel:             "info",
		LoginPath:            "/login",
		UnauthorizedPath:     "/unauthorized",
		Menu:                 DefaultMenu(),
		Dashboards:           DefaultDashboards(),
		Routes:               DefaultRoutes(),
	}
}

// Load resolves configuration in priority order: defaults -> file -> env.
// A missing file at path is not an error; an empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := applyFile(&cfg, raw); err != nil {
				return Config{}, err
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyFile(cfg *Config, raw []byte) error {
	var f configFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if f.API.BaseURL != "" {
		cfg.BaseURL = f.API.BaseURL
	}
	if f.API.RequestTimeout != "" {
		d, err := time.ParseDuration(f.API.RequestTimeout)
		if err != nil {
			return fmt.Errorf("%w: api.request_timeout: %v", errs.ErrInvalidInput, err)
		}
		cfg.RequestTimeout = d
	}
	if f.API.RequestsPerSecond != 0 {
		cfg.RequestsPerSecond = f.API.RequestsPerSecond
	}
	if f.Session.TokenPath != "" {
		cfg.TokenPath = f.Session.TokenPath
	}
	if f.Session.ProfileRetries != nil {
		cfg.ProfileRetries = *f.Session.ProfileRetries
	}
	if f.Session.LoginPath != "" {
		cfg.LoginPath = f.Session.LoginPath
	}
	if f.Session.UnauthorizedPath != "" {
		cfg.UnauthorizedPath = f.Session.UnauthorizedPath
	}
	if f.Notifications.Duration != "" {
		d, err := time.ParseDuration(f.Notifications.Duration)
		if err != nil {
			return fmt.Errorf("%w: notifications.duration: %v", errs.ErrInvalidInput, err)
		}
		cfg.NotificationDuration = d
	}
	if f.Log.Level != "" {
		cfg.LogLevel = f.Log.Level
	}
	if f.Menu != nil {
		cfg.Menu = f.Menu
	}
	if f.Dashboards != nil {
		cfg.Dashboards = f.Dashboards
	}
	if f.Routes != nil {
		cfg.Routes = f.Routes
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv("ASSETDESK_BASE_URL")); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("ASSETDESK_TOKEN_PATH")); v != "" {
		cfg.TokenPath = v
	}
	if v := strings.TrimSpace(os.Getenv("ASSETDESK_REQUEST_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: ASSETDESK_REQUEST_TIMEOUT: %v", errs.ErrInvalidInput, err)
		}
		cfg.RequestTimeout = d
	}
	if v := strings.TrimSpace(os.Getenv("ASSETDESK_LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv("ASSETDESK_RATE_LIMIT")); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: ASSETDESK_RATE_LIMIT: %v", errs.ErrInvalidInput, err)
		}
		cfg.RequestsPerSecond = rps
	}
	return nil
}

// Validate checks the resolved configuration.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: base url %q must be an absolute http(s) URL", errs.ErrInvalidInput, c.BaseURL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request timeout must be positive", errs.ErrInvalidInput)
	}
	if c.NotificationDuration <= 0 {
		return fmt.Errorf("%w: notification duration must be positive", errs.ErrInvalidInput)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: requests per second must not be negative", errs.ErrInvalidInput)
	}
	if c.ProfileRetries < 0 {
		return fmt.Errorf("%w: profile retries must not be negative", errs.ErrInvalidInput)
	}
	for _, p := range []string{c.LoginPath, c.UnauthorizedPath} {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("%w: path %q must start with /", errs.ErrInvalidInput, p)
		}
	}
	for _, r := range c.Routes {
		if !strings.HasPrefix(r.Path, "/") {
			return fmt.Errorf("%w: route %q must start with /", errs.ErrInvalidInput, r.Path)
		}
	}
	return nil
}
