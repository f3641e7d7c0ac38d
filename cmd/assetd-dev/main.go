// Command assetd-dev serves the asset backend REST contract from memory for local development.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/and161185/assetdesk/internal/limiter"
	"github.com/and161185/assetdesk/internal/obs"
	"github.com/and161185/assetdesk/internal/repository/memory"
	"github.com/and161185/assetdesk/internal/server/httpapi"
	"github.com/and161185/assetdesk/internal/service"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main parses flags, seeds the in-memory store and serves HTTP until SIGINT/SIGTERM.
func main() {
	addr := flag.String("addr", ":8000", "listen address")
	jwtKey := flag.String("jwt-key", "", "HS256 signing key (required)")
	accessTTL := flag.Duration("access-ttl", 30*time.Minute, "access token TTL")
	adminEmail := flag.String("admin-email", "admin@example.com", "seeded admin account")
	adminPassword := flag.String("admin-password", "", "seeded admin password (required)")
	demo := flag.Bool("demo", false, "seed demo users, assets and maintenance jobs")
	logLevel := flag.String("log-level", "info", "log level")
	dev := flag.Bool("dev", false, "console logging")
	flag.Parse()

	logger, err := obs.NewLogger(*logLevel, *dev)
	if err != nil {
		logger = zap.NewExample()
		logger.Fatal("logger", zap.Error(err))
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", *addr),
	)

	if *jwtKey == "" {
		logger.Fatal("missing jwt signing key (--jwt-key)")
	}
	if *adminPassword == "" {
		logger.Fatal("missing admin password (--admin-password)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db := memory.New()
	lim := limiter.NewMemory(15*time.Minute, 5, 15*time.Minute)

	authSvc := service.NewAuthService(db, []byte(*jwtKey), *accessTTL, lim)
	invSvc := service.NewInventoryService(db, db, db, db)

	if err := seedAdmin(ctx, authSvc, *adminEmail, *adminPassword); err != nil {
		logger.Fatal("seed admin", zap.Error(err))
	}
	if *demo {
		if err := seedDemo(ctx, authSvc, invSvc); err != nil {
			logger.Fatal("seed demo", zap.Error(err))
		}
		logger.Info("demo data seeded")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv := &http.Server{
		Addr: *addr,
		Handler: httpapi.NewRouter(httpapi.Deps{
			Auth:      authSvc,
			Inventory: invSvc,
			Log:       logger,
			Metrics:   obs.NewMetrics(reg, "assetd"),
			Gatherer:  reg,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", *addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown", zap.Error(err))
			_ = srv.Close()
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}

	logger.Info("shutdown complete")
}
