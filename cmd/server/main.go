package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rowcache/rowcache/internal/api"
	"github.com/rowcache/rowcache/internal/app"
	"github.com/rowcache/rowcache/internal/app/maintenance"
	"github.com/rowcache/rowcache/internal/cache"
	"github.com/rowcache/rowcache/internal/database"
	"github.com/rowcache/rowcache/internal/monitoring"
	"github.com/rowcache/rowcache/internal/monitoring/checks"
	"github.com/rowcache/rowcache/pkg/logger"
)

const (
	shutdownTimeout   = 15 * time.Second
	finalSweepTimeout = 5 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	err := run(ctx, os.Args[1:])
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
	default:
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	configPath, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfigFrom(configPath)
	if err != nil {
		return err
	}

	if err := app.InitLogging(cfg.Server.LogLevel); err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	defer logger.Sync()

	log := logger.WithComponent("bootstrap")

	if os.Getenv("GIN_DEBUG") != "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	store, db, err := buildStore(cfg, log)
	if err != nil {
		return err
	}
	defer closeDB(db, log)

	// Registered after closeDatabase so the final sweep still has a live
	// connection to purge through.
	if cfg.Maintenance.Sweep.Enabled {
		stopSweeper, err := startSweeper(cfg, store, log)
		if err != nil {
			return err
		}
		defer stopSweeper()
	}

	router, err := api.NewRouter(store, buildProbes(store, db), cfg)
	if err != nil {
		return fmt.Errorf("build api router: %w", err)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	return serve(ctx, srv, log)
}

func parseFlags(args []string) (string, error) {
	fs := flag.NewFlagSet("rowcache-server", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)

	configPath := fs.String("config", "", "Path to configuration directory or file")
	if err := fs.Parse(args); err != nil {
		return "", err
	}

	return *configPath, nil
}

// serve runs srv until ctx is cancelled or the listener fails, then drains
// in-flight requests within shutdownTimeout.
func serve(ctx context.Context, srv *http.Server, log *zap.Logger) error {
	failed := make(chan error, 1)
	go func() {
		defer close(failed)
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			failed <- err
		}
	}()

	select {
	case err, ok := <-failed:
		if ok && err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(drainCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	if err, ok := <-failed; ok && err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	log.Info("server stopped cleanly")
	return nil
}

// loadConfigFrom resolves the -config flag into a search path for app.Load.
// A file path is widened to its parent directory.
func loadConfigFrom(path string) (*app.Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return app.Load()
	}

	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("config path %q does not exist", path)
	case err != nil:
		return nil, fmt.Errorf("stat config path: %w", err)
	case info.IsDir():
		return app.Load(path)
	default:
		return app.Load(filepath.Dir(path))
	}
}

func buildProbes(store cache.Store, db *gorm.DB) *monitoring.Registry {
	probes := monitoring.NewRegistry()
	if db != nil {
		probes.AddReadiness(checks.Database(db, 0))
	}
	probes.AddReadiness(checks.Store(store, 0))
	return probes
}

// startSweeper schedules periodic purges and returns a stop function that
// halts the schedule and runs one last sweep.
func startSweeper(cfg *app.Config, store cache.Store, log *zap.Logger) (func(), error) {
	purger, ok := store.(cache.Purger)
	if !ok {
		return nil, fmt.Errorf("cache backend %q does not support sweeping", cfg.Cache.Backend)
	}

	sweeper := maintenance.NewSweeper(
		map[string]cache.Purger{"cache": purger},
		maintenance.WithSchedule(cfg.Maintenance.Sweep.Schedule),
	)
	if err := sweeper.Start(); err != nil {
		return nil, fmt.Errorf("start maintenance sweep: %w", err)
	}
	log.Info("maintenance sweep scheduled", zap.String("schedule", cfg.Maintenance.Sweep.Schedule))

	stop := func() {
		<-sweeper.Stop().Done()
		sweepCtx, cancel := context.WithTimeout(context.Background(), finalSweepTimeout)
		defer cancel()
		if err := sweeper.RunOnce(sweepCtx); err != nil {
			log.Warn("final sweep failed", zap.Error(err))
		}
	}
	return stop, nil
}

// buildStore opens the configured backend. The returned gorm handle is nil for
// the memory backend.
func buildStore(cfg *app.Config, log *zap.Logger) (cache.Store, *gorm.DB, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Cache.Backend))
	switch backend {
	case "", "sql":
		return buildSQLStore(cfg, log)
	case "memory":
		log.Info("cache backend ready", zap.String("backend", "memory"))
		return cache.NewMemoryStore(cfg.Cache.MemoryStoreConfig()), nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported cache backend %q", cfg.Cache.Backend)
	}
}

func buildSQLStore(cfg *app.Config, log *zap.Logger) (cache.Store, *gorm.DB, error) {
	dbCfg := cfg.Database.ConnectionConfig()

	db, err := database.Open(dbCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	if err := database.EnsureSchema(db, cfg.Cache.Table); err != nil {
		return nil, nil, fmt.Errorf("provision cache table: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("unwrap sql connection: %w", err)
	}

	dialect, ok := cache.DialectFor(dbCfg.Driver)
	if !ok {
		return nil, nil, fmt.Errorf("no cache dialect for driver %q", dbCfg.Driver)
	}

	storeCfg := cfg.Cache.SQLStoreConfig()
	storeCfg.Client = sqlDB
	storeCfg.Dialect = dialect
	if storeCfg.Database == "" {
		storeCfg.Database = database.DefaultCacheDatabase(dbCfg)
	}

	store, err := cache.NewSQLStore(storeCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("initialise cache store: %w", err)
	}

	log.Info("cache backend ready",
		zap.String("backend", "sql"),
		zap.String("driver", dialect.Name()),
		zap.String("database", storeCfg.Database),
		zap.String("table", storeCfg.Table),
	)

	return store, db, nil
}

func closeDB(db *gorm.DB, log *zap.Logger) {
	if db == nil {
		return
	}

	sqlDB, err := db.DB()
	if err == nil {
		err = sqlDB.Close()
	}
	if err != nil {
		log.Warn("closing database", zap.Error(err))
	}
}
