// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/olegiv/opinion-survey/internal/auth"
	"github.com/olegiv/opinion-survey/internal/cache"
	"github.com/olegiv/opinion-survey/internal/config"
	"github.com/olegiv/opinion-survey/internal/geoip"
	"github.com/olegiv/opinion-survey/internal/handler"
	"github.com/olegiv/opinion-survey/internal/logging"
	"github.com/olegiv/opinion-survey/internal/middleware"
	"github.com/olegiv/opinion-survey/internal/model"
	"github.com/olegiv/opinion-survey/internal/scheduler"
	"github.com/olegiv/opinion-survey/internal/service"
	"github.com/olegiv/opinion-survey/internal/session"
	"github.com/olegiv/opinion-survey/internal/store"
	"github.com/olegiv/opinion-survey/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

// Submissions allowed per client IP.
const (
	submitRPS   = 0.2
	submitBurst = 5
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Myanmar public opinion survey server\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SURVEY_JWT_SECRET       Admin session signing key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SURVEY_SESSION_SECRET   Visitor session and CSRF key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SURVEY_DB_PATH          SQLite database path (default: ./data/survey.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SURVEY_SERVER_PORT      Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SURVEY_ENV              Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SURVEY_REDIS_URL        Redis URL for the session revocation list (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SURVEY_GEOIP_DB_PATH    GeoLite2 country database (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SURVEY_DO_SEED          Create the admin account on startup (default: false)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("survey %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	versionInfo := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})
	logger := slog.New(textHandler)
	slog.SetDefault(logger)

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Warnings and errors also go to the event log table.
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)

	ctx := context.Background()
	if cfg.DoSeed {
		if err := seedAdmin(ctx, db, cfg); err != nil {
			return err
		}
	}

	keysCfg := cache.DefaultConfig()
	keysCfg.Prefix = cfg.CachePrefix
	if cfg.UseRedis() {
		keysCfg.Backend = cache.BackendRedis
		keysCfg.RedisURL = cfg.RedisURL
	}
	keys, err := cache.New(ctx, keysCfg)
	if err != nil {
		return fmt.Errorf("initializing revocation store: %w", err)
	}
	defer func() { _ = keys.KeySet.Close() }()
	if keys.IsFallback {
		slog.Warn("redis unavailable, revocation list kept in memory",
			"redis_url", cache.SanitizeRedisURL(cfg.RedisURL), "error", keys.RedisErr)
	} else {
		slog.Info("revocation store initialized", "backend", keys.Backend)
	}
	revocations := cache.NewRevocationList(keys.KeySet, keys.Backend)

	queries := store.New(db)
	authenticator := auth.NewAuthenticator(queries, revocations, []byte(cfg.JWTSecret), logger)

	var countries service.CountryResolver
	var geo *geoip.Lookup
	if cfg.GeoIPEnabled() {
		geo, err = geoip.NewLookup(cfg.GeoIPDBPath)
		if err != nil {
			slog.Warn("geoip database unavailable, countries will not be recorded", "path", cfg.GeoIPDBPath, "error", err)
		} else {
			defer func() { _ = geo.Close() }()
			countries = geo
			slog.Info("geoip lookup enabled", "path", cfg.GeoIPDBPath)
		}
	}

	responses := service.NewResponseService(db, countries)
	events := service.NewEventService(db)
	stats := service.NewStatsService(db)

	sched := scheduler.New(logger)
	if err := addJobs(sched, cfg, events, stats, geo); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()
	if cfg.EventRetentionDays > 0 {
		if err := sched.Registry().TriggerNow(scheduler.JobEventRetention); err != nil {
			slog.Warn("initial event retention run failed", "error", err)
		}
	}

	sessionManager := session.New(db, cfg.IsDevelopment())

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	defer loginProtection.Stop()

	secureCookie := !cfg.IsDevelopment()
	router := handler.Router{
		Survey:          handler.NewSurveyHandler(responses, stats, events, logger),
		Wizard:          handler.NewWizardHandler(session.NewWizardStore(sessionManager), responses, logger),
		Auth:            handler.NewAuthHandler(authenticator, loginProtection, events, logger, secureCookie),
		Health:          handler.NewHealthHandler(db, revocations, versionInfo),
		Sessions:        authenticator,
		WizardSession:   sessionManager.LoadAndSave,
		LoginProtection: loginProtection,
		SubmitLimiter:   middleware.NewRateLimiter(submitRPS, submitBurst),
		Security:        middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment()),
		CSRF:            middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment(), cfg.TrustedOrigins),
		TrustProxy:      cfg.TrustProxy,
	}

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // Exports can be large
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", versionInfo.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

func seedAdmin(ctx context.Context, db *sql.DB, cfg *config.Config) error {
	if cfg.AdminPassword == "" {
		slog.Warn("SURVEY_DO_SEED set without SURVEY_ADMIN_PASSWORD, skipping admin seed")
		return nil
	}

	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}
	created, err := store.SeedAdmin(ctx, db, store.SeedAdminParams{
		Email:        cfg.AdminEmail,
		Name:         model.DefaultAdminName,
		PasswordHash: hash,
	})
	if err != nil {
		return fmt.Errorf("seeding admin: %w", err)
	}
	if created {
		slog.Info("admin user created", "email", cfg.AdminEmail)
	}
	return nil
}

func addJobs(s *scheduler.Scheduler, cfg *config.Config, events *service.EventService, stats *service.StatsService, geo *geoip.Lookup) error {
	jobs := []scheduler.Job{scheduler.DailySummaryJob(stats, events)}
	if cfg.EventRetentionDays > 0 {
		retention := time.Duration(cfg.EventRetentionDays) * 24 * time.Hour
		jobs = append(jobs, scheduler.EventRetentionJob(events, retention))
	}
	if geo != nil {
		jobs = append(jobs, scheduler.GeoIPReloadJob(geo))
	}

	for _, job := range jobs {
		if err := s.Add(job, ""); err != nil {
			return fmt.Errorf("scheduling %s: %w", job.Name, err)
		}
	}
	return nil
}
