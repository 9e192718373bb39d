// Package main is the entry point for the dealer inventory API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pkordes/dealer-inventory/internal/cache"
	"github.com/pkordes/dealer-inventory/internal/config"
	"github.com/pkordes/dealer-inventory/internal/domain"
	"github.com/pkordes/dealer-inventory/internal/handler"
	"github.com/pkordes/dealer-inventory/internal/logger"
	"github.com/pkordes/dealer-inventory/internal/repo"
	"github.com/pkordes/dealer-inventory/internal/service"
	"github.com/pkordes/dealer-inventory/internal/storage"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// --- Logger -----------------------------------------------------------
	log, flush := logger.New(os.Stdout, logger.Config{
		Level:             cfg.LogLevel,
		SentryDSN:         cfg.SentryDSN,
		SentryEnvironment: cfg.SentryEnvironment,
	})
	defer flush()
	slog.SetDefault(log)

	ctx := context.Background()

	// --- Database ---------------------------------------------------------
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(ctx); err != nil {
		return err
	}
	log.Info("database connection established")

	// --- Cache ------------------------------------------------------------
	var backend cache.Cache[domain.VehicleDetail] = cache.Nop[domain.VehicleDetail]{}
	if cfg.RedisURL != "" {
		client, err := cache.Open(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer client.Close()
		backend = cache.NewRedis[domain.VehicleDetail](client, "inventory", cfg.CacheTTL)
		log.Info("vehicle detail cache enabled", "ttl", cfg.CacheTTL.String())
	}
	// Vehicle and image writes evict through the same loader.
	details := cache.NewLoader(backend, cfg.CacheTTL)

	// --- Object storage ---------------------------------------------------
	// A nil ObjectStore disables image uploads; never pass a nil *storage.S3.
	var store service.ObjectStore
	if cfg.S3.Enabled() {
		s3, err := storage.New(cfg.S3)
		if err != nil {
			return err
		}
		store = s3
		log.Info("image storage enabled", "bucket", cfg.S3.Bucket)
	}

	// --- Services ---------------------------------------------------------
	vehicleRepo := repo.NewVehicleRepo(pool)
	imageRepo := repo.NewImageRepo(pool)
	slugs := service.NewSlugService(vehicleRepo, cfg.SlugMaxAttempts)

	srv := handler.NewServer(handler.Services{
		Vehicles:      service.NewVehicleService(vehicleRepo, imageRepo, slugs, details),
		Slugs:         slugs,
		Images:        service.NewImageService(vehicleRepo, imageRepo, store, details, cfg.MaxUploadBytes),
		Inquiries:     service.NewInquiryService(repo.NewInquiryRepo(pool), vehicleRepo, repo.NewNotificationRepo(pool)),
		Notifications: service.NewNotificationService(repo.NewNotificationRepo(pool)),
		Audit:         service.NewAuditService(repo.NewAuditRepo(pool)),
		Export:        service.NewExportService(vehicleRepo),
		DB:            pool,
	}, log)

	router := handler.NewRouter(srv, handler.RouterConfig{
		CORSOrigins:    cfg.CORSOrigins,
		MaxBodyBytes:   cfg.MaxBodyBytes,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Features:       cfg.Features,
	}, log)

	// --- HTTP Server ------------------------------------------------------
	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server starting", "addr", httpSrv.Addr,
			"audit_log", cfg.Features.AuditLog, "session_log", cfg.Features.SessionLog)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-stop:
	}
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}
