// Command api runs the attendance ledger HTTP server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/enlystreetwear-png/AR-karate/config"
	"github.com/enlystreetwear-png/AR-karate/internal/application/command"
	"github.com/enlystreetwear-png/AR-karate/internal/application/query"
	"github.com/enlystreetwear-png/AR-karate/internal/domain/attendance"
	"github.com/enlystreetwear-png/AR-karate/internal/domain/student"
	"github.com/enlystreetwear-png/AR-karate/internal/infrastructure/persistence/postgres"
	"github.com/enlystreetwear-png/AR-karate/internal/infrastructure/persistence/redis"
	httpiface "github.com/enlystreetwear-png/AR-karate/internal/interface/http"
	"github.com/enlystreetwear-png/AR-karate/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// ─────────────────────────────────────────────────────────────────────────
	// Configuration & logging
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Options{
		Output:    os.Stdout,
		Level:     logger.ParseLevel(cfg.Observability.LogLevel),
		AddCaller: cfg.Observability.AddCaller,
	}).With(logger.Component("api"))

	log.Info(ctx, "starting",
		logger.String("app", cfg.App.Name),
		logger.String("version", cfg.App.Version),
		logger.String("environment", string(cfg.App.Environment)),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// PostgreSQL
	// ─────────────────────────────────────────────────────────────────────────
	pg, err := postgres.NewConnection(ctx, postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		Database:        cfg.Database.Name,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        int32(cfg.Database.MaxConns),
		MinConns:        int32(cfg.Database.MinConns),
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		ConnectTimeout:  cfg.Database.ConnectTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pg.Close()

	if err := postgres.NewMigrator(pg).Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	log.Info(ctx, "database ready")

	// ─────────────────────────────────────────────────────────────────────────
	// Redis (optional)
	// ─────────────────────────────────────────────────────────────────────────
	var (
		cache        *redis.Cache
		studentCache student.Cache
		sheetCache   attendance.SheetCache
	)
	if !cfg.Redis.Disabled {
		cache, err = redis.NewCache(redis.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			// The cache is an optimization, not a dependency.
			log.Warn(ctx, "redis unavailable, continuing without cache", logger.Err(err))
		} else {
			defer cache.Close()
			studentCache = redis.NewStudentCache(cache)
			sheetCache = redis.NewSheetCache(cache)
			log.Info(ctx, "redis ready")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// Repositories, commands, queries
	// ─────────────────────────────────────────────────────────────────────────
	studentRepo := postgres.NewStudentRepository(pg)
	ledger := postgres.NewAttendanceRepository(pg)
	accounts := postgres.NewAccountRepository(pg)

	deps := httpiface.Dependencies{
		LoginHandler:    command.NewLoginHandler(accounts, log),
		MarkHandler:     command.NewMarkAttendanceHandler(studentRepo, ledger, sheetCache, log),
		UnmarkHandler:   command.NewUnmarkAttendanceHandler(ledger, sheetCache, log),
		StudentsHandler: command.NewManageStudentsHandler(studentRepo, studentCache, log),

		SheetHandler:        query.NewGetAttendanceSheetHandler(ledger, sheetCache, log),
		ReportHandler:       query.NewGetAttendanceReportHandler(ledger, log),
		MonthlyStatsHandler: query.NewGetMonthlyStatsHandler(ledger, log),
		GetStudentHandler:   query.NewGetStudentHandler(studentRepo, studentCache, log),
		ListStudentsHandler: query.NewListStudentsHandler(studentRepo, log),

		Logger:        log,
		HealthChecker: &storeHealth{pg: pg},
	}

	// ─────────────────────────────────────────────────────────────────────────
	// HTTP server & graceful shutdown
	// ─────────────────────────────────────────────────────────────────────────
	server := httpiface.NewServer(httpiface.Config{
		Host:               cfg.HTTP.Host,
		Port:               cfg.HTTP.Port,
		ReadTimeout:        cfg.HTTP.ReadTimeout,
		WriteTimeout:       cfg.HTTP.WriteTimeout,
		IdleTimeout:        cfg.HTTP.IdleTimeout,
		MaxHeaderBytes:     1 << 20,
		EnableCORS:         cfg.HTTP.EnableCORS,
		AllowedOrigins:     cfg.HTTP.AllowedOrigins,
		RateLimitPerMinute: cfg.HTTP.RateLimitPerMinute,
	}, deps)

	errCh := server.StartAsync()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
	case sig := <-sigCh:
		log.Info(ctx, "signal received, shutting down", logger.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info(ctx, "stopped")
	return nil
}

// storeHealth reports readiness of the backing stores. Redis being down does
// not fail readiness; the service runs without it.
type storeHealth struct {
	pg *postgres.Connection
}

func (h *storeHealth) CheckHealth(ctx context.Context) error {
	if err := h.pg.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	return nil
}
