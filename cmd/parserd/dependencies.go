package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/FACorreiaa/invoice-parser/internal/domain/parse/handler"
	"github.com/FACorreiaa/invoice-parser/internal/domain/parse/repository"
	"github.com/FACorreiaa/invoice-parser/internal/domain/parse/service"
	"github.com/FACorreiaa/invoice-parser/pkg/config"
	"github.com/FACorreiaa/invoice-parser/pkg/cron"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config   *config.Config
	Logger   *slog.Logger
	Pool     *pgxpool.Pool // nil when persistence is disabled
	Registry *prometheus.Registry

	// Repositories
	DocumentRepo repository.DocumentRepository

	// Services
	ParseService *service.Service
	Scheduler    *cron.Scheduler

	// Handlers
	ParseHandler *handler.Handler
}

// InitDependencies initializes all application dependencies
func InitDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config:   cfg,
		Logger:   logger,
		Registry: prometheus.NewRegistry(),
	}

	if err := deps.initDatabase(ctx); err != nil {
		return nil, fmt.Errorf("failed to init database: %w", err)
	}

	if err := deps.initServices(); err != nil {
		return nil, fmt.Errorf("failed to init services: %w", err)
	}

	deps.initHandlers()

	logger.Info("all dependencies initialized successfully")

	return deps, nil
}

// initDatabase connects the pool and runs migrations. Persistence is
// optional: with no POSTGRES_HOST set the parser runs stateless.
func (d *Dependencies) initDatabase(ctx context.Context) error {
	if !d.Config.HasDatabase() {
		d.Logger.Info("persistence disabled, parse results will not be stored")
		return nil
	}

	pool, err := repository.NewPool(ctx, d.Config.Database)
	if err != nil {
		return err
	}
	d.Pool = pool

	if err := repository.RunMigrations(d.Config.Database); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.DocumentRepo = repository.NewPostgresDocumentRepository(pool)

	d.Logger.Info("database connected and migrations completed successfully")
	return nil
}

// initServices initializes all service layer dependencies
func (d *Dependencies) initServices() error {
	metrics := service.NewMetrics(d.Registry)
	d.ParseService = service.NewService(d.Config.Parser, d.DocumentRepo, metrics, d.Logger)

	if d.Config.Spool.Enabled {
		d.Scheduler = cron.NewScheduler(d.ParseService, d.Config.Spool, d.Logger)
	}

	d.Logger.Info("services initialized")
	return nil
}

// initHandlers initializes all handler dependencies
func (d *Dependencies) initHandlers() {
	d.ParseHandler = handler.NewHandler(d.ParseService, d.DocumentRepo, d.Logger)

	d.Logger.Info("handlers initialized")
}

// Cleanup closes all resources
func (d *Dependencies) Cleanup() {
	if d.Scheduler != nil {
		<-d.Scheduler.Stop().Done()
	}
	if d.Pool != nil {
		d.Pool.Close()
	}
	d.Logger.Info("cleanup completed")
}
