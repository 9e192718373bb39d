package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/pkordes/dealer-inventory/internal/config"
	"github.com/pkordes/dealer-inventory/internal/domain"
	"github.com/pkordes/dealer-inventory/internal/repo"
	"github.com/pkordes/dealer-inventory/internal/service"
	"github.com/pkordes/dealer-inventory/migrations"
)

// Backfiller assigns slugs to vehicles that lack one.
type Backfiller interface {
	BackfillMissingSlugs(ctx context.Context) (domain.BackfillReport, error)
}

// Exporter produces the flat inventory export.
type Exporter interface {
	Export(ctx context.Context) ([]domain.ExportRow, error)
}

// Migrator is the subset of *goose.Provider the migrate commands use.
type Migrator interface {
	Up(ctx context.Context) ([]*goose.MigrationResult, error)
	Down(ctx context.Context) (*goose.MigrationResult, error)
	Status(ctx context.Context) ([]*goose.MigrationStatus, error)
}

// Deps are the database-backed collaborators of the commands. Close
// releases the connections behind them.
type Deps struct {
	Slugs    Backfiller
	Export   Exporter
	Migrator Migrator
	Close    func()
}

// Runner holds the dependencies for CLI commands and provides one method
// per command action.
type Runner struct {
	logger  *log.Logger
	output  io.Writer
	connect func(ctx context.Context) (*Deps, error)
}

// RunnerOpts configures a Runner. Connect defaults to opening the database
// named by DATABASE_URL.
type RunnerOpts struct {
	Logger  *log.Logger
	Output  io.Writer
	Connect func(ctx context.Context) (*Deps, error)
}

// NewRunner creates a Runner, filling unset options with defaults.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Connect == nil {
		opts.Connect = connectPostgres(opts.Logger)
	}
	return &Runner{logger: opts.Logger, output: opts.Output, connect: opts.Connect}
}

// connectPostgres loads the shared configuration and wires the services
// the commands need on a fresh pool.
func connectPostgres(logger *log.Logger) func(ctx context.Context) (*Deps, error) {
	return func(ctx context.Context) (*Deps, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
			logger.SetLevel(lvl)
		}

		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		}

		sqlDB := stdlib.OpenDBFromPool(pool)
		provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, migrations.FS)
		if err != nil {
			_ = sqlDB.Close()
			pool.Close()
			return nil, fmt.Errorf("create goose provider: %w", err)
		}

		vehicles := repo.NewVehicleRepo(pool)
		return &Deps{
			Slugs:    service.NewSlugService(vehicles, cfg.SlugMaxAttempts),
			Export:   service.NewExportService(vehicles),
			Migrator: provider,
			Close: func() {
				_ = sqlDB.Close()
				pool.Close()
			},
		}, nil
	}
}

// withDeps connects, runs fn and always releases the connections.
func (r *Runner) withDeps(ctx context.Context, fn func(*Deps) error) error {
	deps, err := r.connect(ctx)
	if err != nil {
		return err
	}
	if deps.Close != nil {
		defer deps.Close()
	}
	return fn(deps)
}
