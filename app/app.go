package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pilot-bidding-api/internal/config"
	"pilot-bidding-api/internal/controller"
	"pilot-bidding-api/internal/notify"
	"pilot-bidding-api/internal/repo"
	"pilot-bidding-api/internal/repo/memdb"
	"pilot-bidding-api/internal/service"
	"pilot-bidding-api/pkg/http_server"
	"pilot-bidding-api/pkg/postgres"
	pkgredis "pilot-bidding-api/pkg/redis"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/labstack/echo"
)

const startupTimeout = 15 * time.Second

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == config.LogFormatText {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func runMigrations(postgresDB *postgres.Postgres, sourceUrl string, log *slog.Logger) error {
	driver, err := pgmigrate.WithInstance(postgresDB.Database, &pgmigrate.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}

	migrations, err := migrate.NewWithDatabaseInstance(sourceUrl, "postgres", driver)
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}

	if err := migrations.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("no change made by migration scripts")

			return nil
		}

		return fmt.Errorf("migrate up: %w", err)
	}

	return nil
}

// openRepositories returns the configured store and a function that
// releases it.
func openRepositories(ctx context.Context, cfg *config.Config, log *slog.Logger) (*repo.Repositories, func(), error) {
	if cfg.Storage == config.StorageMemory {
		db := memdb.New()
		if cfg.SeedFile != "" {
			if err := memdb.LoadSeedFile(db, cfg.SeedFile); err != nil {
				return nil, nil, err
			}
			log.Info("seed loaded", slog.String("file", cfg.SeedFile))
		}

		return repo.NewMemoryRepositories(db), func() {}, nil
	}

	log.Info("connecting database")
	postgresDB, err := postgres.NewDB(ctx, cfg.PostgresConn)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}

	log.Info("running migrations")
	if err := runMigrations(postgresDB, cfg.MigrationsPath, log); err != nil {
		postgresDB.Close()

		return nil, nil, err
	}

	return repo.NewRepositories(postgresDB), func() { postgresDB.Close() }, nil
}

// openEvents connects the bid event publisher. A missing REDIS_URL
// disables events.
func openEvents(ctx context.Context, cfg *config.Config, log *slog.Logger) (service.BidEvents, func(), error) {
	if cfg.RedisURL == "" {
		log.Info("REDIS_URL not set, bid events disabled")

		return nil, func() {}, nil
	}

	client, err := pkgredis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}

	return notify.NewRedisEvents(client), func() { client.Close() }, nil
}

func Run() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log := newLogger(cfg)

	if err := run(cfg, log); err != nil {
		log.Error("fatal", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	repositories, closeRepos, err := openRepositories(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeRepos()

	events, closeEvents, err := openEvents(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeEvents()

	services := service.NewServices(repositories, service.Options{
		Currency: cfg.Currency,
		Events:   events,
		Logger:   log,
	})
	handler := echo.New()
	handler.HideBanner = true

	log.Info("setup routes")
	controller.SetupRoutesHandlers(handler, services, log)

	log.Info("starting server", slog.String("address", cfg.ServerAddress), slog.String("storage", cfg.Storage))
	httpServer := http_server.New(handler, cfg.ServerAddress)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		log.Info("got signal", slog.String("signal", s.String()))
	case err := <-httpServer.Notify():
		return fmt.Errorf("http server: %w", err)
	}

	log.Info("shutting down")
	if err := httpServer.Shutdown(); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("successful shutdown")

	return nil
}
