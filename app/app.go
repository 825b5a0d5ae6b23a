package app

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"negotiation-api/internal/config"
	"negotiation-api/internal/controller"
	"negotiation-api/internal/negotiation"
	"negotiation-api/internal/repo"
	"negotiation-api/internal/service"
	"negotiation-api/pkg/http_server"
	"negotiation-api/pkg/logger"
	"negotiation-api/pkg/postgres"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/labstack/echo"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type MigrateDirection string

const (
	MigrateUp   MigrateDirection = "up"
	MigrateDown MigrateDirection = "down"
)

func connect(cfg *config.Config) (*postgres.Postgres, error) {
	postgresDB, err := postgres.NewDB(cfg.Postgres.Conn,
		postgres.MaxOpenConns(cfg.Postgres.MaxOpenConns),
		postgres.ConnMaxLifetime(time.Hour),
	)
	if err != nil {
		return nil, err
	}

	if err = postgresDB.Database.Ping(); err != nil {
		_ = postgresDB.Close()
		return nil, errors.Wrap(err, "ping database")
	}

	return postgresDB, nil
}

func runMigrations(postgresDB *postgres.Postgres, cfg *config.Config, direction MigrateDirection, log *logrus.Entry) error {
	driver, err := pgmigrate.WithInstance(postgresDB.Database, &pgmigrate.Config{DatabaseName: cfg.Postgres.Database})
	if err != nil {
		return errors.Wrap(err, "migration driver")
	}

	migrations, err := migrate.NewWithDatabaseInstance("file://"+cfg.MigrationsDir, cfg.Postgres.Database, driver)
	if err != nil {
		return errors.Wrap(err, "load migrations")
	}

	switch direction {
	case MigrateDown:
		err = migrations.Down()
	default:
		err = migrations.Up()
	}
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("no change made by migration scripts")
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "migrate %s", direction)
	}

	version, dirty, _ := migrations.Version()
	log.WithFields(logrus.Fields{"version": version, "dirty": dirty}).Info("migrations applied")

	return nil
}

// Migrate applies or rolls back every migration in cfg.MigrationsDir.
func Migrate(cfg *config.Config, direction MigrateDirection) error {
	log := logger.New(cfg.LogLevel, cfg.LogFormat).WithField("component", "migrate")

	postgresDB, err := connect(cfg)
	if err != nil {
		return err
	}
	defer postgresDB.Close()

	return runMigrations(postgresDB, cfg, direction, log)
}

func Run(cfg *config.Config) error {
	root := logrus.NewEntry(logger.New(cfg.LogLevel, cfg.LogFormat))
	log := root.WithField("component", "app")

	log.Info("Connecting database...")
	postgresDB, err := connect(cfg)
	if err != nil {
		return err
	}
	defer postgresDB.Close()

	if cfg.MigrateOnStart {
		log.Info("Running migrations...")
		if err = runMigrations(postgresDB, cfg, MigrateUp, root.WithField("component", "migrate")); err != nil {
			return err
		}
	}

	repositories := repo.NewRepositories(postgresDB)
	machine := negotiation.NewMachine(
		negotiation.NewExpiryPolicy(cfg.Negotiation.ResponseWindow),
		negotiation.NewOfferValidator(cfg.Negotiation.MessageMaxLength),
	)
	services, err := service.NewServices(repositories, service.Dependencies{
		Machine:      machine,
		Clock:        time.Now,
		Logger:       root,
		Metrics:      service.DefaultMetrics(),
		GigCacheSize: cfg.Negotiation.GigCacheSize,
	})
	if err != nil {
		return err
	}

	handler := echo.New()
	handler.HideBanner = true

	log.Info("Setup routes...")
	controller.SetupRoutesHandlers(handler, services, root, cfg.MetricsPath)

	log.WithField("address", cfg.ServerAddress).Info("Starting server...")
	httpServer := http_server.New(handler, cfg.ServerAddress, http_server.ShutdownTimeout(cfg.ShutdownTimeout))

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		log.Info("Got signal: " + s.String())
	case err = <-httpServer.Notify():
		log.WithError(err).Error("server stopped")
	}

	log.Info("Shutting down...")
	if shutdownErr := httpServer.Shutdown(); shutdownErr != nil {
		return errors.Wrap(shutdownErr, "shutdown")
	}
	log.Info("Successful shutdown")

	return err
}
