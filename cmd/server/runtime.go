package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"hrcatalog/internal/catalog/events"
	"hrcatalog/internal/catalog/handler"
	"hrcatalog/internal/catalog/index"
	"hrcatalog/internal/catalog/metrics"
	"hrcatalog/internal/catalog/service"
	"hrcatalog/internal/platform/config"
	"hrcatalog/internal/platform/database"
	"hrcatalog/internal/platform/kafka/producer"
	"hrcatalog/internal/repair"
	repairmemory "hrcatalog/internal/repair/store/memory"
	repairpostgres "hrcatalog/internal/repair/store/postgres"
	"hrcatalog/pkg/requestcontext"
)

// app owns the process-wide resources the commands share.
type app struct {
	cfg      config.Server
	logger   *slog.Logger
	registry *prometheus.Registry

	pool     *database.Pool
	indexDB  *sql.DB
	producer *producer.Producer
	repairs  repair.Store
	catalog  *catalog
}

type appOptions struct {
	// migrate applies pending migrations before the catalog is mounted.
	migrate bool
}

func openApp(ctx context.Context, cfg config.Server, logger *slog.Logger, opts appOptions) (a *app, err error) {
	a = &app{
		cfg:      cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
	}
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	var db *sql.DB
	if cfg.InMemory() {
		logger.Warn("DATABASE_URL not set; records are kept in memory and lost on exit")
		a.repairs = repairmemory.New()
	} else {
		a.pool, err = database.Open(ctx, database.DefaultConfig(cfg.DatabaseURL), logger)
		if err != nil {
			return nil, err
		}
		if err = a.pool.RegisterMetrics(a.registry); err != nil {
			return nil, err
		}
		db = a.pool.DB()
		if opts.migrate {
			if err = database.Migrate(db); err != nil {
				return nil, err
			}
		}
		a.repairs = repairpostgres.New(db)
	}

	a.indexDB, err = index.Open(cfg.IndexPath)
	if err != nil {
		return nil, err
	}

	var publisher service.Publisher = events.Noop{}
	if cfg.KafkaBrokers != "" {
		a.producer, err = producer.New(producer.DefaultConfig(cfg.KafkaBrokers), logger,
			producer.WithMetrics(producer.NewMetrics(a.registry)),
		)
		if err != nil {
			return nil, err
		}
		publisher = events.NewKafkaPublisher(a.producer, cfg.KafkaTopic, cfg.AlertPrefix)
	}

	a.catalog, err = newCatalog(ctx, catalogDeps{
		db:      db,
		indexDB: a.indexDB,
		repairs: a.repairs,
		events:  publisher,
		metrics: metrics.New(a.registry),
		alerts:  handler.NewAlerts(cfg.AlertPrefix),
		logger:  logger,
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// maintenanceContext attributes operator commands run outside HTTP.
func maintenanceContext(ctx context.Context, actor string) context.Context {
	if actor == "" {
		actor = requestcontext.SystemActor
	}
	return requestcontext.WithActor(ctx, actor)
}

// Close releases every resource in reverse order of acquisition.
func (a *app) Close() {
	var errs []error
	if a.producer != nil {
		errs = append(errs, a.producer.Close())
	}
	if a.indexDB != nil {
		errs = append(errs, a.indexDB.Close())
	}
	if a.pool != nil {
		errs = append(errs, a.pool.Close())
	}
	if err := errors.Join(errs...); err != nil {
		a.logger.Error("failed to release resources", "error", err)
	}
}
