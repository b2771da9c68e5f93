package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-chi/chi/v5"

	"hrcatalog/internal/catalog/handler"
	"hrcatalog/internal/catalog/index"
	"hrcatalog/internal/catalog/metrics"
	"hrcatalog/internal/catalog/models"
	"hrcatalog/internal/catalog/service"
	"hrcatalog/internal/catalog/store"
	"hrcatalog/internal/repair/worker"
	"hrcatalog/pkg/platform/circuit"
)

// engine is what the admin surface and the repair worker need from one
// variant's service.
type engine interface {
	handler.Maintainer
	worker.Resyncer
}

type catalogDeps struct {
	// db is the record store; nil selects the in-memory adapters.
	db      *sql.DB
	indexDB *sql.DB
	repairs service.RepairQueue
	events  service.Publisher
	metrics *metrics.Metrics
	alerts  handler.Alerts
	logger  *slog.Logger
}

// catalog holds every mounted variant.
type catalog struct {
	engines  []engine
	handlers []interface{ Register(chi.Router) }
	probes   []func(context.Context) error
}

func newCatalog(ctx context.Context, d catalogDeps) (*catalog, error) {
	c := &catalog{}
	err := errors.Join(
		mount(ctx, c, d, models.OrganizationUnits),
		mount(ctx, c, d, models.JobTitles),
		mount(ctx, c, d, models.EducationLevels),
		mount(ctx, c, d, models.Degrees),
		mount(ctx, c, d, models.Banks),
		mount(ctx, c, d, models.Allocations),
		mount(ctx, c, d, models.EmploymentBonds),
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// mount builds the store, index, breaker, service and handler of one variant.
func mount[E models.Entity](ctx context.Context, c *catalog, d catalogDeps, kind models.Kind[E]) error {
	var st service.Store[E] = store.NewInMemory(kind)
	if d.db != nil {
		st = store.NewPostgres(d.db, kind)
	}

	idx, err := index.NewFTS(ctx, d.indexDB, kind)
	if err != nil {
		return fmt.Errorf("open %s index: %w", kind.Name, err)
	}

	breaker := circuit.New(kind.Name+"-index",
		circuit.WithOnStateChange(func(_ string, to circuit.State) {
			d.metrics.SetBreakerOpen(kind.Name, to == circuit.StateOpen)
		}),
	)

	svc := service.New(kind, st, idx, d.logger,
		service.WithRepairQueue(d.repairs),
		service.WithPublisher(d.events),
		service.WithBreaker(breaker),
		service.WithMetrics(d.metrics),
	)

	c.engines = append(c.engines, svc)
	c.handlers = append(c.handlers, handler.New(kind, svc, d.alerts, d.logger))
	c.probes = append(c.probes, idx.Health)
	return nil
}

func (c *catalog) Register(r chi.Router) {
	for _, h := range c.handlers {
		h.Register(r)
	}
}

func (c *catalog) maintainers() []handler.Maintainer {
	out := make([]handler.Maintainer, len(c.engines))
	for i, e := range c.engines {
		out[i] = e
	}
	return out
}

// workerTargets registers every variant with the repair worker.
func (c *catalog) workerTargets() []worker.Option {
	opts := make([]worker.Option, 0, len(c.engines))
	for _, e := range c.engines {
		opts = append(opts, worker.WithTarget(e.Kind().Name, e))
	}
	return opts
}

// indexHealth reports the first variant whose index cannot be read.
func (c *catalog) indexHealth(ctx context.Context) error {
	for _, probe := range c.probes {
		if err := probe(ctx); err != nil {
			return err
		}
	}
	return nil
}

// engine looks a variant up by its plural route segment.
func (c *catalog) engine(plural string) (engine, bool) {
	for _, e := range c.engines {
		if e.Kind().Plural == plural {
			return e, true
		}
	}
	return nil, false
}
