package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"hrcatalog/internal/catalog/handler"
	"hrcatalog/internal/platform/config"
	"hrcatalog/internal/platform/health"
	repairmetrics "hrcatalog/internal/repair/metrics"
	"hrcatalog/internal/repair/worker"
	"hrcatalog/pkg/platform/middleware/admin"
	"hrcatalog/pkg/platform/middleware/metadata"
	request "hrcatalog/pkg/platform/middleware/request"
	"hrcatalog/pkg/platform/middleware/requesttime"
	"hrcatalog/pkg/platform/validation"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(state *cliState) *cobra.Command {
	var (
		addr    string
		migrate bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the index repair worker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := state.cfg
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			return serve(cmd.Context(), state.withConfig(cfg), migrate)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "HTTP listen address")
	cmd.Flags().BoolVar(&migrate, "migrate", true, "Apply pending migrations before serving")
	return cmd
}

func (s *cliState) withConfig(cfg config.Server) *cliState {
	return &cliState{cfg: cfg, logger: s.logger}
}

func serve(parent context.Context, state *cliState, migrate bool) error {
	cfg, log := state.cfg, state.logger
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("initializing hrcatalog",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"in_memory", cfg.InMemory(),
		"kafka", cfg.KafkaBrokers != "",
	)

	a, err := openApp(ctx, cfg, log, appOptions{migrate: migrate})
	if err != nil {
		return err
	}
	defer a.Close()

	repairs := worker.New(a.repairs, append(a.catalog.workerTargets(),
		worker.WithBatchSize(cfg.Repair.BatchSize),
		worker.WithPollInterval(cfg.Repair.PollInterval),
		worker.WithMaxAttempts(cfg.Repair.MaxAttempts),
		worker.WithRetention(cfg.Repair.Retention),
		worker.WithMetrics(repairmetrics.New(a.registry)),
		worker.WithLogger(log),
	)...)
	repairs.Start()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newRouter(a),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			log.Error("server error", "error", err)
			_ = repairs.Stop(context.Background())
			return err
		}
	case <-ctx.Done():
	}

	log.Info("shutting down server gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err = errors.Join(srv.Shutdown(shutdownCtx), repairs.Stop(shutdownCtx))
	if err != nil {
		log.Error("graceful shutdown failed", "error", err)
		return err
	}
	log.Info("server stopped")
	return nil
}

// newRouter wires the public API, operator endpoints and probes.
func newRouter(a *app) http.Handler {
	cfg, log := a.cfg, a.logger
	r := chi.NewRouter()

	r.Use(request.Recovery(log))
	r.Use(request.RequestID)
	r.Use(metadata.NewMiddleware(&metadata.Config{TrustedProxies: cfg.TrustedProxies}).Handler)
	r.Use(requesttime.Middleware)
	r.Use(request.Logger(log))
	r.Use(request.BodyLimit(validation.MaxBodySize))
	r.Use(request.ContentTypeJSON)
	r.Use(request.LatencyMiddleware(request.NewMetrics(a.registry)))
	if cfg.RequestTimeout > 0 {
		r.Use(request.Timeout(cfg.RequestTimeout))
	}

	checks := health.New(cfg.Environment)
	checks.RegisterOptional("index", a.catalog.indexHealth)
	if a.pool != nil {
		checks.RegisterCheck("database", a.pool.Health)
	}
	if a.producer != nil {
		checks.RegisterOptional("kafka", a.producer.Health)
	}
	checks.Register(r)
	r.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))

	a.catalog.Register(r)

	if !cfg.AdminEnabled() {
		log.Warn("ADMIN_TOKEN not set; operator endpoints are disabled")
		return r
	}
	guard := admin.RequireAdminToken(cfg.AdminToken, log)
	if cfg.AdminTokenHash != "" {
		guard = admin.RequireAdminTokenHash(cfg.AdminTokenHash, log)
	}
	r.Group(func(r chi.Router) {
		r.Use(guard)
		handler.NewAdmin(a.repairs, log, a.catalog.maintainers()...).Register(r)
	})
	return r
}
