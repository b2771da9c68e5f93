package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"hrcatalog/internal/repair"
	"hrcatalog/internal/repair/metrics"
)

// Resyncer converges the index entry of one record to the store's copy.
// service.Service implements it for every variant.
type Resyncer interface {
	Resync(ctx context.Context, id int64) error
}

// Worker polls the repair queue and replays missed index writes.
type Worker struct {
	store        repair.Store
	targets      map[string]Resyncer
	batchSize    int
	pollInterval time.Duration
	maxAttempts  int
	concurrency  int
	retention    time.Duration
	metrics      *metrics.Metrics
	logger       *slog.Logger
	now          func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures the Worker.
type Option func(*Worker)

// WithTarget registers the resyncer for a record kind.
func WithTarget(kind string, r Resyncer) Option {
	return func(w *Worker) {
		w.targets[kind] = r
	}
}

// WithBatchSize sets the maximum number of entries to fetch per poll.
func WithBatchSize(size int) Option {
	return func(w *Worker) {
		if size > 0 {
			w.batchSize = size
		}
	}
}

// WithPollInterval sets the interval between polls.
func WithPollInterval(interval time.Duration) Option {
	return func(w *Worker) {
		if interval > 0 {
			w.pollInterval = interval
		}
	}
}

// WithMaxAttempts sets how many failed replays park an entry.
func WithMaxAttempts(n int) Option {
	return func(w *Worker) {
		if n > 0 {
			w.maxAttempts = n
		}
	}
}

// WithConcurrency bounds how many records are resynced at once.
func WithConcurrency(n int) Option {
	return func(w *Worker) {
		if n > 0 {
			w.concurrency = n
		}
	}
}

// WithRetention sets how long replayed entries are kept. Zero keeps them
// forever; parked entries are never removed.
func WithRetention(d time.Duration) Option {
	return func(w *Worker) {
		if d >= 0 {
			w.retention = d
		}
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(w *Worker) {
		w.metrics = m
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		w.logger = logger
	}
}

// New creates a new repair worker.
func New(store repair.Store, opts ...Option) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	w := &Worker{
		store:        store,
		targets:      make(map[string]Resyncer),
		batchSize:    100,
		pollInterval: 5 * time.Second,
		maxAttempts:  10,
		concurrency:  4,
		logger:       slog.New(slog.DiscardHandler),
		now:          time.Now,
		ctx:          ctx,
		cancel:       cancel,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Start begins the polling loop in a background goroutine.
func (w *Worker) Start() {
	w.wg.Add(1)
	go w.run()
}

func (w *Worker) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			w.drain()
			return
		case <-ticker.C:
			if _, err := w.poll(w.ctx); err != nil {
				w.logger.Error("failed to fetch index repairs", "error", err)
			}
			w.sweep(w.ctx)
		}
	}
}

// sweep drops replayed entries older than the retention window.
func (w *Worker) sweep(ctx context.Context) {
	if w.retention == 0 {
		return
	}
	n, err := w.store.DeleteDoneBefore(ctx, w.now().Add(-w.retention))
	if err != nil {
		w.logger.Warn("failed to sweep replayed index repairs", "error", err)
		return
	}
	if n > 0 {
		w.logger.Debug("swept replayed index repairs", "count", n)
	}
}

// poll replays one batch and returns how many entries it settled or failed.
func (w *Worker) poll(ctx context.Context) (int, error) {
	start := time.Now()

	entries, err := w.store.FetchPending(ctx, w.batchSize)
	if err != nil {
		if w.metrics != nil {
			w.metrics.IncFetchErrors()
		}
		return 0, err
	}
	if len(entries) == 0 {
		w.updateDepth(ctx)
		return 0, nil
	}
	if w.metrics != nil {
		w.metrics.ObserveBatchSize(len(entries))
	}

	// Repeated failures for the same record collapse into one resync.
	var order []string
	groups := make(map[string][]*repair.Entry)
	for _, e := range entries {
		key := e.Key()
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], e)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)
	for _, key := range order {
		group := groups[key]
		g.Go(func() error {
			w.apply(gctx, group)
			return nil
		})
	}
	_ = g.Wait()

	w.updateDepth(ctx)
	if w.metrics != nil {
		w.metrics.ObservePollDuration(time.Since(start).Seconds())
	}
	return len(entries), nil
}

func (w *Worker) apply(ctx context.Context, group []*repair.Entry) {
	head := group[0]
	target, ok := w.targets[head.Kind]
	var err error
	if !ok {
		err = fmt.Errorf("no resync target for kind %q", head.Kind)
	} else {
		err = target.Resync(ctx, head.RecordID)
	}

	now := w.now().UTC()
	if err == nil {
		for _, e := range group {
			if markErr := w.store.MarkDone(ctx, e.ID, now); markErr != nil {
				w.logger.Error("failed to mark repair done", "id", e.ID, "error", markErr)
				continue
			}
		}
		if w.metrics != nil {
			w.metrics.IncApplied(head.Kind)
		}
		w.logger.Debug("index repaired", "kind", head.Kind, "record_id", head.RecordID, "entries", len(group))
		return
	}

	if w.metrics != nil {
		w.metrics.IncFailure(head.Kind)
	}
	for _, e := range group {
		park := !ok || e.Attempts+1 >= w.maxAttempts
		if markErr := w.store.MarkFailed(ctx, e.ID, err.Error(), park, now); markErr != nil {
			w.logger.Error("failed to record repair failure", "id", e.ID, "error", markErr)
			continue
		}
		if park {
			w.logger.Warn("index repair parked",
				"id", e.ID,
				"kind", e.Kind,
				"record_id", e.RecordID,
				"attempts", e.Attempts+1,
				"error", err,
			)
			if w.metrics != nil {
				w.metrics.IncParked(e.Kind)
			}
		}
	}
}

// drain gives pending entries one last pass during shutdown.
func (w *Worker) drain() {
	w.logger.Info("draining repair worker")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := w.poll(ctx); err != nil {
		w.logger.Error("failed to fetch repairs during drain", "error", err)
	}
}

// Stop gracefully stops the worker.
func (w *Worker) Stop(ctx context.Context) error {
	w.cancel()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Worker) updateDepth(ctx context.Context) {
	if w.metrics == nil {
		return
	}
	stats, err := w.store.Stats(ctx)
	if err != nil {
		w.logger.Warn("failed to count repairs", "error", err)
		return
	}
	w.metrics.SetDepth(stats.Pending, stats.Parked)
}
