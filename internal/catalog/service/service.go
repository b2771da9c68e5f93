// Package service is the synchronization engine: one generic implementation,
// instantiated once per catalog variant, that fans a write out to the record
// store and then to the search index.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"hrcatalog/internal/catalog/metrics"
	"hrcatalog/internal/catalog/models"
	"hrcatalog/internal/sentinel"
	dErrors "hrcatalog/pkg/domain-errors"
	"hrcatalog/pkg/platform/circuit"
	psync "hrcatalog/pkg/platform/sync"
	"hrcatalog/pkg/requestcontext"
)

// Store is the record store adapter, the system of record.
// Error Contract:
// - FindByID returns sentinel.ErrNotFound when no record exists
// - Save of an id with no row returns sentinel.ErrNotFound
// - FindAll returns sentinel.ErrInvalidInput for an unknown sort field
// - Delete of a missing id returns nil
type Store[E models.Entity] interface {
	Save(ctx context.Context, e E) (E, error)
	FindByID(ctx context.Context, id int64) (E, error)
	FindAll(ctx context.Context, p models.Pageable) (models.Page[E], error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// Index is the search index adapter, a derived projection of Store.
// Error Contract:
// - Get returns sentinel.ErrNotFound when no document exists
// - Search returns sentinel.ErrInvalidInput for a malformed query
// - Delete of a missing id returns nil
type Index[E models.Entity] interface {
	Upsert(ctx context.Context, e E) error
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
	Get(ctx context.Context, id int64) (E, error)
	Search(ctx context.Context, query string, p models.Pageable) (models.Page[E], error)
	Clear(ctx context.Context) error
}

// RepairQueue records index writes that did not happen so they can be
// replayed against the store's current copy later.
type RepairQueue interface {
	Enqueue(ctx context.Context, kind string, recordID int64, op models.IndexOp, cause string) error
}

// Publisher emits change notifications. Failures never fail the mutation.
type Publisher interface {
	Publish(ctx context.Context, event models.ChangeEvent) error
}

var errBreakerOpen = errors.New("index circuit open")

type Option func(*options)

type options struct {
	repairs RepairQueue
	events  Publisher
	breaker *circuit.Breaker
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

// WithRepairQueue enables reconciliation of failed index writes.
func WithRepairQueue(q RepairQueue) Option {
	return func(o *options) {
		o.repairs = q
	}
}

// WithPublisher sets the change event publisher.
func WithPublisher(p Publisher) Option {
	return func(o *options) {
		o.events = p
	}
}

// WithBreaker guards inline index writes. While the breaker is open writes
// skip the index and go straight to the repair queue.
func WithBreaker(b *circuit.Breaker) Option {
	return func(o *options) {
		o.breaker = b
	}
}

// WithMetrics sets the metrics instance for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithTracer overrides the global OpenTelemetry tracer.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) {
		o.tracer = t
	}
}

// Service sequences writes across the store and the index for one variant.
type Service[E models.Entity] struct {
	kind   models.Kind[E]
	store  Store[E]
	index  Index[E]
	logger *slog.Logger
	locks  *psync.RecordLocks
	options
}

func New[E models.Entity](kind models.Kind[E], store Store[E], index Index[E], logger *slog.Logger, opts ...Option) *Service[E] {
	svc := &Service[E]{
		kind:   kind,
		store:  store,
		index:  index,
		logger: logger,
		locks:  psync.NewRecordLocks(),
	}
	for _, opt := range opts {
		opt(&svc.options)
	}
	if svc.tracer == nil {
		svc.tracer = otel.Tracer(tracerName)
	}
	return svc
}

// Kind returns the variant this engine serves.
func (s *Service[E]) Kind() models.Meta {
	return s.kind.Meta
}

// Save writes e to the store (insert when it has no id, in-place update
// otherwise) and then upserts the stored result into the index. An index
// failure never fails the call; it is logged and queued for repair.
func (s *Service[E]) Save(ctx context.Context, e E) (_ E, err error) {
	var zero E
	id, hadID := e.GetID()
	ctx, span := s.startSpan(ctx, "catalog.save", idAttr(id))
	defer func() { endSpan(span, err) }()
	if hadID {
		// Writes to one id reach the index in store order.
		s.locks.Lock(id)
		defer s.locks.Unlock(id)
	}

	stored, err := s.store.Save(ctx, e)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return zero, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("%s %d not found", s.kind.Name, id))
		}
		s.logger.ErrorContext(ctx, "store write failed",
			"kind", s.kind.Name,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return zero, storeFailure(err, "failed to save "+s.kind.Name)
	}

	// The store write is the outcome; what follows must not be cut short by
	// the caller going away.
	ctx = context.WithoutCancel(ctx)
	id, _ = stored.GetID()
	span.SetAttributes(idAttr(id))
	s.syncIndex(ctx, id, models.IndexOpUpsert, func(ctx context.Context) error {
		return s.index.Upsert(ctx, stored)
	})

	action := models.ActionCreated
	if hadID {
		action = models.ActionUpdated
	}
	s.metrics.IncStoreWrite(s.kind.Name, string(action))
	s.publish(ctx, action, id)
	return stored, nil
}

// FindAll lists a page from the store. The index is not consulted.
func (s *Service[E]) FindAll(ctx context.Context, p models.Pageable) (models.Page[E], error) {
	page, err := s.store.FindAll(ctx, p)
	if err != nil {
		if errors.Is(err, sentinel.ErrInvalidInput) {
			return page, dErrors.New(dErrors.CodeValidation, "invalid sort parameter")
		}
		return page, storeFailure(err, "failed to list "+s.kind.Plural)
	}
	return page, nil
}

// FindOne reads one record from the store. A missing id is reported as
// found == false, not as an error.
func (s *Service[E]) FindOne(ctx context.Context, id int64) (E, bool, error) {
	record, err := s.store.FindByID(ctx, id)
	if err != nil {
		var zero E
		if errors.Is(err, sentinel.ErrNotFound) {
			return zero, false, nil
		}
		return zero, false, storeFailure(err, "failed to read "+s.kind.Name)
	}
	return record, true, nil
}

// Delete removes the row and then the index document. Deleting an id that
// does not exist succeeds.
func (s *Service[E]) Delete(ctx context.Context, id int64) (err error) {
	ctx, span := s.startSpan(ctx, "catalog.delete", idAttr(id))
	defer func() { endSpan(span, err) }()

	s.locks.Lock(id)
	defer s.locks.Unlock(id)

	if err := s.store.Delete(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "store delete failed",
			"kind", s.kind.Name,
			"id", id,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return storeFailure(err, "failed to delete "+s.kind.Name)
	}

	ctx = context.WithoutCancel(ctx)
	s.syncIndex(ctx, id, models.IndexOpDelete, func(ctx context.Context) error {
		return s.index.Delete(ctx, id)
	})

	s.metrics.IncStoreWrite(s.kind.Name, string(models.ActionDeleted))
	s.publish(ctx, models.ActionDeleted, id)
	return nil
}

// Search passes query to the index unmodified. Results are the index's copy
// and may lag the store.
func (s *Service[E]) Search(ctx context.Context, query string, p models.Pageable) (_ models.Page[E], err error) {
	ctx, span := s.startSpan(ctx, "catalog.search")
	defer func() { endSpan(span, err) }()

	start := time.Now()
	page, err := s.index.Search(ctx, query, p)
	s.metrics.ObserveSearch(s.kind.Name, time.Since(start))
	if err != nil {
		if errors.Is(err, sentinel.ErrInvalidInput) {
			return page, dErrors.Wrap(err, dErrors.CodeInvalidQuery, "invalid search query")
		}
		s.logger.ErrorContext(ctx, "search failed",
			"kind", s.kind.Name,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return page, dErrors.Wrap(err, dErrors.CodeUnavailable, "search index unavailable")
	}
	return page, nil
}

// storeFailure maps a record store error to a domain error. A request that
// ran out of time is reported as a timeout rather than an internal fault.
func storeFailure(err error, msg string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return dErrors.Wrap(err, dErrors.CodeTimeout, msg)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}

func (s *Service[E]) syncIndex(ctx context.Context, id int64, op models.IndexOp, write func(context.Context) error) {
	span := trace.SpanFromContext(ctx)
	if s.breaker != nil && !s.breaker.Allow() {
		span.AddEvent("index.skipped")
		s.enqueueRepair(ctx, id, op, "breaker_open", errBreakerOpen)
		return
	}

	err := write(ctx)
	s.recordIndexOutcome(err)
	if err == nil {
		return
	}

	s.logger.WarnContext(ctx, "index write failed after store write; index is stale",
		"kind", s.kind.Name,
		"id", id,
		"op", op,
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	)
	s.metrics.IncIndexFailure(s.kind.Name, string(op))
	span.AddEvent("index.failed")
	s.enqueueRepair(ctx, id, op, "write_failed", err)
}

func (s *Service[E]) recordIndexOutcome(err error) {
	if s.breaker == nil {
		return
	}
	if err == nil {
		if _, change := s.breaker.RecordSuccess(); change.Closed {
			s.logger.Info("index circuit closed", "kind", s.kind.Name)
		}
		return
	}
	if _, change := s.breaker.RecordFailure(); change.Opened {
		s.logger.Warn("index circuit opened; index writes are queued for repair", "kind", s.kind.Name)
	}
}

func (s *Service[E]) enqueueRepair(ctx context.Context, id int64, op models.IndexOp, reason string, cause error) {
	if s.repairs == nil {
		return
	}
	if err := s.repairs.Enqueue(ctx, s.kind.Name, id, op, cause.Error()); err != nil {
		s.logger.ErrorContext(ctx, "failed to enqueue index repair",
			"kind", s.kind.Name,
			"id", id,
			"op", op,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return
	}
	s.metrics.IncRepairEnqueued(s.kind.Name, reason)
}

func (s *Service[E]) publish(ctx context.Context, action models.Action, id int64) {
	if s.events == nil {
		return
	}
	event := models.ChangeEvent{
		Kind:       s.kind.Name,
		Action:     action,
		ID:         id,
		Actor:      requestcontext.Actor(ctx),
		OccurredAt: requestcontext.Now(ctx),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish change event",
			"kind", s.kind.Name,
			"id", id,
			"action", action,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}
