// Package handler is the HTTP boundary of the catalog: one generic handler
// per record variant, mounted under /api/<plural>.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrcatalog/internal/catalog/models"
	"hrcatalog/internal/repair"
	dErrors "hrcatalog/pkg/domain-errors"
	"hrcatalog/pkg/platform/httputil"
	"hrcatalog/pkg/platform/validation"
	"hrcatalog/pkg/requestcontext"
)

// Service defines the synchronization operations the boundary calls.
// Returns domain objects and domain errors.
type Service[E models.Entity] interface {
	Save(ctx context.Context, e E) (E, error)
	FindAll(ctx context.Context, p models.Pageable) (models.Page[E], error)
	FindOne(ctx context.Context, id int64) (E, bool, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, query string, p models.Pageable) (models.Page[E], error)
}

// Maintainer is the per-variant reconciliation surface of the service.
type Maintainer interface {
	Kind() models.Meta
	Reindex(ctx context.Context) (int, error)
	Presence(ctx context.Context, id int64) (models.Presence, error)
}

// RepairStats reports the depth of the index repair queue.
type RepairStats interface {
	Stats(ctx context.Context) (repair.Stats, error)
}

type Handler[E models.Entity] struct {
	kind    models.Kind[E]
	service Service[E]
	alerts  Alerts
	logger  *slog.Logger
}

func New[E models.Entity](kind models.Kind[E], service Service[E], alerts Alerts, logger *slog.Logger) *Handler[E] {
	return &Handler[E]{kind: kind, service: service, alerts: alerts, logger: logger}
}

func (h *Handler[E]) Register(r chi.Router) {
	base := h.basePath()
	r.Post(base, h.HandleCreate)
	r.Put(base, h.HandleUpdate)
	r.Get(base, h.HandleList)
	r.Get(base+"/{id}", h.HandleGet)
	r.Delete(base+"/{id}", h.HandleDelete)
	r.Get(h.searchPath(), h.HandleSearch)
}

func (h *Handler[E]) basePath() string   { return "/api/" + h.kind.Plural }
func (h *Handler[E]) searchPath() string { return "/api/_search/" + h.kind.Plural }

// HandleCreate stores a new record. A payload that already carries an id is
// rejected.
func (h *Handler[E]) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	record := h.kind.New()
	if !httputil.Decode(w, r, h.logger, record) {
		return
	}
	if _, ok := record.GetID(); ok {
		h.fail(ctx, w, dErrors.New(dErrors.CodeIDExists, "a new "+h.kind.Name+" cannot already have an id"))
		return
	}
	h.create(ctx, w, record)
}

// HandleUpdate replaces a record in place. Without an id it behaves like
// HandleCreate.
func (h *Handler[E]) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	record := h.kind.New()
	if !httputil.Decode(w, r, h.logger, record) {
		return
	}
	id, ok := record.GetID()
	if !ok {
		h.create(ctx, w, record)
		return
	}
	if err := httputil.Prepare(record); err != nil {
		h.fail(ctx, w, err)
		return
	}

	stored, err := h.service.Save(ctx, record)
	if err != nil {
		h.fail(ctx, w, err)
		return
	}

	h.alerts.Changed(w, h.kind.Name, models.ActionUpdated, id)
	httputil.WriteJSON(w, http.StatusOK, stored)
}

func (h *Handler[E]) create(ctx context.Context, w http.ResponseWriter, record E) {
	if err := httputil.Prepare(record); err != nil {
		h.fail(ctx, w, err)
		return
	}

	stored, err := h.service.Save(ctx, record)
	if err != nil {
		h.fail(ctx, w, err)
		return
	}

	id, _ := stored.GetID()
	w.Header().Set("Location", h.basePath()+"/"+strconv.FormatInt(id, 10))
	h.alerts.Changed(w, h.kind.Name, models.ActionCreated, id)
	httputil.WriteJSON(w, http.StatusCreated, stored)
}

// HandleList returns one page of the store with pagination headers.
func (h *Handler[E]) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	p, err := parsePageable(q, h.kind.Sortable)
	if err != nil {
		h.fail(ctx, w, err)
		return
	}

	page, err := h.service.FindAll(ctx, p)
	if err != nil {
		h.fail(ctx, w, err)
		return
	}

	writePage(w, h.basePath(), page, listParams(q))
}

// HandleGet returns one record or 404.
func (h *Handler[E]) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := parseID(r)
	if err != nil {
		h.fail(ctx, w, err)
		return
	}

	record, found, err := h.service.FindOne(ctx, id)
	if err != nil {
		h.fail(ctx, w, err)
		return
	}
	if !found {
		h.fail(ctx, w, dErrors.New(dErrors.CodeNotFound, h.kind.Name+" "+strconv.FormatInt(id, 10)+" not found"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, record)
}

// HandleDelete acknowledges the deletion whether or not the id existed.
func (h *Handler[E]) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := parseID(r)
	if err != nil {
		h.fail(ctx, w, err)
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		h.fail(ctx, w, err)
		return
	}

	h.alerts.Changed(w, h.kind.Name, models.ActionDeleted, id)
	w.WriteHeader(http.StatusOK)
}

// HandleSearch runs the query string against the index. Sort parameters are
// accepted for link compatibility but results are ordered by relevance.
func (h *Handler[E]) HandleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	query := strings.TrimSpace(q.Get("query"))
	if query == "" {
		h.fail(ctx, w, dErrors.New(dErrors.CodeBadRequest, "query is required"))
		return
	}
	if err := validation.CheckStringLength("query", query, validation.MaxQueryLength); err != nil {
		h.fail(ctx, w, err)
		return
	}
	p, err := parsePageable(q, nil)
	if err != nil {
		h.fail(ctx, w, err)
		return
	}

	page, err := h.service.Search(ctx, query, p)
	if err != nil {
		h.fail(ctx, w, err)
		return
	}

	writePage(w, h.searchPath(), page, url.Values{"query": {query}})
}

func (h *Handler[E]) fail(ctx context.Context, w http.ResponseWriter, err error) {
	status := httputil.DomainCodeToHTTPStatus(dErrors.CodeOf(err))
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, "catalog request failed",
		"kind", h.kind.Name,
		"status", status,
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	)
	h.alerts.Failed(w, h.kind.Name, err)
	httputil.WriteError(w, err)
}

func writePage[E any](w http.ResponseWriter, base string, page models.Page[E], params url.Values) {
	httputil.WritePaginationHeaders(w, base, httputil.PageInfo{
		Number: page.Number,
		Size:   page.Size,
		Total:  page.Total,
		Pages:  page.TotalPages(),
	}, params)
	httputil.WriteJSON(w, http.StatusOK, page.Content)
}
