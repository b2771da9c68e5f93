package handler

import (
	"log/slog"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hrcatalog/internal/catalog/models"
	"hrcatalog/internal/repair"
	dErrors "hrcatalog/pkg/domain-errors"
	"hrcatalog/pkg/platform/httputil"
	"hrcatalog/pkg/requestcontext"
)

// Admin serves the operator endpoints. It is mounted behind the admin token
// middleware.
type Admin struct {
	targets map[string]Maintainer
	repairs RepairStats
	logger  *slog.Logger
}

func NewAdmin(repairs RepairStats, logger *slog.Logger, targets ...Maintainer) *Admin {
	byPlural := make(map[string]Maintainer, len(targets))
	for _, t := range targets {
		byPlural[t.Kind().Plural] = t
	}
	return &Admin{targets: byPlural, repairs: repairs, logger: logger}
}

func (h *Admin) Register(r chi.Router) {
	r.Post("/admin/reindex", h.HandleReindexAll)
	r.Post("/admin/reindex/{plural}", h.HandleReindex)
	r.Get("/admin/index-repairs", h.HandleRepairStats)
	r.Get("/admin/presence/{plural}/{id}", h.HandlePresence)
}

type ReindexResponse struct {
	Kind    string `json:"kind"`
	Records int    `json:"records"`
}

type PresenceResponse struct {
	Kind     string          `json:"kind"`
	ID       int64           `json:"id"`
	Presence models.Presence `json:"presence"`
}

// HandleReindex rebuilds one variant's index from the store.
func (h *Admin) HandleReindex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	target, ok := h.target(w, r)
	if !ok {
		return
	}

	n, err := target.Reindex(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "reindex failed",
			"kind", target.Kind().Name,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "reindex requested",
		"kind", target.Kind().Name,
		"records", n,
		"actor", requestcontext.Actor(ctx),
	)
	httputil.WriteJSON(w, http.StatusOK, ReindexResponse{Kind: target.Kind().Name, Records: n})
}

// HandleReindexAll rebuilds every variant, ordered by route, and stops at the
// first failure.
func (h *Admin) HandleReindexAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	plurals := make([]string, 0, len(h.targets))
	for p := range h.targets {
		plurals = append(plurals, p)
	}
	sort.Strings(plurals)

	out := make([]ReindexResponse, 0, len(plurals))
	for _, p := range plurals {
		target := h.targets[p]
		n, err := target.Reindex(ctx)
		if err != nil {
			h.logger.ErrorContext(ctx, "reindex failed",
				"kind", target.Kind().Name,
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
			httputil.WriteError(w, err)
			return
		}
		out = append(out, ReindexResponse{Kind: target.Kind().Name, Records: n})
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

// HandleRepairStats returns the pending and parked repair counts.
func (h *Admin) HandleRepairStats(w http.ResponseWriter, r *http.Request) {
	if h.repairs == nil {
		httputil.WriteJSON(w, http.StatusOK, repair.Stats{})
		return
	}
	stats, err := h.repairs.Stats(r.Context())
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read repair queue"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}

// HandlePresence reports whether a record lives in the store, the index, or
// both.
func (h *Admin) HandlePresence(w http.ResponseWriter, r *http.Request) {
	target, ok := h.target(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid id"))
		return
	}

	presence, err := target.Presence(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, PresenceResponse{Kind: target.Kind().Name, ID: id, Presence: presence})
}

func (h *Admin) target(w http.ResponseWriter, r *http.Request) (Maintainer, bool) {
	plural := chi.URLParam(r, "plural")
	t, ok := h.targets[plural]
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "unknown record kind: "+plural))
		return nil, false
	}
	return t, true
}
