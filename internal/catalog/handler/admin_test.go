package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hrcatalog/internal/catalog/handler/mocks"
	"hrcatalog/internal/catalog/models"
	"hrcatalog/internal/repair"
	dErrors "hrcatalog/pkg/domain-errors"
)

func newAdminRouter(t *testing.T) (chi.Router, *mocks.MockMaintainer, *mocks.MockMaintainer, *mocks.MockRepairStats) {
	t.Helper()
	ctrl := gomock.NewController(t)
	banks := mocks.NewMockMaintainer(ctrl)
	titles := mocks.NewMockMaintainer(ctrl)
	repairs := mocks.NewMockRepairStats(ctrl)
	banks.EXPECT().Kind().Return(models.Banks.Meta).AnyTimes()
	titles.EXPECT().Kind().Return(models.JobTitles.Meta).AnyTimes()

	r := chi.NewRouter()
	NewAdmin(repairs, slog.New(slog.NewTextHandler(io.Discard, nil)), titles, banks).Register(r)
	return r, banks, titles, repairs
}

func serve(r http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestAdminReindex(t *testing.T) {
	t.Run("single kind", func(t *testing.T) {
		r, banks, _, _ := newAdminRouter(t)
		banks.EXPECT().Reindex(gomock.Any()).Return(3, nil)

		w := serve(r, http.MethodPost, "/admin/reindex/banks")

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"kind":"bank","records":3}`, w.Body.String())
	})

	t.Run("unknown kind", func(t *testing.T) {
		r, _, _, _ := newAdminRouter(t)

		w := serve(r, http.MethodPost, "/admin/reindex/payslips")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("all kinds in route order", func(t *testing.T) {
		r, banks, titles, _ := newAdminRouter(t)
		gomock.InOrder(
			banks.EXPECT().Reindex(gomock.Any()).Return(2, nil),
			titles.EXPECT().Reindex(gomock.Any()).Return(5, nil),
		)

		w := serve(r, http.MethodPost, "/admin/reindex")

		require.Equal(t, http.StatusOK, w.Code)
		var got []ReindexResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, []ReindexResponse{{Kind: "bank", Records: 2}, {Kind: "job-title", Records: 5}}, got)
	})

	t.Run("all kinds stops at first failure", func(t *testing.T) {
		r, banks, _, _ := newAdminRouter(t)
		banks.EXPECT().Reindex(gomock.Any()).
			Return(0, dErrors.Wrap(errors.New("database is locked"), dErrors.CodeUnavailable, "failed to clear index"))

		w := serve(r, http.MethodPost, "/admin/reindex")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestAdminRepairStats(t *testing.T) {
	t.Run("reports depth", func(t *testing.T) {
		r, _, _, repairs := newAdminRouter(t)
		repairs.EXPECT().Stats(gomock.Any()).Return(repair.Stats{Pending: 4, Parked: 1}, nil)

		w := serve(r, http.MethodGet, "/admin/index-repairs")

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"pending":4,"parked":1}`, w.Body.String())
	})

	t.Run("queue read failure", func(t *testing.T) {
		r, _, _, repairs := newAdminRouter(t)
		repairs.EXPECT().Stats(gomock.Any()).Return(repair.Stats{}, errors.New("connection refused"))

		w := serve(r, http.MethodGet, "/admin/index-repairs")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestAdminPresence(t *testing.T) {
	r, banks, _, _ := newAdminRouter(t)
	banks.EXPECT().Presence(gomock.Any(), int64(9)).Return(models.PresenceInStoreOnly, nil)

	w := serve(r, http.MethodGet, "/admin/presence/banks/9")

	require.Equal(t, http.StatusOK, w.Code)
	var got PresenceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, PresenceResponse{Kind: "bank", ID: 9, Presence: models.PresenceInStoreOnly}, got)

	w = serve(r, http.MethodGet, "/admin/presence/banks/nine")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
