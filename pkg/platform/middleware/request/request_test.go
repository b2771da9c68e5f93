package request

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrcatalog/pkg/requestcontext"
)

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = requestcontext.RequestID(r.Context())
	}))

	t.Run("mints a uuid when absent", func(t *testing.T) {
		w := serve(h, httptest.NewRequest(http.MethodGet, "/api/banks", nil))
		assert.Len(t, seen, 36)
		assert.Equal(t, seen, w.Header().Get(requestIDHeader))
	})

	t.Run("echoes a safe client id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/banks", nil)
		req.Header.Set(requestIDHeader, "gateway.trace_42")
		w := serve(h, req)
		assert.Equal(t, "gateway.trace_42", seen)
		assert.Equal(t, "gateway.trace_42", w.Header().Get(requestIDHeader))
	})

	for name, unsafe := range map[string]string{
		"space":     "two words",
		"newline":   "line\ninjection",
		"quote":     `quote"d`,
		"semicolon": "semi;colon",
		"too long":  strings.Repeat("r", MaxRequestIDLength+1),
	} {
		t.Run("replaces unsafe id with "+name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/banks", nil)
			req.Header.Set(requestIDHeader, unsafe)
			w := serve(h, req)
			assert.NotEqual(t, unsafe, w.Header().Get(requestIDHeader))
			assert.Len(t, w.Header().Get(requestIDHeader), 36)
		})
	}
}

func TestIsValidToken(t *testing.T) {
	assert.True(t, IsValidToken("hr.admin"))
	assert.True(t, IsValidToken(strings.Repeat("a", MaxRequestIDLength)))
	assert.False(t, IsValidToken(""))
	assert.False(t, IsValidToken("tab\there"))
	assert.False(t, IsValidToken("<script>"))
}

func TestRecovery(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	h := Recovery(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("nil map")
	}))

	w := serve(h, httptest.NewRequest(http.MethodPost, "/api/degrees", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "internal_error", body["error"])
	assert.Contains(t, logs.String(), "panic recovered")
	assert.Contains(t, logs.String(), "/api/degrees")
}

func TestLogger(t *testing.T) {
	newRouter := func(logs *bytes.Buffer, status int) http.Handler {
		logger := slog.New(slog.NewJSONHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
		r := chi.NewRouter()
		r.Use(Logger(logger))
		r.Get("/api/banks/{id}", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(status) })
		r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(status) })
		return r
	}

	t.Run("logs route pattern and level by status", func(t *testing.T) {
		var logs bytes.Buffer
		req := httptest.NewRequest(http.MethodGet, "/api/banks/7", nil)
		req.Header.Set("User-Agent", "curl/8.5.0")
		serve(newRouter(&logs, http.StatusNotFound), req)

		var line map[string]any
		require.NoError(t, json.Unmarshal(logs.Bytes(), &line))
		assert.Equal(t, "WARN", line["level"])
		assert.Equal(t, "/api/banks/{id}", line["route"])
		assert.Equal(t, float64(http.StatusNotFound), line["status"])
		assert.NotEmpty(t, line["client"])
	})

	t.Run("healthy probes are silent", func(t *testing.T) {
		var logs bytes.Buffer
		serve(newRouter(&logs, http.StatusOK), httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		assert.Empty(t, logs.String())
	})

	t.Run("failing probes are logged", func(t *testing.T) {
		var logs bytes.Buffer
		serve(newRouter(&logs, http.StatusServiceUnavailable), httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		assert.Contains(t, logs.String(), `"level":"ERROR"`)
	})
}

func TestContentTypeJSON(t *testing.T) {
	h := ContentTypeJSON(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		method string
		ct     string
		want   int
	}{
		{name: "form post", method: http.MethodPost, ct: "application/x-www-form-urlencoded", want: http.StatusUnsupportedMediaType},
		{name: "json with charset", method: http.MethodPut, ct: "application/json; charset=utf-8", want: http.StatusOK},
		{name: "no content type", method: http.MethodPost, want: http.StatusOK},
		{name: "reads are ignored", method: http.MethodGet, ct: "text/plain", want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/banks", strings.NewReader("{}"))
			if tt.ct != "" {
				req.Header.Set("Content-Type", tt.ct)
			}
			w := serve(h, req)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusUnsupportedMediaType {
				assert.Contains(t, w.Body.String(), "invalid_content_type")
			}
		})
	}
}

func TestTimeout(t *testing.T) {
	var deadline time.Time
	var ok bool
	h := Timeout(time.Second)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		deadline, ok = r.Context().Deadline()
	}))

	serve(h, httptest.NewRequest(http.MethodGet, "/api/banks", nil))
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Second), deadline, time.Second)

	var ctxErr error
	slow := Timeout(time.Millisecond)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		ctxErr = r.Context().Err()
	}))
	serve(slow, httptest.NewRequest(http.MethodGet, "/api/banks", nil))
	assert.ErrorIs(t, ctxErr, context.DeadlineExceeded)
}
