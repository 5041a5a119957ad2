package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type logRecord struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

type captureHandler struct {
	mu      sync.Mutex
	records []logRecord
}

func (h *captureHandler) Enabled(_ context.Context, _ slog.Level) bool { return true }

//nolint:varnamelen // r is conventional for slog.Record.
func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	rec := logRecord{
		Level:   r.Level,
		Message: r.Message,
		Attrs:   make(map[string]any),
	}

	r.Attrs(func(a slog.Attr) bool {
		rec.Attrs[a.Key] = a.Value.Any()

		return true
	})

	h.mu.Lock()
	h.records = append(h.records, rec)
	h.mu.Unlock()

	return nil
}

func (h *captureHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }
func (h *captureHandler) WithGroup(_ string) slog.Handler      { return h }

func (h *captureHandler) all() []logRecord {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]logRecord(nil), h.records...)
}

func TestChain_Order(t *testing.T) {
	t.Parallel()

	var order []string

	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), tag("outer"), tag("inner"))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	type testCase struct {
		name     string
		incoming string
		reused   bool
	}

	testCases := []testCase{
		{name: "generated when missing", incoming: "", reused: false},
		{name: "client id reused", incoming: "req-123", reused: true},
		{name: "oversized id replaced", incoming: strings.Repeat("x", maxRequestIDLength+1), reused: false},
		{name: "non printable id replaced", incoming: "bad\x01id", reused: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var seen string

			handler := RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				seen = GetRequestID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/config", nil)
			if tc.incoming != "" {
				req.Header.Set(RequestIDHeader, tc.incoming)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

			if tc.reused {
				assert.Equal(t, tc.incoming, seen)
			} else {
				_, err := uuid.Parse(seen)
				require.NoError(t, err)
			}
		})
	}
}

func TestGetRequestID_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, GetRequestID(context.Background()))
}

func TestLogging_Levels(t *testing.T) {
	t.Parallel()

	type testCase struct {
		name   string
		status int
		level  slog.Level
	}

	testCases := []testCase{
		{name: "implicit ok", status: 0, level: slog.LevelInfo},
		{name: "no content", status: http.StatusNoContent, level: slog.LevelInfo},
		{name: "not found", status: http.StatusNotFound, level: slog.LevelWarn},
		{name: "server error", status: http.StatusInternalServerError, level: slog.LevelError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			capture := &captureHandler{}

			handler := Chain(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				if tc.status != 0 {
					w.WriteHeader(tc.status)
				}

				_, _ = io.WriteString(w, "body")
			}), RequestID(), Logging(slog.New(capture)))

			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, "/config/a.b", nil))

			records := capture.all()
			require.Len(t, records, 1)

			expectedStatus := tc.status
			if expectedStatus == 0 {
				expectedStatus = http.StatusOK
			}

			assert.Equal(t, tc.level, records[0].Level)
			assert.Equal(t, "http request", records[0].Message)
			assert.Equal(t, http.MethodPut, records[0].Attrs["method"])
			assert.Equal(t, "/config/a.b", records[0].Attrs["path"])
			assert.Equal(t, int64(expectedStatus), records[0].Attrs["status"])
			assert.NotEmpty(t, records[0].Attrs["request_id"])
			assert.Contains(t, records[0].Attrs, "duration")
		})
	}
}

func TestRecovery(t *testing.T) {
	t.Parallel()

	capture := &captureHandler{}

	handler := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), RequestID(), Recovery(slog.New(capture)))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/config", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	records := capture.all()
	require.Len(t, records, 1)
	assert.Equal(t, slog.LevelError, records[0].Level)
	assert.Equal(t, "panic recovered", records[0].Message)
	assert.Equal(t, "boom", records[0].Attrs["panic"])
	assert.Contains(t, records[0].Attrs["stack"], "goroutine")
	assert.Equal(t, false, records[0].Attrs["response_already_written"])
	assert.NotEmpty(t, records[0].Attrs["request_id"])
}

func TestRecovery_AfterPartialWrite(t *testing.T) {
	t.Parallel()

	capture := &captureHandler{}

	handler := Recovery(slog.New(capture))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		panic("late")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)

	records := capture.all()
	require.Len(t, records, 1)
	assert.Equal(t, true, records[0].Attrs["response_already_written"])
}

func TestRecovery_ErrAbortHandlerRePanics(t *testing.T) {
	t.Parallel()

	handler := Recovery(slog.New(&captureHandler{}))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithError(t, http.ErrAbortHandler.Error(), func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestMaxBodySize(t *testing.T) {
	t.Parallel()

	type testCase struct {
		name    string
		limit   int64
		body    string
		tooLong bool
	}

	testCases := []testCase{
		{name: "within limit", limit: 8, body: `{"a":1}`, tooLong: false},
		{name: "over limit", limit: 4, body: `{"a":1}`, tooLong: true},
		{name: "default limit", limit: 0, body: `{"a":1}`, tooLong: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var readErr error

			handler := MaxBodySize(tc.limit)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				_, readErr = io.ReadAll(r.Body)
			}))

			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, "/", strings.NewReader(tc.body)))

			if tc.tooLong {
				var maxErr *http.MaxBytesError

				require.True(t, errors.As(readErr, &maxErr))
			} else {
				require.NoError(t, readErr)
			}
		})
	}
}
