package httpapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/0xalexb/mtx-config/httpapi"
	"github.com/0xalexb/mtx-config/listener/middleware"
	"github.com/0xalexb/mtx-config/logging"
	"github.com/0xalexb/mtx-config/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAPI(t *testing.T) (*store.Store, http.Handler) {
	t.Helper()

	cfg := store.Config{CachePath: filepath.Join(t.TempDir(), "mtx.cache.config"), FlushDelay: time.Hour}

	st := store.New(cfg, map[string]any{
		"servers": []any{map[string]any{"host": "a.local"}},
		"export":  map[string]any{"apiUrl": "https://api"},
		"empty":   nil,
	}, logging.Discard())
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	return st, httpapi.NewHandler(st, logging.Discard())
}

func serve(handler http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) any {
	t.Helper()

	var body any

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func TestHandler_Get(t *testing.T) {
	t.Parallel()

	type testCase struct {
		name     string
		target   string
		status   int
		expected any
	}

	testCases := []testCase{
		{name: "bracket key", target: "/config/servers[0].host", status: http.StatusOK, expected: "a.local"},
		{name: "dotted index", target: "/config/servers.0", status: http.StatusOK, expected: map[string]any{"host": "a.local"}},
		{name: "null value", target: "/config/empty", status: http.StatusOK, expected: nil},
		{name: "missing key", target: "/config/servers[3]", status: http.StatusNotFound, expected: map[string]any{"error": "key not found: servers[3]"}},
		{name: "export", target: "/export/apiUrl", status: http.StatusOK, expected: "https://api"},
		{name: "missing export", target: "/export/nope", status: http.StatusNotFound, expected: map[string]any{"error": "export not found: nope"}},
		{name: "health", target: "/healthz", status: http.StatusOK, expected: map[string]any{"ready": true}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, handler := newAPI(t)

			rec := serve(handler, http.MethodGet, tc.target, "", "")

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, tc.expected, decode(t, rec))
		})
	}
}

func TestHandler_GetAll(t *testing.T) {
	t.Parallel()

	st, handler := newAPI(t)

	rec := serve(handler, http.MethodGet, "/config", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, any(st.All()), decode(t, rec))
}

func TestHandler_PutAndDelete(t *testing.T) {
	t.Parallel()

	st, handler := newAPI(t)

	rec := serve(handler, http.MethodPut, "/config/servers[1].host", "application/json", `"b.local"`)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "b.local", st.Get("servers[1].host", nil))

	rec = serve(handler, http.MethodPut, "/config/limits", "application/json", `{"rps": 10}`)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, float64(10), st.Get("limits.rps", nil))

	rec = serve(handler, http.MethodPut, "/config/limits", "application/json", `{broken`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(handler, http.MethodDelete, "/config/servers[0]", "", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "b.local", st.Get("servers[0].host", nil))

	rec = serve(handler, http.MethodDelete, "/config/servers[5]", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_PutBodyTooLarge(t *testing.T) {
	t.Parallel()

	_, handler := newAPI(t)

	limited := middleware.MaxBodySize(4)(handler)

	rec := serve(limited, http.MethodPut, "/config/a", "application/json", `"far too long"`)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestHandler_Patch(t *testing.T) {
	t.Parallel()

	type testCase struct {
		name        string
		contentType string
		body        string
		status      int
		check       func(t *testing.T, st *store.Store)
	}

	testCases := []testCase{
		{
			name:        "json patch",
			contentType: httpapi.ContentTypeJSONPatch,
			body:        `[{"op":"add","path":"/servers/-","value":{"host":"c.local"}}]`,
			status:      http.StatusOK,
			check: func(t *testing.T, st *store.Store) {
				t.Helper()
				assert.Equal(t, "c.local", st.Get("servers[1].host", nil))
			},
		},
		{
			name:        "merge patch with charset",
			contentType: httpapi.ContentTypeMergePatch + "; charset=utf-8",
			body:        `{"empty":null,"debug":true}`,
			status:      http.StatusOK,
			check: func(t *testing.T, st *store.Store) {
				t.Helper()
				assert.False(t, st.Has("empty"))
				assert.Equal(t, true, st.Get("debug", nil))
			},
		},
		{
			name:        "failing patch",
			contentType: httpapi.ContentTypeJSONPatch,
			body:        `[{"op":"test","path":"/export/apiUrl","value":"other"}]`,
			status:      http.StatusUnprocessableEntity,
			check: func(t *testing.T, st *store.Store) {
				t.Helper()
				assert.Equal(t, "https://api", st.Get("export.apiUrl", nil))
			},
		},
		{
			name:        "unsupported media type",
			contentType: "text/plain",
			body:        `{}`,
			status:      http.StatusUnsupportedMediaType,
			check:       func(*testing.T, *store.Store) {},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			st, handler := newAPI(t)

			rec := serve(handler, http.MethodPatch, "/config", tc.contentType, tc.body)

			assert.Equal(t, tc.status, rec.Code)
			tc.check(t, st)
		})
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	_, handler := newAPI(t)

	rec := serve(handler, http.MethodPost, "/config", "application/json", `{}`)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
