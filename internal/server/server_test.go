package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/layered/pkg/cache"
	graphio "github.com/matzehuels/layered/pkg/io"
	"github.com/matzehuels/layered/pkg/pipeline"
)

const chainGraph = `{
  "nodes": [{"id": "a", "width": 40, "height": 20}, {"id": "b", "width": 40, "height": 20}],
  "edges": [{"from": "a", "to": "b"}]
}`

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(fc, nil, logger)
	t.Cleanup(func() { runner.Close() })
	return New(runner, logger, opts...)
}

func post(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/layout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestLayout(t *testing.T) {
	s := newTestServer(t)

	rec := post(t, s, `{"graph": `+chainGraph+`, "options": {"rankdir": "LR", "marginx": 5}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))

	g, err := graphio.UnmarshalJSON(rec.Body.Bytes())
	require.NoError(t, err)
	a, _ := g.Node("a")
	b, _ := g.Node("b")
	assert.Greater(t, b.X, a.X, "LR advances along x")
	assert.InDelta(t, 25, a.X, 1e-9)
	e, ok := g.Edge("a", "b", "")
	require.True(t, ok)
	assert.NotEmpty(t, e.Points)

	rec = post(t, s, `{"graph": `+chainGraph+`, "options": {"rankdir": "lr", "marginx": 5}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
}

func TestLayout_Status(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"malformed json", `{"graph": `, http.StatusBadRequest, "INVALID_FORMAT"},
		{"unknown field", `{"graph": ` + chainGraph + `, "extra": 1}`, http.StatusBadRequest, "INVALID_FORMAT"},
		{"missing graph", `{"options": {}}`, http.StatusBadRequest, "INVALID_FORMAT"},
		{"unknown node", `{"graph": {"nodes": [{"id": "a"}], "edges": [{"from": "a", "to": "zz"}]}}`, http.StatusBadRequest, "INVALID_GRAPH"},
		{"bad option", `{"graph": ` + chainGraph + `, "options": {"ranker": "random"}}`, http.StatusUnprocessableEntity, "CONFIGURATION"},
		{"negative spacing", `{"graph": ` + chainGraph + `, "options": {"nodesep": -1}}`, http.StatusUnprocessableEntity, "CONFIGURATION"},
		{"edge to cluster", `{"graph": {"nodes": [{"id": "c"}, {"id": "x", "parent": "c"}, {"id": "y"}], "edges": [{"from": "y", "to": "c"}]}}`, http.StatusUnprocessableEntity, "CONFIGURATION"},
		{"layer conflict", `{"graph": {"nodes": [{"id": "a", "layer": 2}, {"id": "b", "layer": 1}], "edges": [{"from": "a", "to": "b"}]}}`, http.StatusUnprocessableEntity, "CONFIGURATION"},
	}
	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, s, tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())

			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Code)
			assert.NotEmpty(t, resp.Error)
			assert.Equal(t, rec.Header().Get(HeaderRequestID), resp.RequestID)
		})
	}
}

func TestLayout_BodyTooLarge(t *testing.T) {
	s := newTestServer(t, WithMaxBodyBytes(16))
	rec := post(t, s, `{"graph": `+chainGraph+`}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	_, err := uuid.Parse(rec.Header().Get(HeaderRequestID))
	assert.NoError(t, err, "a fresh id is generated")

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(HeaderRequestID, id)
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, id, rec.Header().Get(HeaderRequestID), "a valid id is kept")

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(HeaderRequestID, "not-a-uuid")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.NotEqual(t, "not-a-uuid", rec.Header().Get(HeaderRequestID))
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["version"])
}

func TestMetrics(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, post(t, s, `{"graph": `+chainGraph+`}`).Code)
	require.Equal(t, http.StatusUnprocessableEntity, post(t, s, `{"graph": `+chainGraph+`, "options": {"align": "x"}}`).Code)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "layered_layout_duration_seconds_count 1")
	assert.Contains(t, body, `layered_stage_duration_seconds_count{stage="order"} 1`)
	assert.Contains(t, body, `layered_http_requests_total{method="POST",route="/v1/layout",status="200"} 1`)
	assert.Contains(t, body, `layered_http_requests_total{method="POST",route="/v1/layout",status="422"} 1`)
	assert.Contains(t, body, "go_goroutines")
}

func TestNotFound(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
