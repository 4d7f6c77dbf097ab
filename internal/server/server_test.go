package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/gridflow/internal/engine"
	"github.com/vk/gridflow/internal/registry"
	"github.com/vk/gridflow/internal/runstore"
	"github.com/vk/gridflow/modules/basic"
)

func testServer(t *testing.T) (*Server, *engine.Engine) {
	t.Helper()

	reg := registry.New()
	require.NoError(t, reg.Install(basic.Module{}))

	eng := engine.New(reg, runstore.NewStore(), engine.Options{})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(eng, logger, "example-graph"), eng
}

// countingGraph is a two-node loop exiting once count exceeds 2.
const countingGraph = `{
  "name": "counting",
  "entry": "bump",
  "terminals": ["done"],
  "nodes": [
    {"name": "bump", "tool": "counter"},
    {"name": "done"}
  ],
  "edges": [
    {"from": "bump", "to": "done", "when": {"key": "count", "operator": "gt", "value": 2}},
    {"from": "bump", "to": "bump"}
  ]
}`

func postJSON(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func getJSON(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRootEndpoint(t *testing.T) {
	srv, _ := testServer(t)

	rec := getJSON(t, srv.Handler(), "/")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "example-graph", body["example_graph_id"])
	assert.Contains(t, body["tools"], "counter")
}

func TestCreateGraph(t *testing.T) {
	srv, _ := testServer(t)
	handler := srv.Handler()

	t.Run("valid definition", func(t *testing.T) {
		rec := postJSON(t, handler, "/graph/create", countingGraph)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			GraphID string `json:"graph_id"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.GraphID)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		rec := postJSON(t, handler, "/graph/create", `{"name": `)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid definition", func(t *testing.T) {
		rec := postJSON(t, handler, "/graph/create", `{"name": "empty", "entry": "a", "terminals": ["a"], "nodes": [], "edges": []}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var resp struct {
			Error string `json:"error"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.Error, "invalid graph definition")
	})
}

func TestRunAndPollRoundtrip(t *testing.T) {
	srv, _ := testServer(t)
	handler := srv.Handler()

	rec := postJSON(t, handler, "/graph/create", countingGraph)
	require.Equal(t, http.StatusOK, rec.Code)
	var created struct {
		GraphID string `json:"graph_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = postJSON(t, handler, "/graph/run",
		fmt.Sprintf(`{"graph_id": %q, "initial_state": {"note": "hi"}}`, created.GraphID))
	require.Equal(t, http.StatusOK, rec.Code)

	var record runstore.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	assert.Equal(t, runstore.StatusSucceeded, record.Status)
	assert.Len(t, record.Log, 3)
	assert.Equal(t, 3.0, record.FinalState["count"])
	assert.Equal(t, "hi", record.FinalState["note"])

	// The same record must be retrievable by run ID afterwards.
	rec = getJSON(t, handler, "/graph/state/"+record.RunID)
	require.Equal(t, http.StatusOK, rec.Code)

	var polled runstore.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &polled))
	assert.Equal(t, record.RunID, polled.RunID)
	assert.Equal(t, record.Status, polled.Status)
	assert.Len(t, polled.Log, 3)
}

func TestRunRequestErrors(t *testing.T) {
	srv, _ := testServer(t)
	handler := srv.Handler()

	t.Run("unknown graph", func(t *testing.T) {
		rec := postJSON(t, handler, "/graph/run", `{"graph_id": "missing", "initial_state": {}}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		rec := postJSON(t, handler, "/graph/run", `not json`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRunStepLimitReportedInRecord(t *testing.T) {
	// A run that exhausts its step budget is an HTTP success; the fault
	// lives inside the record.
	srv, _ := testServer(t)
	handler := srv.Handler()

	rec := postJSON(t, handler, "/graph/create", countingGraph)
	require.Equal(t, http.StatusOK, rec.Code)
	var created struct {
		GraphID string `json:"graph_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = postJSON(t, handler, "/graph/run",
		fmt.Sprintf(`{"graph_id": %q, "initial_state": {}, "max_steps": 2}`, created.GraphID))
	require.Equal(t, http.StatusOK, rec.Code)

	var record runstore.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	assert.Equal(t, runstore.StatusFaulted, record.Status)
	require.NotNil(t, record.Fault)
	assert.Equal(t, "step_limit_exceeded", record.Fault.Kind)
	assert.Len(t, record.Log, 2)
}

func TestRunStateUnknownRun(t *testing.T) {
	srv, _ := testServer(t)

	rec := getJSON(t, srv.Handler(), "/graph/state/no-such-run")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
