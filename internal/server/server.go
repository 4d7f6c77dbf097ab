// Package server exposes the engine over HTTP: graph creation, synchronous
// runs and run-state polling. It is thin glue around the engine facade; all
// semantics live below it.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vk/gridflow/internal/ctxlog"
	"github.com/vk/gridflow/internal/engine"
	"github.com/vk/gridflow/internal/graph"
	"github.com/vk/gridflow/internal/runstore"
	"github.com/vk/gridflow/internal/state"
)

// Server handles the HTTP API.
type Server struct {
	engine         *engine.Engine
	logger         *slog.Logger
	exampleGraphID string
}

// New creates a Server. exampleGraphID is advertised on the root endpoint
// so that callers can run the preloaded example workflow immediately.
func New(eng *engine.Engine, logger *slog.Logger, exampleGraphID string) *Server {
	return &Server{engine: eng, logger: logger, exampleGraphID: exampleGraphID}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("POST /graph/create", s.handleCreate)
	mux.HandleFunc("POST /graph/run", s.handleRun)
	mux.HandleFunc("GET /graph/state/{run_id}", s.handleRunState)
	return mux
}

type createResponse struct {
	GraphID string `json:"graph_id"`
}

type runRequest struct {
	GraphID      string      `json:"graph_id"`
	InitialState state.State `json:"initial_state"`
	MaxSteps     int         `json:"max_steps,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"message":          "gridflow engine is running",
		"example_graph_id": s.exampleGraphID,
		"tools":            s.engine.Registry().Names(),
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var def graph.Definition
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	handle, err := s.engine.CreateGraph(def)
	if err != nil {
		var validationErr *graph.ValidationError
		if errors.As(err, &validationErr) {
			s.writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Info("Graph created.", "graphID", handle.ID, "name", def.Name)
	s.writeJSON(w, http.StatusOK, createResponse{GraphID: handle.ID})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	handle, err := s.engine.HandleFor(req.GraphID)
	if err != nil {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}

	ctx := ctxlog.WithLogger(r.Context(), s.logger)
	record, err := s.engine.RunWithLimit(ctx, handle, req.InitialState, req.MaxSteps)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleRunState(w http.ResponseWriter, r *http.Request) {
	record, err := s.engine.GetRun(r.PathValue("run_id"))
	if err != nil {
		var notFound *runstore.RunNotFoundError
		if errors.As(err, &notFound) {
			s.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, record)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Encoding response failed.", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}
