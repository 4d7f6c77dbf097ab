package engine

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/vk/gridflow/internal/graph"
	"github.com/vk/gridflow/internal/registry"
	"github.com/vk/gridflow/internal/runstore"
	"github.com/vk/gridflow/internal/state"
)

// DefaultMaxSteps bounds a run when the caller does not choose a limit.
// Loops are a first-class feature, so a run that never converges is an
// expected failure mode; this keeps it finite.
const DefaultMaxSteps = 100

// Options tunes an Engine.
type Options struct {
	// MaxSteps is the default step limit for runs. Zero means
	// DefaultMaxSteps.
	MaxSteps int
}

// Handle refers to a graph created on an Engine. The zero Handle is invalid.
type Handle struct {
	ID string

	g *graph.Graph
}

// Engine owns the graph catalog and executes runs against it. The registry
// and every built graph are immutable during execution, so any number of
// runs may proceed concurrently on one Engine.
type Engine struct {
	registry *registry.Registry
	store    *runstore.Store
	maxSteps int

	mu     sync.RWMutex
	graphs map[string]*graph.Graph
}

// New creates an Engine using reg for tool resolution and store for run
// records.
func New(reg *registry.Registry, store *runstore.Store, opts Options) *Engine {
	maxSteps := opts.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	return &Engine{
		registry: reg,
		store:    store,
		maxSteps: maxSteps,
		graphs:   make(map[string]*graph.Graph),
	}
}

// Registry returns the engine's tool registry.
func (e *Engine) Registry() *registry.Registry { return e.registry }

// CreateGraph validates def and, if it is well-formed, stores the built
// graph under a fresh ID. A *graph.ValidationError aborts creation
// entirely; no partial graph exists afterwards.
func (e *Engine) CreateGraph(def graph.Definition) (Handle, error) {
	g, err := graph.Build(def, e.registry)
	if err != nil {
		return Handle{}, err
	}

	h := Handle{ID: uuid.NewString(), g: g}

	e.mu.Lock()
	e.graphs[h.ID] = g
	e.mu.Unlock()

	return h, nil
}

// HandleFor resolves a previously created graph by ID.
func (e *Engine) HandleFor(graphID string) (Handle, error) {
	e.mu.RLock()
	g, ok := e.graphs[graphID]
	e.mu.RUnlock()

	if !ok {
		return Handle{}, &GraphNotFoundError{ID: graphID}
	}
	return Handle{ID: graphID, g: g}, nil
}

// Run executes the graph from its entry node with the engine's default step
// limit. It blocks until the run is sealed and returns the sealed record.
// Run-time faults (tool failure, routing dead end, step limit) are recorded
// in the record, not returned as errors; callers inspect Status.
func (e *Engine) Run(ctx context.Context, h Handle, initial state.State) (runstore.Record, error) {
	return e.RunWithLimit(ctx, h, initial, e.maxSteps)
}

// RunWithLimit is Run with an explicit step limit for this run only.
func (e *Engine) RunWithLimit(ctx context.Context, h Handle, initial state.State, maxSteps int) (runstore.Record, error) {
	if h.g == nil {
		return runstore.Record{}, &GraphNotFoundError{ID: h.ID}
	}
	if maxSteps <= 0 {
		maxSteps = e.maxSteps
	}
	return e.execute(ctx, h, initial, maxSteps)
}

// GetRun returns the record for runID, which may still be running.
func (e *Engine) GetRun(runID string) (runstore.Record, error) {
	return e.store.Get(runID)
}
