package registry

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/vk/gridflow/internal/state"
)

// Func is the shape of a tool: it receives the current run state and the
// node's configuration, and returns a partial state to merge on top of the
// current one. Returning a nil map means "no changes". Tools must be
// synchronous; the engine does not support suspending mid-step.
type Func func(ctx context.Context, st state.State, config map[string]any) (state.State, error)

// Module is implemented by packages that contribute a set of tools.
type Module interface {
	Register(r *Registry) error
}

// Registry maps tool names to their implementations. It is an explicit
// object passed into graph construction and the engine, not ambient global
// state. Populate it before creating graphs; afterwards it is only read,
// and concurrent Resolve calls are safe.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Func
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{tools: make(map[string]Func)}
}

// Register binds a name to a tool. Rebinding an existing name returns a
// *DuplicateToolError rather than silently changing behavior.
func (r *Registry) Register(name string, fn Func) error {
	if name == "" {
		return &InvalidToolError{Reason: "tool name must not be empty"}
	}
	if fn == nil {
		return &InvalidToolError{Reason: "tool function must not be nil"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; exists {
		return &DuplicateToolError{Name: name}
	}
	slog.Debug("Registering tool.", "name", name)
	r.tools[name] = fn
	return nil
}

// Resolve returns the tool bound to name, or an *UnknownToolError.
func (r *Registry) Resolve(name string) (Func, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.tools[name]
	if !ok {
		return nil, &UnknownToolError{Name: name}
	}
	return fn, nil
}

// Has reports whether a tool is bound to name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.tools[name]
	return ok
}

// Names returns the registered tool names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Install registers every module in order, stopping at the first failure.
func (r *Registry) Install(modules ...Module) error {
	for _, mod := range modules {
		if err := mod.Register(r); err != nil {
			return err
		}
	}
	return nil
}
