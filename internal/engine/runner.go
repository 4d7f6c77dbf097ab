package engine

import (
	"context"
	"time"

	"github.com/vk/gridflow/internal/ctxlog"
	"github.com/vk/gridflow/internal/graph"
	"github.com/vk/gridflow/internal/runstore"
	"github.com/vk/gridflow/internal/state"
)

// execute is the run state machine: a strictly sequential walk of
// node -> tool -> edge-resolution steps. The caller's initial state is
// copied, never aliased. Every fault seals the record with the full log up
// to and including the failing step.
func (e *Engine) execute(ctx context.Context, h Handle, initial state.State, maxSteps int) (runstore.Record, error) {
	g := h.g
	rec := e.store.Create(h.ID)

	logger := ctxlog.FromContext(ctx).With("runID", rec.RunID, "graph", g.Name())
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Info("Run started.", "entry", g.Entry(), "maxSteps", maxSteps)

	st := initial.Clone()
	current := g.Entry()

	for step := 0; ; step++ {
		if step >= maxSteps {
			logger.Warn("Step limit exceeded.", "limit", maxSteps, "node", current)
			return e.seal(rec.RunID, faulted(&StepLimitExceededError{Limit: maxSteps, Node: current}))
		}

		node, ok := g.Node(current)
		if !ok {
			// Unreachable after a clean Build; kept as a hard stop.
			return e.seal(rec.RunID, faulted(&NoMatchingEdgeError{Node: current}))
		}

		if node.Tool != "" {
			fn, err := e.registry.Resolve(node.Tool)
			if err != nil {
				return e.seal(rec.RunID, faulted(&ToolExecutionError{Node: current, Err: err}))
			}

			logger.Debug("Executing node.", "step", step, "node", current, "tool", node.Tool)
			partial, err := fn(ctx, st, node.Config)
			if err != nil {
				logger.Error("Tool failed.", "step", step, "node", current, "tool", node.Tool, "error", err)
				// The failing step still appears in the log, but its
				// partial result is never committed.
				e.append(rec.RunID, step, current, st)
				return e.seal(rec.RunID, faulted(&ToolExecutionError{Node: current, Err: err}))
			}

			st.Merge(partial)
			e.append(rec.RunID, step, current, st)
		}

		if g.IsTerminal(current) {
			logger.Info("Run succeeded.", "terminal", current, "steps", step+1)
			return e.seal(rec.RunID, runstore.Outcome{
				Status:     runstore.StatusSucceeded,
				FinalState: st,
			})
		}

		next, err := e.nextNode(g, current, st)
		if err != nil {
			logger.Warn("Routing failed.", "node", current, "error", err)
			return e.seal(rec.RunID, faulted(err))
		}
		current = next
	}
}

// nextNode resolves the transition out of current against the post-step
// state: conditional edges in declaration order first, then the
// unconditional fallback.
func (e *Engine) nextNode(g *graph.Graph, current string, st state.State) (string, error) {
	for _, edge := range g.ConditionalEdges(current) {
		match, err := edge.When.Eval(st)
		if err != nil {
			return "", &ConditionError{Node: current, Err: err}
		}
		if match {
			return edge.To, nil
		}
	}
	if edge, ok := g.Fallback(current); ok {
		return edge.To, nil
	}
	return "", &NoMatchingEdgeError{Node: current}
}

// append writes one log entry. The store deep-copies the snapshot.
func (e *Engine) append(runID string, step int, node string, st state.State) {
	_ = e.store.Append(runID, runstore.Entry{
		Step:      step,
		Node:      node,
		Snapshot:  st,
		Timestamp: time.Now().UTC(),
	})
}

// seal finalizes the record and returns the sealed copy.
func (e *Engine) seal(runID string, outcome runstore.Outcome) (runstore.Record, error) {
	if err := e.store.Seal(runID, outcome); err != nil {
		return runstore.Record{}, err
	}
	return e.store.Get(runID)
}

// faulted converts a run-time error into a sealed outcome. The last
// committed state is preserved through the log; FinalState stays empty so
// that success and fault are unambiguous in the serialized record.
func faulted(err error) runstore.Outcome {
	return runstore.Outcome{
		Status: runstore.StatusFaulted,
		Fault:  faultOf(err),
	}
}
