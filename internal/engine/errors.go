package engine

import (
	"errors"
	"fmt"

	"github.com/vk/gridflow/internal/runstore"
)

// ToolExecutionError reports that a node's tool failed. The underlying
// cause is wrapped; execution stops immediately with no retry and no
// partial commit of that step's state.
type ToolExecutionError struct {
	Node string
	Err  error
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("tool execution failed at node %q: %v", e.Node, e.Err)
}

func (e *ToolExecutionError) Unwrap() error { return e.Err }

// NoMatchingEdgeError reports a routing dead end: no conditional edge
// matched and no unconditional fallback exists.
type NoMatchingEdgeError struct {
	Node string
}

func (e *NoMatchingEdgeError) Error() string {
	return fmt.Sprintf("no matching edge out of node %q", e.Node)
}

// StepLimitExceededError reports that a loop did not converge within the
// configured step budget. Callers may retry with a higher limit.
type StepLimitExceededError struct {
	Limit int
	Node  string
}

func (e *StepLimitExceededError) Error() string {
	return fmt.Sprintf("step limit of %d exceeded at node %q", e.Limit, e.Node)
}

// ConditionError reports that an edge condition could not be evaluated
// against the current state, e.g. an ordering comparison on mismatched
// types.
type ConditionError struct {
	Node string
	Err  error
}

func (e *ConditionError) Error() string {
	return fmt.Sprintf("evaluating edge condition out of node %q: %v", e.Node, e.Err)
}

func (e *ConditionError) Unwrap() error { return e.Err }

// GraphNotFoundError reports a run request against an unknown graph ID.
type GraphNotFoundError struct {
	ID string
}

func (e *GraphNotFoundError) Error() string {
	return fmt.Sprintf("graph %q not found", e.ID)
}

// Fault kinds as serialized into run records.
const (
	FaultToolExecution     = "tool_execution"
	FaultNoMatchingEdge    = "no_matching_edge"
	FaultStepLimitExceeded = "step_limit_exceeded"
	FaultCondition         = "condition"
)

// faultOf converts a run-time error into its serialized record form.
func faultOf(err error) *runstore.Fault {
	var (
		toolErr      *ToolExecutionError
		edgeErr      *NoMatchingEdgeError
		limitErr     *StepLimitExceededError
		conditionErr *ConditionError
	)
	switch {
	case errors.As(err, &toolErr):
		return &runstore.Fault{Kind: FaultToolExecution, Node: toolErr.Node, Message: err.Error()}
	case errors.As(err, &edgeErr):
		return &runstore.Fault{Kind: FaultNoMatchingEdge, Node: edgeErr.Node, Message: err.Error()}
	case errors.As(err, &limitErr):
		return &runstore.Fault{Kind: FaultStepLimitExceeded, Node: limitErr.Node, Message: err.Error()}
	case errors.As(err, &conditionErr):
		return &runstore.Fault{Kind: FaultCondition, Node: conditionErr.Node, Message: err.Error()}
	default:
		return &runstore.Fault{Kind: "internal", Message: err.Error()}
	}
}
