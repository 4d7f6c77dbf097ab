package runstore

import (
	"time"

	"github.com/vk/gridflow/internal/state"
)

// Status is the lifecycle state of a run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFaulted   Status = "faulted"
)

// Entry is one line of a run's execution log: which node ran at which step,
// and the state snapshot after its tool's partial result was merged.
// Entries are never mutated or removed once appended.
type Entry struct {
	Step      int         `json:"step"`
	Node      string      `json:"node"`
	Snapshot  state.State `json:"stateSnapshot"`
	Timestamp time.Time   `json:"timestamp"`
}

// Fault describes why a run ended as StatusFaulted.
type Fault struct {
	Kind    string `json:"kind"`
	Node    string `json:"node,omitempty"`
	Message string `json:"message"`
}

// Record is the durable trace and outcome of one run. During execution it
// is owned by the engine and written incrementally; once sealed it is
// read-only.
type Record struct {
	RunID      string      `json:"runId"`
	GraphID    string      `json:"graphId"`
	Status     Status      `json:"status"`
	Log        []Entry     `json:"log"`
	FinalState state.State `json:"finalState,omitempty"`
	Fault      *Fault      `json:"fault,omitempty"`
}

// Outcome seals a run: its terminal status plus either the final state
// (success) or the fault that aborted it.
type Outcome struct {
	Status     Status
	FinalState state.State
	Fault      *Fault
}

// clone deep-copies a record so that callers never alias live run state.
func (r *Record) clone() Record {
	out := Record{
		RunID:   r.RunID,
		GraphID: r.GraphID,
		Status:  r.Status,
	}
	if r.Log != nil {
		out.Log = make([]Entry, len(r.Log))
		for i, e := range r.Log {
			e.Snapshot = e.Snapshot.Clone()
			out.Log[i] = e
		}
	}
	if r.FinalState != nil {
		out.FinalState = r.FinalState.Clone()
	}
	if r.Fault != nil {
		f := *r.Fault
		out.Fault = &f
	}
	return out
}
