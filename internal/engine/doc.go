// Package engine executes workflow graphs. It walks a validated graph from
// its entry node, invokes the registered tool for each visited node, merges
// the returned partial state into the run state, logs every visit, and
// resolves transitions until a terminal node or a fault.
//
// A run is strictly sequential; concurrency happens between runs, never
// inside one. Graphs and the tool registry are immutable after creation,
// so one Engine serves any number of concurrent runs without locking on
// the hot path.
package engine
