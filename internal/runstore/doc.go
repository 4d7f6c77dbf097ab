// Package runstore retains run records in memory: the append-only execution
// log of each run and its sealed outcome. Records are written incrementally
// by the engine during execution and read concurrently by status pollers.
package runstore
