// Package app assembles the engine from its parts: logger, tool registry,
// run store and the engine facade. It owns the two entry modes of the
// binary, one-shot workflow execution and the HTTP API server.
package app
