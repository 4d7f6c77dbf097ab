// Package registry provides the tool registry: the mapping between the
// string identifiers used in workflow definitions (e.g. "split_text") and
// the compiled Go functions that implement them.
//
// The registry is populated once at startup, validated against every graph
// at build time, and read concurrently by any number of runs afterwards.
package registry
