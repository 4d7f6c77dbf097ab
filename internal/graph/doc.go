// Package graph defines the workflow graph model: nodes bound to tools,
// plain and conditional edges, and the builder that validates a definition
// into an immutable, reusable Graph.
package graph
