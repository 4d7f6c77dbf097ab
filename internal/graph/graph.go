package graph

// Node is a named step bound to a tool. Terminal nodes may omit the tool
// name; such a node ends the run without executing anything.
type Node struct {
	Name   string         `json:"name"`
	Tool   string         `json:"tool,omitempty"`
	Config map[string]any `json:"config,omitempty"`
}

// Edge is a directed routing rule. An Edge with a nil When is the
// unconditional fallback for its source node; at most one fallback per
// source is allowed.
type Edge struct {
	From string     `json:"from"`
	To   string     `json:"to"`
	When *Condition `json:"when,omitempty"`
}

// Definition is the caller-supplied description of a graph, as it arrives
// over the wire or out of a workflow file. It is validated and assembled
// into an immutable Graph by Build.
type Definition struct {
	Name      string   `json:"name,omitempty"`
	Entry     string   `json:"entry"`
	Terminals []string `json:"terminals"`
	Nodes     []Node   `json:"nodes"`
	Edges     []Edge   `json:"edges"`
}

// Graph is an immutable, validated graph. It may be reused for any number
// of concurrent runs; nothing mutates it after Build returns.
type Graph struct {
	name        string
	entry       string
	nodes       map[string]Node
	terminals   map[string]struct{}
	conditional map[string][]Edge // declaration order per source
	fallback    map[string]Edge
}

// Name returns the definition's display name.
func (g *Graph) Name() string { return g.name }

// Entry returns the entry node name.
func (g *Graph) Entry() string { return g.entry }

// Node returns the named node.
func (g *Graph) Node(name string) (Node, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// IsTerminal reports whether name is a declared terminal node.
func (g *Graph) IsTerminal(name string) bool {
	_, ok := g.terminals[name]
	return ok
}

// ConditionalEdges returns the conditional edges out of from, in
// declaration order. Order is semantically meaningful: the first matching
// predicate wins.
func (g *Graph) ConditionalEdges(from string) []Edge {
	return g.conditional[from]
}

// Fallback returns the unconditional edge out of from, if any.
func (g *Graph) Fallback(from string) (Edge, bool) {
	e, ok := g.fallback[from]
	return e, ok
}
