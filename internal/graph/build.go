package graph

import (
	"fmt"

	"github.com/vk/gridflow/internal/registry"
)

// ValidationError reports a structural problem in a Definition. It is only
// produced at build time; a Definition that builds cleanly cannot fail
// structurally at run time.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string {
	return "invalid graph definition: " + e.Detail
}

func invalidf(format string, args ...any) error {
	return &ValidationError{Detail: fmt.Sprintf(format, args...)}
}

// Build validates def against reg and assembles an immutable Graph. On any
// violation it returns a *ValidationError and no partial graph. Cycles are
// deliberately legal: loops are a supported feature, bounded at run time by
// the engine's step limit rather than rejected here.
func Build(def Definition, reg *registry.Registry) (*Graph, error) {
	if len(def.Nodes) == 0 {
		return nil, invalidf("graph has no nodes")
	}
	if def.Entry == "" {
		return nil, invalidf("graph has no entry node")
	}
	if len(def.Terminals) == 0 {
		return nil, invalidf("graph has no terminal nodes")
	}

	nodes := make(map[string]Node, len(def.Nodes))
	for _, n := range def.Nodes {
		if n.Name == "" {
			return nil, invalidf("node with empty name")
		}
		if _, exists := nodes[n.Name]; exists {
			return nil, invalidf("duplicate node %q", n.Name)
		}
		nodes[n.Name] = n
	}

	if _, ok := nodes[def.Entry]; !ok {
		return nil, invalidf("entry node %q does not exist", def.Entry)
	}

	terminals := make(map[string]struct{}, len(def.Terminals))
	for _, t := range def.Terminals {
		if _, ok := nodes[t]; !ok {
			return nil, invalidf("terminal node %q does not exist", t)
		}
		terminals[t] = struct{}{}
	}

	// Terminal nodes may omit their tool; every other node must name one,
	// and every named tool must resolve in the registry now, not mid-run.
	for _, n := range def.Nodes {
		_, isTerminal := terminals[n.Name]
		if n.Tool == "" {
			if !isTerminal {
				return nil, invalidf("node %q has no tool", n.Name)
			}
			continue
		}
		if !reg.Has(n.Tool) {
			return nil, invalidf("node %q references unknown tool %q", n.Name, n.Tool)
		}
	}

	conditional := make(map[string][]Edge)
	fallback := make(map[string]Edge)
	for _, e := range def.Edges {
		if _, ok := nodes[e.From]; !ok {
			return nil, invalidf("edge from unknown node %q", e.From)
		}
		if _, ok := nodes[e.To]; !ok {
			return nil, invalidf("edge from %q to unknown node %q", e.From, e.To)
		}
		if _, isTerminal := terminals[e.From]; isTerminal {
			return nil, invalidf("terminal node %q has an outgoing edge", e.From)
		}
		if e.When == nil {
			if _, exists := fallback[e.From]; exists {
				return nil, invalidf("node %q has more than one unconditional edge", e.From)
			}
			fallback[e.From] = e
			continue
		}
		if e.When.Key == "" {
			return nil, invalidf("conditional edge from %q has no condition key", e.From)
		}
		if _, ok := knownOps[e.When.Op]; !ok {
			return nil, invalidf("conditional edge from %q uses unknown operator %q", e.From, e.When.Op)
		}
		conditional[e.From] = append(conditional[e.From], e)
	}

	for name := range nodes {
		if _, isTerminal := terminals[name]; isTerminal {
			continue
		}
		if len(conditional[name]) == 0 {
			if _, ok := fallback[name]; !ok {
				return nil, invalidf("node %q has no outgoing edge and is not terminal", name)
			}
		}
	}

	g := &Graph{
		name:        def.Name,
		entry:       def.Entry,
		nodes:       nodes,
		terminals:   terminals,
		conditional: conditional,
		fallback:    fallback,
	}

	if !g.terminalReachable() {
		return nil, invalidf("no terminal node is reachable from entry %q", def.Entry)
	}

	return g, nil
}

// terminalReachable walks every edge from the entry node and reports
// whether at least one terminal can be reached.
func (g *Graph) terminalReachable() bool {
	visited := map[string]bool{}
	queue := []string{g.entry}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true

		if g.IsTerminal(current) {
			return true
		}
		for _, e := range g.conditional[current] {
			queue = append(queue, e.To)
		}
		if e, ok := g.fallback[current]; ok {
			queue = append(queue, e.To)
		}
	}
	return false
}
