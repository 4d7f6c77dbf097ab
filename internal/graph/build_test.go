package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/gridflow/internal/registry"
	"github.com/vk/gridflow/internal/state"
)

func testRegistry(t *testing.T, names ...string) *registry.Registry {
	t.Helper()
	r := registry.New()
	for _, name := range names {
		err := r.Register(name, func(_ context.Context, _ state.State, _ map[string]any) (state.State, error) {
			return nil, nil
		})
		require.NoError(t, err)
	}
	return r
}

func linearDefinition() Definition {
	return Definition{
		Name:      "linear",
		Entry:     "a",
		Terminals: []string{"end"},
		Nodes: []Node{
			{Name: "a", Tool: "noop"},
			{Name: "b", Tool: "noop"},
			{Name: "end", Tool: "noop"},
		},
		Edges: []Edge{
			{From: "a", To: "b"},
			{From: "b", To: "end"},
		},
	}
}

func TestBuildValidGraph(t *testing.T) {
	reg := testRegistry(t, "noop")

	g, err := Build(linearDefinition(), reg)
	require.NoError(t, err)

	assert.Equal(t, "linear", g.Name())
	assert.Equal(t, "a", g.Entry())
	assert.True(t, g.IsTerminal("end"))
	assert.False(t, g.IsTerminal("a"))

	node, ok := g.Node("b")
	require.True(t, ok)
	assert.Equal(t, "noop", node.Tool)

	fb, ok := g.Fallback("a")
	require.True(t, ok)
	assert.Equal(t, "b", fb.To)
	assert.Empty(t, g.ConditionalEdges("a"))
}

func TestBuildAllowsCycles(t *testing.T) {
	reg := testRegistry(t, "noop")
	def := Definition{
		Entry:     "refine",
		Terminals: []string{"done"},
		Nodes: []Node{
			{Name: "refine", Tool: "noop"},
			{Name: "evaluate", Tool: "noop"},
			{Name: "done"},
		},
		Edges: []Edge{
			{From: "refine", To: "evaluate"},
			{From: "evaluate", To: "refine", When: &Condition{Key: "n", Op: OpGt, Value: 1}},
			{From: "evaluate", To: "done"},
		},
	}

	_, err := Build(def, reg)
	require.NoError(t, err)
}

func TestBuildTerminalMayOmitTool(t *testing.T) {
	reg := testRegistry(t, "noop")
	def := Definition{
		Entry:     "a",
		Terminals: []string{"end"},
		Nodes: []Node{
			{Name: "a", Tool: "noop"},
			{Name: "end"},
		},
		Edges: []Edge{{From: "a", To: "end"}},
	}

	g, err := Build(def, reg)
	require.NoError(t, err)
	node, ok := g.Node("end")
	require.True(t, ok)
	assert.Empty(t, node.Tool)
}

func TestBuildConditionalOrderPreserved(t *testing.T) {
	reg := testRegistry(t, "noop")
	def := Definition{
		Entry:     "a",
		Terminals: []string{"end"},
		Nodes: []Node{
			{Name: "a", Tool: "noop"},
			{Name: "b", Tool: "noop"},
			{Name: "end"},
		},
		Edges: []Edge{
			{From: "a", To: "b", When: &Condition{Key: "k", Op: OpEq, Value: 1.0}},
			{From: "a", To: "end", When: &Condition{Key: "k", Op: OpGte, Value: 1.0}},
			{From: "a", To: "end"},
			{From: "b", To: "end"},
		},
	}

	g, err := Build(def, reg)
	require.NoError(t, err)

	edges := g.ConditionalEdges("a")
	require.Len(t, edges, 2)
	assert.Equal(t, "b", edges[0].To)
	assert.Equal(t, "end", edges[1].To)
}

func TestBuildRejections(t *testing.T) {
	reg := testRegistry(t, "noop")

	cases := []struct {
		name    string
		mutate  func(def *Definition)
		wantMsg string
	}{
		{
			name:    "no nodes",
			mutate:  func(def *Definition) { def.Nodes = nil },
			wantMsg: "no nodes",
		},
		{
			name:    "missing entry",
			mutate:  func(def *Definition) { def.Entry = "" },
			wantMsg: "no entry node",
		},
		{
			name:    "unknown entry",
			mutate:  func(def *Definition) { def.Entry = "ghost" },
			wantMsg: `entry node "ghost" does not exist`,
		},
		{
			name:    "no terminals",
			mutate:  func(def *Definition) { def.Terminals = nil },
			wantMsg: "no terminal nodes",
		},
		{
			name:    "unknown terminal",
			mutate:  func(def *Definition) { def.Terminals = []string{"ghost"} },
			wantMsg: `terminal node "ghost" does not exist`,
		},
		{
			name: "duplicate node",
			mutate: func(def *Definition) {
				def.Nodes = append(def.Nodes, Node{Name: "a", Tool: "noop"})
			},
			wantMsg: `duplicate node "a"`,
		},
		{
			name: "unknown tool",
			mutate: func(def *Definition) {
				def.Nodes[0].Tool = "never_registered"
			},
			wantMsg: `unknown tool "never_registered"`,
		},
		{
			name: "non-terminal without tool",
			mutate: func(def *Definition) {
				def.Nodes[1].Tool = ""
			},
			wantMsg: `node "b" has no tool`,
		},
		{
			name: "dangling edge source",
			mutate: func(def *Definition) {
				def.Edges = append(def.Edges, Edge{From: "ghost", To: "end"})
			},
			wantMsg: `edge from unknown node "ghost"`,
		},
		{
			name: "dangling edge target",
			mutate: func(def *Definition) {
				def.Edges[0].To = "ghost"
			},
			wantMsg: `unknown node "ghost"`,
		},
		{
			name: "terminal with outgoing edge",
			mutate: func(def *Definition) {
				def.Edges = append(def.Edges, Edge{From: "end", To: "a"})
			},
			wantMsg: `terminal node "end" has an outgoing edge`,
		},
		{
			name: "duplicate unconditional edge",
			mutate: func(def *Definition) {
				def.Edges = append(def.Edges, Edge{From: "a", To: "end"})
			},
			wantMsg: "more than one unconditional edge",
		},
		{
			name: "condition without key",
			mutate: func(def *Definition) {
				def.Edges[0].When = &Condition{Op: OpEq, Value: 1}
			},
			wantMsg: "no condition key",
		},
		{
			name: "unknown operator",
			mutate: func(def *Definition) {
				def.Edges[0].When = &Condition{Key: "k", Op: "contains", Value: 1}
			},
			wantMsg: `unknown operator "contains"`,
		},
		{
			name: "node without outgoing edge",
			mutate: func(def *Definition) {
				def.Edges = def.Edges[:1] // drop b -> end
			},
			wantMsg: `node "b" has no outgoing edge`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			def := linearDefinition()
			tc.mutate(&def)

			g, err := Build(def, reg)
			assert.Nil(t, g)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.ErrorContains(t, err, tc.wantMsg)
		})
	}
}

func TestBuildUnreachableTerminal(t *testing.T) {
	reg := testRegistry(t, "noop")
	def := Definition{
		Entry:     "a",
		Terminals: []string{"end"},
		Nodes: []Node{
			{Name: "a", Tool: "noop"},
			{Name: "b", Tool: "noop"},
			{Name: "end"},
		},
		Edges: []Edge{
			// a and b only point at each other; end is disconnected.
			{From: "a", To: "b"},
			{From: "b", To: "a"},
		},
	}

	_, err := Build(def, reg)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.ErrorContains(t, err, "no terminal node is reachable")
}
