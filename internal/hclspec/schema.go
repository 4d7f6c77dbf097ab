package hclspec

import "github.com/hashicorp/hcl/v2"

// workflowBlock is the single `workflow "<name>" {}` block naming the entry
// and terminal nodes.
type workflowBlock struct {
	Name      string   `hcl:"name,label"`
	Entry     string   `hcl:"entry"`
	Terminals []string `hcl:"terminals"`
}

// nodeBlock is a `node "<name>" {}` block binding a node to a tool. The
// config attribute stays an expression so that its object shape is free.
type nodeBlock struct {
	Name   string         `hcl:"name,label"`
	Tool   string         `hcl:"tool,optional"`
	Config hcl.Expression `hcl:"config,optional"`
}

// whenBlock is the optional condition of an edge. The value stays an
// expression: any HCL literal is a legal comparison operand.
type whenBlock struct {
	Key   string         `hcl:"key"`
	Op    string         `hcl:"op"`
	Value hcl.Expression `hcl:"value"`
}

// edgeBlock is an `edge "<from>" {}` block. Declaration order of edge
// blocks is preserved; it decides conditional priority.
type edgeBlock struct {
	From string     `hcl:"from,label"`
	To   string     `hcl:"to"`
	When *whenBlock `hcl:"when,block"`
}

// fileSchema is the top-level structure of a workflow file.
type fileSchema struct {
	Workflow *workflowBlock `hcl:"workflow,block"`
	Nodes    []*nodeBlock   `hcl:"node,block"`
	Edges    []*edgeBlock   `hcl:"edge,block"`
}
