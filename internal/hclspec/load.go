// Package hclspec loads workflow graph definitions from HCL files.
//
// A workflow file contains one `workflow` block naming the entry and
// terminal nodes, plus `node` and `edge` blocks:
//
//	workflow "summarize_and_refine" {
//	  entry     = "split"
//	  terminals = ["done"]
//	}
//
//	node "split" {
//	  tool   = "split_text"
//	  config = { chunk_size = 80 }
//	}
//
//	edge "split" { to = "summarize" }
//
//	edge "evaluate" {
//	  to = "refine"
//	  when {
//	    key   = "summary_length"
//	    op    = "gt"
//	    value = 80
//	  }
//	}
//
// The loader only translates syntax into a graph.Definition; structural
// validation happens in graph.Build.
package hclspec

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/gridflow/internal/graph"
)

// Load reads and translates the workflow file at path.
func Load(path string) (graph.Definition, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return graph.Definition{}, fmt.Errorf("parsing %s: %w", path, diags)
	}
	return decode(file)
}

// Parse translates workflow source held in memory. filename is used in
// diagnostics only.
func Parse(src []byte, filename string) (graph.Definition, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return graph.Definition{}, fmt.Errorf("parsing %s: %w", filename, diags)
	}
	return decode(file)
}

func decode(file *hcl.File) (graph.Definition, error) {
	var schema fileSchema
	if diags := gohcl.DecodeBody(file.Body, nil, &schema); diags.HasErrors() {
		return graph.Definition{}, fmt.Errorf("decoding workflow: %w", diags)
	}
	if schema.Workflow == nil {
		return graph.Definition{}, fmt.Errorf("workflow file has no workflow block")
	}

	def := graph.Definition{
		Name:      schema.Workflow.Name,
		Entry:     schema.Workflow.Entry,
		Terminals: schema.Workflow.Terminals,
	}

	for _, nb := range schema.Nodes {
		node := graph.Node{Name: nb.Name, Tool: nb.Tool}
		if nb.Config != nil {
			val, diags := nb.Config.Value(nil)
			if diags.HasErrors() {
				return graph.Definition{}, fmt.Errorf("node %q config: %w", nb.Name, diags)
			}
			config, err := ctyToGoMap(val)
			if err != nil {
				return graph.Definition{}, fmt.Errorf("node %q config: %w", nb.Name, err)
			}
			node.Config = config
		}
		def.Nodes = append(def.Nodes, node)
	}

	for _, eb := range schema.Edges {
		edge := graph.Edge{From: eb.From, To: eb.To}
		if eb.When != nil {
			val, diags := eb.When.Value.Value(nil)
			if diags.HasErrors() {
				return graph.Definition{}, fmt.Errorf("edge %q condition value: %w", eb.From, diags)
			}
			value, err := ctyToGo(val)
			if err != nil {
				return graph.Definition{}, fmt.Errorf("edge %q condition value: %w", eb.From, err)
			}
			edge.When = &graph.Condition{
				Key:   eb.When.Key,
				Op:    graph.Op(eb.When.Op),
				Value: value,
			}
		}
		def.Edges = append(def.Edges, edge)
	}

	return def, nil
}
