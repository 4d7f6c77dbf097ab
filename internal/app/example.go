package app

import "github.com/vk/gridflow/internal/graph"

// exampleDefinition is the summarization-and-refinement workflow preloaded
// in serve mode: split -> summarize -> merge -> evaluate, with a refine
// loop that runs until the summary fits max_summary_words.
func exampleDefinition() graph.Definition {
	return graph.Definition{
		Name:      "summarization_and_refinement",
		Entry:     "split",
		Terminals: []string{"done"},
		Nodes: []graph.Node{
			{Name: "split", Tool: "split_text", Config: map[string]any{"chunk_size": 80}},
			{Name: "summarize", Tool: "summarize_chunks", Config: map[string]any{"per_chunk_summary_size": 30}},
			{Name: "merge", Tool: "merge_summaries"},
			{Name: "evaluate", Tool: "evaluate_summary"},
			{Name: "refine", Tool: "refine_summary", Config: map[string]any{"max_summary_words": 80}},
			{Name: "done"},
		},
		Edges: []graph.Edge{
			{From: "split", To: "summarize"},
			{From: "summarize", To: "merge"},
			{From: "merge", To: "evaluate"},
			{From: "evaluate", To: "refine", When: &graph.Condition{
				Key: "summary_length", Op: graph.OpGt, Value: 80,
			}},
			{From: "evaluate", To: "done"},
			{From: "refine", To: "evaluate"},
		},
	}
}
