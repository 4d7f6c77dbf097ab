// Package textsummary provides the rule-based summarization tools:
// splitting text into chunks, summarizing each chunk, merging the chunk
// summaries, refining the merged summary, and measuring its length. The
// tools are deterministic; no model calls are involved.
package textsummary

import (
	"context"
	"strings"

	"github.com/vk/gridflow/internal/registry"
	"github.com/vk/gridflow/internal/state"
)

// Defaults applied when neither state nor node config supplies a value.
// State takes precedence over config, so callers can override per run.
const (
	defaultChunkSize       = 80
	defaultPerChunkSummary = 30
	defaultMaxSummaryWords = 80
)

// Module implements registry.Module for this package.
type Module struct{}

// Register binds all summarization tools.
func (Module) Register(r *registry.Registry) error {
	tools := map[string]registry.Func{
		"split_text":       splitText,
		"summarize_chunks": summarizeChunks,
		"merge_summaries":  mergeSummaries,
		"refine_summary":   refineSummary,
		"evaluate_summary": evaluateSummary,
	}
	for name, fn := range tools {
		if err := r.Register(name, fn); err != nil {
			return err
		}
	}
	return nil
}

// splitText splits state["text"] into chunks of roughly chunk_size words
// and stores them under "chunks".
func splitText(_ context.Context, st state.State, config map[string]any) (state.State, error) {
	text, _ := st["text"].(string)
	chunkSize := intOption(st, config, "chunk_size", defaultChunkSize)
	if chunkSize < 1 {
		chunkSize = 1
	}

	words := strings.Fields(text)
	var chunks []any
	for i := 0; i < len(words); i += chunkSize {
		end := min(i+chunkSize, len(words))
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}

	return state.State{"chunks": chunks}, nil
}

// summarizeChunks produces a naive per-chunk summary: the first
// per_chunk_summary_size words of each chunk.
func summarizeChunks(_ context.Context, st state.State, config map[string]any) (state.State, error) {
	chunks := stringsOf(st["chunks"])
	size := intOption(st, config, "per_chunk_summary_size", defaultPerChunkSummary)

	summaries := make([]any, 0, len(chunks))
	for _, chunk := range chunks {
		summaries = append(summaries, truncateWords(chunk, size))
	}

	return state.State{"chunk_summaries": summaries}, nil
}

// mergeSummaries joins the chunk summaries into one long summary.
func mergeSummaries(_ context.Context, st state.State, _ map[string]any) (state.State, error) {
	summaries := stringsOf(st["chunk_summaries"])
	return state.State{"summary": strings.Join(summaries, " ")}, nil
}

// refineSummary shortens the summary to max_summary_words. When the
// summary is already short enough it returns no changes at all, which
// lets a refine loop converge.
func refineSummary(_ context.Context, st state.State, config map[string]any) (state.State, error) {
	summary, _ := st["summary"].(string)
	maxWords := intOption(st, config, "max_summary_words", defaultMaxSummaryWords)

	words := strings.Fields(summary)
	if len(words) <= maxWords {
		return nil, nil
	}
	return state.State{"summary": strings.Join(words[:maxWords], " ")}, nil
}

// evaluateSummary measures the summary length in words, for conditional
// routing on "summary_length".
func evaluateSummary(_ context.Context, st state.State, _ map[string]any) (state.State, error) {
	summary, _ := st["summary"].(string)
	return state.State{"summary_length": len(strings.Fields(summary))}, nil
}

// truncateWords keeps the first max words of s.
func truncateWords(s string, max int) string {
	words := strings.Fields(s)
	if len(words) <= max {
		return s
	}
	return strings.Join(words[:max], " ")
}

// intOption reads a numeric option: state overrides config overrides the
// default. Both int and float64 representations are accepted, since state
// values may have round-tripped through JSON or HCL.
func intOption(st state.State, config map[string]any, key string, def int) int {
	if n, ok := asInt(st[key]); ok {
		return n
	}
	if config != nil {
		if n, ok := asInt(config[key]); ok {
			return n
		}
	}
	return def
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// stringsOf flattens a state value into strings, accepting both []string
// (native Go tools) and []any (JSON / HCL decoding).
func stringsOf(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, elem := range list {
			if s, ok := elem.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
