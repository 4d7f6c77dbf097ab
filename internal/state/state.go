// Package state defines the shared key/value bag that a run threads through
// every node visit. State is schema-less: any JSON-like value is permitted,
// and type discipline is left to individual tools.
package state

// State maps string keys to arbitrary values. A State belongs to exactly one
// run and is never shared between runs, so it carries no locking.
type State map[string]any

// New returns an empty State.
func New() State {
	return State{}
}

// Clone returns a deep copy of s. Nested maps and slices are copied so that
// log snapshots stay frozen even when a later tool mutates a nested value
// in place.
func (s State) Clone() State {
	if s == nil {
		return State{}
	}
	out := make(State, len(s))
	for k, v := range s {
		out[k] = deepCopy(v)
	}
	return out
}

// Merge applies partial on top of s, key-wise: later keys overwrite earlier
// ones, keys absent from partial are preserved. A nil partial is a no-op.
// Merge returns s for chaining.
func (s State) Merge(partial State) State {
	for k, v := range partial {
		s[k] = v
	}
	return s
}

// deepCopy copies the container shapes produced by JSON and HCL decoding.
// Scalar values are immutable and pass through unchanged.
func deepCopy(v any) any {
	switch val := v.(type) {
	case State:
		return val.Clone()
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = deepCopy(elem)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = deepCopy(elem)
		}
		return out
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out
	default:
		return v
	}
}
