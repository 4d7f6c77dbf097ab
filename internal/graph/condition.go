package graph

import (
	"fmt"
	"reflect"

	"github.com/vk/gridflow/internal/state"
)

// Op is a comparison operator usable in an edge condition.
type Op string

// Supported operators, matching the wire format.
const (
	OpEq  Op = "eq"
	OpNeq Op = "neq"
	OpGt  Op = "gt"
	OpGte Op = "gte"
	OpLt  Op = "lt"
	OpLte Op = "lte"
)

// knownOps drives build-time validation of conditions.
var knownOps = map[Op]struct{}{
	OpEq: {}, OpNeq: {}, OpGt: {}, OpGte: {}, OpLt: {}, OpLte: {},
}

// Condition is a predicate over the run state: state[Key] <Op> Value.
type Condition struct {
	Key   string `json:"key"`
	Op    Op     `json:"operator"`
	Value any    `json:"value"`
}

// Eval evaluates the condition against the post-step state. A missing key
// evaluates as a nil left-hand side: equality operators still work (nil
// only equals nil), ordering operators report an error.
func (c Condition) Eval(st state.State) (bool, error) {
	return compare(st[c.Key], c.Op, c.Value)
}

// compare applies op across loosely typed operands. Numbers compare
// numerically regardless of concrete Go type, strings lexicographically,
// and anything else supports only eq/neq via deep equality.
func compare(lhs any, op Op, rhs any) (bool, error) {
	if lf, ok := toFloat(lhs); ok {
		if rf, ok := toFloat(rhs); ok {
			return compareOrdered(lf, op, rf)
		}
	}

	if ls, ok := lhs.(string); ok {
		if rs, ok := rhs.(string); ok {
			return compareOrdered(ls, op, rs)
		}
	}

	switch op {
	case OpEq:
		return reflect.DeepEqual(lhs, rhs), nil
	case OpNeq:
		return !reflect.DeepEqual(lhs, rhs), nil
	case OpGt, OpGte, OpLt, OpLte:
		return false, fmt.Errorf("operator %q not supported for %T and %T", op, lhs, rhs)
	default:
		return false, fmt.Errorf("unsupported operator %q", op)
	}
}

func compareOrdered[T float64 | string](lhs T, op Op, rhs T) (bool, error) {
	switch op {
	case OpEq:
		return lhs == rhs, nil
	case OpNeq:
		return lhs != rhs, nil
	case OpGt:
		return lhs > rhs, nil
	case OpGte:
		return lhs >= rhs, nil
	case OpLt:
		return lhs < rhs, nil
	case OpLte:
		return lhs <= rhs, nil
	default:
		return false, fmt.Errorf("unsupported operator %q", op)
	}
}

// toFloat widens any numeric value to float64. JSON decoding produces
// float64, HCL decoding produces float64 via cty, and Go tools may store
// native ints; conditions treat them all as one numeric domain.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
