package hclspec

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// ctyToGo converts a cty.Value into the plain Go shapes used by run state:
// string, float64, bool, map[string]any and []any. Unknown or null values
// convert to nil.
func ctyToGo(val cty.Value) (any, error) {
	if !val.IsKnown() || val.IsNull() {
		return nil, nil
	}
	if val.Type().IsPrimitiveType() {
		switch val.Type() {
		case cty.String:
			return val.AsString(), nil
		case cty.Number:
			f, _ := val.AsBigFloat().Float64()
			return f, nil
		case cty.Bool:
			return val.True(), nil
		default:
			return nil, fmt.Errorf("unsupported primitive type: %s", val.Type().FriendlyName())
		}
	}
	if val.Type().IsObjectType() || val.Type().IsMapType() {
		out := make(map[string]any)
		for it := val.ElementIterator(); it.Next(); {
			k, v := it.Element()
			elem, err := ctyToGo(v)
			if err != nil {
				return nil, err
			}
			out[k.AsString()] = elem
		}
		return out, nil
	}
	if val.Type().IsTupleType() || val.Type().IsListType() || val.Type().IsSetType() {
		out := make([]any, 0, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			_, v := it.Element()
			elem, err := ctyToGo(v)
			if err != nil {
				return nil, err
			}
			out = append(out, elem)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported cty.Type for conversion: %s", val.Type().FriendlyName())
}

// ctyToGoMap converts an object-shaped cty.Value into a map, for node
// config attributes.
func ctyToGoMap(val cty.Value) (map[string]any, error) {
	converted, err := ctyToGo(val)
	if err != nil {
		return nil, err
	}
	if converted == nil {
		return nil, nil
	}
	m, ok := converted.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected an object, got %s", val.Type().FriendlyName())
	}
	return m, nil
}
