package language

import "strconv"

// ValueToGo converts a literal to its untyped Go form: nil, bool, int,
// float64, string, []any or map[string]any. Variable references inside the
// literal are looked up in vars; a reference missing from vars is dropped
// from objects and becomes nil inside lists.
func ValueToGo(value *Value, vars map[string]any) any {
	v, _ := valueToGo(value, vars)
	return v
}

func valueToGo(value *Value, vars map[string]any) (any, bool) {
	if value == nil {
		return nil, true
	}
	switch value.Kind {
	case Variable:
		v, ok := vars[value.Raw]
		return v, ok
	case IntValue:
		if iv, err := strconv.ParseInt(value.Raw, 10, 64); err == nil {
			return int(iv), true
		}
		// out of int64 range; leave it to Int coercion to reject
		fv, _ := strconv.ParseFloat(value.Raw, 64)
		return fv, true
	case FloatValue:
		fv, _ := strconv.ParseFloat(value.Raw, 64)
		return fv, true
	case StringValue, BlockValue, EnumValue:
		return value.Raw, true
	case BooleanValue:
		return value.Raw == "true", true
	case NullValue:
		return nil, true
	case ListValue:
		out := make([]any, len(value.Children))
		for i, c := range value.Children {
			out[i], _ = valueToGo(c.Value, vars)
		}
		return out, true
	case ObjectValue:
		m := make(map[string]any, len(value.Children))
		for _, f := range value.Children {
			if v, ok := valueToGo(f.Value, vars); ok {
				m[f.Name] = v
			}
		}
		return m, true
	default:
		return nil, true
	}
}
