package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

var stringType = &Type{
	Name:        "String",
	Kind:        TypeKindScalar,
	Description: "The `String` scalar type represents textual data, represented as UTF-8 character sequences.",
	ParseValue:  parseString,
}

var intType = &Type{
	Name:        "Int",
	Kind:        TypeKindScalar,
	Description: "The `Int` scalar type represents non-fractional signed whole numeric values.",
	ParseValue:  parseInt,
}

var floatType = &Type{
	Name:        "Float",
	Kind:        TypeKindScalar,
	Description: "The `Float` scalar type represents signed double-precision fractional values.",
	ParseValue:  parseFloat,
}

var booleanType = &Type{
	Name:        "Boolean",
	Kind:        TypeKindScalar,
	Description: "The `Boolean` scalar type represents `true` or `false`.",
	ParseValue:  parseBoolean,
}

var idType = &Type{
	Name:        "ID",
	Kind:        TypeKindScalar,
	Description: "The `ID` scalar type represents a unique identifier, often used to refetch an object or as a key for caching.",
	ParseValue:  parseID,
}

var builtinScalars = []*Type{stringType, intType, floatType, booleanType, idType}

// IsBuiltinScalar reports whether name is one of the specified scalars.
func IsBuiltinScalar(name string) bool {
	for _, t := range builtinScalars {
		if t.Name == name {
			return true
		}
	}
	return false
}

// parseInt accepts integral numbers in the signed 32-bit range.
func parseInt(raw any) (any, error) {
	var f float64
	switch v := raw.(type) {
	case int:
		f = float64(v)
	case int32:
		return int(v), nil
	case int64:
		f = float64(v)
	case float32:
		f = float64(v)
	case float64:
		f = v
	case json.Number:
		if iv, err := v.Int64(); err == nil {
			f = float64(iv)
		} else if fv, err := v.Float64(); err == nil {
			f = fv
		} else {
			return nil, fmt.Errorf("cannot coerce %q to Int", v.String())
		}
	default:
		return nil, fmt.Errorf("cannot coerce %v (%T) to Int", raw, raw)
	}
	if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return nil, fmt.Errorf("cannot coerce %v to Int", raw)
	}
	return int(f), nil
}

func parseFloat(raw any) (any, error) {
	switch v := raw.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("cannot coerce %v to Float", v)
		}
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		if fv, err := v.Float64(); err == nil {
			return fv, nil
		}
	}
	return nil, fmt.Errorf("cannot coerce %v (%T) to Float", raw, raw)
}

func parseString(raw any) (any, error) {
	if v, ok := raw.(string); ok {
		return v, nil
	}
	return nil, fmt.Errorf("cannot coerce %v (%T) to String", raw, raw)
}

func parseBoolean(raw any) (any, error) {
	if v, ok := raw.(bool); ok {
		return v, nil
	}
	return nil, fmt.Errorf("cannot coerce %v (%T) to Boolean", raw, raw)
}

// parseID accepts strings and integral numbers; the result is always a string.
func parseID(raw any) (any, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case int:
		return strconv.Itoa(v), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
			return strconv.FormatInt(int64(v), 10), nil
		}
	case json.Number:
		if iv, err := v.Int64(); err == nil {
			return strconv.FormatInt(iv, 10), nil
		}
		if fv, err := v.Float64(); err == nil {
			return parseID(fv)
		}
	}
	return nil, fmt.Errorf("cannot coerce %v (%T) to ID", raw, raw)
}
