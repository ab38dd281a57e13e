package introspection

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/hanpama/gqlcoerce/internal/schema"
)

// formatValue renders an untyped default as a GraphQL literal of type t.
// Enum values are written bare and input object fields follow declaration
// order.
func formatValue(sch *schema.Schema, v any, t *schema.TypeRef) string {
	var b strings.Builder
	writeValue(&b, sch, v, t)
	return b.String()
}

func writeValue(b *strings.Builder, sch *schema.Schema, v any, t *schema.TypeRef) {
	if v == nil {
		b.WriteString("null")
		return
	}
	if t != nil && t.Kind == schema.TypeRefKindNonNull {
		writeValue(b, sch, v, t.OfType)
		return
	}
	if t != nil && t.Kind == schema.TypeRefKindList {
		items, ok := v.([]any)
		if !ok {
			writeValue(b, sch, v, t.OfType)
			return
		}
		b.WriteByte('[')
		for i, item := range items {
			if i > 0 {
				b.WriteString(", ")
			}
			writeValue(b, sch, item, t.OfType)
		}
		b.WriteByte(']')
		return
	}

	var def *schema.Type
	if t != nil {
		def = sch.LookupType(t.Named)
	}
	switch {
	case def != nil && def.Kind == schema.TypeKindEnum:
		if s, ok := v.(string); ok {
			b.WriteString(s)
			return
		}
	case def != nil && def.Kind == schema.TypeKindInputObject:
		if obj, ok := v.(map[string]any); ok {
			writeObject(b, sch, obj, def)
			return
		}
	}
	writeScalar(b, v)
}

func writeObject(b *strings.Builder, sch *schema.Schema, obj map[string]any, def *schema.Type) {
	b.WriteByte('{')
	n := 0
	for _, f := range def.InputFields {
		val, ok := obj[f.Name]
		if !ok {
			continue
		}
		if n > 0 {
			b.WriteString(", ")
		}
		n++
		b.WriteString(f.Name)
		b.WriteString(": ")
		writeValue(b, sch, val, f.Type)
	}
	b.WriteByte('}')
}

func writeScalar(b *strings.Builder, v any) {
	switch v := v.(type) {
	case string:
		b.WriteString(strconv.Quote(v))
	case bool:
		b.WriteString(strconv.FormatBool(v))
	case int:
		b.WriteString(strconv.Itoa(v))
	case int64:
		b.WriteString(strconv.FormatInt(v, 10))
	case float64:
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	case json.Number:
		b.WriteString(v.String())
	case []any:
		writeValue(b, nil, v, schema.ListType(nil))
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(k + ": ")
			writeScalar(b, v[k])
		}
		b.WriteByte('}')
	default:
		fmt.Fprint(b, v)
	}
}
