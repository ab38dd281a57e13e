package variables

import (
	"reflect"
	"sort"

	"github.com/hanpama/gqlcoerce/internal/schema"
)

// Registry resolves named types. *schema.Schema satisfies it.
type Registry interface {
	LookupType(name string) *schema.Type
}

// ListMarker is appended to a TypeTrace for each list level traversed.
const ListMarker = string(schema.TypeRefKindList)

// TypeTrace records the base named type followed by one ListMarker per
// list level that was actually traversed while coercing a value.
type TypeTrace []string

func (t TypeTrace) withList() TypeTrace {
	out := make(TypeTrace, len(t), len(t)+1)
	copy(out, t)
	return append(out, ListMarker)
}

// CoerceValue runs a single coercion of raw against t. All errors are
// located at loc. The returned Processed is nil when any fatal error was
// recorded.
func CoerceValue(reg Registry, raw any, t *schema.TypeRef, path Path, loc Location, opts ...Option) (*Processed, Errors) {
	errs := &collector{}
	c := newCoercer(reg, errs, loc, newOptions(opts))
	value, trace, ok := c.coerce(raw, t, path, 0)
	if !ok {
		return nil, errs.list()
	}
	return &Processed{Value: value, Trace: trace}, errs.list()
}

type coercer struct {
	reg      Registry
	errs     *collector
	loc      Location
	subject  string
	maxDepth int
}

func newCoercer(reg Registry, errs *collector, loc Location, o Options) *coercer {
	return &coercer{reg: reg, errs: errs, loc: loc, subject: o.Subject, maxDepth: o.MaxDepth}
}

func (c *coercer) fatal(msg string)    { c.errs.add(SeverityFatal, c.loc, msg) }
func (c *coercer) advisory(msg string) { c.errs.add(SeverityAdvisory, c.loc, msg) }

// coerce reports ok=false when it recorded at least one fatal error for
// raw or anything nested inside it.
func (c *coercer) coerce(raw any, t *schema.TypeRef, path Path, depth int) (any, TypeTrace, bool) {
	if depth > c.maxDepth {
		c.fatal(tooDeep(c.subject, path, t.GetNamedType(), c.maxDepth))
		return nil, nil, false
	}
	switch t.Kind {
	case schema.TypeRefKindNonNull:
		if raw == nil {
			c.fatal(notProvided(c.subject, path, t.GetNamedType()))
			return nil, nil, false
		}
		return c.coerce(raw, t.OfType, path, depth)
	case schema.TypeRefKindList:
		return c.coerceList(raw, t, path, depth)
	case schema.TypeRefKindNamed:
		return c.coerceNamed(raw, t.Named, path, depth)
	}
	panic("unreachable")
}

func (c *coercer) coerceList(raw any, t *schema.TypeRef, path Path, depth int) (any, TypeTrace, bool) {
	base := t.GetNamedType()
	if raw == nil {
		return nil, TypeTrace{base}, true
	}
	items, isList := asList(raw)
	if !isList {
		c.fatal(invalidValue(c.subject, path, base))
		return nil, nil, false
	}
	inner := t.OfType
	itemPath := path.Append(ListSegment)
	out := make([]any, 0, len(items))
	var trace TypeTrace
	ok := true
	for _, item := range items {
		if item == nil {
			if inner.IsNonNull() {
				c.fatal(notProvided(c.subject, itemPath, base))
				ok = false
			}
			continue
		}
		v, itemTrace, itemOK := c.coerce(item, inner, itemPath, depth+1)
		if !itemOK {
			ok = false
			continue
		}
		if trace == nil {
			trace = itemTrace
		}
		out = append(out, v)
	}
	if !ok {
		return nil, nil, false
	}
	if trace == nil {
		trace = TypeTrace{base}
	}
	return out, trace.withList(), true
}

func (c *coercer) coerceNamed(raw any, name string, path Path, depth int) (any, TypeTrace, bool) {
	def := c.reg.LookupType(name)
	if def == nil || !def.IsInputType() {
		c.fatal(unknownType(c.subject, path, name))
		return nil, nil, false
	}
	trace := TypeTrace{name}
	if raw == nil {
		return nil, trace, true
	}
	switch def.Kind {
	case schema.TypeKindScalar:
		if def.ParseValue == nil {
			return raw, trace, true
		}
		v, err := def.ParseValue(raw)
		if err != nil {
			c.fatal(invalidValue(c.subject, path, name))
			return nil, nil, false
		}
		return v, trace, true
	case schema.TypeKindEnum:
		s, _ := raw.(string)
		ev := def.EnumValue(s)
		if ev == nil {
			c.fatal(invalidValue(c.subject, path, name))
			return nil, nil, false
		}
		if ev.IsDeprecated {
			c.advisory(deprecated(c.subject, path, name, ev.DeprecationReason))
		}
		return ev.Name, trace, true
	default:
		v, ok := c.coerceInputObject(raw, def, path, depth)
		if !ok {
			return nil, nil, false
		}
		return v, trace, true
	}
}

func (c *coercer) coerceInputObject(raw any, def *schema.Type, path Path, depth int) (map[string]any, bool) {
	fields, isObject := asObject(raw)
	if !isObject {
		c.fatal(invalidValue(c.subject, path, def.Name))
		return nil, false
	}
	out := make(map[string]any, len(def.InputFields))
	ok := true
	supplied := 0
	for _, f := range def.InputFields {
		fieldPath := path.Append(f.Name)
		value, present := fields[f.Name]
		if present && value != nil {
			supplied++
			if f.IsDeprecated {
				c.advisory(deprecated(c.subject, fieldPath, f.Type.GetNamedType(), f.DeprecationReason))
			}
			if v, _, fieldOK := c.coerce(value, f.Type, fieldPath, depth+1); fieldOK {
				out[f.Name] = v
			} else {
				ok = false
			}
			continue
		}
		switch {
		case f.HasDefault:
			if v, _, fieldOK := c.coerce(f.DefaultValue, f.Type, fieldPath, depth+1); fieldOK {
				out[f.Name] = v
			} else {
				ok = false
			}
		case f.Type.IsNonNull():
			c.fatal(notProvided(c.subject, fieldPath, f.Type.GetNamedType()))
			ok = false
		}
	}
	if def.OneOf && supplied != 1 {
		c.fatal(notOneOf(c.subject, path, def.Name))
		ok = false
	}

	unknown := make([]string, 0)
	for key := range fields {
		if def.InputField(key) == nil {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		c.advisory(notInSchema(c.subject, path.Append(key)))
	}
	return out, ok
}

// asList accepts []any and, for values built in Go rather than decoded
// from JSON, any other slice or array.
func asList(raw any) ([]any, bool) {
	if items, ok := raw.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

func asObject(raw any) (map[string]any, bool) {
	if m, ok := raw.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	m := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		m[iter.Key().String()] = iter.Value().Interface()
	}
	return m, true
}
