package variables

import (
	"github.com/hanpama/gqlcoerce/internal/language"
	"github.com/hanpama/gqlcoerce/internal/schema"
)

// DefaultMaxDepth bounds the nesting of lists and input objects.
const DefaultMaxDepth = 64

type Options struct {
	// MaxDepth caps recursion through lists and input object fields.
	MaxDepth int

	// Subject is the leading word of every message ("Variable").
	Subject string
}

type Option func(*Options)

func WithMaxDepth(n int) Option         { return func(o *Options) { o.MaxDepth = n } }
func WithSubject(subject string) Option { return func(o *Options) { o.Subject = subject } }

func newOptions(opts []Option) Options {
	o := Options{MaxDepth: DefaultMaxDepth, Subject: "Variable"}
	for _, f := range opts {
		f(&o)
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	return o
}

// Coerce coerces raw against defs. It never stops at the first problem:
// the returned Result lists every error found across all variables.
func Coerce(reg Registry, defs language.VariableDefinitionList, raw map[string]any, opts ...Option) *Result {
	o := newOptions(opts)
	errs := &collector{}
	processed := make(map[string]*Processed, len(defs))

	for _, def := range defs {
		name := def.Variable
		t := schema.BuildTypeRef(def.Type)
		loc := locationOf(def.Position)
		c := newCoercer(reg, errs, loc, o)
		path := Path{name}

		value, present := raw[name]
		if !present {
			switch {
			case def.DefaultValue != nil:
				// The default is an already shaped literal; only the base
				// type is traced. The client never sent it, so only fatal
				// records are kept.
				quiet := &collector{}
				v, _, ok := newCoercer(reg, quiet, loc, o).coerce(language.ValueToGo(def.DefaultValue, nil), t, path, 0)
				errs.merge(quiet.list().Fatal())
				if ok {
					processed[name] = &Processed{Value: v, Trace: TypeTrace{t.GetNamedType()}}
				}
			case t.IsNonNull():
				c.fatal(notProvided(o.Subject, path, t.GetNamedType()))
			}
			continue
		}

		v, trace, ok := c.coerce(value, t, path, 0)
		if ok {
			processed[name] = &Processed{Value: v, Trace: trace}
		}
	}

	return &Result{Raw: raw, Processed: processed, Errors: errs.list()}
}
