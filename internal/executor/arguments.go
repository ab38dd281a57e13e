package executor

import (
	language "github.com/hanpama/gqlcoerce/internal/language"
	schema "github.com/hanpama/gqlcoerce/internal/schema"
	variables "github.com/hanpama/gqlcoerce/internal/variables"
)

// argumentValues coerces the arguments of field against def. It reports
// false when a fatal error was recorded, in which case the resolver must
// not run.
//
// A bare $name argument takes the processed variable value as is. A
// variable that produced no value falls back to the argument default, and
// otherwise the argument is treated as absent. Literals and defaults,
// including literals with nested variable references, go through the same
// coercion as variables. Advisories raised by a default are dropped since
// the client never sent it.
func (ex *execution) argumentValues(def *schema.Field, field *language.Field, path Path) (map[string]any, bool) {
	out := make(map[string]any, len(def.Arguments))
	ok := true
	for _, argDef := range def.Arguments {
		arg := field.Arguments.ForName(argDef.Name)
		pos := field.Position
		if arg != nil && arg.Position != nil {
			pos = arg.Position
		}

		var raw any
		present, defaulted := false, false
		if arg != nil {
			if arg.Value.Kind == language.Variable {
				if v, found := ex.variables.Lookup(arg.Value.Raw); found {
					out[argDef.Name] = v
					continue
				}
			} else {
				raw = language.ValueToGo(arg.Value, ex.values)
				present = true
			}
		}
		if !present {
			switch {
			case argDef.HasDefault:
				raw, defaulted = argDef.DefaultValue, true
			case !argDef.Type.IsNonNull():
				continue
			}
		}

		processed, errs := ex.coerceArgument(raw, argDef, pos)
		if defaulted {
			errs = errs.Fatal()
		}
		for _, err := range errs {
			ex.errors = append(ex.errors, fromVariableError(err, path))
		}
		if processed == nil {
			ok = false
			continue
		}
		out[argDef.Name] = processed.Value
	}
	return out, ok
}

func (ex *execution) coerceArgument(raw any, def *schema.InputValue, pos *language.Position) (*variables.Processed, variables.Errors) {
	loc := variables.Location{}
	if pos != nil {
		loc = variables.Location{Line: pos.Line, Column: pos.Column}
	}
	opts := append(append([]variables.Option{}, ex.opts...), variables.WithSubject("Argument"))
	return variables.CoerceValue(ex.schema, raw, def.Type, variables.Path{def.Name}, loc, opts...)
}
