package variables

// Processed is the coerced form of one variable.
type Processed struct {
	Value any       `json:"value"`
	Trace TypeTrace `json:"trace"`
}

// Result is the outcome of coercing one request's variables. It is built
// once per request and must not be modified afterwards.
type Result struct {
	// Raw is the caller's map, unchanged.
	Raw map[string]any `json:"-"`
	// Processed holds only variables that produced a value.
	Processed map[string]*Processed `json:"processed"`
	Errors    Errors                `json:"errors"`
}

// Failed reports whether any fatal error was recorded. Advisory errors
// alone never fail a result.
func (r *Result) Failed() bool { return r.Errors.HasFatal() }

// Lookup returns the coerced value of a variable that produced one.
func (r *Result) Lookup(name string) (any, bool) {
	p, ok := r.Processed[name]
	if !ok {
		return nil, false
	}
	return p.Value, true
}

// Values returns a fresh map of the coerced values by variable name.
func (r *Result) Values() map[string]any {
	out := make(map[string]any, len(r.Processed))
	for name, p := range r.Processed {
		out[name] = p.Value
	}
	return out
}
