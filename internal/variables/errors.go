package variables

import (
	"fmt"

	"github.com/hanpama/gqlcoerce/internal/language"
)

// Severity tells whether an error blocks execution.
type Severity string

const (
	SeverityFatal    Severity = "FATAL"
	SeverityAdvisory Severity = "ADVISORY"
)

// Location is the source position of the variable definition an error
// belongs to.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func locationOf(pos *language.Position) Location {
	if pos == nil {
		return Location{}
	}
	return Location{Line: pos.Line, Column: pos.Column}
}

// Error is one located, severity-tagged coercion problem.
type Error struct {
	Message  string   `json:"message"`
	Location Location `json:"location"`
	Severity Severity `json:"severity"`
}

func (e *Error) Error() string { return e.Message }

// Fatal reports whether e blocks execution.
func (e *Error) Fatal() bool { return e.Severity == SeverityFatal }

// GQLError converts e to the wire error shape.
func (e *Error) GQLError() *language.Error {
	return &language.Error{
		Message:   e.Message,
		Locations: []language.ErrorLocation{{Line: e.Location.Line, Column: e.Location.Column}},
	}
}

// Errors is an ordered error list.
type Errors []*Error

// HasFatal reports whether any record is fatal.
func (es Errors) HasFatal() bool {
	for _, e := range es {
		if e.Fatal() {
			return true
		}
	}
	return false
}

// Fatal returns the fatal records in order.
func (es Errors) Fatal() Errors { return es.filter(SeverityFatal) }

// Advisory returns the advisory records in order.
func (es Errors) Advisory() Errors { return es.filter(SeverityAdvisory) }

func (es Errors) filter(sev Severity) Errors {
	var out Errors
	for _, e := range es {
		if e.Severity == sev {
			out = append(out, e)
		}
	}
	return out
}

// GQLErrors converts every record, keeping order.
func (es Errors) GQLErrors() []*language.Error {
	out := make([]*language.Error, len(es))
	for i, e := range es {
		out[i] = e.GQLError()
	}
	return out
}

// collector is the append-only sink shared by one coercion pass.
type collector struct {
	errs Errors
}

func (c *collector) add(sev Severity, loc Location, msg string) {
	c.errs = append(c.errs, &Error{Message: msg, Location: loc, Severity: sev})
}

func (c *collector) merge(es Errors) { c.errs = append(c.errs, es...) }

func (c *collector) list() Errors {
	if len(c.errs) == 0 {
		return Errors{}
	}
	out := make(Errors, len(c.errs))
	copy(out, c.errs)
	return out
}

func notProvided(subject string, path Path, typeName string) string {
	return fmt.Sprintf("%s `%s' (%s): Not provided", subject, path, typeName)
}

func invalidValue(subject string, path Path, typeName string) string {
	return fmt.Sprintf("%s `%s' (%s): Invalid value provided", subject, path, typeName)
}

func deprecated(subject string, path Path, typeName, reason string) string {
	if reason == "" {
		return fmt.Sprintf("%s `%s' (%s): Deprecated", subject, path, typeName)
	}
	return fmt.Sprintf("%s `%s' (%s): Deprecated; %s", subject, path, typeName, reason)
}

func notInSchema(subject string, path Path) string {
	return fmt.Sprintf("%s `%s': Not present in schema", subject, path)
}

func unknownType(subject string, path Path, typeName string) string {
	return fmt.Sprintf("%s `%s' (%s): Unknown input type", subject, path, typeName)
}

func notOneOf(subject string, path Path, typeName string) string {
	return fmt.Sprintf("%s `%s' (%s): Exactly one field must be provided", subject, path, typeName)
}

func tooDeep(subject string, path Path, typeName string, max int) string {
	return fmt.Sprintf("%s `%s' (%s): Maximum depth of %d exceeded", subject, path, typeName, max)
}
