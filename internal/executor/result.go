package executor

import (
	"fmt"

	language "github.com/hanpama/gqlcoerce/internal/language"
	variables "github.com/hanpama/gqlcoerce/internal/variables"
)

// GraphQLError is one located error in an ExecutionResult.
type GraphQLError struct {
	Message    string                   `json:"message"`
	Locations  []language.ErrorLocation `json:"locations,omitempty"`
	Path       Path                     `json:"path,omitempty"`
	Extensions map[string]any           `json:"extensions,omitempty"`
}

func (e GraphQLError) Error() string {
	return e.Message
}

// ExecutionResult is the outcome of one operation. Data is nil when
// execution never started, as after a fatal variable error.
type ExecutionResult struct {
	Data   any            `json:"data,omitempty"`
	Errors []GraphQLError `json:"errors,omitempty"`
}

// Path is a response path of field names and list indexes.
type Path []PathElement

// PathElement is a string field name or an int list index.
type PathElement any

func (p Path) String() string {
	s := ""
	for i, elem := range p {
		switch v := elem.(type) {
		case string:
			if i > 0 {
				s += "."
			}
			s += v
		case int:
			s += fmt.Sprintf("[%d]", v)
		}
	}
	return s
}

func (p Path) append(elem PathElement) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = elem
	return out
}

func fromVariableError(e *variables.Error, path Path) GraphQLError {
	out := GraphQLError{Message: e.Message, Path: path}
	if e.Location.Line > 0 {
		out.Locations = []language.ErrorLocation{{Line: e.Location.Line, Column: e.Location.Column}}
	}
	return out
}

func locationsOf(pos *language.Position) []language.ErrorLocation {
	if pos == nil {
		return nil
	}
	return []language.ErrorLocation{{Line: pos.Line, Column: pos.Column}}
}
