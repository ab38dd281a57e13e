package server

import (
	"encoding/json"
	"net/http"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"

	executor "github.com/hanpama/gqlcoerce/internal/executor"
	language "github.com/hanpama/gqlcoerce/internal/language"
)

// Response is the wire shape of one operation result. Data is absent
// when execution never started.
type Response struct {
	Data   any           `json:"data,omitempty"`
	Errors gqlerror.List `json:"errors,omitempty"`
}

func errorResponse(err *language.Error) Response {
	return Response{Errors: gqlerror.List{err}}
}

func toResponse(res *executor.ExecutionResult) Response {
	out := Response{Data: res.Data}
	for _, e := range res.Errors {
		out.Errors = append(out.Errors, &language.Error{
			Message:    e.Message,
			Locations:  e.Locations,
			Path:       toASTPath(e.Path),
			Extensions: e.Extensions,
		})
	}
	return out
}

func toASTPath(p executor.Path) ast.Path {
	if len(p) == 0 {
		return nil
	}
	out := make(ast.Path, 0, len(p))
	for _, elem := range p {
		switch v := elem.(type) {
		case string:
			out = append(out, ast.PathName(v))
		case int:
			out = append(out, ast.PathIndex(v))
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any, pretty bool) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	_ = enc.Encode(v)
}
