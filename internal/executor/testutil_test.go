package executor

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	language "github.com/hanpama/gqlcoerce/internal/language"
	schema "github.com/hanpama/gqlcoerce/internal/schema"
)

var ignoreLocations = cmpopts.IgnoreFields(GraphQLError{}, "Locations")

// mustParseQuery parses a GraphQL query and fails the test on error.
func mustParseQuery(t *testing.T, q string) *language.QueryDocument {
	t.Helper()
	d, err := language.ParseQuery(q)
	require.NoError(t, err)
	return d
}

// mustSchema builds a schema from SDL with the @async directive declared.
func mustSchema(t *testing.T, sdl string) *schema.Schema {
	t.Helper()
	s, err := schema.BuildFromSDL("directive @async on FIELD_DEFINITION\n" + sdl)
	require.NoError(t, err)
	return s
}

// fromSource resolves a field by reading key from a map source.
func fromSource(key string) MockResolver {
	return func(_ context.Context, src any, _ map[string]any) (any, error) {
		return src.(map[string]any)[key], nil
	}
}

// argument resolves a field to one of its coerced arguments.
func argument(name string) MockResolver {
	return func(_ context.Context, _ any, args map[string]any) (any, error) {
		return args[name], nil
	}
}

// callLog renders calls as "kind Type.field #batch" for compact diffs.
func callLog(calls []Call) []string {
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = fmt.Sprintf("%s %s.%s #%d", c.Kind, c.ObjectType, c.Field, c.BatchID)
	}
	return out
}
