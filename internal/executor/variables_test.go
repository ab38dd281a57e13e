package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	variables "github.com/hanpama/gqlcoerce/internal/variables"
)

const argsSDL = `
type Query {
  echo(v: Int): Int
  need(v: Int!): Int
  def(v: Int = 5): Int
  list(v: [Int]): [Int]
  grid(v: [[Int]]): Int
  paint(c: Color): Color
  boom: String
  a: String
  b: String
}

enum Color { RED GREEN @deprecated(reason: "gone") }
`

func newArgsRuntime() *MockRuntime {
	return NewMockRuntime(map[string]MockResolver{
		"Query.echo":  argument("v"),
		"Query.need":  argument("v"),
		"Query.def":   argument("v"),
		"Query.list":  argument("v"),
		"Query.paint": argument("c"),
		"Query.boom":  NewMockErrorResolver(errors.New("boom")),
		"Query.a":     NewMockValueResolver("A"),
		"Query.b":     NewMockValueResolver("B"),
	})
}

func TestVariables_FatalErrorMeansNoData(t *testing.T) {
	rt := newArgsRuntime()
	doc := mustParseQuery(t, "query ($n: Int!, $c: Color) {\n  echo(v: $n)\n}")

	gotRes := NewExecutor(rt, mustSchema(t, argsSDL)).ExecuteRequest(context.Background(), doc, "", map[string]any{"c": "GREEN"}, nil)

	wantRes := &ExecutionResult{Errors: []GraphQLError{
		{Message: "Variable `n' (Int): Not provided"},
		{Message: "Variable `c' (Color): Deprecated; gone"},
	}}
	if diff := cmp.Diff(wantRes, gotRes, ignoreLocations); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, 1, gotRes.Errors[0].Locations[0].Line)
	require.Empty(t, rt.GetCalls())
}

func TestVariables_AdvisoryErrorsLead(t *testing.T) {
	rt := newArgsRuntime()
	doc := mustParseQuery(t, "query ($c: Color) { paint(c: $c) boom }")

	gotRes := NewExecutor(rt, mustSchema(t, argsSDL)).ExecuteRequest(context.Background(), doc, "", map[string]any{"c": "GREEN"}, nil)

	wantRes := &ExecutionResult{
		Data: map[string]any{"paint": "GREEN", "boom": nil},
		Errors: []GraphQLError{
			{Message: "Variable `c' (Color): Deprecated; gone"},
			{Message: "boom", Path: Path{"boom"}},
		},
	}
	if diff := cmp.Diff(wantRes, gotRes, ignoreLocations); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}
}

func TestVariables_ArgumentSubstitution(t *testing.T) {
	rt := newArgsRuntime()
	doc := mustParseQuery(t, `query ($a: Int, $b: Int) {
  x: echo(v: $a)
  y: def(v: $b)
  z: need(v: $b)
  w: list(v: [1, $a, $b])
}`)

	gotRes := NewExecutor(rt, mustSchema(t, argsSDL)).ExecuteRequest(context.Background(), doc, "", map[string]any{"a": 3}, nil)

	wantRes := &ExecutionResult{
		Data: map[string]any{"x": 3, "y": 5, "z": nil, "w": []any{1, 3}},
		Errors: []GraphQLError{
			{Message: "Argument `v' (Int): Not provided", Path: Path{"z"}},
		},
	}
	if diff := cmp.Diff(wantRes, gotRes, ignoreLocations); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}
	for _, c := range rt.GetCalls() {
		require.NotEqual(t, "need", c.Field, "resolver must not run after an argument error")
	}
	require.Equal(t, 4, gotRes.Errors[0].Locations[0].Line)
}

func TestVariables_InvalidLiteralArgument(t *testing.T) {
	rt := newArgsRuntime()
	doc := mustParseQuery(t, `{ echo(v: "nope") def }`)

	gotRes := NewExecutor(rt, mustSchema(t, argsSDL)).ExecuteRequest(context.Background(), doc, "", nil, nil)

	wantRes := &ExecutionResult{
		Data:   map[string]any{"echo": nil, "def": 5},
		Errors: []GraphQLError{{Message: "Argument `v' (Int): Invalid value provided", Path: Path{"echo"}}},
	}
	if diff := cmp.Diff(wantRes, gotRes, ignoreLocations); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}
}

func TestVariables_ArgumentDepthFollowsOptions(t *testing.T) {
	rt := newArgsRuntime()
	doc := mustParseQuery(t, `{ grid(v: [[1]]) }`)

	gotRes := NewExecutor(rt, mustSchema(t, argsSDL), variables.WithMaxDepth(1)).ExecuteRequest(context.Background(), doc, "", nil, nil)

	wantErrs := []GraphQLError{{Message: "Argument `v[][]' (Int): Maximum depth of 1 exceeded", Path: Path{"grid"}}}
	if diff := cmp.Diff(wantErrs, gotRes.Errors, ignoreLocations); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestVariables_SkipInclude(t *testing.T) {
	sch := mustSchema(t, argsSDL)
	doc := mustParseQuery(t, "query ($s: Boolean = false) { a @skip(if: $s) b @include(if: $s) }")

	cases := []struct {
		name string
		vars map[string]any
		want map[string]any
	}{
		{"Default", nil, map[string]any{"a": "A"}},
		{"Supplied", map[string]any{"s": true}, map[string]any{"b": "B"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gotRes := NewExecutor(newArgsRuntime(), sch).ExecuteRequest(context.Background(), doc, "", tc.vars, nil)
			if diff := cmp.Diff(tc.want, gotRes.Data); diff != "" {
				t.Fatalf("data mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestVariables_ArgumentDefaultsAreCoerced(t *testing.T) {
	sdl := `
type Query {
  f(x: Float = 1): Float
  g(in: In = {}): Int
  h(x: Float = 1): Float
  d(in: In = {a: 1, old: "x"}): Int
}

input In {
  a: Int = 7
  old: String @deprecated(reason: "unused")
}
`
	rt := NewMockRuntime(map[string]MockResolver{
		"Query.f": argument("x"),
		"Query.g": NewMockValueResolver(1),
		"Query.h": argument("x"),
		"Query.d": NewMockValueResolver(2),
	})
	doc := mustParseQuery(t, `query ($v: Float) { f g h(x: $v) d }`)

	gotRes := NewExecutor(rt, mustSchema(t, sdl)).ExecuteRequest(context.Background(), doc, "", nil, nil)

	require.Empty(t, gotRes.Errors)
	wantArgs := map[string]map[string]any{
		"f": {"x": float64(1)},
		"g": {"in": map[string]any{"a": 7}},
		"h": {"x": float64(1)},
		"d": {"in": map[string]any{"a": 1, "old": "x"}},
	}
	gotArgs := map[string]map[string]any{}
	for _, c := range rt.GetCalls() {
		gotArgs[c.Field] = c.Args
	}
	if diff := cmp.Diff(wantArgs, gotArgs); diff != "" {
		t.Fatalf("resolver args mismatch (-want +got):\n%s", diff)
	}
}
