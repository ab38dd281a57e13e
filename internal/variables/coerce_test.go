package variables

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/hanpama/gqlcoerce/internal/schema"
)

func TestCoerceValue_Lists(t *testing.T) {
	reg := newTestRegistry()
	str := schema.NamedType("String")
	intT := schema.NamedType("Int")

	tests := []struct {
		name     string
		raw      any
		typ      *schema.TypeRef
		want     *Processed
		wantErrs Errors
	}{
		{
			name: "nullable elements are filtered",
			raw:  []any{"a", nil, nil, "b"},
			typ:  schema.ListType(str),
			want: &Processed{Value: []any{"a", "b"}, Trace: TypeTrace{"String", ListMarker}},
		},
		{
			name:     "non-null element violation",
			raw:      []any{"a", nil},
			typ:      schema.ListType(schema.NonNullType(str)),
			wantErrs: Errors{fatal("Variable `v[]' (String): Not provided")},
		},
		{
			name: "null list",
			raw:  nil,
			typ:  schema.ListType(str),
			want: &Processed{Value: nil, Trace: TypeTrace{"String"}},
		},
		{
			name:     "null non-null list",
			raw:      nil,
			typ:      schema.NonNullType(schema.ListType(str)),
			wantErrs: Errors{fatal("Variable `v' (String): Not provided")},
		},
		{
			name:     "scalar where list expected",
			raw:      "a",
			typ:      schema.ListType(str),
			wantErrs: Errors{fatal("Variable `v' (String): Invalid value provided")},
		},
		{
			name: "empty list",
			raw:  []any{},
			typ:  schema.ListType(str),
			want: &Processed{Value: []any{}, Trace: TypeTrace{"String", ListMarker}},
		},
		{
			name: "two levels",
			raw:  []any{[]any{float64(1), float64(2)}, []any{float64(3)}},
			typ:  schema.ListType(schema.ListType(intT)),
			want: &Processed{Value: []any{[]any{1, 2}, []any{3}}, Trace: TypeTrace{"Int", ListMarker, ListMarker}},
		},
		{
			name: "two levels, inner level never traversed",
			raw:  []any{nil},
			typ:  schema.ListType(schema.ListType(intT)),
			want: &Processed{Value: []any{}, Trace: TypeTrace{"Int", ListMarker}},
		},
		{
			name: "three levels",
			raw:  []any{[]any{[]any{"x"}}},
			typ:  schema.NonNullType(schema.ListType(schema.NonNullType(schema.ListType(schema.ListType(str))))),
			want: &Processed{Value: []any{[]any{[]any{"x"}}}, Trace: TypeTrace{"String", ListMarker, ListMarker, ListMarker}},
		},
		{
			name:     "errors inside nested lists",
			raw:      []any{[]any{nil, 1}},
			typ:      schema.ListType(schema.ListType(schema.NonNullType(str))),
			wantErrs: Errors{fatal("Variable `v[][]' (String): Not provided"), fatal("Variable `v[][]' (String): Invalid value provided")},
		},
		{
			name: "go slices",
			raw:  []string{"a", "b"},
			typ:  schema.ListType(str),
			want: &Processed{Value: []any{"a", "b"}, Trace: TypeTrace{"String", ListMarker}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errs := CoerceValue(reg, tt.raw, tt.typ, Path{"v"}, Location{})
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("processed mismatch (-want +got):\n%s", diff)
			}
			wantErrs := tt.wantErrs
			if wantErrs == nil {
				wantErrs = Errors{}
			}
			if diff := cmp.Diff(wantErrs, errs, ignoreLocation); diff != "" {
				t.Fatalf("errors mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCoerceValue_InputObjectRequiresMapping(t *testing.T) {
	got, errs := CoerceValue(newTestRegistry(), []any{"x"}, schema.NamedType("ContactInput"), Path{"c"}, Location{})
	require.Nil(t, got)
	want := Errors{fatal("Variable `c' (ContactInput): Invalid value provided")}
	if diff := cmp.Diff(want, errs, ignoreLocation); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestCoerceValue_NestedInputObjects(t *testing.T) {
	raw := map[string]any{
		"limit":   float64(5),
		"contact": map[string]any{"address": "a", "extra": true},
	}
	got, errs := CoerceValue(newTestRegistry(), raw, schema.NonNullType(schema.NamedType("FilterInput")), Path{"f"}, Location{})

	require.Nil(t, got)
	want := Errors{
		fatal("Variable `f.contact.email' (String): Not provided"),
		advisory("Variable `f.contact.address' (String): Deprecated"),
		advisory("Variable `f.contact.extra': Not present in schema"),
	}
	if diff := cmp.Diff(want, errs, ignoreLocation); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestCoerceValue_NonInputTypeIsRejected(t *testing.T) {
	got, errs := CoerceValue(newTestRegistry(), map[string]any{}, schema.NamedType("User"), Path{"u"}, Location{})
	require.Nil(t, got)
	require.Equal(t, "Variable `u' (User): Unknown input type", errs[0].Message)
}

func TestCoerceValue_CustomScalarPassThrough(t *testing.T) {
	reg := newTestRegistry()
	reg.AddType(schema.NewType("JSON", schema.TypeKindScalar, ""))

	raw := map[string]any{"any": []any{1, "two"}}
	got, errs := CoerceValue(reg, raw, schema.NamedType("JSON"), Path{"j"}, Location{})

	require.Empty(t, errs)
	require.Equal(t, &Processed{Value: raw, Trace: TypeTrace{"JSON"}}, got)
}

func TestCoerceValue_CustomScalarParse(t *testing.T) {
	reg := newTestRegistry()
	reg.AddType(schema.NewType("Upper", schema.TypeKindScalar, "").SetParseValue(func(raw any) (any, error) {
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("cannot coerce %T to Upper", raw)
		}
		return strings.ToUpper(s), nil
	}))
	list := schema.ListType(schema.NamedType("Upper"))

	got, errs := CoerceValue(reg, []any{"ab", nil}, list, Path{"u"}, Location{})
	require.Empty(t, errs)
	require.Equal(t, &Processed{Value: []any{"AB"}, Trace: TypeTrace{"Upper", ListMarker}}, got)

	got, errs = CoerceValue(reg, []any{"ab", 1}, list, Path{"u"}, Location{})
	require.Nil(t, got)
	want := Errors{fatal("Variable `u[]' (Upper): Invalid value provided")}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestCoerceValue_Subject(t *testing.T) {
	loc := Location{Line: 2, Column: 3}
	got, errs := CoerceValue(newTestRegistry(), nil, schema.NonNullType(schema.NamedType("String")), Path{"id"}, loc, WithSubject("Argument"))

	require.Nil(t, got)
	want := Errors{{Message: "Argument `id' (String): Not provided", Location: loc, Severity: SeverityFatal}}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestPath(t *testing.T) {
	p := Path{"a"}
	q := p.Append(ListSegment).Append("b").Append(ListSegment)
	require.Equal(t, "a[].b[]", q.String())
	require.Equal(t, "a", p.String())

	// appending to a shared prefix never aliases
	x := q.Append("x")
	y := q.Append("y")
	require.Equal(t, "a[].b[].x", x.String())
	require.Equal(t, "a[].b[].y", y.String())
}
