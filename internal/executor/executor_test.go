package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestExecute_SyncBeforeAsync(t *testing.T) {
	sch := mustSchema(t, `type Query { a: String, b: String @async, c: String }`)
	rt := NewMockRuntime(map[string]MockResolver{
		"Query.a": NewMockValueResolver("A"),
		"Query.b": NewMockValueResolver("B"),
		"Query.c": NewMockValueResolver("C"),
	})

	gotRes := NewExecutor(rt, sch).ExecuteRequest(context.Background(), mustParseQuery(t, "{ a b c }"), "", nil, nil)

	wantRes := &ExecutionResult{Data: map[string]any{"a": "A", "b": "B", "c": "C"}, Errors: []GraphQLError{}}
	if diff := cmp.Diff(wantRes, gotRes); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}
	wantCalls := []Call{
		{Kind: "sync", ObjectType: "Query", Field: "a", Args: map[string]any{}},
		{Kind: "sync", ObjectType: "Query", Field: "c", Args: map[string]any{}},
		{Kind: "async", ObjectType: "Query", Field: "b", Args: map[string]any{}, BatchID: 1},
	}
	if diff := cmp.Diff(wantCalls, rt.GetCalls()); diff != "" {
		t.Fatalf("Runtime calls mismatch (-want +got):\n%s", diff)
	}
}

func TestExecute_OneBatchPerAsyncDepth(t *testing.T) {
	sch := mustSchema(t, `
type Query { users: [User] @async }
type User { name: String, friend: User @async }
`)
	rt := NewMockRuntime(map[string]MockResolver{
		"Query.users": NewMockValueResolver([]any{map[string]any{"name": "a"}, map[string]any{"name": "b"}}),
		"User.name":   fromSource("name"),
		"User.friend": func(_ context.Context, src any, _ map[string]any) (any, error) {
			return map[string]any{"name": src.(map[string]any)["name"].(string) + "'"}, nil
		},
	})

	gotRes := NewExecutor(rt, sch).ExecuteRequest(context.Background(), mustParseQuery(t, "{ users { name friend { name } } }"), "", nil, nil)

	wantData := map[string]any{"users": []any{
		map[string]any{"name": "a", "friend": map[string]any{"name": "a'"}},
		map[string]any{"name": "b", "friend": map[string]any{"name": "b'"}},
	}}
	if diff := cmp.Diff(wantData, gotRes.Data); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
	require.Empty(t, gotRes.Errors)

	wantCalls := []string{
		"async Query.users #1",
		"sync User.name #0",
		"sync User.name #0",
		"async User.friend #2",
		"async User.friend #2",
		"sync User.name #0",
		"sync User.name #0",
	}
	if diff := cmp.Diff(wantCalls, callLog(rt.GetCalls())); diff != "" {
		t.Fatalf("Runtime calls mismatch (-want +got):\n%s", diff)
	}
}

func TestExecute_ErrorPaths(t *testing.T) {
	sch := mustSchema(t, `
type Query { a: String, obj: Obj, objs: [Obj] }
type Obj { idx: Int, a: String }
`)
	boom := errors.New("boom")

	t.Run("Root", func(t *testing.T) {
		rt := NewMockRuntime(map[string]MockResolver{"Query.a": NewMockErrorResolver(boom)})
		gotRes := NewExecutor(rt, sch).ExecuteRequest(context.Background(), mustParseQuery(t, "{ a }"), "", nil, nil)
		wantRes := &ExecutionResult{
			Data:   map[string]any{"a": nil},
			Errors: []GraphQLError{{Message: "boom", Path: Path{"a"}}},
		}
		if diff := cmp.Diff(wantRes, gotRes, ignoreLocations); diff != "" {
			t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("ListIndex", func(t *testing.T) {
		rt := NewMockRuntime(map[string]MockResolver{
			"Query.objs": NewMockValueResolver([]any{map[string]any{"idx": 0}, map[string]any{"idx": 1}}),
			"Obj.a": func(_ context.Context, src any, _ map[string]any) (any, error) {
				if src.(map[string]any)["idx"] == 1 {
					return nil, boom
				}
				return "ok", nil
			},
		})
		gotRes := NewExecutor(rt, sch).ExecuteRequest(context.Background(), mustParseQuery(t, "{ objs { a } }"), "", nil, nil)
		wantRes := &ExecutionResult{
			Data:   map[string]any{"objs": []any{map[string]any{"a": "ok"}, map[string]any{"a": nil}}},
			Errors: []GraphQLError{{Message: "boom", Path: Path{"objs", 1, "a"}}},
		}
		if diff := cmp.Diff(wantRes, gotRes, ignoreLocations); diff != "" {
			t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Locations", func(t *testing.T) {
		rt := NewMockRuntime(map[string]MockResolver{"Query.a": NewMockErrorResolver(boom)})
		gotRes := NewExecutor(rt, sch).ExecuteRequest(context.Background(), mustParseQuery(t, "{\n  a\n}"), "", nil, nil)
		require.Len(t, gotRes.Errors, 1)
		require.Len(t, gotRes.Errors[0].Locations, 1)
		require.Equal(t, 2, gotRes.Errors[0].Locations[0].Line)
		require.Equal(t, 3, gotRes.Errors[0].Locations[0].Column)
	})
}

func TestExecute_NonNullPropagation(t *testing.T) {
	t.Run("Sync", func(t *testing.T) {
		sch := mustSchema(t, `
type Query { obj: Obj }
type Obj { a: String!, b: String }
`)
		rt := NewMockRuntime(map[string]MockResolver{
			"Query.obj": NewMockValueResolver(map[string]any{}),
			"Obj.b":     NewMockValueResolver("B"),
		})
		gotRes := NewExecutor(rt, sch).ExecuteRequest(context.Background(), mustParseQuery(t, "{ obj { a b } }"), "", nil, nil)
		wantRes := &ExecutionResult{
			Data:   map[string]any{"obj": nil},
			Errors: []GraphQLError{{Message: "Cannot return null for non-nullable field obj.a", Path: Path{"obj", "a"}}},
		}
		if diff := cmp.Diff(wantRes, gotRes, ignoreLocations); diff != "" {
			t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("AsyncDropsQueuedTasks", func(t *testing.T) {
		sch := mustSchema(t, `
type Query { obj: Obj }
type Obj { c: Child @async, a: String! @async }
type Child { x: String @async }
`)
		rt := NewMockRuntime(map[string]MockResolver{
			"Query.obj": NewMockValueResolver(map[string]any{}),
			"Obj.c":     NewMockValueResolver(map[string]any{}),
			"Child.x":   NewMockValueResolver("X"),
		})
		gotRes := NewExecutor(rt, sch).ExecuteRequest(context.Background(), mustParseQuery(t, "{ obj { c { x } a } }"), "", nil, nil)
		wantRes := &ExecutionResult{
			Data:   map[string]any{"obj": nil},
			Errors: []GraphQLError{{Message: "Cannot return null for non-nullable field obj.a", Path: Path{"obj", "a"}}},
		}
		if diff := cmp.Diff(wantRes, gotRes, ignoreLocations); diff != "" {
			t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
		}
		wantCalls := []string{"sync Query.obj #0", "async Obj.c #1", "async Obj.a #1"}
		if diff := cmp.Diff(wantCalls, callLog(rt.GetCalls())); diff != "" {
			t.Fatalf("Runtime calls mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("NonNullListItem", func(t *testing.T) {
		sch := mustSchema(t, `type Query { xs: [String!] }`)
		rt := NewMockRuntime(map[string]MockResolver{"Query.xs": NewMockValueResolver([]any{"a", nil})})
		gotRes := NewExecutor(rt, sch).ExecuteRequest(context.Background(), mustParseQuery(t, "{ xs }"), "", nil, nil)
		wantRes := &ExecutionResult{
			Data:   map[string]any{"xs": nil},
			Errors: []GraphQLError{{Message: "Cannot return null for non-nullable field xs[1]", Path: Path{"xs", 1}}},
		}
		if diff := cmp.Diff(wantRes, gotRes, ignoreLocations); diff != "" {
			t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestExecute_AbstractTypes(t *testing.T) {
	sch := mustSchema(t, `
type Query { node: Node }
interface Node { id: ID }
type User implements Node { id: ID, name: String }
`)
	rt := NewMockRuntime(map[string]MockResolver{
		"Query.node": NewMockValueResolver(map[string]any{"__typename": "User", "id": "1", "name": "n"}),
		"User.id":    fromSource("id"),
		"User.name":  fromSource("name"),
	})
	doc := mustParseQuery(t, `
{ node { id ... on User { name } ...F } }
fragment F on Node { __typename }
`)

	gotRes := NewExecutor(rt, sch).ExecuteRequest(context.Background(), doc, "", nil, nil)

	wantData := map[string]any{"node": map[string]any{"id": "1", "name": "n", "__typename": "User"}}
	if diff := cmp.Diff(wantData, gotRes.Data); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
	require.Empty(t, gotRes.Errors)
}

func TestExecute_OperationSelection(t *testing.T) {
	sch := mustSchema(t, `type Query { a: String }
type Mutation { m: String }`)
	rt := NewMockRuntime(map[string]MockResolver{
		"Query.a":    NewMockValueResolver("A"),
		"Mutation.m": NewMockValueResolver("M"),
	})
	doc := mustParseQuery(t, "query Q { a } mutation M { m }")
	exec := NewExecutor(rt, sch)

	require.Equal(t, map[string]any{"m": "M"}, exec.ExecuteRequest(context.Background(), doc, "M", nil, nil).Data)
	require.Equal(t, map[string]any{"a": "A"}, exec.ExecuteRequest(context.Background(), doc, "Q", nil, nil).Data)

	missing := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)
	require.Nil(t, missing.Data)
	require.Equal(t, "operation not found", missing.Errors[0].Message)
}
