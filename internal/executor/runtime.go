package executor

import "context"

// Runtime is the host integration surface used by the Executor.
//
// The Executor drains synchronous fields of a depth through ResolveSync and
// then calls BatchResolveAsync once with every async field found at that
// depth. args always holds coerced values: variable references are already
// substituted and argument errors never reach the Runtime.
//
// BatchResolveAsync must return one result per task, in task order. Results
// are independent, so one failure does not affect the others.
//
// ResolveType names the concrete object type of an interface or union value.
// SerializeLeafValue turns a scalar or enum value into a JSON-safe Go value.
type Runtime interface {
	// ResolveSync is called only for fields with Async == false. Returning
	// (nil, nil) produces null.
	ResolveSync(ctx context.Context, objectType string, field string, source any, args map[string]any) (any, error)

	// BatchResolveAsync resolves one depth of async fields.
	BatchResolveAsync(ctx context.Context, tasks []AsyncResolveTask) []AsyncResolveResult

	ResolveType(ctx context.Context, abstractType string, value any) (string, error)
	SerializeLeafValue(ctx context.Context, scalarOrEnumTypeName string, value any) (any, error)
}

// AsyncResolveTask is one async field awaiting resolution.
type AsyncResolveTask struct {
	// ObjectType is the parent GraphQL object type name for the field.
	ObjectType string
	// Field is the GraphQL field name to resolve.
	Field string
	// Source is the parent object value (nil for root fields).
	Source any
	// Args are the coerced field arguments.
	Args map[string]any
}

// AsyncResolveResult pairs with the AsyncResolveTask at the same index.
type AsyncResolveResult struct {
	Value any
	Error error
}
