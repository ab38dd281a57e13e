package executor

import (
	"context"
	"fmt"
	"reflect"
	"time"

	eventbus "github.com/hanpama/gqlcoerce/internal/eventbus"
	events "github.com/hanpama/gqlcoerce/internal/events"
	language "github.com/hanpama/gqlcoerce/internal/language"
	schema "github.com/hanpama/gqlcoerce/internal/schema"
	variables "github.com/hanpama/gqlcoerce/internal/variables"
)

type Executor struct {
	runtime Runtime
	schema  *schema.Schema
	opts    []variables.Option
}

// NewExecutor returns an Executor for schema. opts tune variable and
// argument coercion.
func NewExecutor(runtime Runtime, schema *schema.Schema, opts ...variables.Option) *Executor {
	return &Executor{runtime: runtime, schema: schema, opts: opts}
}

// execution holds the state of one operation.
type execution struct {
	ctx       context.Context
	runtime   Runtime
	schema    *schema.Schema
	document  *language.QueryDocument
	opts      []variables.Option
	variables *variables.Result
	values    map[string]any
	errors    []GraphQLError
	pending   []asyncTask
	nullified map[string]struct{}
}

// asyncTask is a queued async field. Bubble is the response path that
// becomes null when a Non-Null violation propagates out of the field.
type asyncTask struct {
	Task      AsyncResolveTask
	Path      Path
	Bubble    Path
	FieldType *schema.TypeRef
	Fields    []*language.Field
}

// asyncPending marks a response slot filled in by a later batch.
type asyncPending struct{}

// ExecuteRequest runs one operation of document. Variables are coerced
// before any field is resolved; a fatal variable error stops the request
// with no data.
func (e *Executor) ExecuteRequest(
	ctx context.Context,
	document *language.QueryDocument,
	operationName string,
	variableValues map[string]any,
	initialValue any,
) *ExecutionResult {
	operation := getOperation(document, operationName)
	if operation == nil {
		return &ExecutionResult{Errors: []GraphQLError{{Message: "operation not found"}}}
	}

	vars := e.coerceVariables(ctx, operation, variableValues)
	if vars.Failed() {
		errs := make([]GraphQLError, 0, len(vars.Errors))
		for _, err := range vars.Errors {
			errs = append(errs, fromVariableError(err, nil))
		}
		return &ExecutionResult{Errors: errs}
	}

	var rootType *schema.Type
	switch operation.Operation {
	case language.Query:
		rootType = e.schema.GetQueryType()
	case language.Mutation:
		rootType = e.schema.GetMutationType()
	case language.Subscription:
		rootType = e.schema.GetSubscriptionType()
	default:
		return &ExecutionResult{Errors: []GraphQLError{{Message: fmt.Sprintf("unsupported operation type: %s", operation.Operation)}}}
	}
	if rootType == nil {
		return &ExecutionResult{Errors: []GraphQLError{{Message: fmt.Sprintf("root type not found for %s operation", operation.Operation)}}}
	}

	ex := &execution{
		ctx:       ctx,
		runtime:   e.runtime,
		schema:    e.schema,
		document:  document,
		opts:      e.opts,
		variables: vars,
		values:    vars.Values(),
		errors:    []GraphQLError{},
		nullified: make(map[string]struct{}),
	}
	for _, adv := range vars.Errors.Advisory() {
		ex.errors = append(ex.errors, fromVariableError(adv, nil))
	}

	data := ex.executeSelectionSet(rootType, operation.SelectionSet, initialValue, Path{}, nil)
	for len(ex.pending) > 0 {
		tasks, results := ex.flush()
		for i, res := range results {
			ex.completeAsync(tasks[i], res, data)
		}
	}
	return &ExecutionResult{Data: data, Errors: ex.errors}
}

func (e *Executor) coerceVariables(ctx context.Context, op *language.OperationDefinition, raw map[string]any) *variables.Result {
	start := time.Now()
	res := variables.Coerce(e.schema, op.VariableDefinitions, raw, e.opts...)
	eventbus.Publish(ctx, events.VariablesCoerced{
		OperationName: op.Name,
		Variables:     len(op.VariableDefinitions),
		Processed:     len(res.Processed),
		Fatal:         len(res.Errors.Fatal()),
		Advisory:      len(res.Errors.Advisory()),
		Duration:      time.Since(start),
	})
	return res
}

// executeSelectionSet returns nil when a Non-Null child of a nested object
// came back null.
func (ex *execution) executeSelectionSet(objectType *schema.Type, selectionSet language.SelectionSet, source any, path, bubble Path) map[string]any {
	out := make(map[string]any)
	for _, group := range ex.collectFields(objectType, selectionSet) {
		fieldPath := path.append(group.ResponseName)
		field := group.Fields[0]
		if field.Name == "__typename" {
			out[group.ResponseName] = objectType.Name
			continue
		}
		def := getFieldDefinition(objectType, field.Name)
		if def == nil {
			ex.addError(fmt.Sprintf("Cannot query field '%s' on type '%s'", field.Name, objectType.Name), field.Position, fieldPath)
			continue
		}

		fieldBubble := bubble
		if len(path) == 0 {
			fieldBubble = fieldPath
		}
		value := ex.executeField(objectType, def, group.Fields, source, fieldPath, fieldBubble)
		if isNullish(value) {
			if def.Type.IsNonNull() && len(path) > 0 {
				ex.markNullified(path)
				return nil
			}
			value = nil
		}
		out[group.ResponseName] = value
	}
	return out
}

func (ex *execution) executeField(objectType *schema.Type, def *schema.Field, fields []*language.Field, source any, path, bubble Path) any {
	args, ok := ex.argumentValues(def, fields[0], path)
	if !ok {
		return nil
	}

	if !def.Async {
		value, err := ex.runtime.ResolveSync(ex.ctx, objectType.Name, def.Name, source, args)
		if err != nil {
			ex.addError(err.Error(), fields[0].Position, path)
			return nil
		}
		return ex.completeValue(def.Type, fields, value, path, bubble)
	}

	ex.pending = append(ex.pending, asyncTask{
		Task: AsyncResolveTask{
			ObjectType: objectType.Name,
			Field:      def.Name,
			Source:     source,
			Args:       args,
		},
		Path:      path,
		Bubble:    bubble,
		FieldType: def.Type,
		Fields:    fields,
	})
	return asyncPending{}
}

// flush resolves every queued task that is not under a nullified path.
func (ex *execution) flush() ([]asyncTask, []AsyncResolveResult) {
	live := make([]asyncTask, 0, len(ex.pending))
	for _, at := range ex.pending {
		if !ex.isNullified(at.Path) {
			live = append(live, at)
		}
	}
	ex.pending = nil

	tasks := make([]AsyncResolveTask, len(live))
	for i, at := range live {
		tasks[i] = at.Task
	}
	if len(tasks) == 0 {
		return nil, nil
	}
	return live, ex.runtime.BatchResolveAsync(ex.ctx, tasks)
}

func (ex *execution) completeAsync(at asyncTask, res AsyncResolveResult, data map[string]any) {
	if ex.isNullified(at.Path) {
		return
	}
	var value any
	if res.Error != nil {
		ex.addError(res.Error.Error(), at.Fields[0].Position, at.Path)
	} else {
		value = ex.completeValue(at.FieldType, at.Fields, res.Value, at.Path, at.Bubble)
	}

	if isNullish(value) && at.FieldType.IsNonNull() {
		setValueAtPath(data, at.Bubble, nil)
		ex.markNullified(at.Bubble)
		return
	}
	if isNullish(value) {
		value = nil
	}
	setValueAtPath(data, at.Path, value)
}

// completeValue shapes a resolved value by its field type. bubble is the
// nearest nullable ancestor, where a Non-Null violation inside the value
// surfaces.
func (ex *execution) completeValue(t *schema.TypeRef, fields []*language.Field, result any, path, bubble Path) any {
	if t.IsNonNull() {
		if isNullish(result) {
			if !ex.hasErrorAt(path) {
				ex.addError(fmt.Sprintf("Cannot return null for non-nullable field %s", path), fields[0].Position, path)
			}
			return nil
		}
		return ex.completeNullable(t.OfType, fields, result, path, bubble)
	}
	if isNullish(result) {
		return nil
	}
	return ex.completeNullable(t, fields, result, path, path)
}

func (ex *execution) completeNullable(t *schema.TypeRef, fields []*language.Field, result any, path, bubble Path) any {
	if t.IsList() {
		return ex.completeList(t, fields, result, path, bubble)
	}
	typeObj := ex.schema.LookupType(t.Named)
	if typeObj == nil {
		ex.addError(fmt.Sprintf("Unknown type: %s", t.Named), fields[0].Position, path)
		return nil
	}
	switch typeObj.Kind {
	case schema.TypeKindScalar, schema.TypeKindEnum:
		serialized, err := ex.runtime.SerializeLeafValue(ex.ctx, t.Named, result)
		if err != nil {
			ex.addError(err.Error(), fields[0].Position, path)
			return nil
		}
		return serialized
	case schema.TypeKindObject:
		return ex.completeObject(typeObj, fields, result, path, bubble)
	case schema.TypeKindInterface, schema.TypeKindUnion:
		typeName, err := ex.runtime.ResolveType(ex.ctx, t.Named, result)
		if err != nil {
			ex.addError(err.Error(), fields[0].Position, path)
			return nil
		}
		concrete := ex.schema.LookupType(typeName)
		if concrete == nil || concrete.Kind != schema.TypeKindObject || !possibleType(typeObj, concrete) {
			ex.addError(fmt.Sprintf("Abstract type %s must resolve to an Object type at runtime. Got: %s", t.Named, typeName), fields[0].Position, path)
			return nil
		}
		return ex.completeObject(concrete, fields, result, path, bubble)
	default:
		ex.addError(fmt.Sprintf("Cannot complete value of unexpected type: %s", typeObj.Kind), fields[0].Position, path)
		return nil
	}
}

func (ex *execution) completeList(t *schema.TypeRef, fields []*language.Field, result any, path, bubble Path) any {
	items, ok := asSlice(result)
	if !ok {
		ex.addError(fmt.Sprintf("Expected list value, got %T", result), fields[0].Position, path)
		return nil
	}
	inner := t.OfType
	out := make([]any, len(items))
	for i, item := range items {
		v := ex.completeValue(inner, fields, item, path.append(i), bubble)
		if isNullish(v) {
			if inner.IsNonNull() {
				return nil
			}
			v = nil
		}
		out[i] = v
	}
	return out
}

func (ex *execution) completeObject(objectType *schema.Type, fields []*language.Field, result any, path, bubble Path) any {
	var merged language.SelectionSet
	for _, f := range fields {
		merged = append(merged, f.SelectionSet...)
	}
	if obj := ex.executeSelectionSet(objectType, merged, result, path, bubble); obj != nil {
		return obj
	}
	return nil
}

func (ex *execution) addError(message string, pos *language.Position, path Path) {
	ex.errors = append(ex.errors, GraphQLError{Message: message, Locations: locationsOf(pos), Path: path})
}

func (ex *execution) hasErrorAt(path Path) bool {
	for _, err := range ex.errors {
		if reflect.DeepEqual(err.Path, path) {
			return true
		}
	}
	return false
}

func (ex *execution) markNullified(p Path) {
	if len(p) > 0 {
		ex.nullified[p.String()] = struct{}{}
	}
}

func (ex *execution) isNullified(p Path) bool {
	if len(ex.nullified) == 0 {
		return false
	}
	for i := 1; i <= len(p); i++ {
		if _, ok := ex.nullified[p[:i].String()]; ok {
			return true
		}
	}
	return false
}

func possibleType(abstract, object *schema.Type) bool {
	for _, name := range abstract.PossibleTypes {
		if name == object.Name {
			return true
		}
	}
	for _, name := range object.Interfaces {
		if name == abstract.Name {
			return true
		}
	}
	return false
}

// getOperation picks the named operation, or the only one when name is
// empty.
func getOperation(document *language.QueryDocument, operationName string) *language.OperationDefinition {
	if operationName == "" && len(document.Operations) == 1 {
		return document.Operations[0]
	}
	for _, op := range document.Operations {
		if op.Name == operationName {
			return op
		}
	}
	return nil
}

// setValueAtPath writes value into an already built response tree. Missing
// or nulled containers along the way leave the tree unchanged.
func setValueAtPath(root map[string]any, path Path, value any) {
	if len(path) == 0 {
		return
	}
	var current any = root
	for _, elem := range path[:len(path)-1] {
		switch e := elem.(type) {
		case string:
			m, ok := current.(map[string]any)
			if !ok {
				return
			}
			current = m[e]
		case int:
			s, ok := current.([]any)
			if !ok || e >= len(s) {
				return
			}
			current = s[e]
		}
	}
	switch last := path[len(path)-1].(type) {
	case string:
		if m, ok := current.(map[string]any); ok {
			m[last] = value
		}
	case int:
		if s, ok := current.([]any); ok && last < len(s) {
			s[last] = value
		}
	}
}

func asSlice(v any) ([]any, bool) {
	if direct, ok := v.([]any); ok {
		return direct, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// isNullish reports nil interfaces and typed nils.
func isNullish(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Interface, reflect.Ptr, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
