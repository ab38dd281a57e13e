// Package fixturert serves GraphQL fields from a static JSON document.
//
// A field resolves to the value stored under its name in the parent
// object. Root fields read from the document itself. Abstract types are
// resolved from a "__typename" key.
package fixturert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	executor "github.com/hanpama/gqlcoerce/internal/executor"
)

type Runtime struct {
	root map[string]any
}

var _ executor.Runtime = (*Runtime)(nil)

// New returns a Runtime over root.
func New(root map[string]any) *Runtime { return &Runtime{root: root} }

// Load decodes a fixture document from r. Numbers are kept as json.Number.
func Load(r io.Reader) (*Runtime, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var root map[string]any
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return New(root), nil
}

// LoadFile reads a fixture document from path.
func LoadFile(path string) (*Runtime, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(bytes.NewReader(data))
}

func (r *Runtime) lookup(objectType, field string, source any) (any, error) {
	if source == nil {
		return r.root[field], nil
	}
	obj, ok := source.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s.%s: source is %T, not an object", objectType, field, source)
	}
	return obj[field], nil
}

func (r *Runtime) ResolveSync(ctx context.Context, objectType string, field string, source any, args map[string]any) (any, error) {
	return r.lookup(objectType, field, source)
}

func (r *Runtime) BatchResolveAsync(ctx context.Context, tasks []executor.AsyncResolveTask) []executor.AsyncResolveResult {
	results := make([]executor.AsyncResolveResult, len(tasks))
	for i, t := range tasks {
		if err := ctx.Err(); err != nil {
			results[i] = executor.AsyncResolveResult{Error: err}
			continue
		}
		v, err := r.lookup(t.ObjectType, t.Field, t.Source)
		results[i] = executor.AsyncResolveResult{Value: v, Error: err}
	}
	return results
}

func (r *Runtime) ResolveType(ctx context.Context, abstractType string, value any) (string, error) {
	if obj, ok := value.(map[string]any); ok {
		if name, ok := obj["__typename"].(string); ok {
			return name, nil
		}
	}
	return "", fmt.Errorf("value of %s has no __typename", abstractType)
}

func (r *Runtime) SerializeLeafValue(ctx context.Context, scalarOrEnumTypeName string, value any) (any, error) {
	return value, nil
}
