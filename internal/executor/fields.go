package executor

import (
	language "github.com/hanpama/gqlcoerce/internal/language"
	schema "github.com/hanpama/gqlcoerce/internal/schema"
)

type collectedField struct {
	ResponseName string
	Fields       []*language.Field
}

// collectFields groups the selections applying to objectType by response
// name, in first-seen order.
func (ex *execution) collectFields(objectType *schema.Type, selectionSet language.SelectionSet) []collectedField {
	c := &collector{ex: ex, objectType: objectType, index: map[string]int{}, visited: map[string]bool{}}
	c.collect(selectionSet)
	return c.fields
}

type collector struct {
	ex         *execution
	objectType *schema.Type
	fields     []collectedField
	index      map[string]int
	visited    map[string]bool
}

func (c *collector) collect(selectionSet language.SelectionSet) {
	for _, selection := range selectionSet {
		switch sel := selection.(type) {
		case *language.Field:
			if !c.ex.included(sel.Directives) {
				continue
			}
			c.add(sel)
		case *language.InlineFragment:
			if !c.ex.included(sel.Directives) || !c.applies(sel.TypeCondition) {
				continue
			}
			c.collect(sel.SelectionSet)
		case *language.FragmentSpread:
			if !c.ex.included(sel.Directives) || c.visited[sel.Name] {
				continue
			}
			c.visited[sel.Name] = true
			def := c.ex.document.Fragments.ForName(sel.Name)
			if def == nil || !c.applies(def.TypeCondition) || !c.ex.included(def.Directives) {
				continue
			}
			c.collect(def.SelectionSet)
		}
	}
}

func (c *collector) add(field *language.Field) {
	name := field.Alias
	if name == "" {
		name = field.Name
	}
	if i, ok := c.index[name]; ok {
		c.fields[i].Fields = append(c.fields[i].Fields, field)
		return
	}
	c.index[name] = len(c.fields)
	c.fields = append(c.fields, collectedField{ResponseName: name, Fields: []*language.Field{field}})
}

// applies reports whether a fragment with the given type condition
// selects on the collector's object type.
func (c *collector) applies(typeCondition string) bool {
	if typeCondition == "" || typeCondition == c.objectType.Name {
		return true
	}
	abstract := c.ex.schema.LookupType(typeCondition)
	if abstract == nil {
		return false
	}
	return possibleType(abstract, c.objectType)
}

// included evaluates @skip and @include against the coerced variables.
func (ex *execution) included(directives language.DirectiveList) bool {
	if skip := directives.ForName("skip"); skip != nil && ex.directiveIf(skip) {
		return false
	}
	if include := directives.ForName("include"); include != nil && !ex.directiveIf(include) {
		return false
	}
	return true
}

func (ex *execution) directiveIf(d *language.Directive) bool {
	arg := d.Arguments.ForName("if")
	if arg == nil {
		return false
	}
	b, _ := language.ValueToGo(arg.Value, ex.values).(bool)
	return b
}

func getFieldDefinition(objectType *schema.Type, fieldName string) *schema.Field {
	for _, field := range objectType.Fields {
		if field.Name == fieldName {
			return field
		}
	}
	return nil
}
