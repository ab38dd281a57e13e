package variables

import (
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/hanpama/gqlcoerce/internal/language"
	"github.com/hanpama/gqlcoerce/internal/schema"
)

var ignoreLocation = cmpopts.IgnoreFields(Error{}, "Location")

func parseDefs(t *testing.T, query string) language.VariableDefinitionList {
	t.Helper()
	doc, err := language.ParseQuery(query)
	require.NoError(t, err)
	require.Len(t, doc.Operations, 1)
	return doc.Operations[0].VariableDefinitions
}

func fatal(msg string) *Error    { return &Error{Message: msg, Severity: SeverityFatal} }
func advisory(msg string) *Error { return &Error{Message: msg, Severity: SeverityAdvisory} }

// newTestRegistry builds:
//
//	input ContactInput { email: String!, address: String @deprecated, phone: String @deprecated(reason: "use email") }
//	input FilterInput { limit: Int = 10, color: Color! = RED, tags: [String!] = ["a"], contact: ContactInput }
//	input Pick @oneOf { a: String, b: Int }
//	input Node { value: Int, next: Node = {} }
//	enum Color { RED, GREEN @deprecated(reason: "gone") }
//	type User { id: ID }
func newTestRegistry() *schema.Schema {
	s := schema.NewSchema("")

	contact := schema.NewType("ContactInput", schema.TypeKindInputObject, "")
	contact.AddInputField(schema.NewInputValue("email", "", schema.NonNullType(schema.NamedType("String"))))
	contact.AddInputField(schema.NewInputValue("address", "", schema.NamedType("String")).Deprecate(""))
	contact.AddInputField(schema.NewInputValue("phone", "", schema.NamedType("String")).Deprecate("use email"))
	s.AddType(contact)

	filter := schema.NewType("FilterInput", schema.TypeKindInputObject, "")
	filter.AddInputField(schema.NewInputValue("limit", "", schema.NamedType("Int")).SetDefault(10))
	filter.AddInputField(schema.NewInputValue("color", "", schema.NonNullType(schema.NamedType("Color"))).SetDefault("RED"))
	filter.AddInputField(schema.NewInputValue("tags", "", schema.ListType(schema.NonNullType(schema.NamedType("String")))).SetDefault([]any{"a"}))
	filter.AddInputField(schema.NewInputValue("contact", "", schema.NamedType("ContactInput")))
	s.AddType(filter)

	pick := schema.NewType("Pick", schema.TypeKindInputObject, "").SetOneOf(true)
	pick.AddInputField(schema.NewInputValue("a", "", schema.NamedType("String")))
	pick.AddInputField(schema.NewInputValue("b", "", schema.NamedType("Int")))
	s.AddType(pick)

	node := schema.NewType("Node", schema.TypeKindInputObject, "")
	node.AddInputField(schema.NewInputValue("value", "", schema.NamedType("Int")))
	node.AddInputField(schema.NewInputValue("next", "", schema.NamedType("Node")).SetDefault(map[string]any{}))
	s.AddType(node)

	color := schema.NewType("Color", schema.TypeKindEnum, "")
	color.AddEnumValue(schema.NewEnumValue("RED", ""))
	color.AddEnumValue(schema.NewEnumValue("GREEN", "").Deprecate("gone"))
	s.AddType(color)

	s.AddType(schema.NewType("User", schema.TypeKindObject, ""))
	return s
}
