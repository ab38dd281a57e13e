package introspection

import (
	"github.com/hanpama/gqlcoerce/internal/schema"
)

var (
	stringRef  = schema.NamedType("String")
	booleanRef = schema.NonNullType(schema.NamedType("Boolean"))
	typeRef    = schema.NamedType("__Type")
)

func nonNull(name string) *schema.TypeRef { return schema.NonNullType(schema.NamedType(name)) }

// listOf returns [name!] or [name!]! when required.
func listOf(name string, required bool) *schema.TypeRef {
	ref := schema.ListType(nonNull(name))
	if required {
		return schema.NonNullType(ref)
	}
	return ref
}

func includeDeprecated() *schema.InputValue {
	return schema.NewInputValue("includeDeprecated", "", schema.NamedType("Boolean")).SetDefault(false)
}

// extend returns a copy of original with the introspection types and the
// __schema and __type fields on the query type. original is not modified.
func extend(original *schema.Schema) *schema.Schema {
	extended := schema.NewSchema(original.Description)
	extended.SetQueryType(original.QueryType).
		SetMutationType(original.MutationType).
		SetSubscriptionType(original.SubscriptionType)
	for _, t := range original.Types {
		extended.AddType(t)
	}
	for _, t := range metaTypes() {
		extended.AddType(t)
	}

	if query := original.GetQueryType(); query != nil {
		root := *query
		root.Fields = append(append([]*schema.Field(nil), query.Fields...),
			schema.NewField("__schema", "Access the current type schema of this server.", nonNull("__Schema")),
			schema.NewField("__type", "Request the type information of a single type.", typeRef).
				AddArgument(schema.NewInputValue("name", "", nonNull("String"))),
		)
		extended.AddType(&root)
	}
	return extended
}

func metaTypes() []*schema.Type {
	return []*schema.Type{
		schema.NewType("__Schema", schema.TypeKindObject, "A GraphQL Schema defines the capabilities of a GraphQL server.").
			AddField(schema.NewField("description", "", stringRef)).
			AddField(schema.NewField("types", "A list of all types supported by this server.", listOf("__Type", true))).
			AddField(schema.NewField("queryType", "The type that query operations will be rooted at.", nonNull("__Type"))).
			AddField(schema.NewField("mutationType", "", typeRef)).
			AddField(schema.NewField("subscriptionType", "", typeRef)).
			AddField(schema.NewField("directives", "A list of all directives supported by this server.", listOf("__Directive", true))),

		schema.NewType("__Type", schema.TypeKindObject, "").
			AddField(schema.NewField("kind", "", nonNull("__TypeKind"))).
			AddField(schema.NewField("name", "", stringRef)).
			AddField(schema.NewField("description", "", stringRef)).
			AddField(schema.NewField("specifiedByURL", "", stringRef)).
			AddField(schema.NewField("fields", "", listOf("__Field", false)).AddArgument(includeDeprecated())).
			AddField(schema.NewField("interfaces", "", listOf("__Type", false))).
			AddField(schema.NewField("possibleTypes", "", listOf("__Type", false))).
			AddField(schema.NewField("enumValues", "", listOf("__EnumValue", false)).AddArgument(includeDeprecated())).
			AddField(schema.NewField("inputFields", "", listOf("__InputValue", false)).AddArgument(includeDeprecated())).
			AddField(schema.NewField("ofType", "", typeRef)).
			AddField(schema.NewField("isOneOf", "", schema.NamedType("Boolean"))),

		schema.NewType("__Field", schema.TypeKindObject, "").
			AddField(schema.NewField("name", "", nonNull("String"))).
			AddField(schema.NewField("description", "", stringRef)).
			AddField(schema.NewField("args", "", listOf("__InputValue", true)).AddArgument(includeDeprecated())).
			AddField(schema.NewField("type", "", nonNull("__Type"))).
			AddField(schema.NewField("isDeprecated", "", booleanRef)).
			AddField(schema.NewField("deprecationReason", "", stringRef)),

		schema.NewType("__InputValue", schema.TypeKindObject, "").
			AddField(schema.NewField("name", "", nonNull("String"))).
			AddField(schema.NewField("description", "", stringRef)).
			AddField(schema.NewField("type", "", nonNull("__Type"))).
			AddField(schema.NewField("defaultValue", "A GraphQL-formatted string representing the default value for this input value.", stringRef)).
			AddField(schema.NewField("isDeprecated", "", booleanRef)).
			AddField(schema.NewField("deprecationReason", "", stringRef)),

		schema.NewType("__EnumValue", schema.TypeKindObject, "").
			AddField(schema.NewField("name", "", nonNull("String"))).
			AddField(schema.NewField("description", "", stringRef)).
			AddField(schema.NewField("isDeprecated", "", booleanRef)).
			AddField(schema.NewField("deprecationReason", "", stringRef)),

		schema.NewType("__Directive", schema.TypeKindObject, "").
			AddField(schema.NewField("name", "", nonNull("String"))).
			AddField(schema.NewField("description", "", stringRef)).
			AddField(schema.NewField("isRepeatable", "", booleanRef)).
			AddField(schema.NewField("locations", "", listOf("__DirectiveLocation", true))).
			AddField(schema.NewField("args", "", listOf("__InputValue", true)).AddArgument(includeDeprecated())),

		enum("__TypeKind",
			"SCALAR", "OBJECT", "INTERFACE", "UNION", "ENUM", "INPUT_OBJECT", "LIST", "NON_NULL"),

		enum("__DirectiveLocation",
			"QUERY", "MUTATION", "SUBSCRIPTION", "FIELD", "FRAGMENT_DEFINITION", "FRAGMENT_SPREAD",
			"INLINE_FRAGMENT", "VARIABLE_DEFINITION", "SCHEMA", "SCALAR", "OBJECT", "FIELD_DEFINITION",
			"ARGUMENT_DEFINITION", "INTERFACE", "UNION", "ENUM", "ENUM_VALUE", "INPUT_OBJECT",
			"INPUT_FIELD_DEFINITION"),
	}
}

func enum(name string, values ...string) *schema.Type {
	t := schema.NewType(name, schema.TypeKindEnum, "")
	for _, v := range values {
		t.AddEnumValue(schema.NewEnumValue(v, ""))
	}
	return t
}

// directive describes one of the directives the executor understands.
type directive struct {
	name        string
	description string
	locations   []string
	args        []*schema.InputValue
	repeatable  bool
}

var directives = []*directive{
	{
		name:        "deprecated",
		description: "Marks an element of a GraphQL schema as no longer supported.",
		locations:   []string{"FIELD_DEFINITION", "ARGUMENT_DEFINITION", "INPUT_FIELD_DEFINITION", "ENUM_VALUE"},
		args: []*schema.InputValue{
			withLiteral(schema.NewInputValue("reason", "", stringRef).SetDefault("No longer supported"), `"No longer supported"`),
		},
	},
	{
		name:        "include",
		description: "Directs the executor to include this field or fragment only when the `if` argument is true.",
		locations:   []string{"FIELD", "FRAGMENT_SPREAD", "INLINE_FRAGMENT"},
		args:        []*schema.InputValue{schema.NewInputValue("if", "Included when true.", booleanRef)},
	},
	{
		name:        "oneOf",
		description: "Indicates exactly one field must be supplied and this field must not be `null`.",
		locations:   []string{"INPUT_OBJECT"},
	},
	{
		name:        "skip",
		description: "Directs the executor to skip this field or fragment when the `if` argument is true.",
		locations:   []string{"FIELD", "FRAGMENT_SPREAD", "INLINE_FRAGMENT"},
		args:        []*schema.InputValue{schema.NewInputValue("if", "Skipped when true.", booleanRef)},
	},
}

func withLiteral(v *schema.InputValue, literal string) *schema.InputValue {
	v.DefaultLiteral = literal
	return v
}
