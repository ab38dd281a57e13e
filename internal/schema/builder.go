package schema

import (
	"strings"

	"github.com/hanpama/gqlcoerce/internal/language"
)

// BuildFromSDL loads and validates SDL and returns the corresponding Schema.
func BuildFromSDL(sdl string) (*Schema, error) {
	doc, err := language.LoadSchema("schema.graphql", sdl)
	if err != nil {
		return nil, err
	}
	return BuildFromAST(doc), nil
}

// BuildFromAST converts a validated gqlparser schema. Introspection types
// and meta fields are left out; builtin scalars keep their parse functions.
// Fields carrying an @async directive are resolved in batches by the
// executor; the directive must be declared in the SDL.
func BuildFromAST(doc *language.Schema) *Schema {
	s := NewSchema(doc.Description)
	if doc.Query != nil {
		s.SetQueryType(doc.Query.Name)
	}
	if doc.Mutation != nil {
		s.SetMutationType(doc.Mutation.Name)
	}
	if doc.Subscription != nil {
		s.SetSubscriptionType(doc.Subscription.Name)
	}
	for name, def := range doc.Types {
		if strings.HasPrefix(name, "__") || IsBuiltinScalar(name) {
			continue
		}
		switch def.Kind {
		case language.Object, language.Interface:
			s.AddType(buildComposite(def))
		case language.Union:
			t := NewType(def.Name, TypeKindUnion, def.Description)
			for _, name := range def.Types {
				t.AddPossibleType(name)
			}
			s.AddType(t)
		case language.Enum:
			s.AddType(buildEnum(def))
		case language.InputObject:
			s.AddType(buildInput(def))
		case language.Scalar:
			s.AddType(NewType(def.Name, TypeKindScalar, def.Description))
		}
	}
	for name, defs := range doc.PossibleTypes {
		t := s.Types[name]
		if t == nil || t.Kind != TypeKindInterface {
			continue
		}
		for _, def := range defs {
			t.AddPossibleType(def.Name)
		}
	}
	return s
}

func buildComposite(def *language.Definition) *Type {
	kind := TypeKindObject
	if def.Kind == language.Interface {
		kind = TypeKindInterface
	}
	t := NewType(def.Name, kind, def.Description)
	for _, name := range def.Interfaces {
		t.AddInterface(name)
	}
	for _, fd := range def.Fields {
		if strings.HasPrefix(fd.Name, "__") {
			continue
		}
		f := NewField(fd.Name, fd.Description, buildTypeRef(fd.Type))
		if ok, reason := deprecation(fd.Directives); ok {
			f.Deprecate(reason)
		}
		if fd.Directives.ForName("async") != nil {
			f.SetAsync(true)
		}
		for _, arg := range fd.Arguments {
			in := NewInputValue(arg.Name, arg.Description, buildTypeRef(arg.Type))
			if arg.DefaultValue != nil {
				in.SetDefault(language.ValueToGo(arg.DefaultValue, nil))
				in.DefaultLiteral = arg.DefaultValue.String()
			}
			if ok, reason := deprecation(arg.Directives); ok {
				in.Deprecate(reason)
			}
			f.AddArgument(in)
		}
		t.AddField(f)
	}
	return t
}

func buildEnum(def *language.Definition) *Type {
	t := NewType(def.Name, TypeKindEnum, def.Description)
	for _, v := range def.EnumValues {
		e := NewEnumValue(v.Name, v.Description)
		if ok, reason := deprecation(v.Directives); ok {
			e.Deprecate(reason)
		}
		t.AddEnumValue(e)
	}
	return t
}

func buildInput(def *language.Definition) *Type {
	t := NewType(def.Name, TypeKindInputObject, def.Description).
		SetOneOf(def.Directives.ForName("oneOf") != nil)
	for _, fd := range def.Fields {
		in := NewInputValue(fd.Name, fd.Description, buildTypeRef(fd.Type))
		if fd.DefaultValue != nil {
			in.SetDefault(language.ValueToGo(fd.DefaultValue, nil))
			in.DefaultLiteral = fd.DefaultValue.String()
		}
		if ok, reason := deprecation(fd.Directives); ok {
			in.Deprecate(reason)
		}
		t.AddInputField(in)
	}
	return t
}

// deprecation reads @deprecated. Only an explicit reason argument is
// reported; the directive's declared default is not applied.
func deprecation(dirs language.DirectiveList) (bool, string) {
	d := dirs.ForName("deprecated")
	if d == nil {
		return false, ""
	}
	if arg := d.Arguments.ForName("reason"); arg != nil && arg.Value != nil {
		if reason, ok := language.ValueToGo(arg.Value, nil).(string); ok {
			return true, reason
		}
	}
	return true, ""
}

// BuildTypeRef converts a parsed type reference such as "[String!]!".
func BuildTypeRef(t *language.Type) *TypeRef { return buildTypeRef(t) }

func buildTypeRef(t *language.Type) *TypeRef {
	if t == nil {
		return nil
	}
	var ref *TypeRef
	if t.Elem != nil {
		ref = ListType(buildTypeRef(t.Elem))
	} else {
		ref = NamedType(t.NamedType)
	}
	if t.NonNull {
		return NonNullType(ref)
	}
	return ref
}
