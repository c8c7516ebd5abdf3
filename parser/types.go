package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/ardanlabs/bindgen/cast"
)

var builtinTypes = map[string]cast.TypeKind{
	"void":   cast.Void,
	"char":   cast.CharS,
	"int":    cast.Int,
	"float":  cast.Float,
	"double": cast.Double,
	"bool":   cast.Bool,
	"_Bool":  cast.Bool,
}

// Names tree-sitter lexes as primitive types that C headers get from
// <stdint.h> and <stddef.h>. They surface as typedefs over the LP64 builtin,
// which is what a compiler-backed frontend reports.
var standardTypedefs = map[string]cast.TypeKind{
	"int8_t":         cast.SChar,
	"uint8_t":        cast.UChar,
	"int16_t":        cast.Short,
	"uint16_t":       cast.UShort,
	"int32_t":        cast.Int,
	"uint32_t":       cast.UInt,
	"int64_t":        cast.Long,
	"uint64_t":       cast.ULong,
	"int_least8_t":   cast.SChar,
	"uint_least8_t":  cast.UChar,
	"int_least16_t":  cast.Short,
	"uint_least16_t": cast.UShort,
	"int_least32_t":  cast.Int,
	"uint_least32_t": cast.UInt,
	"int_least64_t":  cast.Long,
	"uint_least64_t": cast.ULong,
	"int_fast8_t":    cast.SChar,
	"uint_fast8_t":   cast.UChar,
	"int_fast16_t":   cast.Long,
	"uint_fast16_t":  cast.ULong,
	"int_fast32_t":   cast.Long,
	"uint_fast32_t":  cast.ULong,
	"int_fast64_t":   cast.Long,
	"uint_fast64_t":  cast.ULong,
	"intmax_t":       cast.Long,
	"uintmax_t":      cast.ULong,
	"intptr_t":       cast.Long,
	"uintptr_t":      cast.ULong,
	"size_t":         cast.ULong,
	"ssize_t":        cast.Long,
	"ptrdiff_t":      cast.Long,
	"char16_t":       cast.UShort,
	"char32_t":       cast.UInt,
}

func tagKeyword(spec *sitter.Node) string {
	return strings.TrimSuffix(spec.Kind(), "_specifier")
}

func tagCursorKind(keyword string) cast.CursorKind {
	switch keyword {
	case "enum":
		return cast.EnumDecl
	case "union":
		return cast.UnionDecl
	}
	return cast.StructDecl
}

func tagType(keyword string, decl *cast.Node, spelling string) *cast.TypeNode {
	if keyword == "enum" {
		return cast.EnumOf(decl, spelling)
	}
	return cast.RecordOf(decl, spelling)
}

// typeSpecifier returns the type named by a specifier and the cursor a
// typedef of it carries as child: the aggregate it defines or a TypeRef to
// the tag or typedef it names. Aggregates defined here are appended to
// scope. typedefName names an anonymous aggregate.
func (b *builder) typeSpecifier(n *sitter.Node, scope *cast.Node, typedefName string) (*cast.TypeNode, *cast.Node) {
	text := b.text(n)

	switch n.Kind() {
	case "primitive_type":
		if kind, ok := builtinTypes[text]; ok {
			return cast.Primitive(kind), nil
		}
		if kind, ok := standardTypedefs[text]; ok {
			return cast.TypedefOf(text, cast.Primitive(kind), nil), nil
		}
		return cast.NewType(cast.Unexposed, text), nil

	case "sized_type_specifier":
		return cast.Primitive(b.sized(n)), nil

	case "type_identifier":
		td, ok := b.typedefs[text]
		if !ok {
			return cast.NewType(cast.Unexposed, text), nil
		}
		ref := cast.NewNode(cast.TypeRef, text).SetReferenced(td)
		return td.TypeNode(), b.place(ref, n)

	case "struct_specifier", "union_specifier", "enum_specifier":
		return b.tagSpecifier(n, scope, typedefName)
	}

	return cast.NewType(cast.Unexposed, text), nil
}

// sized computes the builtin named by a run of signed, unsigned, short and
// long keywords with an optional base type.
func (b *builder) sized(n *sitter.Node) cast.TypeKind {
	var unsigned, signed bool
	var longs, shorts int
	base := "int"

	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		switch child.Kind() {
		case "unsigned":
			unsigned = true
		case "signed":
			signed = true
		case "long":
			longs++
		case "short":
			shorts++
		case "primitive_type":
			base = b.text(child)
		}
	}

	switch {
	case base == "char" && unsigned:
		return cast.UChar
	case base == "char" && signed:
		return cast.SChar
	case base == "char":
		return cast.CharS
	case base == "double" && longs > 0:
		return cast.LongDouble
	case base == "double":
		return cast.Double
	case shorts > 0 && unsigned:
		return cast.UShort
	case shorts > 0:
		return cast.Short
	case longs > 1 && unsigned:
		return cast.ULongLong
	case longs > 1:
		return cast.LongLong
	case longs == 1 && unsigned:
		return cast.ULong
	case longs == 1:
		return cast.Long
	case unsigned:
		return cast.UInt
	}
	return cast.Int
}

func (b *builder) tagSpecifier(n *sitter.Node, scope *cast.Node, typedefName string) (*cast.TypeNode, *cast.Node) {
	keyword := tagKeyword(n)
	name := b.text(n.ChildByFieldName("name"))
	body := n.ChildByFieldName("body")

	if body == nil {
		if name == "" {
			return cast.NewType(cast.Unexposed, b.text(n)), nil
		}
		t := b.lookupTag(keyword, name, n)
		spelling := keyword + " " + name
		ref := cast.NewNode(cast.TypeRef, spelling).SetReferenced(t.target())
		return cast.ElaboratedOf(t.typ, spelling), b.place(ref, n)
	}

	def := cast.NewNode(tagCursorKind(keyword), name)
	b.place(def, n)
	def.MarkDefinition()

	var typ *cast.TypeNode
	spelling := keyword + " " + name
	if name != "" {
		key := spelling
		t, ok := b.tags[key]
		switch {
		case !ok:
			t = &tag{typ: tagType(keyword, def, name)}
			b.tags[key] = t
			t.def = def
		case t.def == nil:
			for _, d := range t.decls {
				d.SetDefinition(def)
			}
			t.typ.SetDeclaration(def)
			t.def = def
		}
		t.decls = append(t.decls, def)
		typ = t.typ
	} else {
		spelling = typedefName
		if spelling == "" {
			spelling = cast.AnonymousSpelling(keyword, def.Location())
		}
		typ = tagType(keyword, def, spelling)
	}
	def.SetType(typ)

	// Registered before the body so a struct can point at itself.
	b.body(def, body)
	scope.Append(def)

	return cast.ElaboratedOf(typ, spelling), def
}

// lookupTag returns the tag, declaring it on the translation unit the first
// time it is mentioned, as C gives such tags file scope.
func (b *builder) lookupTag(keyword, name string, n *sitter.Node) *tag {
	if t, ok := b.tags[keyword+" "+name]; ok {
		return t
	}
	return b.forward(keyword, name, n)
}

// forward appends a non-defining declaration of a tag to the translation
// unit.
func (b *builder) forward(keyword, name string, n *sitter.Node) *tag {
	c := cast.NewNode(tagCursorKind(keyword), name)
	b.place(c, n)

	key := keyword + " " + name
	t, ok := b.tags[key]
	if !ok {
		t = &tag{typ: tagType(keyword, c, name)}
		b.tags[key] = t
	}
	if t.def != nil {
		c.SetDefinition(t.def)
	}
	c.SetType(t.typ)
	t.decls = append(t.decls, c)

	b.root.Append(c)
	return t
}

// declared is the result of applying a declarator to a base type.
type declared struct {
	name string
	typ  *cast.TypeNode

	// params are the ParmDecls of the function declarator closest to the
	// name.
	params []*cast.Node
}

// declare applies declarator d to base. Declarators nest outermost first,
// so each level wraps base and hands it inward until the name is reached.
func (b *builder) declare(d *sitter.Node, base *cast.TypeNode) declared {
	if d == nil {
		return declared{typ: base}
	}

	switch d.Kind() {
	case "identifier", "type_identifier", "field_identifier", "primitive_type":
		return declared{name: b.text(d), typ: base}

	case "pointer_declarator", "abstract_pointer_declarator":
		return b.declare(d.ChildByFieldName("declarator"), cast.PointerTo(base))

	case "array_declarator", "abstract_array_declarator":
		size := int64(-1)
		if n := d.ChildByFieldName("size"); n != nil {
			if v, ok := b.evalConst(n); ok && v >= 0 {
				size = v
			}
		}
		return b.declare(d.ChildByFieldName("declarator"), cast.ArrayOf(base, size))

	case "function_declarator", "abstract_function_declarator":
		fn, params := b.function(base, d.ChildByFieldName("parameters"))
		decl := b.declare(d.ChildByFieldName("declarator"), fn)
		if decl.params == nil {
			decl.params = params
		}
		return decl

	case "init_declarator":
		return b.declare(d.ChildByFieldName("declarator"), base)

	case "parenthesized_declarator", "abstract_parenthesized_declarator", "attributed_declarator":
		return b.declare(firstDeclarator(d), base)
	}

	return declared{typ: base}
}

// function builds the type of a function declarator and its parameter
// cursors. "(void)" yields a single unnamed void parameter and a function
// type without parameters; "()" yields a function without a prototype.
func (b *builder) function(result *cast.TypeNode, list *sitter.Node) (*cast.TypeNode, []*cast.Node) {
	if list == nil {
		return cast.FunctionNoProtoOf(result), []*cast.Node{}
	}

	params := []*cast.Node{}
	var types []*cast.TypeNode
	variadic := false

	for i := uint(0); i < list.ChildCount(); i++ {
		child := list.Child(i)
		switch child.Kind() {
		case "parameter_declaration":
			p := b.parameter(child)
			params = append(params, p)
			types = append(types, p.TypeNode())
		case "variadic_parameter", "...":
			variadic = true
		}
	}

	switch {
	case len(params) == 0 && !variadic:
		return cast.FunctionNoProtoOf(result), params
	case len(params) == 1 && params[0].Spelling() == "" && types[0].Kind() == cast.Void:
		return cast.FunctionOf(result, nil, false), params
	}
	return cast.FunctionOf(result, types, variadic), params
}

func (b *builder) parameter(n *sitter.Node) *cast.Node {
	base := cast.NewType(cast.Unexposed, "")
	if spec := n.ChildByFieldName("type"); spec != nil {
		base, _ = b.typeSpecifier(spec, b.root, "")
	}

	decl := b.declare(n.ChildByFieldName("declarator"), base)
	p := cast.NewNode(cast.ParmDecl, decl.name).SetType(decl.typ.Decay())
	return b.place(p, n)
}

// firstDeclarator returns the declarator wrapped by a parenthesized or
// attributed declarator.
func firstDeclarator(d *sitter.Node) *sitter.Node {
	for i := uint(0); i < d.NamedChildCount(); i++ {
		child := d.NamedChild(i)
		kind := child.Kind()
		switch {
		case kind == "identifier", kind == "type_identifier", kind == "field_identifier":
			return child
		case strings.HasSuffix(kind, "_declarator"):
			return child
		}
	}
	return nil
}
