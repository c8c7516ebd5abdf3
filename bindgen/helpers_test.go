package bindgen

import "github.com/ardanlabs/bindgen/cast"

// Builders for the cursor shapes a C frontend produces. They mirror the
// tree libclang hands out for the same source text.

func tu(children ...*cast.Node) *cast.Node {
	return cast.NewTranslationUnit("test.h").Append(children...)
}

func prim(kind cast.TypeKind) *cast.TypeNode {
	return cast.Primitive(kind)
}

func ptr(t *cast.TypeNode) *cast.TypeNode {
	return cast.PointerTo(t)
}

// structDef declares struct name { fields }.
func structDef(name string, fields ...*cast.Node) *cast.Node {
	n := cast.NewNode(cast.StructDecl, name).MarkDefinition()
	n.SetType(cast.RecordOf(n, name))
	return n.Append(fields...)
}

// structFwd declares struct name; with def as the later definition, or nil.
func structFwd(name string, def *cast.Node) *cast.Node {
	n := cast.NewNode(cast.StructDecl, name)
	if def != nil {
		n.SetDefinition(def)
		n.SetType(def.TypeNode())
		return n
	}
	return n.SetType(cast.RecordOf(n, name))
}

// recordRef is the type written as "struct name".
func recordRef(decl *cast.Node) *cast.TypeNode {
	return cast.ElaboratedOf(decl.TypeNode(), "struct "+decl.Spelling())
}

func field(name string, t *cast.TypeNode) *cast.Node {
	return cast.NewNode(cast.FieldDecl, name).SetType(t)
}

func enumDef(name string, constants ...*cast.Node) *cast.Node {
	n := cast.NewNode(cast.EnumDecl, name).MarkDefinition()
	n.SetType(cast.EnumOf(n, name))
	return n.Append(constants...)
}

func constant(name string, value ...*cast.Node) *cast.Node {
	return cast.NewNode(cast.EnumConstantDecl, name).Append(value...)
}

func literal(text string) *cast.Node {
	return cast.NewNode(cast.IntegerLiteral, "").SetExtent(text)
}

func declRef(name string) *cast.Node {
	return cast.NewNode(cast.DeclRefExpr, name).SetExtent(name)
}

func binary(text string, lhs, rhs *cast.Node) *cast.Node {
	return cast.NewNode(cast.BinaryOperator, "").SetExtent(text).Append(lhs, rhs)
}

func typedef(name string, underlying *cast.TypeNode, children ...*cast.Node) *cast.Node {
	return cast.NewNode(cast.TypedefDecl, name).SetUnderlying(underlying).Append(children...)
}

// typedefType is the type of a use of the typedef declared by decl.
func typedefType(decl *cast.Node) *cast.TypeNode {
	return cast.TypedefOf(decl.Spelling(), decl.UnderlyingType().(*cast.TypeNode), decl)
}

func typeRef(to *cast.Node) *cast.Node {
	return cast.NewNode(cast.TypeRef, "struct "+to.Spelling()).SetReferenced(to)
}

func function(name string, result *cast.TypeNode, variadic bool, params ...*cast.Node) *cast.Node {
	types := make([]*cast.TypeNode, len(params))
	for i, p := range params {
		types[i] = p.TypeNode()
	}
	return cast.NewNode(cast.FunctionDecl, name).
		SetType(cast.FunctionOf(result, types, variadic)).
		Append(params...)
}

func param(name string, t *cast.TypeNode) *cast.Node {
	return cast.NewNode(cast.ParmDecl, name).SetType(t)
}

func lines(d Decl) []string {
	return d.(*EnumDecl).Lines()
}
