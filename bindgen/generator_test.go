package bindgen

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardanlabs/bindgen/cast"
)

// ==============================================================================
// Enums
// ==============================================================================

func TestEnumValueRendering(t *testing.T) {
	// enum A { X, Y, Z = X | Y };
	root := tu(enumDef("A",
		constant("X"),
		constant("Y"),
		constant("Z", binary("X | Y", declRef("X"), declRef("Y"))),
	))

	res := Generate(root, Options{})
	require.Empty(t, res.Diagnostics)
	require.Equal(t, 1, res.Document.Len())

	assert.Equal(t, []string{"X,", "Y,", "Z = X | Y"}, lines(res.Document.Decls()[0]))

	target, ok := res.Symbols.Lookup("A")
	assert.True(t, ok)
	assert.Equal(t, "A", target)
}

func TestEnumInitializerShapes(t *testing.T) {
	tests := []struct {
		name  string
		value *cast.Node
		want  string
	}{
		{"literal", literal("0x10"), "V = 0x10"},
		{"negative", cast.NewNode(cast.UnaryOperator, "").SetExtent("-1").Append(literal("1")), "V = -1"},
		{"parenthesized", cast.NewNode(cast.ParenExpr, "").SetExtent("(1 << 4)"), "V = (1 << 4)"},
		{"reference", declRef("OTHER"), "V = OTHER"},
		{"literal shift", binary("1 << 3", literal("1"), literal("3")), "V = 1 << 3"},
		{"reference shift", binary("A<<B", declRef("A"), declRef("B")), "V = A << B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Generate(tu(enumDef("E", constant("V", tt.value))), Options{})
			assert.Empty(t, res.Diagnostics)
			assert.Equal(t, []string{tt.want}, lines(res.Document.Decls()[0]))
		})
	}
}

func TestEnumUnsupportedInitializer(t *testing.T) {
	ternary := cast.NewNode(cast.ConditionalOperator, "").SetExtent("1 ? 2 : 3")
	mixed := binary("A + 1", declRef("A"), literal("1"))

	res := Generate(tu(enumDef("E",
		constant("T", ternary),
		constant("M", mixed),
		constant("Ok", literal("7")),
	)), Options{})

	assert.Equal(t, 2, res.Count(UnsupportedShape))
	assert.Equal(t, []string{"T = 1 ? 2 : 3,", "M = A + 1,", "Ok = 7"}, lines(res.Document.Decls()[0]))
}

func TestEnumEmptyAndMalformed(t *testing.T) {
	res := Generate(tu(enumDef("Empty")), Options{})
	require.Empty(t, res.Diagnostics)
	assert.Empty(t, lines(res.Document.Decls()[0]))

	res = Generate(tu(enumDef("Bad", constant("A"), field("x", prim(cast.Int)))), Options{})
	assert.Equal(t, 1, res.Count(InvariantViolation))
	assert.Equal(t, []string{"A"}, lines(res.Document.Decls()[0]))
}

func TestAnonymousEnumThroughTypedef(t *testing.T) {
	// typedef enum { RED, GREEN } Color;
	anon := cast.NewNode(cast.EnumDecl, "").MarkDefinition()
	anon.SetType(cast.EnumOf(anon, "Color"))
	anon.Append(constant("RED"), constant("GREEN"))

	root := tu(anon, typedef("Color", cast.ElaboratedOf(anon.TypeNode(), "Color"), anon))

	res := Generate(root, Options{})
	require.Empty(t, res.Diagnostics)
	require.Equal(t, 1, res.Document.Len())
	assert.Equal(t, "Color", res.Document.Decls()[0].DeclName())
}

// ==============================================================================
// Structs
// ==============================================================================

func TestSelfReferentialStruct(t *testing.T) {
	// struct Node { struct Node* next; };
	node := structDef("Node")
	node.Append(field("next", ptr(recordRef(node))))

	res := Generate(tu(node), Options{})
	assert.Equal(t, 0, res.Count(UnresolvedSymbol))

	decl := res.Document.Decls()[0].(*StructDecl)
	assert.Equal(t, []Field{{Name: "next", Type: "Node*"}}, decl.Fields)
	assert.True(t, decl.Unsafe)
}

func TestAnonymousStructThroughTypedef(t *testing.T) {
	// typedef struct { int a; } A;
	anon := cast.NewNode(cast.StructDecl, "").MarkDefinition()
	anon.SetType(cast.RecordOf(anon, "A"))
	anon.Append(field("a", prim(cast.Int)))

	root := tu(anon, typedef("A", cast.ElaboratedOf(anon.TypeNode(), "A"), anon))

	res := Generate(root, Options{})
	require.Empty(t, res.Diagnostics)

	target, ok := res.Symbols.Lookup("A")
	require.True(t, ok)
	assert.Equal(t, "A", target)

	decl := res.Document.Decls()[0].(*StructDecl)
	assert.Equal(t, "A", decl.Name)
	assert.Equal(t, []Field{{Name: "a", Type: "int"}}, decl.Fields)
	assert.False(t, decl.Unsafe)
}

func TestStructFields(t *testing.T) {
	point := structDef("Point", field("x", prim(cast.Float)), field("y", prim(cast.Float)))
	shape := structDef("Shape",
		field("origin", recordRef(point)),
		field("ptrs", cast.ArrayOf(ptr(prim(cast.Void)), 4)),
		field("name", cast.ArrayOf(prim(cast.CharS), 32)),
		field("string", ptr(prim(cast.CharS))),
		field("cb", ptr(cast.FunctionOf(prim(cast.Void), nil, false))),
	)

	res := Generate(tu(point, shape), Options{})
	require.Empty(t, res.Diagnostics)

	assert.False(t, res.Document.Decls()[0].(*StructDecl).Unsafe)

	decl := res.Document.Decls()[1].(*StructDecl)
	assert.True(t, decl.Unsafe)
	assert.Equal(t, []Field{
		{Name: "origin", Type: "Point"},
		{Name: "ptrs", Type: "ulong", Suffix: "[4]"},
		{Name: "name", Type: "sbyte", Suffix: "[32]"},
		{Name: "@string", Type: "sbyte*"},
		{Name: "cb", Type: "IntPtr"},
	}, decl.Fields)
}

func TestFunctionPointerFieldIsNotUnsafe(t *testing.T) {
	s := structDef("Ops", field("run", ptr(cast.FunctionOf(prim(cast.Int), nil, false))))

	res := Generate(tu(s), Options{})
	assert.False(t, res.Document.Decls()[0].(*StructDecl).Unsafe)
}

func TestEmptyStruct(t *testing.T) {
	res := Generate(tu(structDef("Empty")), Options{})
	require.Empty(t, res.Diagnostics)
	assert.Empty(t, res.Document.Decls()[0].(*StructDecl).Fields)
}

func TestForwardDeclarations(t *testing.T) {
	t.Run("followed by definition", func(t *testing.T) {
		def := structDef("A", field("x", prim(cast.Int)))
		res := Generate(tu(structFwd("A", def), def, structFwd("A", def)), Options{})

		require.Empty(t, res.Diagnostics)
		require.Equal(t, 1, res.Document.Len())
		assert.Len(t, res.Document.Decls()[0].(*StructDecl).Fields, 1)
	})

	t.Run("never defined", func(t *testing.T) {
		res := Generate(tu(structFwd("Opaque", nil), structFwd("Opaque", nil)), Options{})

		require.Empty(t, res.Diagnostics)
		require.Equal(t, 1, res.Document.Len())
		assert.Empty(t, res.Document.Decls()[0].(*StructDecl).Fields)
	})

	t.Run("defined twice", func(t *testing.T) {
		res := Generate(tu(structDef("A"), structDef("A")), Options{})
		assert.Equal(t, 1, res.Count(InvariantViolation))
	})
}

func TestNestedAggregate(t *testing.T) {
	// struct Outer { struct { int a; } inner; };
	inner := cast.NewNode(cast.StructDecl, "").MarkDefinition()
	inner.SetType(cast.RecordOf(inner, "struct (anonymous at test.h:1:16)"))
	inner.Append(field("a", prim(cast.Int)))

	outer := structDef("Outer", inner, field("inner", inner.TypeNode()))

	res := Generate(tu(outer), Options{})
	assert.Equal(t, 1, res.Count(UnsupportedShape))
	assert.Equal(t, 1, res.Count(UnresolvedSymbol))
	assert.Len(t, res.Document.Decls()[0].(*StructDecl).Fields, 1)
}

// ==============================================================================
// Typedefs
// ==============================================================================

func TestOpaqueVoidPointerTypedef(t *testing.T) {
	// typedef void* Handle; void close(Handle h);
	handle := typedef("Handle", ptr(prim(cast.Void)))
	closeFn := function("close", prim(cast.Void), false, param("h", typedefType(handle)))

	res := Generate(tu(handle, closeFn), Options{})
	require.Empty(t, res.Diagnostics)

	require.Equal(t, 1, res.Document.Len())
	assert.Equal(t, &OpaqueDecl{Name: "HandleImpl"}, res.Document.Decls()[0])

	target, _ := res.Symbols.Lookup("Handle")
	assert.Equal(t, "HandleImpl*", target)
	assert.Equal(t, "HandleImpl*", res.Functions[0].Params[0].Type)
}

func TestStructPointerTypedef(t *testing.T) {
	// struct ctx; typedef struct ctx* ctx_t;
	ctx := structFwd("ctx", nil)
	ctxT := typedef("ctx_t", ptr(recordRef(ctx)), typeRef(ctx))

	res := Generate(tu(ctx, ctxT), Options{})
	require.Empty(t, res.Diagnostics)

	target, ok := res.Symbols.Lookup("ctx_t")
	require.True(t, ok)
	assert.Equal(t, "ctx*", target)
}

func TestFunctionPointerTypedef(t *testing.T) {
	// typedef int (*binop)(int a, int b); int apply(binop op);
	a, b := param("a", prim(cast.Int)), param("b", prim(cast.Int))
	fn := cast.FunctionOf(prim(cast.Int), []*cast.TypeNode{prim(cast.Int), prim(cast.Int)}, false)
	binop := typedef("binop", ptr(fn), a, b)
	apply := function("apply", prim(cast.Int), false, param("op", typedefType(binop)))

	res := Generate(tu(binop, apply), Options{})
	require.Empty(t, res.Diagnostics)
	assert.Equal(t, 0, res.Document.Len())
	_, ok := res.Symbols.Lookup("binop")
	assert.False(t, ok)
	assert.Equal(t, "IntPtr", res.Functions[0].Params[0].Type)
}

func TestUnsupportedTypedefs(t *testing.T) {
	point := structDef("Point")

	tests := []struct {
		name string
		decl *cast.Node
	}{
		{"primitive alias", typedef("myint", prim(cast.Int))},
		{"struct alias", typedef("Point", recordRef(point), typeRef(point))},
		{"many children", typedef("pair", prim(cast.Int), field("a", prim(cast.Int)), field("b", prim(cast.Int)))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Generate(tu(tt.decl), Options{})
			assert.Equal(t, 1, res.Count(UnsupportedShape))
			assert.Equal(t, 0, res.Document.Len())
		})
	}
}

func TestMutualOpaqueTypedefs(t *testing.T) {
	// typedef struct AImpl* A; typedef struct BImpl* B;
	// struct AImpl { B b; }; struct BImpl { A a; };
	aImpl := structDef("AImpl")
	bImpl := structDef("BImpl")
	aFwd, bFwd := structFwd("AImpl", aImpl), structFwd("BImpl", bImpl)

	a := typedef("A", ptr(recordRef(aFwd)), typeRef(aFwd))
	b := typedef("B", ptr(recordRef(bFwd)), typeRef(bFwd))
	aImpl.Append(field("b", typedefType(b)))
	bImpl.Append(field("a", typedefType(a)))

	res := Generate(tu(aFwd, a, bFwd, b, aImpl, bImpl), Options{})
	require.Empty(t, res.Diagnostics)

	target, _ := res.Symbols.Lookup("A")
	assert.Equal(t, "AImpl*", target)
	assert.Equal(t, 2, res.Document.Len())

	decl, ok := res.Document.Lookup("AImpl")
	require.True(t, ok)
	assert.Equal(t, "BImpl*", decl.(*StructDecl).Fields[0].Type)
}

func TestOpaqueTypedefWithoutForwardDeclaration(t *testing.T) {
	// The typedefs name tags no cursor has declared yet.
	aImpl := structDef("AImpl")
	bImpl := structDef("BImpl")

	a := typedef("A", ptr(recordRef(aImpl)), typeRef(aImpl))
	b := typedef("B", ptr(recordRef(bImpl)), typeRef(bImpl))
	aImpl.Append(field("b", typedefType(b)))
	bImpl.Append(field("a", typedefType(a)))

	res := Generate(tu(a, b, aImpl, bImpl), Options{})
	assert.Equal(t, 2, res.Count(UnresolvedSymbol))

	target, _ := res.Symbols.Lookup("A")
	assert.Equal(t, "AImpl*", target)
}

func TestForwardDeclarationThenDefinition(t *testing.T) {
	// struct A; struct B { struct A* a; }; struct A { int x; };
	a := structDef("A", field("x", prim(cast.Int)))
	aFwd := structFwd("A", a)
	b := structDef("B", field("a", ptr(recordRef(aFwd))))

	res := Generate(tu(aFwd, b, a), Options{})
	require.Empty(t, res.Diagnostics)
	require.Equal(t, 2, res.Document.Len())

	assert.Equal(t, "B", res.Document.Decls()[0].DeclName())
	assert.Equal(t, []Field{{Name: "a", Type: "A*"}}, res.Document.Decls()[0].(*StructDecl).Fields)
	assert.Equal(t, "A", res.Document.Decls()[1].DeclName())

	target, ok := res.Symbols.Lookup("A")
	require.True(t, ok)
	assert.Equal(t, "A", target)
}

func TestPointerTypedefBeforeDefinition(t *testing.T) {
	// typedef struct Node* NodePtr; struct Node { int v; NodePtr next; };
	node := structDef("Node")
	fwd := structFwd("Node", node)
	nodePtr := typedef("NodePtr", ptr(recordRef(fwd)), typeRef(fwd))
	node.Append(field("v", prim(cast.Int)), field("next", typedefType(nodePtr)))

	res := Generate(tu(fwd, nodePtr, node), Options{})
	require.Empty(t, res.Diagnostics)

	decl, ok := res.Document.Lookup("Node")
	require.True(t, ok)
	assert.Equal(t, []Field{{Name: "v", Type: "int"}, {Name: "next", Type: "Node*"}}, decl.(*StructDecl).Fields)
}

func TestDuplicateDefinitionAfterForward(t *testing.T) {
	a := structDef("A")
	second := structDef("A")

	res := Generate(tu(structFwd("A", a), a, second), Options{})
	assert.Equal(t, 1, res.Count(InvariantViolation))
	assert.Equal(t, 2, res.Document.Len())
}

func TestAnonymousStructThroughPointerTypedef(t *testing.T) {
	// typedef struct { int x; } *PA; void f(PA p);
	spelling := cast.AnonymousSpelling("struct", cast.Location{File: "test.h", Line: 1, Column: 9})
	anon := cast.NewNode(cast.StructDecl, spelling).MarkDefinition()
	anon.SetType(cast.RecordOf(anon, spelling))
	anon.Append(field("x", prim(cast.Int)))

	pa := typedef("PA", ptr(cast.ElaboratedOf(anon.TypeNode(), spelling)), anon)
	f := function("f", prim(cast.Void), false, param("p", typedefType(pa)))

	res := Generate(tu(anon, pa, f), Options{})
	require.Empty(t, res.Diagnostics)

	target, ok := res.Symbols.Lookup("PA")
	require.True(t, ok)
	assert.Equal(t, "PAImpl*", target)

	require.Equal(t, 1, res.Document.Len())
	decl := res.Document.Decls()[0].(*StructDecl)
	assert.Equal(t, "PAImpl", decl.Name)
	assert.Equal(t, []Field{{Name: "x", Type: "int"}}, decl.Fields)

	require.Len(t, res.Functions, 1)
	assert.Equal(t, "PAImpl*", res.Functions[0].Params[0].Type)
}

func TestAnonymousStructWithoutTypedef(t *testing.T) {
	// struct { int x; } g;
	spelling := cast.AnonymousSpelling("struct", cast.Location{File: "test.h", Line: 1, Column: 1})
	anon := cast.NewNode(cast.StructDecl, spelling).MarkDefinition()
	anon.SetType(cast.RecordOf(anon, spelling))
	anon.Append(field("x", prim(cast.Int)))

	res := Generate(tu(anon), Options{})
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, InvariantViolation, res.Diagnostics[0].Kind)
	assert.Equal(t, spelling, res.Diagnostics[0].Subject)
	assert.Equal(t, 0, res.Document.Len())
}

func TestTopLevelAnonymousEnums(t *testing.T) {
	// enum { FLAG_A = 1, FLAG_B = 2 }; enum { MODE_X };
	anonEnum := func(line int, constants ...*cast.Node) *cast.Node {
		spelling := cast.AnonymousSpelling("enum", cast.Location{File: "test.h", Line: line, Column: 1})
		n := cast.NewNode(cast.EnumDecl, spelling).MarkDefinition()
		n.SetType(cast.EnumOf(n, spelling))
		return n.Append(constants...)
	}
	root := func() *cast.Node {
		return tu(
			anonEnum(1, constant("FLAG_A", literal("1")), constant("FLAG_B", literal("2"))),
			anonEnum(2, constant("MODE_X")),
		)
	}

	tests := []struct {
		name  string
		opts  Options
		names []string
	}{
		{"default prefix", Options{}, []string{"AnonymousEnum1", "AnonymousEnum2"}},
		{"custom prefix", Options{AnonymousEnum: "Flags"}, []string{"Flags1", "Flags2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Generate(root(), tt.opts)
			require.Empty(t, res.Diagnostics)
			require.Equal(t, 2, res.Document.Len())

			for i, want := range tt.names {
				assert.Equal(t, want, res.Document.Decls()[i].DeclName())
			}
			first := res.Document.Decls()[0].(*EnumDecl)
			require.Len(t, first.Constants, 2)
			assert.Equal(t, "FLAG_A", first.Constants[0].Name)
		})
	}
}

// ==============================================================================
// Functions
// ==============================================================================

func TestVoidParameterList(t *testing.T) {
	// void foo(void);
	res := Generate(tu(function("foo", prim(cast.Void), false, param("", prim(cast.Void)))), Options{})
	require.Empty(t, res.Diagnostics)
	require.Len(t, res.Functions, 1)

	assert.Equal(t, "foo", res.Functions[0].Name)
	assert.Equal(t, "void", res.Functions[0].ReturnType)
	assert.Empty(t, res.Functions[0].Params)
}

func TestFunctionParameters(t *testing.T) {
	// int write(int fd, const char*, void* params, unsigned long);
	fn := function("write", prim(cast.Int), false,
		param("fd", prim(cast.Int)),
		param("", ptr(prim(cast.CharS))),
		param("params", ptr(prim(cast.Void))),
		param("", prim(cast.ULong)),
	)
	fn.Append(cast.NewNode(cast.Other, "__attribute__"))

	res := Generate(tu(fn), Options{})
	require.Empty(t, res.Diagnostics)
	assert.Equal(t, []Param{
		{Name: "fd", Type: "int"},
		{Name: "arg2", Type: "sbyte*"},
		{Name: "@params", Type: "void*"},
		{Name: "arg4", Type: "ulong"},
	}, res.Functions[0].Params)
}

func TestVariadicFunction(t *testing.T) {
	res := Generate(tu(function("printf", prim(cast.Int), true, param("fmt", ptr(prim(cast.CharS))))), Options{})
	require.Len(t, res.Functions, 1)
	assert.True(t, res.Functions[0].Variadic)
	assert.Len(t, res.Functions[0].Params, 1)
}

func TestFunctionWithoutType(t *testing.T) {
	res := Generate(tu(cast.NewNode(cast.FunctionDecl, "broken")), Options{})
	assert.Equal(t, 1, res.Count(InvariantViolation))
	assert.Empty(t, res.Functions)
}

func TestEscapeIsSharedByFieldsAndParams(t *testing.T) {
	s := structDef("S", field("type", prim(cast.Int)), field("out", prim(cast.Int)))
	fn := function("f", prim(cast.Void), false, param("type", prim(cast.Int)), param("out", prim(cast.Int)))

	res := Generate(tu(s, fn), Options{})
	fields := res.Document.Decls()[0].(*StructDecl).Fields
	params := res.Functions[0].Params
	assert.Equal(t, "type", fields[0].Name)
	assert.Equal(t, "@out", fields[1].Name)
	assert.Equal(t, fields[1].Name, params[1].Name)
	assert.Equal(t, fields[0].Name, params[0].Name)

	res = Generate(tu(s, fn), Options{Keywords: GoKeywords, EscapePrefix: "_"})
	assert.Equal(t, "_type", res.Document.Decls()[0].(*StructDecl).Fields[0].Name)
	assert.Equal(t, "_type", res.Functions[0].Params[0].Name)
	assert.Equal(t, "out", res.Functions[0].Params[1].Name)
}

// ==============================================================================
// Walker
// ==============================================================================

func TestSystemHeaderDeclarationsSkipped(t *testing.T) {
	sys := structDef("FILE").SetSystem(true)
	sysFn := function("fopen", ptr(recordRef(sys)), false).SetSystem(true)

	res := Generate(tu(sys, sysFn, structDef("Mine")), Options{})
	require.Empty(t, res.Diagnostics)
	require.Equal(t, 1, res.Document.Len())
	assert.Equal(t, "Mine", res.Document.Decls()[0].DeclName())
	assert.Empty(t, res.Functions)
	_, ok := res.Symbols.Lookup("FILE")
	assert.False(t, ok)
}

func TestOtherKindsIgnored(t *testing.T) {
	root := tu(
		cast.NewNode(cast.VarDecl, "counter").SetType(prim(cast.Int)),
		cast.NewNode(cast.UnionDecl, "U").MarkDefinition(),
		cast.NewNode(cast.Other, "macro"),
	)

	res := Generate(root, Options{})
	assert.Empty(t, res.Diagnostics)
	assert.Equal(t, 0, res.Document.Len())
	assert.Equal(t, 0, res.Symbols.Len())
}

func TestTraversalContinuesAfterDiagnostics(t *testing.T) {
	loc := cast.Location{File: "api.h", Line: 3, Column: 1}
	root := tu(
		typedef("myint", prim(cast.Int)).SetLocation(loc),
		structDef("After", field("v", prim(cast.Int))),
		function("use", prim(cast.Void), false, param("l", recordRef(structDef("Later")))),
	)

	res := Generate(root, Options{})
	require.Len(t, res.Diagnostics, 2)
	assert.Equal(t, loc, res.Diagnostics[0].Location)
	assert.Equal(t, "myint", res.Diagnostics[0].Subject)
	assert.Equal(t, 1, res.Document.Len())
	assert.Len(t, res.Functions, 1)

	err := res.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedShape))
	assert.True(t, errors.Is(err, ErrUnresolvedSymbol))
}

func TestRunIsDeterministicAndIndependent(t *testing.T) {
	build := func() *cast.Node {
		node := structDef("Node")
		node.Append(field("next", ptr(recordRef(node))), field("data", cast.ArrayOf(ptr(prim(cast.Void)), 2)))
		return tu(
			enumDef("Mode", constant("A"), constant("B", literal("2"))),
			node,
			typedef("Handle", ptr(prim(cast.Void))),
			function("run", prim(cast.Int), false, param("n", ptr(recordRef(node)))),
		)
	}

	g := New(Options{})
	first := g.Run(build())
	second := g.Run(build())

	assert.Empty(t, first.Diagnostics)
	assert.Empty(t, second.Diagnostics, "a second run must start with an empty symbol table")
	assert.Equal(t, first.Document.Decls(), second.Document.Decls())
	assert.Equal(t, first.Functions, second.Functions)
	assert.Equal(t, first.Symbols.Symbols(), second.Symbols.Symbols())
}
