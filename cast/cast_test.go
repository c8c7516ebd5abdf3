package cast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeSpellings(t *testing.T) {
	assert.Equal(t, "int *", PointerTo(Primitive(Int)).Spelling())
	assert.Equal(t, "char **", PointerTo(PointerTo(Primitive(CharS))).Spelling())
	assert.Equal(t, "float [4]", ArrayOf(Primitive(Float), 4).Spelling())
	assert.Equal(t, "int []", ArrayOf(Primitive(Int), -1).Spelling())
	assert.Equal(t, "int (int, ...)", FunctionOf(Primitive(Int), []*TypeNode{Primitive(Int)}, true).Spelling())
	assert.Equal(t, "unsigned long long", Primitive(ULongLong).Spelling())
}

func TestCanonicalAndResult(t *testing.T) {
	fn := FunctionOf(Primitive(Void), []*TypeNode{Primitive(Int)}, false)
	alias := TypedefOf("handler", fn, nil)

	assert.Equal(t, Type(fn), alias.Canonical())
	require.NotNil(t, alias.Result())
	assert.Equal(t, Void, alias.Result().Kind())
	assert.Len(t, alias.Params(), 1)

	i := Primitive(Int)
	assert.Equal(t, Type(i), i.Canonical())
	assert.Nil(t, i.Result())
	assert.Nil(t, i.Pointee())
	assert.Nil(t, i.Declaration())

	u32 := TypedefOf("uint32_t", Primitive(UInt), nil)
	flags := TypedefOf("flags_t", u32, nil)
	assert.Equal(t, UInt, flags.Canonical().Kind())

	deduced := AutoOf(flags)
	assert.Equal(t, UInt, deduced.Canonical().Kind())
}

func TestNodeDefinitions(t *testing.T) {
	def := NewNode(StructDecl, "A").MarkDefinition()
	fwd := NewNode(StructDecl, "A").SetDefinition(def)
	lone := NewNode(StructDecl, "B")

	assert.True(t, def.IsDefinition())
	assert.False(t, fwd.IsDefinition())
	assert.Equal(t, Cursor(def), fwd.Definition())
	assert.Nil(t, lone.Definition())
	assert.Nil(t, lone.Type())
	assert.Nil(t, lone.Referenced())
	assert.Nil(t, lone.UnderlyingType())

	rec := RecordOf(def, "A")
	assert.Equal(t, Cursor(def), ElaboratedOf(rec, "struct A").Declaration())
	assert.Equal(t, Type(rec), ElaboratedOf(rec, "struct A").Canonical())
}

func TestWalk(t *testing.T) {
	root := NewTranslationUnit("x.h").Append(
		NewNode(StructDecl, "A").Append(NewNode(FieldDecl, "a")),
		NewNode(FunctionDecl, "f").Append(NewNode(ParmDecl, "p")),
	)

	var visited []string
	Walk(root, func(c Cursor, depth int) bool {
		visited = append(visited, c.Kind().String()+":"+c.Spelling())
		return c.Kind() != FunctionDecl
	})

	assert.Equal(t, []string{
		"TranslationUnit:x.h",
		"StructDecl:A",
		"FieldDecl:a",
		"FunctionDecl:f",
	}, visited)
}

func TestLocation(t *testing.T) {
	assert.Equal(t, "", Location{}.String())
	assert.True(t, Location{}.IsZero())
	assert.Equal(t, "api.h:3:7", Location{File: "api.h", Line: 3, Column: 7}.String())
}

func TestKinds(t *testing.T) {
	assert.True(t, FieldDecl.IsDeclaration())
	assert.False(t, TypeRef.IsDeclaration())
	assert.True(t, BinaryOperator.IsExpression())
	assert.True(t, FunctionNoProto.IsFunction())
	assert.False(t, Pointer.IsFunction())
	assert.Equal(t, "ConstantArray", ConstantArray.String())
}
