package cast

import (
	"fmt"
	"strings"
)

// TypeNode is the in-memory Type used by the parser and by tests.
type TypeNode struct {
	kind      TypeKind
	spelling  string
	pointee   *TypeNode
	element   *TypeNode
	size      int64
	canonical *TypeNode
	result    *TypeNode
	params    []*TypeNode
	variadic  bool
	decl      *Node
}

var primitiveSpellings = map[TypeKind]string{
	Void:       "void",
	Bool:       "bool",
	CharS:      "char",
	SChar:      "signed char",
	CharU:      "char",
	UChar:      "unsigned char",
	Short:      "short",
	UShort:     "unsigned short",
	Int:        "int",
	UInt:       "unsigned int",
	Long:       "long",
	ULong:      "unsigned long",
	LongLong:   "long long",
	ULongLong:  "unsigned long long",
	Float:      "float",
	Double:     "double",
	LongDouble: "long double",
}

// IsPrimitive reports whether k is a builtin arithmetic or void type.
func IsPrimitive(k TypeKind) bool {
	_, ok := primitiveSpellings[k]
	return ok
}

// NewType returns a type with no structure beyond its kind and spelling.
func NewType(kind TypeKind, spelling string) *TypeNode {
	return &TypeNode{kind: kind, spelling: spelling}
}

// Primitive returns the builtin type of the given kind.
func Primitive(kind TypeKind) *TypeNode {
	return &TypeNode{kind: kind, spelling: primitiveSpellings[kind]}
}

// PointerTo returns a pointer to t.
func PointerTo(t *TypeNode) *TypeNode {
	return &TypeNode{kind: Pointer, spelling: pointerSpelling(t), pointee: t}
}

// ArrayOf returns a constant array of n elements of t, or an incomplete
// array when n is negative.
func ArrayOf(t *TypeNode, n int64) *TypeNode {
	if n < 0 {
		return &TypeNode{kind: IncompleteArray, spelling: t.Spelling() + " []", element: t, size: -1}
	}
	return &TypeNode{kind: ConstantArray, spelling: fmt.Sprintf("%s [%d]", t.Spelling(), n), element: t, size: n}
}

// FunctionOf returns a prototyped function type.
func FunctionOf(result *TypeNode, params []*TypeNode, variadic bool) *TypeNode {
	parts := make([]string, 0, len(params)+1)
	for _, p := range params {
		parts = append(parts, p.Spelling())
	}
	if variadic {
		parts = append(parts, "...")
	}
	return &TypeNode{
		kind:     FunctionProto,
		spelling: fmt.Sprintf("%s (%s)", result.Spelling(), strings.Join(parts, ", ")),
		result:   result,
		params:   params,
		variadic: variadic,
	}
}

// FunctionNoProtoOf returns a function type declared without a parameter
// list, as in "int f();".
func FunctionNoProtoOf(result *TypeNode) *TypeNode {
	return &TypeNode{kind: FunctionNoProto, spelling: result.Spelling() + " ()", result: result}
}

// RecordOf returns the record type declared by decl.
func RecordOf(decl *Node, spelling string) *TypeNode {
	return &TypeNode{kind: Record, spelling: spelling, decl: decl}
}

// EnumOf returns the enum type declared by decl.
func EnumOf(decl *Node, spelling string) *TypeNode {
	return &TypeNode{kind: Enum, spelling: spelling, decl: decl}
}

// ElaboratedOf wraps named as written with a tag keyword, e.g. "struct Foo".
func ElaboratedOf(named *TypeNode, spelling string) *TypeNode {
	return &TypeNode{kind: Elaborated, spelling: spelling, decl: named.decl, canonical: named.canonicalNode()}
}

// TypedefOf returns the type named by a typedef. decl may be nil for
// builtin aliases such as uint32_t.
func TypedefOf(name string, underlying *TypeNode, decl *Node) *TypeNode {
	return &TypeNode{kind: Typedef, spelling: name, decl: decl, canonical: underlying.canonicalNode()}
}

// AutoOf returns a deduced type whose canonical type is deduced.
func AutoOf(deduced *TypeNode) *TypeNode {
	return &TypeNode{kind: Auto, spelling: "auto", canonical: deduced.canonicalNode()}
}

// Decay returns the type a parameter declared as t has: arrays become
// pointers to their element, functions become function pointers.
func (t *TypeNode) Decay() *TypeNode {
	switch t.kind {
	case ConstantArray, IncompleteArray:
		return PointerTo(t.element)
	case FunctionProto, FunctionNoProto:
		return PointerTo(t)
	}
	return t
}

func pointerSpelling(t *TypeNode) string {
	s := t.Spelling()
	if strings.HasSuffix(s, "*") {
		return s + "*"
	}
	return s + " *"
}

func (t *TypeNode) Kind() TypeKind   { return t.kind }
func (t *TypeNode) Spelling() string { return t.spelling }
func (t *TypeNode) ArraySize() int64 { return t.size }
func (t *TypeNode) Variadic() bool   { return t.variadic }

// SetDeclaration points t at decl. A tag type first seen through a forward
// declaration is repointed at its definition once that is parsed.
func (t *TypeNode) SetDeclaration(decl *Node) *TypeNode {
	t.decl = decl
	return t
}

func (t *TypeNode) Pointee() Type {
	if t.pointee == nil {
		return nil
	}
	return t.pointee
}

func (t *TypeNode) Element() Type {
	if t.element == nil {
		return nil
	}
	return t.element
}

func (t *TypeNode) Canonical() Type {
	return t.canonicalNode()
}

func (t *TypeNode) canonicalNode() *TypeNode {
	if t.canonical == nil {
		return t
	}
	return t.canonical
}

// Result looks through typedef and elaboration sugar, so a pointer to a
// typedef'd function type still reports a result.
func (t *TypeNode) Result() Type {
	if t.result != nil {
		return t.result
	}
	if c := t.canonicalNode(); c != t && c.result != nil {
		return c.result
	}
	return nil
}

// Params returns the parameter types of a function type.
func (t *TypeNode) Params() []*TypeNode {
	return t.canonicalNode().params
}

func (t *TypeNode) Declaration() Cursor {
	if t.decl == nil {
		return nil
	}
	return t.decl
}
