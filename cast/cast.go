package cast

import (
	"fmt"
	"strings"
)

// Location is a position in the original source, after linemarkers have
// been applied.
type Location struct {
	File   string
	Line   int
	Column int
}

func (l Location) String() string {
	if l.File == "" && l.Line == 0 {
		return ""
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// IsZero reports whether l carries no position.
func (l Location) IsZero() bool {
	return l == Location{}
}

// AnonymousSpelling is the type spelling libclang gives an aggregate
// declared without a name, e.g. "struct (anonymous at api.h:3:9)".
func AnonymousSpelling(keyword string, loc Location) string {
	return fmt.Sprintf("%s (anonymous at %s)", keyword, loc)
}

// IsAnonymous reports whether spelling names an anonymous aggregate.
func IsAnonymous(spelling string) bool {
	return strings.Contains(spelling, "(anonymous at ")
}

// Cursor is one node of a parsed translation unit.
type Cursor interface {
	Kind() CursorKind

	// Spelling is the declared name, empty for anonymous entities. For
	// DeclRefExpr and TypeRef it is the referenced name.
	Spelling() string

	// Type is the cursor's type, or nil for cursors without one.
	Type() Type

	Children() []Cursor

	// UnderlyingType is the aliased type of a TypedefDecl, nil otherwise.
	UnderlyingType() Type

	// Referenced is the declaration a TypeRef or DeclRefExpr points at.
	Referenced() Cursor

	// Definition is the defining cursor for the entity this cursor declares,
	// which may be the cursor itself. Nil when the translation unit has no
	// definition.
	Definition() Cursor

	IsDefinition() bool

	// Extent is the raw source text spanned by the cursor.
	Extent() string

	Location() Location
	InSystemHeader() bool
}

// Type describes a C type.
type Type interface {
	Kind() TypeKind
	Spelling() string

	// Pointee is set for Pointer types.
	Pointee() Type

	// Element and ArraySize are set for array types. ArraySize is -1 for
	// incomplete arrays.
	Element() Type
	ArraySize() int64

	// Canonical strips typedef and elaboration sugar. A type that has no
	// sugar is its own canonical type.
	Canonical() Type

	// Result is the return type of a function type, nil for every other
	// type.
	Result() Type
	Variadic() bool

	// Declaration is the cursor that declares a record, enum or typedef type.
	Declaration() Cursor
}

// Walk visits c and its descendants depth first. Returning false from fn
// skips the children of the cursor just visited.
func Walk(c Cursor, fn func(c Cursor, depth int) bool) {
	walk(c, 0, fn)
}

func walk(c Cursor, depth int, fn func(Cursor, int) bool) {
	if c == nil || !fn(c, depth) {
		return
	}
	for _, child := range c.Children() {
		walk(child, depth+1, fn)
	}
}
