// Package cast describes the C abstract syntax tree consumed by the binding
// generator.
//
// The shapes mirror libclang's cursor and type model: a declaration is a
// Cursor with an ordered list of children, and every typed cursor carries a
// Type that can be followed through pointees, array elements, canonical types
// and back to the declaring cursor. Kind sets are closed; producers map
// anything they cannot classify onto Other or Unexposed.
package cast

// CursorKind classifies a Cursor.
type CursorKind int

// Cursor kinds.
const (
	Other CursorKind = iota
	TranslationUnit
	EnumDecl
	StructDecl
	UnionDecl
	TypedefDecl
	FunctionDecl
	FieldDecl
	EnumConstantDecl
	ParmDecl
	VarDecl
	TypeRef
	IntegerLiteral
	CharacterLiteral
	BinaryOperator
	UnaryOperator
	ParenExpr
	DeclRefExpr
	ConditionalOperator
	CastExpr
	UnexposedExpr
)

var cursorKindNames = [...]string{
	Other:               "Other",
	TranslationUnit:     "TranslationUnit",
	EnumDecl:            "EnumDecl",
	StructDecl:          "StructDecl",
	UnionDecl:           "UnionDecl",
	TypedefDecl:         "TypedefDecl",
	FunctionDecl:        "FunctionDecl",
	FieldDecl:           "FieldDecl",
	EnumConstantDecl:    "EnumConstantDecl",
	ParmDecl:            "ParmDecl",
	VarDecl:             "VarDecl",
	TypeRef:             "TypeRef",
	IntegerLiteral:      "IntegerLiteral",
	CharacterLiteral:    "CharacterLiteral",
	BinaryOperator:      "BinaryOperator",
	UnaryOperator:       "UnaryOperator",
	ParenExpr:           "ParenExpr",
	DeclRefExpr:         "DeclRefExpr",
	ConditionalOperator: "ConditionalOperator",
	CastExpr:            "CastExpr",
	UnexposedExpr:       "UnexposedExpr",
}

func (k CursorKind) String() string {
	if k < 0 || int(k) >= len(cursorKindNames) {
		return "Other"
	}
	return cursorKindNames[k]
}

// IsDeclaration reports whether k names a declaration rather than a
// reference or an expression.
func (k CursorKind) IsDeclaration() bool {
	switch k {
	case EnumDecl, StructDecl, UnionDecl, TypedefDecl, FunctionDecl,
		FieldDecl, EnumConstantDecl, ParmDecl, VarDecl:
		return true
	}
	return false
}

// IsExpression reports whether k is one of the initializer expression kinds.
func (k CursorKind) IsExpression() bool {
	return k >= IntegerLiteral && k <= UnexposedExpr
}

// TypeKind classifies a Type.
type TypeKind int

// Type kinds.
const (
	Invalid TypeKind = iota
	Unexposed
	Void
	Bool
	CharS
	SChar
	CharU
	UChar
	Short
	UShort
	Int
	UInt
	Long
	ULong
	LongLong
	ULongLong
	Float
	Double
	LongDouble
	Pointer
	Record
	Enum
	Typedef
	Elaborated
	ConstantArray
	IncompleteArray
	Auto
	FunctionProto
	FunctionNoProto
)

var typeKindNames = [...]string{
	Invalid:         "Invalid",
	Unexposed:       "Unexposed",
	Void:            "Void",
	Bool:            "Bool",
	CharS:           "Char_S",
	SChar:           "SChar",
	CharU:           "Char_U",
	UChar:           "UChar",
	Short:           "Short",
	UShort:          "UShort",
	Int:             "Int",
	UInt:            "UInt",
	Long:            "Long",
	ULong:           "ULong",
	LongLong:        "LongLong",
	ULongLong:       "ULongLong",
	Float:           "Float",
	Double:          "Double",
	LongDouble:      "LongDouble",
	Pointer:         "Pointer",
	Record:          "Record",
	Enum:            "Enum",
	Typedef:         "Typedef",
	Elaborated:      "Elaborated",
	ConstantArray:   "ConstantArray",
	IncompleteArray: "IncompleteArray",
	Auto:            "Auto",
	FunctionProto:   "FunctionProto",
	FunctionNoProto: "FunctionNoProto",
}

func (k TypeKind) String() string {
	if k < 0 || int(k) >= len(typeKindNames) {
		return "Invalid"
	}
	return typeKindNames[k]
}

// IsFunction reports whether k is a function type.
func (k TypeKind) IsFunction() bool {
	return k == FunctionProto || k == FunctionNoProto
}
