package bindgen

import "fmt"

// Decl is one emitted declaration block: *EnumDecl, *StructDecl or
// *OpaqueDecl.
type Decl interface {
	DeclName() string
	isDecl()
}

// EnumConstant is one enumerator. Value is empty when the source had no
// initializer.
type EnumConstant struct {
	Name  string
	Value string
}

// Line renders the constant as it appears in the enum body. Every constant
// but the last carries a trailing separator.
func (c EnumConstant) Line(last bool) string {
	s := c.Name
	if c.Value != "" {
		s = fmt.Sprintf("%s = %s", c.Name, c.Value)
	}
	if !last {
		s += ","
	}
	return s
}

// EnumDecl is an emitted enum.
type EnumDecl struct {
	Name      string
	Constants []EnumConstant
}

func (d *EnumDecl) DeclName() string { return d.Name }
func (*EnumDecl) isDecl()            {}

// Lines renders every constant with its separator.
func (d *EnumDecl) Lines() []string {
	lines := make([]string, len(d.Constants))
	for i, c := range d.Constants {
		lines[i] = c.Line(i == len(d.Constants)-1)
	}
	return lines
}

// Field is one struct member. Suffix holds a fixed buffer length such as
// "[4]".
type Field struct {
	Name   string
	Type   string
	Suffix string
}

// StructDecl is an emitted struct with sequential layout. Unsafe is set
// when a field is a data pointer or a fixed buffer.
type StructDecl struct {
	Name   string
	Fields []Field
	Unsafe bool
}

func (d *StructDecl) DeclName() string { return d.Name }
func (*StructDecl) isDecl()            {}

// OpaqueDecl is an empty placeholder standing in for the pointee of an
// opaque handle.
type OpaqueDecl struct {
	Name string
}

func (d *OpaqueDecl) DeclName() string { return d.Name }
func (*OpaqueDecl) isDecl()            {}

// Document is the ordered, append-only list of emitted declarations.
type Document struct {
	decls []Decl
}

// Append adds a declaration at the end.
func (d *Document) Append(decl Decl) {
	d.decls = append(d.decls, decl)
}

// Decls returns the declarations in emission order.
func (d *Document) Decls() []Decl {
	return d.decls
}

// Len returns the number of declarations.
func (d *Document) Len() int {
	return len(d.decls)
}

// Lookup returns the first declaration with the given name.
func (d *Document) Lookup(name string) (Decl, bool) {
	for _, decl := range d.decls {
		if decl.DeclName() == name {
			return decl, true
		}
	}
	return nil, false
}

// Param is one function parameter.
type Param struct {
	Name   string
	Type   string
	Suffix string
}

// FunctionSignature is a function declaration lowered to target types.
type FunctionSignature struct {
	Name       string
	ReturnType string
	Params     []Param
	Variadic   bool
}
