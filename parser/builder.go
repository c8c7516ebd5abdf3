package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/ardanlabs/bindgen/cast"
)

// tag tracks every cursor declaring one struct, union or enum tag.
type tag struct {
	typ   *cast.TypeNode
	def   *cast.Node
	decls []*cast.Node
}

// target is the cursor a type reference to the tag points at.
func (t *tag) target() *cast.Node {
	if t.def != nil {
		return t.def
	}
	return t.decls[0]
}

// builder converts one tree-sitter tree into a cast tree.
type builder struct {
	src   []byte
	lines *lineMap
	opts  Options
	root  *cast.Node

	tags      map[string]*tag
	typedefs  map[string]*cast.Node
	enumerals map[string]*cast.Node
	constants map[string]int64
}

func newBuilder(src []byte, lines *lineMap, opts Options) *builder {
	return &builder{
		src:       src,
		lines:     lines,
		opts:      opts,
		root:      cast.NewTranslationUnit(opts.Filename),
		tags:      make(map[string]*tag),
		typedefs:  make(map[string]*cast.Node),
		enumerals: make(map[string]*cast.Node),
		constants: make(map[string]int64),
	}
}

func (b *builder) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Utf8Text(b.src)
}

// place gives c the location and source text of n.
func (b *builder) place(c *cast.Node, n *sitter.Node) *cast.Node {
	pos := n.StartPosition()
	loc, system := b.lines.location(int(pos.Row), int(pos.Column))
	return c.SetLocation(loc).SetSystem(system).SetExtent(b.text(n))
}

func (b *builder) unit(n *sitter.Node) {
	b.items(n)
}

func (b *builder) items(n *sitter.Node) {
	for i := uint(0); i < n.NamedChildCount(); i++ {
		b.item(n.NamedChild(i))
	}
}

func (b *builder) item(n *sitter.Node) {
	if n == nil {
		return
	}

	switch n.Kind() {
	case "declaration":
		b.declaration(n, false)

	case "function_definition":
		b.declaration(n, true)

	case "type_definition":
		b.typedef(n)

	case "struct_specifier", "union_specifier", "enum_specifier":
		b.tagOnly(n)

	case "linkage_specification":
		// extern "C" { ... }
		body := n.ChildByFieldName("body")
		if body == nil {
			return
		}
		if body.Kind() == "declaration_list" {
			b.items(body)
			return
		}
		b.item(body)

	case "preproc_ifdef", "preproc_if":
		// Only the first branch of a conditional is read; #else and #elif
		// hang off the alternative field.
		for i := uint(0); i < n.NamedChildCount(); i++ {
			child := n.NamedChild(i)
			if strings.HasPrefix(child.Kind(), "preproc_el") {
				continue
			}
			b.item(child)
		}

	case "preproc_def":
		b.define(n)

	case "ERROR":
		b.items(n)
	}
}

// declaration handles function and variable declarations, function
// definitions and bare tag declarations.
func (b *builder) declaration(n *sitter.Node, definition bool) {
	spec := n.ChildByFieldName("type")
	if spec == nil {
		return
	}

	declarators := b.fieldChildren(n, "declarator")
	if len(declarators) == 0 {
		b.tagOnly(spec)
		return
	}

	base, _ := b.typeSpecifier(spec, b.root, "")
	for _, d := range declarators {
		decl := b.declare(d, base)
		if decl.name == "" {
			continue
		}

		if !decl.typ.Kind().IsFunction() {
			c := cast.NewNode(cast.VarDecl, decl.name).SetType(decl.typ)
			b.root.Append(b.place(c, n))
			continue
		}

		c := cast.NewNode(cast.FunctionDecl, decl.name).SetType(decl.typ)
		b.place(c, n)
		c.Append(decl.params...)
		if definition {
			c.MarkDefinition()
		}
		b.root.Append(c)
	}
}

// typedef emits one TypedefDecl per declarator. Children follow libclang:
// the aggregate defined inline or a reference to the aliased tag or typedef,
// then the parameters of a function typedef.
func (b *builder) typedef(n *sitter.Node) {
	spec := n.ChildByFieldName("type")
	declarators := b.fieldChildren(n, "declarator")
	if spec == nil || len(declarators) == 0 {
		return
	}

	base, child := b.typeSpecifier(spec, b.root, b.directName(declarators))
	for _, d := range declarators {
		decl := b.declare(d, base)
		if decl.name == "" {
			continue
		}

		td := cast.NewNode(cast.TypedefDecl, decl.name).SetUnderlying(decl.typ)
		td.SetType(cast.TypedefOf(decl.name, decl.typ, td))
		b.place(td, n)

		if child != nil {
			td.Append(child)
		}
		td.Append(decl.params...)

		b.typedefs[decl.name] = td
		b.root.Append(td)
	}
}

// directName returns the first declarator that names the type itself.
// typedef struct { ... } *PA; does not name the struct, so it stays
// anonymous.
func (b *builder) directName(declarators []*sitter.Node) string {
	for _, d := range declarators {
		switch d.Kind() {
		case "type_identifier", "identifier", "primitive_type":
			return b.text(d)
		}
	}
	return ""
}

// tagOnly handles "struct A;" and "struct A { ... };" without declarators.
func (b *builder) tagOnly(spec *sitter.Node) {
	switch spec.Kind() {
	case "struct_specifier", "union_specifier", "enum_specifier":
	default:
		return
	}

	if spec.ChildByFieldName("body") != nil {
		b.typeSpecifier(spec, b.root, "")
		return
	}
	if name := b.text(spec.ChildByFieldName("name")); name != "" {
		b.forward(tagKeyword(spec), name, spec)
	}
}

// body fills an aggregate definition with its fields or enumerators.
func (b *builder) body(def *cast.Node, body *sitter.Node) {
	for i := uint(0); i < body.NamedChildCount(); i++ {
		child := body.NamedChild(i)
		switch child.Kind() {
		case "field_declaration":
			b.field(def, child)
		case "enumerator":
			b.enumerator(def, child)
		}
	}
}

func (b *builder) field(def *cast.Node, n *sitter.Node) {
	spec := n.ChildByFieldName("type")
	if spec == nil {
		return
	}

	// A nested aggregate lands in def itself, as libclang reports it.
	base, _ := b.typeSpecifier(spec, def, "")
	for _, d := range b.fieldChildren(n, "declarator") {
		decl := b.declare(d, base)
		if decl.name == "" {
			continue
		}
		f := cast.NewNode(cast.FieldDecl, decl.name).SetType(decl.typ)
		def.Append(b.place(f, d))
	}
}

func (b *builder) enumerator(def *cast.Node, n *sitter.Node) {
	name := b.text(n.ChildByFieldName("name"))
	if name == "" {
		return
	}

	c := cast.NewNode(cast.EnumConstantDecl, name).SetType(def.TypeNode())
	b.place(c, n)

	// Track values so later array sizes can refer to the constant.
	next, known := int64(0), true
	if prev := def.Nodes(); len(prev) > 0 {
		v, ok := b.constants[prev[len(prev)-1].Spelling()]
		next, known = v+1, ok
	}
	if value := n.ChildByFieldName("value"); value != nil {
		c.Append(b.expr(value))
		next, known = b.evalConst(value)
	}
	if known {
		b.constants[name] = next
	}

	b.enumerals[name] = c
	def.Append(c)
}

func (b *builder) define(n *sitter.Node) {
	name := b.text(n.ChildByFieldName("name"))
	value := strings.TrimSpace(b.text(n.ChildByFieldName("value")))
	if name == "" || value == "" {
		return
	}
	if v, ok := parseInt(strings.Trim(value, "()")); ok {
		b.constants[name] = v
	}
}

func (b *builder) fieldChildren(n *sitter.Node, field string) []*sitter.Node {
	cursor := n.Walk()
	defer cursor.Close()

	nodes := n.ChildrenByFieldName(field, cursor)
	out := make([]*sitter.Node, len(nodes))
	for i := range nodes {
		out[i] = &nodes[i]
	}
	return out
}
