package cast

// Node is the in-memory Cursor used by the parser and by tests. Setters
// return the node so trees can be built in one expression.
type Node struct {
	kind       CursorKind
	spelling   string
	typ        *TypeNode
	underlying *TypeNode
	children   []*Node
	referenced *Node
	definition *Node
	extent     string
	loc        Location
	system     bool
}

// NewNode returns a cursor of the given kind and spelling.
func NewNode(kind CursorKind, spelling string) *Node {
	return &Node{kind: kind, spelling: spelling}
}

// NewTranslationUnit returns an empty translation unit root.
func NewTranslationUnit(file string) *Node {
	return &Node{kind: TranslationUnit, spelling: file}
}

func (n *Node) Kind() CursorKind { return n.kind }
func (n *Node) Spelling() string { return n.spelling }
func (n *Node) Extent() string   { return n.extent }

func (n *Node) Location() Location   { return n.loc }
func (n *Node) InSystemHeader() bool { return n.system }

func (n *Node) Type() Type {
	if n.typ == nil {
		return nil
	}
	return n.typ
}

func (n *Node) UnderlyingType() Type {
	if n.underlying == nil {
		return nil
	}
	return n.underlying
}

func (n *Node) Referenced() Cursor {
	if n.referenced == nil {
		return nil
	}
	return n.referenced
}

func (n *Node) Definition() Cursor {
	if n.definition == nil {
		return nil
	}
	return n.definition
}

func (n *Node) IsDefinition() bool { return n.definition == n }

func (n *Node) Children() []Cursor {
	out := make([]Cursor, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

// Nodes returns the children without converting them to Cursor.
func (n *Node) Nodes() []*Node { return n.children }

func (n *Node) SetType(t *TypeNode) *Node {
	n.typ = t
	return n
}

// TypeNode returns the concrete type, nil when unset.
func (n *Node) TypeNode() *TypeNode { return n.typ }

func (n *Node) SetUnderlying(t *TypeNode) *Node {
	n.underlying = t
	return n
}

func (n *Node) SetReferenced(c *Node) *Node {
	n.referenced = c
	return n
}

// SetDefinition records the defining cursor. Passing n itself marks n as a
// definition.
func (n *Node) SetDefinition(def *Node) *Node {
	n.definition = def
	return n
}

// MarkDefinition is shorthand for SetDefinition(n).
func (n *Node) MarkDefinition() *Node {
	n.definition = n
	return n
}

func (n *Node) SetExtent(s string) *Node {
	n.extent = s
	return n
}

func (n *Node) SetLocation(l Location) *Node {
	n.loc = l
	return n
}

func (n *Node) SetSystem(system bool) *Node {
	n.system = system
	return n
}

// Append adds children in order.
func (n *Node) Append(children ...*Node) *Node {
	n.children = append(n.children, children...)
	return n
}
