package parser

import (
	"strconv"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/ardanlabs/bindgen/cast"
)

// expr converts an initializer expression into cursors. Operands become
// children so consumers can inspect the shape; Extent keeps the source text.
func (b *builder) expr(n *sitter.Node) *cast.Node {
	var c *cast.Node

	switch n.Kind() {
	case "number_literal":
		c = cast.NewNode(cast.IntegerLiteral, "")
		if _, ok := parseInt(b.text(n)); !ok {
			c = cast.NewNode(cast.UnexposedExpr, "")
		}

	case "char_literal":
		c = cast.NewNode(cast.CharacterLiteral, "")

	case "identifier":
		name := b.text(n)
		c = cast.NewNode(cast.DeclRefExpr, name)
		if ref, ok := b.enumerals[name]; ok {
			c.SetReferenced(ref)
		}

	case "binary_expression":
		c = cast.NewNode(cast.BinaryOperator, "")
		b.operands(c, n, "left", "right")

	case "unary_expression":
		c = cast.NewNode(cast.UnaryOperator, "")
		b.operands(c, n, "argument")

	case "parenthesized_expression":
		c = cast.NewNode(cast.ParenExpr, "")
		for i := uint(0); i < n.NamedChildCount(); i++ {
			if child := n.NamedChild(i); child.Kind() != "comment" {
				c.Append(b.expr(child))
				break
			}
		}

	case "conditional_expression":
		c = cast.NewNode(cast.ConditionalOperator, "")
		b.operands(c, n, "condition", "consequence", "alternative")

	case "cast_expression":
		c = cast.NewNode(cast.CastExpr, "")
		b.operands(c, n, "value")

	default:
		c = cast.NewNode(cast.UnexposedExpr, "")
	}

	return b.place(c, n)
}

func (b *builder) operands(c *cast.Node, n *sitter.Node, fields ...string) {
	for _, f := range fields {
		if child := n.ChildByFieldName(f); child != nil {
			c.Append(b.expr(child))
		}
	}
}

// evalConst folds an integer constant expression. Identifiers resolve to
// enum constants and object-like macros seen earlier in the input.
func (b *builder) evalConst(n *sitter.Node) (int64, bool) {
	if n == nil {
		return 0, false
	}

	switch n.Kind() {
	case "number_literal":
		return parseInt(b.text(n))

	case "char_literal":
		s, err := strconv.Unquote(b.text(n))
		if err != nil || len(s) != 1 {
			return 0, false
		}
		return int64(s[0]), true

	case "identifier":
		v, ok := b.constants[b.text(n)]
		return v, ok

	case "parenthesized_expression":
		if n.NamedChildCount() == 0 {
			return 0, false
		}
		return b.evalConst(n.NamedChild(0))

	case "cast_expression":
		return b.evalConst(n.ChildByFieldName("value"))

	case "unary_expression":
		v, ok := b.evalConst(n.ChildByFieldName("argument"))
		if !ok {
			return 0, false
		}
		switch b.operator(n) {
		case "-":
			return -v, true
		case "+":
			return v, true
		case "~":
			return ^v, true
		case "!":
			if v == 0 {
				return 1, true
			}
			return 0, true
		}

	case "binary_expression":
		l, lok := b.evalConst(n.ChildByFieldName("left"))
		r, rok := b.evalConst(n.ChildByFieldName("right"))
		if !lok || !rok {
			return 0, false
		}
		switch b.operator(n) {
		case "+":
			return l + r, true
		case "-":
			return l - r, true
		case "*":
			return l * r, true
		case "/":
			if r == 0 {
				return 0, false
			}
			return l / r, true
		case "%":
			if r == 0 {
				return 0, false
			}
			return l % r, true
		case "<<":
			return l << uint64(r), true
		case ">>":
			return l >> uint64(r), true
		case "|":
			return l | r, true
		case "&":
			return l & r, true
		case "^":
			return l ^ r, true
		}
	}

	return 0, false
}

func (b *builder) operator(n *sitter.Node) string {
	if op := n.ChildByFieldName("operator"); op != nil {
		return op.Kind()
	}
	return ""
}

// parseInt parses a C integer literal, ignoring its u/l suffixes.
func parseInt(s string) (int64, bool) {
	s = strings.TrimRight(strings.TrimSpace(s), "uUlL")
	if s == "" {
		return 0, false
	}
	if v, err := strconv.ParseInt(s, 0, 64); err == nil {
		return v, true
	}
	if v, err := strconv.ParseUint(s, 0, 64); err == nil {
		return int64(v), true
	}
	return 0, false
}
