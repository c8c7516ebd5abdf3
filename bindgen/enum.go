package bindgen

import (
	"fmt"
	"strings"

	"github.com/ardanlabs/bindgen/cast"
)

func (r *run) emitEnum(c cast.Cursor) (Decl, Diagnostics) {
	var diags Diagnostics

	name := declName(c)
	if name == "" {
		diags.add(InvariantViolation, "", "anonymous enum without a typedef name")
		return nil, diags
	}

	target := name
	if cast.IsAnonymous(name) {
		// enum { FLAG_A = 1 }; has no name of its own.
		r.anonymousEnums++
		target = fmt.Sprintf("%s%d", r.opts.AnonymousEnum, r.anonymousEnums)
		r.log.Debugw("anonymous enum named", "spelling", name, "name", target)
	}
	r.register(name, target, &diags)

	decl := &EnumDecl{Name: target}
	for _, child := range c.Children() {
		if child.Kind() != cast.EnumConstantDecl {
			diags.add(InvariantViolation, name, "unexpected %s in enum body", child.Kind())
			continue
		}
		decl.Constants = append(decl.Constants, enumConstant(child, &diags))
	}

	return decl, diags
}

func enumConstant(c cast.Cursor, diags *Diagnostics) EnumConstant {
	constant := EnumConstant{Name: c.Spelling()}

	children := c.Children()
	switch len(children) {
	case 0:
		// enum A { A1 };
		return constant
	case 1:
		expr := children[0]
		value, ok := enumValue(expr)
		if !ok {
			diags.add(UnsupportedShape, constant.Name, "%s initializer", expr.Kind())
			value = expr.Extent()
		}
		constant.Value = value
	default:
		diags.add(InvariantViolation, constant.Name, "enum constant with %d initializer nodes", len(children))
		constant.Value = children[0].Extent()
	}

	return constant
}

// enumValue renders the recognized initializer shapes.
func enumValue(expr cast.Cursor) (string, bool) {
	switch expr.Kind() {
	case cast.IntegerLiteral, cast.UnaryOperator, cast.ParenExpr:
		// A1 = 0, A1 = -1, A1 = (1 << 0)
		return expr.Extent(), true

	case cast.DeclRefExpr:
		// A2 = A1
		return expr.Spelling(), true

	case cast.BinaryOperator:
		operands := expr.Children()
		if len(operands) != 2 {
			return "", false
		}
		switch {
		case allKind(operands, cast.DeclRefExpr):
			// A3 = A1 | A2
			op, ok := operatorText(expr, operands[0], operands[1])
			if !ok {
				return "", false
			}
			return fmt.Sprintf("%s %s %s", operands[0].Spelling(), op, operands[1].Spelling()), true
		case allKind(operands, cast.IntegerLiteral):
			// A1 = 1 << 0
			return expr.Extent(), true
		}
	}

	return "", false
}

// operatorText recovers the operator token of a binary expression from the
// source between its operands.
func operatorText(expr, lhs, rhs cast.Cursor) (string, bool) {
	text, l, r := expr.Extent(), lhs.Extent(), rhs.Extent()
	if len(text) < len(l)+len(r) || !strings.HasPrefix(text, l) || !strings.HasSuffix(text, r) {
		return "", false
	}
	op := strings.TrimSpace(text[len(l) : len(text)-len(r)])
	return op, op != ""
}

func allKind(cs []cast.Cursor, kind cast.CursorKind) bool {
	for _, c := range cs {
		if c.Kind() != kind {
			return false
		}
	}
	return true
}
