package bindgen

import (
	"fmt"

	"github.com/ardanlabs/bindgen/cast"
)

// primitives is the fixed mapping of C builtin types to target names.
var primitives = map[cast.TypeKind]string{
	cast.Void:      "void",
	cast.Bool:      "bool",
	cast.CharU:     "byte",
	cast.UChar:     "byte",
	cast.CharS:     "sbyte",
	cast.SChar:     "sbyte",
	cast.Short:     "short",
	cast.UShort:    "ushort",
	cast.Int:       "int",
	cast.UInt:      "uint",
	cast.Long:      "long",
	cast.LongLong:  "long",
	cast.ULong:     "ulong",
	cast.ULongLong: "ulong",
	cast.Float:     "float",
	cast.Double:    "double",
}

// PrimitiveName returns the target name of a builtin type kind.
func PrimitiveName(kind cast.TypeKind) (string, bool) {
	name, ok := primitives[kind]
	return name, ok
}

// Resolver lowers C types to target type names. It reads the symbol table
// and never writes it, so resolving the same type against an unchanged
// table always gives the same answer.
type Resolver struct {
	symbols      *SymbolTable
	handleType   string
	pointerWidth string
}

// NewResolver returns a resolver reading symbols.
func NewResolver(symbols *SymbolTable, opts Options) *Resolver {
	opts = opts.withDefaults()
	return &Resolver{
		symbols:      symbols,
		handleType:   opts.HandleType,
		pointerWidth: opts.PointerWidthType,
	}
}

// Resolve returns the target name of t and the fixed buffer suffix that
// goes after the declarator name. Problems are returned as diagnostics next
// to a best-effort name.
func (r *Resolver) Resolve(t cast.Type) (name, suffix string, diags Diagnostics) {
	name, suffix = r.resolve(t, &diags)
	return name, suffix, diags
}

func (r *Resolver) resolve(t cast.Type, diags *Diagnostics) (string, string) {
	if t == nil {
		diags.add(InvariantViolation, "", "missing type")
		return "", ""
	}

	kind := t.Kind()
	if cast.IsPrimitive(kind) {
		name, ok := PrimitiveName(kind)
		if !ok {
			// long double has no counterpart.
			diags.add(InvariantViolation, t.Spelling(), "no mapping for %s type", kind)
			return t.Spelling(), ""
		}
		return name, ""
	}

	switch kind {
	case cast.Unexposed, cast.Record, cast.Enum, cast.Elaborated:
		return r.resolveDeclared(t, diags), ""

	case cast.Pointer:
		pointee := t.Pointee()
		if isFunction(pointee) {
			return r.handleType, ""
		}
		name, suffix := r.resolve(pointee, diags)
		return name + "*", suffix

	case cast.Typedef:
		// typedef void* A; registers A directly.
		if name, ok := r.symbols.Lookup(t.Spelling()); ok {
			return name, ""
		}
		return r.resolve(t.Canonical(), diags)

	case cast.ConstantArray:
		suffix := fmt.Sprintf("[%d]", t.ArraySize())
		elem := t.Element()
		if isVoidPointer(elem) {
			return r.pointerWidth, suffix
		}
		name, _ := r.resolve(elem, diags)
		return name, suffix

	case cast.Auto:
		return r.resolve(t.Canonical(), diags)

	default:
		diags.add(InvariantViolation, t.Spelling(), "no mapping for %s type", kind)
		return t.Spelling(), ""
	}
}

// resolveDeclared looks up a record, enum or unexposed type by the name of
// its declaration.
func (r *Resolver) resolveDeclared(t cast.Type, diags *Diagnostics) string {
	decl := t.Declaration()
	if decl == nil {
		diags.add(UnresolvedSymbol, t.Spelling(), "%s type has no declaration", t.Kind())
		return t.Spelling()
	}

	spelling := decl.Spelling()
	if spelling == "" {
		// typedef struct { } A; names the aggregate only through its type.
		if dt := decl.Type(); dt != nil {
			spelling = dt.Spelling()
		}
	}

	if name, ok := r.symbols.Lookup(spelling); ok {
		return name
	}
	diags.add(UnresolvedSymbol, spelling, "type referenced before it was declared")
	return spelling
}

func isFunction(t cast.Type) bool {
	return t != nil && t.Result() != nil
}

func isVoidPointer(t cast.Type) bool {
	if t == nil || t.Kind() != cast.Pointer {
		return false
	}
	pointee := t.Pointee()
	return pointee != nil && !isFunction(pointee) && pointee.Kind() == cast.Void
}

// isDataPointer reports whether t is, after desugaring, a pointer to
// anything but a function.
func isDataPointer(t cast.Type) bool {
	if t == nil {
		return false
	}
	c := t.Canonical()
	return c != nil && c.Kind() == cast.Pointer && !isFunction(c.Pointee())
}

func isVoid(t cast.Type) bool {
	if t == nil {
		return false
	}
	if t.Kind() == cast.Void {
		return true
	}
	c := t.Canonical()
	return c != nil && c.Kind() == cast.Void
}
