package bindgen

import "github.com/ardanlabs/bindgen/cast"

// emitTypedef returns an OpaqueDecl for a void pointer handle and nil for
// every other shape.
func (r *run) emitTypedef(c cast.Cursor) (Decl, Diagnostics) {
	var diags Diagnostics

	name := c.Spelling()
	underlying := c.UnderlyingType()
	children := c.Children()

	switch len(children) {
	case 0:
		// typedef void* Handle;
		if !isVoidPointer(underlying) {
			diags.add(UnsupportedShape, name, "typedef of %s", spellingOf(underlying))
			return nil, diags
		}
		impl := name + "Impl"
		r.register(name, impl+"*", &diags)
		return &OpaqueDecl{Name: impl}, diags

	case 1:
		child := children[0]
		switch {
		case child.Kind() == cast.StructDecl || child.Kind() == cast.EnumDecl:
			if cast.IsAnonymous(declName(child)) {
				return r.anonymousTypedef(name, child, underlying, &diags), diags
			}
			// typedef struct { ... } A; the aggregate registered itself.
		case child.Kind() == cast.TypeRef && underlying != nil && underlying.Kind() == cast.Pointer:
			// typedef struct AImpl* A;
			target, _ := r.resolve(underlying, &diags)
			r.register(name, target, &diags)
		default:
			diags.add(UnsupportedShape, name, "typedef of %s through %s", spellingOf(underlying), child.Kind())
		}

	default:
		// typedef int (*Callback)(int, int); every use site collapses to the
		// handle type, so nothing is emitted.
		if isFunctionPointer(underlying) {
			r.log.Debugw("function pointer typedef not emitted", "name", name)
			return nil, diags
		}
		diags.add(UnsupportedShape, name, "typedef of %s with %d children", spellingOf(underlying), len(children))
	}

	return nil, diags
}

// anonymousTypedef handles typedef struct { ... } *PA; the struct is
// emitted as PAImpl and PA maps to a pointer to it. Anonymous enums are
// already named by the enum emitter.
func (r *run) anonymousTypedef(name string, agg cast.Cursor, underlying cast.Type, diags *Diagnostics) Decl {
	if underlying == nil || underlying.Kind() != cast.Pointer {
		r.claimed[agg] = true
		diags.add(UnsupportedShape, name, "typedef of %s", spellingOf(underlying))
		return nil
	}

	var decl Decl
	if agg.Kind() == cast.StructDecl && !r.claimed[agg] {
		r.claimed[agg] = true
		impl := name + "Impl"
		r.register(declName(agg), impl, diags)
		decl = r.structDecl(agg, impl, diags)
	}

	target, _ := r.resolve(underlying, diags)
	r.register(name, target, diags)
	return decl
}

func isFunctionPointer(t cast.Type) bool {
	if t == nil {
		return false
	}
	c := t.Canonical()
	return c != nil && c.Kind() == cast.Pointer && isFunction(c.Pointee())
}

func spellingOf(t cast.Type) string {
	if t == nil {
		return "<no type>"
	}
	return t.Spelling()
}
