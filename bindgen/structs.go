package bindgen

import "github.com/ardanlabs/bindgen/cast"

func (r *run) emitStruct(c cast.Cursor) (Decl, Diagnostics) {
	var diags Diagnostics

	name := declName(c)
	switch {
	case name == "":
		diags.add(InvariantViolation, "", "anonymous struct without a typedef name")
		return nil, diags
	case cast.IsAnonymous(name):
		// typedef struct { ... } *PA; the typedef names it.
		r.anonymous = append(r.anonymous, c)
		return nil, diags
	}

	if !c.IsDefinition() {
		if _, ok := r.symbols.Lookup(name); ok {
			// Redeclaration of a name already registered.
			return nil, diags
		}
		if c.Definition() != nil {
			// struct A; ahead of struct A { ... }; the name is usable from
			// here on and the definition emits.
			r.register(name, name, &diags)
			r.forwarded[name] = true
			r.log.Debugw("forward declaration registered", "name", name)
			return nil, diags
		}
	}

	// Registered before the fields so struct Node { struct Node* next; }
	// resolves.
	if r.forwarded[name] {
		delete(r.forwarded, name)
	} else {
		r.register(name, name, &diags)
	}

	return r.structDecl(c, name, &diags), diags
}

// structDecl lowers the fields of c into a struct named name.
func (r *run) structDecl(c cast.Cursor, name string, diags *Diagnostics) *StructDecl {
	decl := &StructDecl{Name: name}
	for _, child := range c.Children() {
		switch child.Kind() {
		case cast.FieldDecl:
		case cast.StructDecl, cast.UnionDecl, cast.EnumDecl:
			diags.add(UnsupportedShape, name, "nested %s inside struct", child.Kind())
			continue
		default:
			diags.add(InvariantViolation, name, "unexpected %s in struct body", child.Kind())
			continue
		}

		ft := child.Type()
		typeName, suffix := r.resolve(ft, diags)
		if isDataPointer(ft) || suffix != "" {
			decl.Unsafe = true
		}

		decl.Fields = append(decl.Fields, Field{
			Name:   r.opts.Escape(child.Spelling()),
			Type:   typeName,
			Suffix: suffix,
		})
	}
	return decl
}
