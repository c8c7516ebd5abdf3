// Package bindgen lowers a parsed C header into declarations for a target
// language.
//
// A run walks the direct children of the translation unit once. Enums,
// structs, typedefs and functions each go to their emitter; the emitters
// register names in a SymbolTable, append blocks to a Document, collect
// FunctionSignatures and ask the Resolver for member, parameter and return
// types. Anything outside the recognized shapes becomes a Diagnostic and a
// best-effort fallback; a run always completes.
package bindgen

import (
	"go.uber.org/zap"

	"github.com/ardanlabs/bindgen/cast"
)

// Result is everything one run produced.
type Result struct {
	Symbols     *SymbolTable
	Document    *Document
	Functions   []FunctionSignature
	Diagnostics Diagnostics
}

// Count returns the number of diagnostics of the given kind.
func (r *Result) Count(kind DiagnosticKind) int {
	return r.Diagnostics.Count(kind)
}

// Err combines every diagnostic into one error, nil for a clean run.
func (r *Result) Err() error {
	return r.Diagnostics.Err()
}

// Generator walks translation units. It holds configuration only; every
// call to Run starts with an empty symbol table and document.
type Generator struct {
	opts Options
	log  *zap.SugaredLogger
}

// New returns a Generator.
func New(opts Options) *Generator {
	opts = opts.withDefaults()
	return &Generator{opts: opts, log: opts.Logger}
}

// Generate runs a Generator with opts over root.
func Generate(root cast.Cursor, opts Options) *Result {
	return New(opts).Run(root)
}

// run is the mutable state of one generation.
type run struct {
	*Generator
	symbols   *SymbolTable
	doc       *Document
	functions []FunctionSignature
	resolver  *Resolver
	diags     Diagnostics

	// forwarded holds tags registered by a forward declaration whose
	// definition has not been emitted yet.
	forwarded map[string]bool

	// anonymous holds top-level anonymous structs in order; claimed marks
	// those a pointer typedef has named.
	anonymous []cast.Cursor
	claimed   map[cast.Cursor]bool

	anonymousEnums int
}

// Run visits every direct child of root. Declarations from system headers
// are skipped, other declaration kinds are ignored.
func (g *Generator) Run(root cast.Cursor) *Result {
	symbols := NewSymbolTable()
	r := &run{
		Generator: g,
		symbols:   symbols,
		doc:       &Document{},
		resolver:  NewResolver(symbols, g.opts),
		forwarded: make(map[string]bool),
		claimed:   make(map[cast.Cursor]bool),
	}

	for _, child := range root.Children() {
		if child.InSystemHeader() {
			continue
		}

		var (
			decl  Decl
			sig   *FunctionSignature
			diags Diagnostics
		)
		switch child.Kind() {
		case cast.EnumDecl:
			decl, diags = r.emitEnum(child)
		case cast.StructDecl:
			decl, diags = r.emitStruct(child)
		case cast.TypedefDecl:
			decl, diags = r.emitTypedef(child)
		case cast.FunctionDecl:
			sig, diags = r.emitFunction(child)
		default:
			continue
		}

		if decl != nil {
			r.doc.Append(decl)
		}
		if sig != nil {
			r.functions = append(r.functions, *sig)
		}

		g.log.Debugw("declaration emitted",
			"kind", child.Kind().String(),
			"name", child.Spelling(),
			"diagnostics", len(diags))
		r.record(child, diags)
	}

	for _, c := range r.anonymous {
		if r.claimed[c] {
			continue
		}
		var diags Diagnostics
		diags.add(InvariantViolation, declName(c), "anonymous struct without a typedef name")
		r.record(c, diags)
	}

	g.log.Debugw("generation finished",
		"symbols", symbols.Len(),
		"declarations", r.doc.Len(),
		"functions", len(r.functions),
		"diagnostics", len(r.diags))

	return &Result{
		Symbols:     r.symbols,
		Document:    r.doc,
		Functions:   r.functions,
		Diagnostics: r.diags,
	}
}

// record stamps diagnostics that carry no position with the location of
// the top-level declaration they came from.
func (r *run) record(c cast.Cursor, diags Diagnostics) {
	for _, d := range diags {
		if d.Location.IsZero() {
			d.Location = c.Location()
		}
		if d.Subject == "" {
			d.Subject = c.Spelling()
		}
		r.log.Warnw(d.Message,
			"kind", string(d.Kind),
			"subject", d.Subject,
			"location", d.Location.String())
	}
	r.diags = append(r.diags, diags...)
}

// register adds foreign → target, turning a duplicate into a diagnostic.
func (r *run) register(foreign, target string, diags *Diagnostics) {
	if err := r.symbols.Register(foreign, target); err != nil {
		diags.add(InvariantViolation, foreign, "%v", err)
	}
}

// resolve forwards to the resolver and keeps its diagnostics.
func (r *run) resolve(t cast.Type, diags *Diagnostics) (string, string) {
	name, suffix, d := r.resolver.Resolve(t)
	*diags = append(*diags, d...)
	return name, suffix
}

// declName names an enum or struct: its spelling, or for an anonymous
// aggregate the spelling of its own type. That is the typedef name for
// typedef struct { ... } A; and an "(anonymous at ...)" spelling otherwise.
func declName(c cast.Cursor) string {
	if name := c.Spelling(); name != "" {
		return name
	}
	if t := c.Type(); t != nil {
		return t.Spelling()
	}
	return ""
}
