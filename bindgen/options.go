package bindgen

import "go.uber.org/zap"

// Defaults for Options.
const (
	DefaultHandleType       = "IntPtr"
	DefaultPointerWidthType = "ulong"
	DefaultEscapePrefix     = "@"
	DefaultAnonymousEnum    = "AnonymousEnum"
)

// Options configures a generation run. The zero value selects C#
// conventions.
type Options struct {
	// HandleType is the name every function pointer collapses to.
	HandleType string

	// PointerWidthType replaces void* elements of fixed buffers.
	PointerWidthType string

	// Keywords are the target's reserved words; field and parameter names in
	// this set get EscapePrefix prepended.
	Keywords     map[string]struct{}
	EscapePrefix string

	// AnonymousEnum prefixes the names given to enums declared without a
	// name or typedef, numbered from 1: enum { FLAG_A }; becomes
	// AnonymousEnum1.
	AnonymousEnum string

	Logger *zap.SugaredLogger
}

func (o Options) withDefaults() Options {
	if o.HandleType == "" {
		o.HandleType = DefaultHandleType
	}
	if o.PointerWidthType == "" {
		o.PointerWidthType = DefaultPointerWidthType
	}
	if o.Keywords == nil {
		o.Keywords = CSharpKeywords
	}
	if o.EscapePrefix == "" {
		o.EscapePrefix = DefaultEscapePrefix
	}
	if o.AnonymousEnum == "" {
		o.AnonymousEnum = DefaultAnonymousEnum
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop().Sugar()
	}
	return o
}

// Escape prefixes name when it collides with a reserved word.
func (o Options) Escape(name string) string {
	if _, ok := o.Keywords[name]; ok {
		return o.EscapePrefix + name
	}
	return name
}

func keywordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// CSharpKeywords are the reserved keywords of C#.
var CSharpKeywords = keywordSet(
	"abstract", "as", "base", "bool", "break", "byte", "case", "catch",
	"char", "checked", "class", "const", "continue", "decimal", "default",
	"delegate", "do", "double", "else", "enum", "event", "explicit",
	"extern", "false", "finally", "fixed", "float", "for", "foreach",
	"goto", "if", "implicit", "in", "int", "interface", "internal", "is",
	"lock", "long", "namespace", "new", "null", "object", "operator",
	"out", "override", "params", "private", "protected", "public",
	"readonly", "ref", "return", "sbyte", "sealed", "short", "sizeof",
	"stackalloc", "static", "string", "struct", "switch", "this", "throw",
	"true", "try", "typeof", "uint", "ulong", "unchecked", "unsafe",
	"ushort", "using", "virtual", "void", "volatile", "while",
)

// GoKeywords are the reserved keywords of Go.
var GoKeywords = keywordSet(
	"break", "case", "chan", "const", "continue", "default", "defer",
	"else", "fallthrough", "for", "func", "go", "goto", "if", "import",
	"interface", "map", "package", "range", "return", "select", "struct",
	"switch", "type", "var",
)
