package generator

import (
	"strings"
	"unicode"

	"github.com/ardanlabs/bindgen/bindgen"
)

var acronyms = map[string]bool{
	"id": true, "url": true, "api": true, "http": true, "json": true, "xml": true,
	"sql": true, "io": true, "ip": true, "tcp": true, "udp": true,
}

// goReserved are names a generated wrapper cannot use for parameters.
var goReserved = map[string]struct{}{
	"unsafe": {}, "ffi": {}, "unix": {}, "fmt": {}, "result": {}, "resultPtr": {}, "err": {},
}

func isUnderscore(r rune) bool {
	return r == '_'
}

// toGoName converts a C identifier to an exported Go name: snake case
// parts are capitalized and joined, SHOUTING parts are lowered first and
// known acronyms stay upper case.
func toGoName(name string) string {
	var b strings.Builder
	for _, part := range strings.FieldsFunc(name, isUnderscore) {
		b.WriteString(capitalize(part))
	}
	return validIdent(b.String(), "X")
}

// toLowerCamel converts a C identifier to an unexported Go name.
func toLowerCamel(name string) string {
	parts := strings.FieldsFunc(name, isUnderscore)
	if len(parts) == 0 {
		return ""
	}

	first := parts[0]
	switch {
	case acronyms[strings.ToLower(first)], first == strings.ToUpper(first):
		first = strings.ToLower(first)
	default:
		runes := []rune(first)
		runes[0] = unicode.ToLower(runes[0])
		first = string(runes)
	}

	var b strings.Builder
	b.WriteString(first)
	for _, part := range parts[1:] {
		b.WriteString(capitalize(part))
	}
	return validIdent(b.String(), "x")
}

// toGoParam names a wrapper parameter, escaping keywords and the names the
// wrapper body uses itself.
func toGoParam(name string) string {
	p := toLowerCamel(name)
	if p == "" {
		return "arg"
	}
	if _, ok := goReserved[p]; ok {
		return "_" + p
	}
	if _, ok := bindgen.GoKeywords[p]; ok {
		return "_" + p
	}
	return p
}

func capitalize(part string) string {
	lower := strings.ToLower(part)
	if acronyms[lower] {
		return strings.ToUpper(part)
	}
	if part == strings.ToUpper(part) {
		part = lower
	}
	runes := []rune(part)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func validIdent(s, prefix string) string {
	if s == "" {
		return ""
	}
	if unicode.IsDigit(rune(s[0])) {
		return prefix + s
	}
	return s
}
