package generator

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"github.com/cockroachdb/errors"
	"golang.org/x/tools/imports"

	"github.com/ardanlabs/bindgen/bindgen"
)

// Go output file names.
const (
	goLoaderFile    = "loader.go"
	goTypesFile     = "types.go"
	goFunctionsFile = "functions.go"
)

// goType is the Go spelling of a lowered type and the libffi descriptor
// passed for it.
type goType struct {
	name string
	ffi  string
}

var goPrimitives = map[string]goType{
	"void":    {"", "&ffi.TypeVoid"},
	"bool":    {"bool", "&ffi.TypeUint8"},
	"byte":    {"uint8", "&ffi.TypeUint8"},
	"sbyte":   {"int8", "&ffi.TypeSint8"},
	"char":    {"uint16", "&ffi.TypeUint16"},
	"short":   {"int16", "&ffi.TypeSint16"},
	"ushort":  {"uint16", "&ffi.TypeUint16"},
	"int":     {"int32", "&ffi.TypeSint32"},
	"uint":    {"uint32", "&ffi.TypeUint32"},
	"long":    {"int64", "&ffi.TypeSint64"},
	"ulong":   {"uint64", "&ffi.TypeUint64"},
	"uint64":  {"uint64", "&ffi.TypeUint64"},
	"float":   {"float32", "&ffi.TypeFloat"},
	"double":  {"float64", "&ffi.TypeDouble"},
	"IntPtr":  {"uintptr", "&ffi.TypePointer"},
	"uintptr": {"uintptr", "&ffi.TypePointer"},
}

var pointerType = goType{"uintptr", "&ffi.TypePointer"}

// Go types returned through an ffi.Arg: libffi widens integral returns
// smaller than a register.
var widenedReturns = map[string]bool{
	"bool": true, "int8": true, "uint8": true, "int16": true, "uint16": true,
	"int32": true, "uint32": true,
}

var (
	identRe     = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)
	intSuffixRe = regexp.MustCompile(`\b(0[xX][0-9a-fA-F]+|[0-9]+)[uUlL]+\b`)
)

// goRenderer holds the lookups shared by the three Go files.
type goRenderer struct {
	*Generator
	constants map[string]string
}

func (g *Generator) generateGo() (map[string]string, error) {
	r := &goRenderer{
		Generator: g,
		constants: make(map[string]string),
	}
	for _, decl := range g.result.Document.Decls() {
		if e, ok := decl.(*bindgen.EnumDecl); ok {
			for _, c := range e.Constants {
				r.constants[c.Name] = toGoName(c.Name)
			}
		}
	}

	files := make(map[string]string)

	loaderCode, err := r.generateLoader()
	if err != nil {
		return nil, errors.Wrap(err, "generating loader")
	}
	files[goLoaderFile] = loaderCode

	typesCode, err := format(goTypesFile, r.generateTypes())
	if err != nil {
		return nil, errors.Wrap(err, "generating types")
	}
	files[goTypesFile] = typesCode

	funcsCode, err := format(goFunctionsFile, r.generateFunctions())
	if err != nil {
		return nil, errors.Wrap(err, "generating functions")
	}
	files[goFunctionsFile] = funcsCode

	return files, nil
}

// format gofmts a rendered file and sorts its imports.
func format(filename string, src []byte) (string, error) {
	out, err := imports.Process(filename, src, &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return "", errors.WithDetail(errors.Wrapf(err, "formatting %s", filename), string(src))
	}
	return string(out), nil
}

var loaderTmpl = template.Must(template.New("loader").Parse(`package {{.Package}}

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/jupiterrider/ffi"
)

var lib ffi.Lib

// Load opens the {{.LibName}} library found in dir and resolves every bound
// function.
func Load(dir string) error {
	var err error
	lib, err = ffi.Load(libraryPath(dir))
	if err != nil {
		return fmt.Errorf("failed to load library: %w", err)
	}

	if err := loadFuncs(); err != nil {
		return err
	}

	return nil
}

func libraryPath(dir string) string {
	var filename string
	switch runtime.GOOS {
	case "darwin":
		filename = "lib{{.LibName}}.dylib"
	case "windows":
		filename = "{{.LibName}}.dll"
	default:
		filename = "lib{{.LibName}}.so"
	}
	return filepath.Join(dir, filename)
}
`))

func (r *goRenderer) generateLoader() (string, error) {
	var buf bytes.Buffer
	err := loaderTmpl.Execute(&buf, map[string]string{
		"Package": r.opts.Namespace,
		"LibName": r.opts.Library,
	})
	if err != nil {
		return "", err
	}

	return format(goLoaderFile, buf.Bytes())
}

// typeOf maps a lowered type name such as "Point*" or "HandleImpl*" to Go.
func (r *goRenderer) typeOf(name string) goType {
	base := strings.TrimRight(name, "*")
	depth := len(name) - len(base)

	if t, ok := goPrimitives[base]; ok && depth == 0 {
		return t
	}

	decl, known := r.result.Document.Lookup(base)
	switch {
	case depth > 1:
		return pointerType

	case depth == 1:
		if !known {
			return pointerType
		}
		if r.isStructValue(decl) {
			return goType{"*" + toGoName(base), pointerType.ffi}
		}
		if _, ok := decl.(*bindgen.EnumDecl); ok {
			return pointerType
		}
		return goType{toGoName(base), pointerType.ffi}
	}

	switch d := decl.(type) {
	case *bindgen.EnumDecl:
		return goType{toGoName(base), "&ffi.TypeSint32"}
	case *bindgen.StructDecl:
		if r.isStructValue(d) {
			return goType{toGoName(base), "&FFIType" + toGoName(base)}
		}
		return goType{toGoName(base), pointerType.ffi}
	case *bindgen.OpaqueDecl:
		return goType{toGoName(base), pointerType.ffi}
	}
	return pointerType
}

// isStructValue reports whether decl renders as a Go struct rather than an
// opaque uintptr handle.
func (r *goRenderer) isStructValue(decl bindgen.Decl) bool {
	s, ok := decl.(*bindgen.StructDecl)
	return ok && len(s.Fields) > 0
}

func (r *goRenderer) generateTypes() []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "package %s\n\n", r.opts.Namespace)
	for _, decl := range r.result.Document.Decls() {
		if r.isStructValue(decl) {
			fmt.Fprintf(&buf, "import \"github.com/jupiterrider/ffi\"\n\n")
			break
		}
	}

	for _, decl := range r.result.Document.Decls() {
		switch d := decl.(type) {
		case *bindgen.EnumDecl:
			r.writeEnum(&buf, d)

		case *bindgen.StructDecl:
			if !r.isStructValue(d) {
				fmt.Fprintf(&buf, "type %s uintptr\n\n", toGoName(d.Name))
				continue
			}
			r.writeStruct(&buf, d)

		case *bindgen.OpaqueDecl:
			fmt.Fprintf(&buf, "type %s uintptr\n\n", toGoName(d.Name))
		}
	}

	return buf.Bytes()
}

func (r *goRenderer) writeStruct(buf *bytes.Buffer, s *bindgen.StructDecl) {
	name := toGoName(s.Name)

	fmt.Fprintf(buf, "type %s struct {\n", name)
	for _, f := range s.Fields {
		t := r.typeOf(f.Type)
		fmt.Fprintf(buf, "\t%s %s%s\n", toGoName(f.Name), f.Suffix, t.name)
	}
	fmt.Fprintf(buf, "}\n\n")

	fmt.Fprintf(buf, "var FFIType%s = ffi.NewType(\n", name)
	for _, f := range s.Fields {
		t := r.typeOf(f.Type)
		for i := 0; i < arrayLen(f.Suffix); i++ {
			fmt.Fprintf(buf, "\t%s,\n", t.ffi)
		}
	}
	fmt.Fprintf(buf, ")\n\n")
}

// arrayLen returns N for a "[N]" suffix and 1 for a scalar. libffi has no
// array type; a fixed buffer is described by repeating its element.
func arrayLen(suffix string) int {
	if suffix == "" {
		return 1
	}
	var n int
	if _, err := fmt.Sscanf(suffix, "[%d]", &n); err != nil || n < 0 {
		return 1
	}
	return n
}

func (r *goRenderer) writeEnum(buf *bytes.Buffer, e *bindgen.EnumDecl) {
	name := toGoName(e.Name)
	fmt.Fprintf(buf, "type %s int32\n\n", name)
	if len(e.Constants) == 0 {
		return
	}

	explicit := false
	for _, c := range e.Constants {
		if c.Value != "" {
			explicit = true
		}
	}

	fmt.Fprintf(buf, "const (\n")
	for i, c := range e.Constants {
		constName := toGoName(c.Name)
		switch {
		case c.Value != "":
			fmt.Fprintf(buf, "\t%s %s = %s\n", constName, name, r.goExpr(c.Value))
		case !explicit && i == 0:
			fmt.Fprintf(buf, "\t%s %s = iota\n", constName, name)
		case !explicit:
			fmt.Fprintf(buf, "\t%s\n", constName)
		case i == 0:
			fmt.Fprintf(buf, "\t%s %s = 0\n", constName, name)
		default:
			fmt.Fprintf(buf, "\t%s %s = %s + 1\n", constName, name, toGoName(e.Constants[i-1].Name))
		}
	}
	fmt.Fprintf(buf, ")\n\n")
}

// goExpr rewrites a C enum initializer for Go: integer suffixes are dropped
// and references to enum constants take their Go names.
func (r *goRenderer) goExpr(value string) string {
	value = intSuffixRe.ReplaceAllString(value, "$1")
	return identRe.ReplaceAllStringFunc(value, func(id string) string {
		if goName, ok := r.constants[id]; ok {
			return goName
		}
		return id
	})
}

// bound returns the functions that get wrappers. Variadic functions are
// left out.
func (r *goRenderer) bound() []bindgen.FunctionSignature {
	var fns []bindgen.FunctionSignature
	for _, fn := range r.result.Functions {
		if !fn.Variadic {
			fns = append(fns, fn)
		}
	}
	return fns
}

func (r *goRenderer) generateFunctions() []byte {
	var buf bytes.Buffer
	fns := r.bound()

	fmt.Fprintf(&buf, "package %s\n\n", r.opts.Namespace)

	if len(fns) == 0 {
		fmt.Fprintf(&buf, "func loadFuncs() error {\n\treturn nil\n}\n")
		r.writeSkipped(&buf)
		return buf.Bytes()
	}

	fmt.Fprintf(&buf, "import (\n")
	fmt.Fprintf(&buf, "\t\"fmt\"\n")
	if usesUnsafe(fns) {
		fmt.Fprintf(&buf, "\t\"unsafe\"\n")
	}
	fmt.Fprintf(&buf, "\n")
	fmt.Fprintf(&buf, "\t\"github.com/jupiterrider/ffi\"\n")
	if r.usesStrings(fns) {
		fmt.Fprintf(&buf, "\t\"golang.org/x/sys/unix\"\n")
	}
	fmt.Fprintf(&buf, ")\n\n")

	fmt.Fprintf(&buf, "var (\n")
	for _, fn := range fns {
		fmt.Fprintf(&buf, "\t%s ffi.Fun\n", funcVar(fn.Name))
	}
	fmt.Fprintf(&buf, ")\n\n")

	fmt.Fprintf(&buf, "func loadFuncs() error {\n")
	fmt.Fprintf(&buf, "\tvar err error\n\n")

	for _, fn := range fns {
		args := []string{r.typeOf(fn.ReturnType).ffi}
		for _, p := range fn.Params {
			args = append(args, r.typeOf(p.Type).ffi)
		}

		fmt.Fprintf(&buf, "\tif %s, err = lib.Prep(%q, %s); err != nil {\n",
			funcVar(fn.Name), fn.Name, strings.Join(args, ", "))
		fmt.Fprintf(&buf, "\t\treturn fmt.Errorf(\"%s: %%w\", err)\n", fn.Name)
		fmt.Fprintf(&buf, "\t}\n\n")
	}

	fmt.Fprintf(&buf, "\treturn nil\n")
	fmt.Fprintf(&buf, "}\n\n")

	for _, fn := range fns {
		fmt.Fprintf(&buf, "%s\n", r.generateFunctionWrapper(fn))
	}
	r.writeSkipped(&buf)

	return buf.Bytes()
}

func (r *goRenderer) writeSkipped(buf *bytes.Buffer) {
	for _, fn := range r.result.Functions {
		if fn.Variadic {
			fmt.Fprintf(buf, "\n// %s is variadic and has no binding.\n", fn.Name)
		}
	}
}

func (r *goRenderer) usesStrings(fns []bindgen.FunctionSignature) bool {
	for _, fn := range fns {
		if isString(fn.ReturnType) {
			return true
		}
		for _, p := range fn.Params {
			if isString(p.Type) {
				return true
			}
		}
	}
	return false
}

// usesUnsafe reports whether any wrapper passes a result or an argument.
func usesUnsafe(fns []bindgen.FunctionSignature) bool {
	for _, fn := range fns {
		if fn.ReturnType != "void" || len(fn.Params) > 0 {
			return true
		}
	}
	return false
}

func funcVar(name string) string {
	return toLowerCamel(name) + "Func"
}

// isString reports whether a lowered type is a C string.
func isString(name string) bool {
	return name == "sbyte*"
}

func (r *goRenderer) generateFunctionWrapper(fn bindgen.FunctionSignature) string {
	var buf bytes.Buffer

	ret := r.typeOf(fn.ReturnType)
	if isString(fn.ReturnType) {
		ret.name = "string"
	}
	hasReturn := ret.name != ""

	names := make([]string, len(fn.Params))
	var params []string
	for i, p := range fn.Params {
		names[i] = toGoParam(p.Name)
		goTyp := r.typeOf(p.Type).name
		if isString(p.Type) {
			goTyp = "string"
		}
		params = append(params, fmt.Sprintf("%s %s", names[i], goTyp))
	}

	if hasReturn {
		fmt.Fprintf(&buf, "func %s(%s) %s {\n", toGoName(fn.Name), strings.Join(params, ", "), ret.name)
	} else {
		fmt.Fprintf(&buf, "func %s(%s) {\n", toGoName(fn.Name), strings.Join(params, ", "))
	}

	for i, p := range fn.Params {
		if isString(p.Type) {
			fmt.Fprintf(&buf, "\t%sPtr, _ := unix.BytePtrFromString(%s)\n", names[i], names[i])
		}
	}

	widened := hasReturn && widenedReturns[ret.name]
	if decl, ok := r.result.Document.Lookup(fn.ReturnType); ok {
		if _, isEnum := decl.(*bindgen.EnumDecl); isEnum {
			widened = true
		}
	}

	callArgs := []string{"nil"}
	switch {
	case !hasReturn:
	case isString(fn.ReturnType):
		fmt.Fprintf(&buf, "\tvar resultPtr *byte\n")
		callArgs[0] = "unsafe.Pointer(&resultPtr)"
	case widened:
		fmt.Fprintf(&buf, "\tvar result ffi.Arg\n")
		callArgs[0] = "unsafe.Pointer(&result)"
	default:
		fmt.Fprintf(&buf, "\tvar result %s\n", ret.name)
		callArgs[0] = "unsafe.Pointer(&result)"
	}

	for i, p := range fn.Params {
		if isString(p.Type) {
			callArgs = append(callArgs, fmt.Sprintf("unsafe.Pointer(&%sPtr)", names[i]))
			continue
		}
		callArgs = append(callArgs, fmt.Sprintf("unsafe.Pointer(&%s)", names[i]))
	}

	fmt.Fprintf(&buf, "\t%s.Call(%s)\n", funcVar(fn.Name), strings.Join(callArgs, ", "))

	switch {
	case !hasReturn:
	case isString(fn.ReturnType):
		fmt.Fprintf(&buf, "\tif resultPtr == nil {\n")
		fmt.Fprintf(&buf, "\t\treturn \"\"\n")
		fmt.Fprintf(&buf, "\t}\n")
		fmt.Fprintf(&buf, "\treturn unix.BytePtrToString(resultPtr)\n")
	case widened && ret.name == "bool":
		fmt.Fprintf(&buf, "\treturn result.Bool()\n")
	case widened:
		fmt.Fprintf(&buf, "\treturn %s(result)\n", ret.name)
	default:
		fmt.Fprintf(&buf, "\treturn result\n")
	}

	fmt.Fprintf(&buf, "}\n")

	return buf.String()
}
