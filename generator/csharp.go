package generator

import (
	"bytes"
	"fmt"

	"github.com/ardanlabs/bindgen/bindgen"
)

// C# output file names.
const (
	csharpTypesFile = "NativeTypes.cs"
	csharpExt       = ".cs"
)

const indentUnit = "    "

// writer appends indented lines to a shared buffer. in returns a writer one
// level deeper over the same buffer.
type writer struct {
	buf    *bytes.Buffer
	indent string
}

func newWriter() writer {
	return writer{buf: &bytes.Buffer{}}
}

func (w writer) in() writer {
	return writer{buf: w.buf, indent: w.indent + indentUnit}
}

func (w writer) line(format string, args ...any) {
	w.buf.WriteString(w.indent)
	fmt.Fprintf(w.buf, format, args...)
	w.buf.WriteByte('\n')
}

func (w writer) blank() {
	w.buf.WriteByte('\n')
}

func (g *Generator) generateCSharp() (map[string]string, error) {
	files := make(map[string]string)
	files[csharpTypesFile] = g.csharpTypes()
	files[g.opts.ClassName+csharpExt] = g.csharpMethods()
	return files, nil
}

// csharpFile writes the usings and the namespace wrapper and calls body
// with a writer at the declaration indentation.
func (g *Generator) csharpFile(body func(w writer)) string {
	w := newWriter()
	w.line("using System;")
	w.line("using System.Runtime.InteropServices;")
	w.blank()

	if g.opts.Namespace == "" {
		body(w)
		return w.buf.String()
	}

	w.line("namespace %s", g.opts.Namespace)
	w.line("{")
	body(w.in())
	w.line("}")
	return w.buf.String()
}

func (g *Generator) csharpTypes() string {
	return g.csharpFile(func(w writer) {
		for i, decl := range g.result.Document.Decls() {
			if i > 0 {
				w.blank()
			}
			switch d := decl.(type) {
			case *bindgen.EnumDecl:
				csharpEnum(w, d)
			case *bindgen.StructDecl:
				csharpStruct(w, d)
			case *bindgen.OpaqueDecl:
				w.line("internal struct %s { }", d.Name)
			}
		}
	})
}

func csharpEnum(w writer, d *bindgen.EnumDecl) {
	if len(d.Constants) == 0 {
		w.line("internal enum %s { }", d.Name)
		return
	}

	w.line("internal enum %s", d.Name)
	w.line("{")
	for _, l := range d.Lines() {
		w.in().line("%s", l)
	}
	w.line("}")
}

func csharpStruct(w writer, d *bindgen.StructDecl) {
	w.line("[StructLayout(LayoutKind.Sequential)]")

	modifiers := "internal"
	if d.Unsafe {
		modifiers += " unsafe"
	}

	if len(d.Fields) == 0 {
		w.line("%s struct %s { }", modifiers, d.Name)
		return
	}

	w.line("%s struct %s", modifiers, d.Name)
	w.line("{")
	for _, f := range d.Fields {
		if f.Suffix != "" {
			w.in().line("public fixed %s %s%s;", f.Type, f.Name, f.Suffix)
			continue
		}
		w.in().line("public %s %s;", f.Type, f.Name)
	}
	w.line("}")
}

func (g *Generator) csharpMethods() string {
	return g.csharpFile(func(w writer) {
		w.line("internal static unsafe class %s", g.opts.ClassName)
		w.line("{")

		body := w.in()
		body.line("private const string DllName = %q;", g.opts.Library)

		for _, fn := range g.result.Functions {
			body.blank()
			csharpFunction(body, fn)
		}

		w.line("}")
	})
}

func csharpFunction(w writer, fn bindgen.FunctionSignature) {
	w.line("[DllImport(DllName, CallingConvention = CallingConvention.Cdecl)]")

	params := make([]string, 0, len(fn.Params)+1)
	for _, p := range fn.Params {
		params = append(params, fmt.Sprintf("%s %s%s", p.Type, p.Name, p.Suffix))
	}
	if fn.Variadic {
		params = append(params, "__arglist")
	}

	if len(params) == 0 {
		w.line("public static extern %s %s();", fn.ReturnType, fn.Name)
		return
	}

	w.line("public static extern %s %s(", fn.ReturnType, fn.Name)
	last := len(params) - 1
	for i, p := range params {
		sep := ","
		if i == last {
			sep = ");"
		}
		w.in().line("%s%s", p, sep)
	}
}
