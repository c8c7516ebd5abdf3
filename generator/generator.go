// Package generator renders a bindgen.Result into source files for a target
// language: C# P/Invoke declarations or Go bindings over
// github.com/jupiterrider/ffi.
package generator

import (
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/ardanlabs/bindgen/bindgen"
)

// Target names an output language.
type Target string

const (
	CSharp Target = "csharp"
	Go     Target = "go"
)

// ParseTarget maps a configured target name to a Target.
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csharp", "cs", "c#":
		return CSharp, nil
	case "go", "golang":
		return Go, nil
	}
	return "", errors.WithHint(
		errors.Newf("unknown target %q", s),
		"supported targets are csharp and go")
}

// BindgenOptions returns the lowering options a target expects. Callers
// override individual fields from configuration.
func (t Target) BindgenOptions() bindgen.Options {
	if t == Go {
		return bindgen.Options{
			HandleType:       "uintptr",
			PointerWidthType: "uint64",
			Keywords:         bindgen.GoKeywords,
			EscapePrefix:     "_",
		}
	}
	return bindgen.Options{}
}

// Options configures rendering.
type Options struct {
	Target Target

	// Namespace is the C# namespace or the Go package name.
	Namespace string

	// Library is the native library the functions are loaded from, e.g.
	// "calc" for libcalc.so.
	Library string

	// ClassName is the C# class holding the extern functions.
	ClassName string

	Logger *zap.SugaredLogger
}

func (o Options) withDefaults() Options {
	if o.Target == "" {
		o.Target = CSharp
	}
	if o.Namespace == "" {
		o.Namespace = "bindings"
		if o.Target == CSharp {
			o.Namespace = "Bindings"
		}
	}
	if o.ClassName == "" {
		o.ClassName = "NativeMethods"
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop().Sugar()
	}
	return o
}

// Generator renders one Result.
type Generator struct {
	opts   Options
	result *bindgen.Result
}

// New returns a Generator for result.
func New(opts Options, result *bindgen.Result) *Generator {
	return &Generator{
		opts:   opts.withDefaults(),
		result: result,
	}
}

// Generate returns the rendered files keyed by file name.
func (g *Generator) Generate() (map[string]string, error) {
	if g.result == nil {
		return nil, errors.New("nothing to generate: missing result")
	}

	var (
		files map[string]string
		err   error
	)
	switch g.opts.Target {
	case CSharp:
		files, err = g.generateCSharp()
	case Go:
		files, err = g.generateGo()
	default:
		return nil, errors.Newf("unknown target %q", g.opts.Target)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "generating %s", g.opts.Target)
	}

	g.opts.Logger.Debugw("Rendered files",
		"target", string(g.opts.Target),
		"files", len(files),
		"declarations", g.result.Document.Len(),
		"functions", len(g.result.Functions))

	return files, nil
}
