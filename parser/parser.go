// Package parser turns C header text into a cast tree using tree-sitter's C
// grammar.
//
// The tree follows libclang's cursor layout closely enough for the binding
// generator: top-level declarations hang off a translation unit, typedefs
// carry the aggregate or type reference they alias as children, and enum
// constants carry their initializer expression. Input that went through the
// C preprocessor keeps its GNU linemarkers, which give every cursor its
// original file and line and flag declarations from system headers.
package parser

import (
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_c "github.com/tree-sitter/tree-sitter-c/bindings/go"
	"go.uber.org/zap"

	"github.com/ardanlabs/bindgen/cast"
)

// Options configures a parse.
type Options struct {
	// Filename names the input in locations until the first linemarker.
	Filename string

	// SystemPaths are path prefixes whose declarations count as coming from
	// a system header, on top of linemarker flag 3.
	SystemPaths []string

	Logger *zap.SugaredLogger
}

func (o Options) withDefaults() Options {
	if o.Filename == "" {
		o.Filename = "<input>"
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop().Sugar()
	}
	return o
}

func (o Options) isSystemPath(file string) bool {
	for _, p := range o.SystemPaths {
		if p != "" && strings.HasPrefix(file, p) {
			return true
		}
	}
	return false
}

// Parse parses C source into a translation unit. Syntax errors do not fail
// the parse; declarations tree-sitter could recover are still returned.
func Parse(src []byte, opts Options) (*cast.Node, error) {
	opts = opts.withDefaults()
	start := time.Now()

	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(sitter.NewLanguage(tree_sitter_c.Language())); err != nil {
		return nil, errors.Wrap(err, "failed to load C grammar")
	}

	src, lines := scanLinemarkers(src, opts)

	tree := parser.Parse(src, nil)
	if tree == nil {
		return nil, errors.Newf("tree-sitter returned no tree for %s", opts.Filename)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, errors.Newf("tree-sitter returned an empty tree for %s", opts.Filename)
	}

	b := newBuilder(src, lines, opts)
	b.unit(root)

	if root.HasError() {
		opts.Logger.Warnw("header has syntax errors, recovered what could be parsed",
			"file", opts.Filename)
	}
	opts.Logger.Debugw("header parsed",
		"file", opts.Filename,
		"bytes", len(src),
		"declarations", len(b.root.Nodes()),
		"duration", time.Since(start))

	return b.root, nil
}

// ParseFile reads and parses the file at path.
func ParseFile(path string, opts Options) (*cast.Node, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read header %s", path)
	}
	if opts.Filename == "" {
		opts.Filename = path
	}
	return Parse(src, opts)
}
