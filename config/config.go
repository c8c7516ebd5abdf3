// Package config loads bindgen settings from bindgen.toml, BINDGEN_*
// environment variables and command line flags.
package config

import (
	"path/filepath"
	"strings"

	"github.com/ardanlabs/bindgen/bindgen"
	"github.com/ardanlabs/bindgen/generator"
	"github.com/ardanlabs/bindgen/parser"
)

// FileName is the project configuration file looked up from the working
// directory upwards.
const FileName = "bindgen.toml"

// Config is the full bindgen configuration.
type Config struct {
	Header    string `mapstructure:"header" toml:"header"`
	Output    string `mapstructure:"output" toml:"output"`       // directory; empty writes to stdout
	Target    string `mapstructure:"target" toml:"target"`       // csharp or go
	Namespace string `mapstructure:"namespace" toml:"namespace"` // C# namespace or Go package
	Library   string `mapstructure:"library" toml:"library"`     // defaults to the header's base name
	ClassName string `mapstructure:"class_name" toml:"class_name"`

	HandleType       string `mapstructure:"handle_type" toml:"handle_type"`
	PointerWidthType string `mapstructure:"pointer_width_type" toml:"pointer_width_type"`
	EscapePrefix     string `mapstructure:"escape_prefix" toml:"escape_prefix"`
	AnonymousEnum    string `mapstructure:"anonymous_enum" toml:"anonymous_enum"` // prefix for unnamed enums

	Preprocess PreprocessConfig `mapstructure:"preprocess" toml:"preprocess"`

	// SystemPaths are path prefixes whose declarations are skipped like
	// system headers.
	SystemPaths []string `mapstructure:"system_paths" toml:"system_paths"`

	// Symbols is a file the symbol table is exported to as YAML.
	Symbols string `mapstructure:"symbols" toml:"symbols"`
}

// PreprocessConfig controls running the C preprocessor before parsing.
type PreprocessConfig struct {
	Enabled bool   `mapstructure:"enabled" toml:"enabled"`
	Command string `mapstructure:"command" toml:"command"`
	Args    string `mapstructure:"args" toml:"args"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Target:    string(generator.CSharp),
		Namespace: "Bindings",
		ClassName: "NativeMethods",
		Preprocess: PreprocessConfig{
			Command: parser.DefaultPreprocessor,
		},
		SystemPaths: []string{},
	}
}

// LibraryName returns the configured library, or the header file name
// without its extension.
func (c *Config) LibraryName() string {
	if c.Library != "" {
		return c.Library
	}
	base := filepath.Base(c.Header)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// GeneratorTarget returns the parsed target. Call Validate first.
func (c *Config) GeneratorTarget() generator.Target {
	t, err := generator.ParseTarget(c.Target)
	if err != nil {
		return generator.CSharp
	}
	return t
}

// BindgenOptions returns the lowering options for the target with the
// configured overrides applied.
func (c *Config) BindgenOptions() bindgen.Options {
	opts := c.GeneratorTarget().BindgenOptions()
	if c.HandleType != "" {
		opts.HandleType = c.HandleType
	}
	if c.PointerWidthType != "" {
		opts.PointerWidthType = c.PointerWidthType
	}
	if c.EscapePrefix != "" {
		opts.EscapePrefix = c.EscapePrefix
	}
	if c.AnonymousEnum != "" {
		opts.AnonymousEnum = c.AnonymousEnum
	}
	return opts
}

// GeneratorOptions returns the rendering options.
func (c *Config) GeneratorOptions() generator.Options {
	target := c.GeneratorTarget()
	namespace := c.Namespace
	if target == generator.Go && namespace == Default().Namespace {
		namespace = strings.ToLower(namespace)
	}
	return generator.Options{
		Target:    target,
		Namespace: namespace,
		Library:   c.LibraryName(),
		ClassName: c.ClassName,
	}
}

// ParserOptions returns the frontend options for the configured header.
func (c *Config) ParserOptions() parser.Options {
	return parser.Options{
		Filename:    c.Header,
		SystemPaths: c.SystemPaths,
	}
}

// PreprocessOptions returns the preprocessor invocation.
func (c *Config) PreprocessOptions() parser.PreprocessOptions {
	return parser.PreprocessOptions{
		Command: c.Preprocess.Command,
		Args:    c.Preprocess.Args,
	}
}
