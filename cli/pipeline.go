package cli

import (
	"context"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ardanlabs/bindgen/bindgen"
	"github.com/ardanlabs/bindgen/cast"
	"github.com/ardanlabs/bindgen/config"
	"github.com/ardanlabs/bindgen/generator"
	"github.com/ardanlabs/bindgen/logger"
	"github.com/ardanlabs/bindgen/parser"
)

// addSourceFlags registers the flags every command that reads a header
// shares.
func addSourceFlags(flags *pflag.FlagSet) {
	flags.String("header", "", "C header to read (or pass it as the first argument)")
	flags.Bool("preprocess", false, "Run the C preprocessor before parsing")
	flags.String("cpp", "", "Preprocessor command (default \"cc -E\")")
	flags.String("cpp-args", "", "Extra preprocessor arguments, e.g. \"-I include -DAPI=\"")
}

// addTargetFlags registers the flags that shape rendered output.
func addTargetFlags(flags *pflag.FlagSet) {
	flags.StringP("output", "o", "", "Output directory (default: stdout)")
	flags.StringP("target", "t", "", "Target language: csharp, go")
	flags.String("namespace", "", "C# namespace or Go package name")
	flags.String("library", "", "Native library name (default: header file name)")
	flags.String("class-name", "", "C# class holding the function imports")
}

// loadConfig loads and validates the configuration for cmd. A positional
// argument overrides the header.
func loadConfig(cmd *cobra.Command, configPath string, args []string) (*config.Config, error) {
	if len(args) > 0 {
		if err := cmd.Flags().Set("header", args[0]); err != nil {
			return nil, errors.Wrap(err, "failed to set header")
		}
	}

	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseHeader reads the configured header, preprocessing it when enabled,
// and parses it.
func parseHeader(ctx context.Context, cfg *config.Config) (*cast.Node, error) {
	var src []byte
	if cfg.Preprocess.Enabled {
		opts := cfg.PreprocessOptions()
		opts.Logger = logger.Logger
		out, err := parser.Preprocess(ctx, opts, cfg.Header)
		if err != nil {
			return nil, err
		}
		src = out
	} else {
		data, err := os.ReadFile(cfg.Header)
		if err != nil {
			return nil, errors.WithHint(
				errors.Wrapf(err, "failed to read header %s", cfg.Header),
				"check the header path or the header key in "+config.FileName)
		}
		src = data
	}

	opts := cfg.ParserOptions()
	opts.Logger = logger.Logger
	return parser.Parse(src, opts)
}

// build is the outcome of one generation.
type build struct {
	result *bindgen.Result
	files  map[string]string
}

// runBuild parses the header, lowers it and renders the target files.
func runBuild(ctx context.Context, cfg *config.Config) (*build, error) {
	root, err := parseHeader(ctx, cfg)
	if err != nil {
		return nil, err
	}

	bopts := cfg.BindgenOptions()
	bopts.Logger = logger.Logger
	res := bindgen.Generate(root, bopts)

	gopts := cfg.GeneratorOptions()
	gopts.Logger = logger.Logger
	files, err := generator.New(gopts, res).Generate()
	if err != nil {
		return nil, err
	}

	logger.Infow("Generated bindings",
		"header", cfg.Header,
		"target", gopts.Target,
		"declarations", res.Document.Len(),
		"functions", len(res.Functions),
		"diagnostics", len(res.Diagnostics))

	return &build{result: res, files: files}, nil
}
