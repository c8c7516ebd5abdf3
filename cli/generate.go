package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ardanlabs/bindgen/bindgen"
	"github.com/ardanlabs/bindgen/config"
	"github.com/ardanlabs/bindgen/generator"
	"github.com/ardanlabs/bindgen/logger"
)

type generateOptions struct {
	watch  bool
	strict bool
}

func newGenerateCmd(configPath *string) *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate [header]",
		Short: "Generate bindings for a C header",
		Long: `Generate bindings for a C header.

Enums, structs, opaque handles and functions declared outside system headers
are rendered for the target language. Constructs bindgen cannot map are
reported as diagnostics and replaced by a best-effort fallback.

Examples:
  bindgen generate api.h                           # C# to stdout
  bindgen generate api.h -o Native --namespace Api # C# into Native/
  bindgen generate api.h -o api --target go        # Go package into api/
  bindgen generate api.h --symbols symbols.yaml    # Also export the symbol table
  bindgen generate api.h -o out --watch            # Regenerate on every save
  bindgen generate api.h --strict                  # Fail on any diagnostic`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, *configPath, args)
			if err != nil {
				return err
			}

			genErr := runGenerate(cmd.Context(), cmd, cfg, opts)
			if !opts.watch {
				return genErr
			}
			if genErr != nil {
				pterm.Error.WithWriter(cmd.ErrOrStderr()).Println(genErr.Error())
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()
			return watchHeader(ctx, cfg.Header, func() {
				if err := runGenerate(ctx, cmd, cfg, opts); err != nil {
					pterm.Error.WithWriter(cmd.ErrOrStderr()).Println(err.Error())
				}
			})
		},
	}

	flags := cmd.Flags()
	addSourceFlags(flags)
	addTargetFlags(flags)
	flags.String("symbols", "", "Write the symbol table as YAML to this file")
	flags.BoolVarP(&opts.watch, "watch", "w", false, "Regenerate when the header changes")
	flags.BoolVar(&opts.strict, "strict", false, "Exit non-zero when there are diagnostics")

	return cmd
}

// runGenerate performs one generation and writes its outputs.
func runGenerate(ctx context.Context, cmd *cobra.Command, cfg *config.Config, opts generateOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	b, err := runBuild(ctx, cfg)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()

	if cfg.Output == "" {
		if err := printFiles(cmd.OutOrStdout(), b.files); err != nil {
			return err
		}
	} else {
		paths, err := generator.Write(cfg.Output, b.files)
		if err != nil {
			return err
		}
		for _, path := range paths {
			pterm.Success.WithWriter(stderr).Printfln("Generated: %s", path)
		}
	}

	if cfg.Symbols != "" {
		if err := writeSymbols(cfg.Symbols, b.result.Symbols); err != nil {
			return err
		}
		pterm.Success.WithWriter(stderr).Printfln("Symbols: %s", cfg.Symbols)
	}

	reportDiagnostics(stderr, b.result.Diagnostics)

	if opts.strict && len(b.result.Diagnostics) > 0 {
		return errors.WithHint(
			errors.Wrapf(b.result.Err(), "%d diagnostics in %s", len(b.result.Diagnostics), cfg.Header),
			"rerun without --strict to keep the best-effort output")
	}
	return nil
}

// printFiles writes every file to w in name order, each preceded by a
// comment naming it.
func printFiles(w io.Writer, files map[string]string) error {
	for i, name := range generator.Names(files) {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return errors.Wrap(err, "failed to write output")
			}
		}
		if _, err := fmt.Fprintf(w, "// %s\n%s", name, files[name]); err != nil {
			return errors.Wrap(err, "failed to write output")
		}
	}
	return nil
}

func writeSymbols(path string, table *bindgen.SymbolTable) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	if err := generator.WriteSymbols(f, table); err != nil {
		f.Close()
		return errors.Wrapf(err, "failed to write symbols to %s", path)
	}
	return errors.Wrapf(f.Close(), "failed to write symbols to %s", path)
}

func reportDiagnostics(w io.Writer, diags bindgen.Diagnostics) {
	if len(diags) == 0 {
		logger.Debugw("No diagnostics")
		return
	}
	for _, d := range diags {
		fmt.Fprintln(w, d.FormatTerminal())
	}
	pterm.Warning.WithWriter(w).Printfln("%d diagnostics (%d unsupported, %d unresolved, %d invariant)",
		len(diags),
		diags.Count(bindgen.UnsupportedShape),
		diags.Count(bindgen.UnresolvedSymbol),
		diags.Count(bindgen.InvariantViolation))
}
