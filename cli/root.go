// Package cli implements the bindgen command line.
package cli

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ardanlabs/bindgen/logger"
)

// RootCmd is the bindgen command.
var RootCmd = NewRootCmd()

// NewRootCmd builds a fresh command tree. Every call gets its own flag
// state.
func NewRootCmd() *cobra.Command {
	var (
		configPath string
		verbosity  int
		jsonLog    bool
	)

	cmd := &cobra.Command{
		Use:   "bindgen",
		Short: "Generate language bindings from C headers",
		Long: `Generate language bindings from C headers.

bindgen parses a C header and emits enum, struct, handle and function
declarations for a target language. Supported targets: csharp, go.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (BINDGEN_* prefix)
3. bindgen.toml (--config, or found from the working directory upwards)
4. Default values

Examples:
  bindgen generate api.h                      # C# bindings to stdout
  bindgen generate api.h -o out --target go   # Go bindings into out/
  bindgen check -o out                        # Fail when out/ is stale
  bindgen dump api.h                          # Print the parsed cursor tree
  bindgen init                                # Write a default bindgen.toml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := logger.Initialize(jsonLog, verbosity); err != nil {
				return errors.Wrap(err, "failed to initialize logger")
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Cleanup()
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: bindgen.toml from the working directory upwards)")
	cmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	cmd.PersistentFlags().BoolVar(&jsonLog, "json-log", false, "Log as JSON")

	cmd.AddCommand(newGenerateCmd(&configPath))
	cmd.AddCommand(newCheckCmd(&configPath))
	cmd.AddCommand(newDumpCmd(&configPath))
	cmd.AddCommand(newInitCmd())

	return cmd
}
