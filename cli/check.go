package cli

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ardanlabs/bindgen/generator"
)

func newCheckCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [header]",
		Short: "Check that generated bindings are up to date",
		Long: `Check that the files in the output directory match what generate would
write now. Nothing is written.

Exit codes:
  0 - Bindings are up to date
  1 - Bindings are missing or out of date, or the check failed

Examples:
  bindgen check api.h -o Native
  bindgen check                    # header and output from bindgen.toml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, *configPath, args)
			if err != nil {
				return err
			}
			if cfg.Output == "" {
				return errors.WithHint(
					errors.New("check needs an output directory"),
					"pass --output or set output in bindgen.toml")
			}

			b, err := runBuild(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			stale, err := generator.Stale(cfg.Output, b.files)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(stale) == 0 {
				pterm.Success.WithWriter(out).Println("Bindings are up to date")
				return nil
			}

			pterm.Error.WithWriter(out).Println("Bindings are out of date")
			for _, name := range stale {
				fmt.Fprintf(out, "  - %s\n", name)
			}
			return errors.WithHint(
				errors.Newf("%d generated files in %s are out of date", len(stale), cfg.Output),
				"run 'bindgen generate' to update them")
		},
	}

	addSourceFlags(cmd.Flags())
	addTargetFlags(cmd.Flags())

	return cmd
}
