package cli

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ardanlabs/bindgen/config"
	"github.com/ardanlabs/bindgen/generator"
)

func newInitCmd() *cobra.Command {
	var (
		path   string
		header string
		target string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default bindgen.toml",
		Long: `Write a bindgen.toml with the default settings to the working directory.
An existing file is never overwritten.

Examples:
  bindgen init
  bindgen init --header include/api.h --target go`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			cfg.Header = header
			if target != "" {
				t, err := generator.ParseTarget(target)
				if err != nil {
					return err
				}
				cfg.Target = string(t)
			}

			if err := config.Write(path, cfg); err != nil {
				return err
			}
			pterm.Success.WithWriter(cmd.ErrOrStderr()).Printfln("Wrote %s", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", config.FileName, "File to write")
	cmd.Flags().StringVar(&header, "header", "", "Header to record in the file")
	cmd.Flags().StringVarP(&target, "target", "t", "", "Target language: csharp, go")

	return cmd
}
