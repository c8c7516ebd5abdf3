package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ardanlabs/bindgen/cast"
)

func newDumpCmd(configPath *string) *cobra.Command {
	var system bool

	cmd := &cobra.Command{
		Use:   "dump [header]",
		Short: "Print the cursor tree of a C header",
		Long: `Print the cursor tree bindgen sees for a C header, one cursor per line
indented by depth: kind, spelling and type spelling.

Declarations from system headers are left out unless --system is set.

Examples:
  bindgen dump api.h
  bindgen dump api.h --preprocess --cpp-args "-I include"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, *configPath, args)
			if err != nil {
				return err
			}
			root, err := parseHeader(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			dumpTree(cmd.OutOrStdout(), root, system)
			return nil
		},
	}

	addSourceFlags(cmd.Flags())
	cmd.Flags().BoolVar(&system, "system", false, "Include declarations from system headers")

	return cmd
}

// dumpTree writes one line per cursor below root.
func dumpTree(w io.Writer, root cast.Cursor, system bool) {
	cast.Walk(root, func(c cast.Cursor, depth int) bool {
		if depth == 1 && c.InSystemHeader() && !system {
			return false
		}
		fmt.Fprintln(w, dumpLine(c, depth))
		return true
	})
}

func dumpLine(c cast.Cursor, depth int) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(c.Kind().String())
	if s := c.Spelling(); s != "" {
		fmt.Fprintf(&b, " %s", s)
	}
	if t := c.Type(); t != nil && t.Spelling() != "" {
		fmt.Fprintf(&b, " [%s]", t.Spelling())
	}
	if loc := c.Location(); !loc.IsZero() && depth == 1 {
		fmt.Fprintf(&b, " %s", loc)
	}
	return b.String()
}
